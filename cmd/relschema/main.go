// Command relschema boots a schema model from a YAML mapping document and
// prints the DDL that creates or drops it.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/syssam/relmodel/dialect"
	"github.com/syssam/relmodel/export"
	"github.com/syssam/relmodel/mapping"
	"github.com/syssam/relmodel/schema"
)

type options struct {
	file    string
	dialect string
	output  string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "relschema",
		Short:         "Boot a relational schema model and render its DDL",
		Long:          `relschema loads a YAML mapping document, builds and validates the schema model it describes, and prints the create or drop script for PostgreSQL, MySQL or SQLite.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "YAML mapping document (required)")
	root.PersistentFlags().StringVar(&opts.dialect, "dialect", "", "Target dialect (default: the document's dialect)")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "", "Output file (default: stdout)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log model construction to stderr")
	_ = root.MarkPersistentFlagRequired("file")

	root.AddCommand(
		&cobra.Command{
			Use:   "create",
			Short: "Print the create script",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return script(cmd, opts, (*export.Exporter).Create)
			},
		},
		&cobra.Command{
			Use:   "drop",
			Short: "Print the drop script",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return script(cmd, opts, (*export.Exporter).Drop)
			},
		},
		&cobra.Command{
			Use:   "check",
			Short: "Validate the model and summarize its namespaces",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return check(cmd, opts)
			},
		},
	)
	return root
}

func (o *options) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func (o *options) build(cmd *cobra.Command) (*schema.Database, error) {
	doc, err := mapping.LoadFile(o.file)
	if err != nil {
		return nil, err
	}
	db, err := doc.Build(schema.WithLogger(o.logger(cmd)))
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", o.file, err)
	}
	return db, nil
}

func (o *options) exporter(cmd *cobra.Command) (*export.Exporter, error) {
	db, err := o.build(cmd)
	if err != nil {
		return nil, err
	}
	var eopts []export.Option
	if o.dialect != "" {
		d, ok := dialect.ByName(o.dialect)
		if !ok {
			return nil, fmt.Errorf("unknown dialect %q", o.dialect)
		}
		eopts = append(eopts, export.WithDialect(d))
	}
	return export.New(db, eopts...)
}

type render func(*export.Exporter, context.Context) (*export.Script, error)

func script(cmd *cobra.Command, opts *options, fn render) error {
	e, err := opts.exporter(cmd)
	if err != nil {
		return err
	}
	s, err := fn(e, cmd.Context())
	if err != nil {
		return err
	}
	return opts.write(cmd, s.String())
}

func check(cmd *cobra.Command, opts *options) error {
	db, err := opts.build(cmd)
	if err != nil {
		return err
	}
	var out string
	for _, ns := range db.Namespaces() {
		out += fmt.Sprintf("%s: %d tables, %d sequences, %d types\n",
			ns, len(ns.Tables()), len(ns.Sequences()), len(ns.UserDefinedTypes()))
	}
	out += fmt.Sprintf("%d derived tables, %d auxiliary objects, %d init commands\n",
		len(db.DerivedTables()), len(db.AuxiliaryDatabaseObjects()), len(db.InitCommands()))
	return opts.write(cmd, out)
}

func (o *options) write(cmd *cobra.Command, s string) (err error) {
	var w io.Writer = cmd.OutOrStdout()
	if o.output != "" {
		f, cerr := os.Create(o.output)
		if cerr != nil {
			return fmt.Errorf("create output file: %w", cerr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close output file: %w", cerr)
			}
		}()
		w = f
	}
	_, err = io.WriteString(w, s)
	return err
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "relschema:", err)
		os.Exit(1)
	}
}
