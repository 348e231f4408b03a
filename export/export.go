// Package export renders create and drop DDL scripts from a finalized
// schema model.
//
// Tables are converted to atlas schema structures and planned with the
// atlas driver of the target dialect. Schemas, user-defined types,
// sequences, auxiliary objects and init commands are placed around them:
//
//	create: schemas, auxiliary objects created before tables, user-defined
//	        types in dependency order, sequences, tables, the remaining
//	        auxiliary objects, init commands
//	drop:   auxiliary objects created after tables, tables, sequences,
//	        user-defined types, auxiliary objects created before tables
//
// Schemas are never dropped.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	atlas "ariga.io/atlas/sql/schema"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/relmodel"
	"github.com/syssam/relmodel/dialect"
	"github.com/syssam/relmodel/schema"
)

// Script is an ordered list of DDL statements.
type Script struct {
	Statements []string
}

func (s *Script) add(stmts ...string) {
	for _, stmt := range stmts {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			s.Statements = append(s.Statements, stmt)
		}
	}
}

// String returns the statements, each terminated by a semicolon and a newline.
func (s *Script) String() string {
	var b strings.Builder
	for _, stmt := range s.Statements {
		b.WriteString(strings.TrimSuffix(stmt, ";"))
		b.WriteString(";\n")
	}
	return b.String()
}

type config struct {
	dialect dialect.Dialect
	logger  *slog.Logger
}

// Option configures an Exporter.
type Option func(*config)

// WithDialect renders DDL for d instead of the model's dialect.
func WithDialect(d dialect.Dialect) Option {
	return func(c *config) {
		c.dialect = d
	}
}

// WithLogger sets the logger. The model's logger is used by default.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// Exporter renders DDL scripts for a finalized model. It only reads the
// model and can be used from several goroutines.
type Exporter struct {
	db      *schema.Database
	dialect dialect.Dialect
	drv     *driver
	gen     *schema.GenerationContext
	log     *slog.Logger
}

// New returns an Exporter for db. The model must be finalized.
func New(db *schema.Database, opts ...Option) (*Exporter, error) {
	if !db.IsFinalized() {
		return nil, relmodel.ErrNotFinalized
	}
	cfg := &config{dialect: db.Dialect(), logger: db.Logger()}
	for _, opt := range opts {
		opt(cfg)
	}
	drv, err := driverFor(cfg.dialect)
	if err != nil {
		return nil, err
	}
	pn := db.DefaultNamespace().PhysicalName()
	return &Exporter{
		db:      db,
		dialect: cfg.dialect,
		drv:     drv,
		gen:     schema.NewGenerationContext(cfg.dialect, pn.Catalog, pn.Schema),
		log:     cfg.logger.With("dialect", drv.name),
	}, nil
}

// Create returns the script creating the model.
func (e *Exporter) Create(ctx context.Context) (*Script, error) {
	parts, err := e.collect(ctx)
	if err != nil {
		return nil, err
	}
	s := &Script{}
	if err := e.createSchemas(ctx, parts, s); err != nil {
		return nil, err
	}
	for _, aux := range e.auxiliary(true) {
		s.add(aux.SQLCreateStrings(e.gen)...)
	}
	for _, p := range parts {
		s.add(p.createTypes...)
	}
	for _, p := range parts {
		s.add(p.createSequences...)
	}
	plan, err := e.planTables(ctx, "create", parts)
	if err != nil {
		return nil, err
	}
	for _, c := range plan.Changes {
		s.add(c.Cmd)
	}
	for _, aux := range e.auxiliary(false) {
		s.add(aux.SQLCreateStrings(e.gen)...)
	}
	for _, cmd := range e.db.InitCommands() {
		s.add(cmd.Statements...)
	}
	e.log.Debug("create script rendered", "statements", len(s.Statements))
	return s, nil
}

// Drop returns the script dropping the model.
func (e *Exporter) Drop(ctx context.Context) (*Script, error) {
	parts, err := e.collect(ctx)
	if err != nil {
		return nil, err
	}
	s := &Script{}
	for _, aux := range reversed(e.auxiliary(false)) {
		s.add(aux.SQLDropStrings(e.gen)...)
	}
	plan, err := e.planTables(ctx, "drop", parts)
	if err != nil {
		return nil, err
	}
	for _, c := range reversed(plan.Changes) {
		switch r := c.Reverse.(type) {
		case string:
			s.add(r)
		case []string:
			s.add(r...)
		}
	}
	for _, p := range reversed(parts) {
		s.add(p.dropSequences...)
	}
	for _, p := range reversed(parts) {
		s.add(p.dropTypes...)
	}
	for _, aux := range reversed(e.auxiliary(true)) {
		s.add(aux.SQLDropStrings(e.gen)...)
	}
	e.log.Debug("drop script rendered", "statements", len(s.Statements))
	return s, nil
}

// auxiliary returns the auxiliary objects for the target dialect that are
// created before tables, or after them.
func (e *Exporter) auxiliary(beforeTables bool) []schema.AuxiliaryDatabaseObject {
	var objs []schema.AuxiliaryDatabaseObject
	for _, aux := range e.db.AuxiliaryDatabaseObjects() {
		if aux.BeforeTablesOnCreation() == beforeTables && aux.AppliesToDialect(e.dialect) {
			objs = append(objs, aux)
		}
	}
	return objs
}

// namespaceDDL is what one namespace contributes to the scripts.
type namespaceDDL struct {
	ns              *schema.Namespace
	schema          *atlas.Schema
	tables          []*schema.Table
	converted       map[*schema.Table]*atlas.Table
	createTypes     []string
	dropTypes       []string
	createSequences []string
	dropSequences   []string
}

// collect renders every namespace in parallel. The model is read-only once
// finalized, so the goroutines share it without locking.
func (e *Exporter) collect(ctx context.Context) ([]*namespaceDDL, error) {
	nss := e.db.Namespaces()
	parts := make([]*namespaceDDL, len(nss))
	g, ctx := errgroup.WithContext(ctx)
	for i, ns := range nss {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := e.namespace(ns)
			if err != nil {
				return fmt.Errorf("export: namespace %s: %w", ns, err)
			}
			parts[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return parts, nil
}

func (e *Exporter) namespace(ns *schema.Namespace) (*namespaceDDL, error) {
	p := &namespaceDDL{
		ns:        ns,
		schema:    &atlas.Schema{},
		converted: make(map[*schema.Table]*atlas.Table),
	}
	if e.drv.schemas {
		p.schema.Name = ns.PhysicalName().Schema.Text
	}
	for _, t := range ns.Tables() {
		if t.IsAbstract() {
			continue
		}
		at, err := e.table(t, p.schema)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", t, err)
		}
		p.tables = append(p.tables, t)
		p.converted[t] = at
		p.schema.Tables = append(p.schema.Tables, at)
	}
	if err := e.userDefinedTypes(ns, p); err != nil {
		return nil, err
	}
	e.sequences(ns, p)
	return p, nil
}

// createSchemas adds the creation of every named schema.
func (e *Exporter) createSchemas(ctx context.Context, parts []*namespaceDDL, s *Script) error {
	var changes []atlas.Change
	for _, p := range parts {
		if p.schema.Name != "" {
			changes = append(changes, &atlas.AddSchema{S: p.schema, Extra: []atlas.Clause{&atlas.IfNotExists{}}})
		}
	}
	if len(changes) == 0 {
		return nil
	}
	plan, err := e.drv.planner.PlanChanges(ctx, "schemas", changes)
	if err != nil {
		return fmt.Errorf("export: plan schemas: %w", err)
	}
	for _, c := range plan.Changes {
		s.add(c.Cmd)
	}
	return nil
}

func (e *Exporter) userDefinedTypes(ns *schema.Namespace, p *namespaceDDL) error {
	udts, err := ns.DependencyOrderedUserDefinedTypes()
	if err != nil {
		return err
	}
	if len(udts) == 0 {
		return nil
	}
	if !e.drv.udts {
		e.log.Warn("dialect has no user-defined types, skipping them", "namespace", ns.String(), "types", len(udts))
		return nil
	}
	for _, u := range udts {
		name := e.gen.Format(u.Name())
		switch u := u.(type) {
		case *schema.UserDefinedObjectType:
			cols := make([]string, 0, len(u.Columns()))
			for _, c := range u.Columns() {
				typ, err := e.drv.typeString(c)
				if err != nil {
					return fmt.Errorf("type %s column %s: %w", name, c, err)
				}
				cols = append(cols, e.gen.FormatIdentifier(c.Name)+" "+typ)
			}
			p.createTypes = append(p.createTypes, fmt.Sprintf("CREATE TYPE %s AS (%s)", name, strings.Join(cols, ", ")))
			p.dropTypes = append(p.dropTypes, fmt.Sprintf("DROP TYPE IF EXISTS %s", name))
		case *schema.UserDefinedArrayType:
			elem, err := e.drv.rawType(u.ElementType(), schema.Size{})
			if err != nil {
				return fmt.Errorf("type %s: %w", name, err)
			}
			p.createTypes = append(p.createTypes, fmt.Sprintf("CREATE DOMAIN %s AS %s[]", name, elem))
			p.dropTypes = append(p.dropTypes, fmt.Sprintf("DROP DOMAIN IF EXISTS %s", name))
		}
	}
	// Dependents go first on drop.
	slices.Reverse(p.dropTypes)
	return nil
}

func (e *Exporter) sequences(ns *schema.Namespace, p *namespaceDDL) {
	seqs := ns.Sequences()
	if len(seqs) == 0 {
		return
	}
	if !e.drv.sequences {
		e.log.Warn("dialect has no sequences, skipping them", "namespace", ns.String(), "sequences", len(seqs))
		return
	}
	for _, seq := range seqs {
		name := e.gen.Format(seq.Name())
		stmt := fmt.Sprintf("CREATE SEQUENCE %s START WITH %d INCREMENT BY %d", name, seq.InitialValue(), seq.IncrementSize())
		if opts := seq.Options(); opts != "" {
			stmt += " " + opts
		}
		p.createSequences = append(p.createSequences, stmt)
		p.dropSequences = append(p.dropSequences, fmt.Sprintf("DROP SEQUENCE IF EXISTS %s", name))
	}
}

func reversed[T any](s []T) []T {
	r := slices.Clone(s)
	slices.Reverse(r)
	return r
}
