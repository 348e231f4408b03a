package mapping

import (
	"fmt"
	"strings"

	"github.com/syssam/relmodel/dialect"
	"github.com/syssam/relmodel/naming"
	"github.com/syssam/relmodel/schema"
	"github.com/syssam/relmodel/schema/ordering"
)

// typeAliases maps common spellings to type codes.
var typeAliases = map[string]schema.Code{
	"INT":         schema.Integer,
	"INT4":        schema.Integer,
	"INT8":        schema.BigInt,
	"INT2":        schema.SmallInt,
	"BOOL":        schema.Boolean,
	"STRING":      schema.VarChar,
	"TEXT":        schema.LongVarChar,
	"BYTES":       schema.VarBinary,
	"TIMESTAMPTZ": schema.TimestampTZ,
	"TIMETZ":      schema.TimeTZ,
}

// ParseCode returns the type code for name, matched case-insensitively
// against the code names and a few common aliases.
func ParseCode(name string) (schema.Code, bool) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if c, ok := schema.CodeByName(upper); ok {
		return c, true
	}
	c, ok := typeAliases[upper]
	return c, ok
}

// Options returns the schema options described by the document header.
func (d *Document) Options() ([]schema.Option, error) {
	var opts []schema.Option
	if d.Dialect != "" {
		dl, ok := dialect.ByName(d.Dialect)
		if !ok {
			return nil, fmt.Errorf("mapping: unknown dialect %q", d.Dialect)
		}
		opts = append(opts, schema.WithDialect(dl))
	}
	switch d.Naming {
	case "", "identity":
		opts = append(opts, schema.WithNamingStrategy(naming.Identity{}))
	case "snake_case", "camel_case_to_underscores":
		opts = append(opts, schema.WithNamingStrategy(naming.CamelCaseToUnderscores{}))
	default:
		return nil, fmt.Errorf("mapping: unknown naming strategy %q", d.Naming)
	}
	s, ok := ordering.ByName(d.ColumnOrdering)
	if !ok {
		return nil, fmt.Errorf("mapping: unknown column ordering %q", d.ColumnOrdering)
	}
	opts = append(opts, schema.WithColumnOrdering(s))

	var hopts []naming.HelperOption
	if d.Identifiers.GlobalQuoting {
		hopts = append(hopts, naming.GloballyQuote())
	}
	if len(d.Identifiers.Keywords) > 0 {
		hopts = append(hopts, naming.AutoQuoteKeywords(d.Identifiers.Keywords...))
	}
	switch d.Identifiers.Case {
	case "", "mixed":
	case "lower":
		hopts = append(hopts, naming.WithCaseStrategy(naming.CaseLower))
	case "upper":
		hopts = append(hopts, naming.WithCaseStrategy(naming.CaseUpper))
	default:
		return nil, fmt.Errorf("mapping: unknown identifier case %q", d.Identifiers.Case)
	}
	opts = append(opts,
		schema.WithHelper(naming.NewHelper(hopts...)),
		schema.WithImplicitNamespace(d.ImplicitNamespace.Catalog, d.ImplicitNamespace.Schema),
	)
	return opts, nil
}

// Build creates a Database from the document and finalizes it. The extra
// options are applied after the document's own.
func (d *Document) Build(extra ...schema.Option) (*schema.Database, error) {
	opts, err := d.Options()
	if err != nil {
		return nil, err
	}
	db := schema.New(append(opts, extra...)...)
	b := &builder{db: db}
	if err := b.build(d); err != nil {
		return nil, err
	}
	if err := db.Finalize(); err != nil {
		return nil, fmt.Errorf("mapping: %w", err)
	}
	return db, nil
}

type builder struct {
	db *schema.Database
}

func (b *builder) id(text string) naming.Identifier {
	return b.db.ToIdentifier(text)
}

func (b *builder) namespace(ref NamespaceRef) (*schema.Namespace, error) {
	return b.db.LocateNamespace(b.id(ref.Catalog), b.id(ref.Schema))
}

func (b *builder) build(d *Document) error {
	// Types and tables are registered in every namespace first, so columns
	// and foreign keys can refer to objects defined later in the document.
	nss := make([]*schema.Namespace, len(d.Namespaces))
	for i, def := range d.Namespaces {
		ns, err := b.namespace(def.NamespaceRef)
		if err != nil {
			return err
		}
		nss[i] = ns
		if err := b.registerTypes(ns, def.Types); err != nil {
			return err
		}
		if err := b.registerSequences(ns, def.Sequences); err != nil {
			return err
		}
		for _, t := range def.Tables {
			if _, err := b.registerTable(ns, def.Tables, t, nil); err != nil {
				return err
			}
		}
	}
	for i, def := range d.Namespaces {
		if err := b.defineTypes(nss[i], def.Types); err != nil {
			return err
		}
		for _, t := range def.Tables {
			if err := b.defineTable(nss[i], t); err != nil {
				return err
			}
		}
	}
	for i, def := range d.Namespaces {
		for _, t := range def.Tables {
			if err := b.defineForeignKeys(nss[i], t); err != nil {
				return err
			}
		}
	}
	for _, dt := range d.DerivedTables {
		if _, err := b.db.AddDerivedTable(dt.Contributor, b.id(dt.Name), dt.Expression, dt.Abstract); err != nil {
			return fmt.Errorf("mapping: derived table %q: %w", dt.Name, err)
		}
	}
	for _, a := range d.AuxiliaryObjects {
		if err := b.addAuxiliary(a); err != nil {
			return err
		}
	}
	for _, stmts := range d.InitCommands {
		if err := b.db.AddInitCommand(schema.InitCommand{Statements: stmts}); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) registerTypes(ns *schema.Namespace, defs []TypeDef) error {
	for _, def := range defs {
		logical := b.id(def.Name)
		var err error
		switch def.Kind {
		case "", "object":
			var u *schema.UserDefinedObjectType
			u, err = ns.CreateUserDefinedObjectType(logical, func(physical naming.Identifier) *schema.UserDefinedObjectType {
				return schema.NewUserDefinedObjectType(def.Contributor, ns, physical)
			})
			if err == nil {
				u.Comment = def.Comment
			}
		case "array":
			var u *schema.UserDefinedArrayType
			u, err = ns.CreateUserDefinedArrayType(logical, func(physical naming.Identifier) *schema.UserDefinedArrayType {
				return schema.NewUserDefinedArrayType(def.Contributor, ns, physical)
			})
			if err == nil {
				u.Comment = def.Comment
			}
		default:
			err = fmt.Errorf("unknown kind %q", def.Kind)
		}
		if err != nil {
			return fmt.Errorf("mapping: type %q: %w", def.Name, err)
		}
	}
	return nil
}

func (b *builder) defineTypes(ns *schema.Namespace, defs []TypeDef) error {
	for _, def := range defs {
		switch u := ns.LocateUserDefinedType(b.id(def.Name)).(type) {
		case *schema.UserDefinedObjectType:
			for _, cd := range def.Columns {
				c, err := b.column(ns, cd)
				if err != nil {
					return fmt.Errorf("mapping: type %q: %w", def.Name, err)
				}
				if _, err := u.AddColumn(c); err != nil {
					return fmt.Errorf("mapping: type %q: %w", def.Name, err)
				}
			}
		case *schema.UserDefinedArrayType:
			elem, err := b.columnType(ns, "", def.Element)
			if err != nil {
				return fmt.Errorf("mapping: type %q: %w", def.Name, err)
			}
			if err := u.SetElementType(b.typeName(ns, def.Element), elem); err != nil {
				return err
			}
			if err := u.SetArrayLength(def.Length); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *builder) registerSequences(ns *schema.Namespace, defs []SequenceDef) error {
	for _, def := range defs {
		logical := b.id(def.Name)
		if existing := ns.LocateSequence(logical); existing != nil {
			if err := existing.Validate(def.Initial, def.Increment); err != nil {
				return fmt.Errorf("mapping: %w", err)
			}
			continue
		}
		_, err := ns.CreateSequence(logical, func(physical naming.Identifier) *schema.Sequence {
			return schema.NewSequence(def.Contributor, ns, physical, def.Initial, def.Increment, def.Options)
		})
		if err != nil {
			return fmt.Errorf("mapping: %w", err)
		}
	}
	return nil
}

// registerTable creates the table for def, creating the table it extends
// first. visiting guards against extends cycles.
func (b *builder) registerTable(ns *schema.Namespace, all []TableDef, def TableDef, visiting map[string]bool) (*schema.Table, error) {
	logical := b.id(def.Name)
	if t := ns.LocateTable(logical); t != nil {
		return t, nil
	}
	if def.Extends == "" {
		t, err := ns.CreateTable(logical, func(physical naming.Identifier) *schema.Table {
			return schema.NewTable(def.Contributor, ns, physical, def.Abstract)
		})
		if err != nil {
			return nil, fmt.Errorf("mapping: table %q: %w", def.Name, err)
		}
		t.Comment = def.Comment
		return t, nil
	}
	if visiting == nil {
		visiting = make(map[string]bool)
	}
	if visiting[def.Name] {
		return nil, fmt.Errorf("mapping: table %q extends itself", def.Name)
	}
	visiting[def.Name] = true
	parent := ns.LocateTable(b.id(def.Extends))
	if parent == nil {
		i := findTable(all, def.Extends)
		if i < 0 {
			return nil, fmt.Errorf("mapping: table %q extends unknown table %q", def.Name, def.Extends)
		}
		var err error
		if parent, err = b.registerTable(ns, all, all[i], visiting); err != nil {
			return nil, err
		}
	}
	t, err := ns.CreateDenormalizedTable(logical, parent, func(physical naming.Identifier, parent *schema.Table) *schema.Table {
		return schema.NewDenormalizedTable(def.Contributor, ns, physical, def.Abstract, parent)
	})
	if err != nil {
		return nil, fmt.Errorf("mapping: table %q: %w", def.Name, err)
	}
	t.Comment = def.Comment
	return t, nil
}

func findTable(defs []TableDef, name string) int {
	for i, d := range defs {
		if d.Name == name {
			return i
		}
	}
	return -1
}

func (b *builder) defineTable(ns *schema.Namespace, def TableDef) error {
	t := ns.LocateTable(b.id(def.Name))
	wrap := func(err error) error {
		return fmt.Errorf("mapping: table %q: %w", def.Name, err)
	}
	for _, cd := range def.Columns {
		c, err := b.column(ns, cd)
		if err != nil {
			return wrap(err)
		}
		if _, err := t.AddColumn(c); err != nil {
			return wrap(err)
		}
	}
	if pk := def.PrimaryKey; pk != nil {
		cols, err := b.columns(t, pk.Columns)
		if err != nil {
			return wrap(err)
		}
		if _, err := t.SetPrimaryKey(pk.Name, cols...); err != nil {
			return wrap(err)
		}
	}
	for _, uk := range def.UniqueKeys {
		cols, err := b.columns(t, uk.Columns)
		if err != nil {
			return wrap(err)
		}
		if _, err := t.AddUniqueKey(uk.Name, cols...); err != nil {
			return wrap(err)
		}
	}
	for _, idx := range def.Indexes {
		cols, err := b.columns(t, idx.Columns)
		if err != nil {
			return wrap(err)
		}
		if _, err := t.AddIndex(idx.Name, idx.Unique, cols...); err != nil {
			return wrap(err)
		}
	}
	for _, check := range def.Checks {
		if err := t.AddCheck(check); err != nil {
			return wrap(err)
		}
	}
	return nil
}

func (b *builder) defineForeignKeys(ns *schema.Namespace, def TableDef) error {
	t := ns.LocateTable(b.id(def.Name))
	for _, fd := range def.ForeignKeys {
		wrap := func(err error) error {
			return fmt.Errorf("mapping: table %q: foreign key %q: %w", def.Name, fd.Name, err)
		}
		cols, err := b.columns(t, fd.Columns)
		if err != nil {
			return wrap(err)
		}
		target := ns
		if fd.References.Catalog != "" || fd.References.Schema != "" {
			if target, err = b.namespace(fd.References.NamespaceRef); err != nil {
				return wrap(err)
			}
		}
		ref := target.LocateTable(b.id(fd.References.Table))
		if ref == nil {
			return wrap(fmt.Errorf("unknown table %q", fd.References.Table))
		}
		refCols, err := b.columns(ref, fd.References.Columns)
		if err != nil {
			return wrap(err)
		}
		fk, err := t.AddForeignKey(fd.Name, cols, ref, refCols...)
		if err != nil {
			return wrap(err)
		}
		fk.OnDelete = schema.ReferentialAction(strings.ToUpper(fd.OnDelete))
	}
	return nil
}

func (b *builder) columns(t *schema.Table, names []string) ([]*schema.Column, error) {
	cols := make([]*schema.Column, 0, len(names))
	for _, name := range names {
		c := t.Column(b.id(name))
		if c == nil {
			return nil, fmt.Errorf("unknown column %q", name)
		}
		cols = append(cols, c)
	}
	return cols, nil
}

func (b *builder) column(ns *schema.Namespace, def ColumnDef) (*schema.Column, error) {
	typ, err := b.columnType(ns, def.Type, def.SQLType)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", def.Name, err)
	}
	c := &schema.Column{
		Name:      b.id(def.Name),
		Type:      typ,
		Length:    def.Length,
		Precision: def.Precision,
		Scale:     def.Scale,
		Nullable:  def.Nullable == nil || *def.Nullable,
		Unique:    def.Unique,
		Default:   def.Default,
		Comment:   def.Comment,
	}
	return c, nil
}

// columnType resolves a type code name and an optional user-defined type
// name. A name that is not a type code refers to a user-defined type.
func (b *builder) columnType(ns *schema.Namespace, code, sqlType string) (schema.ColumnType, error) {
	if code == "" && sqlType != "" {
		if c, ok := ParseCode(sqlType); ok {
			return schema.ColumnType{Code: c}, nil
		}
		code = "struct"
	}
	c, ok := ParseCode(code)
	if !ok {
		return schema.ColumnType{}, fmt.Errorf("unknown type %q", code)
	}
	t := schema.ColumnType{Code: c}
	if sqlType != "" {
		t.SQLName = b.typeName(ns, sqlType)
	}
	return t, nil
}

// typeName returns the physical name of the user-defined type registered
// under name, or name itself for types defined outside the document.
func (b *builder) typeName(ns *schema.Namespace, name string) string {
	if u := ns.LocateUserDefinedType(b.id(name)); u != nil {
		return u.TypeName()
	}
	return name
}

func (b *builder) addAuxiliary(def AuxiliaryDef) error {
	var ns *schema.Namespace
	if def.Namespace != (NamespaceRef{}) {
		var err error
		if ns, err = b.namespace(def.Namespace); err != nil {
			return err
		}
	}
	var opts []schema.AuxiliaryOption
	if def.BeforeTables {
		opts = append(opts, schema.BeforeTables())
	}
	for _, name := range def.Dialects {
		if d, ok := dialect.ByName(name); ok && d.Name() == name {
			name = dialect.ImplementationName(d)
		}
		opts = append(opts, schema.DialectScopes(name))
	}
	var obj schema.AuxiliaryDatabaseObject
	if def.Name != "" {
		obj = schema.NewNamedAuxiliaryObject(b.id(def.Name), ns, def.Create, def.Drop, opts...)
	} else {
		obj = schema.NewSimpleAuxiliaryObject(b.db, ns, def.Create, def.Drop, opts...)
	}
	if err := b.db.AddAuxiliaryDatabaseObject(obj); err != nil {
		return fmt.Errorf("mapping: auxiliary object %s: %w", obj.ExportIdentifier(), err)
	}
	return nil
}
