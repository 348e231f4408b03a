package schema

import (
	"fmt"
	"slices"
	"strings"

	"github.com/syssam/relmodel"
	"github.com/syssam/relmodel/dialect"
	"github.com/syssam/relmodel/naming"
)

// Placeholders substituted in the DDL of simple auxiliary objects.
const (
	CatalogPlaceholder = "${catalog}"
	SchemaPlaceholder  = "${schema}"
)

// AuxiliaryDatabaseObject is hand-written DDL (triggers, procedures, ...)
// exported along with the generated schema.
type AuxiliaryDatabaseObject interface {
	// ExportIdentifier identifies the object among all auxiliary objects.
	ExportIdentifier() string
	// AppliesToDialect reports whether the object is exported for d.
	AppliesToDialect(d dialect.Dialect) bool
	// BeforeTablesOnCreation reports whether the object is created before
	// tables. Drops run in the opposite order.
	BeforeTablesOnCreation() bool
	SQLCreateStrings(ctx *GenerationContext) []string
	SQLDropStrings(ctx *GenerationContext) []string
}

var (
	_ AuxiliaryDatabaseObject = (*SimpleAuxiliaryObject)(nil)
	_ AuxiliaryDatabaseObject = (*NamedAuxiliaryObject)(nil)
)

// AuxiliaryOption configures an auxiliary object.
type AuxiliaryOption func(*auxiliaryBase)

// BeforeTables creates the object before tables and sequences.
func BeforeTables() AuxiliaryOption {
	return func(b *auxiliaryBase) {
		b.beforeTables = true
	}
}

// DialectScopes restricts the object to the dialects with the given
// implementation names, as returned by dialect.ImplementationName.
func DialectScopes(names ...string) AuxiliaryOption {
	return func(b *auxiliaryBase) {
		b.scopes = append(b.scopes, names...)
	}
}

type auxiliaryBase struct {
	exportID     string
	beforeTables bool
	scopes       []string
	sealed       bool
}

func newAuxiliaryBase(exportID string, opts []AuxiliaryOption) auxiliaryBase {
	b := auxiliaryBase{exportID: exportID}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *auxiliaryBase) ExportIdentifier() string     { return b.exportID }
func (b *auxiliaryBase) BeforeTablesOnCreation() bool { return b.beforeTables }

// AppliesToDialect matches the implementation name of d exactly. An object
// without scopes applies to every dialect.
func (b *auxiliaryBase) AppliesToDialect(d dialect.Dialect) bool {
	return len(b.scopes) == 0 || slices.Contains(b.scopes, dialect.ImplementationName(d))
}

// DialectScopes returns the dialect implementation names the object is
// restricted to.
func (b *auxiliaryBase) DialectScopes() []string { return slices.Clone(b.scopes) }

// AddDialectScope restricts the object to one more dialect.
func (b *auxiliaryBase) AddDialectScope(name string) error {
	if b.sealed {
		return fmt.Errorf("auxiliary object %s: %w", b.exportID, relmodel.ErrFinalized)
	}
	b.scopes = append(b.scopes, name)
	return nil
}

func (b *auxiliaryBase) seal() { b.sealed = true }

// SimpleAuxiliaryObject is an auxiliary object given as DDL templates. The
// tokens ${catalog} and ${schema} are replaced with the object's namespace,
// or the context defaults if the namespace has none.
type SimpleAuxiliaryObject struct {
	auxiliaryBase
	catalog naming.Identifier
	schema  naming.Identifier
	create  []string
	drop    []string
}

// NewSimpleAuxiliaryObject returns a template object in ns, which may be
// nil. The export identifier is drawn from db's counter.
func NewSimpleAuxiliaryObject(db *Database, ns *Namespace, create, drop []string, opts ...AuxiliaryOption) *SimpleAuxiliaryObject {
	o := &SimpleAuxiliaryObject{
		auxiliaryBase: newAuxiliaryBase(db.nextAuxiliaryID(), opts),
		create:        slices.Clone(create),
		drop:          slices.Clone(drop),
	}
	if ns != nil {
		pn := ns.PhysicalName()
		o.catalog, o.schema = pn.Catalog, pn.Schema
	}
	return o
}

// SQLCreateStrings returns a new slice of create statements on every call.
func (o *SimpleAuxiliaryObject) SQLCreateStrings(ctx *GenerationContext) []string {
	return o.inject(o.create, ctx)
}

// SQLDropStrings returns a new slice of drop statements on every call.
func (o *SimpleAuxiliaryObject) SQLDropStrings(ctx *GenerationContext) []string {
	return o.inject(o.drop, ctx)
}

func (o *SimpleAuxiliaryObject) inject(templates []string, ctx *GenerationContext) []string {
	r := strings.NewReplacer(
		CatalogPlaceholder, ctx.FormatIdentifier(ctx.CatalogWithDefault(o.catalog)),
		SchemaPlaceholder, ctx.FormatIdentifier(ctx.SchemaWithDefault(o.schema)),
	)
	stmts := make([]string, len(templates))
	for i, t := range templates {
		stmts[i] = r.Replace(t)
	}
	return stmts
}

// NamedAuxiliaryObject is a template object identified by its qualified
// name instead of a counter, so repeated boots export it under the same
// identifier.
type NamedAuxiliaryObject struct {
	SimpleAuxiliaryObject
	name naming.QualifiedName
}

// NewNamedAuxiliaryObject returns a named template object in ns, which may
// be nil.
func NewNamedAuxiliaryObject(name naming.Identifier, ns *Namespace, create, drop []string, opts ...AuxiliaryOption) *NamedAuxiliaryObject {
	o := &NamedAuxiliaryObject{
		SimpleAuxiliaryObject: SimpleAuxiliaryObject{
			create: slices.Clone(create),
			drop:   slices.Clone(drop),
		},
	}
	if ns != nil {
		pn := ns.PhysicalName()
		o.catalog, o.schema = pn.Catalog, pn.Schema
	}
	o.name = naming.QualifiedName{Catalog: o.catalog, Schema: o.schema, Object: name}
	o.auxiliaryBase = newAuxiliaryBase(o.name.Render(), opts)
	return o
}

// Name returns the qualified name of the object.
func (o *NamedAuxiliaryObject) Name() naming.QualifiedName { return o.name }

// InitCommand is a list of statements run once the schema was created.
type InitCommand struct {
	Statements []string
}
