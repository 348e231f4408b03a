package schema

import (
	"fmt"
	"slices"

	"github.com/syssam/relmodel"
	"github.com/syssam/relmodel/naming"
)

// TableKind tells what a Table maps. The set of kinds is closed:
// Physical, Denormalized and Derived.
type TableKind interface {
	tableKind()
}

// Physical is a table stored under its own name.
type Physical struct{}

// Denormalized is a union-subclass table: it repeats the columns, primary
// key and unique keys of the table it includes.
type Denormalized struct {
	Parent *Table
}

// Derived is a table backed by a subselect expression instead of a name.
type Derived struct {
	Expression string
}

func (Physical) tableKind()     {}
func (Denormalized) tableKind() {}
func (Derived) tableKind()      {}

// Table is a table of the schema model.
type Table struct {
	id          int
	kind        TableKind
	contributor string
	namespace   *Namespace
	name        naming.Identifier
	abstract    bool
	// Comment must not be written after Database.Finalize.
	Comment     string
	columns     []*Column
	primaryKey  *PrimaryKey
	uniqueKeys  []*UniqueKey
	foreignKeys []*ForeignKey
	indexes     []*Index
	checks      []string
	// reordered is the full column order of a denormalized table once an
	// ordering strategy ran, included columns interleaved with its own.
	reordered []*Column
	sealed    bool
}

// NewTable returns a physical table named physicalName in ns. It is meant
// to be called from the factory passed to Namespace.CreateTable.
func NewTable(contributor string, ns *Namespace, physicalName naming.Identifier, abstract bool) *Table {
	return &Table{
		kind:        Physical{},
		contributor: contributor,
		namespace:   ns,
		name:        physicalName,
		abstract:    abstract,
	}
}

// NewDenormalizedTable returns a union-subclass table including parent.
func NewDenormalizedTable(contributor string, ns *Namespace, physicalName naming.Identifier, abstract bool, parent *Table) *Table {
	t := NewTable(contributor, ns, physicalName, abstract)
	t.kind = Denormalized{Parent: parent}
	return t
}

// NewDerivedTable returns a table backed by a subselect expression.
func NewDerivedTable(contributor, expression string, abstract bool) *Table {
	return &Table{
		kind:        Derived{Expression: expression},
		contributor: contributor,
		abstract:    abstract,
	}
}

// ID returns the surrogate id assigned when the table was registered.
func (t *Table) ID() int { return t.id }

// Kind returns the table kind.
func (t *Table) Kind() TableKind { return t.kind }

// Contributor returns the name of the mapping that contributed the table.
func (t *Table) Contributor() string { return t.contributor }

// Namespace returns the namespace of the table, nil for derived tables.
func (t *Table) Namespace() *Namespace { return t.namespace }

// Name returns the physical table name; zero for derived tables.
func (t *Table) Name() naming.Identifier { return t.name }

// IsAbstract reports whether the table maps an abstract entity.
func (t *Table) IsAbstract() bool { return t.abstract }

// QualifiedName returns the physical qualified name of the table.
func (t *Table) QualifiedName() naming.QualifiedTableName {
	var ns NamespaceName
	if t.namespace != nil {
		ns = t.namespace.PhysicalName()
	}
	return naming.NewQualifiedTableName(ns.Catalog, ns.Schema, t.name)
}

// ExportIdentifier returns a string identifying the table in exports.
func (t *Table) ExportIdentifier() string {
	if d, ok := t.kind.(Derived); ok {
		return "(" + d.Expression + ")"
	}
	return t.QualifiedName().Render()
}

// String implements fmt.Stringer.
func (t *Table) String() string { return t.ExportIdentifier() }

func (t *Table) checkMutable() error {
	if t.sealed {
		return fmt.Errorf("table %s: %w", t, relmodel.ErrFinalized)
	}
	return nil
}

func (t *Table) parent() *Table {
	if d, ok := t.kind.(Denormalized); ok {
		return d.Parent
	}
	return nil
}

// Columns returns the columns of the table. A denormalized table lists the
// columns of the table it includes first.
func (t *Table) Columns() []*Column {
	p := t.parent()
	if p == nil {
		return slices.Clone(t.columns)
	}
	if t.reordered != nil {
		return slices.Clone(t.reordered)
	}
	columns := p.Columns()
	for _, c := range t.columns {
		if !slices.ContainsFunc(columns, func(e *Column) bool { return e.Name == c.Name }) {
			columns = append(columns, c)
		}
	}
	return columns
}

// Column returns the column with the given name, or nil.
func (t *Table) Column(name naming.Identifier) *Column {
	for _, c := range t.columns {
		if c.Name == name {
			return c
		}
	}
	if p := t.parent(); p != nil {
		return p.Column(name)
	}
	return nil
}

// ContainsColumn reports whether c is one of the table's columns.
func (t *Table) ContainsColumn(c *Column) bool {
	return c != nil && t.Column(c.Name) == c
}

// AddColumn adds c to the table. If a column with the same name exists, it
// is returned instead and c is discarded.
func (t *Table) AddColumn(c *Column) (*Column, error) {
	if err := t.checkMutable(); err != nil {
		return nil, err
	}
	if c == nil || c.Name.IsZero() {
		return nil, relmodel.NewUnresolvableNameError("", fmt.Sprintf("column of table %s must have a name", t))
	}
	if existing := t.Column(c.Name); existing != nil {
		return existing, nil
	}
	t.columns = append(t.columns, c)
	return c, nil
}

// PrimaryKey returns the primary key, or nil. Denormalized tables share the
// primary key of the table they include.
func (t *Table) PrimaryKey() *PrimaryKey {
	if t.primaryKey == nil {
		if p := t.parent(); p != nil {
			return p.PrimaryKey()
		}
	}
	return t.primaryKey
}

// SetPrimaryKey defines the primary key of the table. If a unique key over
// exactly the same columns exists, it becomes the ordering unique key.
func (t *Table) SetPrimaryKey(name string, columns ...*Column) (*PrimaryKey, error) {
	if err := t.checkMutable(); err != nil {
		return nil, err
	}
	pk := &PrimaryKey{name: name, table: t, columns: slices.Clone(columns)}
	for _, c := range columns {
		c.Nullable = false
	}
	for _, uk := range t.uniqueKeys {
		if SameColumns(uk.columns, pk.columns) {
			pk.orderingUniqueKey = uk
			break
		}
	}
	t.primaryKey = pk
	return pk, nil
}

// AddUniqueKey adds a unique constraint. A unique key over exactly the
// primary key columns dictates the primary key column order.
func (t *Table) AddUniqueKey(name string, columns ...*Column) (*UniqueKey, error) {
	if err := t.checkMutable(); err != nil {
		return nil, err
	}
	uk := &UniqueKey{name: name, table: t, columns: slices.Clone(columns)}
	t.uniqueKeys = append(t.uniqueKeys, uk)
	if pk := t.primaryKey; pk != nil && pk.orderingUniqueKey == nil && SameColumns(pk.columns, uk.columns) {
		pk.orderingUniqueKey = uk
	}
	return uk, nil
}

// UniqueKeys returns the unique keys, including those of an included table.
func (t *Table) UniqueKeys() []*UniqueKey {
	keys := slices.Clone(t.uniqueKeys)
	if p := t.parent(); p != nil {
		keys = append(p.UniqueKeys(), keys...)
	}
	return keys
}

// AddForeignKey adds a foreign key from columns to refTable. Empty
// refColumns reference the primary key of refTable.
func (t *Table) AddForeignKey(name string, columns []*Column, refTable *Table, refColumns ...*Column) (*ForeignKey, error) {
	if err := t.checkMutable(); err != nil {
		return nil, err
	}
	fk := &ForeignKey{
		name:       name,
		table:      t,
		columns:    slices.Clone(columns),
		refTable:   refTable,
		refColumns: slices.Clone(refColumns),
	}
	t.foreignKeys = append(t.foreignKeys, fk)
	return fk, nil
}

// ForeignKeys returns the foreign keys of the table.
func (t *Table) ForeignKeys() []*ForeignKey { return slices.Clone(t.foreignKeys) }

// AddIndex adds an index over columns.
func (t *Table) AddIndex(name string, unique bool, columns ...*Column) (*Index, error) {
	if err := t.checkMutable(); err != nil {
		return nil, err
	}
	idx := &Index{Name: name, Unique: unique, table: t, columns: slices.Clone(columns)}
	t.indexes = append(t.indexes, idx)
	return idx, nil
}

// Indexes returns the indexes of the table.
func (t *Table) Indexes() []*Index { return slices.Clone(t.indexes) }

// AddCheck adds a CHECK constraint expression.
func (t *Table) AddCheck(expr string) error {
	if err := t.checkMutable(); err != nil {
		return err
	}
	t.checks = append(t.checks, expr)
	return nil
}

// Checks returns the CHECK constraint expressions.
func (t *Table) Checks() []string { return slices.Clone(t.checks) }

// reorderColumns applies an ordering computed over Columns.
func (t *Table) reorderColumns(ordered []*Column) {
	if t.parent() != nil {
		t.reordered = slices.Clone(ordered)
	}
	own := make([]*Column, 0, len(t.columns))
	for _, c := range ordered {
		if slices.Contains(t.columns, c) {
			own = append(own, c)
		}
	}
	if len(own) == len(t.columns) {
		t.columns = own
	}
}
