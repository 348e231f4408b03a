package schema

import (
	"slices"
)

// Constraint is a table constraint whose columns can be ordered. The set
// of implementations is closed: *PrimaryKey, *UniqueKey and *ForeignKey.
type Constraint interface {
	ConstraintName() string
	ConstraintTable() *Table
	ConstraintColumns() []*Column
	constraint()
}

var (
	_ Constraint = (*PrimaryKey)(nil)
	_ Constraint = (*UniqueKey)(nil)
	_ Constraint = (*ForeignKey)(nil)
)

// PrimaryKey is the primary key of a table.
type PrimaryKey struct {
	name    string
	table   *Table
	columns []*Column
	// orderingUniqueKey is a unique key over exactly the primary key
	// columns; its column order wins over any ordering strategy.
	orderingUniqueKey *UniqueKey
	// originalOrder[i] is the declaration index of the i-th column after
	// the columns were reordered; nil until then.
	originalOrder []int
}

func (*PrimaryKey) constraint() {}

// ConstraintName implements Constraint.
func (pk *PrimaryKey) ConstraintName() string { return pk.name }

// ConstraintTable implements Constraint.
func (pk *PrimaryKey) ConstraintTable() *Table { return pk.table }

// ConstraintColumns implements Constraint.
func (pk *PrimaryKey) ConstraintColumns() []*Column { return slices.Clone(pk.columns) }

// OrderingUniqueKey returns the unique key that dictates the column order
// of the primary key, or nil.
func (pk *PrimaryKey) OrderingUniqueKey() *UniqueKey { return pk.orderingUniqueKey }

// OriginalOrder returns, for each column in its current position, the
// position it was declared at. It is nil if the columns were never
// reordered.
func (pk *PrimaryKey) OriginalOrder() []int { return slices.Clone(pk.originalOrder) }

// reorderColumns matches ordered to the key columns by name, so the columns
// of an ordering unique key can be passed in.
func (pk *PrimaryKey) reorderColumns(ordered []*Column) {
	if len(ordered) != len(pk.columns) {
		return
	}
	order := make([]int, len(ordered))
	columns := make([]*Column, len(ordered))
	for i, c := range ordered {
		j := slices.IndexFunc(pk.columns, func(e *Column) bool { return e.Name == c.Name })
		if j < 0 {
			return
		}
		order[i], columns[i] = j, pk.columns[j]
	}
	pk.originalOrder = order
	pk.columns = columns
}

// UniqueKey is a unique constraint.
type UniqueKey struct {
	name    string
	table   *Table
	columns []*Column
}

func (*UniqueKey) constraint() {}

// ConstraintName implements Constraint.
func (uk *UniqueKey) ConstraintName() string { return uk.name }

// ConstraintTable implements Constraint.
func (uk *UniqueKey) ConstraintTable() *Table { return uk.table }

// ConstraintColumns implements Constraint.
func (uk *UniqueKey) ConstraintColumns() []*Column { return slices.Clone(uk.columns) }

// ReferentialAction is the ON DELETE action of a foreign key.
type ReferentialAction string

// Referential actions.
const (
	NoAction   ReferentialAction = ""
	Cascade    ReferentialAction = "CASCADE"
	SetNull    ReferentialAction = "SET NULL"
	Restrict   ReferentialAction = "RESTRICT"
	SetDefault ReferentialAction = "SET DEFAULT"
)

// ForeignKey is a foreign key constraint. When RefColumns is empty the key
// references the primary key of RefTable.
type ForeignKey struct {
	name       string
	table      *Table
	columns    []*Column
	refTable   *Table
	refColumns []*Column
	// OnDelete must not be written after Database.Finalize.
	OnDelete ReferentialAction
}

func (*ForeignKey) constraint() {}

// ConstraintName implements Constraint.
func (fk *ForeignKey) ConstraintName() string { return fk.name }

// ConstraintTable implements Constraint.
func (fk *ForeignKey) ConstraintTable() *Table { return fk.table }

// ConstraintColumns implements Constraint.
func (fk *ForeignKey) ConstraintColumns() []*Column { return slices.Clone(fk.columns) }

// RefTable returns the referenced table.
func (fk *ForeignKey) RefTable() *Table { return fk.refTable }

// RefColumns returns the referenced columns. When the key references the
// primary key implicitly, these are the primary key columns.
func (fk *ForeignKey) RefColumns() []*Column {
	if len(fk.refColumns) == 0 && fk.refTable != nil {
		if pk := fk.refTable.PrimaryKey(); pk != nil {
			return pk.ConstraintColumns()
		}
	}
	return slices.Clone(fk.refColumns)
}

// ReferencesPrimaryKey reports whether the key references the primary key
// of its target implicitly.
func (fk *ForeignKey) ReferencesPrimaryKey() bool { return len(fk.refColumns) == 0 }

// alignToPrimaryKey permutes the key columns after the referenced primary
// key was reordered, so column i keeps pointing at the same target column.
func (fk *ForeignKey) alignToPrimaryKey(originalOrder []int) {
	if len(originalOrder) != len(fk.columns) {
		return
	}
	current := slices.Clone(fk.columns)
	for i, j := range originalOrder {
		fk.columns[i] = current[j]
	}
}

// Index is a table index. Indexes are not constraints and keep their
// declared column order. Name and Unique must not be written after
// Database.Finalize.
type Index struct {
	Name    string
	Unique  bool
	table   *Table
	columns []*Column
}

// Table returns the indexed table.
func (i *Index) Table() *Table { return i.table }

// Columns returns the indexed columns.
func (i *Index) Columns() []*Column { return slices.Clone(i.columns) }
