package schema

import (
	"strings"

	"github.com/syssam/relmodel/naming"
)

// Column is a column of a table or an object user-defined type. Its fields
// are set while the model is built and must not be written after
// Database.Finalize.
type Column struct {
	Name      naming.Identifier
	Type      ColumnType
	Length    int
	Precision int
	Scale     int
	Nullable  bool
	Unique    bool
	Default   string
	Comment   string
}

// NewColumn returns a nullable column with the given name and type code.
func NewColumn(name string, code Code) *Column {
	return &Column{Name: naming.ToIdentifier(name), Type: ColumnType{Code: code}, Nullable: true}
}

// Size returns the declared size of the column.
func (c *Column) Size() Size {
	return Size{Length: c.Length, Precision: c.Precision, Scale: c.Scale}
}

// SQLTypeCode returns the column's type code.
func (c *Column) SQLTypeCode() Code {
	return c.Type.Code
}

// CompareName orders columns by name, unquoted before quoted on a tie.
func (c *Column) CompareName(o *Column) int {
	return c.Name.Compare(o.Name)
}

// String returns the column name.
func (c *Column) String() string {
	return c.Name.Render()
}

// TemporaryTableColumn is a column of a temporary table created at runtime
// for bulk operations. It carries only what ordering needs.
type TemporaryTableColumn struct {
	Name      string
	Type      ColumnType
	Length    int
	Precision int
	Scale     int
}

// Size returns the declared size of the column.
func (c *TemporaryTableColumn) Size() Size {
	return Size{Length: c.Length, Precision: c.Precision, Scale: c.Scale}
}

// SQLTypeCode returns the column's type code.
func (c *TemporaryTableColumn) SQLTypeCode() Code {
	return c.Type.Code
}

// CompareName orders temporary columns by name.
func (c *TemporaryTableColumn) CompareName(o *TemporaryTableColumn) int {
	return strings.Compare(c.Name, o.Name)
}

// columnSet returns the columns as a set keyed by name.
func columnSet(columns []*Column) map[naming.Identifier]struct{} {
	set := make(map[naming.Identifier]struct{}, len(columns))
	for _, c := range columns {
		set[c.Name] = struct{}{}
	}
	return set
}

// SameColumns reports whether a and b hold the same set of columns,
// regardless of order.
func SameColumns(a, b []*Column) bool {
	if len(a) != len(b) {
		return false
	}
	set := columnSet(a)
	if len(set) != len(a) {
		return false
	}
	seen := make(map[naming.Identifier]struct{}, len(b))
	for _, c := range b {
		if _, ok := set[c.Name]; !ok {
			return false
		}
		seen[c.Name] = struct{}{}
	}
	return len(seen) == len(b)
}
