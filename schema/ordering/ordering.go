// Package ordering provides column ordering strategies for the schema model.
//
// [Standard] lays columns out by estimated physical size so that fixed-size
// columns come first and large variable-length columns last, which reduces
// padding in most row formats. [Legacy] keeps the declaration order.
package ordering

import (
	"cmp"
	"math"
	"slices"

	"github.com/syssam/relmodel/dialect"
	"github.com/syssam/relmodel/schema"
)

// Log2Of10 converts decimal digits of precision to bits.
var Log2Of10 = math.Log(10) / math.Log(2)

// largeColumnBytes is the size above which a column counts as large.
const largeColumnBytes = 2048

var (
	_ schema.ColumnOrderingStrategy = Standard{}
	_ schema.ColumnOrderingStrategy = Legacy{}
)

// Standard orders columns by estimated physical size, then by name.
type Standard struct{}

// OrderTableColumns returns the table columns sorted by size and name.
func (Standard) OrderTableColumns(t *schema.Table, d dialect.Dialect) []*schema.Column {
	return sortColumns(t.Columns(), d)
}

// OrderConstraintColumns returns the constraint columns sorted by size and
// name. A primary key with an ordering unique key takes the unique key's
// column order as is.
func (Standard) OrderConstraintColumns(c schema.Constraint, d dialect.Dialect) []*schema.Column {
	if pk, ok := c.(*schema.PrimaryKey); ok {
		if uk := pk.OrderingUniqueKey(); uk != nil {
			return uk.ConstraintColumns()
		}
	}
	return sortColumns(c.ConstraintColumns(), d)
}

// OrderUserDefinedTypeColumns returns the type attributes sorted by size
// and name.
func (Standard) OrderUserDefinedTypeColumns(u *schema.UserDefinedObjectType, d dialect.Dialect) []*schema.Column {
	return sortColumns(u.Columns(), d)
}

// OrderTemporaryTableColumns returns the columns sorted by size and name.
func (Standard) OrderTemporaryTableColumns(columns []*schema.TemporaryTableColumn, d dialect.Dialect) []*schema.TemporaryTableColumn {
	sorted := slices.Clone(columns)
	slices.SortStableFunc(sorted, func(a, b *schema.TemporaryTableColumn) int {
		return compareSizes(
			PhysicalSizeInBytes(a.SQLTypeCode(), a.Size(), d),
			PhysicalSizeInBytes(b.SQLTypeCode(), b.Size(), d),
			a.CompareName(b),
		)
	})
	return sorted
}

func sortColumns(columns []*schema.Column, d dialect.Dialect) []*schema.Column {
	sizes := make(map[*schema.Column]int, len(columns))
	for _, c := range columns {
		sizes[c] = PhysicalSizeInBytes(c.SQLTypeCode(), c.Size(), d)
	}
	sorted := slices.Clone(columns)
	slices.SortStableFunc(sorted, func(a, b *schema.Column) int {
		return compareSizes(sizes[a], sizes[b], a.CompareName(b))
	})
	return sorted
}

// compareSizes orders by size with everything under 4 bytes in one bucket,
// then small before large, then by the name comparison byName.
func compareSizes(a, b, byName int) int {
	if c := cmp.Compare(max(a, 4), max(b, 4)); c != 0 {
		return c
	}
	if c := compareBool(a > largeColumnBytes, b > largeColumnBytes); c != 0 {
		return c
	}
	return byName
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}

// Legacy keeps the declared column order.
type Legacy struct{}

// OrderTableColumns returns nil.
func (Legacy) OrderTableColumns(*schema.Table, dialect.Dialect) []*schema.Column { return nil }

// OrderConstraintColumns returns nil.
func (Legacy) OrderConstraintColumns(schema.Constraint, dialect.Dialect) []*schema.Column {
	return nil
}

// OrderUserDefinedTypeColumns returns nil.
func (Legacy) OrderUserDefinedTypeColumns(*schema.UserDefinedObjectType, dialect.Dialect) []*schema.Column {
	return nil
}

// OrderTemporaryTableColumns returns nil.
func (Legacy) OrderTemporaryTableColumns([]*schema.TemporaryTableColumn, dialect.Dialect) []*schema.TemporaryTableColumn {
	return nil
}

// ByName returns the strategy with the given name: "standard" or "legacy".
func ByName(name string) (schema.ColumnOrderingStrategy, bool) {
	switch name {
	case "standard", "":
		return Standard{}, true
	case "legacy":
		return Legacy{}, true
	}
	return nil, false
}
