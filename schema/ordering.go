package schema

import (
	"github.com/syssam/relmodel/dialect"
)

// ColumnOrderingStrategy decides the physical column order of tables,
// constraints and user-defined types. Each method returns a new slice, or
// nil to keep the declared order.
type ColumnOrderingStrategy interface {
	OrderTableColumns(t *Table, d dialect.Dialect) []*Column
	OrderConstraintColumns(c Constraint, d dialect.Dialect) []*Column
	OrderUserDefinedTypeColumns(u *UserDefinedObjectType, d dialect.Dialect) []*Column
	OrderTemporaryTableColumns(columns []*TemporaryTableColumn, d dialect.Dialect) []*TemporaryTableColumn
}

// orderNamespaceColumns applies s to every table, multi-column primary key
// and object type of ns. Foreign keys that implicitly reference a primary
// key are permuted along with it, so each column keeps pointing at the same
// target column.
func orderNamespaceColumns(ns *Namespace, s ColumnOrderingStrategy, d dialect.Dialect) {
	for _, t := range ns.tables.list() {
		if columns := s.OrderTableColumns(t, d); columns != nil {
			t.reorderColumns(columns)
		}
		if pk := t.PrimaryKey(); pk != nil && len(pk.columns) > 1 {
			orderPrimaryKey(pk, s, d)
		}
		for _, fk := range t.foreignKeys {
			if len(fk.columns) < 2 || !fk.ReferencesPrimaryKey() || fk.refTable == nil {
				continue
			}
			target := fk.refTable.PrimaryKey()
			if target == nil {
				continue
			}
			orderPrimaryKey(target, s, d)
			if target.originalOrder != nil {
				fk.alignToPrimaryKey(target.originalOrder)
			}
		}
	}
	for _, u := range ns.udts.list() {
		obj, ok := u.(*UserDefinedObjectType)
		if !ok || len(obj.columns) < 2 {
			continue
		}
		if columns := s.OrderUserDefinedTypeColumns(obj, d); columns != nil {
			obj.reorderColumns(columns)
		}
	}
}

// orderPrimaryKey reorders pk once; later calls are no-ops.
func orderPrimaryKey(pk *PrimaryKey, s ColumnOrderingStrategy, d dialect.Dialect) {
	if pk.originalOrder != nil {
		return
	}
	if columns := s.OrderConstraintColumns(pk, d); columns != nil {
		pk.reorderColumns(columns)
	}
}
