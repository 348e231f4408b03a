package schema

import (
	"io"
	"log/slog"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/relmodel/dialect"
	"github.com/syssam/relmodel/naming"
)

func newTestDB(opts ...Option) *Database {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(append([]Option{WithLogger(logger)}, opts...)...)
}

func mustTable(t *testing.T, ns *Namespace, name string) *Table {
	t.Helper()
	tbl, err := ns.CreateTable(naming.ToIdentifier(name), func(physical naming.Identifier) *Table {
		return NewTable(name, ns, physical, false)
	})
	require.NoError(t, err)
	return tbl
}

func mustColumn(t *testing.T, tbl *Table, name string, code Code) *Column {
	t.Helper()
	c, err := tbl.AddColumn(NewColumn(name, code))
	require.NoError(t, err)
	return c
}

func mustObjectType(t *testing.T, ns *Namespace, name string, deps ...string) *UserDefinedObjectType {
	t.Helper()
	u, err := ns.CreateUserDefinedObjectType(naming.ToIdentifier(name), func(physical naming.Identifier) *UserDefinedObjectType {
		return NewUserDefinedObjectType(name, ns, physical)
	})
	require.NoError(t, err)
	for i, dep := range deps {
		_, err := u.AddColumn(&Column{
			Name: naming.ToIdentifier("attr" + string(rune('a'+i))),
			Type: ColumnType{Code: Struct, SQLName: dep},
		})
		require.NoError(t, err)
	}
	return u
}

// byName orders every column list by name.
type byName struct{}

func (byName) sort(columns []*Column) []*Column {
	columns = slices.Clone(columns)
	slices.SortFunc(columns, (*Column).CompareName)
	return columns
}

func (s byName) OrderTableColumns(t *Table, _ dialect.Dialect) []*Column {
	return s.sort(t.Columns())
}

func (s byName) OrderConstraintColumns(c Constraint, _ dialect.Dialect) []*Column {
	if pk, ok := c.(*PrimaryKey); ok && pk.OrderingUniqueKey() != nil {
		return pk.OrderingUniqueKey().ConstraintColumns()
	}
	return s.sort(c.ConstraintColumns())
}

func (s byName) OrderUserDefinedTypeColumns(u *UserDefinedObjectType, _ dialect.Dialect) []*Column {
	return s.sort(u.Columns())
}

func (byName) OrderTemporaryTableColumns([]*TemporaryTableColumn, dialect.Dialect) []*TemporaryTableColumn {
	return nil
}

func names(columns []*Column) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.Name.Text
	}
	return out
}
