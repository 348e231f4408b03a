package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/relmodel"
	"github.com/syssam/relmodel/naming"
)

func typeNames(udts []UserDefinedType) []string {
	out := make([]string, len(udts))
	for i, u := range udts {
		out[i] = u.TypeName()
	}
	return out
}

func TestOrderUserDefinedTypes(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, ns *Namespace)
		want  []string
	}{
		{
			name: "dependency registered first",
			setup: func(t *testing.T, ns *Namespace) {
				mustObjectType(t, ns, "B")
				mustObjectType(t, ns, "A", "B")
			},
			want: []string{"B", "A"},
		},
		{
			name: "dependent registered first",
			setup: func(t *testing.T, ns *Namespace) {
				mustObjectType(t, ns, "A", "B")
				mustObjectType(t, ns, "B")
			},
			want: []string{"B", "A"},
		},
		{
			name: "chain",
			setup: func(t *testing.T, ns *Namespace) {
				mustObjectType(t, ns, "A", "B")
				mustObjectType(t, ns, "B", "C")
				mustObjectType(t, ns, "C")
			},
			want: []string{"C", "B", "A"},
		},
		{
			name: "independent types keep registration order",
			setup: func(t *testing.T, ns *Namespace) {
				mustObjectType(t, ns, "Z")
				mustObjectType(t, ns, "Y", "X")
				mustObjectType(t, ns, "X")
				mustObjectType(t, ns, "W")
			},
			want: []string{"Z", "X", "W", "Y"},
		},
		{
			name: "external type names are ignored",
			setup: func(t *testing.T, ns *Namespace) {
				mustObjectType(t, ns, "A", "geometry")
				mustObjectType(t, ns, "B")
			},
			want: []string{"A", "B"},
		},
		{
			name: "array waits for its element type",
			setup: func(t *testing.T, ns *Namespace) {
				arr, err := ns.CreateUserDefinedArrayType(naming.ToIdentifier("point_list"), func(physical naming.Identifier) *UserDefinedArrayType {
					return NewUserDefinedArrayType("Shape", ns, physical)
				})
				require.NoError(t, err)
				require.NoError(t, arr.SetElementType("point", ColumnType{Code: Struct, SQLName: "point"}))
				mustObjectType(t, ns, "point")
			},
			want: []string{"point", "point_list"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB()
			ns := db.DefaultNamespace()
			tt.setup(t, ns)
			ordered, err := ns.DependencyOrderedUserDefinedTypes()
			require.NoError(t, err)
			assert.Equal(t, tt.want, typeNames(ordered))

			require.NoError(t, db.Finalize())
			ordered, err = ns.DependencyOrderedUserDefinedTypes()
			require.NoError(t, err)
			assert.Equal(t, tt.want, typeNames(ordered))
		})
	}
}

func TestOrderUserDefinedTypes_ArrayColumn(t *testing.T) {
	db := newTestDB()
	ns := db.DefaultNamespace()
	holder := mustObjectType(t, ns, "holder")
	_, err := holder.AddColumn(&Column{
		Name: naming.ToIdentifier("items"),
		Type: ColumnType{Code: Array, Element: &ColumnType{Code: Struct, SQLName: "item"}},
	})
	require.NoError(t, err)
	mustObjectType(t, ns, "item")

	ordered, err := ns.DependencyOrderedUserDefinedTypes()
	require.NoError(t, err)
	assert.Equal(t, []string{"item", "holder"}, typeNames(ordered))
}

func TestOrderUserDefinedTypes_Cycle(t *testing.T) {
	db := newTestDB()
	ns := db.DefaultNamespace()
	mustObjectType(t, ns, "C")
	mustObjectType(t, ns, "A", "B")
	mustObjectType(t, ns, "B", "A")

	_, err := ns.DependencyOrderedUserDefinedTypes()
	require.Error(t, err)
	assert.True(t, relmodel.IsCyclicDependency(err))
	var cerr *relmodel.CyclicDependencyError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, []string{"A", "B"}, cerr.Types)

	err = db.Finalize()
	require.ErrorIs(t, err, relmodel.ErrCyclicDependency)
	assert.False(t, db.IsFinalized())
}
