package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/relmodel/dialect"
	"github.com/syssam/relmodel/naming"
)

// renamedH2 has the same behavior as H2Dialect but its own type name.
type renamedH2 struct{ dialect.H2Dialect }

func TestAuxiliaryObject_AppliesToDialect(t *testing.T) {
	db := newTestDB()
	unscoped := NewSimpleAuxiliaryObject(db, nil, []string{"create"}, []string{"drop"})
	scoped := NewSimpleAuxiliaryObject(db, nil, []string{"create"}, []string{"drop"},
		DialectScopes("github.com/syssam/relmodel/dialect.H2Dialect"))
	wrongCase := NewSimpleAuxiliaryObject(db, nil, []string{"create"}, []string{"drop"},
		DialectScopes("github.com/syssam/relmodel/dialect.h2dialect"))

	tests := []struct {
		name    string
		object  AuxiliaryDatabaseObject
		dialect dialect.Dialect
		want    bool
	}{
		{"unscoped h2", unscoped, dialect.H2Dialect{}, true},
		{"unscoped postgres", unscoped, dialect.PostgresDialect{}, true},
		{"scoped h2", scoped, dialect.H2Dialect{}, true},
		{"scoped h2 pointer", scoped, &dialect.H2Dialect{}, true},
		{"scoped postgres", scoped, dialect.PostgresDialect{}, false},
		{"scoped embedding type", scoped, renamedH2{}, false},
		{"case sensitive", wrongCase, dialect.H2Dialect{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.object.AppliesToDialect(tt.dialect))
		})
	}

	require.NoError(t, unscoped.AddDialectScope(dialect.ImplementationName(dialect.MySQLDialect{})))
	assert.True(t, unscoped.AppliesToDialect(dialect.MySQLDialect{}))
	assert.False(t, unscoped.AppliesToDialect(dialect.H2Dialect{}))
}

func TestSimpleAuxiliaryObject_Placeholders(t *testing.T) {
	db := newTestDB()
	ns, err := db.LocateNamespace(naming.Identifier{}, naming.ToIdentifier("audit"))
	require.NoError(t, err)

	create := []string{"create trigger ${schema}.t_audit after insert on ${catalog}.${schema}.t for each row execute procedure log()"}
	o := NewSimpleAuxiliaryObject(db, ns, create, []string{"drop trigger ${schema}.t_audit"}, BeforeTables())
	assert.True(t, o.BeforeTablesOnCreation())

	ctx := NewGenerationContext(dialect.PostgresDialect{}, naming.ToIdentifier("main"), naming.ToIdentifier("public"))
	got := o.SQLCreateStrings(ctx)
	assert.Equal(t, []string{"create trigger audit.t_audit after insert on main.audit.t for each row execute procedure log()"}, got)
	assert.Equal(t, []string{"drop trigger audit.t_audit"}, o.SQLDropStrings(ctx))

	// Every call builds a new slice.
	got[0] = "changed"
	assert.NotEqual(t, "changed", o.SQLCreateStrings(ctx)[0])
	// The templates are not affected by the caller's slice either.
	create[0] = "changed"
	assert.NotEqual(t, "changed", o.SQLCreateStrings(ctx)[0])

	unbound := NewSimpleAuxiliaryObject(db, nil, []string{"grant select on ${schema}.t to reader"}, nil)
	assert.Equal(t, []string{"grant select on public.t to reader"}, unbound.SQLCreateStrings(ctx))
	assert.Empty(t, unbound.SQLDropStrings(ctx))
	assert.False(t, unbound.BeforeTablesOnCreation())

	quoted := NewGenerationContext(dialect.PostgresDialect{}, naming.Identifier{}, naming.Quote("Public"))
	assert.Equal(t, []string{`grant select on "Public".t to reader`}, unbound.SQLCreateStrings(quoted))
}

func TestAuxiliaryObject_ExportIdentifier(t *testing.T) {
	db := newTestDB()
	a := NewSimpleAuxiliaryObject(db, nil, nil, nil)
	b := NewSimpleAuxiliaryObject(db, nil, nil, nil)
	assert.Equal(t, "auxiliary-object-1", a.ExportIdentifier())
	assert.Equal(t, "auxiliary-object-2", b.ExportIdentifier())

	// Counters are owned by each Database.
	other := NewSimpleAuxiliaryObject(newTestDB(), nil, nil, nil)
	assert.Equal(t, "auxiliary-object-1", other.ExportIdentifier())

	ns, err := db.LocateNamespace(naming.ToIdentifier("main"), naming.ToIdentifier("audit"))
	require.NoError(t, err)
	named := NewNamedAuxiliaryObject(naming.ToIdentifier("audit_seq"), ns, []string{"create sequence ${schema}.audit_seq"}, nil)
	assert.Equal(t, "main.audit.audit_seq", named.ExportIdentifier())
	assert.Equal(t, "audit_seq", named.Name().Object.Text)
	again := NewNamedAuxiliaryObject(naming.ToIdentifier("audit_seq"), ns, nil, nil)
	assert.Equal(t, named.ExportIdentifier(), again.ExportIdentifier())

	ctx := db.GenerationContext()
	assert.Equal(t, []string{"create sequence audit.audit_seq"}, named.SQLCreateStrings(ctx))
}

func TestDatabase_AddAuxiliaryDatabaseObjectReplaces(t *testing.T) {
	db := newTestDB()
	ns := db.DefaultNamespace()
	first := NewNamedAuxiliaryObject(naming.ToIdentifier("v"), ns, []string{"create view v as select 1"}, nil)
	other := NewSimpleAuxiliaryObject(db, nil, []string{"select 2"}, nil)
	second := NewNamedAuxiliaryObject(naming.ToIdentifier("v"), ns, []string{"create view v as select 3"}, nil)

	require.NoError(t, db.AddAuxiliaryDatabaseObject(first))
	require.NoError(t, db.AddAuxiliaryDatabaseObject(other))
	require.NoError(t, db.AddAuxiliaryDatabaseObject(second))

	objs := db.AuxiliaryDatabaseObjects()
	require.Len(t, objs, 2)
	assert.Same(t, second, objs[0])
	assert.Same(t, other, objs[1])
}
