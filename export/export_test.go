package export

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/syssam/relmodel"
	"github.com/syssam/relmodel/dialect"
	"github.com/syssam/relmodel/mapping"
	"github.com/syssam/relmodel/naming"
	"github.com/syssam/relmodel/schema"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func build(t *testing.T, doc string) *schema.Database {
	t.Helper()
	d, err := mapping.Load(strings.NewReader(doc))
	require.NoError(t, err)
	db, err := d.Build(schema.WithLogger(discard))
	require.NoError(t, err)
	return db
}

// indexOf returns the index of the first statement containing substr.
func indexOf(t *testing.T, s *Script, substr string) int {
	t.Helper()
	i := slices.IndexFunc(s.Statements, func(stmt string) bool {
		return strings.Contains(stmt, substr)
	})
	require.NotEqual(t, -1, i, "no statement contains %q:\n%s", substr, s)
	return i
}

const library = `
dialect: sqlite
naming: snake_case
namespaces:
  - sequences:
      - {name: BookSeq, initial: 1, increment: 10}
    tables:
      - name: Book
        columns:
          - {name: id, type: integer, nullable: false}
          - {name: title, type: varchar}
          - {name: author_id, type: integer}
          - {name: price, type: decimal, precision: 10, scale: 2, default: "0"}
        primary_key: {columns: id}
        foreign_keys:
          - {columns: author_id, references: {table: Author}, on_delete: cascade}
        indexes:
          - {name: book_title_idx, columns: title}
        checks: ["price >= 0"]
      - name: Author
        columns:
          - {name: id, type: integer, nullable: false}
          - {name: name, type: varchar, length: 100, nullable: false, unique: true}
        primary_key: {columns: id}
      - name: Draft
        abstract: true
        columns:
          - {name: id, type: integer}
auxiliary_objects:
  - create: create view book_titles as select title from book
    drop: drop view book_titles
  - create: create table audit (entry text)
    drop: drop table audit
    before_tables: true
  - create: create table pg_only (x int)
    dialects: postgres
init_commands:
  - - insert into author (id, name) values (1, 'Le Guin')
    - insert into book (id, title, author_id) values (1, 'Earthsea', 1)
`

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&_pragma=foreign_keys(1)")
	require.NoError(t, err)
	// Every connection to a private in-memory database sees its own data.
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func run(t *testing.T, conn *sql.DB, s *Script) {
	t.Helper()
	for _, stmt := range s.Statements {
		_, err := conn.ExecContext(context.Background(), stmt)
		require.NoError(t, err, stmt)
	}
}

func objects(t *testing.T, conn *sql.DB) []string {
	t.Helper()
	rows, err := conn.Query("SELECT name FROM sqlite_master WHERE name NOT LIKE 'sqlite_%' ORDER BY name")
	require.NoError(t, err)
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}

func TestSQLite_CreateDrop(t *testing.T) {
	ctx := context.Background()
	db := build(t, library)
	e, err := New(db, WithLogger(discard))
	require.NoError(t, err)

	create, err := e.Create(ctx)
	require.NoError(t, err)
	audit := indexOf(t, create, "create table audit")
	author := indexOf(t, create, "CREATE TABLE `author`")
	book := indexOf(t, create, "CREATE TABLE `book`")
	view := indexOf(t, create, "create view book_titles")
	insert := indexOf(t, create, "insert into book")
	assert.Less(t, audit, author)
	assert.Less(t, author, book)
	assert.Less(t, book, view)
	assert.Less(t, view, insert)
	assert.Equal(t, len(create.Statements)-1, insert)
	assert.NotContains(t, create.String(), "pg_only")
	assert.NotContains(t, create.String(), "SEQUENCE")
	assert.NotContains(t, create.String(), "draft")

	conn := openSQLite(t)
	run(t, conn, create)
	assert.Equal(t, []string{"audit", "author", "author_name_key", "book", "book_title_idx", "book_titles"}, objects(t, conn))

	var title string
	require.NoError(t, conn.QueryRow("SELECT title FROM book_titles").Scan(&title))
	assert.Equal(t, "Earthsea", title)
	_, err = conn.Exec("INSERT INTO book (id, title, author_id, price) VALUES (2, 'Tehanu', 1, -1)")
	require.Error(t, err, "check constraint")
	_, err = conn.Exec("INSERT INTO book (id, title, author_id) VALUES (3, 'Nobody', 42)")
	require.Error(t, err, "foreign key")

	drop, err := e.Drop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "drop view book_titles", drop.Statements[0])
	assert.Equal(t, "drop table audit", drop.Statements[len(drop.Statements)-1])
	assert.Less(t, indexOf(t, drop, "DROP TABLE `book`"), indexOf(t, drop, "DROP TABLE `author`"))
	run(t, conn, drop)
	assert.Empty(t, objects(t, conn))
}

const shop = `
dialect: postgres
naming: snake_case
implicit_namespace:
  schema: public
namespaces:
  - schema: public
    types:
      - name: PostalAddress
        columns:
          - {name: street, type: varchar, length: 120}
          - {name: zip, type: char, length: 5}
      - name: AddressList
        kind: array
        element: PostalAddress
    sequences:
      - {name: OrderSeq, initial: 1, increment: 50}
    tables:
      - name: Order
        columns:
          - {name: id, type: bigint, nullable: false}
          - {name: ship_to, sql_type: PostalAddress}
          - {name: customer_id, type: bigint}
        primary_key: {columns: id}
        foreign_keys:
          - name: order_customer_fk
            columns: customer_id
            references: {schema: crm, table: Customer}
            on_delete: cascade
  - schema: crm
    tables:
      - name: Customer
        columns:
          - {name: id, type: bigint, nullable: false}
        primary_key: {columns: id}
auxiliary_objects:
  - create: create index order_customer_idx on ${schema}.order (customer_id)
    drop: drop index ${schema}.order_customer_idx
  - name: audit_trigger
    namespace: {schema: crm}
    create: create function audit_trigger()
    drop: drop function audit_trigger()
    before_tables: true
  - create: create table sqlite_only (x int)
    dialects: sqlite
init_commands:
  - insert into crm.customer values (1)
`

func TestPostgres_Create(t *testing.T) {
	db := build(t, shop)
	e, err := New(db)
	require.NoError(t, err)
	s, err := e.Create(context.Background())
	require.NoError(t, err)

	crm := indexOf(t, s, `CREATE SCHEMA IF NOT EXISTS "crm"`)
	public := indexOf(t, s, `CREATE SCHEMA IF NOT EXISTS "public"`)
	trigger := indexOf(t, s, "create function audit_trigger()")
	udt := indexOf(t, s, "CREATE TYPE public.postal_address AS (")
	domain := indexOf(t, s, "CREATE DOMAIN public.address_list AS postal_address[]")
	seq := indexOf(t, s, "CREATE SEQUENCE public.order_seq START WITH 1 INCREMENT BY 50")
	customer := indexOf(t, s, `CREATE TABLE "crm"."customer"`)
	order := indexOf(t, s, `CREATE TABLE "public"."order"`)
	aux := indexOf(t, s, "create index order_customer_idx on public.order (customer_id)")
	insert := indexOf(t, s, "insert into crm.customer values (1)")

	assert.Less(t, crm, public)
	assert.Less(t, public, trigger)
	assert.Less(t, trigger, udt)
	assert.Less(t, udt, domain)
	assert.Less(t, domain, seq)
	assert.Less(t, seq, customer)
	assert.Less(t, customer, order)
	assert.Less(t, order, aux)
	assert.Less(t, aux, insert)

	assert.Contains(t, s.Statements[udt], "zip character(5)")
	assert.Contains(t, s.Statements[udt], "street character varying(120)")
	assert.Contains(t, s.Statements[order], "postal_address")
	assert.Contains(t, s.Statements[order], `REFERENCES "crm"."customer"`)
	assert.Contains(t, s.Statements[order], "ON DELETE CASCADE")
	assert.NotContains(t, s.String(), "sqlite_only")
}

func TestPostgres_Drop(t *testing.T) {
	db := build(t, shop)
	e, err := New(db)
	require.NoError(t, err)
	s, err := e.Drop(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "drop index public.order_customer_idx", s.Statements[0])
	order := indexOf(t, s, `DROP TABLE "public"."order"`)
	customer := indexOf(t, s, `DROP TABLE "crm"."customer"`)
	seq := indexOf(t, s, "DROP SEQUENCE IF EXISTS public.order_seq")
	domain := indexOf(t, s, "DROP DOMAIN IF EXISTS public.address_list")
	udt := indexOf(t, s, "DROP TYPE IF EXISTS public.postal_address")
	assert.Less(t, order, customer)
	assert.Less(t, customer, seq)
	assert.Less(t, seq, domain)
	assert.Less(t, domain, udt)
	assert.Equal(t, "drop function audit_trigger()", s.Statements[len(s.Statements)-1])
	assert.NotContains(t, s.String(), "SCHEMA")
}

func TestMySQL_Create(t *testing.T) {
	db := build(t, `
dialect: mysql
namespaces:
  - sequences:
      - {name: item_seq, initial: 1, increment: 1}
    tables:
      - name: item
        columns:
          - {name: id, type: bigint, nullable: false}
          - {name: code, type: uuid}
        primary_key: {columns: id}
`)
	e, err := New(db, WithLogger(discard))
	require.NoError(t, err)
	s, err := e.Create(context.Background())
	require.NoError(t, err)
	require.Len(t, s.Statements, 1)
	assert.Contains(t, s.Statements[0], "CREATE TABLE `item`")
	assert.Contains(t, s.Statements[0], "binary(16)")
}

func TestNew(t *testing.T) {
	t.Run("not finalized", func(t *testing.T) {
		db := schema.New(schema.WithLogger(discard))
		_, err := New(db)
		assert.ErrorIs(t, err, relmodel.ErrNotFinalized)
	})
	t.Run("unsupported dialect", func(t *testing.T) {
		db := schema.New(schema.WithLogger(discard), schema.WithDialect(dialect.H2Dialect{}))
		require.NoError(t, db.Finalize())
		_, err := New(db)
		assert.ErrorIs(t, err, relmodel.ErrUnsupportedDialect)
	})
	t.Run("embedded dialect", func(t *testing.T) {
		db := schema.New(schema.WithLogger(discard), schema.WithDialect(dialect.H2Dialect{}))
		require.NoError(t, db.Finalize())
		e, err := New(db, WithDialect(struct{ dialect.SQLiteDialect }{}))
		require.NoError(t, err)
		s, err := e.Create(context.Background())
		require.NoError(t, err)
		assert.Empty(t, s.Statements)
		assert.Empty(t, s.String())
	})
}

func TestUserDefinedTypesWithoutSupport(t *testing.T) {
	db := build(t, `
dialect: sqlite
namespaces:
  - types:
      - name: point
        columns: [{name: x, type: integer}]
    tables:
      - name: shape
        columns:
          - {name: id, type: integer}
          - {name: origin, sql_type: point}
`)
	e, err := New(db, WithLogger(discard))
	require.NoError(t, err)
	_, err = e.Create(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `sqlite has no user-defined type "point"`)
}

func TestRawType(t *testing.T) {
	pg, mysql, lite := drivers[dialect.Postgres], drivers[dialect.MySQL], drivers[dialect.SQLite]
	elem := schema.ColumnType{Code: schema.Integer}
	tests := []struct {
		name string
		drv  *driver
		typ  schema.ColumnType
		size schema.Size
		want string
	}{
		{"varchar default length", pg, schema.ColumnType{Code: schema.VarChar}, schema.Size{}, "varchar(255)"},
		{"varchar", mysql, schema.ColumnType{Code: schema.VarChar}, schema.Size{Length: 40}, "varchar(40)"},
		{"numeric", pg, schema.ColumnType{Code: schema.Numeric}, schema.Size{Precision: 19, Scale: 2}, "numeric(19,2)"},
		{"numeric precision only", lite, schema.ColumnType{Code: schema.Decimal}, schema.Size{Precision: 9}, "numeric(9)"},
		{"numeric unsized", mysql, schema.ColumnType{Code: schema.Decimal}, schema.Size{}, "decimal"},
		{"float", pg, schema.ColumnType{Code: schema.Float}, schema.Size{Precision: 53}, "float(53)"},
		{"float unsized", pg, schema.ColumnType{Code: schema.Float}, schema.Size{}, "float"},
		{"uuid", mysql, schema.ColumnType{Code: schema.UUID}, schema.Size{}, "binary(16)"},
		{"json", pg, schema.ColumnType{Code: schema.JSON}, schema.Size{}, "jsonb"},
		{"named", pg, schema.ColumnType{Code: schema.Struct, SQLName: "address"}, schema.Size{}, "address"},
		{"array", pg, schema.ColumnType{Code: schema.Array, Element: &elem}, schema.Size{}, "integer[]"},
		{"timestamp", lite, schema.ColumnType{Code: schema.TimestampTZ}, schema.Size{}, "datetime"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.drv.rawType(tt.typ, tt.size)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := lite.rawType(schema.ColumnType{Code: schema.Other}, schema.Size{})
	assert.EqualError(t, err, "sqlite has no type for OTHER")
	_, err = mysql.rawType(schema.ColumnType{Code: schema.Array, Element: &elem}, schema.Size{})
	assert.Error(t, err)
}

func TestSortTables(t *testing.T) {
	db := schema.New(schema.WithLogger(discard))
	ns := db.DefaultNamespace()
	table := func(name string) *schema.Table {
		tbl, err := ns.CreateTable(naming.ToIdentifier(name), func(physical naming.Identifier) *schema.Table {
			return schema.NewTable(name, ns, physical, false)
		})
		require.NoError(t, err)
		id, err := tbl.AddColumn(schema.NewColumn("id", schema.BigInt))
		require.NoError(t, err)
		_, err = tbl.SetPrimaryKey(name+"_pk", id)
		require.NoError(t, err)
		return tbl
	}
	ref := func(from, to *schema.Table) {
		c, err := from.AddColumn(schema.NewColumn(to.Name().Text+"_id", schema.BigInt))
		require.NoError(t, err)
		_, err = from.AddForeignKey(from.Name().Text+"_"+to.Name().Text+"_fk", []*schema.Column{c}, to)
		require.NoError(t, err)
	}
	line, order, customer, self := table("line"), table("order"), table("customer"), table("self")
	ref(line, order)
	ref(order, customer)
	ref(self, self)
	ref(customer, line)

	got := sortTables([]*schema.Table{line, order, customer, self})
	var names []string
	for _, tbl := range got {
		names = append(names, tbl.Name().Text)
	}
	// The line -> order -> customer -> line cycle keeps the declaration order
	// from where it was entered.
	assert.Equal(t, []string{"customer", "order", "line", "self"}, names)
}

func TestScript_String(t *testing.T) {
	s := &Script{}
	s.add("create table a (x int);", "  ", "create table b (y int)")
	assert.Equal(t, "create table a (x int);\ncreate table b (y int);\n", s.String())
}
