package export

import (
	"fmt"
	"strconv"
	"strings"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	atlas "ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/relmodel"
	"github.com/syssam/relmodel/dialect"
	"github.com/syssam/relmodel/schema"
)

// defaultLength is the length of sized character and binary columns
// declared without one.
const defaultLength = 255

// driver holds what the exporter needs from one dialect: the atlas planner
// for tables and the raw type names used for columns.
type driver struct {
	name    string
	planner migrate.PlanApplier
	parse   func(string) (atlas.Type, error)
	format  func(atlas.Type) (string, error)
	// types maps a type code to a raw type. "(n)" takes the column length,
	// "(p)" and "(p,s)" take the precision and scale and are dropped when
	// the precision is unspecified.
	types map[schema.Code]string
	// Features the dialect has beyond tables.
	schemas, sequences, udts bool
}

var drivers = map[string]*driver{
	dialect.Postgres: {
		name:      dialect.Postgres,
		planner:   postgres.DefaultPlan,
		parse:     postgres.ParseType,
		format:    postgres.FormatType,
		schemas:   true,
		sequences: true,
		udts:      true,
		types: map[schema.Code]string{
			schema.Bit:             "boolean",
			schema.Boolean:         "boolean",
			schema.TinyInt:         "smallint",
			schema.SmallInt:        "smallint",
			schema.Integer:         "integer",
			schema.BigInt:          "bigint",
			schema.Real:            "real",
			schema.Float:           "float(p)",
			schema.Double:          "float8",
			schema.Numeric:         "numeric(p,s)",
			schema.Decimal:         "numeric(p,s)",
			schema.Char:            "char(n)",
			schema.NChar:           "char(n)",
			schema.VarChar:         "varchar(n)",
			schema.NVarChar:        "varchar(n)",
			schema.LongVarChar:     "text",
			schema.LongNVarChar:    "text",
			schema.Long32VarChar:   "text",
			schema.Long32NVarChar:  "text",
			schema.Clob:            "text",
			schema.NClob:           "text",
			schema.Enum:            "varchar(n)",
			schema.Binary:          "bytea",
			schema.VarBinary:       "bytea",
			schema.LongVarBin:      "bytea",
			schema.Long32VarBinary: "bytea",
			schema.Blob:            "bytea",
			schema.Date:            "date",
			schema.Time:            "time",
			schema.TimeTZ:          "timetz",
			schema.TimeUTC:         "timetz",
			schema.Timestamp:       "timestamp",
			schema.TimestampTZ:     "timestamptz",
			schema.TimestampUTC:    "timestamptz",
			schema.IntervalSecond:  "interval",
			schema.UUID:            "uuid",
			schema.JSON:            "jsonb",
			schema.Inet:            "inet",
			schema.Geometry:        "geometry",
			schema.SQLXML:          "xml",
		},
	},
	dialect.MySQL: {
		name:    dialect.MySQL,
		planner: mysql.DefaultPlan,
		parse:   mysql.ParseType,
		format:  mysql.FormatType,
		schemas: true,
		types: map[schema.Code]string{
			schema.Bit:             "bool",
			schema.Boolean:         "bool",
			schema.TinyInt:         "tinyint",
			schema.SmallInt:        "smallint",
			schema.Integer:         "int",
			schema.BigInt:          "bigint",
			schema.Real:            "float",
			schema.Float:           "float(p)",
			schema.Double:          "double",
			schema.Numeric:         "decimal(p,s)",
			schema.Decimal:         "decimal(p,s)",
			schema.Char:            "char(n)",
			schema.NChar:           "char(n)",
			schema.VarChar:         "varchar(n)",
			schema.NVarChar:        "varchar(n)",
			schema.LongVarChar:     "longtext",
			schema.LongNVarChar:    "longtext",
			schema.Long32VarChar:   "longtext",
			schema.Long32NVarChar:  "longtext",
			schema.Clob:            "longtext",
			schema.NClob:           "longtext",
			schema.Enum:            "varchar(n)",
			schema.Binary:          "binary(n)",
			schema.VarBinary:       "varbinary(n)",
			schema.LongVarBin:      "longblob",
			schema.Long32VarBinary: "longblob",
			schema.Blob:            "longblob",
			schema.Date:            "date",
			schema.Time:            "time",
			schema.TimeTZ:          "time",
			schema.TimeUTC:         "time",
			schema.Timestamp:       "datetime",
			schema.TimestampTZ:     "timestamp",
			schema.TimestampUTC:    "timestamp",
			schema.IntervalSecond:  "bigint",
			schema.UUID:            "binary(16)",
			schema.JSON:            "json",
			schema.Inet:            "varchar(39)",
			schema.Geometry:        "geometry",
			schema.SQLXML:          "longtext",
		},
	},
	dialect.SQLite: {
		name:    dialect.SQLite,
		planner: sqlite.DefaultPlan,
		parse:   sqlite.ParseType,
		format:  sqlite.FormatType,
		types: map[schema.Code]string{
			schema.Bit:             "boolean",
			schema.Boolean:         "boolean",
			schema.TinyInt:         "tinyint",
			schema.SmallInt:        "smallint",
			schema.Integer:         "integer",
			schema.BigInt:          "bigint",
			schema.Real:            "real",
			schema.Float:           "real",
			schema.Double:          "double",
			schema.Numeric:         "numeric(p,s)",
			schema.Decimal:         "numeric(p,s)",
			schema.Char:            "char(n)",
			schema.NChar:           "nchar(n)",
			schema.VarChar:         "varchar(n)",
			schema.NVarChar:        "nvarchar(n)",
			schema.LongVarChar:     "text",
			schema.LongNVarChar:    "text",
			schema.Long32VarChar:   "text",
			schema.Long32NVarChar:  "text",
			schema.Clob:            "clob",
			schema.NClob:           "clob",
			schema.Enum:            "varchar(n)",
			schema.Binary:          "blob",
			schema.VarBinary:       "blob",
			schema.LongVarBin:      "blob",
			schema.Long32VarBinary: "blob",
			schema.Blob:            "blob",
			schema.Date:            "date",
			schema.Time:            "time",
			schema.TimeTZ:          "time",
			schema.TimeUTC:         "time",
			schema.Timestamp:       "datetime",
			schema.TimestampTZ:     "datetime",
			schema.TimestampUTC:    "datetime",
			schema.IntervalSecond:  "bigint",
			schema.UUID:            "uuid",
			schema.JSON:            "json",
			schema.Inet:            "text",
			schema.Geometry:        "blob",
			schema.SQLXML:          "text",
		},
	},
}

// driverFor returns the driver of d. Types embedding a built-in dialect
// share its driver.
func driverFor(d dialect.Dialect) (*driver, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: no dialect", relmodel.ErrUnsupportedDialect)
	}
	drv, ok := drivers[d.Name()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", relmodel.ErrUnsupportedDialect, d.Name())
	}
	return drv, nil
}

// rawType returns the raw type of a column of type t.
func (d *driver) rawType(t schema.ColumnType, size schema.Size) (string, error) {
	if t.SQLTyped() {
		if !d.udts {
			return "", fmt.Errorf("%s has no user-defined type %q", d.name, t.SQLName)
		}
		return t.SQLName, nil
	}
	if t.Code == schema.Array && t.Element != nil && d.udts {
		elem, err := d.rawType(*t.Element, schema.Size{})
		if err != nil {
			return "", err
		}
		return elem + "[]", nil
	}
	raw, ok := d.types[t.Code]
	if !ok {
		return "", fmt.Errorf("%s has no type for %s", d.name, t.Code)
	}
	switch {
	case strings.HasSuffix(raw, "(n)"):
		n := size.Length
		if n <= 0 {
			n = defaultLength
		}
		raw = strings.TrimSuffix(raw, "(n)") + "(" + strconv.Itoa(n) + ")"
	case strings.HasSuffix(raw, "(p,s)"):
		raw = strings.TrimSuffix(raw, "(p,s)")
		switch {
		case size.Precision > 0 && size.Scale > 0:
			raw = fmt.Sprintf("%s(%d,%d)", raw, size.Precision, size.Scale)
		case size.Precision > 0:
			raw = fmt.Sprintf("%s(%d)", raw, size.Precision)
		}
	case strings.HasSuffix(raw, "(p)"):
		raw = strings.TrimSuffix(raw, "(p)")
		if size.Precision > 0 {
			raw = fmt.Sprintf("%s(%d)", raw, size.Precision)
		}
	}
	return raw, nil
}

// columnType converts the type of c into an atlas column type.
func (d *driver) columnType(c *schema.Column) (*atlas.ColumnType, error) {
	raw, err := d.rawType(c.Type, c.Size())
	if err != nil {
		return nil, err
	}
	t, err := d.parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse type %q: %w", raw, err)
	}
	return &atlas.ColumnType{Type: t, Raw: raw, Null: c.Nullable}, nil
}

// typeString formats the type of c as it appears in DDL.
func (d *driver) typeString(c *schema.Column) (string, error) {
	ct, err := d.columnType(c)
	if err != nil {
		return "", err
	}
	return d.format(ct.Type)
}
