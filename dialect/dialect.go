package dialect

import (
	"math"
	"reflect"
	"strings"

	"github.com/lib/pq"
)

// Dialect names.
const (
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite"
	H2       = "h2"
)

// Dialect describes the database-specific defaults the schema model needs
// while ordering columns, scoping auxiliary objects and rendering names.
type Dialect interface {
	// Name returns the short dialect name (e.g. "postgres").
	Name() string
	// DefaultDecimalPrecision is used for NUMERIC/DECIMAL columns without
	// an explicit precision.
	DefaultDecimalPrecision() int
	// MaxVarcharLength is the length of a character column without an
	// explicit length.
	MaxVarcharLength() int
	// MaxNVarcharLength is the length of a national character column
	// without an explicit length.
	MaxNVarcharLength() int
	// MaxVarbinaryLength is the length of a binary column without an
	// explicit length.
	MaxVarbinaryLength() int
	// Quote wraps an identifier in the dialect's quote characters.
	Quote(ident string) string
}

// ImplementationName returns the fully-qualified name of the concrete type
// implementing d, e.g. "github.com/syssam/relmodel/dialect.PostgresDialect".
// Auxiliary objects are scoped against this name with an exact string match,
// so a type embedding a built-in dialect has its own name.
func ImplementationName(d Dialect) string {
	if d == nil {
		return ""
	}
	t := reflect.TypeOf(d)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

// PostgresDialect describes PostgreSQL.
type PostgresDialect struct{}

// Name implements Dialect.
func (PostgresDialect) Name() string { return Postgres }

// DefaultDecimalPrecision implements Dialect.
func (PostgresDialect) DefaultDecimalPrecision() int { return 1000 }

// MaxVarcharLength implements Dialect.
func (PostgresDialect) MaxVarcharLength() int { return 10_485_760 }

// MaxNVarcharLength implements Dialect.
func (PostgresDialect) MaxNVarcharLength() int { return 10_485_760 }

// MaxVarbinaryLength implements Dialect.
func (PostgresDialect) MaxVarbinaryLength() int { return math.MaxInt32 }

// Quote implements Dialect. Embedded double quotes are doubled and the
// identifier is cut at the first NUL byte.
func (PostgresDialect) Quote(ident string) string { return pq.QuoteIdentifier(ident) }

// MySQLDialect describes MySQL and MariaDB.
type MySQLDialect struct{}

// Name implements Dialect.
func (MySQLDialect) Name() string { return MySQL }

// DefaultDecimalPrecision implements Dialect.
func (MySQLDialect) DefaultDecimalPrecision() int { return 65 }

// MaxVarcharLength implements Dialect.
func (MySQLDialect) MaxVarcharLength() int { return 65_535 }

// MaxNVarcharLength implements Dialect.
func (MySQLDialect) MaxNVarcharLength() int { return 65_535 }

// MaxVarbinaryLength implements Dialect.
func (MySQLDialect) MaxVarbinaryLength() int { return 65_535 }

// Quote implements Dialect.
func (MySQLDialect) Quote(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

// SQLiteDialect describes SQLite.
type SQLiteDialect struct{}

// Name implements Dialect.
func (SQLiteDialect) Name() string { return SQLite }

// DefaultDecimalPrecision implements Dialect.
func (SQLiteDialect) DefaultDecimalPrecision() int { return 38 }

// MaxVarcharLength implements Dialect.
func (SQLiteDialect) MaxVarcharLength() int { return math.MaxInt32 }

// MaxNVarcharLength implements Dialect.
func (SQLiteDialect) MaxNVarcharLength() int { return math.MaxInt32 }

// MaxVarbinaryLength implements Dialect.
func (SQLiteDialect) MaxVarbinaryLength() int { return math.MaxInt32 }

// Quote implements Dialect.
func (SQLiteDialect) Quote(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

// H2Dialect describes the H2 database. It has no DDL planner in the export
// package and is mostly used for dialect-scoped auxiliary objects.
type H2Dialect struct{}

// Name implements Dialect.
func (H2Dialect) Name() string { return H2 }

// DefaultDecimalPrecision implements Dialect.
func (H2Dialect) DefaultDecimalPrecision() int { return 100_000 }

// MaxVarcharLength implements Dialect.
func (H2Dialect) MaxVarcharLength() int { return 1_000_000_000 }

// MaxNVarcharLength implements Dialect.
func (H2Dialect) MaxNVarcharLength() int { return 1_000_000_000 }

// MaxVarbinaryLength implements Dialect.
func (H2Dialect) MaxVarbinaryLength() int { return 1_000_000_000 }

// Quote implements Dialect.
func (H2Dialect) Quote(ident string) string { return doubleQuote(ident) }

func doubleQuote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// ByName returns the built-in dialect with the given short name.
// It accepts driver names with a suffix, like "sqlite3" or "postgres+pgx".
func ByName(name string) (Dialect, bool) {
	for _, d := range []Dialect{PostgresDialect{}, MySQLDialect{}, SQLiteDialect{}, H2Dialect{}} {
		if strings.HasPrefix(name, d.Name()) {
			return d, true
		}
	}
	return nil, false
}
