// Package dialect provides database dialect descriptors for the relmodel
// schema model.
//
// A Dialect supplies the defaults the boot-time schema model needs without
// talking to a database: default decimal precision, the maximum lengths used
// for character and binary columns declared without a length, and identifier
// quoting.
//
// # Supported Dialects
//
// The following dialects are built in:
//
//   - PostgresDialect: PostgreSQL
//   - MySQLDialect: MySQL/MariaDB
//   - SQLiteDialect: SQLite
//   - H2Dialect: H2 (naming and scoping only; no DDL planner)
//
// # Dialect Constants
//
// Each dialect is identified by a short name:
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//	dialect.H2       = "h2"
//
// # Implementation Names
//
// Auxiliary database objects are scoped to dialects by the fully-qualified
// name of the implementing type, as returned by ImplementationName:
//
//	dialect.ImplementationName(dialect.PostgresDialect{})
//	// "github.com/syssam/relmodel/dialect.PostgresDialect"
//
// Matching is an exact, case-sensitive string comparison. A custom type that
// embeds PostgresDialect does not match a scope naming PostgresDialect.
//
// # Custom Dialects
//
// Any type implementing Dialect can be used:
//
//	type Oracle struct{ dialect.PostgresDialect }
//
//	func (Oracle) Name() string                 { return "oracle" }
//	func (Oracle) DefaultDecimalPrecision() int { return 38 }
//	func (Oracle) MaxVarcharLength() int        { return 4000 }
package dialect
