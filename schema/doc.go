// Package schema models the relational schema built while mapping metadata
// is processed.
//
// A [Database] owns one or more [Namespace] values, each scoped to a catalog
// and schema pair. Namespaces register tables, sequences and user-defined
// types by logical name and compute the physical name exactly once, through
// the configured [naming.PhysicalNamingStrategy]:
//
//	db := schema.New(
//	    schema.WithDialect(dialect.PostgresDialect{}),
//	    schema.WithNamingStrategy(naming.CamelCaseToUnderscores{}),
//	)
//	ns := db.DefaultNamespace()
//	users, err := ns.CreateTable(naming.ToIdentifier("UserAccount"), func(physical naming.Identifier) *schema.Table {
//	    return schema.NewTable("User", ns, physical, false)
//	})
//
// # Finalization
//
// The model is built by a single goroutine. [Database.Finalize] validates
// it, orders user-defined types by dependency, applies the configured
// [ColumnOrderingStrategy] and seals it. Every mutator returns
// [relmodel.ErrFinalized] afterwards and accessors return copies, so a
// finalized model can be read by any number of goroutines. The exported
// fields of [Column], [Table], [ForeignKey], [Index] and the user-defined types are
// not guarded and must not be written once Finalize has returned.
//
// # Auxiliary objects
//
// Hand-written DDL is registered as an [AuxiliaryDatabaseObject]. Template
// objects substitute ${catalog} and ${schema} with the names rendered by a
// [GenerationContext].
package schema
