// Package naming provides identifiers, qualified names and physical naming
// strategies for the relmodel schema model.
//
// # Identifiers
//
// An Identifier is a simple name plus a quoted flag. Identifiers are plain
// comparable values and are used directly as map keys:
//
//	naming.ToIdentifier("users")     // {Text: "users"}
//	naming.ToIdentifier("`Order`")   // {Text: "Order", Quoted: true}
//	naming.Quote("Order")            // {Text: "Order", Quoted: true}
//
// The zero Identifier means "absent", e.g. a namespace without a catalog.
//
// # Qualified Names
//
// ParseQualifiedName splits dot-delimited text into catalog, schema and
// object. Note the three-segment order documented on ThreePartOrder:
//
//	n, _ := naming.ParseQualifiedName("sales.erp.orders", naming.Identifier{}, naming.Identifier{})
//	// n.Schema = sales, n.Catalog = erp, n.Object = orders
//	n.Render() // "erp.sales.orders"
//
// # Naming Strategies
//
// A PhysicalNamingStrategy maps logical names to physical ones. Identity
// keeps names as written; CamelCaseToUnderscores snake-cases them:
//
//	naming.CamelCaseToUnderscores{}.ToPhysicalTableName(naming.ToIdentifier("OrderLine"), env)
//	// {Text: "order_line"}
package naming
