package naming

import (
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/syssam/relmodel/dialect"
)

// Environment carries what a naming strategy may consult.
type Environment struct {
	Dialect dialect.Dialect
	Helper  *Helper
}

// PhysicalNamingStrategy translates logical names, as written in mapping
// metadata, to the physical names used in generated DDL. Implementations
// must be pure and deterministic; the schema model calls them once per
// logical name, at first registration. The zero Identifier maps to itself.
type PhysicalNamingStrategy interface {
	ToPhysicalCatalogName(logical Identifier, env *Environment) Identifier
	ToPhysicalSchemaName(logical Identifier, env *Environment) Identifier
	ToPhysicalTableName(logical Identifier, env *Environment) Identifier
	ToPhysicalSequenceName(logical Identifier, env *Environment) Identifier
	ToPhysicalTypeName(logical Identifier, env *Environment) Identifier
}

// Identity is the standard strategy: physical names equal logical names.
type Identity struct{}

var _ PhysicalNamingStrategy = Identity{}

// ToPhysicalCatalogName implements PhysicalNamingStrategy.
func (Identity) ToPhysicalCatalogName(logical Identifier, _ *Environment) Identifier { return logical }

// ToPhysicalSchemaName implements PhysicalNamingStrategy.
func (Identity) ToPhysicalSchemaName(logical Identifier, _ *Environment) Identifier { return logical }

// ToPhysicalTableName implements PhysicalNamingStrategy.
func (Identity) ToPhysicalTableName(logical Identifier, _ *Environment) Identifier { return logical }

// ToPhysicalSequenceName implements PhysicalNamingStrategy.
func (Identity) ToPhysicalSequenceName(logical Identifier, _ *Environment) Identifier { return logical }

// ToPhysicalTypeName implements PhysicalNamingStrategy.
func (Identity) ToPhysicalTypeName(logical Identifier, _ *Environment) Identifier { return logical }

// CamelCaseToUnderscores converts unquoted camel-case names to lower-case
// snake case ("OrderLine" becomes "order_line"). Quoted names are kept.
type CamelCaseToUnderscores struct{}

var _ PhysicalNamingStrategy = CamelCaseToUnderscores{}

// ToPhysicalCatalogName implements PhysicalNamingStrategy.
func (s CamelCaseToUnderscores) ToPhysicalCatalogName(logical Identifier, env *Environment) Identifier {
	return s.apply(logical, env)
}

// ToPhysicalSchemaName implements PhysicalNamingStrategy.
func (s CamelCaseToUnderscores) ToPhysicalSchemaName(logical Identifier, env *Environment) Identifier {
	return s.apply(logical, env)
}

// ToPhysicalTableName implements PhysicalNamingStrategy.
func (s CamelCaseToUnderscores) ToPhysicalTableName(logical Identifier, env *Environment) Identifier {
	return s.apply(logical, env)
}

// ToPhysicalSequenceName implements PhysicalNamingStrategy.
func (s CamelCaseToUnderscores) ToPhysicalSequenceName(logical Identifier, env *Environment) Identifier {
	return s.apply(logical, env)
}

// ToPhysicalTypeName implements PhysicalNamingStrategy.
func (s CamelCaseToUnderscores) ToPhysicalTypeName(logical Identifier, env *Environment) Identifier {
	return s.apply(logical, env)
}

func (CamelCaseToUnderscores) apply(logical Identifier, env *Environment) Identifier {
	if logical.IsZero() || logical.Quoted {
		return logical
	}
	text := strings.ToLower(inflect.Underscore(logical.Text))
	// A snake-cased name may turn into a reserved word ("Order" -> "order").
	if env != nil && env.Helper != nil && env.Helper.IsReservedWord(text) {
		return Identifier{Text: text, Quoted: true}
	}
	return Identifier{Text: text}
}
