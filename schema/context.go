package schema

import (
	"strings"

	"github.com/syssam/relmodel/dialect"
	"github.com/syssam/relmodel/naming"
)

// GenerationContext renders names for DDL in a target dialect, filling in
// a default catalog and schema where a name has none.
type GenerationContext struct {
	dialect        dialect.Dialect
	defaultCatalog naming.Identifier
	defaultSchema  naming.Identifier
}

// NewGenerationContext returns a context for d with the given defaults.
// Either default may be zero.
func NewGenerationContext(d dialect.Dialect, defaultCatalog, defaultSchema naming.Identifier) *GenerationContext {
	return &GenerationContext{
		dialect:        d,
		defaultCatalog: defaultCatalog,
		defaultSchema:  defaultSchema,
	}
}

// Dialect returns the target dialect.
func (c *GenerationContext) Dialect() dialect.Dialect { return c.dialect }

// DefaultCatalog returns the default catalog, possibly zero.
func (c *GenerationContext) DefaultCatalog() naming.Identifier { return c.defaultCatalog }

// DefaultSchema returns the default schema, possibly zero.
func (c *GenerationContext) DefaultSchema() naming.Identifier { return c.defaultSchema }

// CatalogWithDefault returns catalog, or the default catalog if it is zero.
func (c *GenerationContext) CatalogWithDefault(catalog naming.Identifier) naming.Identifier {
	if catalog.IsZero() {
		return c.defaultCatalog
	}
	return catalog
}

// SchemaWithDefault returns schema, or the default schema if it is zero.
func (c *GenerationContext) SchemaWithDefault(schema naming.Identifier) naming.Identifier {
	if schema.IsZero() {
		return c.defaultSchema
	}
	return schema
}

// ToIdentifier converts text, honoring quote markers.
func (c *GenerationContext) ToIdentifier(text string) naming.Identifier {
	return naming.ToIdentifier(text)
}

// Format renders a qualified name for DDL. Missing parts take the
// defaults and quoted parts use the dialect's quoting.
func (c *GenerationContext) Format(name naming.Qualified) string {
	parts := name.Parts()
	return c.render(c.CatalogWithDefault(parts.Catalog), c.SchemaWithDefault(parts.Schema), parts.Object)
}

// FormatWithoutDefaults renders a qualified name for DDL without applying
// the defaults.
func (c *GenerationContext) FormatWithoutDefaults(name naming.Qualified) string {
	parts := name.Parts()
	return c.render(parts.Catalog, parts.Schema, parts.Object)
}

// FormatIdentifier renders a single identifier for DDL.
func (c *GenerationContext) FormatIdentifier(id naming.Identifier) string {
	if id.Quoted && c.dialect != nil {
		return c.dialect.Quote(id.Text)
	}
	return id.Text
}

func (c *GenerationContext) render(ids ...naming.Identifier) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if !id.IsZero() {
			parts = append(parts, c.FormatIdentifier(id))
		}
	}
	return strings.Join(parts, ".")
}
