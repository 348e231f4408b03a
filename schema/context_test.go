package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/relmodel/dialect"
	"github.com/syssam/relmodel/naming"
)

func TestGenerationContext_Format(t *testing.T) {
	ctx := NewGenerationContext(dialect.PostgresDialect{}, naming.ToIdentifier("main"), naming.ToIdentifier("public"))
	table := naming.NewQualifiedTableName(naming.Identifier{}, naming.Identifier{}, naming.ToIdentifier("users"))
	seq := naming.NewQualifiedSequenceName(naming.Identifier{}, naming.ToIdentifier("audit"), naming.Quote("Seq"))

	assert.Equal(t, "main.public.users", ctx.Format(table))
	assert.Equal(t, "users", ctx.FormatWithoutDefaults(table))
	assert.Equal(t, `main.audit."Seq"`, ctx.Format(seq))
	assert.Equal(t, `audit."Seq"`, ctx.FormatWithoutDefaults(seq))
	assert.Equal(t, "main.public.users", ctx.Format(table.QualifiedName))

	mysql := NewGenerationContext(dialect.MySQLDialect{}, naming.Identifier{}, naming.Identifier{})
	assert.Equal(t, "audit.`Seq`", mysql.Format(seq))
	assert.Equal(t, "users", mysql.Format(table))
}

func TestGenerationContext_Defaults(t *testing.T) {
	ctx := NewGenerationContext(dialect.H2Dialect{}, naming.Identifier{}, naming.ToIdentifier("public"))
	assert.True(t, ctx.CatalogWithDefault(naming.Identifier{}).IsZero())
	assert.Equal(t, "cat", ctx.CatalogWithDefault(naming.ToIdentifier("cat")).Text)
	assert.Equal(t, "public", ctx.SchemaWithDefault(naming.Identifier{}).Text)
	assert.Equal(t, "s", ctx.SchemaWithDefault(naming.ToIdentifier("s")).Text)
	assert.Equal(t, naming.Identifier{Text: "x", Quoted: true}, ctx.ToIdentifier("`x`"))
}
