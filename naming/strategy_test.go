package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/relmodel/dialect"
)

func TestIdentity(t *testing.T) {
	var s PhysicalNamingStrategy = Identity{}
	id := ToIdentifier("OrderLine")
	assert.Equal(t, id, s.ToPhysicalTableName(id, nil))
	assert.Equal(t, id, s.ToPhysicalSequenceName(id, nil))
	assert.Equal(t, Identifier{}, s.ToPhysicalCatalogName(Identifier{}, nil))
}

func TestCamelCaseToUnderscores(t *testing.T) {
	env := &Environment{Dialect: dialect.PostgresDialect{}, Helper: NewHelper(AutoQuoteKeywords("order"))}
	s := CamelCaseToUnderscores{}

	tests := []struct {
		name string
		in   Identifier
		want Identifier
	}{
		{"camel case", ToIdentifier("OrderLine"), ToIdentifier("order_line")},
		{"lower case", ToIdentifier("customer"), ToIdentifier("customer")},
		{"quoted kept", Quote("OrderLine"), Quote("OrderLine")},
		{"reserved word quoted", ToIdentifier("Order"), Quote("order")},
		{"absent", Identifier{}, Identifier{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.ToPhysicalTableName(tt.in, env))
		})
	}
	assert.Equal(t, ToIdentifier("sales_data"), s.ToPhysicalSchemaName(ToIdentifier("SalesData"), nil))
}

func TestHelper(t *testing.T) {
	t.Run("default keeps text", func(t *testing.T) {
		h := NewHelper()
		assert.Equal(t, ToIdentifier("Users"), h.ToIdentifier(" Users "))
		assert.Equal(t, Identifier{}, h.ToIdentifier(""))
	})

	t.Run("case folding", func(t *testing.T) {
		assert.Equal(t, ToIdentifier("users"), NewHelper(WithCaseStrategy(CaseLower)).ToIdentifier("Users"))
		assert.Equal(t, ToIdentifier("USERS"), NewHelper(WithCaseStrategy(CaseUpper)).ToIdentifier("Users"))
		// Quoted text is never folded.
		assert.Equal(t, Quote("Users"), NewHelper(WithCaseStrategy(CaseLower)).ToIdentifier("`Users`"))
	})

	t.Run("quoting", func(t *testing.T) {
		h := NewHelper(AutoQuoteKeywords("SELECT", "order"))
		assert.Equal(t, Quote("Order"), h.ToIdentifier("Order"))
		assert.Equal(t, Quote("select"), h.ToIdentifier("select"))
		assert.True(t, h.IsReservedWord("ORDER"))
		assert.False(t, h.IsReservedWord("users"))

		g := NewHelper(GloballyQuote(), WithCaseStrategy(CaseLower))
		assert.Equal(t, Quote("Users"), g.ToIdentifier("Users"))
		assert.Equal(t, Quote("x"), g.ToQuotedIdentifier("x"))
	})
}
