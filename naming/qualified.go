package naming

import (
	"strings"

	"github.com/syssam/relmodel"
)

// QualifiedName is a catalog.schema.object triple. Catalog and Schema may be
// absent (zero); Object is always present.
type QualifiedName struct {
	Catalog Identifier
	Schema  Identifier
	Object  Identifier
}

// NewQualifiedName returns a QualifiedName, failing if object is absent.
func NewQualifiedName(catalog, schema, object Identifier) (QualifiedName, error) {
	if object.IsZero() {
		return QualifiedName{}, relmodel.NewUnresolvableNameError("", "object name must be specified")
	}
	return QualifiedName{Catalog: catalog, Schema: schema, Object: object}, nil
}

// Parts returns the name itself. It lets the table and sequence flavours,
// which embed QualifiedName, be used wherever a Qualified is expected.
func (n QualifiedName) Parts() QualifiedName { return n }

// Render joins the present parts with "." in catalog.schema.object order.
// Each part renders with its own quoting markers only.
func (n QualifiedName) Render() string {
	var b strings.Builder
	if !n.Catalog.IsZero() {
		b.WriteString(n.Catalog.Render())
		b.WriteByte('.')
	}
	if !n.Schema.IsZero() {
		b.WriteString(n.Schema.Render())
		b.WriteByte('.')
	}
	b.WriteString(n.Object.Render())
	return b.String()
}

// String implements fmt.Stringer.
func (n QualifiedName) String() string { return n.Render() }

// Qualified is implemented by QualifiedName, QualifiedTableName and
// QualifiedSequenceName.
type Qualified interface {
	Parts() QualifiedName
}

// QualifiedTableName is the qualified name of a table.
type QualifiedTableName struct{ QualifiedName }

// NewQualifiedTableName returns a QualifiedTableName.
func NewQualifiedTableName(catalog, schema, table Identifier) QualifiedTableName {
	return QualifiedTableName{QualifiedName{Catalog: catalog, Schema: schema, Object: table}}
}

// TableName returns the table part of the name.
func (n QualifiedTableName) TableName() Identifier { return n.Object }

// QualifiedSequenceName is the qualified name of a sequence.
type QualifiedSequenceName struct{ QualifiedName }

// NewQualifiedSequenceName returns a QualifiedSequenceName.
func NewQualifiedSequenceName(catalog, schema, sequence Identifier) QualifiedSequenceName {
	return QualifiedSequenceName{QualifiedName{Catalog: catalog, Schema: schema, Object: sequence}}
}

// SequenceName returns the sequence part of the name.
func (n QualifiedSequenceName) SequenceName() Identifier { return n.Object }

// ThreePartOrder documents how ParseQualifiedName reads a name with three
// segments: the schema comes BEFORE the catalog, so "a.b.c" yields
// schema=a, catalog=b, object=c. This is the historical behavior mapping
// metadata relies on and is kept as is, even though Render writes the
// catalog first.
const ThreePartOrder = "schema.catalog.object"

// ParseQualifiedName parses a dot-delimited name. Missing catalog and schema
// segments fall back to the given defaults, including their quoting.
//
// A name wrapped in exactly one pair of backticks is a single quoted object
// name, dots included. Otherwise one segment is the object, two segments
// are schema.object and three are schema.catalog.object (see ThreePartOrder).
// Each segment may be quoted on its own.
func ParseQualifiedName(text string, defaultCatalog, defaultSchema Identifier) (QualifiedName, error) {
	if text == "" {
		return QualifiedName{}, relmodel.NewUnresolvableNameError(text, "object name to parse must be specified")
	}
	if strings.Count(text, "`") == 2 && len(text) > 2 && text[0] == '`' && text[len(text)-1] == '`' {
		return QualifiedName{
			Catalog: defaultCatalog,
			Schema:  defaultSchema,
			Object:  Identifier{Text: text[1 : len(text)-1], Quoted: true},
		}, nil
	}
	var (
		catalog, schema *string
		name            string
	)
	tokens := strings.Split(text, ".")
	// Trailing empty segments are dropped, so "a.b." names b in schema a.
	for len(tokens) > 1 && tokens[len(tokens)-1] == "" {
		tokens = tokens[:len(tokens)-1]
	}
	switch len(tokens) {
	case 1:
		name = tokens[0]
	case 2:
		schema, name = &tokens[0], tokens[1]
	case 3:
		schema, catalog, name = &tokens[0], &tokens[1], tokens[2]
	default:
		return QualifiedName{}, relmodel.NewUnresolvableNameError(text, "more than three segments")
	}
	object := ToIdentifier(name)
	if object.IsZero() {
		return QualifiedName{}, relmodel.NewUnresolvableNameError(text, "empty object name")
	}
	return QualifiedName{
		Catalog: segmentOrDefault(catalog, defaultCatalog),
		Schema:  segmentOrDefault(schema, defaultSchema),
		Object:  object,
	}, nil
}

// segmentOrDefault resolves a parsed segment. A segment that was not
// written falls back to the default; an empty one, as in "a..b", is absent.
func segmentOrDefault(segment *string, def Identifier) Identifier {
	if segment == nil {
		return def
	}
	return ToIdentifier(*segment)
}
