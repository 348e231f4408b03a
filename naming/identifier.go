package naming

import (
	"cmp"
	"strings"

	"github.com/syssam/relmodel"
)

// Identifier is a simple (non-qualified) database object name plus whether
// it was explicitly quoted in the mapping text.
//
// Identifiers are comparable values: two Identifiers are equal, and thus
// interchangeable as map keys, only if Text and Quoted match exactly.
// Comparison never folds case. The zero Identifier means "absent".
type Identifier struct {
	Text   string
	Quoted bool
}

// NewIdentifier returns the Identifier for text. Unlike ToIdentifier, it
// fails on empty text and never interprets quote markers, so
// NewIdentifier(i.Text, i.Quoted) always reproduces i.
func NewIdentifier(text string, quoted bool) (Identifier, error) {
	if text == "" {
		return Identifier{}, relmodel.NewUnresolvableNameError(text, "identifier text must be specified")
	}
	return Identifier{Text: text, Quoted: quoted}, nil
}

// ToIdentifier converts raw mapping text to an Identifier. Empty text gives
// the zero Identifier. Text wrapped in a pair of quote markers
// (`name`, "name" or [name]) is unwrapped and marked quoted.
func ToIdentifier(text string) Identifier {
	if text == "" {
		return Identifier{}
	}
	if IsQuoted(text) {
		return Identifier{Text: text[1 : len(text)-1], Quoted: true}
	}
	return Identifier{Text: text}
}

// Quote returns a quoted Identifier for text, or the zero Identifier if text
// is empty. Quote markers around text are stripped first.
func Quote(text string) Identifier {
	id := ToIdentifier(text)
	if id.IsZero() {
		return id
	}
	id.Quoted = true
	return id
}

// IsQuoted reports whether text is wrapped in one of the recognized quote
// marker pairs.
func IsQuoted(text string) bool {
	if len(text) < 2 {
		return false
	}
	first, last := text[0], text[len(text)-1]
	return (first == '`' && last == '`') ||
		(first == '"' && last == '"') ||
		(first == '[' && last == ']')
}

// IsZero reports whether the Identifier is absent.
func (i Identifier) IsZero() bool {
	return i.Text == ""
}

// Render returns the text, wrapped in backticks if quoted.
func (i Identifier) Render() string {
	if i.Quoted {
		return "`" + i.Text + "`"
	}
	return i.Text
}

// String implements fmt.Stringer.
func (i Identifier) String() string {
	return i.Render()
}

// Compare orders Identifiers by text and then unquoted before quoted.
func (i Identifier) Compare(o Identifier) int {
	if c := strings.Compare(i.Text, o.Text); c != 0 {
		return c
	}
	return cmp.Compare(b2i(i.Quoted), b2i(o.Quoted))
}

// CompareOptional compares two possibly absent Identifiers. Present values
// sort before absent ones.
func CompareOptional(a, b Identifier) int {
	switch {
	case a.IsZero() && b.IsZero():
		return 0
	case a.IsZero():
		return 1
	case b.IsZero():
		return -1
	default:
		return a.Compare(b)
	}
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
