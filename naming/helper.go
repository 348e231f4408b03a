package naming

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CaseStrategy defines how unquoted identifiers are stored.
type CaseStrategy uint8

const (
	// CaseMixed keeps unquoted identifiers as written.
	CaseMixed CaseStrategy = iota
	// CaseLower folds unquoted identifiers to lower case.
	CaseLower
	// CaseUpper folds unquoted identifiers to upper case.
	CaseUpper
)

// Helper turns raw mapping text into Identifiers. Case folding and
// auto-quoting happen here, once, when text first becomes an Identifier;
// Identifiers are never folded again when compared.
type Helper struct {
	globallyQuote bool
	keywords      map[string]struct{}
	caseStrategy  CaseStrategy
}

// HelperOption configures a Helper.
type HelperOption func(*Helper)

// GloballyQuote quotes every identifier the Helper produces.
func GloballyQuote() HelperOption {
	return func(h *Helper) {
		h.globallyQuote = true
	}
}

// AutoQuoteKeywords quotes identifiers matching one of the given reserved
// words, compared case-insensitively.
func AutoQuoteKeywords(words ...string) HelperOption {
	return func(h *Helper) {
		for _, w := range words {
			h.keywords[fold(w)] = struct{}{}
		}
	}
}

// WithCaseStrategy sets how unquoted identifiers are stored.
func WithCaseStrategy(s CaseStrategy) HelperOption {
	return func(h *Helper) {
		h.caseStrategy = s
	}
}

// NewHelper returns a Helper configured by opts. The zero configuration
// keeps identifiers as written.
func NewHelper(opts ...HelperOption) *Helper {
	h := &Helper{
		keywords: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// fold returns the case-folded form of s. Casers keep state, so a new one
// is created per call and a Helper can be shared across goroutines.
func fold(s string) string {
	return cases.Fold().String(s)
}

// ToIdentifier converts raw text to an Identifier, applying quoting rules
// and case folding. Empty text gives the zero Identifier.
func (h *Helper) ToIdentifier(text string) Identifier {
	return h.normalize(ToIdentifier(strings.TrimSpace(text)))
}

// ToQuotedIdentifier converts raw text to a quoted Identifier.
func (h *Helper) ToQuotedIdentifier(text string) Identifier {
	return Quote(strings.TrimSpace(text))
}

// IsReservedWord reports whether word was registered with AutoQuoteKeywords.
func (h *Helper) IsReservedWord(word string) bool {
	_, ok := h.keywords[fold(word)]
	return ok
}

func (h *Helper) normalize(id Identifier) Identifier {
	if id.IsZero() || id.Quoted {
		return id
	}
	if h.globallyQuote || h.IsReservedWord(id.Text) {
		id.Quoted = true
		return id
	}
	switch h.caseStrategy {
	case CaseLower:
		id.Text = cases.Lower(language.Und).String(id.Text)
	case CaseUpper:
		id.Text = cases.Upper(language.Und).String(id.Text)
	}
	return id
}
