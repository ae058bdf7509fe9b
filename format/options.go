// Package format implements a whitespace/indentation/attribute-policy
// pretty-printer: it walks a dom.Element tree and reflows it, leaving
// raw-text and verbatim constructs (script/style, comments, doctype,
// CDATA, processing instructions) untouched.
package format

import (
	"github.com/kshetline/fortissimo-html-sub000/elements"
	"github.com/kshetline/fortissimo-html-sub000/entity"
)

// ValueQuoting is the policy for whether an attribute value keeps its
// quotes at all, independent of which quote character is used.
type ValueQuoting int

const (
	// LeaveAsIs never changes whether (or how) a value is quoted.
	LeaveAsIs ValueQuoting = iota
	// AlwaysQuote forces a currently-unquoted value to be quoted.
	AlwaysQuote
	// UnquoteIntegers strips quotes from values that are plain integers.
	UnquoteIntegers
	// UnquoteSimpleValues strips quotes from values matching
	// /^[-\da-z._]+$/i, a superset of UnquoteIntegers.
	UnquoteSimpleValues
)

// ValueQuoteStyle picks the quote character used for a value that is (or
// becomes) quoted. It has no effect under ValueQuoting == LeaveAsIs.
type ValueQuoteStyle int

const (
	// PreferDouble uses " unless the value contains " but not ', in which
	// case ' is used instead.
	PreferDouble ValueQuoteStyle = iota
	// PreferSingle mirrors PreferDouble with the roles of " and ' swapped.
	PreferSingle
	// Double always quotes with ", escaping any literal " as &quot;.
	Double
	// Single always quotes with ', escaping any literal ' as &#39;.
	Single
)

// Options configures Format.
type Options struct {
	// Indent is spaces per nesting level. 0 leaves line breaks and
	// indentation exactly as found in the source (no reflow at all); 1
	// compacts the whole document onto a single line; >1 pretty-prints
	// with that many spaces per level (or one tab per level, see
	// UseTabCharacters).
	Indent             int
	ContinuationIndent string

	ChildrenNotIndented  []string
	Inline               []string
	KeepWhitespaceInside []string
	NewLineBefore        []string
	RemoveNewLineBefore  []string

	AlignAttributes            bool
	DontBreakIfInline          bool
	EndDocumentWithNewline     bool
	TrimDocument               bool
	InstantiateSyntheticNodes  bool
	MaxBlankLines              int
	NormalizeAttributeSpacing  bool
	SpaceAroundAttributeEquals bool
	ValueQuoting               ValueQuoting
	ValueQuoteStyle            ValueQuoteStyle
	UseTabCharacters           bool
	TabSize                    int

	Escape entity.Options
}

// DefaultOptions returns the formatter's documented defaults, seeded from
// the elements package's built-in tag-policy tables.
func DefaultOptions() Options {
	return Options{
		Indent:                 2,
		ContinuationIndent:     "    ",
		ChildrenNotIndented:    append([]string(nil), elements.ChildrenNotIndentedDefault...),
		RemoveNewLineBefore:    append([]string(nil), elements.RemoveNewLineBeforeDefault...),
		EndDocumentWithNewline: true,
		MaxBlankLines:          1,
		TabSize:                8,
		ValueQuoting:           LeaveAsIs,
		ValueQuoteStyle:        PreferDouble,
	}
}

func stringSetOf(list []string) map[string]bool {
	set := make(map[string]bool, len(list))
	for _, s := range list {
		set[s] = true
	}
	return set
}
