// Package parser implements the tokenizer/parser state machine: a
// character-driven FSM, lenient about malformed markup, runnable
// synchronously, cooperatively (yielding), or over chunked input, that
// emits a stream of events while building a dom.Tree.
package parser

import (
	"strings"

	"github.com/kshetline/fortissimo-html-sub000/dom"
)

// EOL selects how end-of-line sequences in the source are normalized in
// emitted text. The zero value (EOLPreserve) keeps source EOLs exactly.
type EOL int

const (
	EOLPreserve EOL = iota
	EOLLF
	EOLCR
	EOLCRLF
)

func (e EOL) replacement() string {
	switch e {
	case EOLLF:
		return "\n"
	case EOLCR:
		return "\r"
	case EOLCRLF:
		return "\r\n"
	default:
		return ""
	}
}

// ParseEOL accepts the mnemonic forms "\n"/"\r"/"\r\n", "n"/"r"/"rn",
// "lf"/"cr"/"crlf", or the booleans true (= "\n") / false (preserve).
func ParseEOL(v interface{}) EOL {
	switch t := v.(type) {
	case bool:
		if t {
			return EOLLF
		}
		return EOLPreserve
	case string:
		switch strings.ToLower(t) {
		case "\n", "n", "lf":
			return EOLLF
		case "\r", "r", "cr":
			return EOLCR
		case "\r\n", "rn", "crlf":
			return EOLCRLF
		default:
			return EOLPreserve
		}
	default:
		return EOLPreserve
	}
}

func normalizeEOLs(s string, eol EOL) string {
	repl := eol.replacement()
	if repl == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			b.WriteString(repl)
		case '\n':
			b.WriteString(repl)
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Options configures a Parser.
type Options struct {
	EOL         EOL
	EmptyEndTag bool // default true: treat "</>" as an end tag
	FixBadChars bool
	Fast        bool // loose character classification
	TabSize     int
	YieldTime   int64 // milliseconds; cooperative mode default 50
	XMLMode     bool  // force XML mode from the start (e.g. caller knows it's XHTML)
	Trace       func(stage string, line, col int)
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		EmptyEndTag: true,
		TabSize:     8,
		YieldTime:   50,
	}
}

// Handlers is the set of optional event callbacks. Every field
// is independently optional — unlike a single do-everything interface, a
// caller only wires the events it cares about, matching
// moznion-helium/sax's ContentHandler in spirit but adapted to Go's
// prefer-small-function-values idiom instead of a mandatory interface.
type Handlers struct {
	Attribute   func(leadingSpace, name, equals, value, quote string)
	CData       func(depth int, content string, terminated bool)
	Comment     func(depth int, content string, terminated bool)
	Completion  func(results *Results)
	Declaration func(depth int, content string, terminated bool)
	DocType     func(docType *dom.DocType, terminated bool)
	// Encoding returns true to abort the current parse so the caller can
	// restart decoding under the discovered charset.
	Encoding      func(name, normalizedName string, explicit bool) bool
	EndTag        func(depth int, tag, innerWhitespace string)
	Error         func(message string, line, column int, pendingSource string)
	Generic       func(depth int, serializedText string)
	Processing    func(depth int, content string, terminated bool)
	RequestData   func()
	StartTagEnd   func(depth int, innerWhitespace string, end string)
	StartTagStart func(depth int, tag string)
	Text          func(depth int, leadingSpace, text, trailingSpace string)
}

func (h *Handlers) emitGeneric(depth int, s string) {
	if h.Generic != nil {
		h.Generic(depth, s)
	}
}
