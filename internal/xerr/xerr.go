// Package xerr provides the error primitives shared by the parser, DOM, and
// formatter packages.
package xerr

import (
	"errors"
	"strconv"
	"strings"
)

func New(text string) error { return errors.New(text) }

func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target interface{}) bool { return errors.As(err, target) }

func Unwrap(err error) error { return errors.Unwrap(err) }

// Kind classifies a recoverable parse error.
type Kind int

const (
	SyntaxInTag Kind = iota
	UnmatchedEndTag
	UnterminatedConstruct
	UnexpectedEOF
	EncodingMismatch
)

func (k Kind) String() string {
	switch k {
	case SyntaxInTag:
		return "syntax-in-tag"
	case UnmatchedEndTag:
		return "unmatched-end-tag"
	case UnterminatedConstruct:
		return "unterminated-construct"
	case UnexpectedEOF:
		return "unexpected-eof"
	case EncodingMismatch:
		return "encoding-mismatch"
	default:
		return "unknown"
	}
}

// SyntaxError is a single recoverable error tied to a source position. All
// errors surfaced by this module are recoverable: parsing continues after
// each one.
type SyntaxError struct {
	Kind          Kind
	Msg           string
	Line          int
	Column        int
	PendingSource string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	b.WriteString("html syntax error on line ")
	b.WriteString(strconv.Itoa(e.Line))
	b.WriteString(", column ")
	b.WriteString(strconv.Itoa(e.Column))
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if e.PendingSource != "" {
		b.WriteString(" (pending: ")
		b.WriteString(e.PendingSource)
		b.WriteString(")")
	}
	return b.String()
}

// Errors is an ordered list of recoverable errors accumulated during a
// single parse. It implements error so a whole parse can be reported as one
// value when a caller wants that, while parser.Results also exposes the slice
// directly for callers that want to inspect individual entries.
type Errors []error

func (errs Errors) Error() string {
	switch len(errs) {
	case 0:
		return "no errors"
	case 1:
		return errs[0].Error()
	default:
		var b strings.Builder
		b.WriteString("multiple errors:")
		for _, err := range errs {
			b.WriteString("\n\t")
			b.WriteString(strings.ReplaceAll(err.Error(), "\n", "\n\t"))
		}
		return b.String()
	}
}
