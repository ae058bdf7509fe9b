// Package fortissimo ties the tokenizer, DOM, entity codec, and formatter
// together behind a small set of convenience entry points, the same role
// xml.Serializer/Deserialize/Serialize plays over rbxfile/xml's Document.
package fortissimo

import (
	"io"

	"github.com/kshetline/fortissimo-html-sub000/dom"
	"github.com/kshetline/fortissimo-html-sub000/format"
	"github.com/kshetline/fortissimo-html-sub000/parser"
)

// Document is the parsed result a caller works with: the DOM tree plus the
// bookkeeping from the parse that produced it.
type Document struct {
	Root    *dom.Element
	Results *parser.Results
}

// Parse synchronously parses src and returns the resulting Document. h may
// be nil if the caller only wants the DOM tree, not per-token events.
func Parse(src string, opts parser.Options, h *parser.Handlers) *Document {
	results := parser.Parse(src, opts, h)
	return &Document{Root: results.DomRoot, Results: results}
}

// ReadFrom parses the entirety of r as one document, the same shape as
// rbxfile/xml.Document.ReadFrom.
func ReadFrom(r io.Reader, opts parser.Options, h *parser.Handlers) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(string(data), opts, h), nil
}

// Streamer wraps a Parser for chunked or cooperative-yield consumption:
// feed it byte slices as they arrive, call Finish once input is exhausted.
type Streamer struct {
	p *parser.Parser
}

// NewStreamer starts a chunked parse.
func NewStreamer(opts parser.Options, h *parser.Handlers) *Streamer {
	return &Streamer{p: parser.NewParser(opts, h)}
}

// Feed supplies the next chunk of input.
func (s *Streamer) Feed(chunk []byte) { s.p.Feed(chunk) }

// Stop requests the underlying parser halt at its next opportunity.
func (s *Streamer) Stop() { s.p.Stop() }

// Finish signals end of input and returns the finished Document.
func (s *Streamer) Finish() *Document {
	results := s.p.Finish()
	return &Document{Root: results.DomRoot, Results: results}
}

// Format reflows root per opts and writes it to w.
func Format(w io.Writer, root *dom.Element, opts format.Options) error {
	_, err := io.WriteString(w, format.Format(root, opts))
	return err
}

// FormatString is the string-returning equivalent of Format.
func FormatString(root *dom.Element, opts format.Options) string {
	return format.Format(root, opts)
}
