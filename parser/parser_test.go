package parser_test

import (
	"testing"

	"github.com/kshetline/fortissimo-html-sub000/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTripsSimpleDocument(t *testing.T) {
	src := `<div class="a"><p>hello</p></div>`
	results := parser.Parse(src, parser.DefaultOptions(), nil)
	require.NotNil(t, results.DomRoot)
	assert.Equal(t, src, results.DomRoot.String())
	assert.Empty(t, results.Errors)
}

func TestParseVoidElementNeedsNoEndTag(t *testing.T) {
	src := `<br>text`
	results := parser.Parse(src, parser.DefaultOptions(), nil)
	assert.Equal(t, src, results.DomRoot.String())
	assert.Len(t, results.DomRoot.Children, 2)
}

func TestParseSelfClosingTag(t *testing.T) {
	src := `<img src="a.png"/>`
	results := parser.Parse(src, parser.DefaultOptions(), nil)
	assert.Equal(t, src, results.DomRoot.String())
}

func TestParseCommentRoundTrips(t *testing.T) {
	src := `<!-- a comment --><p>x</p>`
	results := parser.Parse(src, parser.DefaultOptions(), nil)
	assert.Equal(t, src, results.DomRoot.String())
}

func TestParseUnterminatedCommentAtEOF(t *testing.T) {
	src := `<!-- never closed`
	results := parser.Parse(src, parser.DefaultOptions(), nil)
	assert.Equal(t, src, results.DomRoot.String())
	assert.NotEmpty(t, results.Errors)
}

func TestParseDoctypeRoundTrips(t *testing.T) {
	src := `<!DOCTYPE html><html></html>`
	results := parser.Parse(src, parser.DefaultOptions(), nil)
	assert.Equal(t, src, results.DomRoot.String())
}

func TestParseCDataInsideSVG(t *testing.T) {
	src := `<svg><![CDATA[raw & unescaped]]></svg>`
	results := parser.Parse(src, parser.DefaultOptions(), nil)
	assert.Equal(t, src, results.DomRoot.String())
}

func TestParseUnmatchedEndTagIsPreservedAndFlagged(t *testing.T) {
	src := `<p>hi</span>`
	results := parser.Parse(src, parser.DefaultOptions(), nil)
	assert.Equal(t, src, results.DomRoot.String())
	assert.NotEmpty(t, results.Errors)
}

func TestParseImplicitlyClosesOpenParagraph(t *testing.T) {
	src := `<p>one<p>two`
	results := parser.Parse(src, parser.DefaultOptions(), nil)
	assert.Equal(t, src, results.DomRoot.String())
	assert.Equal(t, 1, results.ImplicitlyClosedTags)
}

func TestParseScriptBodyIsRawText(t *testing.T) {
	src := `<script>if (a < b) { alert('</p>'); }</script>`
	results := parser.Parse(src, parser.DefaultOptions(), nil)
	assert.Equal(t, src, results.DomRoot.String())
}

func TestParseUnclosedTagsAreReported(t *testing.T) {
	src := `<div><span>text`
	results := parser.Parse(src, parser.DefaultOptions(), nil)
	assert.Equal(t, []string{"div", "span"}, results.UnclosedTags)
}

func TestParseMetaEncodingCallbackCanAbort(t *testing.T) {
	src := `<meta charset="iso-8859-1"><p>x</p>`
	var seen string
	h := &parser.Handlers{
		Encoding: func(name, normalized string, explicit bool) bool {
			seen = normalized
			return true
		},
	}
	results := parser.Parse(src, parser.DefaultOptions(), h)
	assert.Equal(t, "iso-8859-1", seen)
	assert.True(t, results.Stopped)
}

func TestFeedInChunksMatchesSynchronousParse(t *testing.T) {
	src := `<div class="a"><p>hello <b>world</b></p></div>`
	whole := parser.Parse(src, parser.DefaultOptions(), nil)

	p := parser.NewParser(parser.DefaultOptions(), nil)
	for i := 0; i < len(src); i++ {
		p.Feed([]byte{src[i]})
	}
	chunked := p.Finish()

	assert.Equal(t, whole.DomRoot.String(), chunked.DomRoot.String())
	assert.Equal(t, whole.Characters, chunked.Characters)
}

func TestFeedSplitsMultiByteUTF8AcrossChunks(t *testing.T) {
	src := []byte(`<p>café</p>`)
	// Force a split in the middle of the 2-byte UTF-8 sequence for 'é'
	// (0xC3 0xA9) once it's actually present in the source below.
	src = []byte("<p>caf\xc3\xa9</p>")

	p := parser.NewParser(parser.DefaultOptions(), nil)
	p.Feed(src[:7])
	p.Feed(src[7:])
	results := p.Finish()

	assert.Equal(t, string(src), results.DomRoot.String())
}

func TestHandlersReceiveTextEvent(t *testing.T) {
	var got string
	h := &parser.Handlers{
		Text: func(depth int, leadingSpace, text, trailingSpace string) {
			got += text
		},
	}
	parser.Parse(`<p>hello world</p>`, parser.DefaultOptions(), h)
	assert.Equal(t, "hello world", got)
}

func TestHandlersReceiveStartAndEndTagEvents(t *testing.T) {
	var starts, ends []string
	h := &parser.Handlers{
		StartTagStart: func(depth int, tag string) { starts = append(starts, tag) },
		EndTag:        func(depth int, tag, innerWhitespace string) { ends = append(ends, tag) },
	}
	parser.Parse(`<div><span>x</span></div>`, parser.DefaultOptions(), h)
	assert.Equal(t, []string{"div", "span"}, starts)
	assert.Equal(t, []string{"span", "div"}, ends)
}

func TestStopHaltsParsingEarly(t *testing.T) {
	p := parser.NewParser(parser.DefaultOptions(), nil)
	p.Feed([]byte(`<div>`))
	p.Stop()
	results := p.Finish()
	assert.True(t, results.Stopped)
}
