package format_test

import (
	"testing"

	"github.com/kshetline/fortissimo-html-sub000/dom"
	"github.com/kshetline/fortissimo-html-sub000/entity"
	"github.com/kshetline/fortissimo-html-sub000/format"
	"github.com/stretchr/testify/assert"
)

func blockElement(tag string) *dom.Element {
	e := dom.NewElement(1, 1, tag, tag)
	e.Terminator = ">"
	e.ClosureState = dom.ExplicitlyClosed
	e.EndTagText = "</" + tag + ">"
	return e
}

func TestFormatIndentsNestedBlockElements(t *testing.T) {
	root := dom.NewRoot()
	div := blockElement("div")
	root.AppendChild(div)
	p := blockElement("p")
	div.AppendChild(p)
	p.AppendChild(dom.NewText(1, 6, "hi", false))

	out := format.Format(root, format.DefaultOptions())
	assert.Equal(t, "<div>\n  <p>hi</p>\n</div>\n", out)
}

func TestFormatKeepsRawTextVerbatim(t *testing.T) {
	root := dom.NewRoot()
	script := blockElement("script")
	root.AppendChild(script)
	script.AppendChild(dom.NewText(1, 9, "if (a<b) {}", false))

	out := format.Format(root, format.DefaultOptions())
	assert.Equal(t, "<script>if (a<b) {}</script>\n", out)
}

func TestFormatNormalizesAttributeSpacing(t *testing.T) {
	root := dom.NewRoot()
	input := dom.NewElement(1, 1, "input", "input")
	input.AddAttr("  ", "type", " =", "text", `"`)
	input.Terminator = ">"
	input.ClosureState = dom.VoidClosed
	root.AppendChild(input)

	opts := format.DefaultOptions()
	opts.NormalizeAttributeSpacing = true
	out := format.Format(root, opts)
	assert.Equal(t, "<input type=\"text\">\n", out)
}

func TestFormatRewritesQuoteStyleToSingle(t *testing.T) {
	root := dom.NewRoot()
	input := dom.NewElement(1, 1, "input", "input")
	input.AddAttr(" ", "type", "=", "text", `"`)
	input.Terminator = "/>"
	input.ClosureState = dom.SelfClosed
	root.AppendChild(input)

	opts := format.DefaultOptions()
	opts.ValueQuoting = format.AlwaysQuote
	opts.ValueQuoteStyle = format.Single
	out := format.Format(root, opts)
	assert.Equal(t, "<input type='text'/>\n", out)
}

func TestFormatUnquotesIntegerValues(t *testing.T) {
	root := dom.NewRoot()
	img := dom.NewElement(1, 1, "img", "img")
	img.AddAttr(" ", "width", "=", "32", `"`)
	img.AddAttr(" ", "height", "=", "32", `"`)
	img.AddAttr(" ", "charset", "=", "utf-8", `"`)
	img.Terminator = "/>"
	img.ClosureState = dom.SelfClosed
	root.AppendChild(img)

	opts := format.DefaultOptions()
	opts.ValueQuoting = format.UnquoteIntegers
	out := format.Format(root, opts)
	assert.Contains(t, out, " width=32 height=32 ")
	assert.Contains(t, out, `charset="utf-8"`)
}

func TestFormatCollapsesBlankLinesToMax(t *testing.T) {
	root := dom.NewRoot()
	root.AppendChild(dom.NewText(1, 1, "a\n\n\n\nb", false))

	out := format.Format(root, format.DefaultOptions())
	assert.Equal(t, "a\n\nb\n", out)
}

func TestFormatReencodesEntityMissingSemicolon(t *testing.T) {
	root := dom.NewRoot()
	p := blockElement("p")
	root.AppendChild(p)
	p.AppendChild(dom.NewText(1, 4, "a &amp b", true))

	opts := format.DefaultOptions()
	opts.Escape.Reencode = entity.Minimal
	opts.Escape.Target = entity.Unicode
	out := format.Format(root, opts)
	assert.Equal(t, "<p>a &amp; b</p>\n", out)
}

func TestFormatTrimDocumentStripsLeadingTrailingNewlines(t *testing.T) {
	root := dom.NewRoot()
	root.AppendChild(dom.NewText(1, 1, "\n\nhello\n\n", false))

	opts := format.DefaultOptions()
	opts.TrimDocument = true
	out := format.Format(root, opts)
	assert.Equal(t, "hello\n", out)
}
