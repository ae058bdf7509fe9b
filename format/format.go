package format

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kshetline/fortissimo-html-sub000/chartab"
	"github.com/kshetline/fortissimo-html-sub000/dom"
	"github.com/kshetline/fortissimo-html-sub000/elements"
	"github.com/kshetline/fortissimo-html-sub000/entity"
)

// printer carries the pre-computed tag sets for one Format call plus the
// output buffer, mirroring the shape of rbxfile/xml's Serializer: one
// struct per run, state threaded through method receivers instead of a
// pile of parameters.
type printer struct {
	opts Options

	notIndented     map[string]bool
	inline          map[string]bool
	keepVerbatim    map[string]bool
	newLineBefore   map[string]bool
	noNewLineBefore map[string]bool

	b strings.Builder
}

var simpleValueRe = regexp.MustCompile(`(?i)^[-\da-z._]+$`)
var integerValueRe = regexp.MustCompile(`^-?\d+$`)

// Format reflows root according to opts and returns the formatted document
// text. Script/style/textarea bodies, comments, doctypes,
// CDATA sections, and processing instructions are always emitted verbatim.
func Format(root *dom.Element, opts Options) string {
	p := &printer{
		opts:            opts,
		notIndented:     stringSetOf(opts.ChildrenNotIndented),
		inline:          stringSetOf(opts.Inline),
		keepVerbatim:    stringSetOf(opts.KeepWhitespaceInside),
		newLineBefore:   stringSetOf(opts.NewLineBefore),
		noNewLineBefore: stringSetOf(opts.RemoveNewLineBefore),
	}

	for _, child := range root.Children {
		p.writeChild(child, 0, false)
	}

	out := p.b.String()
	if opts.Indent == 1 {
		out = compactToSingleLine(out)
	}
	if opts.TrimDocument {
		out = strings.Trim(out, "\n")
	}
	out = collapseBlankLines(out, opts.MaxBlankLines)
	if opts.EndDocumentWithNewline && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}

// compactToSingleLine collapses every run of whitespace that contains a
// newline down to a single space, the indent=1 "single line" policy.
func compactToSingleLine(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !chartab.IsAnyWhitespace(r) {
			b.WriteString(s[i : i+size])
			i += size
			continue
		}
		j := i
		sawNewline := false
		for j < len(s) {
			rr, sz := utf8.DecodeRuneInString(s[j:])
			if !chartab.IsAnyWhitespace(rr) {
				break
			}
			if rr == '\n' {
				sawNewline = true
			}
			j += sz
		}
		if sawNewline {
			b.WriteByte(' ')
		} else {
			b.WriteString(s[i:j])
		}
		i = j
	}
	return b.String()
}

func (p *printer) isInline(tagLc string) bool {
	if p.inline[tagLc] {
		return true
	}
	if len(p.opts.Inline) > 0 {
		return false
	}
	return elements.IsInline(tagLc)
}

// indentEnabled reports whether pretty-print indentation (as opposed to
// leave-as-is or single-line compaction) is in effect.
func (p *printer) indentEnabled() bool {
	return p.opts.Indent > 1
}

func (p *printer) indentOf(depth int) string {
	if depth <= 0 || !p.indentEnabled() {
		return ""
	}
	if p.opts.UseTabCharacters {
		return strings.Repeat("\t", depth)
	}
	return strings.Repeat(" ", p.opts.Indent*depth)
}

func (p *printer) continuationIndentOf(depth int) string {
	if p.opts.ContinuationIndent != "" {
		return p.opts.ContinuationIndent
	}
	return p.indentOf(depth + 1)
}

func (p *printer) writeChild(n dom.Node, depth int, parentInline bool) {
	switch v := n.(type) {
	case *dom.Element:
		p.writeElement(v, depth, parentInline)
	case *dom.Text:
		p.writeText(v)
	default:
		p.b.WriteString(n.String())
	}
}

func (p *printer) writeText(t *dom.Text) {
	content := t.Content
	if t.PossibleEntities {
		content = entity.Reencode(content, p.opts.Escape)
	}
	p.b.WriteString(content)
}

func (p *printer) writeElement(e *dom.Element, depth int, parentInline bool) {
	if e.Synthetic && !p.opts.InstantiateSyntheticNodes {
		for _, c := range e.Children {
			p.writeChild(c, depth, parentInline)
		}
		return
	}

	inline := p.isInline(e.TagLc) || parentInline
	if p.indentEnabled() && !inline && !p.noNewLineBefore[e.TagLc] {
		if p.newLineBefore[e.TagLc] {
			p.blankLine(depth)
		} else {
			p.breakLine(depth)
		}
	}

	p.writeStartTag(e, depth, inline)

	childDepth := depth
	if !p.notIndented[e.TagLc] {
		childDepth = depth + 1
	}

	if p.keepVerbatim[e.TagLc] || elements.IsRawText(e.TagLc) {
		for _, c := range e.Children {
			p.b.WriteString(c.String())
		}
	} else {
		for _, c := range e.Children {
			p.writeChild(c, childDepth, inline)
		}
	}

	if e.ClosureState == dom.ExplicitlyClosed {
		if p.indentEnabled() && !inline && hasElementChild(e) {
			p.breakLine(depth)
		}
		p.b.WriteString("</")
		p.b.WriteString(e.Tag)
		p.b.WriteString(">")
	}
}

func hasElementChild(e *dom.Element) bool {
	for _, c := range e.Children {
		if _, ok := c.(*dom.Element); ok {
			return true
		}
	}
	return false
}

func (p *printer) breakLine(depth int) {
	out := p.b.String()
	if out != "" && !strings.HasSuffix(out, "\n") {
		p.b.WriteString("\n")
	}
	p.b.WriteString(p.indentOf(depth))
}

// blankLine is breakLine plus one extra leading blank line, for tags listed
// in NewLineBefore.
func (p *printer) blankLine(depth int) {
	out := p.b.String()
	if out == "" {
		return
	}
	if !strings.HasSuffix(out, "\n") {
		p.b.WriteString("\n")
	}
	p.b.WriteString("\n")
	p.b.WriteString(p.indentOf(depth))
}

func (p *printer) writeStartTag(e *dom.Element, depth int, inline bool) {
	p.b.WriteByte('<')
	p.b.WriteString(e.Tag)

	multiline := p.opts.AlignAttributes && len(e.AttrName) > 1 &&
		!(inline && p.opts.DontBreakIfInline) && attrsSpanMultipleLines(e)

	maxNameLen := 0
	if multiline {
		for _, name := range e.AttrName {
			if len(name) > maxNameLen {
				maxNameLen = len(name)
			}
		}
	}

	for i, name := range e.AttrName {
		if multiline {
			p.b.WriteString("\n")
			p.b.WriteString(p.continuationIndentOf(depth))
			p.b.WriteString(name)
			if e.AttrEquals[i] != "" {
				p.b.WriteString(strings.Repeat(" ", maxNameLen-len(name)))
			}
			p.writeAttrRest(e, i)
			continue
		}
		p.writeAttr(e, i, name)
	}

	terminator := e.Terminator
	if e.Synthetic && terminator == "" {
		terminator = ">"
	}

	if p.opts.NormalizeAttributeSpacing {
		if terminator == "/>" {
			p.b.WriteString(" />")
		} else {
			p.b.WriteString(">")
		}
	} else {
		p.b.WriteString(e.InnerWhitespace)
		p.b.WriteString(terminator)
	}
}

// attrsSpanMultipleLines reports whether the source already laid this
// element's attributes out one per line, the trigger for AlignAttributes.
func attrsSpanMultipleLines(e *dom.Element) bool {
	for _, ws := range e.AttrLeadingSpace {
		if strings.ContainsRune(ws, '\n') {
			return true
		}
	}
	return false
}

func (p *printer) writeAttr(e *dom.Element, i int, name string) {
	if p.opts.NormalizeAttributeSpacing {
		p.b.WriteByte(' ')
	} else {
		p.b.WriteString(e.AttrLeadingSpace[i])
	}
	p.b.WriteString(name)
	p.writeAttrRest(e, i)
}

// writeAttrRest writes everything after an attribute's name: the "=" (if
// any) and its value, quoted per ValueQuoting/ValueQuoteStyle.
func (p *printer) writeAttrRest(e *dom.Element, i int) {
	equals := e.AttrEquals[i]
	if equals == "" {
		return
	}
	if p.opts.NormalizeAttributeSpacing {
		if p.opts.SpaceAroundAttributeEquals {
			p.b.WriteString(" = ")
		} else {
			p.b.WriteString("=")
		}
	} else {
		p.b.WriteString(equals)
	}

	value := e.AttrValue[i]
	quote := e.AttrQuote[i]

	if p.opts.ValueQuoting == LeaveAsIs {
		p.b.WriteString(dom.OpenQuote(quote))
		p.b.WriteString(value)
		p.b.WriteString(dom.CloseQuote(quote))
		return
	}

	strip := false
	switch p.opts.ValueQuoting {
	case UnquoteIntegers:
		strip = integerValueRe.MatchString(value)
	case UnquoteSimpleValues:
		strip = simpleValueRe.MatchString(value)
	}
	if strip {
		p.b.WriteString(value)
		return
	}

	q := p.quoteCharFor(value)
	p.b.WriteByte(q)
	p.b.WriteString(escapeForQuote(value, q))
	p.b.WriteByte(q)
}

// quoteCharFor picks the quote character per ValueQuoteStyle: Double/Single
// force their character; PreferDouble/PreferSingle keep the preference
// unless the value contains that character but not the other, in which case
// the other quote avoids escaping.
func (p *printer) quoteCharFor(value string) byte {
	switch p.opts.ValueQuoteStyle {
	case Double:
		return '"'
	case Single:
		return '\''
	case PreferSingle:
		hasSingle := strings.ContainsRune(value, '\'')
		hasDouble := strings.ContainsRune(value, '"')
		if hasSingle && !hasDouble {
			return '"'
		}
		return '\''
	default: // PreferDouble
		hasDouble := strings.ContainsRune(value, '"')
		hasSingle := strings.ContainsRune(value, '\'')
		if hasDouble && !hasSingle {
			return '\''
		}
		return '"'
	}
}

func escapeForQuote(value string, q byte) string {
	if q == '"' {
		return strings.ReplaceAll(value, `"`, "&quot;")
	}
	return strings.ReplaceAll(value, `'`, "&#39;")
}

// collapseBlankLines reduces runs of more than max consecutive blank lines
// down to max, matching the formatter's maxBlankLines option. max < 0 means
// no limit.
func collapseBlankLines(s string, max int) string {
	if max < 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	var out []string
	blank := 0
	for _, line := range lines {
		if isBlank(line) {
			blank++
			if blank > max {
				continue
			}
		} else {
			blank = 0
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func isBlank(s string) bool {
	for _, r := range s {
		if !chartab.IsAnyWhitespace(r) {
			return false
		}
	}
	return true
}
