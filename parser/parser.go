package parser

import (
	"runtime"
	"strings"
	"time"
	"unicode"

	"github.com/kshetline/fortissimo-html-sub000/chartab"
	"github.com/kshetline/fortissimo-html-sub000/dom"
	"github.com/kshetline/fortissimo-html-sub000/elements"
	"github.com/kshetline/fortissimo-html-sub000/internal/xerr"
)

type state int

const (
	stateText state = iota
	stateTagOpen
	stateTagName
	stateBeforeAttrName
	stateAttrName
	stateAfterAttrName
	stateBeforeAttrValue
	stateAttrValueQuoted
	stateAttrValueUnquoted
	stateAttrValueUnquotedSlash
	stateAfterAttrValueQuoted
	stateSelfClosingStart
	stateEndTagOpen
	stateEndTagName
	stateAfterEndTagName
	stateDeclPeek
	stateCommentStartDash
	stateComment
	stateDoctype
	stateCData
	stateBogusDecl
	stateProcessing
	stateRawText
	stateRawTextLT
	stateRawTextEndTagName
)

// Parser is a character-driven tokenizer/DOM builder. All
// in-flight token state lives in its fields rather than local variables, so
// a call that runs out of buffered runes simply returns; the next Feed call
// resumes the very same state without losing anything already consumed.
// This is what makes chunked and cooperative-yield parsing the same code
// path as a synchronous one-shot Parse.
type Parser struct {
	opts     Options
	handlers *Handlers
	tree     *dom.Tree

	buf  runeBuffer
	line int
	col  int

	lastWasCR bool

	pending     bool
	pendingRune rune
	pendingLine int
	pendingCol  int

	state state

	// text run scratch
	text        strings.Builder
	textLine    int
	textCol     int
	textHasAmp  bool

	// tag scratch
	name        strings.Builder
	tokLine     int
	tokCol      int
	currentElem *dom.Element

	// attribute scratch
	ws           strings.Builder
	attrLeading  string
	equals       strings.Builder
	value        strings.Builder
	quoteRune    rune

	// end tag scratch
	endTagRaw strings.Builder

	// declaration/comment/cdata/PI scratch
	declPeek     strings.Builder
	content      strings.Builder
	dashCount    int
	bracketCount int
	questionCount int
	dtBracketDepth int

	// raw text (script/style/textarea) scratch
	rawTag         string
	rawContent     strings.Builder
	rawContentLine int
	rawContentCol  int
	rawCandidate   strings.Builder
	rawNameMatch   strings.Builder
	rawTokLine     int
	rawTokCol      int

	errs       xerr.Errors
	charCount  int
	stopped    bool
	done       bool
	startTime  time.Time
	lastYield  time.Time
	results    Results
}

// NewParser creates a Parser ready to receive Feed calls. opts and h may be
// zero values; a nil Handlers means no events are delivered, only the final
// Results.
func NewParser(opts Options, h *Handlers) *Parser {
	if opts.TabSize == 0 {
		opts = DefaultOptions()
	}
	if h == nil {
		h = &Handlers{}
	}
	tree := dom.NewTree()
	tree.XMLMode = opts.XMLMode
	return &Parser{
		opts:      opts,
		handlers:  h,
		tree:      tree,
		line:      1,
		col:       1,
		startTime: time.Now(),
		lastYield: time.Now(),
	}
}

// Parse runs the whole of src synchronously and returns the finished
// Results. It's the convenience entry point for callers who already hold
// the entire document in memory.
func Parse(src string, opts Options, h *Handlers) *Results {
	p := NewParser(opts, h)
	p.Feed([]byte(src))
	return p.Finish()
}

// Feed appends a chunk of input and runs the tokenizer as far as it can go.
// Safe to call repeatedly with successive chunks of a stream.
func (p *Parser) Feed(chunk []byte) {
	if p.done {
		return
	}
	p.buf.Feed(chunk, false)
	p.run()
}

// Finish signals end of input and returns the completed Results. Call this
// exactly once, after the last Feed.
func (p *Parser) Finish() *Results {
	if !p.done {
		p.buf.Feed(nil, true)
		p.run()
	}
	return &p.results
}

// Stop requests the parser halt at the next opportunity; the
// Results returned from Finish will have Stopped set.
func (p *Parser) Stop() {
	p.stopped = true
}

func (p *Parser) run() {
	for {
		if p.stopped {
			p.finish()
			return
		}
		r, line, col, ok := p.next()
		if !ok {
			if p.buf.final {
				p.finish()
				return
			}
			if p.handlers.RequestData != nil {
				p.handlers.RequestData()
			}
			return
		}
		p.charCount++
		p.dispatch(r, line, col)

		if p.opts.YieldTime > 0 {
			if time.Since(p.lastYield) >= time.Duration(p.opts.YieldTime)*time.Millisecond {
				if p.opts.Trace != nil {
					p.opts.Trace("suspend", p.line, p.col)
				}
				runtime.Gosched()
				p.lastYield = time.Now()
				if p.opts.Trace != nil {
					p.opts.Trace("resume", p.line, p.col)
				}
			}
		}
	}
}

// next returns the next rune along with the (line, column) it occupies,
// merging a \r\n pair into a single logical EOL advance.
func (p *Parser) next() (rune, int, int, bool) {
	if p.pending {
		p.pending = false
		return p.pendingRune, p.pendingLine, p.pendingCol, true
	}
	r, ok := p.buf.getc()
	if !ok {
		return 0, 0, 0, false
	}
	line, col := p.line, p.col
	switch r {
	case '\n':
		if p.lastWasCR {
			p.lastWasCR = false
		} else {
			p.line++
			p.col = 1
		}
	case '\r':
		p.line++
		p.col = 1
		p.lastWasCR = true
	default:
		p.col++
		p.lastWasCR = false
	}
	return r, line, col, true
}

func (p *Parser) pushback(r rune, line, col int) {
	p.pending = true
	p.pendingRune = r
	p.pendingLine = line
	p.pendingCol = col
}

func (p *Parser) addError(kind xerr.Kind, msg string, line, col int) {
	p.addErrorPending(kind, msg, line, col, "")
}

// addErrorPending is addError plus a pendingSource payload: the source text
// still sitting unconsumed (or just discarded) when the error was raised,
// e.g. the offending character that ended a malformed tag.
func (p *Parser) addErrorPending(kind xerr.Kind, msg string, line, col int, pendingSource string) {
	se := &xerr.SyntaxError{Kind: kind, Msg: msg, Line: line, Column: col, PendingSource: pendingSource}
	p.errs = append(p.errs, se)
	if p.handlers.Error != nil {
		p.handlers.Error(msg, line, col, pendingSource)
	}
}

func (p *Parser) isNameChar(r rune) bool {
	if p.opts.Fast {
		return chartab.IsPCENLoose(r)
	}
	return chartab.IsPCENStrict(r)
}

// isAttrNameChar classifies attribute-name characters, a broader set than
// isNameChar's PCEN check: anything but whitespace, '>', '/', '=', and (in
// strict mode only) quotes, a backtick or a control character.
func (p *Parser) isAttrNameChar(r rune) bool {
	if p.opts.Fast {
		return chartab.IsAttrNameCharLoose(r)
	}
	return chartab.IsAttrNameCharStrict(r)
}

func isTagNameStart(r rune) bool {
	return unicode.IsLetter(r)
}

// dispatch processes exactly one rune under the current state.
func (p *Parser) dispatch(r rune, line, col int) {
	switch p.state {
	case stateText:
		p.handleText(r, line, col)
	case stateTagOpen:
		p.handleTagOpen(r, line, col)
	case stateTagName:
		p.handleTagName(r, line, col)
	case stateBeforeAttrName:
		p.handleBeforeAttrName(r, line, col)
	case stateAttrName:
		p.handleAttrName(r, line, col)
	case stateAfterAttrName:
		p.handleAfterAttrName(r, line, col)
	case stateBeforeAttrValue:
		p.handleBeforeAttrValue(r, line, col)
	case stateAttrValueQuoted:
		p.handleAttrValueQuoted(r, line, col)
	case stateAttrValueUnquoted:
		p.handleAttrValueUnquoted(r, line, col)
	case stateAttrValueUnquotedSlash:
		p.handleAttrValueUnquotedSlash(r, line, col)
	case stateAfterAttrValueQuoted:
		p.handleAfterAttrValueQuoted(r, line, col)
	case stateSelfClosingStart:
		p.handleSelfClosingStart(r, line, col)
	case stateEndTagOpen:
		p.handleEndTagOpen(r, line, col)
	case stateEndTagName:
		p.handleEndTagName(r, line, col)
	case stateAfterEndTagName:
		p.handleAfterEndTagName(r, line, col)
	case stateDeclPeek:
		p.handleDeclPeek(r, line, col)
	case stateCommentStartDash:
		p.handleCommentStartDash(r, line, col)
	case stateComment:
		p.handleComment(r, line, col)
	case stateDoctype:
		p.handleDoctype(r, line, col)
	case stateCData:
		p.handleCData(r, line, col)
	case stateBogusDecl:
		p.handleBogusDecl(r, line, col)
	case stateProcessing:
		p.handleProcessing(r, line, col)
	case stateRawText:
		p.handleRawText(r, line, col)
	case stateRawTextLT:
		p.handleRawTextLT(r, line, col)
	case stateRawTextEndTagName:
		p.handleRawTextEndTagName(r, line, col)
	}
}

// --- text -------------------------------------------------------------

func (p *Parser) handleText(r rune, line, col int) {
	if r == '<' {
		p.flushText()
		p.tokLine, p.tokCol = line, col
		p.state = stateTagOpen
		return
	}
	if p.text.Len() == 0 {
		p.textLine, p.textCol = line, col
	}
	if r == '&' {
		p.textHasAmp = true
	}
	p.text.WriteRune(r)
}

func (p *Parser) flushText() {
	if p.text.Len() == 0 {
		return
	}
	content := p.text.String()
	node := dom.NewText(p.textLine, p.textCol, content, p.textHasAmp)
	p.tree.Top().AppendChild(node)
	if p.handlers.Text != nil {
		lead, core, trail := splitWhitespace(content)
		emitted := normalizeEOLs(core, p.opts.EOL)
		p.handlers.Text(dom.Depth(node), lead, emitted, trail)
	} else {
		p.handlers.emitGeneric(dom.Depth(node), node.String())
	}
	p.text.Reset()
	p.textHasAmp = false
}

func splitWhitespace(s string) (lead, core, trail string) {
	runes := []rune(s)
	start, end := 0, len(runes)
	for start < end && chartab.IsAnyWhitespace(runes[start]) {
		start++
	}
	for end > start && chartab.IsAnyWhitespace(runes[end-1]) {
		end--
	}
	return string(runes[:start]), string(runes[start:end]), string(runes[end:])
}

// --- markup dispatch ----------------------------------------------------

func (p *Parser) handleTagOpen(r rune, line, col int) {
	switch {
	case r == '!':
		p.declPeek.Reset()
		p.state = stateDeclPeek
	case r == '?':
		p.content.Reset()
		p.questionCount = 0
		p.state = stateProcessing
	case r == '/':
		p.name.Reset()
		p.endTagRaw.Reset()
		p.endTagRaw.WriteString("</")
		p.state = stateEndTagOpen
	case isTagNameStart(r):
		p.name.Reset()
		p.name.WriteRune(r)
		p.state = stateTagName
	default:
		p.state = stateText
		p.text.WriteByte('<')
		if p.text.Len() == 1 {
			p.textLine, p.textCol = p.tokLine, p.tokCol
		}
		p.handleText(r, line, col)
	}
}

func (p *Parser) tagLc(name string) string {
	if p.opts.XMLMode || p.tree.XMLMode {
		return name
	}
	return strings.ToLower(name)
}

func (p *Parser) handleTagName(r rune, line, col int) {
	if p.isNameChar(r) && !chartab.IsAnyWhitespace(r) && r != '/' && r != '>' {
		p.name.WriteRune(r)
		return
	}
	p.beginElement()
	switch {
	case chartab.IsAnyWhitespace(r):
		p.ws.Reset()
		p.ws.WriteRune(r)
		p.state = stateBeforeAttrName
	case r == '/':
		p.state = stateSelfClosingStart
	case r == '>':
		p.finishStartTag(">", line, col)
	default:
		p.ws.Reset()
		p.state = stateBeforeAttrName
		p.handleBeforeAttrName(r, line, col)
	}
}

func (p *Parser) beginElement() {
	name := p.name.String()
	tagLc := p.tagLc(name)
	el := dom.NewElement(p.tokLine, p.tokCol, name, tagLc)
	p.tree.PrePush(el)
	p.tree.Push(el)
	p.currentElem = el
	if p.handlers.StartTagStart != nil {
		p.handlers.StartTagStart(dom.Depth(el), el.Tag)
	}
}

// --- attributes ---------------------------------------------------------

func (p *Parser) handleBeforeAttrName(r rune, line, col int) {
	switch {
	case chartab.IsAnyWhitespace(r):
		p.ws.WriteRune(r)
	case r == '>':
		p.finishStartTag(">", line, col)
	case r == '/':
		p.state = stateSelfClosingStart
	default:
		p.attrLeading = p.ws.String()
		p.ws.Reset()
		p.name.Reset()
		p.name.WriteRune(r)
		p.equals.Reset()
		p.value.Reset()
		p.quoteRune = 0
		p.state = stateAttrName
	}
}

func (p *Parser) handleAttrName(r rune, line, col int) {
	if p.isAttrNameChar(r) {
		p.name.WriteRune(r)
		return
	}
	switch {
	case r == '=':
		p.equals.Reset()
		p.equals.WriteRune('=')
		p.state = stateBeforeAttrValue
	case chartab.IsAnyWhitespace(r):
		p.ws.Reset()
		p.ws.WriteRune(r)
		p.state = stateAfterAttrName
	case r == '>':
		p.commitAttr("", "")
		p.finishStartTag(">", line, col)
	case r == '/':
		p.commitAttr("", "")
		p.state = stateSelfClosingStart
	default:
		p.name.WriteRune(r)
	}
}

func (p *Parser) handleAfterAttrName(r rune, line, col int) {
	switch {
	case r == '=':
		p.equals.WriteRune('=')
		p.state = stateBeforeAttrValue
	case chartab.IsAnyWhitespace(r):
		p.ws.WriteRune(r)
	case r == '>':
		p.commitAttr("", "")
		p.finishStartTag(">", line, col)
	case r == '/':
		p.commitAttr("", "")
		p.state = stateSelfClosingStart
	default:
		p.commitAttr("", "")
		p.attrLeading = p.ws.String()
		p.ws.Reset()
		p.name.Reset()
		p.name.WriteRune(r)
		p.equals.Reset()
		p.value.Reset()
		p.state = stateAttrName
	}
}

func (p *Parser) handleBeforeAttrValue(r rune, line, col int) {
	switch {
	case chartab.IsAnyWhitespace(r):
		p.equals.WriteRune(r)
	case r == '"' || r == '\'':
		p.quoteRune = r
		p.value.Reset()
		p.state = stateAttrValueQuoted
	case r == '>':
		p.commitAttr("", "")
		p.finishStartTag(">", line, col)
	default:
		p.value.Reset()
		p.value.WriteRune(r)
		p.state = stateAttrValueUnquoted
	}
}

func (p *Parser) handleAttrValueQuoted(r rune, line, col int) {
	if r == p.quoteRune {
		q := string(p.quoteRune)
		p.commitAttr(p.value.String(), q)
		p.state = stateAfterAttrValueQuoted
		return
	}
	p.value.WriteRune(r)
}

func (p *Parser) handleAttrValueUnquoted(r rune, line, col int) {
	if chartab.IsAnyWhitespace(r) {
		p.commitAttr(p.value.String(), "")
		p.ws.Reset()
		p.ws.WriteRune(r)
		p.state = stateBeforeAttrName
		return
	}
	if r == '>' {
		p.commitAttr(p.value.String(), "")
		p.finishStartTag(">", line, col)
		return
	}
	if r == '/' {
		p.state = stateAttrValueUnquotedSlash
		return
	}
	p.value.WriteRune(r)
}

// handleAttrValueUnquotedSlash resolves the one-character lookahead an
// unquoted value needs for a trailing "/": if '>' follows, the '/' closes
// the tag (<img src=foo.jpg/>) rather than joining the value; otherwise the
// '/' was just another value character.
func (p *Parser) handleAttrValueUnquotedSlash(r rune, line, col int) {
	if r == '>' {
		p.commitAttr(p.value.String(), "")
		p.finishStartTag("/>", line, col)
		return
	}
	p.value.WriteRune('/')
	p.state = stateAttrValueUnquoted
	p.handleAttrValueUnquoted(r, line, col)
}

func (p *Parser) handleAfterAttrValueQuoted(r rune, line, col int) {
	switch {
	case chartab.IsAnyWhitespace(r):
		p.ws.Reset()
		p.ws.WriteRune(r)
		p.state = stateBeforeAttrName
	case r == '/':
		p.state = stateSelfClosingStart
	case r == '>':
		p.finishStartTag(">", line, col)
	default:
		p.ws.Reset()
		p.state = stateBeforeAttrName
		p.handleBeforeAttrName(r, line, col)
	}
}

func (p *Parser) commitAttr(value, quote string) {
	equals := p.equals.String()
	el := p.currentElem
	el.AddAttr(p.attrLeading, p.name.String(), equals, value, quote)
	if p.handlers.Attribute != nil {
		p.handlers.Attribute(p.attrLeading, p.name.String(), equals, value, quote)
	}
	p.attrLeading = ""
	p.equals.Reset()
	p.value.Reset()
}

func (p *Parser) handleSelfClosingStart(r rune, line, col int) {
	if r == '>' {
		p.finishStartTag("/>", line, col)
		return
	}
	// A bare "/" not followed by ">" isn't a self-close after all; HTML
	// keeps it as a literal attribute named "/" with no value, the same
	// quirk browsers implement for e.g. <div / id="x">.
	leading := p.ws.String()
	el := p.currentElem
	el.AddAttr(leading, "/", "", "", "")
	if p.handlers.Attribute != nil {
		p.handlers.Attribute(leading, "/", "", "", "")
	}
	p.ws.Reset()
	p.state = stateBeforeAttrName
	p.handleBeforeAttrName(r, line, col)
}

func (p *Parser) finishStartTag(terminator string, line, col int) {
	el := p.currentElem
	el.InnerWhitespace = p.ws.String()
	el.Terminator = terminator
	p.ws.Reset()

	p.checkMetaEncoding(el)

	depth := dom.Depth(el)
	if p.handlers.StartTagEnd != nil {
		p.handlers.StartTagEnd(depth, el.InnerWhitespace, el.Terminator)
	}

	switch {
	case terminator == "/>":
		p.tree.PopSelfClosed()
		p.state = stateText
	case elements.IsVoid(el.TagLc):
		p.tree.PopVoid()
		p.state = stateText
	case elements.IsRawText(el.TagLc):
		p.rawTag = el.TagLc
		p.rawContent.Reset()
		p.state = stateRawText
	default:
		p.state = stateText
	}
	p.currentElem = nil
}

func (p *Parser) checkMetaEncoding(el *dom.Element) {
	if el.TagLc != "meta" || p.handlers.Encoding == nil {
		return
	}
	if v, ok := el.ValueOf("charset"); ok {
		norm := strings.ToLower(strings.TrimSpace(v))
		if p.handlers.Encoding(v, norm, true) {
			p.stopped = true
		}
		return
	}
	httpEquiv, ok := el.ValueOf("http-equiv")
	if !ok || !strings.EqualFold(httpEquiv, "content-type") {
		return
	}
	content, ok := el.ValueOf("content")
	if !ok {
		return
	}
	lower := strings.ToLower(content)
	idx := strings.Index(lower, "charset=")
	if idx < 0 {
		return
	}
	name := strings.TrimSpace(content[idx+len("charset="):])
	if p.handlers.Encoding(name, strings.ToLower(name), false) {
		p.stopped = true
	}
}

// --- end tags -------------------------------------------------------------

func (p *Parser) handleEndTagOpen(r rune, line, col int) {
	switch {
	case isTagNameStart(r):
		p.name.WriteRune(r)
		p.endTagRaw.WriteRune(r)
		p.state = stateEndTagName
	case r == '>' && p.opts.EmptyEndTag:
		p.endTagRaw.WriteRune(r)
		top := p.tree.Top()
		if top.TagLc != "/" {
			p.closeEndTag(top.TagLc, "", line, col)
		} else {
			unmatched := dom.NewUnmatchedClosingTag(p.tokLine, p.tokCol, "", p.endTagRaw.String())
			p.tree.Top().AppendChild(unmatched)
			p.endTagRaw.Reset()
			p.name.Reset()
			p.state = stateText
		}
	default:
		p.endTagRaw.WriteRune(r)
		p.state = stateAfterEndTagName
	}
}

func (p *Parser) handleEndTagName(r rune, line, col int) {
	if p.isNameChar(r) && !chartab.IsAnyWhitespace(r) && r != '>' && r != '/' {
		p.name.WriteRune(r)
		p.endTagRaw.WriteRune(r)
		return
	}
	if r == '>' {
		p.endTagRaw.WriteRune(r)
		p.closeEndTag(p.tagLc(p.name.String()), "", line, col)
		return
	}
	p.endTagRaw.WriteRune(r)
	p.state = stateAfterEndTagName
}

func (p *Parser) handleAfterEndTagName(r rune, line, col int) {
	if chartab.IsAnyWhitespace(r) {
		p.endTagRaw.WriteRune(r)
		return
	}
	if r == '>' {
		p.endTagRaw.WriteRune(r)
		p.closeEndTag(p.tagLc(p.name.String()), "", line, col)
		return
	}
	// Anything else is a malformed end tag, e.g. </div x>: pop the element
	// anyway rather than absorb characters looking for a ">" that may
	// never come, and report the offending character as pending source.
	p.closeEndTag(p.tagLc(p.name.String()), string(r), line, col)
	p.pushback(r, line, col)
}

func (p *Parser) closeEndTag(tagLc, badTerminator string, endLine, endCol int) {
	raw := p.endTagRaw.String()
	depth := dom.Depth(p.tree.Top()) + 1
	matched := p.tree.PopEnd(tagLc, raw, endLine, endCol, raw, badTerminator)
	if !matched {
		p.addErrorPending(xerr.UnmatchedEndTag, "unmatched end tag </"+tagLc+">", endLine, endCol, badTerminator)
	} else if badTerminator != "" {
		p.addErrorPending(xerr.SyntaxInTag, "malformed end tag </"+tagLc+"...", endLine, endCol, badTerminator)
	}
	if p.handlers.EndTag != nil {
		p.handlers.EndTag(depth, tagLc, "")
	}
	p.endTagRaw.Reset()
	p.name.Reset()
	p.state = stateText
}

// --- declarations, comments, doctype, CDATA, PI --------------------------

const doctypeKW = "DOCTYPE"
const cdataKW = "[CDATA["

// cdataValid reports whether "<![CDATA[" currently introduces a real CDATA
// section rather than a bogus declaration: true in XML mode, or nested
// inside <math>/<svg>, the same two contexts HTML5 carves out for it.
func (p *Parser) cdataValid() bool {
	return p.opts.XMLMode || p.tree.XMLMode || p.tree.InMathOrSVG()
}

func (p *Parser) handleDeclPeek(r rune, line, col int) {
	if p.declPeek.Len() == 0 && r == '-' {
		p.state = stateCommentStartDash
		return
	}

	p.declPeek.WriteRune(r)
	s := p.declPeek.String()

	if len(s) <= len(doctypeKW) && strings.EqualFold(s, doctypeKW[:len(s)]) {
		if len(s) == len(doctypeKW) {
			p.content.Reset()
			p.content.WriteString(s)
			p.dtBracketDepth = 0
			p.state = stateDoctype
		}
		return
	}
	if p.cdataValid() && len(s) <= len(cdataKW) && s == cdataKW[:len(s)] {
		if len(s) == len(cdataKW) {
			p.content.Reset()
			p.bracketCount = 0
			p.state = stateCData
		}
		return
	}

	p.content.Reset()
	p.content.WriteString(s)
	p.state = stateBogusDecl
}

func (p *Parser) handleCommentStartDash(r rune, line, col int) {
	if r == '-' {
		p.content.Reset()
		p.dashCount = 0
		p.state = stateComment
		return
	}
	p.content.Reset()
	p.content.WriteByte('-')
	p.content.WriteRune(r)
	p.state = stateBogusDecl
}

func (p *Parser) handleComment(r rune, line, col int) {
	switch {
	case r == '-':
		p.dashCount++
	case r == '>' && p.dashCount >= 2:
		extra := p.dashCount - 2
		for i := 0; i < extra; i++ {
			p.content.WriteByte('-')
		}
		p.dashCount = 0
		p.emitComment(true)
	default:
		for i := 0; i < p.dashCount; i++ {
			p.content.WriteByte('-')
		}
		p.dashCount = 0
		p.content.WriteRune(r)
	}
}

func (p *Parser) emitComment(terminated bool) {
	node := dom.NewComment(p.tokLine, p.tokCol, p.content.String(), terminated)
	p.tree.Top().AppendChild(node)
	if p.handlers.Comment != nil {
		p.handlers.Comment(dom.Depth(node), node.Content, terminated)
	} else {
		p.handlers.emitGeneric(dom.Depth(node), node.String())
	}
	p.content.Reset()
	p.state = stateText
}

func (p *Parser) handleDoctype(r rune, line, col int) {
	switch r {
	case '[':
		p.dtBracketDepth++
		p.content.WriteRune(r)
	case ']':
		if p.dtBracketDepth > 0 {
			p.dtBracketDepth--
		}
		p.content.WriteRune(r)
	case '>':
		if p.dtBracketDepth > 0 {
			p.content.WriteRune(r)
			return
		}
		p.emitDoctype(true)
	default:
		p.content.WriteRune(r)
	}
}

func (p *Parser) emitDoctype(terminated bool) {
	content := p.content.String()
	node := dom.NewDocType(p.tokLine, p.tokCol, content, terminated)
	parseDoctypeDetails(node, content)
	if node.Type == "xhtml" {
		p.tree.XMLMode = true
	}
	p.tree.Top().AppendChild(node)
	if p.handlers.DocType != nil {
		p.handlers.DocType(node, terminated)
	} else {
		p.handlers.emitGeneric(dom.Depth(node), node.String())
	}
	p.content.Reset()
	p.state = stateText
}

// parseDoctypeDetails fills in the DocType.Type/Variety/Version heuristics
// for recognizing legacy HTML4/XHTML public ids, without trying to be a
// full SGML public-identifier parser.
func parseDoctypeDetails(d *dom.DocType, content string) {
	lower := strings.ToLower(content)
	if strings.Contains(lower, "xhtml") {
		d.Type = "xhtml"
	} else {
		d.Type = "html"
	}
	switch {
	case strings.Contains(lower, "frameset"):
		d.Variety = "frameset"
	case strings.Contains(lower, "transitional"):
		d.Variety = "transitional"
	case strings.Contains(lower, "strict"), strings.Contains(lower, "dtd"):
		d.Variety = "strict"
	}
	if idx := strings.Index(lower, "xhtml "); idx >= 0 {
		rest := content[idx+len("xhtml "):]
		fields := strings.Fields(rest)
		if len(fields) > 0 {
			d.Version = fields[0]
		}
	}
	if fields := strings.Fields(lower); d.Version == "" && len(fields) == 2 &&
		fields[0] == "doctype" && fields[1] == "html" {
		d.Version = "5"
	}
}

func (p *Parser) handleCData(r rune, line, col int) {
	switch {
	case r == ']':
		p.bracketCount++
	case r == '>' && p.bracketCount >= 2:
		extra := p.bracketCount - 2
		for i := 0; i < extra; i++ {
			p.content.WriteByte(']')
		}
		p.bracketCount = 0
		p.emitCData(true)
	default:
		for i := 0; i < p.bracketCount; i++ {
			p.content.WriteByte(']')
		}
		p.bracketCount = 0
		p.content.WriteRune(r)
	}
}

func (p *Parser) emitCData(terminated bool) {
	node := dom.NewCData(p.tokLine, p.tokCol, p.content.String(), terminated)
	p.tree.Top().AppendChild(node)
	if p.handlers.CData != nil {
		p.handlers.CData(dom.Depth(node), node.Content, terminated)
	} else {
		p.handlers.emitGeneric(dom.Depth(node), node.String())
	}
	p.content.Reset()
	p.state = stateText
}

func (p *Parser) handleBogusDecl(r rune, line, col int) {
	if r == '>' {
		p.emitDeclaration(true)
		return
	}
	p.content.WriteRune(r)
}

func (p *Parser) emitDeclaration(terminated bool) {
	node := dom.NewDeclaration(p.tokLine, p.tokCol, p.content.String(), terminated)
	p.tree.Top().AppendChild(node)
	if p.handlers.Declaration != nil {
		p.handlers.Declaration(dom.Depth(node), node.Content, terminated)
	} else {
		p.handlers.emitGeneric(dom.Depth(node), node.String())
	}
	p.content.Reset()
	p.state = stateText
}

func (p *Parser) handleProcessing(r rune, line, col int) {
	switch {
	case r == '?':
		p.questionCount++
	case r == '>' && p.questionCount >= 1:
		// Every '?' stays in the content, including the one before '>':
		// String() only adds the "<?" and ">" around it.
		for i := 0; i < p.questionCount; i++ {
			p.content.WriteByte('?')
		}
		p.questionCount = 0
		p.emitProcessing(true)
	default:
		for i := 0; i < p.questionCount; i++ {
			p.content.WriteByte('?')
		}
		p.questionCount = 0
		p.content.WriteRune(r)
	}
}

func (p *Parser) emitProcessing(terminated bool) {
	content := p.content.String()
	if strings.HasPrefix(content, "xml ") && p.tree.CanDoXMLMode() {
		p.tree.XMLMode = true
	}
	node := dom.NewProcessingInstruction(p.tokLine, p.tokCol, content, terminated)
	p.tree.Top().AppendChild(node)
	if p.handlers.Processing != nil {
		p.handlers.Processing(dom.Depth(node), node.Content, terminated)
	} else {
		p.handlers.emitGeneric(dom.Depth(node), node.String())
	}
	p.content.Reset()
	p.state = stateText
}

// --- raw text (script/style/textarea) -------------------------------------

func (p *Parser) handleRawText(r rune, line, col int) {
	if r == '<' {
		p.rawTokLine, p.rawTokCol = line, col
		p.rawCandidate.Reset()
		p.rawCandidate.WriteByte('<')
		p.state = stateRawTextLT
		return
	}
	if p.rawContent.Len() == 0 {
		p.rawContentLine, p.rawContentCol = line, col
	}
	p.rawContent.WriteRune(r)
}

func (p *Parser) handleRawTextLT(r rune, line, col int) {
	if r == '/' {
		p.rawCandidate.WriteByte('/')
		p.rawNameMatch.Reset()
		p.state = stateRawTextEndTagName
		return
	}
	p.rawContent.WriteString(p.rawCandidate.String())
	p.rawCandidate.Reset()
	p.state = stateRawText
	p.handleRawText(r, line, col)
}

func (p *Parser) handleRawTextEndTagName(r rune, line, col int) {
	if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
		p.rawCandidate.WriteRune(r)
		p.rawNameMatch.WriteRune(r)
		return
	}

	name := p.rawNameMatch.String()
	if name != "" && strings.EqualFold(name, p.rawTag) {
		p.flushRawText()
		p.tokLine, p.tokCol = p.rawTokLine, p.rawTokCol
		p.endTagRaw.Reset()
		p.endTagRaw.WriteString(p.rawCandidate.String())
		p.name.Reset()
		p.name.WriteString(name)
		p.pushback(r, line, col)
		p.state = stateAfterEndTagName
		return
	}

	p.rawContent.WriteString(p.rawCandidate.String())
	p.rawContent.WriteRune(r)
	p.rawCandidate.Reset()
	p.state = stateRawText
}

func (p *Parser) flushRawText() {
	if p.rawContent.Len() == 0 {
		return
	}
	content := p.rawContent.String()
	node := dom.NewText(p.textLine, p.textCol, content, strings.ContainsRune(content, '&'))
	p.tree.Top().AppendChild(node)
	if p.handlers.Text != nil {
		p.handlers.Text(dom.Depth(node), "", normalizeEOLs(content, p.opts.EOL), "")
	} else {
		p.handlers.emitGeneric(dom.Depth(node), node.String())
	}
	p.rawContent.Reset()
}

// --- completion -----------------------------------------------------------

func (p *Parser) finish() {
	p.flushFinal()
	p.done = true

	var unclosed []string
	if p.tree != nil {
		unclosed = p.tree.UnclosedTags()
	}

	p.results = Results{
		DomRoot:              p.tree.Root,
		Characters:           p.charCount,
		Errors:               p.errs,
		ImplicitlyClosedTags: countImplicit(p.tree.Root),
		Lines:                p.line,
		Stopped:              p.stopped,
		UnclosedTags:         unclosed,
		TotalTime:            time.Since(p.startTime),
	}
	if p.handlers.Completion != nil {
		p.handlers.Completion(&p.results)
	}
}

// flushFinal closes out whatever token was in flight at end of input,
// marking it unterminated rather than discarding partially-read content
// (everything parsed so far is preserved, even at EOF).
func (p *Parser) flushFinal() {
	switch p.state {
	case stateText, stateTagOpen:
		if p.state == stateTagOpen {
			p.text.WriteByte('<')
		}
		p.flushText()
	case stateComment:
		for i := 0; i < p.dashCount; i++ {
			p.content.WriteByte('-')
		}
		p.addError(xerr.UnterminatedConstruct, "unterminated comment", p.tokLine, p.tokCol)
		p.emitComment(false)
	case stateCData:
		for i := 0; i < p.bracketCount; i++ {
			p.content.WriteByte(']')
		}
		p.addError(xerr.UnterminatedConstruct, "unterminated CDATA section", p.tokLine, p.tokCol)
		p.emitCData(false)
	case stateDoctype:
		p.addError(xerr.UnterminatedConstruct, "unterminated doctype", p.tokLine, p.tokCol)
		p.emitDoctype(false)
	case stateDeclPeek:
		p.content.Reset()
		p.content.WriteString(p.declPeek.String())
		p.addError(xerr.UnterminatedConstruct, "unterminated declaration", p.tokLine, p.tokCol)
		p.emitDeclaration(false)
	case stateBogusDecl:
		p.addError(xerr.UnterminatedConstruct, "unterminated declaration", p.tokLine, p.tokCol)
		p.emitDeclaration(false)
	case stateProcessing:
		for i := 0; i < p.questionCount; i++ {
			p.content.WriteByte('?')
		}
		p.addError(xerr.UnterminatedConstruct, "unterminated processing instruction", p.tokLine, p.tokCol)
		p.emitProcessing(false)
	case stateRawText, stateRawTextLT, stateRawTextEndTagName:
		p.rawContent.WriteString(p.rawCandidate.String())
		p.flushRawText()
	case stateEndTagOpen, stateEndTagName, stateAfterEndTagName:
		p.addError(xerr.UnexpectedEOF, "unterminated end tag", p.tokLine, p.tokCol)
		unmatched := dom.NewUnmatchedClosingTag(p.tokLine, p.tokCol, p.tagLc(p.name.String()), p.endTagRaw.String())
		p.tree.Top().AppendChild(unmatched)
	default:
		if p.currentElem != nil {
			p.currentElem.InnerWhitespace = p.ws.String()
			p.currentElem.Terminator = ""
			p.addError(xerr.UnexpectedEOF, "unterminated start tag", p.tokLine, p.tokCol)
		}
	}
}

func countImplicit(e *dom.Element) int {
	n := 0
	if e.ClosureState == dom.ImplicitlyClosed {
		n++
	}
	for _, c := range e.Children {
		if child, ok := c.(*dom.Element); ok {
			n += countImplicit(child)
		}
	}
	return n
}
