// Package dom implements a lossless DOM tree: a
// tagged-variant Node sum type, an Element with implicit-closure,
// table-normalization, and byte-for-byte toString() semantics, and a small
// query-selector matcher.
//
// The sum type is expressed the Go way — an interface with one
// implementation per variant — rather than a class hierarchy, mirroring how
// rbxfile/xml.Tag keeps one flat struct per construct instead of an
// inheritance chain.
package dom

// Kind identifies which Node variant a value is.
type Kind int

const (
	KindText Kind = iota
	KindCData
	KindComment
	KindDeclaration
	KindDocType
	KindProcessingInstruction
	KindUnmatchedClosingTag
	KindElement
	KindRoot
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindCData:
		return "cdata"
	case KindComment:
		return "comment"
	case KindDeclaration:
		return "declaration"
	case KindDocType:
		return "doctype"
	case KindProcessingInstruction:
		return "processing-instruction"
	case KindUnmatchedClosingTag:
		return "unmatched-closing-tag"
	case KindElement:
		return "element"
	case KindRoot:
		return "root"
	default:
		return "unknown"
	}
}

// Node is implemented by every tree member. Position (Line/Column) is
// 1-based and literal: the tokenizer never adjusts it for tab width.
type Node interface {
	Kind() Kind
	Line() int
	Column() int
	Parent() *Element
	String() string

	setParent(*Element)
}

// base carries the fields every node shares.
type base struct {
	line, column int
	parent       *Element
}

func (b *base) Line() int           { return b.line }
func (b *base) Column() int         { return b.column }
func (b *base) Parent() *Element    { return b.parent }
func (b *base) setParent(e *Element) { b.parent = e }

// Text is a literal run of character data outside of markup.
type Text struct {
	base
	Content          string
	PossibleEntities bool // true if the source contained '&' sequences
}

func NewText(line, col int, content string, possibleEntities bool) *Text {
	return &Text{base: base{line: line, column: col}, Content: content, PossibleEntities: possibleEntities}
}

func (t *Text) Kind() Kind     { return KindText }
func (t *Text) String() string { return t.Content }

// CData is a raw body inside <![CDATA[ ... ]]>.
type CData struct {
	base
	Content    string
	Terminated bool
}

func NewCData(line, col int, content string, terminated bool) *CData {
	return &CData{base: base{line: line, column: col}, Content: content, Terminated: terminated}
}

func (c *CData) Kind() Kind { return KindCData }
func (c *CData) String() string {
	if c.Terminated {
		return "<![CDATA[" + c.Content + "]]>"
	}
	return "<![CDATA[" + c.Content
}

// Comment is the body between <!-- and -->.
type Comment struct {
	base
	Content    string
	Terminated bool
}

func NewComment(line, col int, content string, terminated bool) *Comment {
	return &Comment{base: base{line: line, column: col}, Content: content, Terminated: terminated}
}

func (c *Comment) Kind() Kind { return KindComment }
func (c *Comment) String() string {
	if c.Terminated {
		return "<!--" + c.Content + "-->"
	}
	return "<!--" + c.Content
}

// Declaration is the body between <! and > for a non-comment, non-doctype
// declaration (e.g. a legacy SGML directive).
type Declaration struct {
	base
	Content    string
	Terminated bool
}

func NewDeclaration(line, col int, content string, terminated bool) *Declaration {
	return &Declaration{base: base{line: line, column: col}, Content: content, Terminated: terminated}
}

func (d *Declaration) Kind() Kind { return KindDeclaration }
func (d *Declaration) String() string {
	if d.Terminated {
		return "<!" + d.Content + ">"
	}
	return "<!" + d.Content
}

// DocType specializes Declaration parsing for <!DOCTYPE ...>.
type DocType struct {
	base
	Content    string
	Terminated bool
	Type       string // "html" or "xhtml"
	Variety    string // "frameset" | "strict" | "transitional" | ""
	Version    string
}

func NewDocType(line, col int, content string, terminated bool) *DocType {
	return &DocType{base: base{line: line, column: col}, Content: content, Terminated: terminated}
}

func (d *DocType) Kind() Kind { return KindDocType }
func (d *DocType) String() string {
	if d.Terminated {
		return "<!" + d.Content + ">"
	}
	return "<!" + d.Content
}

// ProcessingInstruction is the body between <? and >.
type ProcessingInstruction struct {
	base
	Content    string
	Terminated bool
}

func NewProcessingInstruction(line, col int, content string, terminated bool) *ProcessingInstruction {
	return &ProcessingInstruction{base: base{line: line, column: col}, Content: content, Terminated: terminated}
}

func (p *ProcessingInstruction) Kind() Kind { return KindProcessingInstruction }
func (p *ProcessingInstruction) String() string {
	if p.Terminated {
		return "<?" + p.Content + ">"
	}
	return "<?" + p.Content
}

// UnmatchedClosingTag is preserved verbatim when no opener matches an end
// tag.
type UnmatchedClosingTag struct {
	base
	Tag    string
	Source string // exact "</tag ...>" text
}

func NewUnmatchedClosingTag(line, col int, tag, source string) *UnmatchedClosingTag {
	return &UnmatchedClosingTag{base: base{line: line, column: col}, Tag: tag, Source: source}
}

func (u *UnmatchedClosingTag) Kind() Kind     { return KindUnmatchedClosingTag }
func (u *UnmatchedClosingTag) String() string { return u.Source }

// Depth returns the number of non-synthetic ancestors of n, minus one.
// The root itself has depth -1.
func Depth(n Node) int {
	depth := -1
	for p := n.Parent(); p != nil; p = p.Parent() {
		if !p.Synthetic {
			depth++
		}
	}
	return depth
}

// SyntheticDepth counts every ancestor, synthetic or not.
func SyntheticDepth(n Node) int {
	depth := -1
	for p := n.Parent(); p != nil; p = p.Parent() {
		depth++
	}
	return depth
}
