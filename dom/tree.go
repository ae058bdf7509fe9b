package dom

import "github.com/kshetline/fortissimo-html-sub000/elements"

// Tree owns the open-stack used while building the document.
// Children are owned by their parent Element; the stack itself holds
// non-owning references, the same split rbxfile's encoder/decoder keeps
// between the Document tree and its cursor state.
type Tree struct {
	Root    *Element
	stack   []*Element
	XMLMode bool

	mathSvgDepth int
}

// NewTree creates a tree with a fresh Root on top of the (empty) stack.
func NewTree() *Tree {
	root := NewRoot()
	return &Tree{Root: root, stack: []*Element{root}}
}

// Top returns the current top of the open-stack.
func (t *Tree) Top() *Element {
	return t.stack[len(t.stack)-1]
}

// CanDoXMLMode reports whether it is still safe to switch into XML mode:
// the stack holds only the root, and the root is empty or holds a single
// whitespace-only text child.
func (t *Tree) CanDoXMLMode() bool {
	if len(t.stack) != 1 {
		return false
	}
	switch len(t.Root.Children) {
	case 0:
		return true
	case 1:
		text, ok := t.Root.Children[0].(*Text)
		return ok && isAllWhitespace(text.Content)
	default:
		return false
	}
}

func isAllWhitespace(s string) bool {
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
		default:
			return false
		}
	}
	return true
}

// PrePush applies the open-implies-close table to tag before it is pushed:
// while the current top is implicitly closed by tag, mark it
// ImplicitlyClosed and pop it.
func (t *Tree) PrePush(tag *Element) {
	if t.XMLMode {
		return
	}
	for len(t.stack) > 1 {
		top := t.Top()
		if !elements.ImplicitlyCloses(tag.TagLc, top.TagLc) {
			break
		}
		top.ClosureState = ImplicitlyClosed
		t.stack = t.stack[:len(t.stack)-1]
	}
}

// Push appends tag as a child of the current top and pushes it onto the
// open-stack, tracking <math>/<svg> nesting for CDATA eligibility.
func (t *Tree) Push(tag *Element) {
	t.Top().AppendChild(tag)
	t.stack = append(t.stack, tag)
	if tag.TagLc == "math" || tag.TagLc == "svg" {
		t.mathSvgDepth++
	}
}

// InMathOrSVG reports whether the open-stack is currently nested inside
// <math>/<svg>. It does not consider XML mode; the parser combines the two
// when deciding whether a CDATA section is valid.
func (t *Tree) InMathOrSVG() bool {
	return t.mathSvgDepth > 0
}

// PopVoid closes the current top as VoidClosed (an end tag is never
// expected, e.g. after <br>).
func (t *Tree) PopVoid() {
	t.closeTopAs(VoidClosed)
}

// PopSelfClosed closes the current top as SelfClosed (e.g. <br/>).
func (t *Tree) PopSelfClosed() {
	t.closeTopAs(SelfClosed)
}

func (t *Tree) closeTopAs(state ClosureState) {
	top := t.Top()
	top.ClosureState = state
	if top.TagLc == "math" || top.TagLc == "svg" {
		if t.mathSvgDepth > 0 {
			t.mathSvgDepth--
		}
	}
	if len(t.stack) > 1 {
		t.stack = t.stack[:len(t.stack)-1]
	}
}

// PopEnd handles an explicit end tag. It returns false (and appends an
// UnmatchedClosingTag) if no open element matches tagLc. badTerminator is
// recorded on the closed element when the end tag didn't end cleanly on a
// bare ">" (e.g. </div x>); pass "" for a well-formed end tag.
func (t *Tree) PopEnd(tagLc, endTagText string, endLine, endCol int, source, badTerminator string) bool {
	if t.Top().TagLc == tagLc {
		t.closeExplicit(len(t.stack)-1, endTagText, endLine, endCol, badTerminator)
		return true
	}

	searchFloor := 1
	if elements.IsFormatting(tagLc) {
		for i := len(t.stack) - 1; i >= 1; i-- {
			if elements.IsMarker(t.stack[i].TagLc) {
				searchFloor = i + 1
				break
			}
		}
	}

	for i := len(t.stack) - 1; i >= searchFloor; i-- {
		if t.stack[i].TagLc != tagLc {
			continue
		}
		for j := len(t.stack) - 1; j > i; j-- {
			t.stack[j].ClosureState = ImplicitlyClosed
		}
		t.closeExplicit(i, endTagText, endLine, endCol, badTerminator)
		return true
	}

	unmatched := &UnmatchedClosingTag{
		base:   base{line: endLine, column: endCol},
		Tag:    tagLc,
		Source: source,
	}
	t.Top().AppendChild(unmatched)
	return false
}

func (t *Tree) closeExplicit(idx int, endTagText string, endLine, endCol int, badTerminator string) {
	closed := t.stack[idx]
	closed.ClosureState = ExplicitlyClosed
	closed.EndTagText = endTagText
	closed.EndTagLine = endLine
	closed.EndTagColumn = endCol
	closed.BadTerminator = badTerminator
	if closed.TagLc == "math" || closed.TagLc == "svg" {
		if t.mathSvgDepth > 0 {
			t.mathSvgDepth--
		}
	}
	if closed.TagLc == "table" {
		NormalizeTable(closed)
	}
	t.stack = t.stack[:idx]
}

// UnclosedTags returns the tags still open on the stack above the root,
// outermost first, for parser.Results.UnclosedTags.
func (t *Tree) UnclosedTags() []string {
	tags := make([]string, 0, len(t.stack)-1)
	for _, e := range t.stack[1:] {
		tags = append(tags, e.Tag)
	}
	return tags
}
