package dom_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kshetline/fortissimo-html-sub000/dom"
	"github.com/stretchr/testify/assert"
)

// buildSimpleTree parses nothing; it assembles a tiny <div><p>hi</p></div>
// tree by hand to exercise String()'s round-trip without depending on the
// tokenizer.
func buildSimpleTree() *dom.Element {
	root := dom.NewRoot()

	div := dom.NewElement(1, 1, "div", "div")
	div.Terminator = ">"
	div.ClosureState = dom.ExplicitlyClosed
	div.EndTagText = "</div>"
	root.AppendChild(div)

	p := dom.NewElement(1, 6, "p", "p")
	p.AddAttr(" ", "class", "=", "greeting", `"`)
	p.Terminator = ">"
	p.ClosureState = dom.ExplicitlyClosed
	p.EndTagText = "</p>"
	div.AppendChild(p)

	text := dom.NewText(1, 28, "hi", false)
	p.AppendChild(text)

	return root
}

func TestElementStringRoundTrips(t *testing.T) {
	root := buildSimpleTree()
	assert.Equal(t, `<div><p class="greeting">hi</p></div>`, root.String())
}

func TestSyntheticElementIsInvisibleToString(t *testing.T) {
	root := dom.NewRoot()
	tr := dom.NewElement(1, 1, "tr", "tr")
	tr.Terminator = ">"
	tr.ClosureState = dom.ExplicitlyClosed
	tr.EndTagText = "</tr>"
	root.AppendChild(tr)

	synthetic := dom.NewElement(0, 0, "tbody", "tbody")
	synthetic.Synthetic = true
	synthetic.ClosureState = dom.ExplicitlyClosed
	synthetic.AppendChild(tr)

	wrapper := dom.NewRoot()
	wrapper.AppendChild(synthetic)

	assert.Equal(t, tr.String(), wrapper.String())
}

func TestDepthIgnoresSyntheticAncestors(t *testing.T) {
	root := dom.NewRoot()
	table := dom.NewElement(1, 1, "table", "table")
	root.AppendChild(table)

	synthetic := dom.NewElement(0, 0, "tbody", "tbody")
	synthetic.Synthetic = true
	table.AppendChild(synthetic)

	tr := dom.NewElement(1, 8, "tr", "tr")
	synthetic.AppendChild(tr)

	assert.Equal(t, 1, dom.Depth(tr))
	assert.Equal(t, 2, dom.SyntheticDepth(tr))
}

func TestValueOfAndIndexOfAttr(t *testing.T) {
	e := dom.NewElement(1, 1, "input", "input")
	e.AddAttr("", "type", "=", "text", `"`)
	e.AddAttr(" ", "disabled", "", "", "")

	v, ok := e.ValueOf("type")
	assert.True(t, ok)
	assert.Equal(t, "text", v)

	_, ok = e.ValueOf("missing")
	assert.False(t, ok)

	assert.Equal(t, 1, e.IndexOfAttr("disabled"))
	assert.Equal(t, -1, e.IndexOfAttr("missing"))
}

func TestOpenCloseQuoteVariants(t *testing.T) {
	assert.Equal(t, "", dom.OpenQuote(""))
	assert.Equal(t, "", dom.CloseQuote(""))
	assert.Equal(t, `"`, dom.OpenQuote(`"`))
	assert.Equal(t, `"`, dom.CloseQuote(`"`))
	// Composite quote: mismatched open/close, e.g. a quote that was never
	// closed and got repaired with a different character.
	assert.Equal(t, `"`, dom.OpenQuote(`"'`))
	assert.Equal(t, `'`, dom.CloseQuote(`"'`))
}

func TestUnclosedTagsReportsOuterToInner(t *testing.T) {
	tree := dom.NewTree()
	outer := dom.NewElement(1, 1, "div", "div")
	tree.Push(outer)
	inner := dom.NewElement(1, 6, "span", "span")
	tree.Push(inner)

	assert.Equal(t, []string{"div", "span"}, tree.UnclosedTags())
}

func TestPopEndMatchesOpenElement(t *testing.T) {
	tree := dom.NewTree()
	div := dom.NewElement(1, 1, "div", "div")
	tree.Push(div)

	matched := tree.PopEnd("div", "</div>", 1, 10, "</div>", "")
	assert.True(t, matched)
	assert.Equal(t, dom.ExplicitlyClosed, div.ClosureState)
	assert.Equal(t, tree.Root, tree.Top())
}

func TestPopEndWithNoOpenerAppendsUnmatched(t *testing.T) {
	tree := dom.NewTree()
	matched := tree.PopEnd("span", "</span>", 1, 1, "</span>", "")
	assert.False(t, matched)
	assert.Len(t, tree.Root.Children, 1)
	_, ok := tree.Root.Children[0].(*dom.UnmatchedClosingTag)
	assert.True(t, ok)
}

func TestPopEndClosesIntermediateElementsImplicitly(t *testing.T) {
	tree := dom.NewTree()
	outer := dom.NewElement(1, 1, "div", "div")
	tree.Push(outer)
	inner := dom.NewElement(1, 6, "span", "span")
	tree.Push(inner)

	matched := tree.PopEnd("div", "</div>", 1, 20, "</div>", "")
	assert.True(t, matched)
	assert.Equal(t, dom.ImplicitlyClosed, inner.ClosureState)
	assert.Equal(t, dom.ExplicitlyClosed, outer.ClosureState)
}

func TestPrePushClosesImplicitlyClosedSiblings(t *testing.T) {
	tree := dom.NewTree()
	li1 := dom.NewElement(1, 1, "li", "li")
	tree.Push(li1)

	li2 := dom.NewElement(1, 10, "li", "li")
	tree.PrePush(li2)
	tree.Push(li2)

	assert.Equal(t, dom.ImplicitlyClosed, li1.ClosureState)
	assert.Equal(t, li2, tree.Top())
}

func TestNormalizeTableGroupsStrayRowsIntoTbody(t *testing.T) {
	table := dom.NewElement(1, 1, "table", "table")
	row := dom.NewElement(1, 8, "tr", "tr")
	row.ClosureState = dom.ExplicitlyClosed
	table.AppendChild(row)

	dom.NormalizeTable(table)

	assert.Len(t, table.Children, 1)
	section, ok := table.Children[0].(*dom.Element)
	assert.True(t, ok)
	assert.True(t, section.Synthetic)
	assert.Equal(t, "tbody", section.TagLc)
	assert.Len(t, section.Children, 1)
	assert.Same(t, row, section.Children[0])
}

func TestNormalizeTablePutsRowWithThIntoThead(t *testing.T) {
	table := dom.NewElement(1, 1, "table", "table")
	row := dom.NewElement(1, 8, "tr", "tr")
	th := dom.NewElement(1, 12, "th", "th")
	th.ClosureState = dom.ExplicitlyClosed
	row.AppendChild(th)
	table.AppendChild(row)

	dom.NormalizeTable(table)

	section := table.Children[0].(*dom.Element)
	assert.Equal(t, "thead", section.TagLc)
}

func TestNormalizeTablePreservesSerializedLeafMultiset(t *testing.T) {
	table := dom.NewElement(1, 1, "table", "table")
	table.Terminator, table.ClosureState, table.EndTagText = ">", dom.ExplicitlyClosed, "</table>"

	row := dom.NewElement(1, 8, "tr", "tr")
	row.Terminator, row.ClosureState, row.EndTagText = ">", dom.ExplicitlyClosed, "</tr>"
	td := dom.NewElement(1, 12, "td", "td")
	td.Terminator, td.ClosureState, td.EndTagText = ">", dom.ExplicitlyClosed, "</td>"
	td.AppendChild(dom.NewText(1, 16, "x", false))
	row.AppendChild(td)
	table.AppendChild(row)

	before := table.String()
	dom.NormalizeTable(table)
	assert.Equal(t, before, table.String())
}

func TestQuerySelectorByTagIDAndClass(t *testing.T) {
	root := dom.NewRoot()
	div := dom.NewElement(1, 1, "div", "div")
	div.AddAttr("", "id", "=", "main", `"`)
	root.AppendChild(div)

	span := dom.NewElement(1, 10, "span", "span")
	span.AddAttr("", "class", "=", "a b", `"`)
	div.AppendChild(span)

	assert.Same(t, div, dom.QuerySelector(root, "#main"))
	assert.Same(t, span, dom.QuerySelector(root, "span"))
	assert.Same(t, span, dom.QuerySelector(root, ".b"))
	assert.Same(t, span, dom.QuerySelector(root, "span.a"))
	assert.Nil(t, dom.QuerySelector(root, "#nope"))
}

func TestQuerySelectorAllReturnsDocumentOrder(t *testing.T) {
	root := dom.NewRoot()
	p1 := dom.NewElement(1, 1, "p", "p")
	p2 := dom.NewElement(2, 1, "p", "p")
	root.AppendChild(p1)
	root.AppendChild(p2)

	got := dom.QuerySelectorAll(root, "p")
	assert.Equal(t, []*dom.Element{p1, p2}, got)
}

func TestToJSONNestedTreeMatchesExpectedShape(t *testing.T) {
	root := dom.NewRoot()
	div := dom.NewElement(1, 1, "div", "div")
	div.AddAttr("", "id", "=", "main", `"`)
	div.ClosureState = dom.ExplicitlyClosed
	root.AppendChild(div)

	span := dom.NewElement(1, 10, "span", "span")
	span.ClosureState = dom.ExplicitlyClosed
	div.AppendChild(span)

	got := div.ToJSON()
	want := dom.JSONNode{
		Tag:            "div",
		Line:           1,
		Column:         1,
		Depth:          0,
		SyntheticDepth: 0,
		ClosureState:   "EXPLICITLY_CLOSED",
		Values:         map[string]string{"id": "main"},
		ParentTag:      "/",
		Children: []dom.JSONNode{
			{
				Tag:            "span",
				Line:           1,
				Column:         10,
				Depth:          1,
				SyntheticDepth: 1,
				ClosureState:   "EXPLICITLY_CLOSED",
				Values:         map[string]string{},
				ParentTag:      "div",
			},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToJSON tree mismatch (-want +got):\n%s", diff)
	}
}

func TestToJSONIncludesAttributesAndDepth(t *testing.T) {
	root := dom.NewRoot()
	div := dom.NewElement(1, 1, "div", "div")
	div.AddAttr("", "id", "=", "main", `"`)
	div.ClosureState = dom.ExplicitlyClosed
	root.AppendChild(div)

	j := div.ToJSON()
	assert.Equal(t, "div", j.Tag)
	assert.Equal(t, map[string]string{"id": "main"}, j.Values)
	assert.Equal(t, 0, j.Depth)
	assert.Equal(t, "EXPLICITLY_CLOSED", j.ClosureState)
	assert.Equal(t, "/", j.ParentTag)
}
