package dom

// JSONNode is the structured representation an Element projects into for
// serialization. Built as a plain struct rather than map[string]any so
// callers get compile-time field access; see DESIGN.md for why this one
// piece uses encoding/json directly instead of a third-party encoder.
type JSONNode struct {
	Tag            string            `json:"tag"`
	Line           int               `json:"line"`
	Column         int               `json:"column"`
	Synthetic      bool              `json:"synthetic,omitempty"`
	BadTerminator  string            `json:"badTerminator,omitempty"`
	Depth          int               `json:"depth"`
	SyntheticDepth int               `json:"syntheticDepth,omitempty"`
	ClosureState   string            `json:"closureState"`
	Values         map[string]string `json:"values,omitempty"`
	ParentTag      string            `json:"parentTag,omitempty"`
	Children       []JSONNode        `json:"children,omitempty"`
	EndTagText     string            `json:"endTagText,omitempty"`
}

// ToJSON converts e and its descendant Elements (non-element children are
// skipped) into the structured JSONNode form.
func (e *Element) ToJSON() JSONNode {
	values := make(map[string]string, len(e.AttrName))
	for i, name := range e.AttrName {
		values[name] = e.AttrValue[i]
	}

	var parentTag string
	if e.parent != nil {
		parentTag = e.parent.Tag
	}

	var children []JSONNode
	for _, c := range e.Children {
		if child, ok := c.(*Element); ok {
			children = append(children, child.ToJSON())
		}
	}

	return JSONNode{
		Tag:            e.Tag,
		Line:           e.line,
		Column:         e.column,
		Synthetic:      e.Synthetic,
		BadTerminator:  e.BadTerminator,
		Depth:          Depth(e),
		SyntheticDepth: SyntheticDepth(e),
		ClosureState:   e.ClosureState.String(),
		Values:         values,
		ParentTag:      parentTag,
		Children:       children,
		EndTagText:     e.EndTagText,
	}
}
