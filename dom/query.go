package dom

import "strings"

// selector is the compiled form of one of the five supported forms:
// "tag", "#id", ".class", "tag.class", or "*". The matcher is a
// single predicate compiled once and walked recursively over the tree, the
// same shape as arturoeanton-go-xml/xml/query.go's segment-by-segment
// matcher, adapted from map-path navigation to element-tree predicates.
type selector struct {
	tag   string // lower-cased; "" means unconstrained
	id    string
	class string
}

func parseSelector(sel string) selector {
	if sel == "*" || sel == "" {
		return selector{}
	}
	if strings.HasPrefix(sel, "#") {
		return selector{id: sel[1:]}
	}
	if strings.HasPrefix(sel, ".") {
		return selector{class: sel[1:]}
	}
	if i := strings.IndexByte(sel, '.'); i >= 0 {
		return selector{tag: strings.ToLower(sel[:i]), class: sel[i+1:]}
	}
	return selector{tag: strings.ToLower(sel)}
}

func (s selector) matches(e *Element) bool {
	if s.tag != "" && e.TagLc != s.tag {
		return false
	}
	if s.id != "" {
		v, ok := e.ValueOf("id")
		if !ok || v != s.id {
			return false
		}
	}
	if s.class != "" {
		v, ok := e.ValueOf("class")
		if !ok {
			return false
		}
		found := false
		for _, tok := range strings.Fields(v) {
			if tok == s.class {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// QuerySelector returns the first descendant of root (in document order)
// matching sel, or nil.
func QuerySelector(root *Element, sel string) *Element {
	s := parseSelector(sel)
	var found *Element
	walkElements(root, func(e *Element) bool {
		if s.matches(e) {
			found = e
			return false
		}
		return true
	})
	return found
}

// QuerySelectorAll returns every descendant of root matching sel, in
// document order.
func QuerySelectorAll(root *Element, sel string) []*Element {
	s := parseSelector(sel)
	var out []*Element
	walkElements(root, func(e *Element) bool {
		if s.matches(e) {
			out = append(out, e)
		}
		return true
	})
	return out
}

// walkElements does a pre-order walk of root's descendants, calling visit
// on each Element and stopping early if visit returns false.
func walkElements(root *Element, visit func(*Element) bool) bool {
	for _, c := range root.Children {
		el, ok := c.(*Element)
		if !ok {
			continue
		}
		if !visit(el) {
			return false
		}
		if !walkElements(el, visit) {
			return false
		}
	}
	return true
}
