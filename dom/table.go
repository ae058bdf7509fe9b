package dom

// NormalizeTable applies tolerant table-row normalization on an explicit
// </table>: stray <tr> children get gathered under a synthetic
// section, and stray <th>/<td> children get gathered under a synthetic
// <tr>. Synthetic nodes are transparent to String() (they never emit their
// own tag), so grouping never changes what the table serializes to — only
// how it's structured for querying and formatting. This keeps the
// "multiset of leaf descendants is unchanged" invariant trivially true.
func NormalizeTable(table *Element) {
	groupStrayRows(table)
	for _, c := range table.Children {
		if el, ok := c.(*Element); ok && isSection(el.TagLc) {
			groupStrayCells(el)
		}
	}
	groupStrayCells(table)
}

func isSection(tagLc string) bool {
	return tagLc == "thead" || tagLc == "tbody" || tagLc == "tfoot"
}

func isWhitespaceText(n Node) bool {
	t, ok := n.(*Text)
	return ok && isAllWhitespace(t.Content)
}

func groupStrayRows(table *Element) {
	newChildren := make([]Node, 0, len(table.Children))
	var pendingRun []Node

	flush := func() {
		if len(pendingRun) == 0 {
			return
		}
		name := sectionNameFor(pendingRun)
		synthetic := NewElement(0, 0, name, name)
		synthetic.Synthetic = true
		synthetic.ClosureState = ExplicitlyClosed
		for _, n := range pendingRun {
			synthetic.AppendChild(n)
		}
		synthetic.setParent(table)
		newChildren = append(newChildren, synthetic)
		pendingRun = nil
	}

	for _, c := range table.Children {
		if el, ok := c.(*Element); ok && el.TagLc == "tr" {
			pendingRun = append(pendingRun, c)
			continue
		}
		if isWhitespaceText(c) && len(pendingRun) > 0 {
			pendingRun = append(pendingRun, c)
			continue
		}
		flush()
		newChildren = append(newChildren, c)
	}
	flush()
	table.Children = newChildren
}

// sectionNameFor decides thead vs tbody for a run of stray <tr>s: thead if
// any row holds a <th>, tbody otherwise.
func sectionNameFor(run []Node) string {
	for _, n := range run {
		el, ok := n.(*Element)
		if !ok || el.TagLc != "tr" {
			continue
		}
		for _, cc := range el.Children {
			if ce, ok := cc.(*Element); ok && ce.TagLc == "th" {
				return "thead"
			}
		}
	}
	return "tbody"
}

func groupStrayCells(parent *Element) {
	newChildren := make([]Node, 0, len(parent.Children))
	var pendingRun []Node

	flush := func() {
		if len(pendingRun) == 0 {
			return
		}
		synthetic := NewElement(0, 0, "tr", "tr")
		synthetic.Synthetic = true
		synthetic.ClosureState = ExplicitlyClosed
		for _, n := range pendingRun {
			synthetic.AppendChild(n)
		}
		synthetic.setParent(parent)
		newChildren = append(newChildren, synthetic)
		pendingRun = nil
	}

	for _, c := range parent.Children {
		if el, ok := c.(*Element); ok && (el.TagLc == "td" || el.TagLc == "th") {
			pendingRun = append(pendingRun, c)
			continue
		}
		if el, ok := c.(*Element); ok && el.TagLc == "tr" {
			flush()
			newChildren = append(newChildren, c)
			continue
		}
		if isWhitespaceText(c) && len(pendingRun) > 0 {
			pendingRun = append(pendingRun, c)
			continue
		}
		flush()
		newChildren = append(newChildren, c)
	}
	flush()
	parent.Children = newChildren
}
