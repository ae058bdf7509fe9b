// Package elements holds the static HTML element-policy tables the
// tokenizer and DOM layer consult: void elements, formatting elements,
// marker elements, the open-implies-close map, the inline set, and the set
// of elements whose body is raw text (script/style/textarea).
//
// Tag names are resolved through golang.org/x/net/html/atom before table
// lookup, so the hot classification path compares small integers instead of
// strings; unknown tags simply resolve to the zero Atom and fall through to
// the "ordinary element" policy in every table below.
package elements

import "golang.org/x/net/html/atom"

// Void elements cannot have content or an end tag.
var voidTags = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true,
	atom.Embed: true, atom.Hr: true, atom.Img: true, atom.Input: true,
	atom.Link: true, atom.Meta: true, atom.Param: true, atom.Source: true,
	atom.Track: true, atom.Wbr: true,
}

// Formatting elements are subject to the adoption-agency approximation in
// Tree.PopEnd.
var formattingTags = map[atom.Atom]bool{
	atom.A: true, atom.B: true, atom.Big: true, atom.Code: true,
	atom.Em: true, atom.Font: true, atom.I: true, atom.Nobr: true,
	atom.S: true, atom.Small: true, atom.Strike: true, atom.Strong: true,
	atom.Tt: true, atom.U: true,
}

// Marker elements stop the adoption-agency search.
var markerTags = map[atom.Atom]bool{
	atom.Applet: true, atom.Object: true, atom.Marquee: true,
	atom.Td: true, atom.Th: true, atom.Caption: true, atom.Html: true,
	atom.Table: true, atom.Button: true,
}

// Raw-text elements: tokenizer content is never interpreted as markup until
// the matching end tag is seen.
var rawTextTags = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Textarea: true,
}

// Inline elements are treated as inline by the default formatter policy
// (no break before, no break-inside policy).
var inlineTags = map[atom.Atom]bool{
	atom.A: true, atom.Abbr: true, atom.B: true, atom.Bdi: true, atom.Bdo: true,
	atom.Br: true, atom.Cite: true, atom.Code: true, atom.Data: true,
	atom.Dfn: true, atom.Em: true, atom.I: true, atom.Kbd: true, atom.Mark: true,
	atom.Q: true, atom.Rp: true, atom.Rt: true, atom.Ruby: true, atom.S: true,
	atom.Samp: true, atom.Small: true, atom.Span: true, atom.Strong: true,
	atom.Sub: true, atom.Sup: true, atom.Time: true, atom.U: true, atom.Var: true,
	atom.Wbr: true, atom.Img: true, atom.Button: true, atom.Input: true,
	atom.Label: true, atom.Select: true, atom.Textarea: true,
}

// openImpliesClose maps a tag to the set of currently-open tags it
// implicitly closes. Kept as atom sets so Tree.PrePush
// does one map lookup followed by one set membership test per ancestor.
var openImpliesClose = map[atom.Atom]map[atom.Atom]bool{
	atom.Li:       {atom.Li: true},
	atom.Dt:       {atom.Dt: true, atom.Dd: true},
	atom.Dd:       {atom.Dt: true, atom.Dd: true},
	atom.Option:   {atom.Option: true},
	atom.Optgroup: {atom.Option: true, atom.Optgroup: true},
	atom.Tr:       {atom.Tr: true, atom.Td: true, atom.Th: true},
	atom.Td:       {atom.Td: true, atom.Th: true},
	atom.Th:       {atom.Td: true, atom.Th: true},
	atom.Thead:    {atom.Thead: true, atom.Tbody: true, atom.Tfoot: true, atom.Tr: true, atom.Td: true, atom.Th: true},
	atom.Tbody:    {atom.Thead: true, atom.Tbody: true, atom.Tfoot: true, atom.Tr: true, atom.Td: true, atom.Th: true},
	atom.Tfoot:    {atom.Thead: true, atom.Tbody: true, atom.Tfoot: true, atom.Tr: true, atom.Td: true, atom.Th: true},
	atom.P:        {atom.P: true},
	atom.Rp:       {atom.Rp: true, atom.Rt: true},
	atom.Rt:       {atom.Rp: true, atom.Rt: true},
}

// paragraphImpliedBy is the set of block tags that also implicitly close an
// open <p>, mirroring the HTML5 "p element in button scope" closure list
// without fully implementing scope; it's merged into openImpliesClose at
// init so prePush has a single table to consult.
var paragraphImpliedBy = []atom.Atom{
	atom.Address, atom.Article, atom.Aside, atom.Blockquote, atom.Details,
	atom.Div, atom.Dl, atom.Fieldset, atom.Figcaption, atom.Figure,
	atom.Footer, atom.Form, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5,
	atom.H6, atom.Header, atom.Hr, atom.Main, atom.Menu, atom.Nav, atom.Ol,
	atom.P, atom.Pre, atom.Section, atom.Table, atom.Ul,
}

func init() {
	for _, tag := range paragraphImpliedBy {
		set, ok := openImpliesClose[tag]
		if !ok {
			set = map[atom.Atom]bool{}
			openImpliesClose[tag] = set
		}
		set[atom.P] = true
	}
}

// Lookup resolves a lower-cased tag name to its atom, or the zero Atom if
// unrecognized.
func Lookup(tagLc string) atom.Atom {
	return atom.Lookup([]byte(tagLc))
}

// IsVoid reports whether tagLc names a void element.
func IsVoid(tagLc string) bool { return voidTags[Lookup(tagLc)] }

// IsFormatting reports whether tagLc names a formatting element.
func IsFormatting(tagLc string) bool { return formattingTags[Lookup(tagLc)] }

// IsMarker reports whether tagLc names a marker element.
func IsMarker(tagLc string) bool { return markerTags[Lookup(tagLc)] }

// IsRawText reports whether tagLc's body is raw text (script/style/textarea).
func IsRawText(tagLc string) bool { return rawTextTags[Lookup(tagLc)] }

// IsInline reports whether tagLc is treated as inline by default.
func IsInline(tagLc string) bool { return inlineTags[Lookup(tagLc)] }

// ImplicitlyCloses reports whether opening `opening` implicitly closes a
// currently-open `open` element.
func ImplicitlyCloses(opening, open string) bool {
	set, ok := openImpliesClose[Lookup(opening)]
	if !ok {
		return false
	}
	return set[Lookup(open)]
}

// ChildrenNotIndentedDefault is the formatter's built-in not-indented tag
// set, exposed here so format.Options can default to it without a circular
// import.
var ChildrenNotIndentedDefault = []string{"html", "body"}

// RemoveNewLineBeforeDefault lists tags for which the formatter removes a
// preceding source newline.
var RemoveNewLineBeforeDefault = []string{"br"}
