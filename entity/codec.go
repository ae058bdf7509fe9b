package entity

import (
	"strconv"
	"strings"
)

// EntityStyle picks the concrete numeric/named form used when a codepoint
// needs to become an entity.
type EntityStyle int

const (
	Decimal EntityStyle = iota
	Hex
	NumericShortest
	NamedOrDecimal
	NamedOrHex
	NamedOrShortest
	Shortest
)

// ReencodePolicy controls which characters get entity-escaped.
type ReencodePolicy int

const (
	DontChange ReencodePolicy = iota
	RepairOnly
	LooseMinimal
	Minimal
	NamedEntities
)

// Target caps which codepoints a target encoding can represent directly;
// anything above the cap must become an entity.
type Target int

const (
	SevenBit Target = iota
	EightBit
	Unicode
)

func (t Target) cap() rune {
	switch t {
	case SevenBit:
		return 0x7E
	case EightBit:
		return 0xFF
	default:
		return 0x10FFFF
	}
}

// Options configures Escape/Reencode.
type Options struct {
	EntityStyle          EntityStyle
	Reencode             ReencodePolicy
	Target               Target
	UndoUnneededEntities bool
}

// mustEncodeRegardless reports whether cp must be entity-encoded no matter
// what policy says: control characters below 32 other than whitespace, and
// the C1 range U+7F..U+9F.
func mustEncodeRegardless(cp rune) bool {
	if cp < 32 {
		switch cp {
		case '\t', '\n', '\f', '\r':
			return false
		}
		return true
	}
	return cp >= 0x7F && cp <= 0x9F
}

// IsValidEntity reports whether cp is a valid numeric character reference
// target.
func IsValidEntity(cp rune) bool {
	if cp <= 0 || cp > 0x10FFFF {
		return false
	}
	if cp == 0x0D {
		return false
	}
	if cp >= 0x80 && cp <= 0x9F {
		return false
	}
	if cp >= 0xD800 && cp <= 0xDFFF {
		return false
	}
	return true
}

// encodeNumeric renders cp as a numeric character reference under style.
func encodeNumeric(cp rune, style EntityStyle) string {
	switch style {
	case Hex, NamedOrHex:
		return "&#x" + strconv.FormatInt(int64(cp), 16) + ";"
	case NumericShortest, NamedOrShortest, Shortest:
		dec := strconv.FormatInt(int64(cp), 10)
		hex := strconv.FormatInt(int64(cp), 16)
		if len(hex)+4 < len(dec)+3 {
			return "&#x" + hex + ";"
		}
		return "&#" + dec + ";"
	default:
		return "&#" + strconv.FormatInt(int64(cp), 10) + ";"
	}
}

// encodeEntity renders cp as an entity under style, preferring a named form
// when style allows one and one exists.
func encodeEntity(cp rune, style EntityStyle) string {
	named := style == NamedOrDecimal || style == NamedOrHex || style == NamedOrShortest || style == Shortest
	if named {
		if name, ok := NameForCodepoint(cp); ok {
			candidate := "&" + name + ";"
			if style != Shortest {
				return candidate
			}
			numeric := encodeNumeric(cp, NumericShortest)
			if len(candidate) <= len(numeric) {
				return candidate
			}
			return numeric
		}
	}
	return encodeNumeric(cp, style)
}

// needsEncoding applies the reencode policy to decide whether the rune at
// position i in runes needs to become an entity, given the following
// context required by LooseMinimal ('<' only before a markup-start char or
// EOF; '&' only before [a-z0-9#]).
func needsEncoding(runes []rune, i int, policy ReencodePolicy, target Target) bool {
	r := runes[i]

	if mustEncodeRegardless(r) {
		return true
	}
	if r > target.cap() {
		return true
	}

	switch policy {
	case DontChange, RepairOnly:
		return false
	case Minimal:
		return r == '<' || r == '>' || r == '&'
	case LooseMinimal, NamedEntities:
		switch r {
		case '<':
			if i+1 >= len(runes) {
				return true
			}
			return isMarkupStartRune(runes[i+1])
		case '&':
			if i+1 >= len(runes) {
				return false
			}
			n := runes[i+1]
			return (n >= 'a' && n <= 'z') || (n >= '0' && n <= '9') || n == '#'
		}
		if policy == NamedEntities {
			_, ok := NameForCodepoint(r)
			return ok
		}
		return false
	}
	return false
}

func isMarkupStartRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r == ':' || r == '/' || r == '!' || r == '?':
		return true
	}
	return false
}

// Escape converts plain text to an entity-escaped string under opts.
func Escape(s string, opts Options) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if i+1 < len(runes) {
			if name, ok := NameForPair(r, runes[i+1]); ok && needsEncoding(runes, i, opts.Reencode, opts.Target) {
				b.WriteString("&" + name + ";")
				i++
				continue
			}
		}
		if needsEncoding(runes, i, opts.Reencode, opts.Target) {
			b.WriteString(encodeEntity(r, opts.EntityStyle))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Unescape decodes entities in s. Unknown or malformed entities resolve to
// U+FFFD. When forAttributeValue is set, an ambiguous entity missing its
// trailing ';' is left as literal text instead of being resolved.
func Unescape(s string, forAttributeValue bool) string {
	var b strings.Builder
	b.Grow(len(s))

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '&' {
			b.WriteRune(runes[i])
			continue
		}

		consumed, replacement, ok := decodeOneEntity(runes[i:], forAttributeValue)
		if !ok {
			b.WriteRune('&')
			continue
		}
		b.WriteString(replacement)
		i += consumed - 1
	}
	return b.String()
}

// decodeOneEntity attempts to decode one entity starting at runes[0] == '&'.
// It returns the number of runes consumed (including '&') and the decoded
// replacement text.
func decodeOneEntity(runes []rune, forAttributeValue bool) (consumed int, replacement string, ok bool) {
	if len(runes) < 2 {
		return 0, "", false
	}

	if runes[1] == '#' {
		j := 2
		base := 10
		if j < len(runes) && (runes[j] == 'x' || runes[j] == 'X') {
			base = 16
			j++
		}
		start := j
		for j < len(runes) && isDigitForBase(runes[j], base) {
			j++
		}
		if j == start {
			return 0, "", false
		}
		hasSemi := j < len(runes) && runes[j] == ';'
		n, err := strconv.ParseUint(string(runes[start:j]), base, 32)
		end := j
		if hasSemi {
			end++
		}
		if err != nil || !IsValidEntity(rune(n)) {
			return end, "�", true
		}
		return end, string(rune(n)), true
	}

	j := 1
	for j < len(runes) && isEntityNameByte(runes[j]) {
		j++
	}
	if j == 1 {
		return 0, "", false
	}
	name := string(runes[1:j])
	hasSemi := j < len(runes) && runes[j] == ';'

	cps, known := LookupName(name)
	if !known {
		if !hasSemi {
			return 0, "", false
		}
		return j + 1, "�", true
	}
	if !hasSemi {
		if forAttributeValue {
			return 0, "", false
		}
	}
	end := j
	if hasSemi {
		end++
	}
	return end, string(cps), true
}

func isDigitForBase(r rune, base int) bool {
	if r >= '0' && r <= '9' {
		return true
	}
	if base == 16 {
		return (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
	}
	return false
}

func isEntityNameByte(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// Reencode splits s into alternating plain/entity runs, validates each
// entity, optionally adds a missing trailing ';', and optionally unescapes
// entities that can be represented literally under opts.Target.
func Reencode(s string, opts Options) string {
	if opts.Reencode == DontChange {
		return s
	}

	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(runes); i++ {
		if runes[i] != '&' {
			b.WriteRune(runes[i])
			continue
		}

		consumed, replacement, ok := decodeOneEntity(runes[i:], false)
		if !ok {
			b.WriteRune('&')
			continue
		}

		if opts.UndoUnneededEntities {
			decoded := []rune(replacement)
			canLiteral := len(decoded) > 0
			for _, r := range decoded {
				if mustEncodeRegardless(r) || r > opts.Target.cap() || r == '&' || r == '<' {
					canLiteral = false
					break
				}
			}
			if canLiteral {
				b.WriteString(replacement)
				i += consumed - 1
				continue
			}
		}

		// Keep as an entity, adding the missing terminator if the decoder
		// repaired one and the policy isn't DontChange.
		entityText := string(runes[i : i+consumed])
		if !strings.HasSuffix(entityText, ";") && opts.Reencode != DontChange {
			entityText += ";"
		}
		b.WriteString(entityText)
		i += consumed - 1
	}
	return b.String()
}
