package entity_test

import (
	"testing"

	"github.com/kshetline/fortissimo-html-sub000/entity"
	"github.com/stretchr/testify/assert"
)

func TestUnescapeNamed(t *testing.T) {
	assert.Equal(t, "&", entity.Unescape("&amp;", false))
	assert.Equal(t, "<", entity.Unescape("&lt;", false))
	assert.Equal(t, " ", entity.Unescape("&nbsp;", false))
}

func TestUnescapeMissingSemicolon(t *testing.T) {
	// Outside attribute values, a known name without ';' still resolves.
	assert.Equal(t, "& hi", entity.Unescape("&amp hi", false))
	// Inside attribute values, a known name without ';' is left as literal
	// text instead of being resolved.
	assert.Equal(t, "&amp hi", entity.Unescape("&amp hi", true))
}

func TestUnescapeNumeric(t *testing.T) {
	assert.Equal(t, "A", entity.Unescape("&#65;", false))
	assert.Equal(t, "A", entity.Unescape("&#x41;", false))
	assert.Equal(t, "A", entity.Unescape("&#X41;", false))
}

func TestUnescapeInvalidNumericBecomesReplacementChar(t *testing.T) {
	// 0x0D (carriage return) is explicitly excluded from IsValidEntity.
	assert.Equal(t, "�", entity.Unescape("&#13;", false))
	// Surrogate halves are invalid character reference targets.
	assert.Equal(t, "�", entity.Unescape("&#xD800;", false))
}

func TestUnescapeUnknownNameWithSemicolon(t *testing.T) {
	assert.Equal(t, "�", entity.Unescape("&notarealentity;", false))
}

func TestUnescapeMultiCodepointEntity(t *testing.T) {
	assert.Equal(t, "⋛︀", entity.Unescape("&gesl;", false))
}

func TestUnescapeNonBMPEntity(t *testing.T) {
	assert.Equal(t, string(rune(0x1D522)), entity.Unescape("&efr;", false))
}

func TestEscapeMinimalOnlyAmpLtGt(t *testing.T) {
	opts := entity.Options{Reencode: entity.Minimal, Target: entity.Unicode, EntityStyle: entity.NamedOrDecimal}
	assert.Equal(t, "a &lt;b&gt; &amp; c", entity.Escape("a <b> & c", opts))
	// Minimal never touches quotes or non-ASCII.
	assert.Equal(t, "\"café\"", entity.Escape("\"café\"", opts))
}

func TestEscapeLooseMinimalOnlyAmbiguousAmpLt(t *testing.T) {
	opts := entity.Options{Reencode: entity.LooseMinimal, Target: entity.Unicode, EntityStyle: entity.NamedOrDecimal}
	// '<' followed by a markup-start character must be escaped.
	assert.Equal(t, "&lt;div", entity.Escape("<div", opts))
	// '<' followed by a space is not ambiguous, left alone.
	assert.Equal(t, "< div", entity.Escape("< div", opts))
	// '&' followed by an alnum/# is ambiguous, must be escaped.
	assert.Equal(t, "&amp;amp", entity.Escape("&amp", opts))
	// '&' followed by a space is unambiguous.
	assert.Equal(t, "& x", entity.Escape("& x", opts))
}

func TestEscapeTargetCapForcesEntities(t *testing.T) {
	opts := entity.Options{Reencode: entity.DontChange, Target: entity.SevenBit, EntityStyle: entity.Decimal}
	assert.Equal(t, "&#233;", entity.Escape("é", opts))

	opts.Target = entity.Unicode
	assert.Equal(t, "é", entity.Escape("é", opts))
}

func TestEscapeControlCharactersAlwaysEncoded(t *testing.T) {
	opts := entity.Options{Reencode: entity.DontChange, Target: entity.Unicode, EntityStyle: entity.Decimal}
	assert.Equal(t, "&#1;", entity.Escape("\x01", opts))
	// Tab/newline/CR/form-feed are exempt from the always-encode rule.
	assert.Equal(t, "\t\n\r\f", entity.Escape("\t\n\r\f", opts))
}

func TestEscapeNamedEntitiesPolicyPrefersNames(t *testing.T) {
	opts := entity.Options{Reencode: entity.NamedEntities, Target: entity.Unicode, EntityStyle: entity.NamedOrDecimal}
	assert.Equal(t, "&copy;", entity.Escape("©", opts))
}

func TestEscapeShortestPicksSmallerForm(t *testing.T) {
	opts := entity.Options{Reencode: entity.Minimal, Target: entity.SevenBit, EntityStyle: entity.Shortest}
	// U+2603 has no named entity in the table, so Shortest must fall back to
	// whichever numeric form (decimal vs hex) is fewer characters.
	got := entity.Escape("☃", opts)
	assert.Equal(t, "&#9731;", got)
}

func TestReencodeAddsMissingSemicolon(t *testing.T) {
	opts := entity.Options{Reencode: entity.Minimal}
	assert.Equal(t, "&amp;", entity.Reencode("&amp", opts))
}

func TestReencodeDontChangeIsNoop(t *testing.T) {
	opts := entity.Options{Reencode: entity.DontChange}
	assert.Equal(t, "&amp", entity.Reencode("&amp", opts))
	assert.Equal(t, "literal & text", entity.Reencode("literal & text", opts))
}

func TestReencodeUndoesUnneededEntities(t *testing.T) {
	opts := entity.Options{
		Reencode:             entity.Minimal,
		Target:               entity.Unicode,
		UndoUnneededEntities: true,
	}
	// &eacute; decodes to a plain, safely-literal character under Unicode
	// target, so it gets unescaped rather than reencoded.
	assert.Equal(t, "café", entity.Reencode("caf&eacute;", opts))
}

func TestReencodeKeepsEntityWhenDecodedFormIsUnsafe(t *testing.T) {
	opts := entity.Options{
		Reencode:             entity.Minimal,
		Target:               entity.Unicode,
		UndoUnneededEntities: true,
	}
	assert.Equal(t, "&lt;", entity.Reencode("&lt;", opts))
	assert.Equal(t, "&amp;", entity.Reencode("&amp;", opts))
}

func TestEscapeUnescapeRoundTripForPlainText(t *testing.T) {
	opts := entity.Options{Reencode: entity.Minimal, Target: entity.Unicode}
	text := "a <b> & \"quoted\" c"
	escaped := entity.Escape(text, opts)
	assert.Equal(t, text, entity.Unescape(escaped, false))
}

func TestIsValidEntity(t *testing.T) {
	assert.True(t, entity.IsValidEntity('A'))
	assert.False(t, entity.IsValidEntity(0x0D))
	assert.False(t, entity.IsValidEntity(0xD800))
	assert.False(t, entity.IsValidEntity(0x85))
	assert.False(t, entity.IsValidEntity(-1))
	assert.False(t, entity.IsValidEntity(0x110000))
}
