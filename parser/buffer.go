package parser

import "unicode/utf8"

// runeBuffer decodes fed byte chunks into runes and lets the tokenizer read
// them one at a time. It is the chunked-mode analogue of rbxfile/xml's
// decoder.getc, adapted to carry an incomplete trailing UTF-8 sequence
// across a chunk boundary instead of an incomplete byte.
//
// getc reports ok=false in two distinct situations the caller must tell
// apart via final: input exhausted but more chunks are coming (pause, ask
// for data), or true end of document (final is true).
type runeBuffer struct {
	runes   []rune
	pos     int
	pending []byte // incomplete trailing UTF-8 bytes, held across Feed calls
	final   bool
}

// Feed decodes chunk (appended to any carried-over partial bytes) into
// runes. A genuinely invalid byte decodes to U+FFFD and is skipped; a
// sequence that's merely incomplete at the end of a non-final chunk is held
// back for the next Feed call — a split multi-byte sequence at a chunk
// boundary, the UTF-8 analogue of a split surrogate pair.
func (rb *runeBuffer) Feed(chunk []byte, final bool) {
	data := chunk
	if len(rb.pending) > 0 {
		data = append(rb.pending, chunk...)
		rb.pending = nil
	}

	i := 0
	for i < len(data) {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			if !final && !utf8.FullRune(data[i:]) {
				rb.pending = append(rb.pending, data[i:]...)
				break
			}
			rb.runes = append(rb.runes, utf8.RuneError)
			i++
			continue
		}
		rb.runes = append(rb.runes, r)
		i += size
	}
	rb.final = final
}

// getc returns the next rune, or ok=false if none is currently buffered.
// Pushback of a single already-read rune is handled at the Parser level
// (see Parser.pushback), not here, so runeBuffer itself stays a one-way
// cursor with no unget.
func (rb *runeBuffer) getc() (r rune, ok bool) {
	if rb.pos >= len(rb.runes) {
		return 0, false
	}
	r = rb.runes[rb.pos]
	rb.pos++
	return r, true
}
