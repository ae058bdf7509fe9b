package parser

import "bytes"

// Sniff inspects the first bytes of a document for a byte-order mark or a
// UTF-16-without-BOM pattern, returning a suggested encoding name and how
// many leading bytes belong to the BOM (0 if none was found). It does not
// transcode anything — actual charset conversion is left to the caller, but
// a caller that finds a non-UTF-8 result here knows to decode before handing
// bytes to Feed.
func Sniff(data []byte) (encoding string, bomLen int) {
	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		return "utf-8", 3
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE, 0x00, 0x00}):
		return "utf-32le", 4
	case bytes.HasPrefix(data, []byte{0x00, 0x00, 0xFE, 0xFF}):
		return "utf-32be", 4
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		return "utf-16le", 2
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		return "utf-16be", 2
	}

	if looksLikeUTF16(data, false) {
		return "utf-16le", 0
	}
	if looksLikeUTF16(data, true) {
		return "utf-16be", 0
	}
	return "utf-8", 0
}

// looksLikeUTF16 is a heuristic for BOM-less UTF-16: ASCII markup is
// extremely regular, so in practice every other byte of the first chunk of
// a UTF-16-encoded ASCII-range HTML document is 0x00.
func looksLikeUTF16(data []byte, bigEndian bool) bool {
	n := len(data)
	if n > 64 {
		n = 64
	}
	if n < 4 {
		return false
	}
	zeroOffset := 1
	if bigEndian {
		zeroOffset = 0
	}
	zeros, total := 0, 0
	for i := zeroOffset; i < n; i += 2 {
		total++
		if data[i] == 0x00 {
			zeros++
		}
	}
	return total > 0 && zeros == total
}
