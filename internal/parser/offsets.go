package parser

import (
	"unicode/utf16"
	"unicode/utf8"
)

// OffsetConverter translates byte offsets in UTF-8 source text into UTF-16
// code-unit offsets, which is how editor tooling addresses positions.
// A converter is tied to one source text and is not safe for concurrent use.
type OffsetConverter struct {
	source []byte

	// Resume point for monotonically increasing queries, which is the
	// common access pattern when emitting diagnostics in source order.
	lastByte  int
	lastUTF16 int
}

// NewOffsetConverter creates a converter for the given source text
func NewOffsetConverter(source []byte) *OffsetConverter {
	return &OffsetConverter{source: source}
}

// UTF16Offset converts a byte offset into a UTF-16 code-unit offset.
// Offsets past the end of the source clamp to the total UTF-16 length.
func (c *OffsetConverter) UTF16Offset(byteOffset int) int {
	if byteOffset < 0 {
		return 0
	}
	if byteOffset > len(c.source) {
		byteOffset = len(c.source)
	}

	pos, units := 0, 0
	if byteOffset >= c.lastByte {
		pos, units = c.lastByte, c.lastUTF16
	}

	for pos < byteOffset {
		r, size := utf8.DecodeRune(c.source[pos:])
		if size == 0 {
			break
		}
		units += utf16.RuneLen(r)
		pos += size
	}

	c.lastByte = pos
	c.lastUTF16 = units
	return units
}

// UTF16Range converts a byte range into a UTF-16 code-unit range
func (c *OffsetConverter) UTF16Range(startByte, endByte int) (int, int) {
	from := c.UTF16Offset(startByte)
	to := c.UTF16Offset(endByte)
	return from, to
}
