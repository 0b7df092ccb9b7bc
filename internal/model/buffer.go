package model

import "strings"

// Span is a [Start, End) range of character offsets into a Buffer.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Empty reports whether the span selects nothing.
func (s Span) Empty() bool {
	return s.Start == s.End
}

// Buffer is an immutable view of editor text addressed by character
// (code point) offsets, the unit editor hosts use for cursor positions.
type Buffer struct {
	runes []rune
}

// NewBuffer returns a Buffer over text.
func NewBuffer(text string) Buffer {
	return Buffer{runes: []rune(text)}
}

// Size returns the number of characters in the buffer.
func (b Buffer) Size() int {
	return len(b.runes)
}

func (b Buffer) String() string {
	return string(b.runes)
}

// At returns the character at offset i.
func (b Buffer) At(i int) rune {
	return b.runes[i]
}

// Clamp forces an offset into [0, Size()].
func (b Buffer) Clamp(i int) int {
	if i < 0 {
		return 0
	}
	if i > len(b.runes) {
		return len(b.runes)
	}
	return i
}

// Slice returns the text covered by span.
func (b Buffer) Slice(span Span) string {
	return string(b.runes[b.Clamp(span.Start):b.Clamp(span.End)])
}

// Row returns the 0-based line index containing offset.
func (b Buffer) Row(offset int) int {
	offset = b.Clamp(offset)
	row := 0
	for _, r := range b.runes[:offset] {
		if r == '\n' {
			row++
		}
	}
	return row
}

// LineStart returns the offset of the first character of the line holding offset.
func (b Buffer) LineStart(offset int) int {
	offset = b.Clamp(offset)
	for offset > 0 && b.runes[offset-1] != '\n' {
		offset--
	}
	return offset
}

// LineEnd returns the offset of the newline ending the line holding offset,
// or Size() on the last line.
func (b Buffer) LineEnd(offset int) int {
	offset = b.Clamp(offset)
	for offset < len(b.runes) && b.runes[offset] != '\n' {
		offset++
	}
	return offset
}

// Line returns the text of the line holding offset, without its newline.
func (b Buffer) Line(offset int) string {
	return string(b.runes[b.LineStart(offset):b.LineEnd(offset)])
}

// Offset converts a 1-based line and column into a character offset.
// Columns past the end of the line stop at the line's end.
func (b Buffer) Offset(line, col int) int {
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	offset := 0
	for l := 1; l < line && offset < len(b.runes); offset++ {
		if b.runes[offset] == '\n' {
			l++
		}
	}
	end := b.LineEnd(offset)
	if offset+col-1 > end {
		return end
	}
	return offset + col - 1
}

// Lines splits the buffer text into lines.
func (b Buffer) Lines() []string {
	return strings.Split(string(b.runes), "\n")
}
