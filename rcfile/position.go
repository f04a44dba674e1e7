package rcfile

import "sort"

// Position is a byte offset together with its 1-based line and column.
// Columns count bytes, not runes.
type Position struct {
	Offset int
	Line   int
	Column int
}

// LineIndex maps between byte offsets and physical line/column positions.
// Physical lines end at '\n'; a continuation does not join them here.
type LineIndex struct {
	source string
	starts []int
	size   int
}

func NewLineIndex(source string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{source: source, starts: starts, size: len(source)}
}

func (x *LineIndex) LineCount() int {
	return len(x.starts)
}

// Position converts a byte offset. Offsets outside the source are clamped.
func (x *LineIndex) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > x.size {
		offset = x.size
	}
	i := sort.Search(len(x.starts), func(i int) bool {
		return x.starts[i] > offset
	}) - 1
	return Position{Offset: offset, Line: i + 1, Column: offset - x.starts[i] + 1}
}

// Offset converts a 1-based line and column back to a byte offset. Columns
// past the end of the line are clamped to the line's end.
func (x *LineIndex) Offset(line, column int) int {
	if line < 1 {
		return 0
	}
	if line > len(x.starts) {
		return x.size
	}
	span := x.LineSpan(line)
	off := span.Start + column - 1
	if off < span.Start {
		return span.Start
	}
	if off > span.End {
		return span.End
	}
	return off
}

// LineSpan returns the span of a physical line without its LF or CRLF
// terminator.
func (x *LineIndex) LineSpan(line int) Span {
	if line < 1 || line > len(x.starts) {
		return Span{Start: x.size, End: x.size}
	}
	start := x.starts[line-1]
	end := x.size
	if line < len(x.starts) {
		end = x.starts[line] - 1
		if end > start && x.source[end-1] == '\r' {
			end--
		}
	}
	return Span{Start: start, End: end}
}

// LineText returns the text of a physical line without its terminator.
func (x *LineIndex) LineText(line int) string {
	return x.LineSpan(line).Slice(x.source)
}
