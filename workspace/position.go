package workspace

import (
	"math"
	"unicode/utf16"

	"fortio.org/safecast"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/bazelrc/rcfile"
)

// Position converts a byte offset into an LSP position. LSP counts
// characters in UTF-16 code units.
func (d *Document) Position(offset int) protocol.Position {
	pos := d.Index.Position(offset)
	text := d.Index.LineText(pos.Line)
	col := min(pos.Column-1, len(text))
	return protocol.Position{
		Line:      uinteger(pos.Line - 1),
		Character: uinteger(utf16Len(text[:col])),
	}
}

// Offset converts an LSP position back into a byte offset. Positions past
// the end of a line or of the document are clamped.
func (d *Document) Offset(pos protocol.Position) int {
	line := int(pos.Line) + 1
	if line > d.Index.LineCount() {
		return len(d.Content)
	}
	span := d.Index.LineSpan(line)
	want := int(pos.Character)
	units := 0
	for i, r := range d.Index.LineText(line) {
		if units >= want {
			return span.Start + i
		}
		units += utf16.RuneLen(r)
	}
	return span.End
}

func (d *Document) Range(s rcfile.Span) protocol.Range {
	return protocol.Range{Start: d.Position(s.Start), End: d.Position(s.End)}
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

func uinteger(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	v, err := safecast.Conv[protocol.UInteger](n)
	if err != nil {
		return math.MaxUint32
	}
	return v
}
