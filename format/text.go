package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/dhamidi/bazelrc/rcfile"
)

// TextRenderer prints diagnostics in the usual compiler layout: a
// file:line:col header, the offending source line and an underline.
type TextRenderer struct {
	w      io.Writer
	loc    *color.Color
	kind   *color.Color
	mark   *color.Color
	gutter *color.Color
}

func NewTextRenderer(w io.Writer, useColor bool) *TextRenderer {
	r := &TextRenderer{
		w:      w,
		loc:    color.New(color.Bold),
		kind:   color.New(color.FgRed, color.Bold),
		mark:   color.New(color.FgRed),
		gutter: color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{r.loc, r.kind, r.mark, r.gutter} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// Render writes one block per error. name is printed as the file location.
func (r *TextRenderer) Render(name, source string, errs []*rcfile.LexError) error {
	if len(errs) == 0 {
		return nil
	}
	index := rcfile.NewLineIndex(source)
	for _, err := range errs {
		if werr := r.renderOne(name, index, err); werr != nil {
			return werr
		}
	}
	return nil
}

func (r *TextRenderer) renderOne(name string, index *rcfile.LineIndex, err *rcfile.LexError) error {
	pos := index.Position(err.Span.Start)
	text := index.LineText(pos.Line)
	lineSpan := index.LineSpan(pos.Line)

	// Underline only the part of the error on its first line.
	start := clamp(err.Span.Start-lineSpan.Start, 0, len(text))
	stop := clamp(err.Span.End-lineSpan.Start, start, len(text))
	width := runewidth.StringWidth(text[start:stop])
	if width < 1 {
		width = 1
	}

	number := fmt.Sprintf("%d", pos.Line)
	pad := strings.Repeat(" ", len(number))

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s\n",
		r.loc.Sprintf("%s:%d:%d:", name, pos.Line, pos.Column),
		r.kind.Sprintf("error[%s]:", err.Kind),
		err.Message)
	fmt.Fprintf(&b, " %s %s %s\n", r.gutter.Sprint(number), r.gutter.Sprint("|"), text)
	fmt.Fprintf(&b, " %s %s %s%s\n", pad, r.gutter.Sprint("|"), indent(text[:start]),
		r.mark.Sprint("^"+strings.Repeat("~", width-1)))

	_, werr := io.WriteString(r.w, b.String())
	return werr
}

// indent returns blank space occupying the same columns as prefix. Tabs are
// kept so the underline lines up with tab stops in the source line.
func indent(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
