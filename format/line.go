package format

import (
	"fmt"
	"io"
	"strings"
)

// LineEncoder writes one tab-separated record per line element, error and
// token. Every record starts with its kind and physical line number so the
// output can be filtered with grep and cut:
//
//	command	1	0	5	"build"
//	flag	1	9	12	"--x"
//	error	3	31	36	bare-line-break-in-quote	"line break inside ' quote; ..."
type LineEncoder struct {
	w   io.Writer
	doc *Document
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(doc *Document) error {
	e.doc = doc
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	d := e.doc

	for _, line := range d.Lines {
		e.value(&sb, "command", line.Command)
		e.value(&sb, "config", line.Config)
		for _, f := range line.Flags {
			if f.Name == nil {
				e.value(&sb, "argument", f.Value)
				continue
			}
			e.value(&sb, "flag", f.Name)
			e.value(&sb, "value", f.Value)
		}
		e.value(&sb, "comment", line.Comment)
	}

	for _, err := range d.Errors {
		fmt.Fprintf(&sb, "error\t%s\t%s\t%q\n", e.position(err.Span), err.Kind, err.Message)
	}

	for _, tok := range d.Tokens {
		fmt.Fprintf(&sb, "token\t%s\t%s\t%q\n", e.position(tok.Span), tok.Kind, tok.Text)
	}

	return []byte(sb.String()), nil
}

func (e *LineEncoder) value(sb *strings.Builder, kind string, v *Value) {
	if v == nil {
		return
	}
	fmt.Fprintf(sb, "%s\t%s\t%q\n", kind, e.position(v.Span), v.Value)
}

func (e *LineEncoder) position(s Span) string {
	return fmt.Sprintf("%d\t%d\t%d", s.StartLine, s.Start, s.End)
}
