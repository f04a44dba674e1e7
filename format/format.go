package format

import (
	"fmt"
	"io"

	"github.com/dhamidi/bazelrc/rcfile"
)

// Encoder writes a parsed rc file in some serialization format.
type Encoder interface {
	Encode(doc *Document) error
}

// Formats lists the names accepted by NewEncoder.
var Formats = []string{"json", "yaml", "msgpack", "lines"}

func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "json":
		return NewJSONEncoder(w), nil
	case "yaml":
		return NewYAMLEncoder(w), nil
	case "msgpack":
		return NewMsgpackEncoder(w), nil
	case "lines":
		return NewLineEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format: %s", name)
}

// Document is the serializable view of a ParseOutcome. Spans carry both byte
// offsets and 1-based line/column positions.
type Document struct {
	File   string  `json:"file" yaml:"file" msgpack:"file"`
	Lines  []Line  `json:"lines" yaml:"lines" msgpack:"lines"`
	Errors []Error `json:"errors,omitempty" yaml:"errors,omitempty" msgpack:"errors,omitempty"`
	Tokens []Token `json:"tokens,omitempty" yaml:"tokens,omitempty" msgpack:"tokens,omitempty"`
}

type Span struct {
	Start       int `json:"start" yaml:"start" msgpack:"start"`
	End         int `json:"end" yaml:"end" msgpack:"end"`
	StartLine   int `json:"startLine" yaml:"startLine" msgpack:"startLine"`
	StartColumn int `json:"startColumn" yaml:"startColumn" msgpack:"startColumn"`
	EndLine     int `json:"endLine" yaml:"endLine" msgpack:"endLine"`
	EndColumn   int `json:"endColumn" yaml:"endColumn" msgpack:"endColumn"`
}

type Value struct {
	Value string `json:"value" yaml:"value" msgpack:"value"`
	Raw   string `json:"raw" yaml:"raw" msgpack:"raw"`
	Span  Span   `json:"span" yaml:"span" msgpack:"span"`
}

type Flag struct {
	Name  *Value `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	Value *Value `json:"value,omitempty" yaml:"value,omitempty" msgpack:"value,omitempty"`
}

type Line struct {
	Number  int    `json:"number" yaml:"number" msgpack:"number"`
	Command *Value `json:"command,omitempty" yaml:"command,omitempty" msgpack:"command,omitempty"`
	Config  *Value `json:"config,omitempty" yaml:"config,omitempty" msgpack:"config,omitempty"`
	Flags   []Flag `json:"flags,omitempty" yaml:"flags,omitempty" msgpack:"flags,omitempty"`
	Comment *Value `json:"comment,omitempty" yaml:"comment,omitempty" msgpack:"comment,omitempty"`
	Span    Span   `json:"span" yaml:"span" msgpack:"span"`
}

type Error struct {
	Kind    string `json:"kind" yaml:"kind" msgpack:"kind"`
	Message string `json:"message" yaml:"message" msgpack:"message"`
	Span    Span   `json:"span" yaml:"span" msgpack:"span"`
}

type Token struct {
	Kind string `json:"kind" yaml:"kind" msgpack:"kind"`
	Text string `json:"text,omitempty" yaml:"text,omitempty" msgpack:"text,omitempty"`
	Span Span   `json:"span" yaml:"span" msgpack:"span"`
}

// NewDocument converts a ParseOutcome of source. Tokens are only included
// when withTokens is set.
func NewDocument(file, source string, out rcfile.ParseOutcome, withTokens bool) *Document {
	b := &docBuilder{source: source, index: rcfile.NewLineIndex(source)}
	doc := &Document{File: file}

	for i, line := range out.Lines {
		dl := Line{
			Number:  i + 1,
			Command: b.value(line.Command),
			Config:  b.value(line.Config),
			Comment: b.value(line.Comment),
			Span:    b.span(line.Span),
		}
		for _, f := range line.Flags {
			dl.Flags = append(dl.Flags, Flag{Name: b.value(f.Name), Value: b.value(f.Value)})
		}
		doc.Lines = append(doc.Lines, dl)
	}

	for _, err := range out.Errors {
		doc.Errors = append(doc.Errors, Error{
			Kind:    err.Kind.String(),
			Message: err.Message,
			Span:    b.span(err.Span),
		})
	}

	if withTokens {
		for _, tok := range out.Tokens {
			doc.Tokens = append(doc.Tokens, Token{
				Kind: tok.Value.Kind.String(),
				Text: tok.Value.Text,
				Span: b.span(tok.Span),
			})
		}
	}

	return doc
}

type docBuilder struct {
	source string
	index  *rcfile.LineIndex
}

func (b *docBuilder) span(s rcfile.Span) Span {
	start := b.index.Position(s.Start)
	end := b.index.Position(s.End)
	return Span{
		Start:       s.Start,
		End:         s.End,
		StartLine:   start.Line,
		StartColumn: start.Column,
		EndLine:     end.Line,
		EndColumn:   end.Column,
	}
}

func (b *docBuilder) value(v *rcfile.Spanned[string]) *Value {
	if v == nil {
		return nil
	}
	return &Value{Value: v.Value, Raw: v.Span.Slice(b.source), Span: b.span(v.Span)}
}
