package rcfile

import (
	"strings"
	"unicode/utf8"
)

// Flag is one argument of a line. Dashed arguments always have a Name and
// have a Value only when written as name=value. Positional arguments have
// only a Value.
type Flag struct {
	Name  *Spanned[string]
	Value *Spanned[string]
}

// IsPositional reports whether the flag was written without a leading dash.
func (f Flag) IsPositional() bool {
	return f.Name == nil
}

// Span covers both the name and the value of the flag.
func (f Flag) Span() Span {
	switch {
	case f.Name != nil && f.Value != nil:
		return f.Name.Span.Cover(f.Value.Span)
	case f.Name != nil:
		return f.Name.Span
	case f.Value != nil:
		return f.Value.Span
	}
	return Span{}
}

// Line is one logical line of an rc file. Span runs from the start of the
// line to the start of its comment, or to the line break if there is no
// comment. A Line with every field empty stands for a blank source line.
type Line struct {
	Command *Spanned[string]
	Config  *Spanned[string]
	Flags   []Flag
	Comment *Spanned[string]
	Span    Span
}

// IsBlank reports whether the line carries neither content nor a comment.
func (l Line) IsBlank() bool {
	return l.Command == nil && l.Config == nil && len(l.Flags) == 0 && l.Comment == nil
}

// Assemble groups tokens into lines in a single forward pass. It accepts any
// token sequence, including one produced from broken input.
func Assemble(tokens []Spanned[Token], source string) []Line {
	a := &assembler{source: source}
	for _, tok := range tokens {
		a.push(tok)
	}
	return a.finish()
}

type assembler struct {
	source    string
	lines     []Line
	current   *Line
	lineStart int
}

func (a *assembler) open() *Line {
	if a.current == nil {
		a.current = &Line{}
	}
	return a.current
}

func (a *assembler) push(tok Spanned[Token]) {
	switch tok.Value.Kind {
	case TokenText:
		line := a.open()
		if line.Command == nil && len(line.Flags) == 0 && !strings.HasPrefix(tok.Value.Text, "-") {
			line.Command, line.Config = a.splitCommand(tok)
			return
		}
		line.Flags = append(line.Flags, a.splitFlag(tok))
	case TokenComment:
		line := a.open()
		if line.Comment == nil {
			line.Comment = spanned(tok.Value.Text, tok.Span.Start, tok.Span.End)
		}
	case TokenLineBreak:
		a.close(tok.Span.Start, tok.Span.End)
	case TokenSuppressedLineBreak:
	}
}

// close finalizes the current line. end is where the line's content stops
// and next is where the following line begins.
func (a *assembler) close(end, next int) {
	line := a.open()
	if line.Comment != nil {
		end = line.Comment.Span.Start
	}
	if end < a.lineStart {
		end = a.lineStart
	}
	line.Span = Span{Start: a.lineStart, End: end}
	a.lines = append(a.lines, *line)
	a.current = nil
	a.lineStart = next
}

func (a *assembler) finish() []Line {
	a.close(len(a.source), len(a.source))
	return a.lines
}

func (a *assembler) splitCommand(tok Spanned[Token]) (command, config *Spanned[string]) {
	text, span := tok.Value.Text, tok.Span
	idx, off, ok := bareSeparator(span.Slice(a.source), ':')
	if !ok {
		return spanned(text, span.Start, span.End), nil
	}
	colon := span.Start + off
	command = spanned(text[:idx], span.Start, colon)
	config = spanned(text[idx+1:], colon, span.End)
	return command, config
}

func (a *assembler) splitFlag(tok Spanned[Token]) Flag {
	text, span := tok.Value.Text, tok.Span
	if !strings.HasPrefix(text, "-") {
		return Flag{Value: spanned(text, span.Start, span.End)}
	}
	idx, off, ok := bareSeparator(span.Slice(a.source), '=')
	if !ok {
		return Flag{Name: spanned(text, span.Start, span.End)}
	}
	return Flag{
		Name:  spanned(text[:idx], span.Start, span.Start+off),
		Value: spanned(text[idx+1:], span.Start+off+1, span.End),
	}
}

// bareSeparator walks raw, the source slice of one Text token, with the
// lexer's decoding rules and finds the first sep that is neither quoted nor
// escaped. It returns the separator's index in the decoded text and its
// offset in raw.
func bareSeparator(raw string, sep byte) (index, offset int, ok bool) {
	var quote byte
	n := 0
	for i := 0; i < len(raw); {
		ch := raw[i]
		switch {
		case ch == '\\':
			switch {
			case i+1 >= len(raw):
				i++
			case raw[i+1] == '\n':
				i += 2
			case raw[i+1] == '\r' && i+2 < len(raw) && raw[i+2] == '\n':
				i += 3
			case raw[i+1] == '\r':
				i += 2
			default:
				_, size := utf8.DecodeRuneInString(raw[i+1:])
				n += size
				i += 1 + size
			}
		case quote == 0 && (ch == '"' || ch == '\''):
			quote = ch
			i++
		case quote != 0 && ch == quote:
			quote = 0
			i++
		case quote == 0 && ch == sep:
			return n, i, true
		default:
			n++
			i++
		}
	}
	return 0, 0, false
}
