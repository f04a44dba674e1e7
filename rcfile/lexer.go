package rcfile

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Lexer turns rc source text into spanned tokens. It never fails: malformed
// input is reported through Errors and scanning resumes right after it.
type Lexer struct {
	input  string
	pos    int
	tokens []Spanned[Token]
	errors []*LexError
}

func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize runs a fresh Lexer over source and returns everything it found.
func Tokenize(source string) ([]Spanned[Token], []*LexError) {
	l := NewLexer(source)
	l.Run()
	return l.Tokens(), l.Errors()
}

func (l *Lexer) Tokens() []Spanned[Token] {
	return l.tokens
}

func (l *Lexer) Errors() []*LexError {
	return l.errors
}

// Run scans the whole input. Calling it again is a no-op.
func (l *Lexer) Run() {
	for l.pos < len(l.input) {
		l.next()
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

// terminatorLen returns the length of the line terminator starting n bytes
// past the cursor, or 0 if there is none.
func (l *Lexer) terminatorLen(n int) int {
	switch {
	case l.pos+n >= len(l.input):
		return 0
	case l.input[l.pos+n] == '\n':
		return 1
	case l.input[l.pos+n] == '\r' && l.peekN(n+1) == '\n':
		return 2
	}
	return 0
}

func (l *Lexer) emit(kind TokenKind, text string, start int) {
	l.tokens = append(l.tokens, Spanned[Token]{
		Value: Token{Kind: kind, Text: text},
		Span:  Span{Start: start, End: l.pos},
	})
}

func (l *Lexer) errorf(kind ErrorKind, start, end int, format string, args ...any) {
	l.errors = append(l.errors, &LexError{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Message: fmt.Sprintf(format, args...),
	})
}

func (l *Lexer) next() {
	start := l.pos

	if n := l.terminatorLen(0); n > 0 {
		l.pos += n
		l.emit(TokenLineBreak, "", start)
		return
	}

	switch ch := l.peek(); ch {
	case ' ', '\t', '\r':
		l.skipBlanks()
	case '#':
		l.scanComment()
	case '\\':
		if n := l.terminatorLen(1); n > 0 {
			l.pos += 1 + n
			l.emit(TokenSuppressedLineBreak, "", start)
			return
		}
		l.scanText()
	default:
		l.scanText()
	}
}

// skipBlanks consumes spaces, tabs and carriage returns that do not start a
// CRLF pair.
func (l *Lexer) skipBlanks() {
	for l.pos < len(l.input) {
		ch := l.peek()
		if ch == ' ' || ch == '\t' || (ch == '\r' && l.peekN(1) != '\n') {
			l.pos++
			continue
		}
		return
	}
}

func isWordBreak(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n', '#':
		return true
	}
	return false
}

// scanText reads one word made of any mix of bare, escaped and quoted
// fragments. The span covers everything read, continuations included.
func (l *Lexer) scanText() {
	start := l.pos
	var buf strings.Builder
	content := false

	for l.pos < len(l.input) {
		ch := l.peek()
		if isWordBreak(ch) {
			break
		}
		switch ch {
		case '"', '\'':
			l.scanQuoted(ch, &buf)
			content = true
		case '\\':
			if l.scanEscape(&buf) {
				content = true
			}
		default:
			buf.WriteByte(ch)
			l.pos++
			content = true
		}
	}

	if content {
		l.emit(TokenText, buf.String(), start)
	}
}

// scanQuoted reads a quoted fragment starting at the opening quote. On a
// bare line terminator or end of input the quote is closed where it failed.
func (l *Lexer) scanQuoted(quote byte, buf *strings.Builder) {
	open := l.pos
	l.pos++

	for {
		if l.pos >= len(l.input) {
			l.errorf(UnterminatedQuote, open, l.pos, "missing closing %c quote", quote)
			return
		}
		if l.terminatorLen(0) > 0 {
			l.errorf(BareLineBreakInQuote, open, l.pos,
				"line break inside %c quote; escape it with '\\' or close the quote", quote)
			return
		}
		switch ch := l.peek(); ch {
		case quote:
			l.pos++
			return
		case '\\':
			l.scanEscape(buf)
		default:
			buf.WriteByte(ch)
			l.pos++
		}
	}
}

// scanEscape handles a backslash at the cursor. It reports whether a
// character was written to buf; continuations and malformed sequences
// contribute nothing.
func (l *Lexer) scanEscape(buf *strings.Builder) bool {
	start := l.pos

	if n := l.terminatorLen(1); n > 0 {
		l.pos += 1 + n
		return false
	}

	switch l.peekN(1) {
	case 0:
		if l.pos+1 >= len(l.input) {
			l.pos++
			l.errorf(MalformedSequence, start, l.pos, "escape character at end of input")
			return false
		}
	case '\r':
		l.pos += 2
		l.errorf(MalformedSequence, start, l.pos, "escaped carriage return without line feed")
		return false
	}

	_, size := utf8.DecodeRuneInString(l.input[l.pos+1:])
	buf.WriteString(l.input[l.pos+1 : l.pos+1+size])
	l.pos += 1 + size
	return true
}

// scanComment reads from '#' up to the next unescaped line terminator. An
// escaped terminator continues the comment and shows up as '\n' in its
// text; any other backslash is kept as is.
func (l *Lexer) scanComment() {
	start := l.pos
	l.pos++
	var buf strings.Builder

	for l.pos < len(l.input) {
		if l.terminatorLen(0) > 0 {
			break
		}
		ch := l.peek()
		if ch == '\\' {
			if n := l.terminatorLen(1); n > 0 {
				buf.WriteByte('\n')
				l.pos += 1 + n
				continue
			}
		}
		buf.WriteByte(ch)
		l.pos++
	}

	l.emit(TokenComment, buf.String(), start)
}
