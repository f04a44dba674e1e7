package rcfile

import "fmt"

type ErrorKind int

const (
	// UnterminatedQuote is a quote still open at end of input.
	UnterminatedQuote ErrorKind = iota
	// BareLineBreakInQuote is an unescaped line terminator inside quotes.
	BareLineBreakInQuote
	// MalformedSequence covers every other rejected byte sequence, such as a
	// backslash at end of input.
	MalformedSequence
)

func (k ErrorKind) String() string {
	switch k {
	case UnterminatedQuote:
		return "unterminated-quote"
	case BareLineBreakInQuote:
		return "bare-line-break-in-quote"
	case MalformedSequence:
		return "malformed-sequence"
	}
	return "unknown"
}

// LexError is a recoverable lexical error. The tokenizer keeps going after
// reporting one.
type LexError struct {
	Kind    ErrorKind
	Span    Span
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s: %s", e.Span, e.Message)
}
