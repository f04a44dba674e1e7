package rcfile

import "fmt"

type TokenKind int

const (
	// TokenText is a literal word with quotes and escapes resolved.
	TokenText TokenKind = iota
	// TokenComment is the text following an unquoted '#'.
	TokenComment
	// TokenLineBreak is an unescaped LF or CRLF.
	TokenLineBreak
	// TokenSuppressedLineBreak is a backslash continuation found between
	// words. Continuations inside a word or comment are absorbed by it.
	TokenSuppressedLineBreak
)

var tokenKindNames = map[TokenKind]string{
	TokenText:                "Text",
	TokenComment:             "Comment",
	TokenLineBreak:           "LineBreak",
	TokenSuppressedLineBreak: "SuppressedLineBreak",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Token is a lexical unit. Text holds the decoded content for TokenText and
// TokenComment and is empty for the line break kinds.
type Token struct {
	Kind TokenKind
	Text string
}

func (t Token) String() string {
	switch t.Kind {
	case TokenText, TokenComment:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
	default:
		return t.Kind.String()
	}
}
