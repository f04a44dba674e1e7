package rcfile

import "sort"

// ParseOutcome is everything Parse learned about one buffer. Errors never
// replace Tokens or Lines; both are always filled in on a best-effort basis.
type ParseOutcome struct {
	Tokens []Spanned[Token]
	Lines  []Line
	Errors []*LexError
}

// Parse tokenizes source and assembles the tokens into lines. It is a pure
// function of its input and is safe to call from multiple goroutines.
func Parse(source string) ParseOutcome {
	tokens, errs := Tokenize(source)
	return ParseOutcome{
		Tokens: tokens,
		Lines:  Assemble(tokens, source),
		Errors: errs,
	}
}

// HasErrors reports whether the tokenizer rejected any part of the input.
func (o ParseOutcome) HasErrors() bool {
	return len(o.Errors) > 0
}

// LineAt returns the index of the line containing offset. A line owns the
// bytes from its start up to and including the end of its comment.
func (o ParseOutcome) LineAt(offset int) (int, bool) {
	if len(o.Lines) == 0 || offset < 0 {
		return 0, false
	}
	i := sort.Search(len(o.Lines), func(i int) bool {
		return o.Lines[i].Span.Start > offset
	}) - 1
	if i < 0 {
		return 0, false
	}
	line := o.Lines[i]
	end := line.Span.End
	if line.Comment != nil {
		end = line.Comment.Span.End
	}
	if offset > end {
		return 0, false
	}
	return i, true
}

// TokenAt returns the Text or Comment token covering offset. A cursor placed
// right after the last byte of a token still selects it.
func (o ParseOutcome) TokenAt(offset int) (Spanned[Token], bool) {
	for _, tok := range o.Tokens {
		if tok.Value.Kind != TokenText && tok.Value.Kind != TokenComment {
			continue
		}
		if tok.Span.Start <= offset && offset <= tok.Span.End {
			return tok, true
		}
		if tok.Span.Start > offset {
			break
		}
	}
	return Spanned[Token]{}, false
}

// ElementAt returns the line element covering offset.
func (o ParseOutcome) ElementAt(offset int) (Element, bool) {
	i, ok := o.LineAt(offset)
	if !ok {
		return Element{}, false
	}
	var best Element
	found := false
	for _, el := range o.Lines[i].Elements() {
		if el.Span.Start <= offset && offset <= el.Span.End {
			// On a shared boundary the element starting at offset wins.
			if !found || el.Span.Start == offset {
				best, found = el, true
			}
		}
	}
	return best, found
}

// Commands returns the distinct command names in order of first use.
func (o ParseOutcome) Commands() []string {
	seen := make(map[string]bool)
	var out []string
	for _, line := range o.Lines {
		if line.Command == nil || seen[line.Command.Value] {
			continue
		}
		seen[line.Command.Value] = true
		out = append(out, line.Command.Value)
	}
	return out
}
