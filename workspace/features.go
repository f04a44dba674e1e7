package workspace

import (
	"fmt"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/bazelrc/rcfile"
)

const diagnosticSource = "bazelrc"

// Diagnostics reports every lexical error of the document.
func (d *Document) Diagnostics() []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	severity := protocol.DiagnosticSeverityError
	source := diagnosticSource
	for _, err := range d.Outcome.Errors {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    d.Range(err.Span),
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: err.Kind.String()},
			Source:   &source,
			Message:  err.Message,
		})
	}
	return diagnostics
}

// Symbols lists one symbol per command line with its flags as children.
// Flags of lines without a command become top-level symbols.
func (d *Document) Symbols() []protocol.DocumentSymbol {
	var symbols []protocol.DocumentSymbol
	for _, line := range d.Outcome.Lines {
		var flags []protocol.DocumentSymbol
		for _, f := range line.Flags {
			flags = append(flags, d.flagSymbol(f))
		}
		if line.Command == nil {
			symbols = append(symbols, flags...)
			continue
		}

		sym := protocol.DocumentSymbol{
			Name:           d.symbolName(line.Command),
			Kind:           protocol.SymbolKindNamespace,
			Range:          d.Range(line.Span),
			SelectionRange: d.Range(line.Command.Span),
			Children:       flags,
		}
		if line.Config != nil {
			detail := line.Config.Value
			sym.Detail = &detail
			sym.SelectionRange = d.Range(line.Command.Span.Cover(line.Config.Span))
		}
		symbols = append(symbols, sym)
	}
	return symbols
}

func (d *Document) flagSymbol(f rcfile.Flag) protocol.DocumentSymbol {
	if f.IsPositional() {
		return protocol.DocumentSymbol{
			Name:           d.symbolName(f.Value),
			Kind:           protocol.SymbolKindVariable,
			Range:          d.Range(f.Span()),
			SelectionRange: d.Range(f.Value.Span),
		}
	}
	sym := protocol.DocumentSymbol{
		Name:           d.symbolName(f.Name),
		Kind:           protocol.SymbolKindProperty,
		Range:          d.Range(f.Span()),
		SelectionRange: d.Range(f.Name.Span),
	}
	if f.Value != nil {
		value := f.Value.Value
		sym.Detail = &value
	}
	return sym
}

// Symbol names must not be blank; fall back to the raw text.
func (d *Document) symbolName(v *rcfile.Spanned[string]) string {
	if strings.TrimSpace(v.Value) != "" {
		return v.Value
	}
	if raw := v.Span.Slice(d.Content); strings.TrimSpace(raw) != "" {
		return raw
	}
	return "(empty)"
}

// Hover describes the line element under offset: its role, decoded value
// and the source text it was decoded from.
func (d *Document) Hover(offset int) *protocol.Hover {
	el, ok := d.Outcome.ElementAt(offset)
	if !ok {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s**", el.Role)
	if el.Role == rcfile.RoleFlagValue {
		if line, ok := d.Outcome.LineAt(offset); ok {
			fmt.Fprintf(&b, " of `%s`", d.Outcome.Lines[line].Flags[el.Flag].Name.Value)
		}
	}
	fmt.Fprintf(&b, "\n\n```\n%s\n```\n", el.Value)
	if raw := el.Span.Slice(d.Content); raw != el.Value {
		fmt.Fprintf(&b, "\nsource:\n```\n%s\n```\n", raw)
	}

	r := d.Range(el.Span)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: b.String(),
		},
		Range: &r,
	}
}

// FoldingRanges folds runs of comment-only lines that span more than one
// physical line.
func (d *Document) FoldingRanges() []protocol.FoldingRange {
	ranges := []protocol.FoldingRange{}
	kind := string(protocol.FoldingRangeKindComment)

	lines := d.Outcome.Lines
	for i := 0; i < len(lines); {
		if !commentOnly(lines[i]) {
			i++
			continue
		}
		j := i
		for j+1 < len(lines) && commentOnly(lines[j+1]) {
			j++
		}
		start := d.Position(lines[i].Comment.Span.Start)
		end := d.Position(lines[j].Comment.Span.End)
		if end.Line > start.Line {
			ranges = append(ranges, protocol.FoldingRange{
				StartLine: start.Line,
				EndLine:   end.Line,
				Kind:      &kind,
			})
		}
		i = j + 1
	}
	return ranges
}

func commentOnly(line rcfile.Line) bool {
	return line.Comment != nil && line.Command == nil && len(line.Flags) == 0
}
