package rcfile

import (
	"reflect"
	"testing"
)

const sampleRC = `# Shared settings
common --enable_bzlmod
build --copt="-O2 -g" --define=mode=\
release
build:ci --config=remote --remote_header='x-token=abc def' '--tls=on'
test --test_output=errors //foo:all  # trailing comment
try-import %workspace%/user.bazelrc

startup --host_jvm_args=-Xmx2g
`

var corpus = []string{
	"",
	"\n",
	"cmd",
	"cmd\n\r\n\ncmd -x \n",
	"build:opt --x=y",
	`b"uil"d':o'pt --"x"='y'`,
	"abc' cd\t e\\''fg\"h i\"j",
	"a\\\nbc",
	"'my\ntoken'",
	"'my\\\ntoken'",
	"cmd flag#comment",
	" # my\\\nco\\mment",
	"--x=\"unterminated",
	`trailing\`,
	"a\\\rb\r\nc\rd",
	"héllo:wörld --flág=välue",
	`cmd\:x`,
	`cmd':'x:y --z=`,
	`cmd --"a=b"=c`,
	`cmd --a\=b=c "--p=q"`,
	"build:\\\nci --x=\\\r\n'y z'",
	sampleRC,
}

func TestParseIsDeterministic(t *testing.T) {
	for _, input := range corpus {
		first := Parse(input)
		second := Parse(input)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Parse(%q) is not deterministic", input)
		}
	}
}

func checkSpan(t *testing.T, input, what string, s Span) {
	t.Helper()
	if s.Start < 0 || s.Start > s.End || s.End > len(input) {
		t.Errorf("Parse(%q): %s span %v outside 0..%d", input, what, s, len(input))
	}
}

func TestParseSpansAreValid(t *testing.T) {
	for _, input := range corpus {
		out := Parse(input)
		for _, tok := range out.Tokens {
			checkSpan(t, input, tok.Value.Kind.String(), tok.Span)
		}
		for _, err := range out.Errors {
			checkSpan(t, input, "error", err.Span)
		}
		for i, line := range out.Lines {
			checkSpan(t, input, "line", line.Span)
			for _, el := range line.Elements() {
				checkSpan(t, input, el.Role.String(), el.Span)
			}
			if i > 0 && line.Span.Start < out.Lines[i-1].Span.End {
				t.Errorf("Parse(%q): line %d starts before line %d ends", input, i, i-1)
			}
		}
	}
}

func TestParseLineCount(t *testing.T) {
	for _, input := range corpus {
		out := Parse(input)
		breaks := 0
		for _, tok := range out.Tokens {
			if tok.Value.Kind == TokenLineBreak {
				breaks++
			}
		}
		if len(out.Lines) != breaks+1 {
			t.Errorf("Parse(%q): %d lines for %d line breaks", input, len(out.Lines), breaks)
		}
	}
}

// Re-tokenizing the raw text of a word, or of any element split from it,
// must give the decoded value back.
func TestParseRawSliceRoundTrip(t *testing.T) {
	for _, input := range corpus {
		out := Parse(input)
		if out.HasErrors() {
			continue
		}
		for _, tok := range out.Tokens {
			if tok.Value.Kind != TokenText {
				continue
			}
			checkRoundTrip(t, tok.Span.Slice(input), tok.Value.Text)
		}
		for _, line := range out.Lines {
			for _, el := range line.Elements() {
				raw := el.Span.Slice(input)
				switch el.Role {
				case RoleComment:
					again, errs := Tokenize(raw)
					if len(errs) != 0 || len(again) != 1 || again[0].Value.Kind != TokenComment || again[0].Value.Text != el.Value {
						t.Errorf("Tokenize(%q) = %v, want comment %q", raw, again, el.Value)
					}
					continue
				case RoleConfig:
					if len(raw) == 0 || raw[0] != ':' {
						t.Errorf("config raw %q does not start with ':'", raw)
						continue
					}
					raw = raw[1:]
				}
				checkRoundTrip(t, raw, el.Value)
			}
		}
	}
}

func checkRoundTrip(t *testing.T, raw, want string) {
	t.Helper()
	again, errs := Tokenize(raw)
	if len(errs) != 0 {
		t.Errorf("Tokenize(%q) errors: %v", raw, errs)
		return
	}
	words := textValues(again)
	if want == "" && raw == "" && len(words) == 0 {
		return
	}
	if len(words) != 1 || words[0] != want {
		t.Errorf("Tokenize(%q) = %q, want [%q]", raw, words, want)
	}
}

func TestParseSample(t *testing.T) {
	out := Parse(sampleRC)
	if out.HasErrors() {
		t.Fatalf("unexpected errors: %v", out.Errors)
	}
	if got, want := out.Commands(), []string{"common", "build", "test", "try-import", "startup"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Commands() = %q, want %q", got, want)
	}

	build := out.Lines[2]
	if got := build.Flags[1].Value.Value; got != "mode=release" {
		t.Errorf("continued value = %q, want %q", got, "mode=release")
	}
	if raw := build.Flags[1].Value.Span.Slice(sampleRC); raw != "mode=\\\nrelease" {
		t.Errorf("continued raw = %q", raw)
	}

	ci := out.Lines[3]
	if ci.Config == nil || ci.Config.Value != "ci" {
		t.Fatalf("Config = %+v, want ci", ci.Config)
	}
	header := ci.Flags[1]
	if header.Name.Value != "--remote_header" || header.Value == nil || header.Value.Value != "x-token=abc def" {
		t.Fatalf("header flag = %+v", header)
	}
	if raw := header.Value.Span.Slice(sampleRC); raw != "'x-token=abc def'" {
		t.Errorf("header value raw = %q", raw)
	}
	tls := ci.Flags[2]
	if tls.Name.Value != "--tls=on" || tls.Value != nil {
		t.Errorf("quoted flag = %+v, want whole name --tls=on", tls)
	}

	test := out.Lines[4]
	if test.Comment == nil || test.Comment.Value != " trailing comment" {
		t.Errorf("Comment = %+v", test.Comment)
	}
	if len(out.Lines) != 9 {
		t.Errorf("got %d lines, want 9", len(out.Lines))
	}
}

func TestParseOutcomeLookups(t *testing.T) {
	source := "build:ci --x=1 # note\ntest //a"
	out := Parse(source)

	tests := []struct {
		offset int
		role   Role
		value  string
		line   int
	}{
		{0, RoleCommand, "build", 0},
		{5, RoleConfig, "ci", 0},
		{7, RoleConfig, "ci", 0},
		{9, RoleFlagName, "--x", 0},
		{13, RoleFlagValue, "1", 0},
		{17, RoleComment, " note", 0},
		{22, RoleCommand, "test", 1},
		{28, RolePositional, "//a", 1},
	}

	for _, tt := range tests {
		el, ok := out.ElementAt(tt.offset)
		if !ok {
			t.Errorf("ElementAt(%d) found nothing", tt.offset)
			continue
		}
		if el.Role != tt.role || el.Value != tt.value {
			t.Errorf("ElementAt(%d) = %v %q, want %v %q", tt.offset, el.Role, el.Value, tt.role, tt.value)
		}
		if line, ok := out.LineAt(tt.offset); !ok || line != tt.line {
			t.Errorf("LineAt(%d) = %d, %v, want %d", tt.offset, line, ok, tt.line)
		}
	}

	if tok, ok := out.TokenAt(10); !ok || tok.Value.Text != "--x=1" {
		t.Errorf("TokenAt(10) = %v, %v", tok, ok)
	}
	if tok, ok := out.TokenAt(8); !ok || tok.Value.Text != "build:ci" {
		t.Errorf("TokenAt(8) = %v, %v, want the word ending there", tok, ok)
	}
	if _, ok := out.TokenAt(35); ok {
		t.Errorf("TokenAt(35) found a token past the end")
	}
	if _, ok := out.LineAt(-1); ok {
		t.Errorf("LineAt(-1) found a line")
	}
}

func TestLexErrorMessage(t *testing.T) {
	out := Parse(`"abc`)
	if len(out.Errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(out.Errors))
	}
	var err error = out.Errors[0]
	if got, want := err.Error(), `0..4: missing closing " quote`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
