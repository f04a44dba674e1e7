package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/bazelrc/format"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--color", "never", "--config", writeConfig(t)}, args...))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bazelrc.toml")
	if err := os.WriteFile(path, []byte("max_file_size = 1024\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeRC(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseCommand(t *testing.T) {
	path := writeRC(t, t.TempDir(), ".bazelrc", "build:ci --x=1\n")

	out, err := run(t, "", "parse", path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var doc format.Document
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if doc.File != path || doc.Lines[0].Config.Value != "ci" {
		t.Errorf("document = %+v", doc)
	}
}

func TestParseCommandStdin(t *testing.T) {
	out, err := run(t, "test --y\n", "parse", "--format", "yaml", "--tokens", "-")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, want := range []string{"value: test", "kind: LineBreak"} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestParseCommandErrors(t *testing.T) {
	if _, err := run(t, "", "parse", "--format", "xml", "-"); err == nil {
		t.Error("parse accepted an unknown format")
	}
	if _, err := run(t, strings.Repeat("x", 2048), "parse", "-"); err == nil {
		t.Error("parse accepted input above max_file_size")
	}
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	writeRC(t, dir, ".bazelrc", "build --x\n")

	out, err := run(t, "", "check", dir)
	if err != nil {
		t.Fatalf("check on clean files: %v\n%s", err, out)
	}
	if out != "" {
		t.Errorf("clean check printed %q", out)
	}

	bad := writeRC(t, dir, "ci.bazelrc", "build:ci --x='y\n")
	out, err = run(t, "", "check", "--jobs", "2", dir)
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("check error = %v, want errDiagnostics", err)
	}
	if !strings.HasPrefix(out, bad+":1:14: error[bare-line-break-in-quote]") {
		t.Errorf("check output = %q", out)
	}
}

func TestCheckCommandMissingFile(t *testing.T) {
	if _, err := run(t, "", "check", filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("check accepted a missing path")
	}
}

func TestCheckFilesReportsInOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.bazelrc", "b.bazelrc", "c.bazelrc"} {
		paths = append(paths, writeRC(t, dir, name, "x 'unterminated"))
	}

	var out bytes.Buffer
	renderer := format.NewTextRenderer(&out, false)
	failed, err := checkFiles(t.Context(), paths, 1024, 3, renderer, &out)
	if err != nil || !failed {
		t.Fatalf("checkFiles = %v, %v", failed, err)
	}
	lines := strings.Split(out.String(), "\n")
	for i, path := range paths {
		if !strings.HasPrefix(lines[3*i], path+":1:3:") {
			t.Errorf("block %d starts with %q, want %s", i, lines[3*i], path)
		}
	}
}

func TestLSPCommandRejectsTransport(t *testing.T) {
	if _, err := run(t, "", "lsp", "--transport", "pigeon"); err == nil {
		t.Error("lsp accepted an unknown transport")
	}
}
