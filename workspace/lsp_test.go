package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

type notifications struct {
	published []protocol.PublishDiagnosticsParams
}

func (n *notifications) context() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			if method == protocol.ServerTextDocumentPublishDiagnostics {
				n.published = append(n.published, params.(protocol.PublishDiagnosticsParams))
			}
		},
	}
}

func (n *notifications) last(t *testing.T) protocol.PublishDiagnosticsParams {
	t.Helper()
	if len(n.published) == 0 {
		t.Fatal("no diagnostics published")
	}
	return n.published[len(n.published)-1]
}

func startServer(t *testing.T, dir string) (*LSPServer, *notifications) {
	t.Helper()
	ls := NewLSPServer("test", nil)
	n := &notifications{}
	ctx := n.context()

	result, err := ls.initialize(ctx, &protocol.InitializeParams{RootPath: &dir})
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	caps := result.(protocol.InitializeResult).Capabilities
	if caps.HoverProvider == nil || caps.DocumentSymbolProvider == nil || caps.FoldingRangeProvider == nil {
		t.Errorf("missing capabilities: %+v", caps)
	}
	if err := ls.initialized(ctx, &protocol.InitializedParams{}); err != nil {
		t.Fatalf("initialized: %v", err)
	}
	return ls, n
}

func TestLSPInitializedPublishesProjectFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".bazelrc"), "build --x='oops\n")

	_, n := startServer(t, dir)
	got := n.last(t)
	if got.URI != pathToURI(filepath.Join(dir, ".bazelrc")) {
		t.Errorf("URI = %q", got.URI)
	}
	if len(got.Diagnostics) != 1 {
		t.Errorf("got %d diagnostics, want 1", len(got.Diagnostics))
	}
}

func TestLSPDocumentLifecycle(t *testing.T) {
	dir := t.TempDir()
	ls, n := startServer(t, dir)
	ctx := n.context()

	path := filepath.Join(dir, "user.bazelrc")
	uri := pathToURI(path)

	err := ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "bazelrc", Text: "build \"--x\n"},
	})
	if err != nil {
		t.Fatalf("didOpen: %v", err)
	}
	if got := n.last(t); got.URI != uri || len(got.Diagnostics) != 1 {
		t.Errorf("after open: %+v", got)
	}

	err = ls.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "build --x\n"}},
	})
	if err != nil {
		t.Fatalf("didChange: %v", err)
	}
	if got := n.last(t); len(got.Diagnostics) != 0 {
		t.Errorf("after change: %+v", got.Diagnostics)
	}

	hover, err := ls.textDocumentHover(ctx, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     pos(0, 7),
		},
	})
	if err != nil || hover == nil {
		t.Fatalf("hover = %v, %v", hover, err)
	}

	symbols, err := ls.textDocumentDocumentSymbol(ctx, &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	if err != nil {
		t.Fatalf("documentSymbol: %v", err)
	}
	if got := symbols.([]protocol.DocumentSymbol); len(got) != 1 || got[0].Name != "build" {
		t.Errorf("symbols = %+v", got)
	}

	writeFile(t, path, "build --x='broken\n")
	text := "build --y\n"
	err = ls.textDocumentDidSave(ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Text:         &text,
	})
	if err != nil {
		t.Fatalf("didSave: %v", err)
	}
	if got := n.last(t); len(got.Diagnostics) != 0 {
		t.Errorf("save with text should use the given text: %+v", got.Diagnostics)
	}
	err = ls.textDocumentDidSave(ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	if err != nil {
		t.Fatalf("didSave: %v", err)
	}
	if got := n.last(t); len(got.Diagnostics) != 1 {
		t.Errorf("save without text should reread the file: %+v", got.Diagnostics)
	}

	if err := ls.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}); err != nil {
		t.Fatalf("didClose: %v", err)
	}
	if got := n.last(t); got.URI != uri || got.Diagnostics == nil || len(got.Diagnostics) != 0 {
		t.Errorf("after close: %+v", got)
	}
	if doc := ls.workspace.GetFile(path); doc == nil || doc.Content != "build --x='broken\n" {
		t.Errorf("after close the document should hold the file on disk: %+v", doc)
	}
}

func TestLSPCloseDiscardsUnsavedText(t *testing.T) {
	dir := t.TempDir()
	ls, n := startServer(t, dir)
	ctx := n.context()

	saved := filepath.Join(dir, "user.bazelrc")
	writeFile(t, saved, "build --x\n")
	scratch := filepath.Join(dir, "scratch.bazelrc")

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "file on disk", path: saved, want: "build --x\n"},
		{name: "buffer only", path: scratch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uri := pathToURI(tt.path)
			err := ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
				TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "bazelrc", Text: "test --y\n"},
			})
			if err != nil {
				t.Fatalf("didOpen: %v", err)
			}
			if doc := ls.workspace.GetFile(tt.path); doc == nil || doc.Content != "test --y\n" {
				t.Fatalf("after open: %+v", doc)
			}

			err = ls.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
				TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			})
			if err != nil {
				t.Fatalf("didClose: %v", err)
			}

			doc := ls.workspace.GetFile(tt.path)
			switch {
			case tt.want == "" && doc != nil:
				t.Errorf("closed buffer without a file is still tracked: %+v", doc)
			case tt.want != "" && (doc == nil || doc.Content != tt.want):
				t.Errorf("document = %+v, want content %q", doc, tt.want)
			}
		})
	}
}

func TestLSPUnknownDocument(t *testing.T) {
	ls, n := startServer(t, t.TempDir())
	ranges, err := ls.textDocumentFoldingRange(n.context(), &protocol.FoldingRangeParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///nowhere/.bazelrc"},
	})
	if err != nil || ranges != nil {
		t.Errorf("foldingRange = %v, %v, want nothing", ranges, err)
	}
}

func TestLSPRootConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bazelrc.toml"), []byte("include = [\"*.rc\"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "team.rc"), "build\n")
	writeFile(t, filepath.Join(dir, ".bazelrc"), "build\n")

	ls, _ := startServer(t, dir)
	paths := ls.workspace.Paths()
	if len(paths) != 1 || filepath.Base(paths[0]) != "team.rc" {
		t.Errorf("Paths() = %q, want only team.rc", paths)
	}
}

func TestLSPUnknownTransport(t *testing.T) {
	if err := NewLSPServer("test", nil).Run("pigeon", ""); err == nil {
		t.Error("Run accepted an unknown transport")
	}
}

func TestURIRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "my rc", ".bazelrc")
	got, err := uriToPath(pathToURI(path))
	if err != nil {
		t.Fatalf("uriToPath: %v", err)
	}
	if got != path {
		t.Errorf("uriToPath(pathToURI(%q)) = %q", path, got)
	}
}
