package workspace

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/bazelrc/project"
)

const lsName = "bazelrc"

// Transports lists the values accepted by Run.
var Transports = []string{"stdio", "tcp", "websocket"}

type LSPServer struct {
	workspace *Workspace
	config    *project.Config
	handler   protocol.Handler
	server    *server.Server
	version   string
}

func NewLSPServer(version string, cfg *project.Config) *LSPServer {
	if cfg == nil {
		cfg = project.DefaultConfig()
	}
	ls := &LSPServer{
		version: version,
		config:  cfg,
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentHover:          ls.textDocumentHover,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
		TextDocumentFoldingRange:   ls.textDocumentFoldingRange,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

// Run serves on the given transport. address is ignored for stdio.
func (ls *LSPServer) Run(transport, address string) error {
	switch transport {
	case "stdio":
		return ls.server.RunStdio()
	case "tcp":
		return ls.server.RunTCP(address)
	case "websocket":
		return ls.server.RunWebSocket(address)
	}
	return fmt.Errorf("unknown transport: %s", transport)
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.workspace = New(rootDir, ls.rootConfig(rootDir))

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

// rootConfig prefers a config file in the client's root over the one the
// server was started with.
func (ls *LSPServer) rootConfig(rootDir string) *project.Config {
	if _, err := os.Stat(filepath.Join(rootDir, project.ConfigFileName)); err != nil {
		return ls.config
	}
	cfg, err := project.LoadConfig(rootDir)
	if err != nil {
		log.Warningf("ignoring %s: %s", project.ConfigFileName, err)
		return ls.config
	}
	return cfg
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := ls.workspace.ScanAll(); err != nil {
		log.Warningf("scan %s: %s", ls.workspace.RootDir(), err)
		return nil
	}
	for _, path := range ls.workspace.Paths() {
		ls.publish(ctx, pathToURI(path), ls.workspace.GetFile(path))
	}
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	doc := ls.workspace.UpdateFile(path, params.TextDocument.Text)
	ls.publish(ctx, params.TextDocument.URI, doc)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			doc := ls.workspace.UpdateFile(path, textChange.Text)
			ls.publish(ctx, params.TextDocument.URI, doc)
		}
	}
	return nil
}

// textDocumentDidClose drops the editor's buffer. The document falls back to
// what is on disk, or leaves the workspace when there is no file behind it.
func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	if path, err := uriToPath(params.TextDocument.URI); err == nil {
		if err := ls.workspace.ScanFile(path); err != nil {
			ls.workspace.RemoveFile(path)
		}
	}
	ls.publish(ctx, params.TextDocument.URI, nil)
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.workspace.UpdateFile(path, *params.Text)
	} else if err := ls.workspace.ScanFile(path); err != nil {
		log.Warningf("rescan %s: %s", path, err)
		return nil
	}
	ls.publish(ctx, params.TextDocument.URI, ls.workspace.GetFile(path))
	return nil
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := ls.document(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	return doc.Hover(doc.Offset(params.Position)), nil
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := ls.document(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	return doc.Symbols(), nil
}

func (ls *LSPServer) textDocumentFoldingRange(ctx *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	doc := ls.document(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	return doc.FoldingRanges(), nil
}

func (ls *LSPServer) document(uri protocol.DocumentUri) *Document {
	path, err := uriToPath(uri)
	if err != nil {
		return nil
	}
	return ls.workspace.GetFile(path)
}

// publish sends the document's diagnostics. A nil document clears them.
func (ls *LSPServer) publish(ctx *glsp.Context, uri protocol.DocumentUri, doc *Document) {
	diagnostics := []protocol.Diagnostic{}
	if doc != nil {
		diagnostics = doc.Diagnostics()
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) protocol.DocumentUri {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
