package workspace

import (
	"sort"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/bazelrc/project"
	"github.com/dhamidi/bazelrc/rcfile"
)

var log = commonlog.GetLogger("bazelrc.workspace")

// Workspace keeps the latest parse of every rc file it has seen.
type Workspace struct {
	mu      sync.RWMutex
	rootDir string
	config  *project.Config
	files   map[string]*Document
}

// Document is one parsed rc file.
type Document struct {
	Path    string
	Content string
	Outcome rcfile.ParseOutcome
	Index   *rcfile.LineIndex
}

func NewDocument(path, content string) *Document {
	return &Document{
		Path:    path,
		Content: content,
		Outcome: rcfile.Parse(content),
		Index:   rcfile.NewLineIndex(content),
	}
}

func New(rootDir string, cfg *project.Config) *Workspace {
	if cfg == nil {
		cfg = project.DefaultConfig()
	}
	return &Workspace{
		rootDir: rootDir,
		config:  cfg,
		files:   make(map[string]*Document),
	}
}

func (w *Workspace) RootDir() string {
	return w.rootDir
}

func (w *Workspace) Config() *project.Config {
	return w.config
}

// ScanAll parses every rc file found under the root directory. Files that
// cannot be read are logged and skipped.
func (w *Workspace) ScanAll() error {
	p, err := project.Load(w.rootDir, w.config)
	if err != nil {
		return err
	}
	for _, path := range p.Files {
		if err := w.ScanFile(path); err != nil {
			log.Warningf("skip %s: %s", path, err)
		}
	}
	return nil
}

// ScanFile reads path from disk and replaces its document.
func (w *Workspace) ScanFile(path string) error {
	content, err := project.ReadSource(path, w.config.MaxFileSize)
	if err != nil {
		return err
	}
	w.UpdateFile(path, content)
	return nil
}

func (w *Workspace) UpdateFile(path, content string) *Document {
	doc := NewDocument(path, content)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[path] = doc
	log.Debugf("parsed %s: %d lines, %d errors", path, len(doc.Outcome.Lines), len(doc.Outcome.Errors))
	return doc
}

func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, path)
}

func (w *Workspace) GetFile(path string) *Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[path]
}

// Paths returns the paths of all known documents in sorted order.
func (w *Workspace) Paths() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	paths := make([]string, 0, len(w.files))
	for path := range w.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
