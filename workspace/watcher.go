package workspace

import (
	"os"
	"sort"
	"sync"
	"time"

	"github.com/dhamidi/bazelrc/project"
)

// ChangeFunc is called after a file was re-parsed. doc is nil when the file
// disappeared.
type ChangeFunc func(path string, doc *Document)

// FileWatcher polls the project's rc files and re-parses the ones whose
// modification time moved forward.
type FileWatcher struct {
	workspace    *Workspace
	onChange     ChangeFunc
	stopCh       chan struct{}
	doneCh       chan struct{}
	pollInterval time.Duration
	modTimes     map[string]time.Time
	started      bool
	stopOnce     sync.Once
}

func NewFileWatcher(w *Workspace, onChange ChangeFunc) *FileWatcher {
	return &FileWatcher{
		workspace:    w,
		onChange:     onChange,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
		pollInterval: 1 * time.Second,
		modTimes:     make(map[string]time.Time),
	}
}

// SetInterval changes the polling interval. It must be called before Start.
func (fw *FileWatcher) SetInterval(d time.Duration) {
	fw.pollInterval = d
}

func (fw *FileWatcher) Start() {
	fw.started = true
	go fw.run()
}

// Stop ends polling and waits for the current scan to finish. It returns at
// once for a watcher that was never started and may be called more than once.
func (fw *FileWatcher) Stop() {
	fw.stopOnce.Do(func() { close(fw.stopCh) })
	if fw.started {
		<-fw.doneCh
	}
}

func (fw *FileWatcher) run() {
	defer close(fw.doneCh)

	ticker := time.NewTicker(fw.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-fw.stopCh:
			return
		case <-ticker.C:
			fw.Scan()
		}
	}
}

// Scan runs one polling pass and returns the paths that changed, including
// removed ones. The first pass reports every file.
func (fw *FileWatcher) Scan() []string {
	p, err := project.Load(fw.workspace.RootDir(), fw.workspace.Config())
	if err != nil {
		log.Warningf("watch %s: %s", fw.workspace.RootDir(), err)
		return nil
	}

	var changed []string
	current := make(map[string]bool, len(p.Files))
	for _, path := range p.Files {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		current[path] = true

		lastMod, known := fw.modTimes[path]
		if known && !info.ModTime().After(lastMod) {
			continue
		}
		fw.modTimes[path] = info.ModTime()
		if err := fw.workspace.ScanFile(path); err != nil {
			log.Warningf("rescan %s: %s", path, err)
			continue
		}
		changed = append(changed, path)
		fw.notify(path, fw.workspace.GetFile(path))
	}

	var removed []string
	for path := range fw.modTimes {
		if !current[path] {
			removed = append(removed, path)
		}
	}
	sort.Strings(removed)
	for _, path := range removed {
		delete(fw.modTimes, path)
		fw.workspace.RemoveFile(path)
		fw.notify(path, nil)
	}
	return append(changed, removed...)
}

func (fw *FileWatcher) notify(path string, doc *Document) {
	if fw.onChange != nil {
		fw.onChange(path, doc)
	}
}
