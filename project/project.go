package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("bazelrc.project")

// ErrFileTooLarge is returned by ReadSource for files above the size limit.
var ErrFileTooLarge = errors.New("file exceeds max_file_size")

// Project is a directory tree containing rc files.
type Project struct {
	RootDir string
	Config  *Config
	Files   []string
}

// Load walks rootDir and collects every file matching the configured include
// patterns. Directories matching an exclude pattern are skipped.
func Load(rootDir string, cfg *Config) (*Project, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	p := &Project{RootDir: rootDir, Config: cfg}

	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == rootDir {
				return err
			}
			log.Warningf("skip %s: %s", path, err)
			return nil
		}
		if d.IsDir() {
			if path != rootDir && p.excluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if p.Match(path) {
			p.Files = append(p.Files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", rootDir, err)
	}

	sort.Strings(p.Files)
	log.Debugf("found %d rc files under %s", len(p.Files), rootDir)
	return p, nil
}

// Match reports whether path names an rc file according to the include and
// exclude patterns. Only the base name is matched.
func (p *Project) Match(path string) bool {
	name := filepath.Base(path)
	if p.excluded(name) {
		return false
	}
	for _, pattern := range p.Config.Include {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func (p *Project) excluded(name string) bool {
	for _, pattern := range p.Config.Exclude {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// ReadFile reads one rc file, enforcing the project's size limit.
func (p *Project) ReadFile(path string) (string, error) {
	return ReadSource(path, p.Config.MaxFileSize)
}

// ReadSource reads path as text. Files larger than limit bytes are rejected
// before they are read.
func ReadSource(path string, limit int64) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("read %s: is a directory", path)
	}
	if limit > 0 && info.Size() > limit {
		return "", fmt.Errorf("read %s (%d bytes): %w", path, info.Size(), ErrFileTooLarge)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
