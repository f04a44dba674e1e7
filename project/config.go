package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is looked up in the project root by LoadConfig.
const ConfigFileName = "bazelrc.toml"

const defaultMaxFileSize = 4 << 20

// Config holds the tool settings read from bazelrc.toml. Zero values in the
// file fall back to the defaults from DefaultConfig.
type Config struct {
	MaxFileSize int64     `toml:"max_file_size"`
	Include     []string  `toml:"include"`
	Exclude     []string  `toml:"exclude"`
	Color       string    `toml:"color"`
	Log         LogConfig `toml:"log"`
	LSP         LSPConfig `toml:"lsp"`
}

type LogConfig struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

type LSPConfig struct {
	Transport string `toml:"transport"`
	Address   string `toml:"address"`
}

func DefaultConfig() *Config {
	return &Config{
		MaxFileSize: defaultMaxFileSize,
		Include:     []string{".bazelrc", "*.bazelrc", "bazelrc", "user.bazelrc"},
		Exclude:     []string{"bazel-*", ".git"},
		Color:       "auto",
		LSP: LSPConfig{
			Transport: "stdio",
			Address:   "127.0.0.1:4389",
		},
	}
}

// LoadConfig reads bazelrc.toml from rootDir. A missing file is not an error;
// the defaults are returned instead.
func LoadConfig(rootDir string) (*Config, error) {
	path := filepath.Join(rootDir, ConfigFileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return LoadConfigFile(path)
}

// LoadConfigFile reads the given TOML file on top of the defaults.
func LoadConfigFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("decode %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max_file_size must be positive, got %d", c.MaxFileSize)
	}
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("color must be auto, always or never, got %q", c.Color)
	}
	switch c.LSP.Transport {
	case "stdio", "tcp", "websocket":
	default:
		return fmt.Errorf("lsp.transport must be stdio, tcp or websocket, got %q", c.LSP.Transport)
	}
	for _, pattern := range append(append([]string{}, c.Include...), c.Exclude...) {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
	}
	return nil
}
