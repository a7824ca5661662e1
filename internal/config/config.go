// Package config loads lint8 settings from .lint8.toml or .lint8.yaml.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileNames are the config files looked up in each directory, in order.
var FileNames = []string{".lint8.toml", ".lint8.yaml", ".lint8.yml"}

// IgnoreFile holds extra exclude patterns for directory walks, one per line.
const IgnoreFile = ".lint8ignore"

// Environment variables overriding engine binaries.
const (
	EnvPycodestyle = "LINT8_PYCODESTYLE"
	EnvPyflakes    = "LINT8_PYFLAKES"
)

// EngineConfig configures one external engine.
type EngineConfig struct {
	Enabled       *bool    `toml:"enabled" yaml:"enabled"`
	Binary        string   `toml:"binary" yaml:"binary"`
	Args          []string `toml:"args" yaml:"args"`
	MaxLineLength int      `toml:"max_line_length" yaml:"max_line_length"`
}

// IsEnabled reports whether the engine should run; unset means yes.
func (e EngineConfig) IsEnabled() bool {
	return e.Enabled == nil || *e.Enabled
}

// Config is the file layer of the settings.
type Config struct {
	Path string `toml:"-" yaml:"-"` // empty when no file was found

	Ignore    []string     `toml:"ignore" yaml:"ignore"`
	Web       bool         `toml:"web" yaml:"web"`
	Exclude   []string     `toml:"exclude" yaml:"exclude"`
	Jobs      int          `toml:"jobs" yaml:"jobs"`
	Style     EngineConfig `toml:"style" yaml:"style"`
	Reference EngineConfig `toml:"reference" yaml:"reference"`
}

// Find walks upward from startDir looking for a config file.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Excludes returns the patterns of dir's IgnoreFile followed by the config's
// exclude list. Blank lines and "#" comments are dropped; a missing
// IgnoreFile adds nothing.
func (c *Config) Excludes(dir string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(dir, IgnoreFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", IgnoreFile, err)
	}
	patterns := make([]string, 0, len(c.Exclude))
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return append(patterns, c.Exclude...), nil
}

// Load reads the config at path, or the one Find locates from startDir
// when path is empty. No config file yields an empty Config.
func Load(path, startDir string) (*Config, error) {
	if path == "" {
		found, ok, err := Find(startDir)
		if err != nil {
			return nil, err
		}
		if !ok {
			return &Config{}, nil
		}
		path = found
	}

	cfg, err := decode(path)
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func decode(path string) (*Config, error) {
	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		meta, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, key := range undecoded {
				keys = append(keys, key.String())
			}
			return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config: %w", err)
		}
		defer f.Close()
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%s: unsupported config format (expected .toml, .yaml or .yml)", path)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	if c.Style.MaxLineLength < 0 {
		return fmt.Errorf("style.max_line_length must not be negative, got %d", c.Style.MaxLineLength)
	}
	if c.Reference.MaxLineLength != 0 {
		return errors.New("reference.max_line_length is not supported")
	}
	return nil
}

// ApplyEnv overrides engine binaries from the environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvPycodestyle); ok && strings.TrimSpace(v) != "" {
		c.Style.Binary = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvPyflakes); ok && strings.TrimSpace(v) != "" {
		c.Reference.Binary = strings.TrimSpace(v)
	}
}
