package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}

	applyDefaults(&cfg)
	ApplyEnvOverrides(&cfg)
	normalize(&cfg)

	if err := validateVersion(&cfg); err != nil {
		return nil, err
	}
	if err := validateExtract(&cfg); err != nil {
		return nil, err
	}
	if err := validateHistory(&cfg); err != nil {
		return nil, err
	}
	if err := validateWatch(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault loads path. A missing file yields defaults only when the
// path was not given explicitly.
func LoadOrDefault(path string, explicit bool) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
		ApplyEnvOverrides(cfg)
		normalize(cfg)
		return cfg, nil
	}
	return nil, err
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = CurrentVersion
	}

	if strings.TrimSpace(cfg.Extract.Output) == "" {
		cfg.Extract.Output = DefaultOutput
	}
	if len(cfg.Extract.Extensions) == 0 {
		cfg.Extract.Extensions = append([]string(nil), DefaultExtensions...)
	}
	if cfg.Extract.Jobs == 0 {
		cfg.Extract.Jobs = 1
	}

	if strings.TrimSpace(cfg.History.Project) == "" {
		cfg.History.Project = DefaultProject
	}

	// Default debounce if not set.
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
}

// normalize merges the built-in excludes into the user list and lowercases
// extensions, adding the leading dot where missing.
func normalize(cfg *Config) {
	cfg.Extract.Exclude = MergeExcludes(DefaultExcludes, cfg.Extract.Exclude)

	exts := make([]string, 0, len(cfg.Extract.Extensions))
	seen := make(map[string]bool, len(cfg.Extract.Extensions))
	for _, ext := range cfg.Extract.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if seen[ext] {
			continue
		}
		seen[ext] = true
		exts = append(exts, ext)
	}
	cfg.Extract.Extensions = exts
	cfg.History.Path = strings.TrimSpace(cfg.History.Path)
	cfg.History.Project = strings.TrimSpace(cfg.History.Project)
}

// MergeExcludes appends extra patterns to base, dropping blanks and repeats.
func MergeExcludes(base, extra []string) []string {
	out := make([]string, 0, len(base)+len(extra))
	seen := make(map[string]bool, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, pattern := range list {
			pattern = strings.TrimSpace(pattern)
			if pattern == "" || seen[pattern] {
				continue
			}
			seen[pattern] = true
			out = append(out, pattern)
		}
	}
	return out
}
