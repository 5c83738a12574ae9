package config

import (
	"time"
)

const (
	CurrentVersion = 1
	DefaultPath    = "graphqlpal.toml"
	DefaultOutput  = "queries.graphql"
	DefaultProject = "default"
	MaxJobs        = 64
)

type Config struct {
	Version       int           `toml:"version"`
	Extract       Extract       `toml:"extract"`
	Stats         Stats         `toml:"stats"`
	History       History       `toml:"history"`
	Watch         Watch         `toml:"watch"`
	Observability Observability `toml:"observability"`
}

type Extract struct {
	Output string `toml:"output"`
	// Glob patterns matched against directory and file base names.
	Exclude    []string `toml:"exclude"`
	Extensions []string `toml:"extensions"`
	Jobs       int      `toml:"jobs"`
	// Memoize imported modules across templates and files.
	CacheModules *bool `toml:"cache_modules"`
}

type Stats struct {
	IncludeFragments bool `toml:"include_fragments"`
}

type History struct {
	Path    string `toml:"path"`
	Project string `toml:"project"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

type Observability struct {
	MetricsFile  string `toml:"metrics_file"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

// DefaultExcludes are skipped by every scan on top of user patterns.
var DefaultExcludes = []string{"node_modules", ".next", ".layers"}

var DefaultExtensions = []string{".js", ".ts", ".tsx", ".graphql"}

func (e Extract) CacheEnabled() bool {
	if e.CacheModules == nil {
		return true
	}
	return *e.CacheModules
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	normalize(cfg)
	return cfg
}
