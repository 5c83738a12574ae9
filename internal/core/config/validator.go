package config

import (
	"fmt"
	"strings"
	"time"

	"graphqlpal/internal/engine/parser"

	"github.com/gobwas/glob"
)

const minDebounce = 10 * time.Millisecond

func validateVersion(cfg *Config) error {
	if cfg.Version < 1 {
		return fmt.Errorf("version must be >= 1, got %d", cfg.Version)
	}
	if cfg.Version > CurrentVersion {
		return fmt.Errorf("unsupported config version %d; supported version is %d", cfg.Version, CurrentVersion)
	}
	return nil
}

func validateExtract(cfg *Config) error {
	if cfg.Extract.Jobs < 1 || cfg.Extract.Jobs > MaxJobs {
		return fmt.Errorf("extract.jobs must be between 1 and %d, got %d", MaxJobs, cfg.Extract.Jobs)
	}
	if len(cfg.Extract.Extensions) == 0 {
		return fmt.Errorf("extract.extensions must not be empty")
	}
	for _, ext := range cfg.Extract.Extensions {
		if ext == ".graphql" || parser.IsSourcePath("file"+ext) {
			continue
		}
		return fmt.Errorf("extract.extensions contains unsupported extension %q (supported: %s, .graphql)",
			ext, strings.Join(parser.SourceExtensions(), ", "))
	}
	for i, pattern := range cfg.Extract.Exclude {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("extract.exclude[%d] %q is not a valid glob: %w", i, pattern, err)
		}
	}
	return nil
}

func validateHistory(cfg *Config) error {
	if cfg.History.Path != "" && cfg.History.Project == "" {
		return fmt.Errorf("history.project must not be empty when history.path is set")
	}
	if strings.ContainsAny(cfg.History.Project, "\n\r\t") {
		return fmt.Errorf("history.project must be a single line")
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < minDebounce {
		return fmt.Errorf("watch.debounce must be >= %s, got %s", minDebounce, cfg.Watch.Debounce)
	}
	return nil
}

// Validate re-checks a configuration after command-line overrides and
// returns every violation found.
func Validate(cfg *Config) []error {
	var errs []error
	for _, check := range []func(*Config) error{
		validateVersion,
		validateExtract,
		validateHistory,
		validateWatch,
	} {
		if err := check(cfg); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
