package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: GRAPHQLPAL_[SECTION]_[KEY] (e.g., GRAPHQLPAL_EXTRACT_JOBS).
func ApplyEnvOverrides(cfg *Config) {
	// Extract
	setEnvString(&cfg.Extract.Output, "GRAPHQLPAL_EXTRACT_OUTPUT")
	setEnvInt(&cfg.Extract.Jobs, "GRAPHQLPAL_EXTRACT_JOBS")
	setEnvList(&cfg.Extract.Exclude, "GRAPHQLPAL_EXTRACT_EXCLUDE")

	// Stats
	setEnvBool(&cfg.Stats.IncludeFragments, "GRAPHQLPAL_STATS_INCLUDE_FRAGMENTS")

	// History
	setEnvString(&cfg.History.Path, "GRAPHQLPAL_HISTORY_PATH")
	setEnvString(&cfg.History.Project, "GRAPHQLPAL_HISTORY_PROJECT")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "GRAPHQLPAL_WATCH_DEBOUNCE")

	// Observability
	setEnvString(&cfg.Observability.MetricsFile, "GRAPHQLPAL_OBSERVABILITY_METRICS_FILE")
	setEnvString(&cfg.Observability.OTLPEndpoint, "GRAPHQLPAL_OBSERVABILITY_OTLP_ENDPOINT")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}

// setEnvList appends comma-separated values.
func setEnvList(target *[]string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		for _, item := range strings.Split(val, ",") {
			if item = strings.TrimSpace(item); item != "" {
				*target = append(*target, item)
			}
		}
	}
}
