// # internal/core/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graphqlpal.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	content := `
version = 1

[extract]
output = "out/queries.graphql"
exclude = ["dist", "*.generated.ts"]
extensions = ["js", ".TSX", ".graphql"]
jobs = 4
cache_modules = false

[stats]
include_fragments = true

[history]
path = "usage.db"
project = "web"

[watch]
debounce = "1s"

[observability]
metrics_file = "graphqlpal.prom"
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Extract.Output != "out/queries.graphql" {
		t.Errorf("Expected output out/queries.graphql, got %s", cfg.Extract.Output)
	}
	wantExclude := []string{"node_modules", ".next", ".layers", "dist", "*.generated.ts"}
	if !reflect.DeepEqual(cfg.Extract.Exclude, wantExclude) {
		t.Errorf("exclude = %v, want %v", cfg.Extract.Exclude, wantExclude)
	}
	wantExt := []string{".js", ".tsx", ".graphql"}
	if !reflect.DeepEqual(cfg.Extract.Extensions, wantExt) {
		t.Errorf("extensions = %v, want %v", cfg.Extract.Extensions, wantExt)
	}
	if cfg.Extract.Jobs != 4 {
		t.Errorf("Expected 4 jobs, got %d", cfg.Extract.Jobs)
	}
	if cfg.Extract.CacheEnabled() {
		t.Error("Expected module cache to be disabled")
	}
	if !cfg.Stats.IncludeFragments {
		t.Error("Expected include_fragments to be true")
	}
	if cfg.History.Path != "usage.db" || cfg.History.Project != "web" {
		t.Errorf("unexpected history %+v", cfg.History)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if cfg.Observability.MetricsFile != "graphqlpal.prom" {
		t.Errorf("unexpected metrics file %q", cfg.Observability.MetricsFile)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Version != CurrentVersion {
		t.Errorf("version = %d", cfg.Version)
	}
	if cfg.Extract.Output != DefaultOutput || cfg.Extract.Jobs != 1 || !cfg.Extract.CacheEnabled() {
		t.Errorf("unexpected extract defaults %+v", cfg.Extract)
	}
	if !reflect.DeepEqual(cfg.Extract.Exclude, DefaultExcludes) {
		t.Errorf("exclude = %v", cfg.Extract.Exclude)
	}
	if !reflect.DeepEqual(cfg.Extract.Extensions, DefaultExtensions) {
		t.Errorf("extensions = %v", cfg.Extract.Extensions)
	}
	if cfg.History.Project != DefaultProject || cfg.History.Path != "" {
		t.Errorf("unexpected history defaults %+v", cfg.History)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("Expected default debounce 500ms, got %v", cfg.Watch.Debounce)
	}
}

func TestLoadError(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"syntax", "[extract\n", "decode"},
		{"unknown key", "[extract]\nfoo = 1\n", "unknown config key"},
		{"version", "version = 2\n", "unsupported config version"},
		{"jobs", "[extract]\njobs = 65\n", "extract.jobs"},
		{"negative jobs", "[extract]\njobs = -1\n", "extract.jobs"},
		{"extension", "[extract]\nextensions = [\".py\"]\n", "unsupported extension"},
		{"glob", "[extract]\nexclude = [\"[abc\"]\n", "not a valid glob"},
		{"debounce", "[watch]\ndebounce = \"1ms\"\n", "watch.debounce"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "graphqlpal.toml")

	cfg, err := LoadOrDefault(missing, false)
	if err != nil {
		t.Fatalf("implicit missing file must yield defaults: %v", err)
	}
	if cfg.Extract.Output != DefaultOutput {
		t.Errorf("output = %q", cfg.Extract.Output)
	}

	if _, err := LoadOrDefault(missing, true); err == nil {
		t.Error("explicit missing file must fail")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("GRAPHQLPAL_EXTRACT_JOBS", "8")
	t.Setenv("GRAPHQLPAL_EXTRACT_EXCLUDE", "build, coverage")
	t.Setenv("GRAPHQLPAL_HISTORY_PATH", "env.db")
	t.Setenv("GRAPHQLPAL_WATCH_DEBOUNCE", "250ms")

	cfg, err := Load(writeConfig(t, "[extract]\njobs = 2\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Extract.Jobs != 8 {
		t.Errorf("jobs = %d, want 8", cfg.Extract.Jobs)
	}
	if cfg.History.Path != "env.db" {
		t.Errorf("history path = %q", cfg.History.Path)
	}
	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("debounce = %v", cfg.Watch.Debounce)
	}
	want := []string{"node_modules", ".next", ".layers", "build", "coverage"}
	if !reflect.DeepEqual(cfg.Extract.Exclude, want) {
		t.Errorf("exclude = %v, want %v", cfg.Extract.Exclude, want)
	}
}

func TestMergeExcludes(t *testing.T) {
	got := MergeExcludes([]string{"a", "b"}, []string{" b", "", "c", "a"})
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("MergeExcludes = %v", got)
	}
}
