// internal/platform/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"subharvest/internal/platform/errors"
)

var testCatalog = Catalog{
	Sources:       []string{"crtsh", "binaryedge"},
	CredentialEnv: []string{"BINARYEDGE_TOKEN"},
}

func newFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return fs
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "subharvest.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestGetenv(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		def      string
		envValue string
		expected string
	}{
		{
			name:     "env var exists",
			key:      "SUBHARVEST_TEST_KEY_1",
			def:      "default",
			envValue: "custom",
			expected: "custom",
		},
		{
			name:     "env var missing - uses default",
			key:      "SUBHARVEST_TEST_KEY_MISSING",
			def:      "default",
			expected: "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(tt.key, tt.envValue)
			}

			result := getenv(tt.key, tt.def)

			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"1", true},
		{"t", true},
		{"TRUE", true},
		{"yes", true},
		{"On", true},
		{" true ", true},

		{"0", false},
		{"false", false},
		{"no", false},
		{"off", false},
		{"", false},
		{"garbage", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseBool(tt.input); got != tt.expected {
				t.Errorf("parseBool(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"90", 90 * time.Second, false},
		{"1m30s", 90 * time.Second, false},
		{" 500ms ", 500 * time.Millisecond, false},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseDuration(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDuration(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("parseDuration(%q) = %s, expected %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		check func(*testing.T, Config)
	}{
		{
			name: "concurrency minimum is 1",
			edit: func(c *Config) { c.Core.Concurrency = -5 },
			check: func(t *testing.T, c Config) {
				if c.Core.Concurrency != 1 {
					t.Errorf("Concurrency: expected 1, got %d", c.Core.Concurrency)
				}
			},
		},
		{
			name: "negative timeouts become 0",
			edit: func(c *Config) { c.Core.TimeoutS = -10; c.Core.SourceTimeoutS = -1 },
			check: func(t *testing.T, c Config) {
				if c.Core.TimeoutS != 0 || c.Core.SourceTimeoutS != 0 {
					t.Errorf("timeouts: expected 0/0, got %d/%d", c.Core.TimeoutS, c.Core.SourceTimeoutS)
				}
			},
		},
		{
			name: "max pages falls back to default",
			edit: func(c *Config) { c.Pagination.MaxPages = 0; c.Pagination.PageWorkers = 0 },
			check: func(t *testing.T, c Config) {
				if c.Pagination.MaxPages != 50 {
					t.Errorf("MaxPages: expected 50, got %d", c.Pagination.MaxPages)
				}
				if c.Pagination.PageWorkers != 1 {
					t.Errorf("PageWorkers: expected 1, got %d", c.Pagination.PageWorkers)
				}
			},
		},
		{
			name: "zero cache capacity disables cache",
			edit: func(c *Config) { c.Cache.Capacity = 0 },
			check: func(t *testing.T, c Config) {
				if c.Cache.Enabled {
					t.Error("Cache.Enabled: expected false")
				}
			},
		},
		{
			name: "quiet wins over verbose",
			edit: func(c *Config) { c.Output.Quiet = true; c.Output.Verbose = true },
			check: func(t *testing.T, c Config) {
				if c.Output.Verbose || !c.Output.NoProgress {
					t.Errorf("quiet: expected verbose=false no_progress=true, got %v/%v", c.Output.Verbose, c.Output.NoProgress)
				}
			},
		},
		{
			name: "source names lowercased",
			edit: func(c *Config) { c.Sources = map[string]SourceConfig{" CRTSH ": {Disabled: true, RateLimit: -1}} },
			check: func(t *testing.T, c Config) {
				sc, ok := c.Sources["crtsh"]
				if !ok || !sc.Disabled || sc.RateLimit != 0 {
					t.Errorf("Sources[crtsh]: got %+v (present=%v)", sc, ok)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(&cfg)
			normalize(&cfg)
			tt.check(t, cfg)
		})
	}
}

func TestConfig_Timeout(t *testing.T) {
	tests := []struct {
		name     string
		timeoutS int
		expected string
	}{
		{"30 seconds", 30, "30s"},
		{"zero timeout", 0, "0s"},
		{"negative timeout", -5, "0s"},
		{"large timeout", 3600, "1h0m0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Core: CoreConfig{TimeoutS: tt.timeoutS, SourceTimeoutS: tt.timeoutS}}

			if got := cfg.Timeout().String(); got != tt.expected {
				t.Errorf("Timeout(): expected %s, got %s", tt.expected, got)
			}
			if got := cfg.SourceTimeout().String(); got != tt.expected {
				t.Errorf("SourceTimeout(): expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(newFlagSet(t), testCatalog)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Core.Concurrency != 200 {
		t.Errorf("Concurrency: expected 200, got %d", cfg.Core.Concurrency)
	}
	if cfg.Core.All {
		t.Error("All: expected false (free mode)")
	}
	if cfg.Pagination.MaxPages != 50 {
		t.Errorf("MaxPages: expected 50, got %d", cfg.Pagination.MaxPages)
	}
	if !cfg.Cache.Enabled {
		t.Error("Cache.Enabled: expected true")
	}
	if cfg.ConfigFile != "" {
		t.Errorf("ConfigFile: expected empty, got %q", cfg.ConfigFile)
	}
	if cfg.Resilience.BreakerThreshold != 0 {
		t.Errorf("BreakerThreshold: expected 0 (off), got %d", cfg.Resilience.BreakerThreshold)
	}
}

func TestLoad_CircuitBreakerOptIn(t *testing.T) {
	cfg, err := Load(newFlagSet(t, "--circuit-breaker", "3"), testCatalog)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Resilience.BreakerThreshold != 3 {
		t.Errorf("BreakerThreshold from flag: expected 3, got %d", cfg.Resilience.BreakerThreshold)
	}

	t.Setenv("SUBHARVEST_RESILIENCE_CB_THRESHOLD", "4")
	cfg, err = Load(newFlagSet(t), testCatalog)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Resilience.BreakerThreshold != 4 {
		t.Errorf("BreakerThreshold from env: expected 4, got %d", cfg.Resilience.BreakerThreshold)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SUBHARVEST_ALL", "true")
	t.Setenv("SUBHARVEST_CONCURRENCY", "16")
	t.Setenv("SUBHARVEST_TIMEOUT", "60")
	t.Setenv("SUBHARVEST_RESILIENCE_BACKOFF", "250ms")
	t.Setenv("SUBHARVEST_SOURCES_CRTSH_ENABLED", "false")
	t.Setenv("SUBHARVEST_SOURCES_BINARYEDGE_RATELIMIT", "0.5")
	t.Setenv("SUBHARVEST_PROXY_URL", "http://proxy.example.com:8080")
	t.Setenv("BINARYEDGE_TOKEN", "env-token")

	cfg, err := Load(newFlagSet(t), testCatalog)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if !cfg.Core.All {
		t.Error("All: expected true")
	}
	if cfg.Core.Concurrency != 16 {
		t.Errorf("Concurrency: expected 16, got %d", cfg.Core.Concurrency)
	}
	if cfg.Core.TimeoutS != 60 {
		t.Errorf("TimeoutS: expected 60, got %d", cfg.Core.TimeoutS)
	}
	if cfg.Resilience.BackoffBase != 250*time.Millisecond {
		t.Errorf("BackoffBase: expected 250ms, got %s", cfg.Resilience.BackoffBase)
	}
	if !cfg.Sources["crtsh"].Disabled {
		t.Error("Sources[crtsh].Disabled: expected true")
	}
	if cfg.Sources["binaryedge"].RateLimit != 0.5 {
		t.Errorf("Sources[binaryedge].RateLimit: expected 0.5, got %v", cfg.Sources["binaryedge"].RateLimit)
	}
	if cfg.Network.ProxyURL != "http://proxy.example.com:8080" {
		t.Errorf("ProxyURL: got %q", cfg.Network.ProxyURL)
	}
	if cfg.Credentials["BINARYEDGE_TOKEN"] != "env-token" {
		t.Errorf("credential: got %q", cfg.Credentials["BINARYEDGE_TOKEN"])
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("SUBHARVEST_CONCURRENCY", "many")

	_, err := Load(newFlagSet(t), testCatalog)
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !strings.Contains(err.Error(), "SUBHARVEST_CONCURRENCY") {
		t.Errorf("error should name the variable: %v", err)
	}
}

func TestLoad_Layering(t *testing.T) {
	path := writeFile(t, `
core:
  concurrency: 50
  all: true
sources:
  hackertarget:
    disabled: true
resilience:
  breaker_timeout: 2m
cache:
  ttl: 30s
credentials:
  BINARYEDGE_TOKEN: file-token
`)
	t.Setenv("SUBHARVEST_CONCURRENCY", "25")
	t.Setenv("BINARYEDGE_TOKEN", "env-token")

	fs := newFlagSet(t, "--config", path, "-c", "10", "--exclude", "crtsh,Wayback", "--no-cache")
	cfg, err := Load(fs, testCatalog)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile: expected %q, got %q", path, cfg.ConfigFile)
	}
	if cfg.Core.Concurrency != 10 {
		t.Errorf("flag should win: expected 10, got %d", cfg.Core.Concurrency)
	}
	if !cfg.Core.All {
		t.Error("All from file: expected true")
	}
	if cfg.Resilience.BreakerTimeout != 2*time.Minute {
		t.Errorf("BreakerTimeout from file: got %s", cfg.Resilience.BreakerTimeout)
	}
	if cfg.Cache.Enabled {
		t.Error("--no-cache should disable cache")
	}
	if cfg.Credentials["BINARYEDGE_TOKEN"] != "env-token" {
		t.Errorf("env credential should win over file: got %q", cfg.Credentials["BINARYEDGE_TOKEN"])
	}
	for _, name := range []string{"hackertarget", "crtsh", "wayback"} {
		if !cfg.Sources[name].Disabled {
			t.Errorf("Sources[%s].Disabled: expected true", name)
		}
	}

	unknown := cfg.UnknownSources(testCatalog)
	if len(unknown) != 2 {
		t.Errorf("UnknownSources: expected hackertarget and wayback, got %v", unknown)
	}
}

func TestLoad_BadFile(t *testing.T) {
	path := writeFile(t, "core: [unclosed")

	_, err := Load(newFlagSet(t, "--config", path), testCatalog)
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	_, err = Load(newFlagSet(t, "--config", filepath.Join(t.TempDir(), "missing.yaml")), testCatalog)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestConfig_ToJSONRedactsCredentials(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Credentials["C99_API_KEY"] = "super-secret"

	out, err := cfg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() failed: %v", err)
	}
	if strings.Contains(out, "super-secret") {
		t.Error("credential value leaked into JSON")
	}
	if !strings.Contains(out, "C99_API_KEY") {
		t.Error("credential name should be listed")
	}
}
