package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iwvelando/loan-calculator/pkg/constants"
)

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != constants.DefaultServerAddress {
		t.Fatalf("expected default address, got %q", cfg.Address)
	}
	if cfg.RequestSizeBytes() != constants.DefaultMaxRequestSizeBytes {
		t.Fatalf("expected default max request size, got %d", cfg.RequestSizeBytes())
	}
	if cfg.ShutdownTimeoutDuration() != defaultShutdownTimeout {
		t.Fatalf("expected default shutdown timeout, got %s", cfg.ShutdownTimeoutDuration())
	}
	if cfg.Logging.Level != "" || cfg.Logging.Format != "" || cfg.Logging.OutputFile != "" {
		t.Fatalf("expected empty logging defaults, got %+v", cfg.Logging)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.ReadTimeoutDuration() != defaultReadTimeout || cfg.WriteTimeoutDuration() != defaultWriteTimeout {
		t.Fatalf("expected default timeouts, got %s/%s", cfg.ReadTimeoutDuration(), cfg.WriteTimeoutDuration())
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server-config.yaml")

	contents := []byte(`address: 127.0.0.1:9000
maxRequestSize: 2M
readTimeout: 5s
writeTimeout: 7s
shutdownTimeout: 1m
logging:
  level: debug
  format: console
  outputFile: /tmp/server.log
`)
	if err := os.WriteFile(path, contents, 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != "127.0.0.1:9000" {
		t.Fatalf("expected address override, got %s", cfg.Address)
	}
	if cfg.RequestSizeBytes() != 2*1024*1024 {
		t.Fatalf("expected max request override, got %d", cfg.RequestSizeBytes())
	}
	if cfg.ReadTimeoutDuration() != 5*time.Second || cfg.WriteTimeoutDuration() != 7*time.Second {
		t.Fatalf("expected timeout overrides, got %s/%s", cfg.ReadTimeoutDuration(), cfg.WriteTimeoutDuration())
	}
	if cfg.ShutdownTimeoutDuration() != time.Minute {
		t.Fatalf("expected shutdown override, got %s", cfg.ShutdownTimeoutDuration())
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected logging level debug, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.OutputFile != "/tmp/server.log" {
		t.Fatalf("expected logging output override, got %s", cfg.Logging.OutputFile)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{name: "Bad size unit", contents: "maxRequestSize: 10Q\n"},
		{name: "Bad duration", contents: "readTimeout: soon\n"},
		{name: "Malformed YAML", contents: "address: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "server-config.yaml")
			if err := os.WriteFile(path, []byte(tt.contents), 0600); err != nil {
				t.Fatalf("failed to write temp config: %v", err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Fatal("LoadConfig() expected an error")
			}
		})
	}
}

func TestSetRequestSizeBytes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SetRequestSizeBytes(1024)
	if cfg.RequestSizeBytes() != 1024 || cfg.MaxRequestSize != "1024" {
		t.Fatalf("SetRequestSizeBytes() not applied: %d %s", cfg.RequestSizeBytes(), cfg.MaxRequestSize)
	}
	cfg.SetRequestSizeBytes(0)
	if cfg.RequestSizeBytes() != 1024 {
		t.Fatalf("SetRequestSizeBytes(0) should be ignored, got %d", cfg.RequestSizeBytes())
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		wantErr  bool
	}{
		{input: "", expected: constants.DefaultMaxRequestSizeBytes},
		{input: "512", expected: 512},
		{input: "64K", expected: 64 * 1024},
		{input: "64kb", expected: 64 * 1024},
		{input: "1M", expected: 1024 * 1024},
		{input: "10 B", expected: 10},
		{input: "K", wantErr: true},
		{input: "5T", wantErr: true},
		{input: "-1K", wantErr: true},
		{input: "9223372036854775807K", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseSize(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseSize(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSize(%q) error = %v", tt.input, err)
			}
			if result != tt.expected {
				t.Fatalf("ParseSize(%q) = %d, expected %d", tt.input, result, tt.expected)
			}
		})
	}
}
