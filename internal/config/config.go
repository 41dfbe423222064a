// Package config provides configuration types and defaults for gumup.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gumup/gumup/internal/log"
)

// Config holds all configuration options for gumup.
type Config struct {
	SourceDirs []string        `mapstructure:"source_dirs"`
	Extensions []string        `mapstructure:"extensions"`
	Manifest   string          `mapstructure:"manifest"`
	Output     string          `mapstructure:"output"`
	Watch      WatchConfig     `mapstructure:"watch"`
	Cache      CacheConfig     `mapstructure:"cache"`
	Tracing    TracingConfig   `mapstructure:"tracing"`
	Flags      map[string]bool `mapstructure:"flags"`
}

// WatchConfig holds file watcher configuration.
type WatchConfig struct {
	// Debounce is how long to wait after the last filesystem event
	// before triggering a rebuild.
	// Default: 250ms
	Debounce time.Duration `mapstructure:"debounce"`
}

// CacheConfig holds unit cache configuration.
type CacheConfig struct {
	// TTL is how long parsed unit entries stay cached.
	// Default: 10m
	TTL time.Duration `mapstructure:"ttl"`

	// Disabled bypasses the cache so every read hits the filesystem.
	// Default: false
	Disabled bool `mapstructure:"disabled"`
}

// TracingConfig holds distributed tracing configuration for builds.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for the "file" exporter.
	// Default: ~/.config/gumup/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for the "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// 1.0 = all traces, 0.1 = 10% of traces
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/gumup/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gumup", "traces", "traces.jsonl")
}

// DefaultExtensions returns the source extensions scanned for unit annotations.
func DefaultExtensions() []string {
	return []string{".js"}
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		SourceDirs: []string{"src"},
		Extensions: DefaultExtensions(),
		Manifest:   "",
		Output:     "dist/bundle.js",
		Watch: WatchConfig{
			Debounce: 250 * time.Millisecond,
		},
		Cache: CacheConfig{
			TTL: 10 * time.Minute,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     DefaultTracesFilePath(),
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		Flags: map[string]bool{},
	}
}

// ValidateSources checks the source directory and extension settings.
func ValidateSources(cfg Config) error {
	if len(cfg.SourceDirs) == 0 {
		return fmt.Errorf("at least one source directory is required")
	}
	for _, dir := range cfg.SourceDirs {
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("source directory cannot be empty")
		}
	}
	for _, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	return nil
}

// ValidateTracing checks tracing configuration for invalid values.
func ValidateTracing(tracing TracingConfig) error {
	if !tracing.Enabled {
		return nil
	}

	switch tracing.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return fmt.Errorf("invalid tracing exporter %q (options: none, file, stdout, otlp)", tracing.Exporter)
	}

	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
		return fmt.Errorf("tracing otlp_endpoint is required when exporter is otlp")
	}

	return nil
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if err := ValidateSources(c); err != nil {
		return err
	}
	if err := ValidateTracing(c.Tracing); err != nil {
		return err
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch debounce cannot be negative")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl cannot be negative")
	}
	return nil
}

// DefaultConfigTemplate returns the default config file content with comments.
func DefaultConfigTemplate() string {
	return `# Gumup Configuration

# Directories scanned for unit source files
source_dirs:
  - src

# File extensions treated as unit sources
extensions:
  - .js

# Optional manifest declaring units and requirements outside source annotations
# manifest: units.yaml

# Bundle output path
output: dist/bundle.js

# Watch mode settings
watch:
  debounce: 250ms   # Delay after the last change before rebuilding

# Unit cache settings
cache:
  ttl: 10m          # How long parsed units stay cached
  disabled: false   # Bypass the cache entirely

# Feature flags
# flags:
#   strict-annotations: true   # Fail the build on malformed unit annotations
#   watch-flush-cache: true    # Flush the whole cache on any change in watch mode

# Distributed tracing for build runs
# tracing:
#   enabled: true
#   exporter: file            # none, file, stdout, otlp
#   file_path: ~/.config/gumup/traces/traces.jsonl
#
# Example: Send traces to Jaeger via OTLP
# tracing:
#   enabled: true
#   exporter: otlp
#   otlp_endpoint: jaeger.internal:4317
#   sample_rate: 0.1  # Sample 10% of traces
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
