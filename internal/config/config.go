// Package config provides configuration types, defaults, and persistence for
// the chisel3 CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/preveen-stack/chisel3/internal/log"
)

// TracingConfig holds tracing configuration. It mirrors tracing.Config field
// for field; keeping a separate type spares the config package an otel
// dependency chain.
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	Exporter     string  `mapstructure:"exporter"` // "none", "file", "stdout", "otlp"
	FilePath     string  `mapstructure:"file_path"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRate   float64 `mapstructure:"sample_rate"`
}

// Config holds all configuration options for chisel3.
type Config struct {
	// Output is where the elaborated annotation set is written.
	// "-" means stdout.
	Output string `mapstructure:"output"`

	// StrictNames makes user-chosen source names fail fast on collision
	// instead of deferring detection to the wiring transform.
	StrictNames bool `mapstructure:"strict_names"`

	// AutoReload re-elaborates when the watched netlist changes.
	AutoReload bool `mapstructure:"auto_reload"`

	// AutoReloadDebounceMs is the watch debounce in milliseconds.
	AutoReloadDebounceMs int `mapstructure:"auto_reload_debounce_ms"`

	Tracing TracingConfig `mapstructure:"tracing"`
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Output:               "-",
		StrictNames:          false,
		AutoReload:           true,
		AutoReloadDebounceMs: 500,
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "stdout",
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// DefaultConfigTemplate returns the commented YAML written on first run.
func DefaultConfigTemplate() string {
	return `# chisel3 configuration
#
# output: where elaborated annotations are written ("-" for stdout)
output: "-"

# strict_names: fail fast when user-chosen source names collide.
# The default leaves collision detection to the wiring transform.
strict_names: false

# auto_reload: re-elaborate when the watched netlist changes (--watch)
auto_reload: true
auto_reload_debounce_ms: 500

# tracing: OpenTelemetry tracing of the elaborate pipeline
tracing:
  enabled: false
  exporter: stdout # none | file | stdout | otlp
  file_path: ""
  otlp_endpoint: "localhost:4317"
  sample_rate: 1.0
`
}

// WriteDefaultConfig writes the default config template to configPath,
// creating parent directories as needed.
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
