package cmd

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/patrol-sim/patrol-sim/sim"
	"github.com/patrol-sim/patrol-sim/sim/synth"
	"github.com/patrol-sim/patrol-sim/sim/trace"
)

//go:embed defaults.yaml
var embeddedDefaults []byte

// Output formats accepted by --format.
const (
	FormatCSV    = "csv"
	FormatSQLite = "sqlite"
	FormatBoth   = "both"
)

// OutputConfig selects where snapshots and run metrics go.
type OutputConfig struct {
	Dir         string `yaml:"dir"`
	Format      string `yaml:"format"`
	SQLitePath  string `yaml:"sqlite_path"`
	MetricsFile string `yaml:"metrics_file"` // Prometheus textfile; empty disables it
	TraceLevel  string `yaml:"trace_level"`  // none or decisions
}

// Config represents the full defaults.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Config struct {
	Seed       int64        `yaml:"seed"`
	Simulation sim.Config   `yaml:"simulation"`
	Generator  synth.Config `yaml:"generator"`
	Output     OutputConfig `yaml:"output"`
}

// Validate checks the output section.
func (o OutputConfig) Validate() error {
	if !trace.IsValidTraceLevel(o.TraceLevel) {
		return fmt.Errorf("unknown trace level %q", o.TraceLevel)
	}
	switch o.Format {
	case FormatCSV:
		if o.Dir == "" {
			return fmt.Errorf("output.dir must be set for format %q", o.Format)
		}
	case FormatSQLite:
		if o.SQLitePath == "" {
			return fmt.Errorf("output.sqlite_path must be set for format %q", o.Format)
		}
	case FormatBoth:
		if o.Dir == "" || o.SQLitePath == "" {
			return fmt.Errorf("output.dir and output.sqlite_path must be set for format %q", o.Format)
		}
	default:
		return fmt.Errorf("unknown output format %q (want %s, %s or %s)", o.Format, FormatCSV, FormatSQLite, FormatBoth)
	}
	return nil
}

// decodeStrict decodes YAML on top of cfg; unknown keys are errors.
func decodeStrict(data []byte, cfg *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	return decoder.Decode(cfg)
}

// defaultConfig parses the embedded defaults.yaml.
func defaultConfig() (Config, error) {
	var cfg Config
	if err := decodeStrict(embeddedDefaults, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse embedded defaults: %w", err)
	}
	return cfg, nil
}

// loadConfig returns the embedded defaults overlaid with the file at path, if any.
// Keys missing from the file keep their default; lists such as snapshots are replaced whole.
func loadConfig(path string) (Config, error) {
	cfg, err := defaultConfig()
	if err != nil {
		return Config{}, err
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	if err := decodeStrict(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}
