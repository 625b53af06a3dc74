package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all synthdoc configuration.
type Config struct {
	// Name labels the job in logs and history.
	Name string `yaml:"name" json:"name,omitempty" jsonschema:"description=Job label used in logs and history"`

	// Schema and Dataset are paths to JSON or YAML files.
	Schema  string `yaml:"schema" json:"schema" jsonschema:"description=Path to the JSON Schema (.json/.yaml/.yml)"`
	Dataset string `yaml:"dataset" json:"dataset,omitempty" jsonschema:"description=Path to the reference dataset"`

	Output     OutputConfig     `yaml:"output" json:"output"`
	Generation GenerationConfig `yaml:"generation" json:"generation"`
	Store      StoreConfig      `yaml:"store" json:"store"`
	Logging    LoggingConfig    `yaml:"logging" json:"logging"`
}

// OutputConfig controls where documents are written.
type OutputConfig struct {
	Path   string `yaml:"path" json:"path" jsonschema:"description=Output JSON file; batches add a -0001 style suffix"`
	Pretty bool   `yaml:"pretty" json:"pretty,omitempty" jsonschema:"description=Indent the JSON output"`
	// DeflatePath, when set, also writes the zlib-compressed document.
	DeflatePath string `yaml:"deflate_path" json:"deflate_path,omitempty" jsonschema:"description=Optional zlib-compressed copy of the output"`
}

// GenerationConfig controls the builder.
type GenerationConfig struct {
	// Seed 0 means a random seed per document.
	Seed        uint64 `yaml:"seed" json:"seed,omitempty" jsonschema:"description=Base seed; 0 picks a random seed per document"`
	Count       int    `yaml:"count" json:"count" jsonschema:"minimum=1,default=1"`
	Concurrency int    `yaml:"concurrency" json:"concurrency" jsonschema:"minimum=1,default=4"`
	MaxDepth    int    `yaml:"max_depth" json:"max_depth" jsonschema:"minimum=0,default=128,description=Nesting limit while decoding input files"`
}

// StoreConfig configures the run history database.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled,omitempty"`
	Path    string `yaml:"path" json:"path,omitempty" jsonschema:"description=SQLite database file"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level   string `yaml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error"`
	Format  string `yaml:"format" json:"format" jsonschema:"enum=console,enum=json"`
	File    string `yaml:"file" json:"file,omitempty" jsonschema:"description=Optional log file"`
	Console bool   `yaml:"console" json:"console" jsonschema:"description=Also log to stderr when a file is set"`
}

// ValidLevels lists the accepted log levels.
var ValidLevels = []string{"trace", "debug", "info", "warn", "error"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name: "synthdoc",
		Output: OutputConfig{
			Path: "output/document.json",
		},
		Generation: GenerationConfig{
			Count:       1,
			Concurrency: 4,
			MaxDepth:    128,
		},
		Store: StoreConfig{
			Path: "data/synthdoc.db",
		},
		Logging: LoggingConfig{
			Level:   "info",
			Format:  "console",
			Console: true,
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides. The legacy
// PDA1ACKNOWLEDGEMENTSCHEMA, PDA1DATASET, OUTPUTJSON and ZLIBBED variables
// are read first so the SYNTHDOC_ ones win.
func (c *Config) applyEnvOverrides() error {
	set := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := os.Getenv(k); v != "" {
				*dst = v
			}
		}
	}
	set(&c.Schema, "PDA1ACKNOWLEDGEMENTSCHEMA", "SYNTHDOC_SCHEMA")
	set(&c.Dataset, "PDA1DATASET", "SYNTHDOC_DATASET")
	set(&c.Output.Path, "OUTPUTJSON", "SYNTHDOC_OUTPUT")
	set(&c.Output.DeflatePath, "ZLIBBED", "SYNTHDOC_DEFLATE")
	set(&c.Store.Path, "SYNTHDOC_DB")
	set(&c.Logging.Level, "SYNTHDOC_LOG_LEVEL")

	if v := os.Getenv("SYNTHDOC_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid SYNTHDOC_SEED %q: %w", v, err)
		}
		c.Generation.Seed = seed
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Schema == "" {
		return fmt.Errorf("schema path not configured (set schema or SYNTHDOC_SCHEMA)")
	}
	if c.Generation.Count < 1 {
		return fmt.Errorf("generation.count must be at least 1, got %d", c.Generation.Count)
	}
	if c.Generation.Concurrency < 1 {
		return fmt.Errorf("generation.concurrency must be at least 1, got %d", c.Generation.Concurrency)
	}
	if c.Generation.MaxDepth < 0 {
		return fmt.Errorf("generation.max_depth must not be negative")
	}
	if !slices.Contains(ValidLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLevels)
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid log format: %s (valid: console, json)", c.Logging.Format)
	}
	if c.Store.Enabled && c.Store.Path == "" {
		return fmt.Errorf("store enabled without store.path")
	}
	return nil
}
