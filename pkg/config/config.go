package config

import (
	"fmt"

	"github.com/sdejongh/docrecon/pkg/models"
	"github.com/sdejongh/docrecon/pkg/textio"
)

// Config represents the application configuration
type Config struct {
	Reconcile   ReconcileConfig   `yaml:"reconcile"`
	Delete      DeleteConfig      `yaml:"delete"`
	Encoding    EncodingConfig    `yaml:"encoding"`
	Estimate    EstimateConfig    `yaml:"estimate"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ReconcileConfig holds the matching inputs
type ReconcileConfig struct {
	LogFile     string               `yaml:"log_file"`
	Directory   string               `yaml:"directory"`
	HeaderLabel string               `yaml:"header_label"` // First log line skipped when it starts with this
	Extensions  []string             `yaml:"extensions"`   // Empty means every regular file
	Exclude     []string             `yaml:"exclude"`      // Glob patterns on the base name
	Ambiguity   models.AmbiguityMode `yaml:"ambiguity"`    // "first", "reject" or "newest"
}

// DeleteConfig holds deletion settings
type DeleteConfig struct {
	Ambiguity models.AmbiguityMode `yaml:"ambiguity"`
	DryRun    bool                 `yaml:"dry_run"`
}

// EncodingConfig holds text decoding settings
type EncodingConfig struct {
	Fallback string `yaml:"fallback"` // WHATWG label tried when content is not UTF-8
}

// EstimateConfig holds token estimate settings
type EstimateConfig struct {
	Divisor float64 `yaml:"divisor"` // Characters per token
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	ReadLimit int64 `yaml:"read_limit"` // Bytes per second for content reads, 0 = unlimited
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // Show progress bars
	Quiet    bool   `yaml:"quiet"`    // Suppress non-error output
	Color    string `yaml:"color"`    // "auto", "always" or "never"
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"` // "json" or "text"
	Level   string `yaml:"level"`  // "debug", "info", "warn", "error"
	File    string `yaml:"file"`   // Log file path (empty = stderr)
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Reconcile: ReconcileConfig{
			HeaderLabel: "Yüklenenler",
			Extensions:  []string{".md"},
			Exclude:     []string{},
			Ambiguity:   models.AmbiguityFirst,
		},
		Delete: DeleteConfig{
			Ambiguity: models.AmbiguityReject,
			DryRun:    false,
		},
		Encoding: EncodingConfig{
			Fallback: textio.DefaultFallback,
		},
		Estimate: EstimateConfig{
			Divisor: 4,
		},
		Performance: PerformanceConfig{
			ReadLimit: 0,
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
			Quiet:    false,
			Color:    "auto",
		},
		Logging: LoggingConfig{
			Enabled: false,
			Format:  "text",
			Level:   "info",
			File:    "",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	validModes := map[models.AmbiguityMode]bool{
		models.AmbiguityFirst:  true,
		models.AmbiguityReject: true,
		models.AmbiguityNewest: true,
	}
	if !validModes[c.Reconcile.Ambiguity] {
		return &models.ValidationError{
			Field:   "reconcile.ambiguity",
			Message: "must be 'first', 'reject', or 'newest'",
		}
	}
	if !validModes[c.Delete.Ambiguity] {
		return &models.ValidationError{
			Field:   "delete.ambiguity",
			Message: "must be 'first', 'reject', or 'newest'",
		}
	}

	if _, err := textio.NewDecoder(c.Encoding.Fallback); err != nil {
		return &models.ValidationError{
			Field:   "encoding.fallback",
			Message: fmt.Sprintf("unknown encoding %q", c.Encoding.Fallback),
		}
	}

	if c.Estimate.Divisor <= 0 {
		return &models.ValidationError{
			Field:   "estimate.divisor",
			Message: "must be greater than 0",
		}
	}

	if c.Performance.ReadLimit < 0 {
		return &models.ValidationError{
			Field:   "performance.read_limit",
			Message: "must not be negative",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validColors := map[string]bool{"auto": true, "always": true, "never": true}
	if !validColors[c.Output.Color] {
		return &models.ValidationError{
			Field:   "output.color",
			Message: "must be 'auto', 'always', or 'never'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}
