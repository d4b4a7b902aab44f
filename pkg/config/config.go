// Package config provides the unified configuration system for tablekit.
// It defines a single Config structure used by the import/export paths,
// organized into logical sections:
//   - CSV: delimiter, header handling, declared column types, index column
//   - Inference: sampling and confidence settings for type detection
//   - Performance: buffer sizing for file I/O
//   - Logging: structured logging output
//
// Example usage:
//
//	cfg := config.NewConfig("deck")
//	cfg.CSV.Delimiter = ";"
//	cfg.CSV.PlainStrings = true
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"fmt"
	"unicode/utf8"
)

// Config is the single configuration structure used across tablekit.
type Config struct {
	// Name identifies the table or job this configuration belongs to
	Name string `yaml:"name" json:"name"`

	// CSV settings control the delimited-text import/export format
	CSV CSVConfig `yaml:"csv" json:"csv"`

	// Inference settings control type detection over sampled rows
	Inference InferenceConfig `yaml:"inference" json:"inference"`

	// Performance settings control buffer sizes
	Performance PerformanceConfig `yaml:"performance" json:"performance"`

	// Logging settings control log output
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ColumnSpec declares a column's name and semantic type ahead of import.
// Type accepts: string, int, float, bool, time, factor.
type ColumnSpec struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
}

// CSVConfig contains the delimited-text format settings.
type CSVConfig struct {
	// Delimiter is the field separator, a single rune (default ",")
	Delimiter string `yaml:"delimiter" json:"delimiter"`
	// HasHeader indicates the first line carries column names
	HasHeader bool `yaml:"has_header" json:"has_header"`
	// Columns optionally declares per-column types, bypassing inference.
	// For header-less input it also supplies the column names.
	Columns []ColumnSpec `yaml:"columns" json:"columns"`
	// PlainStrings keeps text columns as plain strings instead of
	// factor-encoding them with categorical codes
	PlainStrings bool `yaml:"plain_strings" json:"plain_strings"`
	// WriteIndex emits an implicit row index as a leading column on export
	WriteIndex bool `yaml:"write_index" json:"write_index"`
	// Compression forces a compression algorithm on export
	// (none, gzip, zstd, lz4); empty means detect from the file extension
	Compression string `yaml:"compression" json:"compression"`
}

// InferenceConfig contains type inference settings.
type InferenceConfig struct {
	// SampleSize caps the number of rows examined before committing types
	SampleSize int `yaml:"sample_size" json:"sample_size"`
	// ConfidenceThreshold is the fraction of sampled non-null values that
	// must agree on a type before it is adopted (otherwise string wins)
	ConfidenceThreshold float64 `yaml:"confidence_threshold" json:"confidence_threshold"`
}

// PerformanceConfig contains I/O tuning settings.
type PerformanceConfig struct {
	// BufferSize sets the size of read/write buffers in bytes
	BufferSize int `yaml:"buffer_size" json:"buffer_size"`
	// BatchSize controls how many rows iterators hand out at a time
	BatchSize int `yaml:"batch_size" json:"batch_size"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level sets logging verbosity (debug, info, warn, error)
	Level string `yaml:"level" json:"level"`
	// Encoding selects the log format (json or console)
	Encoding string `yaml:"encoding" json:"encoding"`
	// Development enables colored, stack-traced output
	Development bool `yaml:"development" json:"development"`
}

// NewConfig creates a Config with sensible defaults.
func NewConfig(name string) *Config {
	return &Config{
		Name: name,
		CSV: CSVConfig{
			Delimiter:    ",",
			HasHeader:    true,
			PlainStrings: false,
			WriteIndex:   false,
		},
		Inference: InferenceConfig{
			SampleSize:          1000,
			ConfidenceThreshold: 0.95,
		},
		Performance: PerformanceConfig{
			BufferSize: 64 * 1024,
			BatchSize:  1000,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "json",
		},
	}
}

// Validate validates the configuration for correctness.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if utf8.RuneCountInString(c.CSV.Delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single rune, got %q", c.CSV.Delimiter)
	}
	if !c.CSV.HasHeader && len(c.CSV.Columns) == 0 {
		return fmt.Errorf("header-less input requires declared columns")
	}
	for _, col := range c.CSV.Columns {
		if col.Name == "" {
			return fmt.Errorf("declared column with empty name")
		}
		switch col.Type {
		case "string", "int", "float", "bool", "time", "factor", "":
		default:
			return fmt.Errorf("unknown column type %q for column %q", col.Type, col.Name)
		}
	}
	if c.Inference.SampleSize <= 0 {
		return fmt.Errorf("sample_size must be positive")
	}
	if c.Inference.ConfidenceThreshold <= 0 || c.Inference.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence_threshold must be in (0, 1]")
	}
	if c.Performance.BufferSize <= 0 {
		return fmt.Errorf("buffer_size must be positive")
	}
	if c.Performance.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive")
	}
	return nil
}

// DelimiterRune returns the configured delimiter as a rune.
func (c *CSVConfig) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}
