package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := NewConfig("deck")
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ",", cfg.CSV.Delimiter)
	assert.True(t, cfg.CSV.HasHeader)
	assert.False(t, cfg.CSV.PlainStrings)
	assert.False(t, cfg.CSV.WriteIndex)
	assert.Equal(t, 1000, cfg.Inference.SampleSize)
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty name", func(c *Config) { c.Name = "" }},
		{"multi-rune delimiter", func(c *Config) { c.CSV.Delimiter = ",," }},
		{"empty delimiter", func(c *Config) { c.CSV.Delimiter = "" }},
		{"headerless without columns", func(c *Config) { c.CSV.HasHeader = false }},
		{"unknown column type", func(c *Config) {
			c.CSV.Columns = []ColumnSpec{{Name: "x", Type: "decimal"}}
		}},
		{"unnamed column", func(c *Config) {
			c.CSV.Columns = []ColumnSpec{{Type: "int"}}
		}},
		{"zero sample size", func(c *Config) { c.Inference.SampleSize = 0 }},
		{"confidence above one", func(c *Config) { c.Inference.ConfidenceThreshold = 1.5 }},
		{"zero buffer", func(c *Config) { c.Performance.BufferSize = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewConfig("t")
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDelimiterRune(t *testing.T) {
	cfg := NewConfig("t")
	assert.Equal(t, ',', cfg.CSV.DelimiterRune())

	cfg.CSV.Delimiter = "\t"
	assert.Equal(t, '\t', cfg.CSV.DelimiterRune())
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	t.Setenv("DECK_NAME", "deck")
	content := `
name: ${DECK_NAME}
csv:
  delimiter: ";"
  has_header: true
  plain_strings: true
  columns:
    - name: value
      type: int
inference:
  sample_size: 50
  confidence_threshold: 0.9
performance:
  buffer_size: 4096
  batch_size: 100
logging:
  level: debug
  encoding: console
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := NewConfig("placeholder")
	require.NoError(t, Load(path, cfg))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "deck", cfg.Name)
	assert.Equal(t, ";", cfg.CSV.Delimiter)
	assert.True(t, cfg.CSV.PlainStrings)
	require.Len(t, cfg.CSV.Columns, 1)
	assert.Equal(t, "int", cfg.CSV.Columns[0].Type)
	assert.Equal(t, 50, cfg.Inference.SampleSize)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	content := `{"name": "deck", "csv": {"delimiter": "|", "has_header": true}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := NewConfig("placeholder")
	require.NoError(t, Load(path, cfg))
	assert.Equal(t, "deck", cfg.Name)
	assert.Equal(t, "|", cfg.CSV.Delimiter)
}

func TestLoadMissingFile(t *testing.T) {
	cfg := NewConfig("t")
	assert.Error(t, Load(filepath.Join(t.TempDir(), "absent.yaml"), cfg))
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := NewConfig("deck")
	cfg.CSV.Delimiter = ";"
	require.NoError(t, Save(path, cfg))

	loaded := NewConfig("other")
	require.NoError(t, Load(path, loaded))
	assert.Equal(t, cfg, loaded)
}
