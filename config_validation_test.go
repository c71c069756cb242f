package snapdomain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestLoadConfig_StrictMode_UnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "snapdomain.yaml")

	configContent := `
expansion:
  max_expansion: 10
  unknown_key: "should cause error"
`

	err := os.WriteFile(configPath, []byte(configContent), 0o644)
	assert.NoError(t, err)

	_, err = LoadConfig(configPath)
	assert.Error(t, err, "expected error for unknown keys in strict mode")
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfig_InvalidConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "snapdomain.yaml")

	err := os.WriteFile(configPath, []byte("output:\n  format: html\n"), 0o644)
	assert.NoError(t, err)

	_, err = LoadConfig(configPath)
	assert.IsError(t, err, ErrConfigValidation)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		message string
	}{
		{
			name:    "negative max expansion",
			config:  Config{Expansion: ExpansionConfig{MaxExpansion: -1}},
			message: "expansion.max_expansion must be non-negative",
		},
		{
			name:    "negative preview limit",
			config:  Config{Expansion: ExpansionConfig{PreviewLimit: -5}},
			message: "expansion.preview_limit must be non-negative",
		},
		{
			name:    "negative parallel",
			config:  Config{Expansion: ExpansionConfig{Parallel: -2}},
			message: "expansion.parallel must be non-negative",
		},
		{
			name:    "unknown format",
			config:  Config{Output: OutputConfig{Format: "table"}},
			message: "output.format 'table' is invalid",
		},
		{
			name:    "negative batch size",
			config:  Config{Export: ExportConfig{BatchSize: -1}},
			message: "export.batch_size must be non-negative",
		},
		{
			name:    "batch size over the parameter limit",
			config:  Config{Export: ExportConfig{BatchSize: MaxBatchSize + 1}},
			message: "export.batch_size must be at most 6000, got 6001",
		},
		{
			name:    "undefined default environment",
			config:  Config{Export: ExportConfig{DefaultEnvironment: "prod"}},
			message: "export.default_environment 'prod' is not defined",
		},
		{
			name: "missing connection",
			config: Config{Databases: map[string]Database{
				"local": {Driver: "sqlite"},
			}},
			message: "database 'local': connection is required",
		},
		{
			name: "unknown driver",
			config: Config{Databases: map[string]Database{
				"local": {Driver: "oracle", Connection: "oracle://x"},
			}},
			message: "invalid driver 'oracle'",
		},
		{
			name: "invalid table name",
			config: Config{Databases: map[string]Database{
				"local": {Driver: "sqlite", Connection: "sqlite://x.db", Table: "results; drop"},
			}},
			message: "invalid table name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(&tt.config)
			assert.IsError(t, err, ErrConfigValidation)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidateConfig_Valid(t *testing.T) {
	config := GetDefaultConfig()
	config.Databases["local"] = Database{Driver: "sqlite3", Connection: "sqlite://x.db", Table: "names_2024"}
	config.Export.DefaultEnvironment = "local"

	assert.NoError(t, validateConfig(config))

	for _, format := range ValidFormats {
		config.Output.Format = format
		assert.NoError(t, validateConfig(config))
	}
}
