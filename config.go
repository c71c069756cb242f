package snapdomain

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// ErrConfigValidation is returned when configuration validation fails
var ErrConfigValidation = errors.New("configuration validation failed")

// Default values applied to a missing or partial configuration.
const (
	DefaultPreviewLimit = 100
	DefaultFormat       = "text"
	DefaultTable        = "snapdomain_results"
	DefaultBatchSize    = 500

	// MaxBatchSize bounds export.batch_size so one INSERT stays under the
	// bound parameter limit of every supported database.
	MaxBatchSize = 6000
)

// Config represents the SnapDomain configuration
type Config struct {
	Inputs    []string            `yaml:"inputs"`
	Expansion ExpansionConfig     `yaml:"expansion"`
	Output    OutputConfig        `yaml:"output"`
	Export    ExportConfig        `yaml:"export"`
	Databases map[string]Database `yaml:"databases"`
}

// ExpansionConfig controls size limits and concurrency of expansion
type ExpansionConfig struct {
	MaxExpansion int `yaml:"max_expansion"`
	PreviewLimit int `yaml:"preview_limit"`
	// Parallel is the number of input files expanded at once. Zero means one per CPU.
	Parallel int `yaml:"parallel"`
}

// OutputConfig represents result output settings
type OutputConfig struct {
	Format string `yaml:"format"`
	Sort   bool   `yaml:"sort"`
	Path   string `yaml:"path"`
}

// ExportConfig represents database export settings
type ExportConfig struct {
	DefaultEnvironment string `yaml:"default_environment"`
	BatchSize          int    `yaml:"batch_size"`
}

// Database represents database connection configuration
type Database struct {
	Driver     string `yaml:"driver"`
	Connection string `yaml:"connection"`
	Table      string `yaml:"table"`
}

// ValidFormats lists the accepted output.format values
var ValidFormats = []string{"text", "json", "yaml", "csv", "xml"}

var validDrivers = map[string]bool{
	"postgres": true,
	"pgx":      true,
	"mysql":    true,
	"sqlite":   true,
	"sqlite3":  true,
}

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		config := GetDefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Strict mode rejects unknown keys
	var config Config

	err = yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	applyDefaults(&config)
	expandConfigEnvVars(&config)

	return &config, nil
}

// validateConfig validates the configuration for common errors and inconsistencies
func validateConfig(config *Config) error {
	if config.Expansion.MaxExpansion < 0 {
		return fmt.Errorf("%w: expansion.max_expansion must be non-negative, got %d", ErrConfigValidation, config.Expansion.MaxExpansion)
	}

	if config.Expansion.PreviewLimit < 0 {
		return fmt.Errorf("%w: expansion.preview_limit must be non-negative, got %d", ErrConfigValidation, config.Expansion.PreviewLimit)
	}

	if config.Expansion.Parallel < 0 {
		return fmt.Errorf("%w: expansion.parallel must be non-negative, got %d", ErrConfigValidation, config.Expansion.Parallel)
	}

	if config.Output.Format != "" && !IsValidFormat(config.Output.Format) {
		return fmt.Errorf("%w: output.format '%s' is invalid: must be one of text, json, yaml, csv, xml", ErrConfigValidation, config.Output.Format)
	}

	if config.Export.BatchSize < 0 {
		return fmt.Errorf("%w: export.batch_size must be non-negative, got %d", ErrConfigValidation, config.Export.BatchSize)
	}

	if config.Export.BatchSize > MaxBatchSize {
		return fmt.Errorf("%w: export.batch_size must be at most %d, got %d", ErrConfigValidation, MaxBatchSize, config.Export.BatchSize)
	}

	if env := config.Export.DefaultEnvironment; env != "" {
		if _, ok := config.Databases[env]; !ok {
			return fmt.Errorf("%w: export.default_environment '%s' is not defined in databases", ErrConfigValidation, env)
		}
	}

	for name, db := range config.Databases {
		if db.Connection == "" {
			return fmt.Errorf("%w: database '%s': connection is required", ErrConfigValidation, name)
		}

		if db.Driver != "" && !validDrivers[db.Driver] {
			return fmt.Errorf("%w: database '%s': invalid driver '%s': must be one of postgres, mysql, sqlite", ErrConfigValidation, name, db.Driver)
		}

		if db.Table != "" && !tableNamePattern.MatchString(db.Table) {
			return fmt.Errorf("%w: database '%s': invalid table name '%s'", ErrConfigValidation, name, db.Table)
		}
	}

	return nil
}

// IsValidFormat reports whether format is one of ValidFormats
func IsValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}

	return false
}

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() *Config {
	return &Config{
		Inputs: []string{},
		Expansion: ExpansionConfig{
			MaxExpansion: DefaultMaxExpansion,
			PreviewLimit: DefaultPreviewLimit,
			Parallel:     0,
		},
		Output: OutputConfig{
			Format: DefaultFormat,
			Sort:   false,
		},
		Export: ExportConfig{
			BatchSize: DefaultBatchSize,
		},
		Databases: make(map[string]Database),
	}
}

// applyDefaults applies default values to missing configuration fields
func applyDefaults(config *Config) {
	if config.Expansion.MaxExpansion == 0 {
		config.Expansion.MaxExpansion = DefaultMaxExpansion
	}

	if config.Expansion.PreviewLimit == 0 {
		config.Expansion.PreviewLimit = DefaultPreviewLimit
	}

	if config.Output.Format == "" {
		config.Output.Format = DefaultFormat
	}

	if config.Export.BatchSize == 0 {
		config.Export.BatchSize = DefaultBatchSize
	}

	if config.Databases == nil {
		config.Databases = make(map[string]Database)
	}

	for name, db := range config.Databases {
		if db.Table == "" {
			db.Table = DefaultTable
		}

		config.Databases[name] = db
	}
}

// loadEnvFiles loads .env files if they exist
func loadEnvFiles() error {
	if fileExists(".env") {
		err := godotenv.Load(".env")
		if err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

var (
	bracedEnvVar = regexp.MustCompile(`\$\{([^}]+)\}`)
	bareEnvVar   = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	s = bracedEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	return bareEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})
}

// expandConfigEnvVars expands environment variables in every path and connection string
func expandConfigEnvVars(config *Config) {
	for name, db := range config.Databases {
		db.Connection = expandEnvVars(db.Connection)
		db.Driver = expandEnvVars(db.Driver)
		db.Table = expandEnvVars(db.Table)
		config.Databases[name] = db
	}

	for i, input := range config.Inputs {
		config.Inputs[i] = expandEnvVars(input)
	}

	config.Output.Path = expandEnvVars(config.Output.Path)
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// Database returns the named database configuration. An empty name selects
// export.default_environment.
func (c *Config) Database(name string) (Database, error) {
	if name == "" {
		name = c.Export.DefaultEnvironment
	}

	if name == "" {
		return Database{}, ErrNoEnvironment
	}

	db, ok := c.Databases[name]
	if !ok {
		return Database{}, fmt.Errorf("%w: '%s'", ErrUnknownEnvironment, name)
	}

	return db, nil
}
