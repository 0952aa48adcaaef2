package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "dtcli/internal/errors"
)

// Config represents the complete application configuration.
//
// Env names come from split_words rather than explicit envconfig tags: an
// explicit tag also falls back to the unprefixed variable, so a field tagged
// PATH would read $PATH.
type Config struct {
	Report    ReportConfig    `yaml:"report" split_words:"true"`
	Logging   LoggingConfig   `yaml:"logging" split_words:"true"`
	Telemetry TelemetryConfig `yaml:"telemetry" split_words:"true"`
}

// ReportConfig controls the delta computation and the printed report
type ReportConfig struct {
	Path        string    `yaml:"path" split_words:"true" validate:"required"`
	Column      string    `yaml:"column" split_words:"true" validate:"required"`
	DeltaColumn string    `yaml:"delta_column" split_words:"true" validate:"required,nefield=Column"`
	SmallestN   int       `yaml:"smallest_n" split_words:"true" validate:"gte=0"`
	LargestN    int       `yaml:"largest_n" split_words:"true" validate:"gte=0"`
	Percentiles []float64 `yaml:"percentiles" split_words:"true" validate:"dive,gte=0,lte=1"`
	// XLSXPath enables the workbook export when set.
	XLSXPath string `yaml:"xlsx_path" split_words:"true"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" split_words:"true" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" split_words:"true" validate:"oneof=json"`
	Output   string `yaml:"output" split_words:"true" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" split_words:"true" validate:"required_unless=Output console"`
}

// TelemetryConfig contains tracing and metrics export configuration
type TelemetryConfig struct {
	TraceExporter string `yaml:"trace_exporter" split_words:"true" validate:"oneof=none stdout"`
	// MetricsFile is a Prometheus textfile; empty disables metric export.
	MetricsFile string `yaml:"metrics_file" split_words:"true"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load loads configuration from defaults, the first config file found and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFile(getConfigFilePath())
}

// LoadFile is Load with an explicit config file; an empty path skips the file.
func LoadFile(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("file", configFile)
		}
	}

	// Fields without a matching variable are left untouched, so file and
	// default values survive.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays YAML file values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration against its struct constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG"); explicit != "" {
		return explicit
	}

	for _, location := range ConfigFileLocations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Report: ReportConfig{
			Path:        DefaultDataFile,
			Column:      DefaultSourceColumn,
			DeltaColumn: DefaultDeltaColumn,
			SmallestN:   DefaultSmallestN,
			LargestN:    DefaultLargestN,
			Percentiles: append([]float64(nil), DefaultPercentiles...),
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			TraceExporter: "none",
		},
	}
}

// String renders the report options for logs
func (r ReportConfig) String() string {
	return fmt.Sprintf("path=%s column=%s delta=%s smallest=%d largest=%d percentiles=%v",
		r.Path, r.Column, r.DeltaColumn, r.SmallestN, r.LargestN, r.Percentiles)
}
