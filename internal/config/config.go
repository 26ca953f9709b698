package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "betaxform/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Transform TransformConfig `yaml:"transform"`
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// TransformConfig contains the numeric pipeline settings
type TransformConfig struct {
	// Precision is the number of decimal places percentiles are rounded to.
	Precision int `yaml:"precision" validate:"gte=1,lte=15"`
}

// InputConfig describes the spreadsheet to read
type InputConfig struct {
	Path        string `yaml:"path"`
	Sheet       string `yaml:"sheet"`
	MetaColumns int    `split_words:"true" yaml:"meta_columns" validate:"gte=1"`
}

// OutputConfig describes where and how results are written
type OutputConfig struct {
	Dir                 string `yaml:"dir"`
	Prefix              string `yaml:"prefix" validate:"required"`
	Format              string `yaml:"format" validate:"oneof=auto xlsx csv"`
	IncludeStandardized bool   `split_words:"true" yaml:"include_standardized"`
	StandardizedSheet   string `split_words:"true" yaml:"standardized_sheet" validate:"required,max=31"`
	TransformedSheet    string `split_words:"true" yaml:"transformed_sheet" validate:"required,max=31,nefield=StandardizedSheet"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" validate:"oneof=console file both"`
	FilePath string `split_words:"true" yaml:"file_path"`
}

// TelemetryConfig controls run tracing and the metrics textfile
type TelemetryConfig struct {
	// TraceExporter is "stdout" or "none".
	TraceExporter string `split_words:"true" yaml:"trace_exporter" validate:"oneof=stdout none"`
	// MetricsFile receives Prometheus text-format metrics after each run.
	// Empty disables metrics.
	MetricsFile string `split_words:"true" yaml:"metrics_file"`
}

// Load loads configuration from defaults, an optional YAML file, and
// environment variables, in increasing order of precedence. An empty path
// falls back to BETAS_CONFIG and then to the well-known locations.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("path", path)
		}
	}

	// Fields without a matching environment variable are left untouched.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		return p
	}

	locations := []string{
		"betas.yaml",
		"configs/betas.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

var validate = validator.New()

// Validate checks the configuration and normalizes aliases
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Output.Format = strings.ToLower(c.Output.Format)

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if apperrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return apperrors.NewConfigError(
				fmt.Sprintf("invalid value for %s (rule %s)", fe.Namespace(), fe.Tag()), err).
				WithContext("field", fe.Namespace()).
				WithContext("value", fe.Value())
		}
		return apperrors.NewConfigError("config validation failed", err)
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return apperrors.NewConfigError("logging file path is required when output is "+c.Logging.Output, nil)
	}
	return nil
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Transform: TransformConfig{
			Precision: DefaultPrecision,
		},
		Input: InputConfig{
			Sheet:       DefaultInputSheet,
			MetaColumns: DefaultMetaColumns,
		},
		Output: OutputConfig{
			Dir:                 ".",
			Prefix:              DefaultOutputPrefix,
			Format:              FormatAuto,
			IncludeStandardized: true,
			StandardizedSheet:   StandardizedSheetName,
			TransformedSheet:    TransformedSheetName,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			TraceExporter: "none",
		},
	}
}
