package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/lifeweeks/lifeweeks/internal/domain"
	"github.com/lifeweeks/lifeweeks/internal/output"
	"github.com/lifeweeks/lifeweeks/internal/platform/logger"
)

// EnvPrefix prefixes every environment override, e.g. LIFEWEEKS_DATABASE_PATH.
const EnvPrefix = "LIFEWEEKS"

const (
	dirName    = ".lifeweeks"
	dbFilename = "settings.db"
)

// Configuration holds the settings for the lifeweeks command line
type Configuration struct {
	// DatabasePath is the SQLite settings file.
	DatabasePath string `yaml:"database_path" split_words:"true"`
	// DatasetPath overrides the embedded life expectancy dataset when set.
	DatasetPath string `yaml:"dataset_path" split_words:"true"`
	// DefaultCountry is used instead of locale detection when set.
	DefaultCountry string `yaml:"default_country" split_words:"true"`
	// MaxWeeks caps printed timelines; 0 prints every remaining week.
	MaxWeeks     int    `yaml:"max_weeks" split_words:"true"`
	LogLevel     string `yaml:"log_level" split_words:"true"`
	OutputFormat string `yaml:"output_format" split_words:"true"`
}

// InputParser handles parsing of configuration files
type InputParser struct {
	homeDir func() (string, error)
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{homeDir: os.UserHomeDir}
}

// Default returns the built-in configuration.
func (ip *InputParser) Default() (*Configuration, error) {
	home, err := ip.homeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot determine user home: %w", err)
	}
	return &Configuration{
		DatabasePath: filepath.Join(home, dirName, dbFilename),
		MaxWeeks:     52,
		LogLevel:     "warn",
		OutputFormat: "console",
	}, nil
}

// Load builds the effective configuration: defaults, then the YAML file (if
// filename is non-empty), then LIFEWEEKS_* environment overrides.
func (ip *InputParser) Load(filename string) (*Configuration, error) {
	config, err := ip.Default()
	if err != nil {
		return nil, err
	}

	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s does not exist", filename)
			}
			return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := ip.ValidateConfiguration(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *Configuration) error {
	if strings.TrimSpace(config.DatabasePath) == "" {
		return fmt.Errorf("database path is required")
	}
	if config.MaxWeeks < 0 {
		return fmt.Errorf("max weeks cannot be negative")
	}
	if config.DefaultCountry != "" {
		config.DefaultCountry = strings.ToUpper(strings.TrimSpace(config.DefaultCountry))
		if !domain.IsCountryCode(config.DefaultCountry) {
			return fmt.Errorf("default country %q must be a two-letter code", config.DefaultCountry)
		}
	}
	if _, err := logger.ParseLevel(config.LogLevel); err != nil {
		return err
	}
	if output.GetFormatterByName(config.OutputFormat) == nil {
		return fmt.Errorf("unknown output format %q (available: %s)", config.OutputFormat, strings.Join(output.AvailableFormatterNames(), ", "))
	}
	return nil
}
