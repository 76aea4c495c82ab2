package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Inputs     InputsConfig     `yaml:"inputs" envconfig:"INPUTS"`
	Reports    ReportsConfig    `yaml:"reports" envconfig:"REPORTS"`
	Evaluation EvaluationConfig `yaml:"evaluation" envconfig:"EVALUATION"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
}

// InputsConfig contains the paths of the input datasets. Either file may be
// left empty, in which case that dataset is treated as empty.
type InputsConfig struct {
	FeesFile   string `yaml:"fees_file" envconfig:"FEES_FILE" default:"forecast_longterm.json"`
	BlocksFile string `yaml:"blocks_file" envconfig:"BLOCKS_FILE" default:"longterm_blocks.json"`
}

// ReportsConfig contains report output configuration
type ReportsConfig struct {
	Dir     string   `yaml:"dir" envconfig:"DIR" default:"reports"`
	Formats []string `yaml:"formats" envconfig:"FORMATS" default:"csv" validate:"dive,oneof=csv json xlsx"`
}

// EvaluationConfig contains parameters of the estimate evaluation
type EvaluationConfig struct {
	// SanityWindow is the number of blocks below the tip inside which
	// estimates are considered too recent to evaluate.
	SanityWindow int64 `yaml:"sanity_window" envconfig:"SANITY_WINDOW" default:"1008" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/feeval.log"`
}

// Load loads configuration from environment variables and an optional
// config file. Environment variables take precedence over file values.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("FEEVAL", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence).
// A file value applies only when its environment variable is not set at
// all, so an env var explicitly set to its default still wins.
func mergeConfigs(fileConfig, envConfig Config) Config {
	if !envSet("FEEVAL_INPUTS_FEES_FILE") && fileConfig.Inputs.FeesFile != "" {
		envConfig.Inputs.FeesFile = fileConfig.Inputs.FeesFile
	}
	if !envSet("FEEVAL_INPUTS_BLOCKS_FILE") && fileConfig.Inputs.BlocksFile != "" {
		envConfig.Inputs.BlocksFile = fileConfig.Inputs.BlocksFile
	}
	if !envSet("FEEVAL_REPORTS_DIR") && fileConfig.Reports.Dir != "" {
		envConfig.Reports.Dir = fileConfig.Reports.Dir
	}
	if !envSet("FEEVAL_REPORTS_FORMATS") && len(fileConfig.Reports.Formats) > 0 {
		envConfig.Reports.Formats = fileConfig.Reports.Formats
	}
	if !envSet("FEEVAL_EVALUATION_SANITY_WINDOW") && fileConfig.Evaluation.SanityWindow != 0 {
		envConfig.Evaluation.SanityWindow = fileConfig.Evaluation.SanityWindow
	}
	if !envSet("FEEVAL_LOGGING_LEVEL") && fileConfig.Logging.Level != "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if !envSet("FEEVAL_LOGGING_OUTPUT") && fileConfig.Logging.Output != "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if !envSet("FEEVAL_LOGGING_FILE_PATH") && fileConfig.Logging.FilePath != "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}

	return envConfig
}

// envSet reports whether the variable is present in the environment,
// regardless of its value
func envSet(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}

// Validate validates the configuration using struct tags
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.Logging.Output != "stdout" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging file path required for output mode %q", c.Logging.Output)
	}

	return nil
}

// getConfigFilePath returns the path to the config file, or empty when no
// config file is present
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// defaultConfig returns the configuration produced by envconfig defaults
// with no environment overrides
func defaultConfig() Config {
	return Config{
		Inputs: InputsConfig{
			FeesFile:   "forecast_longterm.json",
			BlocksFile: "longterm_blocks.json",
		},
		Reports: ReportsConfig{
			Dir:     "reports",
			Formats: []string{"csv"},
		},
		Evaluation: EvaluationConfig{
			SanityWindow: 1008,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "stdout",
			FilePath: "logs/feeval.log",
		},
	}
}

// Default returns default configuration
func Default() *Config {
	cfg := defaultConfig()
	return &cfg
}
