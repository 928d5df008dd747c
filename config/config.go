// Package config loads and validates the comparison job configuration.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// --- Configuration Structs ---

// JobConfig describes one bulk comparison job: the two dataset roots plus
// the comparison policy applied to every file pair.
type JobConfig struct {
	LeftRoot   string  `mapstructure:"left_root"`
	RightRoot  string  `mapstructure:"right_root"`
	Mode       string  `mapstructure:"mode"` // exact, deep or sampled
	SampleRate float64 `mapstructure:"sample_rate"`

	Extensions    []string `mapstructure:"extensions"`
	KeyColumns    []string `mapstructure:"key_columns"`
	IgnoreColumns []string `mapstructure:"ignore_columns"`

	// SortedColumns are array-valued columns whose element order carries no
	// meaning; their cells are sorted before comparison.
	SortedColumns []string `mapstructure:"sorted_columns"`
}

// ServerConfig configures the HTTP comparison service.
type ServerConfig struct {
	Port    string `mapstructure:"port"`
	Prefork bool   `mapstructure:"prefork"`
}

// Config is the root configuration document.
type Config struct {
	Job    JobConfig    `mapstructure:"job"`
	Server ServerConfig `mapstructure:"server"`
}

// --- Load Configuration ---

// LoadConfig reads and unmarshals the YAML configuration at configPath.
func LoadConfig(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// --- Validation Functions ---

// validate is a helper function to reduce repetition.
func validate(condition bool, format string, a ...any) error {
	if !condition {
		return fmt.Errorf(format, a...)
	}
	return nil
}

func (c *Config) Validate() error {
	if err := c.Job.Validate(); err != nil {
		return fmt.Errorf("job validation failed: %w", err)
	}
	return nil
}

func (jc *JobConfig) Validate() error {
	if err := validate(jc.LeftRoot != "", "left_root is required"); err != nil {
		return err
	}
	if err := validate(jc.RightRoot != "", "right_root is required"); err != nil {
		return err
	}
	switch jc.Mode {
	case "", "exact", "deep", "sampled":
	default:
		return fmt.Errorf("unknown mode %q (want exact, deep or sampled)", jc.Mode)
	}
	if jc.Mode == "sampled" {
		if err := validate(jc.SampleRate > 0 && jc.SampleRate <= 1, "sample_rate must be between 0 and 1"); err != nil {
			return err
		}
	}
	return nil
}

// ValidateConfig validates a loaded configuration.
func ValidateConfig(cfg *Config) error {
	return cfg.Validate()
}
