// Package config loads crspatch settings from an optional YAML file
// with sane defaults, ready for flag-level overrides in the CLI.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/linksvis/crspatch/internal/crs"
)

type Config struct {
	Exclude    []string `mapstructure:"exclude"`
	TargetPath string   `mapstructure:"target_path"`
	Output     string   `mapstructure:"output"`
	Extension  string   `mapstructure:"extension"`
	Catalog    bool     `mapstructure:"catalog"`
	Database   string   `mapstructure:"database"`
	LogLevel   string   `mapstructure:"log_level"`
	LogFormat  string   `mapstructure:"log_format"`
}

// Load initializes and loads configuration from file
func Load(cfgFile string) (*Config, error) {
	// Set defaults
	viper.SetDefault("exclude", []string{"PATCH.OFS", "OBJECT.OFS"})
	viper.SetDefault("target_path", crs.DefaultTargetPath)
	viper.SetDefault("extension", ".crs")
	viper.SetDefault("catalog", false)
	viper.SetDefault("database", "")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")

	// Config file handling
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName("crspatch")
		viper.SetConfigType("yaml")
	}

	// Read config file (optional)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	for _, sig := range c.Exclude {
		if strings.TrimSpace(sig) == "" {
			return fmt.Errorf("exclusion signatures must be non-empty")
		}
	}
	if c.TargetPath == "" {
		return fmt.Errorf("target_path must be non-empty")
	}
	if len(c.TargetPath) > 0xFF {
		return fmt.Errorf("target_path exceeds the 255-byte length prefix")
	}
	for _, r := range c.TargetPath {
		if r > 0x7F {
			return fmt.Errorf("target_path must be ASCII, found %q", r)
		}
	}
	if c.Extension != "" && !strings.HasPrefix(c.Extension, ".") {
		return fmt.Errorf("extension must start with a dot, got %q", c.Extension)
	}
	return nil
}

// Exclusions returns the configured exclusion signatures as raw bytes
// for the rewrite pipeline.
func (c *Config) Exclusions() [][]byte {
	out := make([][]byte, 0, len(c.Exclude))
	for _, sig := range c.Exclude {
		out = append(out, []byte(sig))
	}
	return out
}
