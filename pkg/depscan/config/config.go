// Package config loads depscan configuration from file, environment and
// flags via viper.
//
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/depscan/config.yaml
//   - $HOME/.config/depscan/config.yaml
//   - .depscanrc.yaml in the checked project
//
// Environment variables are prefixed with DEPSCAN_ (e.g. DEPSCAN_WORKERS).
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Components map[string]string `mapstructure:"components"`
}

// Config represents the application configuration.
type Config struct {
	// IgnorePatterns are globs excluding paths from the walk and dependency
	// names from the report.
	IgnorePatterns []string `mapstructure:"ignore_patterns"`

	// IgnoreFile is the custom ignore filename read from the project root.
	IgnoreFile string `mapstructure:"ignore_file"`

	// ReadIgnoreFile enables honoring IgnoreFile during the walk.
	ReadIgnoreFile bool `mapstructure:"read_ignore_file"`

	// SkipMissing suppresses missing-dependency computation.
	SkipMissing bool `mapstructure:"skip_missing"`

	// IgnoreBinPackages excludes bin-only packages from reports.
	IgnoreBinPackages bool `mapstructure:"ignore_bin_packages"`

	// Workers overrides the extraction pool size (0 = hardware parallelism).
	Workers int `mapstructure:"workers"`

	// Output selects the report format (pretty, plain, json).
	Output string `mapstructure:"output"`

	Logging LoggingConfig `mapstructure:"logging"`
}

// Load reads configuration using the given viper instance; pass nil to use
// a fresh one. Flag bindings made by the CLI on the shared global viper are
// picked up when that instance is passed in.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(xdg.ConfigHome, "depscan"))

	v.SetEnvPrefix("DEPSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	if cfg.IgnoreFile == "" {
		cfg.IgnoreFile = DefaultIgnoreFile
	}
	return &cfg, nil
}

// SetDefaults registers default values on a viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("ignore_patterns", DefaultIgnorePatterns)
	v.SetDefault("ignore_file", DefaultIgnoreFile)
	v.SetDefault("read_ignore_file", true)
	v.SetDefault("skip_missing", false)
	v.SetDefault("ignore_bin_packages", false)
	v.SetDefault("workers", 0)
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.components", map[string]string{})
}
