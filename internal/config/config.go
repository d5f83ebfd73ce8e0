// Package config handles configuration management using Viper
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// Directory holds the raw image assets
	Directory string `mapstructure:"directory"`

	// Basename is the asset file name prefix
	Basename string `mapstructure:"basename"`

	// LogLevel overrides the LOG_LEVEL env var when set
	LogLevel string `mapstructure:"log_level"`

	// Outputs maps derived connector keys (e.g. "hdmi_a1") to mode
	// override strings of the form "WxH" or "WxH@FORMAT"
	Outputs map[string]string `mapstructure:"outputs"`
}

var (
	// DefaultConfig provides sensible defaults
	DefaultConfig = Config{
		Directory: "/usr/share/splashd",
		Basename:  "splash",
		Outputs:   map[string]string{},
	}

	// Global config instance
	cfg *Config

	// Override config path if set
	configPathOverride string
)

// SetConfigPath allows overriding the config path
func SetConfigPath(path string) {
	configPathOverride = path
}

// Init initializes the configuration system
func Init() error {
	viper.SetConfigName("splashd")
	viper.SetConfigType("toml")

	if configPathOverride != "" {
		viper.SetConfigFile(configPathOverride)
	} else {
		// System config first, then the user's, then the current directory
		viper.AddConfigPath("/etc/splashd")
		if home := os.Getenv("HOME"); home != "" {
			viper.AddConfigPath(filepath.Join(home, ".config", "splashd"))
		}
		viper.AddConfigPath(".")
	}

	viper.SetDefault("directory", DefaultConfig.Directory)
	viper.SetDefault("basename", DefaultConfig.Basename)
	viper.SetDefault("log_level", DefaultConfig.LogLevel)
	viper.SetDefault("outputs", DefaultConfig.Outputs)

	// Both spellings work so shell scripts and initramfs hooks can use
	// whichever convention they already follow.
	viper.BindEnv("directory", "splashd_directory", "SPLASHD_DIRECTORY")
	viper.BindEnv("basename", "splashd_basename", "SPLASHD_BASENAME")

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	return nil
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		// Return defaults if not initialized
		return &DefaultConfig
	}
	return cfg
}

// Set sets the current configuration (for testing)
func Set(c *Config) {
	cfg = c
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if configPathOverride != "" {
		return configPathOverride
	}

	if viper.ConfigFileUsed() != "" {
		return viper.ConfigFileUsed()
	}

	if os.Getuid() == 0 {
		return "/etc/splashd/splashd.toml"
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "/etc/splashd/splashd.toml"
	}

	return filepath.Join(home, ".config", "splashd", "splashd.toml")
}

// Overrides is the per-output mode override source consumed by the splash
// engine: the environment wins (splashd_<key>_mode), then the [outputs]
// table of the config file.
type Overrides struct{}

// ModeOverride looks up the mode override for a derived connector key.
func (Overrides) ModeOverride(key string) (string, bool) {
	envName := "splashd_" + key + "_mode"
	if v := os.Getenv(envName); v != "" {
		return v, true
	}
	if v := os.Getenv(strings.ToUpper(envName)); v != "" {
		return v, true
	}
	if v, ok := Get().Outputs[key]; ok && v != "" {
		return v, true
	}
	return "", false
}
