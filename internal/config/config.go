// Package config is scrawl's ambient configuration layer, grounded on the
// teacher's internal/config/config.go: a Viper-backed YAML file at
// ~/.config/scrawl/config.yaml, read with the teacher's "::" key
// delimiter so theme tokens like "node::selected" can be literal map keys
// rather than nested paths.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// ThemeConfig names the Lip Gloss styles the renderer applies (spec.md
// §4.5: inverted style for stricken nodes, a distinguishing marker plus
// bold for the selected node).
type ThemeConfig struct {
	NormalFG    string `mapstructure:"normal_fg"`
	SelectedFG  string `mapstructure:"selected_fg"`
	StrickenFG  string `mapstructure:"stricken_fg"`
	ArrowFG     string `mapstructure:"arrow_fg"`
	LogHeaderBG string `mapstructure:"log_header_bg"`
}

// GPSConfig configures the out-of-scope GPS probe collaborator
// (SPEC_FULL.md §2.13).
type GPSConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Config is scrawl's full ambient configuration.
type Config struct {
	Theme             ThemeConfig   `mapstructure:"theme"`
	AutosaveInterval  time.Duration `mapstructure:"autosave_interval"`
	GPS               GPSConfig     `mapstructure:"gps"`
	Debug             bool          `mapstructure:"debug"`
	DebugLogPath      string        `mapstructure:"debug_log_path"`
	HistoryDBPath     string        `mapstructure:"history_db_path"`
	TracingEnabled    bool          `mapstructure:"tracing_enabled"`
}

// Defaults returns scrawl's built-in configuration, used both as Viper
// defaults and as the zero-config fallback.
func Defaults() Config {
	return Config{
		Theme: ThemeConfig{
			NormalFG:    "255",
			SelectedFG:  "212",
			StrickenFG:  "240",
			ArrowFG:     "39",
			LogHeaderBG: "236",
		},
		AutosaveInterval: 2 * time.Second,
		GPS: GPSConfig{
			Endpoint: "https://ipinfo.io/loc",
			Timeout:  3 * time.Second,
		},
		Debug:          false,
		DebugLogPath:   "",
		HistoryDBPath:  "",
		TracingEnabled: false,
	}
}

// DefaultPath returns ~/.config/scrawl/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "scrawl", "config.yaml"), nil
}

// Load reads configuration from path (or the default path, if empty),
// layering it over Defaults(). A missing file is not an error: it simply
// means every value comes from Defaults().
func Load(path string) (Config, error) {
	defaults := Defaults()

	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	v.SetDefault("theme::normal_fg", defaults.Theme.NormalFG)
	v.SetDefault("theme::selected_fg", defaults.Theme.SelectedFG)
	v.SetDefault("theme::stricken_fg", defaults.Theme.StrickenFG)
	v.SetDefault("theme::arrow_fg", defaults.Theme.ArrowFG)
	v.SetDefault("theme::log_header_bg", defaults.Theme.LogHeaderBG)
	v.SetDefault("autosave_interval", defaults.AutosaveInterval)
	v.SetDefault("gps::endpoint", defaults.GPS.Endpoint)
	v.SetDefault("gps::timeout", defaults.GPS.Timeout)
	v.SetDefault("debug", defaults.Debug)
	v.SetDefault("tracing_enabled", defaults.TracingEnabled)

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return defaults, err
		}
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return defaults, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return defaults, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return defaults, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
