// Package config loads barista settings from TOML files and BARISTA_*
// environment variables.
package config

import "time"

// Config represents the barista configuration
type Config struct {
	Sales   SalesConfig   `mapstructure:"sales" toml:"sales" json:"sales" yaml:"sales"`
	Display DisplayConfig `mapstructure:"display" toml:"display" json:"display" yaml:"display"`
	Log     LogConfig     `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
}

// SalesConfig configures the sales history file
type SalesConfig struct {
	File            string `mapstructure:"file" toml:"file" json:"file" yaml:"file"`
	Seed            bool   `mapstructure:"seed" toml:"seed" json:"seed" yaml:"seed"`                                                         // write the default history when the file is missing
	WatchDebounceMS int    `mapstructure:"watch_debounce_ms" toml:"watch_debounce_ms" json:"watch_debounce_ms" yaml:"watch_debounce_ms"` // 0 = watcher default
}

// WatchDebounce returns the watcher quiet period as a duration
func (s SalesConfig) WatchDebounce() time.Duration {
	return time.Duration(s.WatchDebounceMS) * time.Millisecond
}

// DisplayConfig configures terminal output
type DisplayConfig struct {
	RecentRows int    `mapstructure:"recent_rows" toml:"recent_rows" json:"recent_rows" yaml:"recent_rows"` // rows shown after add
	Format     string `mapstructure:"format" toml:"format" json:"format" yaml:"format"`                     // table | json
}

// LogConfig configures the logger
type LogConfig struct {
	JSON  bool `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
	Color bool `mapstructure:"color" toml:"color" json:"color" yaml:"color"`
}

// Output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
)
