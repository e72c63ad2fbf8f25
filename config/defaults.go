package config

import (
	"github.com/spf13/viper"
)

// Default values
const (
	DefaultSalesFile       = "sales_history.csv"
	DefaultWatchDebounceMS = 500
	DefaultRecentRows      = 5 // matches the five rows shown after a write

	DefaultDirPermissions  = 0750
	DefaultFilePermissions = 0644

	// EnvPrefix is prepended to every environment override
	EnvPrefix = "BARISTA"
	// FileName is the config file searched for in each location
	FileName = "barista.toml"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("sales.file", DefaultSalesFile)
	v.SetDefault("sales.seed", true)
	v.SetDefault("sales.watch_debounce_ms", DefaultWatchDebounceMS)

	v.SetDefault("display.recent_rows", DefaultRecentRows)
	v.SetDefault("display.format", FormatTable)

	v.SetDefault("log.json", false)
	v.SetDefault("log.color", true)
}

// BindEnvVars binds every setting to its BARISTA_* variable explicitly, so
// Unmarshal sees them even when no file mentions the key.
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("sales.file", "BARISTA_SALES_FILE")
	v.BindEnv("sales.seed", "BARISTA_SALES_SEED")
	v.BindEnv("sales.watch_debounce_ms", "BARISTA_SALES_WATCH_DEBOUNCE_MS")
	v.BindEnv("display.recent_rows", "BARISTA_DISPLAY_RECENT_ROWS")
	v.BindEnv("display.format", "BARISTA_DISPLAY_FORMAT")
	v.BindEnv("log.json", "BARISTA_LOG_JSON")
	v.BindEnv("log.color", "BARISTA_LOG_COLOR")
}

// Default returns the configuration with only defaults applied
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// Defaults always unmarshal
		panic(err)
	}
	return cfg
}
