package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/barista/errors"
)

var globalConfig *Config
var viperInstance *viper.Viper

// explicitFile is set by --config and replaces the project file in the cascade
var explicitFile string

// systemConfigPath is the lowest-precedence config file
var systemConfigPath = filepath.Join("/etc", "barista", FileName)

// Load reads the barista configuration using Viper.
// Precedence (lowest to highest): defaults, system, user, project or --config file, env vars.
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v, err := initViper()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}

	globalConfig = cfg
	return globalConfig, nil
}

// SetConfigFile makes the next Load read path instead of the project config.
// The file must exist.
func SetConfigFile(path string) {
	explicitFile = path
	globalConfig = nil
	viperInstance = nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() (*viper.Viper, error) {
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path, on top of the
// defaults only
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	// Set defaults but don't bind environment variables for this specific load
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal config from %s", configPath)
	}

	return &config, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
	explicitFile = ""
	configSources = map[string]SourceInfo{}
}

// initViper initializes Viper with configuration sources and defaults
func initViper() (*viper.Viper, error) {
	if viperInstance != nil {
		return viperInstance, nil
	}

	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	BindEnvVars(v)

	SetDefaults(v)

	if err := mergeConfigFiles(v); err != nil {
		return nil, err
	}

	viperInstance = v
	return v, nil
}

// userConfigPath returns ~/.barista/barista.toml, or "" without a home directory
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".barista", FileName)
}

// findProjectConfig searches for barista.toml by walking up the directory tree.
// Returns the path to the first config file found, or empty string if none found.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// candidateFiles lists config files in precedence order, lowest first
func candidateFiles() []FileInfo {
	files := []FileInfo{{Path: systemConfigPath, Source: SourceSystem}}
	if user := userConfigPath(); user != "" {
		files = append(files, FileInfo{Path: user, Source: SourceUser})
	}

	if explicitFile != "" {
		files = append(files, FileInfo{Path: explicitFile, Source: SourceFlag})
	} else if project := findProjectConfig(); project != "" {
		files = append(files, FileInfo{Path: project, Source: SourceProject})
	}

	for i := range files {
		if _, err := os.Stat(files[i].Path); err == nil {
			files[i].Exists = true
		}
	}
	return files
}

// mergeConfigFiles merges configuration files in precedence order.
// Files are merged into the config layer, so environment variables still win.
func mergeConfigFiles(v *viper.Viper) error {
	configSources = map[string]SourceInfo{}

	for _, file := range candidateFiles() {
		if !file.Exists {
			if file.Source == SourceFlag {
				return errors.WithHint(
					errors.NewNotFoundError("config file %s does not exist", file.Path),
					"run 'barista config init' to create one")
			}
			continue
		}

		fileViper := viper.New()
		fileViper.SetConfigFile(file.Path)
		fileViper.SetConfigType("toml")
		if err := fileViper.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read config file %s", file.Path)
		}

		settings := fileViper.AllSettings()
		if err := v.MergeConfigMap(settings); err != nil {
			return errors.Wrapf(err, "failed to merge config file %s", file.Path)
		}
		trackSources(settings, "", SourceInfo{Source: file.Source, Path: file.Path})
	}

	return nil
}

// Files returns every location the cascade looks at, in precedence order
func Files() []FileInfo {
	return candidateFiles()
}
