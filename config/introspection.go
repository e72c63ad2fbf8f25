package config

import (
	"os"
	"sort"
	"strings"

	"github.com/teranos/barista/errors"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceSystem      ConfigSource = "system"      // /etc/barista/barista.toml
	SourceUser        ConfigSource = "user"        // ~/.barista/barista.toml
	SourceProject     ConfigSource = "project"     // barista.toml found upward from the working directory
	SourceFlag        ConfigSource = "flag"        // --config
	SourceEnvironment ConfigSource = "environment" // BARISTA_* env vars
)

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource
	Path   string // File path or environment variable name
}

// configSources records, per dotted key, the last file that set it
var configSources = map[string]SourceInfo{}

// FileInfo describes one location in the config cascade
type FileInfo struct {
	Path   string       `json:"path"`
	Source ConfigSource `json:"source"`
	Exists bool         `json:"exists"`
}

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key"`
	Value      interface{}  `json:"value"`
	Source     ConfigSource `json:"source"`
	SourcePath string       `json:"source_path,omitempty"`
}

// Introspection describes the active configuration
type Introspection struct {
	Files    []FileInfo    `json:"files"`
	Settings []SettingInfo `json:"settings"`
}

// Introspect returns every effective setting with the source it came from
func Introspect() (*Introspection, error) {
	v, err := GetViper()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config for introspection")
	}

	result := &Introspection{
		Files:    candidateFiles(),
		Settings: make([]SettingInfo, 0),
	}
	flattenSettings(v.AllSettings(), "", result)
	return result, nil
}

func trackSources(settings map[string]interface{}, prefix string, info SourceInfo) {
	for key, value := range settings {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := value.(map[string]interface{}); ok {
			trackSources(nested, fullKey, info)
			continue
		}
		configSources[fullKey] = info
	}
}

func flattenSettings(settings map[string]interface{}, prefix string, result *Introspection) {
	// Sort keys for deterministic output
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := settings[key]
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]interface{}); ok {
			flattenSettings(nested, fullKey, result)
			continue
		}

		info := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := configSources[fullKey]; ok {
			info = si
		}

		envKey := EnvVarName(fullKey)
		if _, ok := os.LookupEnv(envKey); ok {
			info = SourceInfo{Source: SourceEnvironment, Path: envKey}
		}

		result.Settings = append(result.Settings, SettingInfo{
			Key:        fullKey,
			Value:      value,
			Source:     info.Source,
			SourcePath: info.Path,
		})
	}
}

// EnvVarName returns the environment variable that overrides key
func EnvVarName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
