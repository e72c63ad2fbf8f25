package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	gotoml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/teranos/barista/errors"
)

const starterHeader = `# barista configuration
# Precedence: /etc/barista/barista.toml < ~/.barista/barista.toml < ./barista.toml < BARISTA_* env vars

`

// createBackup creates rotating backups (.back1, .back2, .back3) before modifying config
func createBackup(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil
	}

	back3 := configPath + ".back3"
	back2 := configPath + ".back2"
	back1 := configPath + ".back1"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to delete oldest backup")
	}
	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}
	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := os.WriteFile(back1, content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}

// WriteStarter writes a config file holding every default.
// An existing file is only replaced when force is set, after a backup.
func WriteStarter(path string, force bool) error {
	if _, err := os.Stat(path); err == nil {
		if !force {
			return errors.WithHint(
				errors.NewInvalidArgumentError("config file %s already exists", path),
				"pass --force to overwrite it; the old file is kept as .back1")
		}
		if err := createBackup(path); err != nil {
			return errors.Wrap(err, "failed to create backup")
		}
	}

	var buf bytes.Buffer
	buf.WriteString(starterHeader)
	if err := toml.NewEncoder(&buf).Encode(Default()); err != nil {
		return errors.Wrap(err, "failed to encode starter config")
	}

	return writeFile(path, buf.Bytes())
}

// CheckFile parses path strictly and returns the keys barista does not know.
// Parse errors include the line and column.
func CheckFile(path string) ([]string, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}

	undecoded := md.Undecoded()
	var unknown []string
	for _, key := range undecoded {
		if !hasUndecodedChild(key, undecoded) {
			unknown = append(unknown, key.String())
		}
	}
	return unknown, nil
}

// hasUndecodedChild reports whether key is a table whose own keys are also
// undecoded, so only the leaves are reported.
func hasUndecodedChild(key toml.Key, undecoded []toml.Key) bool {
	prefix := key.String() + "."
	for _, other := range undecoded {
		if strings.HasPrefix(other.String(), prefix) {
			return true
		}
	}
	return false
}

// SetValue updates one dotted key in the config file at path, creating the
// file when missing. The value is converted to the type of the key's default.
func SetValue(path, key, raw string) error {
	key = strings.ToLower(key)

	defaults := viper.New()
	SetDefaults(defaults)
	def := defaults.Get(key)
	if def == nil {
		return errors.WithHint(
			errors.NewNotFoundError("unknown config key %q", key),
			"run 'barista config show' to list the keys")
	}

	value, err := convertValue(def, raw)
	if err != nil {
		return errors.Wrapf(err, "invalid value for %s", key)
	}

	doc := make(map[string]interface{})
	if data, err := os.ReadFile(path); err == nil {
		if err := gotoml.Unmarshal(data, &doc); err != nil {
			return errors.Wrapf(err, "failed to parse %s", path)
		}
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to read %s", path)
	}

	section, field, ok := strings.Cut(key, ".")
	if !ok {
		return errors.NewInvalidArgumentError("config key %q must be section.name", key)
	}
	table, ok := doc[section].(map[string]interface{})
	if !ok {
		table = make(map[string]interface{})
	}
	table[field] = value
	doc[section] = table

	data, err := gotoml.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := createBackup(path); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}
	return writeFile(path, data)
}

func convertValue(def interface{}, raw string) (interface{}, error) {
	switch def.(type) {
	case bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.NewInvalidArgumentError("%q is not a boolean", raw)
		}
		return b, nil
	case int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.NewInvalidArgumentError("%q is not an integer", raw)
		}
		return n, nil
	default:
		return raw, nil
	}
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
			return errors.Wrapf(err, "failed to create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

// DefaultPath is where 'config init' writes when no path is given
func DefaultPath() string {
	return FileName
}

// Describe renders a config file location for 'config where'
func (f FileInfo) Describe() string {
	state := "missing"
	if f.Exists {
		state = "found"
	}
	return fmt.Sprintf("%-8s %-8s %s", f.Source, state, f.Path)
}
