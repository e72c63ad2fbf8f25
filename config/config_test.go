package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/barista/errors"
)

// isolate points every cascade location at an empty temp tree
func isolate(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	home := filepath.Join(root, "home")
	work := filepath.Join(root, "work")
	require.NoError(t, os.MkdirAll(home, 0750))
	require.NoError(t, os.MkdirAll(work, 0750))

	t.Setenv("HOME", home)
	t.Chdir(work)

	prev := systemConfigPath
	systemConfigPath = filepath.Join(root, "etc", FileName)
	t.Cleanup(func() {
		systemConfigPath = prev
		Reset()
	})
	Reset()
	return root
}

func writeTOML(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoad_Defaults(t *testing.T) {
	// Isolated viper instance without loading user/system config
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, DefaultSalesFile, cfg.Sales.File)
	assert.True(t, cfg.Sales.Seed)
	assert.Equal(t, 500*time.Millisecond, cfg.Sales.WatchDebounce())
	assert.Equal(t, 5, cfg.Display.RecentRows)
	assert.Equal(t, FormatTable, cfg.Display.Format)
	assert.False(t, cfg.Log.JSON)
	assert.True(t, cfg.Log.Color)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(*Config) {}, false},
		{"empty sales file", func(c *Config) { c.Sales.File = "" }, true},
		{"zero debounce uses default", func(c *Config) { c.Sales.WatchDebounceMS = 0 }, false},
		{"negative debounce", func(c *Config) { c.Sales.WatchDebounceMS = -1 }, true},
		{"zero recent rows", func(c *Config) { c.Display.RecentRows = 0 }, true},
		{"json format", func(c *Config) { c.Display.Format = FormatJSON }, false},
		{"unknown format", func(c *Config) { c.Display.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsInvalidArgumentError(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_Cascade(t *testing.T) {
	root := isolate(t)

	writeTOML(t, systemConfigPath, "[sales]\nfile = \"/srv/system.csv\"\n[display]\nrecent_rows = 9\n")
	writeTOML(t, filepath.Join(root, "home", ".barista", FileName), "[display]\nrecent_rows = 7\n")
	writeTOML(t, filepath.Join(root, FileName), "[log]\njson = true\n")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/system.csv", cfg.Sales.File, "system file applies when nothing overrides it")
	assert.Equal(t, 7, cfg.Display.RecentRows, "user overrides system")
	assert.True(t, cfg.Log.JSON, "project file found by upward search")
	assert.True(t, cfg.Sales.Seed, "untouched keys keep defaults")
}

func TestLoad_EnvOverridesFiles(t *testing.T) {
	root := isolate(t)
	writeTOML(t, filepath.Join(root, "work", FileName), "[sales]\nfile = \"project.csv\"\nseed = true\n")

	t.Setenv("BARISTA_SALES_FILE", "env.csv")
	t.Setenv("BARISTA_SALES_SEED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "env.csv", cfg.Sales.File)
	assert.False(t, cfg.Sales.Seed)
}

func TestLoad_Cached(t *testing.T) {
	isolate(t)

	first, err := Load()
	require.NoError(t, err)
	second, err := Load()
	require.NoError(t, err)
	assert.Same(t, first, second)

	Reset()
	third, err := Load()
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}

func TestSetConfigFile(t *testing.T) {
	root := isolate(t)
	writeTOML(t, filepath.Join(root, "work", FileName), "[display]\nrecent_rows = 3\n")

	custom := filepath.Join(root, "custom.toml")
	writeTOML(t, custom, "[display]\nformat = \"json\"\n")

	SetConfigFile(custom)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, cfg.Display.Format)
	assert.Equal(t, DefaultRecentRows, cfg.Display.RecentRows, "--config replaces the project file")
}

func TestSetConfigFile_Missing(t *testing.T) {
	root := isolate(t)

	SetConfigFile(filepath.Join(root, "nope.toml"))
	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestLoad_MalformedFile(t *testing.T) {
	root := isolate(t)
	writeTOML(t, filepath.Join(root, "work", FileName), "[sales\nfile = ")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "barista.toml")
	writeTOML(t, path, "[sales]\nwatch_debounce_ms = 250\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.Sales.WatchDebounce())
	assert.Equal(t, DefaultSalesFile, cfg.Sales.File)
}

func TestIntrospect(t *testing.T) {
	root := isolate(t)
	project := filepath.Join(root, "work", FileName)
	writeTOML(t, project, "[display]\nrecent_rows = 8\n")
	t.Setenv("BARISTA_LOG_JSON", "true")

	info, err := Introspect()
	require.NoError(t, err)

	bySetting := map[string]SettingInfo{}
	for _, s := range info.Settings {
		bySetting[s.Key] = s
	}

	assert.Equal(t, SourceProject, bySetting["display.recent_rows"].Source)
	assert.Equal(t, project, bySetting["display.recent_rows"].SourcePath)
	assert.Equal(t, SourceEnvironment, bySetting["log.json"].Source)
	assert.Equal(t, "BARISTA_LOG_JSON", bySetting["log.json"].SourcePath)
	assert.Equal(t, SourceDefault, bySetting["sales.file"].Source)

	require.Len(t, info.Files, 3)
	assert.Equal(t, SourceSystem, info.Files[0].Source)
	assert.False(t, info.Files[0].Exists)
	assert.Equal(t, SourceProject, info.Files[2].Source)
	assert.True(t, info.Files[2].Exists)
}

func TestEnvVarName(t *testing.T) {
	assert.Equal(t, "BARISTA_SALES_WATCH_DEBOUNCE_MS", EnvVarName("sales.watch_debounce_ms"))
}

func TestWriteStarter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", FileName)

	require.NoError(t, WriteStarter(path, false))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	unknown, err := CheckFile(path)
	require.NoError(t, err)
	assert.Empty(t, unknown)

	err = WriteStarter(path, false)
	require.Error(t, err)
	assert.NotEmpty(t, errors.GetAllHints(err))

	require.NoError(t, WriteStarter(path, true))
	_, err = os.Stat(path + ".back1")
	assert.NoError(t, err)
}

func TestCheckFile_UnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeTOML(t, path, "[sales]\nfile = \"x.csv\"\nfiel = \"typo.csv\"\n[server]\nport = 877\n")

	unknown, err := CheckFile(path)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"sales.fiel", "server.port"}, unknown)
}

func TestSetValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	require.NoError(t, SetValue(path, "display.recent_rows", "12"))
	require.NoError(t, SetValue(path, "sales.seed", "false"))
	require.NoError(t, SetValue(path, "Sales.File", "shop.csv"))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Display.RecentRows)
	assert.False(t, cfg.Sales.Seed)
	assert.Equal(t, "shop.csv", cfg.Sales.File)

	_, err = os.Stat(path + ".back1")
	assert.NoError(t, err, "every update keeps a backup")
}

func TestSetValue_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	err := SetValue(path, "server.port", "877")
	assert.True(t, errors.IsNotFoundError(err))

	err = SetValue(path, "display.recent_rows", "lots")
	assert.True(t, errors.IsInvalidArgumentError(err))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCreateBackupRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	for i := 1; i <= 4; i++ {
		writeTOML(t, path, "# version "+string(rune('0'+i))+"\n")
		require.NoError(t, createBackup(path))
	}

	got, err := os.ReadFile(path + ".back1")
	require.NoError(t, err)
	assert.Equal(t, "# version 4\n", string(got))

	got, err = os.ReadFile(path + ".back3")
	require.NoError(t, err)
	assert.Equal(t, "# version 2\n", string(got))
}

func TestCheckFile_ReportsLeafKeysOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeTOML(t, path, "[server]\nport = 877\n[server.tls]\ncert = \"c.pem\"\n[extra]\n")

	unknown, err := CheckFile(path)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"server.port", "server.tls.cert", "extra"}, unknown)
}
