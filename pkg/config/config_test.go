package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.FatalLevel)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 64, cfg.Server.MaxLimit)
	assert.Equal(t, 10, cfg.Server.DefaultLimit)
	assert.Equal(t, 1, cfg.Server.MinPrefix)
	assert.Equal(t, CodecMsgpack, cfg.Server.Codec)
	assert.Equal(t, 1024, cfg.Catalogue.HotCacheSize)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestInitConfigCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[server]
max_limit = 20
default_limit = 5
codec = "json"

[catalogue]
path = "/data/cities.txt"
verify_sorted = true

[log]
level = "debug"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Server.MaxLimit)
	assert.Equal(t, 5, cfg.Server.DefaultLimit)
	assert.Equal(t, CodecJSON, cfg.Server.Codec)
	assert.Equal(t, "/data/cities.txt", cfg.Catalogue.Path)
	assert.True(t, cfg.Catalogue.VerifySorted)
	assert.Equal(t, "debug", cfg.Log.Level)
	// untouched keys keep their defaults
	assert.Equal(t, 200, cfg.Server.MaxPrefix)
	assert.Equal(t, 1024, cfg.Catalogue.HotCacheSize)
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	path := writeConfig(t, `
[server]
max_limit = "ten"
min_prefix = 2

[cli]
default_limit = 7
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.Server.MaxLimit, "bad value falls back to default")
	assert.Equal(t, 2, cfg.Server.MinPrefix)
	assert.Equal(t, 7, cfg.CLI.DefaultLimit)
}

func TestLoadConfigUnparseable(t *testing.T) {
	path := writeConfig(t, "[server\nmax_limit = = 3\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*Config)
		check  func(*testing.T, *Config)
	}{
		{
			name:   "zero max limit",
			modify: func(c *Config) { c.Server.MaxLimit = 0 },
			check:  func(t *testing.T, c *Config) { assert.Equal(t, 64, c.Server.MaxLimit) },
		},
		{
			name:   "default limit above max",
			modify: func(c *Config) { c.Server.MaxLimit = 4; c.Server.DefaultLimit = 9 },
			check:  func(t *testing.T, c *Config) { assert.Equal(t, 4, c.Server.DefaultLimit) },
		},
		{
			name:   "max prefix below min",
			modify: func(c *Config) { c.Server.MinPrefix = 3; c.Server.MaxPrefix = 2 },
			check:  func(t *testing.T, c *Config) { assert.Equal(t, 200, c.Server.MaxPrefix) },
		},
		{
			name:   "unknown codec",
			modify: func(c *Config) { c.Server.Codec = "xml" },
			check:  func(t *testing.T, c *Config) { assert.Equal(t, CodecMsgpack, c.Server.Codec) },
		},
		{
			name:   "negative cache size",
			modify: func(c *Config) { c.Catalogue.HotCacheSize = -1 },
			check:  func(t *testing.T, c *Config) { assert.Equal(t, 0, c.Catalogue.HotCacheSize) },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(cfg)
			cfg.normalize()
			tc.check(t, cfg)
		})
	}
}

func TestUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()

	maxLimit, enable := 30, true
	require.NoError(t, cfg.Update(path, &maxLimit, nil, nil, &enable))

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 30, reloaded.Server.MaxLimit)
	assert.True(t, reloaded.Server.EnableFilter)
	assert.Equal(t, 1, reloaded.Server.MinPrefix)
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := writeConfig(t, "[server]\nmax_limit = 12\n")

	cfg, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 12, cfg.Server.MaxLimit)
}

func TestRebuildConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, ".config", "typeahead", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("[server]\nmax_limit = 3\n"), 0644))

	require.NoError(t, RebuildConfigFile())
	assert.Equal(t, path, GetActiveConfigPath(""))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestGetActiveConfigPathAbsolute(t *testing.T) {
	got := GetActiveConfigPath("custom.toml")
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, "custom.toml", filepath.Base(got))
}
