package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTempHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origConfig, origData := xdg.ConfigHome, xdg.DataHome
	xdg.ConfigHome = filepath.Join(dir, "config")
	xdg.DataHome = filepath.Join(dir, "data")
	t.Cleanup(func() {
		xdg.ConfigHome = origConfig
		xdg.DataHome = origData
	})
	return dir
}

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	withTempHome(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.False(t, Exists())
}

func TestSaveAndLoad(t *testing.T) {
	withTempHome(t)

	cfg := DefaultConfig()
	cfg.Table.PageSize = 25
	cfg.API.BaseURL = "https://calls.example.com/api"
	cfg.General.Timezone = "UTC"
	require.NoError(t, Save(cfg))
	assert.True(t, Exists())

	info, err := os.Stat(ConfigPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	withTempHome(t)
	require.NoError(t, os.MkdirAll(ConfigDir(), 0o750))
	require.NoError(t, os.WriteFile(ConfigPath(), []byte("[table]\npage_size = 50\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Table.PageSize)
	assert.Equal(t, 30, cfg.General.DefaultDays)
	assert.Equal(t, "127.0.0.1:8787", cfg.Daemon.Addr)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	withTempHome(t)
	require.NoError(t, os.MkdirAll(ConfigDir(), 0o750))
	require.NoError(t, os.WriteFile(ConfigPath(), []byte("[table]\npage_size = 0\n"), 0o600))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page_size")
}

func TestLoad_MalformedTOML(t *testing.T) {
	withTempHome(t)
	require.NoError(t, os.MkdirAll(ConfigDir(), 0o750))
	require.NoError(t, os.WriteFile(ConfigPath(), []byte("[table\n"), 0o600))

	_, err := Load()
	assert.ErrorContains(t, err, "parsing config")
}

func TestGetAPIToken(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.Token = "from-config"

	t.Setenv(EnvAPIToken, "")
	assert.Equal(t, "from-config", GetAPIToken(cfg))

	t.Setenv(EnvAPIToken, "from-env")
	assert.Equal(t, "from-env", GetAPIToken(cfg))
}

func TestDataDir(t *testing.T) {
	withTempHome(t)
	cfg := DefaultConfig()

	t.Setenv(EnvDataDir, "")
	assert.Equal(t, DefaultDataDir(), DataDir(cfg))

	cfg.General.DataDir = "/srv/calls"
	assert.Equal(t, "/srv/calls", DataDir(cfg))

	t.Setenv(EnvDataDir, "/tmp/override")
	assert.Equal(t, "/tmp/override", DataDir(cfg))
}

func TestLoadEnvDoesNotOverrideEnvironment(t *testing.T) {
	withTempHome(t)
	require.NoError(t, os.MkdirAll(ConfigDir(), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(ConfigDir(), ".env"),
		[]byte(EnvAPIToken+"=dotenv-token\n"), 0o600))

	t.Chdir(t.TempDir())
	t.Setenv(EnvAPIToken, "shell-token")
	LoadEnv()
	assert.Equal(t, "shell-token", os.Getenv(EnvAPIToken))
}

func TestLocationAndRefresh(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, time.Local, Location(cfg))
	cfg.General.Timezone = "UTC"
	assert.Equal(t, time.UTC, Location(cfg))

	cfg.TUI.RefreshIntervalSec = 1
	assert.Equal(t, 5*time.Second, RefreshInterval(cfg))
	cfg.TUI.RefreshIntervalSec = 60
	assert.Equal(t, time.Minute, RefreshInterval(cfg))
}
