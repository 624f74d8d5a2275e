// Package config loads and saves callboard settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

// Environment overrides.
const (
	EnvAPIToken = "CALLBOARD_API_TOKEN"
	EnvDataDir  = "CALLBOARD_DATA_DIR"
)

// Config holds all callboard configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Table      TableConfig      `toml:"table"`
	API        APIConfig        `toml:"api"`
	Daemon     DaemonConfig     `toml:"daemon"`
	TUI        TUIConfig        `toml:"tui"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DataDir     string `toml:"data_dir,omitempty"`
	DefaultDays int    `toml:"default_days"`
	Timezone    string `toml:"timezone,omitempty"`
}

// TableConfig holds call table defaults.
type TableConfig struct {
	PageSize int `toml:"page_size"`
}

// APIConfig holds remote call-log API settings.
type APIConfig struct {
	BaseURL string `toml:"base_url,omitempty"`
	Token   string `toml:"token,omitempty"`
}

// DaemonConfig holds background daemon settings.
type DaemonConfig struct {
	Addr         string `toml:"addr"`
	IntervalSec  int    `toml:"interval_sec"`
	EventsBuffer int    `toml:"events_buffer"`
	// AllowedOrigins enables CORS for browser dashboards reading the API.
	AllowedOrigins []string `toml:"allowed_origins,omitempty"`
}

// TUIConfig holds dashboard settings.
type TUIConfig struct {
	AutoRefresh        bool `toml:"auto_refresh"`
	RefreshIntervalSec int  `toml:"refresh_interval_sec"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultDays: 30,
		},
		Table: TableConfig{
			PageSize: 10,
		},
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8787",
			IntervalSec:  15,
			EventsBuffer: 200,
		},
		TUI: TUIConfig{
			AutoRefresh:        true,
			RefreshIntervalSec: 30,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, "callboard")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DefaultDataDir is where exports are read from when nothing else is set.
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, "callboard", "calls")
}

// LoadEnv loads the first .env file found in the working directory or the
// config directory. Variables already set in the environment win.
func LoadEnv() {
	var paths []string
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}
	paths = append(paths, filepath.Join(ConfigDir(), ".env"))

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", ConfigPath(), err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Validate rejects values no component can work with.
func (c Config) Validate() error {
	var errs []error
	if c.Table.PageSize < 1 {
		errs = append(errs, fmt.Errorf("table.page_size must be at least 1, got %d", c.Table.PageSize))
	}
	if c.General.DefaultDays < 0 {
		errs = append(errs, fmt.Errorf("general.default_days must not be negative, got %d", c.General.DefaultDays))
	}
	if c.General.Timezone != "" {
		if _, err := time.LoadLocation(c.General.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("general.timezone: %w", err))
		}
	}
	return errors.Join(errs...)
}

// GetAPIToken returns the API token from env var or config, in that order.
func GetAPIToken(cfg Config) string {
	if tok := os.Getenv(EnvAPIToken); tok != "" {
		return tok
	}
	return cfg.API.Token
}

// DataDir resolves the export directory: env var, then config, then default.
// A leading ~ expands to the home directory.
func DataDir(cfg Config) string {
	dir := os.Getenv(EnvDataDir)
	if dir == "" {
		dir = cfg.General.DataDir
	}
	if dir == "" {
		return DefaultDataDir()
	}
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
		}
	}
	return dir
}

// Location returns the configured time zone, or the local one.
func Location(cfg Config) *time.Location {
	if cfg.General.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(cfg.General.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// RefreshInterval returns the TUI auto-refresh period, never below 5s.
func RefreshInterval(cfg Config) time.Duration {
	d := time.Duration(cfg.TUI.RefreshIntervalSec) * time.Second
	if d < 5*time.Second {
		return 5 * time.Second
	}
	return d
}
