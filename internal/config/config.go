package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jask/marsestate/internal/listing"
)

// Config holds application configuration.
type Config struct {
	API APIConfig
	UI  UIConfig
	Log LogConfig
}

// APIConfig holds listings service settings.
type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	CurrencySymbol string `mapstructure:"currency_symbol"`
	DefaultFilter  string `mapstructure:"default_filter"`
}

// LogConfig holds logging settings. An empty Path means stderr.
type LogConfig struct {
	Path  string
	Level string
}

// Filter parses UI.DefaultFilter.
func (c Config) Filter() (listing.Filter, error) {
	return listing.ParseFilter(c.UI.DefaultFilter)
}

// Path returns the config file location: $MARSESTATE_CONFIG or ~/.config/marsestate/config.toml.
func Path() string {
	if p := os.Getenv("MARSESTATE_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "marsestate", "config.toml")
}

func newViper() *viper.Viper {
	v := viper.New()

	// default values
	v.SetDefault("api.base_url", "https://android-kotlin-fun-mars-server.appspot.com")
	v.SetDefault("api.timeout", "15s")
	v.SetDefault("api.user_agent", "marsestate")
	v.SetDefault("ui.currency_symbol", "$")
	v.SetDefault("ui.default_filter", "all")
	v.SetDefault("log.path", filepath.Join(os.Getenv("HOME"), ".local", "state", "marsestate", "marsestate.log"))
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")
	v.SetEnvPrefix("MARSESTATE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Defaults returns the built-in configuration with env overrides applied.
func Defaults() (Config, error) {
	return decode(newViper())
}

// Load reads configuration from file and env. Env var overrides use prefix MARSESTATE_.
// An explicit path that does not exist is an error; a missing default file is not.
func Load(path string) (Config, error) {
	v := newViper()

	explicit := path != ""
	if !explicit {
		path = Path()
		explicit = os.Getenv("MARSESTATE_CONFIG") != ""
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return decode(v)
}

func decode(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if _, err := c.Filter(); err != nil {
		return Config{}, fmt.Errorf("ui.default_filter: %w", err)
	}
	return c, nil
}

// Save writes the provided config to path, creating the config directory if needed.
func Save(path string, cfg Config) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.timeout", cfg.API.Timeout.String())
	v.Set("api.user_agent", cfg.API.UserAgent)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)
	v.Set("ui.default_filter", cfg.UI.DefaultFilter)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
