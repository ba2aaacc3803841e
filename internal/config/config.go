// Package config resolves runtime settings from defaults, an optional
// recipetracker.yaml file and RECIPETRACKER_* environment variables, in
// increasing order of precedence. Command-line flags are applied on top by
// the caller.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// RECIPETRACKER_SERVER_URL.
const EnvPrefix = "RECIPETRACKER"

// FileName is the config file base name searched for when no explicit
// path is given.
const FileName = "recipetracker"

// Config holds every runtime setting.
type Config struct {
	Server ServerConfig `json:"server"`
	State  StateConfig  `json:"state"`
	Log    LogConfig    `json:"log"`

	// File is the config file that was read, empty when none was found.
	File string `json:"file,omitempty"`
}

// ServerConfig locates the recipe store API.
type ServerConfig struct {
	URL     string        `json:"url"`
	Timeout time.Duration `json:"timeout"`
}

// StateConfig locates the local preference database.
type StateConfig struct {
	Path string `json:"path"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

var keys = []string{
	"server.url",
	"server.timeout",
	"state.path",
	"log.level",
	"log.format",
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Server: ServerConfig{URL: "http://localhost:8080", Timeout: 30 * time.Second},
		State:  StateConfig{Path: DefaultStatePath()},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// DefaultStatePath returns the per-user location of the preference
// database.
func DefaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".recipetracker.db"
	}
	return filepath.Join(dir, "recipetracker", "state.db")
}

// Load resolves the configuration. When path is empty, recipetracker.yaml
// is looked up in the working directory and the user config directory and
// is optional; an explicit path must exist. The merged result is not
// validated: callers apply their own overrides first, then call Validate.
func Load(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return cfg, fmt.Errorf("bind env %s: %w", k, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "recipetracker"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	} else {
		cfg.File = v.ConfigFileUsed()
	}

	if v.IsSet("server.url") {
		cfg.Server.URL = v.GetString("server.url")
	}
	if v.IsSet("server.timeout") {
		cfg.Server.Timeout = v.GetDuration("server.timeout")
	}
	if v.IsSet("state.path") {
		cfg.State.Path = v.GetString("state.path")
	}
	if v.IsSet("log.level") {
		cfg.Log.Level = v.GetString("log.level")
	}
	if v.IsSet("log.format") {
		cfg.Log.Format = v.GetString("log.format")
	}

	return cfg, nil
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	u, err := url.Parse(c.Server.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid server.url %q: must be an http(s) URL", c.Server.URL)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("invalid server.timeout %s: must be positive", c.Server.Timeout)
	}
	if strings.TrimSpace(c.State.Path) == "" {
		return errors.New("state.path is required")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log.format %q: must be text or json", c.Log.Format)
	}
	return nil
}

// SlogLevel parses the configured level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return level, fmt.Errorf("invalid log.level %q: %w", l.Level, err)
	}
	return level, nil
}
