// Package config loads settings shared by the check plugin and the API server.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/restartfu/f2pool-check/internal/adapters/f2pool"
)

// Config is read from defaults, then an optional TOML file, then the environment.
type Config struct {
	Pool   PoolConfig   `toml:"pool"`
	Log    LogConfig    `toml:"log"`
	Server ServerConfig `toml:"server"`
}

type PoolConfig struct {
	URL       string   `toml:"url" validate:"required,url"`
	UserAgent string   `toml:"user_agent" validate:"required"`
	Timeout   Duration `toml:"timeout" validate:"gt=0"`
}

type LogConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
}

type ServerConfig struct {
	Addr string `toml:"addr" validate:"required"`
}

// Duration decodes Go duration strings such as "10s".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func DefaultConfig() *Config {
	return &Config{
		Pool: PoolConfig{
			URL:       f2pool.DefaultURL,
			UserAgent: f2pool.DefaultUserAgent,
			Timeout:   Duration(10 * time.Second),
		},
		Log: LogConfig{
			Level: "warn",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load builds the configuration. path may be empty.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if err := cfg.LoadFromFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) LoadFromFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown config keys in %s: %v", path, undecoded)
	}
	return nil
}

func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := strings.TrimSpace(getenv("F2POOL_CHECK_URL")); v != "" {
		c.Pool.URL = v
	}
	if v := strings.TrimSpace(getenv("F2POOL_CHECK_LOG_LEVEL")); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(getenv("F2POOL_CHECK_TIMEOUT")); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid F2POOL_CHECK_TIMEOUT: %w", err)
		}
		c.Pool.Timeout = Duration(parsed)
	}
	return nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
