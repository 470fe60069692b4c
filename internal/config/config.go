// Package config loads simpledatavis settings from a TOML or YAML file.
package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/vabarbosa/simple-data-vis/pkg/cache"
	"github.com/vabarbosa/simple-data-vis/pkg/errors"
	"github.com/vabarbosa/simple-data-vis/pkg/options"
)

const (
	appName = "simpledatavis"

	// EnvPath names a config file that replaces the XDG lookup.
	EnvPath = "SIMPLEDATAVIS_CONFIG"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Duration is a time.Duration written as "10s" in config files.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config holds every configurable setting.
type Config struct {
	Width   float64           `toml:"width" yaml:"width"`
	Height  float64           `toml:"height" yaml:"height"`
	Timeout Duration          `toml:"timeout" yaml:"timeout"`
	Headers map[string]string `toml:"headers" yaml:"headers"`
	Cache   CacheConfig       `toml:"cache" yaml:"cache"`
	Server  ServerConfig      `toml:"server" yaml:"server"`

	// Defaults are chart options applied before per-request options.
	Defaults map[string]any `toml:"defaults" yaml:"defaults"`
}

// CacheConfig selects and configures the response cache.
type CacheConfig struct {
	Backend   string   `toml:"backend" yaml:"backend"`
	Dir       string   `toml:"dir" yaml:"dir"`
	TTL       Duration `toml:"ttl" yaml:"ttl"`
	RedisAddr string   `toml:"redis_addr" yaml:"redis_addr"`
	RedisDB   int      `toml:"redis_db" yaml:"redis_db"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
	// AllowFiles lets render requests name local files.
	AllowFiles bool `toml:"allow_files" yaml:"allow_files"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Width:   800,
		Height:  600,
		Timeout: Duration{10 * time.Second},
		Cache: CacheConfig{
			Backend: CacheFile,
			TTL:     Duration{time.Hour},
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load reads path over the defaults. The format follows the extension:
// .yaml and .yml are YAML, anything else TOML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "config %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		_, err = toml.Decode(string(data), cfg)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	return cfg, cfg.Validate()
}

// LoadDefault loads the file named by Path, or returns Default when there
// is none.
func LoadDefault() (*Config, error) {
	path, ok := Path()
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Path returns the config file to use: $SIMPLEDATAVIS_CONFIG, else the
// first of config.toml, config.yaml and config.yml that exists in the XDG
// config directory. ok is false when no file is found.
func Path() (string, bool) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, true
	}
	dir, err := Dir()
	if err != nil {
		return "", false
	}
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

// Dir returns the config directory using XDG standard (~/.config/simpledatavis/).
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// CacheDir returns the cache directory using XDG standard (~/.cache/simpledatavis/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Validate checks enumerated and numeric settings.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "", CacheFile, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidOption, "unknown cache backend: %s (must be file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidOption, "cache backend redis needs redis_addr")
	}
	if c.Width < 0 || c.Height < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "width and height must not be negative")
	}
	return nil
}

// Options returns the default chart options, including the canvas size.
func (c *Config) Options() options.Options {
	opts := options.Options{}
	for k, v := range c.Defaults {
		opts.Set(k, v)
	}
	if c.Width > 0 && !opts.Has(options.Width) {
		opts.Set(options.Width, c.Width)
	}
	if c.Height > 0 && !opts.Has(options.Height) {
		opts.Set(options.Height, c.Height)
	}
	return opts
}

// OpenCache builds the configured cache backend. disabled forces the null
// cache.
func (c *Config) OpenCache(ctx context.Context, disabled bool) (cache.Cache, error) {
	if disabled {
		return cache.NewNullCache(), nil
	}
	switch c.Cache.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:   c.Cache.RedisAddr,
			DB:     c.Cache.RedisDB,
			Prefix: appName + ":",
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect redis %s", c.Cache.RedisAddr)
		}
		return rc, nil
	}
	dir := c.Cache.Dir
	if dir == "" {
		var err error
		if dir, err = CacheDir(); err != nil {
			return cache.NewNullCache(), nil
		}
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open cache %s", dir)
	}
	return fc, nil
}
