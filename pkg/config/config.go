// Package config loads spatialdash settings from a TOML file and the
// environment.
//
// The file lives at $XDG_CONFIG_HOME/spatialdash/config.toml (falling back to
// ~/.config/spatialdash/config.toml). A missing file is not an error; every
// key has a default. Environment variables override the file:
//
//	SPATIALDASH_API_URL     api_url
//	SPATIALDASH_TOKEN       bearer token, bypassing the session store
//	SPATIALDASH_REDIS_ADDR  cache.redis_addr (and selects the redis backend)
//
// Example file:
//
//	api_url = "https://spatial.example.com"
//	timeout = "30s"
//
//	[cache]
//	backend = "redis"
//	ttl = "10m"
//	redis_addr = "localhost:6379"
//
//	[editor]
//	width = 1024
//	height = 640
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/api"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/cache"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/editor"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/errors"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/render/canvas"
)

// AppName names the config, cache and session directories.
const AppName = "spatialdash"

// Environment variables read by Load.
const (
	EnvAPIURL    = "SPATIALDASH_API_URL"
	EnvToken     = "SPATIALDASH_TOKEN"
	EnvRedisAddr = "SPATIALDASH_REDIS_ADDR"
)

// Config is the merged configuration.
type Config struct {
	APIURL  string        `toml:"api_url"`
	Timeout time.Duration `toml:"timeout"`
	Cache   Cache         `toml:"cache"`
	Editor  Editor        `toml:"editor"`

	// Token comes from the environment only; it is never read from disk.
	Token string `toml:"-"`
}

// Cache selects the response cache backend.
type Cache struct {
	Backend   string        `toml:"backend"`
	TTL       time.Duration `toml:"ttl"`
	RedisAddr string        `toml:"redis_addr"`
	RedisDB   int           `toml:"redis_db"`
}

// Editor sets the canvas size and viewport limits.
type Editor struct {
	Width    int     `toml:"width"`
	Height   int     `toml:"height"`
	OffsetX  float64 `toml:"offset_x"`
	OffsetY  float64 `toml:"offset_y"`
	MinScale float64 `toml:"min_scale"`
	MaxScale float64 `toml:"max_scale"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:  api.DefaultBaseURL,
		Timeout: 30 * time.Second,
		Cache: Cache{
			Backend: cache.BackendFile,
			TTL:     5 * time.Minute,
		},
		Editor: Editor{
			Width:    canvas.DefaultWidth,
			Height:   canvas.DefaultHeight,
			OffsetX:  editor.DefaultOffsetX,
			OffsetY:  editor.DefaultOffsetY,
			MinScale: editor.MinScale,
			MaxScale: editor.MaxScale,
		},
	}
}

// Dir returns the configuration directory.
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// CacheDir returns the file cache directory (~/.cache/spatialdash).
func CacheDir() (string, error) {
	if home := os.Getenv("XDG_CACHE_HOME"); home != "" {
		return filepath.Join(home, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads path (or DefaultPath when empty), applies environment overrides
// and validates the result. An explicitly named file must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := Decode(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	cfg.applyEnv(os.Getenv)
	return cfg, cfg.Validate()
}

// Decode merges TOML data into cfg. Unknown keys are rejected so typos
// surface instead of silently falling back to defaults.
func Decode(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "unknown config key %q", undecoded[0].String())
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := getenv(EnvToken); v != "" {
		c.Token = v
	}
	if v := getenv(EnvRedisAddr); v != "" {
		c.Cache.RedisAddr = v
		c.Cache.Backend = cache.BackendRedis
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if err := errors.ValidateURL(c.APIURL); err != nil {
		return err
	}
	if c.Timeout <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "timeout must be positive")
	}
	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendNone:
	case cache.BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidInput, "redis cache needs cache.redis_addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache ttl cannot be negative")
	}
	e := c.Editor
	if e.Width <= 0 || e.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "editor size must be positive, got %dx%d", e.Width, e.Height)
	}
	if e.MinScale <= 0 || e.MaxScale < e.MinScale {
		return errors.New(errors.ErrCodeInvalidInput, "editor scale range [%g, %g] is invalid", e.MinScale, e.MaxScale)
	}
	return nil
}

// Viewport returns the editor's starting viewport. The starting scale is
// the default scale clamped into the configured range.
func (c Config) Viewport() editor.Viewport {
	vp := editor.Viewport{
		Offset:   editor.Point{X: c.Editor.OffsetX, Y: c.Editor.OffsetY},
		MinScale: c.Editor.MinScale,
		MaxScale: c.Editor.MaxScale,
	}
	vp.Scale = vp.Clamp(editor.DefaultScale)
	return vp
}

// CacheOptions translates the cache section for cache.Open.
func (c Config) CacheOptions() (cache.Options, error) {
	opts := cache.Options{
		Backend:   c.Cache.Backend,
		RedisAddr: c.Cache.RedisAddr,
		RedisDB:   c.Cache.RedisDB,
	}
	if opts.Backend == cache.BackendFile || opts.Backend == "" {
		dir, err := CacheDir()
		if err != nil {
			return opts, err
		}
		opts.Dir = dir
	}
	return opts, nil
}
