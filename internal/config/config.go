// Package config loads tagstamp settings from a TOML file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/youruser/tagstamp/internal/cache"
	"github.com/youruser/tagstamp/internal/tag"
)

// Duration is a time.Duration written as "10s" or "1h30m" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type Config struct {
	Server  Server  `toml:"server"`
	Compose Compose `toml:"compose"`
	Fetch   Fetch   `toml:"fetch"`
	Cache   Cache   `toml:"cache"`
	Fonts   Fonts   `toml:"fonts"`
	Log     Log     `toml:"log"`
	Roster  Roster  `toml:"roster"`
}

type Server struct {
	Addr string `toml:"addr"`
}

type Compose struct {
	Variant        string   `toml:"variant"`
	AvatarFallback string   `toml:"avatar_fallback"`
	ImageTimeout   Duration `toml:"image_timeout"`
	Anchor         string   `toml:"anchor"` // "corner" or "inset"
	InsetMargin    float64  `toml:"inset_margin"`
}

type Fetch struct {
	Timeout   Duration `toml:"timeout"`
	MaxBytes  int64    `toml:"max_bytes"`
	UserAgent string   `toml:"user_agent"`
}

type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	TTL       Duration `toml:"ttl"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
}

// Options converts the section into cache.Open options.
func (c Cache) Options() cache.Options {
	return cache.Options{
		Backend:   c.Backend,
		Dir:       c.Dir,
		RedisAddr: c.RedisAddr,
		RedisDB:   c.RedisDB,
	}
}

type Fonts struct {
	Faces []Face `toml:"face"`
}

// Face is one extra font file registered under Family at Weight.
type Face struct {
	Family string `toml:"family"`
	Weight int    `toml:"weight"`
	Path   string `toml:"path"`
}

type Log struct {
	Level string `toml:"level"`
}

type Roster struct {
	Path string `toml:"path"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Server: Server{Addr: ":8080"},
		Compose: Compose{
			Variant:        tag.TagOrange.Name(),
			AvatarFallback: tag.Fallback(tag.FieldAvatarURL),
			ImageTimeout:   Duration{8 * time.Second},
			Anchor:         "corner",
			InsetMargin:    0.03,
		},
		Fetch: Fetch{
			Timeout:   Duration{10 * time.Second},
			MaxBytes:  20 << 20,
			UserAgent: "tagstamp/1.0",
		},
		Cache: Cache{
			Backend:   "none",
			Dir:       defaultCacheDir(),
			TTL:       Duration{24 * time.Hour},
			RedisAddr: "localhost:6379",
		},
		Log: Log{Level: "info"},
	}
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".tagstamp-cache"
	}
	return dir + string(os.PathSeparator) + "tagstamp"
}

// Load reads path over Default. An empty path returns the defaults. The PORT
// environment variable overrides server.addr.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return Config{}, fmt.Errorf("config %s: unknown key %s", path, undec[0])
		}
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at a worse moment.
func (c Config) Validate() error {
	if _, err := c.Variant(); err != nil {
		return err
	}
	if _, err := c.Anchor(); err != nil {
		return err
	}
	if c.Compose.InsetMargin < 0 || c.Compose.InsetMargin >= 0.5 {
		return fmt.Errorf("compose.inset_margin %v out of range [0, 0.5)", c.Compose.InsetMargin)
	}
	switch c.Cache.Backend {
	case "", "none", "file", "redis":
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	for _, f := range c.Fonts.Faces {
		if f.Family == "" || f.Path == "" {
			return fmt.Errorf("font face needs family and path")
		}
	}
	return nil
}

// Variant returns the configured default variant.
func (c Config) Variant() (tag.Variant, error) {
	return tag.ParseVariant(c.Compose.Variant)
}

func (c Config) Anchor() (tag.Anchor, error) {
	switch strings.ToLower(strings.TrimSpace(c.Compose.Anchor)) {
	case "", "corner":
		return tag.AnchorCorner, nil
	case "inset":
		return tag.AnchorInset, nil
	}
	return 0, fmt.Errorf("unknown anchor %q", c.Compose.Anchor)
}
