// Package config provides layered configuration for the iclabels CLI and
// preview server.
//
// Values are read, lowest precedence first, from built-in defaults, an
// iclabels.yaml file, ICLABELS_* environment variables and command-line
// flags. Nested keys use a double underscore in the environment:
// ICLABELS_SERVER__ADDR sets server.addr.
package config

import (
	"time"

	"github.com/matzehuels/iclabels/pkg/label"
	"github.com/matzehuels/iclabels/pkg/page"
	"github.com/matzehuels/iclabels/pkg/prefs"
)

// Config holds all configuration options.
type Config struct {
	Verbose  bool           `koanf:"verbose"`
	Render   RenderConfig   `koanf:"render"`
	Prefs    PrefsConfig    `koanf:"prefs"`
	Cache    CacheConfig    `koanf:"cache"`
	Server   ServerConfig   `koanf:"server"`
	Registry RegistryConfig `koanf:"registry"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// RenderConfig holds the sheet defaults used when markup does not set them,
// and the settings for sheets built from --chip flags.
type RenderConfig struct {
	Paper        string  `koanf:"paper"`
	Margins      string  `koanf:"margins"`
	PinPitch     float64 `koanf:"pin_pitch"`
	HeightAdjust float64 `koanf:"height_adjust"`
	StrokeWidth  float64 `koanf:"stroke_width"`
	StrokeOffset float64 `koanf:"stroke_offset"`
	Family       string  `koanf:"family"`
	Series       string  `koanf:"series"`
	Color        bool    `koanf:"color"`
	PinFont      string  `koanf:"pin_font"`
	Guides       bool    `koanf:"guides"`
	Scale        float64 `koanf:"scale"`
}

// PrefsConfig selects where the last used layout is stored.
type PrefsConfig struct {
	Backend         string `koanf:"backend"`
	Dir             string `koanf:"dir"`
	RedisURL        string `koanf:"redis_url"`
	RedisPrefix     string `koanf:"redis_prefix"`
	MongoURI        string `koanf:"mongo_uri"`
	MongoDatabase   string `koanf:"mongo_database"`
	MongoCollection string `koanf:"mongo_collection"`
}

// CacheConfig selects the artifact cache.
type CacheConfig struct {
	Backend     string        `koanf:"backend"`
	Dir         string        `koanf:"dir"`
	RedisURL    string        `koanf:"redis_url"`
	RedisPrefix string        `koanf:"redis_prefix"`
	TTL         time.Duration `koanf:"ttl"`
}

// ServerConfig configures the preview server.
type ServerConfig struct {
	Addr     string        `koanf:"addr"`
	Debounce time.Duration `koanf:"debounce"`
	Watch    bool          `koanf:"watch"`
	Open     bool          `koanf:"open"`
}

// RegistryConfig names pinout tables merged over the built-in ones.
type RegistryConfig struct {
	Chips    string `koanf:"chips"`
	Packages string `koanf:"packages"`
}

// Label returns the renderer settings. Page dimensions are left to the
// sheet.
func (r RenderConfig) Label() label.Config {
	cfg := label.DefaultConfig()
	cfg.PinPitch = r.PinPitch
	cfg.HeightSizeAdjust = r.HeightAdjust
	cfg.StrokeWidth = r.StrokeWidth
	cfg.StrokeOffset = r.StrokeOffset
	cfg.DefaultFamily = r.Family
	cfg.DefaultSeries = r.Series
	cfg.Color = r.Color
	cfg.PinFontFamily = r.PinFont
	return cfg
}

// BaseSheet returns an empty sheet carrying the configured paper, margins
// and renderer settings.
func (c *Config) BaseSheet() *page.Sheet {
	s := page.NewSheet()
	if p, ok := page.LookupPaper(c.Render.Paper); ok {
		s.Paper = p
	}
	s.Margins = page.ParseMargins(c.Render.Margins, page.DefaultMargins)
	s.Config = c.Render.Label()
	return s
}

// Options converts to prefs store options.
func (p PrefsConfig) Options() prefs.Options {
	return prefs.Options{
		Backend:         p.Backend,
		Dir:             p.Dir,
		RedisURL:        p.RedisURL,
		RedisPrefix:     p.RedisPrefix,
		MongoURI:        p.MongoURI,
		MongoDatabase:   p.MongoDatabase,
		MongoCollection: p.MongoCollection,
	}
}
