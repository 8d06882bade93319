package config

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/iclabels/pkg/cache"
	"github.com/matzehuels/iclabels/pkg/label"
	"github.com/matzehuels/iclabels/pkg/page"
	"github.com/matzehuels/iclabels/pkg/prefs"
)

const appName = "iclabels"

// Config file names, in lookup order.
var FileNames = []string{"iclabels.yaml", "iclabels.yml"}

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Default values.
const (
	DefaultAddr        = "localhost:8642"
	DefaultRedisPrefix = "iclabels:"
	DefaultScale       = 2.0
)

func defaults() map[string]any {
	return map[string]any{
		"verbose": false,

		"render.paper":         page.DefaultPaper.Name,
		"render.margins":       page.DefaultMargins.String(),
		"render.pin_pitch":     label.DefaultPinPitch,
		"render.height_adjust": label.DefaultHeightAdjust,
		"render.stroke_width":  label.DefaultStrokeWidth,
		"render.stroke_offset": label.DefaultStrokeOffset,
		"render.family":        label.DefaultLogicFamily,
		"render.series":        label.DefaultSeries,
		"render.color":         true,
		"render.pin_font":      "",
		"render.guides":        false,
		"render.scale":         DefaultScale,

		"prefs.backend":          prefs.BackendFile,
		"prefs.dir":              "",
		"prefs.redis_prefix":     DefaultRedisPrefix,
		"prefs.mongo_database":   prefs.DefaultMongoDatabase,
		"prefs.mongo_collection": prefs.DefaultMongoCollection,

		"cache.backend":      CacheFile,
		"cache.dir":          "",
		"cache.redis_prefix": DefaultRedisPrefix + "cache:",
		"cache.ttl":          cache.DefaultTTL.String(),

		"server.addr":     DefaultAddr,
		"server.debounce": page.DefaultDebounce.String(),
		"server.watch":    true,
		"server.open":     false,
	}
}

// Default returns the configuration with only built-in defaults applied.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Paper:        page.DefaultPaper.Name,
			Margins:      page.DefaultMargins.String(),
			PinPitch:     label.DefaultPinPitch,
			HeightAdjust: label.DefaultHeightAdjust,
			StrokeWidth:  label.DefaultStrokeWidth,
			StrokeOffset: label.DefaultStrokeOffset,
			Family:       label.DefaultLogicFamily,
			Series:       label.DefaultSeries,
			Color:        true,
			Scale:        DefaultScale,
		},
		Prefs: PrefsConfig{
			Backend:         prefs.BackendFile,
			RedisPrefix:     DefaultRedisPrefix,
			MongoDatabase:   prefs.DefaultMongoDatabase,
			MongoCollection: prefs.DefaultMongoCollection,
		},
		Cache: CacheConfig{
			Backend:     CacheFile,
			RedisPrefix: DefaultRedisPrefix + "cache:",
			TTL:         cache.DefaultTTL,
		},
		Server: ServerConfig{
			Addr:     DefaultAddr,
			Debounce: page.DefaultDebounce,
			Watch:    true,
		},
	}
}

// CacheDir returns the configured cache directory, or the per-user one
// under $XDG_CACHE_HOME or ~/.cache.
func (c CacheConfig) CacheDir() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
