package config

import (
	"strings"

	"github.com/matzehuels/iclabels/pkg/errors"
	"github.com/matzehuels/iclabels/pkg/page"
	"github.com/matzehuels/iclabels/pkg/prefs"
)

// Validate checks values that would otherwise fail late, after a sheet has
// been rendered or a server has started.
func (c *Config) Validate() error {
	if c.Render.Paper != "" {
		if _, ok := page.LookupPaper(c.Render.Paper); !ok {
			return errors.New(errors.ErrCodeInvalidPaper, "unknown paper %q (want A4 or Letter)", c.Render.Paper)
		}
	}
	if c.Render.Margins != "" {
		sentinel := page.Uniform(-1)
		if page.ParseMargins(c.Render.Margins, sentinel) == sentinel {
			return errors.New(errors.ErrCodeInvalidMargins, "invalid margins %q", c.Render.Margins)
		}
	}
	if c.Render.PinPitch <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "render.pin_pitch must be positive, got %g", c.Render.PinPitch)
	}
	if c.Render.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "render.scale must be positive, got %g", c.Render.Scale)
	}

	switch strings.ToLower(c.Prefs.Backend) {
	case "", prefs.BackendFile:
	case prefs.BackendRedis:
		if c.Prefs.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidInput, "prefs.backend redis needs prefs.redis_url")
		}
	case prefs.BackendMongo:
		if c.Prefs.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidInput, "prefs.backend mongo needs prefs.mongo_uri")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown prefs.backend %q (want file, redis or mongo)", c.Prefs.Backend)
	}

	switch strings.ToLower(c.Cache.Backend) {
	case "", CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache.backend redis needs cache.redis_url")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache.backend %q (want file, redis or none)", c.Cache.Backend)
	}

	if c.Server.Debounce < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server.debounce must not be negative")
	}
	return nil
}
