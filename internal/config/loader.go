package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/matzehuels/iclabels/pkg/errors"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "ICLABELS_"

// maxUpwardSearchLevels limits how far up the directory tree to search for
// a config file.
const maxUpwardSearchLevels = 10

// flagKeys maps command-line flag names to config keys. Flags not listed
// here are not configuration.
var flagKeys = map[string]string{
	"verbose":         "verbose",
	"paper":           "render.paper",
	"margins":         "render.margins",
	"pin-pitch":       "render.pin_pitch",
	"height-adjust":   "render.height_adjust",
	"stroke-width":    "render.stroke_width",
	"stroke-offset":   "render.stroke_offset",
	"family":          "render.family",
	"series":          "render.series",
	"color":           "render.color",
	"pin-font":        "render.pin_font",
	"guides":          "render.guides",
	"scale":           "render.scale",
	"prefs-backend":   "prefs.backend",
	"prefs-dir":       "prefs.dir",
	"redis-url":       "prefs.redis_url",
	"mongo-uri":       "prefs.mongo_uri",
	"cache-backend":   "cache.backend",
	"cache-dir":       "cache.dir",
	"cache-redis-url": "cache.redis_url",
	"addr":            "server.addr",
	"debounce":        "server.debounce",
	"watch":           "server.watch",
	"open":            "server.open",
	"chips-file":      "registry.chips",
	"packages-file":   "registry.packages",
}

// Load reads the configuration. Precedence, highest first: flags that were
// set explicitly, environment, config file, defaults. An empty cfgFile
// searches upward from the working directory for iclabels.yaml. flags may
// be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if cfgFile == "" {
		if cwd, err := os.Getwd(); err == nil {
			cfgFile = findConfigUpward(cwd)
		}
	} else if _, err := os.Stat(cfgFile); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", cfgFile)
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config file %s", cfgFile)
		}
	}

	// ICLABELS_SERVER__ADDR -> server.addr
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode config")
	}
	cfg.File = cfgFile
	if cfgFile != "" {
		base := filepath.Dir(cfgFile)
		cfg.Registry.Chips = resolveRelative(cfg.Registry.Chips, base)
		cfg.Registry.Packages = resolveRelative(cfg.Registry.Packages, base)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// findConfigUpward returns the first config file found in startDir or one
// of its parents, or "".
func findConfigUpward(startDir string) string {
	dir := startDir
	for range maxUpwardSearchLevels {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// resolveRelative resolves a path from the config file relative to the
// file's directory.
func resolveRelative(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
