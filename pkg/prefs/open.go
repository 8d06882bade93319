package prefs

import (
	"context"
	"fmt"
	"strings"
)

// Backend names.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Options select and configure a backend.
type Options struct {
	Backend         string
	Dir             string // file backend; empty means DefaultDir
	RedisURL        string
	RedisPrefix     string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// Open returns the store for opts.Backend. An empty backend is "file".
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendFile:
		return NewFileStore(opts.Dir)
	case BackendRedis:
		if opts.RedisURL == "" {
			return nil, fmt.Errorf("redis backend needs prefs.redis_url")
		}
		return NewRedisStore(ctx, opts.RedisURL, opts.RedisPrefix)
	case BackendMongo:
		if opts.MongoURI == "" {
			return nil, fmt.Errorf("mongo backend needs prefs.mongo_uri")
		}
		return NewMongoStore(ctx, opts.MongoURI, opts.MongoDatabase, opts.MongoCollection)
	}
	return nil, fmt.Errorf("unknown prefs backend %q (want file, redis or mongo)", opts.Backend)
}
