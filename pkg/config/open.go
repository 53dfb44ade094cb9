package config

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/penstroke/pkg/cache"
	"github.com/matzehuels/penstroke/pkg/model"
	"github.com/matzehuels/penstroke/pkg/store"
)

// OpenCache creates the configured cache. defaultDir is used by the file
// backend when no directory is configured.
func (c *Config) OpenCache(ctx context.Context, defaultDir string) (cache.Cache, error) {
	switch c.Cache.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheRedis:
		return cache.NewRedisCache(ctx, c.Cache.RedisAddr, c.Cache.Prefix)
	default:
		dir := c.Cache.Dir
		if dir == "" {
			dir = defaultDir
		}
		if dir == "" {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// OpenStore creates the configured document store.
func (c *Config) OpenStore(ctx context.Context) (store.Store, error) {
	switch c.Store.Backend {
	case StoreMongo:
		return store.NewMongoStore(ctx, c.Store.MongoURL, c.Store.Database)
	case StoreFile:
		return store.NewFileStore(c.Store.Dir)
	default:
		return store.NewMemoryStore(), nil
	}
}

// ModelHandle returns a lazily created sampler for the configured model and
// a name identifying it in cache keys.
func (c *Config) ModelHandle(logger *log.Logger) (*model.Lazy, string, error) {
	var opts []model.LazyOption
	if c.Model.Concurrent {
		opts = append(opts, model.WithConcurrentCalls())
	}

	switch {
	case c.Model.Replay != "":
		replay := c.Model.Replay
		factory := func(context.Context) (model.Sampler, error) {
			return model.LoadReplay(replay)
		}
		return model.NewLazy(factory, append(opts, model.WithConcurrentCalls())...), "replay:" + replay, nil
	case c.Model.URL != "":
		factory := model.Dial(c.Model.URL,
			model.WithHTTPClient(&http.Client{Timeout: c.Model.Timeout}),
			model.WithLogger(logger),
		)
		return model.NewLazy(factory, opts...), "http:" + c.Model.URL, nil
	default:
		return nil, "", fmt.Errorf("no model configured: set %s, model.url or model.replay", EnvModelURL)
	}
}
