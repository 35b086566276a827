package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// ErrMiss is returned by Store.Get when the key is absent.
var ErrMiss = errors.New("cache miss")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Cache is a JSON read-through cache. A nil *Cache, or one without a store,
// always calls the loader. Store failures are logged and never surface to
// callers.
type Cache struct {
	store Store
	ttl   time.Duration
	group singleflight.Group
}

func New(store Store, ttl time.Duration) *Cache {
	return &Cache{store: store, ttl: ttl}
}

func (c *Cache) enabled() bool {
	return c != nil && c.store != nil
}

// Remember returns the cached value for key or loads, stores and returns it.
// Concurrent misses for the same key share one load.
func Remember[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error)) (T, error) {
	if !c.enabled() {
		return load(ctx)
	}

	var out T
	if b, err := c.store.Get(ctx, key); err == nil {
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		log.WithField("key", key).Warn("cache: discarding undecodable entry")
	} else if !errors.Is(err, ErrMiss) {
		log.WithError(err).WithField("key", key).Warn("cache: get failed")
	}

	// Waiters share one load; it must outlive the caller that started it.
	shared := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		loaded, err := load(shared)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(loaded); err == nil {
			if err := c.store.Set(shared, key, data, c.ttl); err != nil {
				log.WithError(err).WithField("key", key).Warn("cache: set failed")
			}
		}
		return loaded, nil
	})
	if err != nil {
		return out, err
	}
	return v.(T), nil
}

func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if !c.enabled() || len(keys) == 0 {
		return
	}
	if err := c.store.Delete(ctx, keys...); err != nil {
		log.WithError(err).WithField("keys", keys).Warn("cache: invalidate failed")
	}
}

const CategoryTreeKey = "categories:tree"

func ProductKey(slug string) string {
	return "product:slug:" + slug
}
