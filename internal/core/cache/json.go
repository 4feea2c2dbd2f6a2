package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// JSON stores values of one type under a key prefix.
type JSON[T any] struct {
	c      *Cache
	prefix string
	ttl    time.Duration
}

func NewJSON[T any](c *Cache, prefix string, ttl time.Duration) *JSON[T] {
	if c == nil {
		c = &Cache{}
	}
	return &JSON[T]{c: c, prefix: prefix, ttl: ttl}
}

func (j *JSON[T]) key(k string) string { return j.prefix + k }

// Get returns the cached value for k, loading and storing it on a miss.
// A load that yields nil is cached too, and comes back as nil.
func (j *JSON[T]) Get(ctx context.Context, k string, load func(context.Context) (*T, error)) (*T, error) {
	b, err := j.c.GetOrLoad(ctx, j.key(k), j.ttl, func(ctx context.Context) ([]byte, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		return nil, err
	}
	var out *T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("cache decode %s: %w", j.key(k), err)
	}
	return out, nil
}

// Forget drops k so the next Get loads again.
func (j *JSON[T]) Forget(ctx context.Context, k string) error {
	return j.c.Delete(ctx, j.key(k))
}
