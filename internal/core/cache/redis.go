package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"go.uber.org/zap"
)

// Cache is a read-through byte cache. With a nil RDB it only collapses
// concurrent loads of the same key.
type Cache struct {
	RDB *redis.Client
	Log *zap.Logger
	sf  singleflight.Group
}

func New(addr, pass string, db int) *Cache {
	return &Cache{
		RDB: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
	}
}

// Ping checks the redis connection. A cache without redis is always healthy.
func (c *Cache) Ping(ctx context.Context) error {
	if c.RDB == nil {
		return nil
	}
	if err := c.RDB.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	if c.RDB == nil {
		return nil
	}
	return c.RDB.Close()
}

func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if c.RDB != nil {
		b, err := c.RDB.Get(ctx, key).Bytes()
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, redis.Nil) {
			c.warn("cache get", key, err)
		}
	}
	v, err, _ := c.sf.Do(key, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		if c.RDB != nil {
			if e := c.RDB.Set(ctx, key, b, ttl).Err(); e != nil {
				c.warn("cache set", key, e)
			}
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Delete drops key from redis.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if c.RDB == nil {
		return nil
	}
	return c.RDB.Del(ctx, key).Err()
}

func (c *Cache) warn(msg, key string, err error) {
	if c.Log != nil {
		c.Log.Warn(msg, zap.String("key", key), zap.Error(err))
	}
}
