// Package cache keeps read-mostly views (fine detail, municipality list) in
// Redis. Every type here degrades to a no-op when Redis is not configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect opens a client for url and pings it. An empty url returns a nil
// client and no error, which disables caching.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// ViewCache stores JSON encoded values of T under prefix:key.
type ViewCache[T any] struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewViewCache returns a cache backed by client. A nil client gives a cache
// that always misses and never stores.
func NewViewCache[T any](client redis.UniversalClient, prefix string, ttl time.Duration) *ViewCache[T] {
	return &ViewCache[T]{client: client, prefix: prefix, ttl: ttl}
}

func (c *ViewCache[T]) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *ViewCache[T]) key(k string) string {
	return c.prefix + ":" + k
}

// Get returns the cached value for k. A miss is (zero, false, nil).
func (c *ViewCache[T]) Get(ctx context.Context, k string) (T, bool, error) {
	var zero T
	if !c.Enabled() {
		return zero, false, nil
	}

	raw, err := c.client.Get(ctx, c.key(k)).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero, false, fmt.Errorf("decode cached %s: %w", c.key(k), err)
	}
	return v, true, nil
}

func (c *ViewCache[T]) Set(ctx context.Context, k string, v T) error {
	if !c.Enabled() {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(k), raw, c.ttl).Err()
}

func (c *ViewCache[T]) Delete(ctx context.Context, k string) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Del(ctx, c.key(k)).Err()
}
