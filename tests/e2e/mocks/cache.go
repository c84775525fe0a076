package mocks

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"
)

var errCacheMiss = errors.New("cache miss")

type InMemoryCache struct{}

func (c *InMemoryCache) Get(ctx context.Context, key string, dest any) error {
	return errCacheMiss
}

func (c *InMemoryCache) Set(ctx context.Context, key string, value any, exp time.Duration) error {
	return nil
}

func (c *InMemoryCache) Delete(ctx context.Context, keys ...string) error {
	return nil
}

func (c *InMemoryCache) Close() error {
	return nil
}

// TrackingCache counts cache operations and keeps real entries so hit/miss
// and invalidation behavior can be asserted end to end.
type TrackingCache struct {
	mu          sync.Mutex
	GetCalls    int
	SetCalls    int
	DeleteCalls int
	data        map[string]cacheEntry
}

type cacheEntry struct {
	payload []byte
	expiry  time.Time
}

func NewTrackingCache() *TrackingCache {
	return &TrackingCache{
		data: make(map[string]cacheEntry),
	}
}

func (c *TrackingCache) Get(ctx context.Context, key string, dest any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.GetCalls++
	entry, exists := c.data[key]
	if !exists || time.Now().After(entry.expiry) {
		return errCacheMiss
	}
	return json.Unmarshal(entry.payload, dest)
}

func (c *TrackingCache) Set(ctx context.Context, key string, value any, exp time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.SetCalls++
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = cacheEntry{payload: payload, expiry: time.Now().Add(exp)}
	return nil
}

func (c *TrackingCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.DeleteCalls++
	for _, key := range keys {
		delete(c.data, key)
	}
	return nil
}

func (c *TrackingCache) Close() error {
	return nil
}
