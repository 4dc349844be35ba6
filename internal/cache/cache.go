// Package cache keeps extracted league datasets in the row store so repeated
// renders within the configured freshness window skip the upstream fetch.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Grabber66/sis-handball/internal/league"
	"github.com/Grabber66/sis-handball/internal/logger"
	"github.com/Grabber66/sis-handball/internal/storage"
)

const (
	DefaultTimeout = 8 * time.Hour
	// Retention is how long entries survive a Sweep.
	Retention = 7 * 24 * time.Hour
)

var timeouts = map[string]time.Duration{
	"4h":  4 * time.Hour,
	"8h":  8 * time.Hour,
	"12h": 12 * time.Hour,
	"1d":  24 * time.Hour,
	"1w":  7 * 24 * time.Hour,
}

// ParseTimeout maps a timeout option onto its window. Unknown options give DefaultTimeout.
func ParseTimeout(option string) time.Duration {
	if d, ok := timeouts[option]; ok {
		return d
	}
	return DefaultTimeout
}

// ValidTimeout reports whether option is one of the known timeout options.
func ValidTimeout(option string) bool {
	_, ok := timeouts[option]
	return ok
}

// Store is the part of the row store the cache needs.
type Store interface {
	InsertCache(ctx context.Context, e *storage.CacheEntry) error
	LatestCache(ctx context.Context, url, kind string, after time.Time) (*storage.CacheEntry, error)
	DeleteCacheBefore(ctx context.Context, before time.Time) (int64, error)
}

// Entry is a cached dataset.
type Entry struct {
	ID         int64
	URL        string
	Kind       league.Kind
	CapturedAt time.Time
	Dataset    league.Dataset
}

// Cache looks up and writes datasets. It does no locking: two concurrent
// misses for the same URL both fetch and both write.
type Cache struct {
	store   Store
	timeout time.Duration
	now     func() time.Time
}

// New creates a Cache whose entries are fresh for timeout.
func New(store Store, timeout time.Duration) *Cache {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Cache{store: store, timeout: timeout, now: time.Now}
}

// Timeout returns the freshness window.
func (c *Cache) Timeout() time.Duration {
	return c.timeout
}

// Lookup returns the most recent entry captured within the freshness window,
// or nil on a miss.
func (c *Cache) Lookup(ctx context.Context, url string, kind league.Kind) (*Entry, error) {
	after := c.now().Add(-c.timeout)
	rec, err := c.store.LatestCache(ctx, url, kind.String(), after)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		logger.IncrCounter("cache.miss")
		return nil, nil
	}

	var ds league.Dataset
	if err := json.Unmarshal(rec.Payload, &ds); err != nil {
		return nil, fmt.Errorf("decoding cache entry %d: %w", rec.ID, err)
	}
	logger.IncrCounter("cache.hit")
	return &Entry{
		ID:         rec.ID,
		URL:        rec.URL,
		Kind:       league.Kind(rec.Kind),
		CapturedAt: rec.CapturedAt,
		Dataset:    ds,
	}, nil
}

// Write stores ds captured now. Empty datasets are not written.
func (c *Cache) Write(ctx context.Context, ds league.Dataset, url string, kind league.Kind) error {
	if len(ds) == 0 {
		return nil
	}
	payload, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("encoding dataset: %w", err)
	}
	return c.store.InsertCache(ctx, &storage.CacheEntry{
		URL:        url,
		Kind:       kind.String(),
		CapturedAt: c.now(),
		Payload:    payload,
	})
}

// Sweep deletes entries older than Retention and returns how many were removed.
func (c *Cache) Sweep(ctx context.Context) (int64, error) {
	removed, err := c.store.DeleteCacheBefore(ctx, c.now().Add(-Retention))
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		logger.Info("swept cache", logger.Fields{"removed": removed})
	}
	return removed, nil
}
