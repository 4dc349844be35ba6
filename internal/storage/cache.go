package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// CacheEntry is one stored upstream result.
type CacheEntry struct {
	ID         int64
	URL        string
	Kind       string
	CapturedAt time.Time
	Payload    []byte
}

// InsertCache appends an entry and sets its ID.
func (s *DB) InsertCache(ctx context.Context, e *CacheEntry) error {
	err := s.queryRow(ctx,
		`INSERT INTO sis_cache (url, type, cache_time, cache) VALUES (?, ?, ?, ?) RETURNING id`,
		e.URL, e.Kind, unix(e.CapturedAt), e.Payload,
	).Scan(&e.ID)
	return wrap("inserting cache entry", err)
}

// LatestCache returns the newest entry for url and kind captured strictly
// after after, or nil when there is none.
func (s *DB) LatestCache(ctx context.Context, url, kind string, after time.Time) (*CacheEntry, error) {
	var (
		e        CacheEntry
		captured int64
	)
	err := s.queryRow(ctx,
		`SELECT id, url, type, cache_time, cache FROM sis_cache
		WHERE url = ? AND type = ? AND cache_time > ?
		ORDER BY id DESC LIMIT 1`,
		url, kind, unix(after),
	).Scan(&e.ID, &e.URL, &e.Kind, &captured, &e.Payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("loading cache entry", err)
	}
	e.CapturedAt = fromUnix(captured)
	return &e, nil
}

// DeleteCacheBefore removes entries captured before before and returns how many were removed.
func (s *DB) DeleteCacheBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.exec(ctx, `DELETE FROM sis_cache WHERE cache_time < ?`, unix(before))
	if err != nil {
		return 0, wrap("deleting cache entries", err)
	}
	n, err := res.RowsAffected()
	return n, wrap("counting deleted cache entries", err)
}

// CountCache returns the number of stored cache entries.
func (s *DB) CountCache(ctx context.Context) (int64, error) {
	var n int64
	err := s.queryRow(ctx, `SELECT COUNT(*) FROM sis_cache`).Scan(&n)
	return n, wrap("counting cache entries", err)
}
