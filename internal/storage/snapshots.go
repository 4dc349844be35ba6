package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Snapshot is a pinned dataset addressed by a code.
type Snapshot struct {
	Code      string
	Payload   []byte
	CreatedAt time.Time
}

// SaveSnapshot stores s, replacing an existing snapshot with the same code.
func (s *DB) SaveSnapshot(ctx context.Context, snap *Snapshot) error {
	_, err := s.exec(ctx,
		`INSERT INTO sis_snapshots (snapshot_code, snapshot, created_at) VALUES (?, ?, ?)
		ON CONFLICT (snapshot_code) DO UPDATE SET snapshot = excluded.snapshot, created_at = excluded.created_at`,
		snap.Code, snap.Payload, unix(snap.CreatedAt))
	return wrap("saving snapshot", err)
}

// LoadSnapshot returns the snapshot with code, or nil.
func (s *DB) LoadSnapshot(ctx context.Context, code string) (*Snapshot, error) {
	var (
		snap    Snapshot
		created int64
	)
	err := s.queryRow(ctx,
		`SELECT snapshot_code, snapshot, created_at FROM sis_snapshots WHERE snapshot_code = ? LIMIT 1`,
		code,
	).Scan(&snap.Code, &snap.Payload, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("loading snapshot", err)
	}
	snap.CreatedAt = fromUnix(created)
	return &snap, nil
}
