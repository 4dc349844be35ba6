package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// MonitoringRecord is one observed league position of a team.
type MonitoringRecord struct {
	ID         int64
	Team       string
	URL        string
	Gameday    int
	Position   int
	RecordedAt time.Time
}

const monitoringColumns = `id, team, url, gameday, position, monitoring_time`

func scanMonitoring(scan func(...any) error) (*MonitoringRecord, error) {
	var (
		r        MonitoringRecord
		recorded int64
	)
	if err := scan(&r.ID, &r.Team, &r.URL, &r.Gameday, &r.Position, &recorded); err != nil {
		return nil, err
	}
	r.RecordedAt = fromUnix(recorded)
	return &r, nil
}

// InsertMonitoring appends a record and sets its ID.
func (s *DB) InsertMonitoring(ctx context.Context, r *MonitoringRecord) error {
	err := s.queryRow(ctx,
		`INSERT INTO sis_monitoring (team, url, gameday, position, monitoring_time)
		VALUES (?, ?, ?, ?, ?) RETURNING id`,
		r.Team, r.URL, r.Gameday, r.Position, unix(r.RecordedAt),
	).Scan(&r.ID)
	return wrap("inserting monitoring record", err)
}

// LatestMonitoring returns the newest record for team and url, or nil.
func (s *DB) LatestMonitoring(ctx context.Context, team, url string) (*MonitoringRecord, error) {
	row := s.queryRow(ctx,
		`SELECT `+monitoringColumns+` FROM sis_monitoring
		WHERE team = ? AND url = ? ORDER BY id DESC LIMIT 1`,
		team, url)
	r, err := scanMonitoring(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return r, wrap("loading latest monitoring record", err)
}

// FindMonitoring returns the newest record for team, gameday and url, or nil.
func (s *DB) FindMonitoring(ctx context.Context, team string, gameday int, url string) (*MonitoringRecord, error) {
	row := s.queryRow(ctx,
		`SELECT `+monitoringColumns+` FROM sis_monitoring
		WHERE team = ? AND gameday = ? AND url = ? ORDER BY id DESC LIMIT 1`,
		team, gameday, url)
	r, err := scanMonitoring(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return r, wrap("loading monitoring record", err)
}

// HasMonitoringBefore reports whether team has records for url recorded at or before cutoff.
func (s *DB) HasMonitoringBefore(ctx context.Context, team, url string, cutoff time.Time) (bool, error) {
	var n int64
	err := s.queryRow(ctx,
		`SELECT COUNT(*) FROM sis_monitoring WHERE team = ? AND url = ? AND monitoring_time <= ?`,
		team, url, unix(cutoff),
	).Scan(&n)
	if err != nil {
		return false, wrap("counting monitoring records", err)
	}
	return n > 0, nil
}

// ListMonitoring returns the records of team for url with a positive gameday,
// in insertion order.
func (s *DB) ListMonitoring(ctx context.Context, team, url string) ([]MonitoringRecord, error) {
	rows, err := s.query(ctx,
		`SELECT `+monitoringColumns+` FROM sis_monitoring
		WHERE team = ? AND url = ? AND gameday > 0 ORDER BY id ASC`,
		team, url)
	if err != nil {
		return nil, wrap("listing monitoring records", err)
	}
	defer rows.Close()

	var records []MonitoringRecord
	for rows.Next() {
		r, err := scanMonitoring(rows.Scan)
		if err != nil {
			return nil, wrap("scanning monitoring record", err)
		}
		records = append(records, *r)
	}
	return records, wrap("listing monitoring records", rows.Err())
}
