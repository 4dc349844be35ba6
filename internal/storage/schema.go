package storage

import (
	"context"
	"fmt"
)

type dialect struct {
	id      string
	integer string
	blob    string
}

var dialects = map[string]dialect{
	DriverSQLite:   {id: "INTEGER PRIMARY KEY AUTOINCREMENT", integer: "INTEGER", blob: "BLOB"},
	DriverPostgres: {id: "BIGSERIAL PRIMARY KEY", integer: "BIGINT", blob: "BYTEA"},
}

func schema(d dialect) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS sis_cache (
			id %s,
			url TEXT NOT NULL,
			type TEXT NOT NULL,
			cache_time %s NOT NULL,
			cache %s NOT NULL
		)`, d.id, d.integer, d.blob),
		`CREATE INDEX IF NOT EXISTS idx_sis_cache_lookup ON sis_cache(url, type, cache_time)`,

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS sis_monitoring (
			id %s,
			team TEXT NOT NULL,
			url TEXT NOT NULL,
			gameday %s NOT NULL,
			position %s NOT NULL,
			monitoring_time %s NOT NULL
		)`, d.id, d.integer, d.integer, d.integer),
		`CREATE INDEX IF NOT EXISTS idx_sis_monitoring_team_url ON sis_monitoring(team, url)`,

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS sis_snapshots (
			id %s,
			snapshot_code TEXT NOT NULL UNIQUE,
			snapshot %s NOT NULL,
			created_at %s NOT NULL
		)`, d.id, d.blob, d.integer),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS sis_concatenation_conditions (
			id %s,
			concatenation_id %s NOT NULL,
			data %s NOT NULL
		)`, d.id, d.integer, d.blob),
		`CREATE INDEX IF NOT EXISTS idx_sis_concatenation ON sis_concatenation_conditions(concatenation_id)`,

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS sis_string_replace (
			id %s,
			source_string TEXT NOT NULL,
			replace_string TEXT NOT NULL
		)`, d.id),
	}
}

func (s *DB) migrate(ctx context.Context) error {
	for _, stmt := range schema(dialects[s.driver]) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
