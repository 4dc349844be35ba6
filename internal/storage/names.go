package storage

import "context"

// Replacement overrides how a team name is displayed.
type Replacement struct {
	ID      int64
	Source  string
	Replace string
}

// AddReplacement appends r and sets its ID.
func (s *DB) AddReplacement(ctx context.Context, r *Replacement) error {
	err := s.queryRow(ctx,
		`INSERT INTO sis_string_replace (source_string, replace_string) VALUES (?, ?) RETURNING id`,
		r.Source, r.Replace,
	).Scan(&r.ID)
	return wrap("adding replacement", err)
}

// ListReplacements returns all replacements in insertion order.
func (s *DB) ListReplacements(ctx context.Context) ([]Replacement, error) {
	rows, err := s.query(ctx, `SELECT id, source_string, replace_string FROM sis_string_replace ORDER BY id ASC`)
	if err != nil {
		return nil, wrap("listing replacements", err)
	}
	defer rows.Close()

	var out []Replacement
	for rows.Next() {
		var r Replacement
		if err := rows.Scan(&r.ID, &r.Source, &r.Replace); err != nil {
			return nil, wrap("scanning replacement", err)
		}
		out = append(out, r)
	}
	return out, wrap("listing replacements", rows.Err())
}

// DeleteReplacement removes the replacement with id and reports whether it existed.
func (s *DB) DeleteReplacement(ctx context.Context, id int64) (bool, error) {
	res, err := s.exec(ctx, `DELETE FROM sis_string_replace WHERE id = ?`, id)
	if err != nil {
		return false, wrap("deleting replacement", err)
	}
	n, err := res.RowsAffected()
	return n > 0, wrap("deleting replacement", err)
}
