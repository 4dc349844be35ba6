package storage

import "context"

// Condition is one saved request contributing a row to a concatenation.
type Condition struct {
	ID              int64
	ConcatenationID int64
	Payload         []byte
}

// AddCondition appends c and sets its ID.
func (s *DB) AddCondition(ctx context.Context, c *Condition) error {
	err := s.queryRow(ctx,
		`INSERT INTO sis_concatenation_conditions (concatenation_id, data) VALUES (?, ?) RETURNING id`,
		c.ConcatenationID, c.Payload,
	).Scan(&c.ID)
	return wrap("adding concatenation condition", err)
}

// ListConditions returns the conditions of a concatenation in insertion order.
func (s *DB) ListConditions(ctx context.Context, concatenationID int64) ([]Condition, error) {
	rows, err := s.query(ctx,
		`SELECT id, concatenation_id, data FROM sis_concatenation_conditions
		WHERE concatenation_id = ? ORDER BY id ASC`,
		concatenationID)
	if err != nil {
		return nil, wrap("listing concatenation conditions", err)
	}
	defer rows.Close()

	var conds []Condition
	for rows.Next() {
		var c Condition
		if err := rows.Scan(&c.ID, &c.ConcatenationID, &c.Payload); err != nil {
			return nil, wrap("scanning concatenation condition", err)
		}
		conds = append(conds, c)
	}
	return conds, wrap("listing concatenation conditions", rows.Err())
}
