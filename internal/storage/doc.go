// Package storage provides the SQL row store behind the cache, position
// monitoring, snapshots, concatenations and team name replacements.
//
// Two drivers are supported: an embedded SQLite file (the default, kept in the
// XDG data directory, ~/.local/share/sis-handball/) and PostgreSQL for shared
// deployments. Both use the same schema and queries; placeholders are
// rebound for PostgreSQL. Timestamps are stored as Unix seconds.
package storage
