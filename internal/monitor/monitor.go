// Package monitor records a team's league position once per gameday and
// builds the position-per-gameday series shown as a chart.
package monitor

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/Grabber66/sis-handball/internal/league"
	"github.com/Grabber66/sis-handball/internal/logger"
	"github.com/Grabber66/sis-handball/internal/storage"
	"github.com/antzucaro/matchr"
)

// Store is the part of the row store the monitor needs.
type Store interface {
	InsertMonitoring(ctx context.Context, r *storage.MonitoringRecord) error
	LatestMonitoring(ctx context.Context, team, url string) (*storage.MonitoringRecord, error)
	FindMonitoring(ctx context.Context, team string, gameday int, url string) (*storage.MonitoringRecord, error)
	HasMonitoringBefore(ctx context.Context, team, url string, cutoff time.Time) (bool, error)
	ListMonitoring(ctx context.Context, team, url string) ([]storage.MonitoringRecord, error)
}

// Source fetches normalized rows for a URL.
type Source interface {
	Fetch(ctx context.Context, url string, kind league.Kind) (league.Dataset, error)
}

// Point is the position of a team after one gameday.
type Point struct {
	Gameday  int `json:"gameday"`
	Position int `json:"position"`
}

// Series is the tracked position history of one team.
type Series struct {
	Team string `json:"team"`
	// URL is where the history was recorded. It differs from the requested
	// URL when the history predates an upstream move.
	URL   string  `json:"url"`
	Chart []Point `json:"chart"`
}

// Monitor tracks positions.
type Monitor struct {
	store      Store
	source     Source
	window     time.Duration
	migrations []league.Migration
	now        func() time.Time
}

// New creates a Monitor that refreshes a team's position at most once per window.
func New(store Store, source Source, window time.Duration) *Monitor {
	return &Monitor{
		store:      store,
		source:     source,
		window:     window,
		migrations: league.Migrations,
		now:        time.Now,
	}
}

// Track refreshes the position of team in the standings at url when the last
// observation is older than the window, then returns the team's history.
// Upstream failures only skip the refresh; storage failures are returned.
func (m *Monitor) Track(ctx context.Context, url, team string) (*Series, error) {
	latest, err := m.store.LatestMonitoring(ctx, team, url)
	if err != nil {
		return nil, err
	}
	if latest == nil || latest.RecordedAt.Before(m.now().Add(-m.window)) {
		if err := m.observe(ctx, url, team); err != nil {
			return nil, err
		}
	}

	source, err := m.historyURL(ctx, url, team)
	if err != nil {
		return nil, err
	}
	records, err := m.store.ListMonitoring(ctx, team, source)
	if err != nil {
		return nil, err
	}

	series := &Series{Team: team, URL: source, Chart: make([]Point, 0, len(records))}
	for _, r := range records {
		series.Chart = append(series.Chart, Point{Gameday: r.Gameday, Position: r.Position})
	}
	return series, nil
}

func (m *Monitor) observe(ctx context.Context, url, team string) error {
	rows, err := m.source.Fetch(ctx, url, league.Kind(""))
	if err != nil {
		logger.Warn("position refresh skipped", logger.Fields{"url": url, "team": team, "reason": err.Error()})
		logger.IncrCounter("monitor.fetch_errors")
		return nil
	}

	row, ok := findTeam(rows, team)
	if !ok {
		fields := logger.Fields{"url": url, "team": team}
		if suggestion := closestTeam(rows, team); suggestion != "" {
			fields["did_you_mean"] = suggestion
		}
		logger.Warn("team not found in standings", fields)
		return nil
	}

	rec := &storage.MonitoringRecord{
		Team:       row.At(league.StandingsTeam),
		URL:        url,
		Gameday:    leadingInt(strings.SplitN(row.At(league.StandingsGames), "/", 2)[0]),
		Position:   leadingInt(row.At(league.StandingsPosition)),
		RecordedAt: m.now(),
	}

	existing, err := m.store.FindMonitoring(ctx, rec.Team, rec.Gameday, url)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	if err := m.store.InsertMonitoring(ctx, rec); err != nil {
		return err
	}
	logger.Info("recorded position", logger.Fields{
		"team":     rec.Team,
		"gameday":  rec.Gameday,
		"position": rec.Position,
	})
	return nil
}

// historyURL returns the legacy URL when team has history there from before
// the matching cutover, otherwise url.
func (m *Monitor) historyURL(ctx context.Context, url, team string) (string, error) {
	for i := len(m.migrations) - 1; i >= 0; i-- {
		mig := m.migrations[i]
		legacy, ok := mig.LegacyURL(url)
		if !ok {
			continue
		}
		has, err := m.store.HasMonitoringBefore(ctx, team, legacy, mig.Cutover)
		if err != nil {
			return "", err
		}
		if has {
			return legacy, nil
		}
	}
	return url, nil
}

// findTeam returns the first row with a cell equal to team.
func findTeam(rows league.Dataset, team string) (league.Row, bool) {
	for _, r := range rows {
		if r.Contains(team) {
			return r, true
		}
	}
	return league.Row{}, false
}

func closestTeam(rows league.Dataset, team string) string {
	best, bestScore := "", 0.8
	for _, r := range rows {
		name := r.At(league.StandingsTeam)
		if name == "" {
			continue
		}
		if score := matchr.JaroWinkler(strings.ToLower(name), strings.ToLower(team), false); score > bestScore {
			best, bestScore = name, score
		}
	}
	return best
}

// leadingInt parses the leading digits of s, ignoring surrounding space. "12." gives 12, "abc" gives 0.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
