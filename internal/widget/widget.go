// Package widget answers widget requests: it resolves where the rows come
// from (snapshot, cache or upstream), applies sorting and limits, and hands
// the result to the renderers. Failures never escape as errors from Render;
// they become the error marker.
package widget

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Grabber66/sis-handball/internal/cache"
	"github.com/Grabber66/sis-handball/internal/calendar"
	"github.com/Grabber66/sis-handball/internal/league"
	"github.com/Grabber66/sis-handball/internal/logger"
	"github.com/Grabber66/sis-handball/internal/monitor"
	"github.com/Grabber66/sis-handball/internal/render"
	"github.com/Grabber66/sis-handball/internal/scraper"
	"github.com/Grabber66/sis-handball/internal/storage"
)

// Store is the part of the row store the service reads.
type Store interface {
	LoadSnapshot(ctx context.Context, code string) (*storage.Snapshot, error)
	SaveSnapshot(ctx context.Context, snap *storage.Snapshot) error
	ListConditions(ctx context.Context, concatenationID int64) ([]storage.Condition, error)
	ListReplacements(ctx context.Context) ([]storage.Replacement, error)
}

// Source fetches normalized rows.
type Source interface {
	Fetch(ctx context.Context, url string, kind league.Kind) (league.Dataset, error)
}

// Tracker records and returns a team's position history.
type Tracker interface {
	Track(ctx context.Context, url, team string) (*monitor.Series, error)
}

// Options configures a Service.
type Options struct {
	Builder league.Builder
	// ShowUpdate appends the capture time of cached results.
	ShowUpdate bool
	// LazyLoadLimit renders rows past a limit hidden instead of dropping them.
	LazyLoadLimit bool
	Renderer      render.Renderer
}

// Service answers widget requests.
type Service struct {
	store   Store
	source  Source
	cache   *cache.Cache
	tracker Tracker
	opts    Options
	now     func() time.Time
}

// New creates a Service. A nil cache disables caching.
func New(store Store, source Source, c *cache.Cache, tracker Tracker, opts Options) *Service {
	return &Service{
		store:   store,
		source:  source,
		cache:   c,
		tracker: tracker,
		opts:    opts,
		now:     time.Now,
	}
}

// Result is the dataset of a request.
type Result struct {
	URL     string
	Dataset league.Dataset
	// CachedAt is the capture time of a cached dataset, zero for live data.
	CachedAt time.Time
}

// Data returns the rows of req from the cache or upstream, writing fresh
// upstream rows to the cache. Snapshots, sorting and limits are not applied.
func (s *Service) Data(ctx context.Context, req Request) (*Result, error) {
	url := req.URL(s.opts.Builder)
	res := &Result{URL: url}

	useCache := s.cache != nil && !req.Params().NoCache()
	if useCache {
		entry, err := s.cache.Lookup(ctx, url, req.Kind)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			res.Dataset = entry.Dataset
			res.CachedAt = entry.CapturedAt
			return res, nil
		}
	}

	ds, err := s.source.Fetch(ctx, url, req.Kind)
	if err != nil {
		return nil, err
	}
	res.Dataset = ds

	if useCache {
		if err := s.cache.Write(ctx, ds, url, req.Kind); err != nil {
			s.logFailure(req, err)
		}
	}
	return res, nil
}

// Render renders req as HTML.
func (s *Service) Render(ctx context.Context, req Request) string {
	params := req.Params()
	rd := s.renderer(ctx, req, params)

	switch req.Kind {
	case league.KindChart:
		series, err := s.tracker.Track(ctx, req.URL(s.opts.Builder), req.Team)
		if err != nil {
			return rd.Error(s.logFailure(req, err))
		}
		return rd.Chart(series)
	case league.KindConcat:
		rows, err := s.concatenation(ctx, req.ConcatenationID)
		if err != nil {
			return rd.Error(s.logFailure(req, err))
		}
		return rd.Concatenation(rows, params.Class())
	}

	res, err := s.tableData(ctx, req)
	if err != nil {
		return rd.Error(s.logFailure(req, err))
	}

	ds := res.Dataset
	if req.Sorting == "desc" {
		ds = ds.Reversed()
	}

	opts := render.TableOptions{
		League:   req.League,
		Kind:     req.Kind,
		HideCols: req.HiddenColumns(),
		Marked:   req.Marked,
		Class:    params.Class(),
		HideHead: params.HideHead(),
	}
	if n, ok := req.LimitN(); ok {
		if s.opts.LazyLoadLimit {
			opts.Limit = n
		} else {
			ds = ds.Head(n)
		}
	}

	html := rd.Table(ds, opts)
	if s.opts.ShowUpdate && !res.CachedAt.IsZero() {
		html += rd.CacheUpdate(res.CachedAt)
	}
	return html
}

// tableData resolves a snapshot when one is requested. An unknown snapshot
// yields an empty result.
func (s *Service) tableData(ctx context.Context, req Request) (*Result, error) {
	if req.Snapshot == "" {
		return s.Data(ctx, req)
	}
	snap, err := s.store.LoadSnapshot(ctx, req.Snapshot)
	if err != nil {
		return nil, err
	}
	res := &Result{URL: req.URL(s.opts.Builder)}
	if snap == nil {
		return res, nil
	}
	var ds league.Dataset
	if err := json.Unmarshal(snap.Payload, &ds); err != nil {
		return nil, fmt.Errorf("decoding snapshot %q: %w", req.Snapshot, err)
	}
	res.Dataset = scraper.NormalizeDataset(ds)
	return res, nil
}

// concatenation collects the first row of every condition. Conditions whose
// data cannot be loaded are logged and skipped.
func (s *Service) concatenation(ctx context.Context, id int64) ([]league.Row, error) {
	conds, err := s.store.ListConditions(ctx, id)
	if err != nil {
		return nil, err
	}

	var rows []league.Row
	for _, c := range conds {
		var req Request
		if err := json.Unmarshal(c.Payload, &req); err != nil {
			logger.Warn("skipping malformed concatenation condition", logger.Fields{
				"concatenation_id": id,
				"condition_id":     c.ID,
				"error":            err.Error(),
			})
			continue
		}
		res, err := s.Data(ctx, req)
		if err != nil {
			s.logFailure(req, err)
			continue
		}
		if len(res.Dataset) > 0 {
			rows = append(rows, res.Dataset[0])
		}
	}
	return rows, nil
}

// SaveSnapshot fetches req live and stores the rows under code.
func (s *Service) SaveSnapshot(ctx context.Context, code string, req Request) (league.Dataset, error) {
	if code == "" {
		return nil, errors.New("snapshot code is required")
	}
	ds, err := s.source.Fetch(ctx, req.URL(s.opts.Builder), req.Kind)
	if err != nil {
		return nil, err
	}
	if len(ds) == 0 {
		return nil, fmt.Errorf("no rows to snapshot for %s", req.URL(s.opts.Builder))
	}
	payload, err := json.Marshal(ds)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := s.store.SaveSnapshot(ctx, &storage.Snapshot{Code: code, Payload: payload, CreatedAt: s.now()}); err != nil {
		return nil, err
	}
	return ds, nil
}

// Calendar exports the games of req as an iCalendar file.
func (s *Service) Calendar(ctx context.Context, req Request) (string, error) {
	if !req.Kind.IsGameList() {
		return "", fmt.Errorf("kind %q does not list games", req.Kind)
	}
	res, err := s.Data(ctx, req)
	if err != nil {
		return "", err
	}
	games := calendar.Games(res.Dataset, req.Kind, s.opts.Renderer.Location)
	return calendar.GenerateICS(games, calendar.Options{
		Name: fmt.Sprintf("SIS Handball %s %s", req.Kind, req.League),
		Now:  s.now(),
	}), nil
}

// Monitor tracks req.Team in the standings of req.League.
func (s *Service) Monitor(ctx context.Context, req Request) (*monitor.Series, error) {
	return s.tracker.Track(ctx, s.opts.Builder.Build(league.KindChart, req.League), req.Team)
}

func (s *Service) renderer(ctx context.Context, req Request, params Params) render.Renderer {
	rd := s.opts.Renderer
	if params.IgnoreNames() {
		return rd.WithNames(render.NoReplacements)
	}
	stored, err := s.store.ListReplacements(ctx)
	if err != nil {
		s.logFailure(req, err)
		return rd.WithNames(render.NoReplacements)
	}
	names := make(render.Replacements, 0, len(stored))
	for _, r := range stored {
		names = append(names, render.Replacement{Source: r.Source, Replace: r.Replace})
	}
	return rd.WithNames(names)
}

// logFailure logs err as a storage or an upstream failure and returns the
// matching error marker.
func (s *Service) logFailure(req Request, err error) render.ErrorKind {
	fields := logger.Fields{
		"league": req.League,
		"type":   req.Kind.String(),
	}

	var se *storage.Error
	if errors.As(err, &se) {
		logger.IncrCounter("widget.storage_errors")
		logger.Error("storage failure", fields, err)
		return render.ErrDefault
	}
	logger.IncrCounter("widget.upstream_errors")
	fields["error"] = err.Error()
	logger.Warn("upstream returned no data", fields)
	return render.ErrNoData
}
