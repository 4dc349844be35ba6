// Package server exposes widgets, datasets, position series and calendars
// over HTTP and sweeps the cache in the background.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Grabber66/sis-handball/internal/league"
	"github.com/Grabber66/sis-handball/internal/logger"
	"github.com/Grabber66/sis-handball/internal/monitor"
	"github.com/Grabber66/sis-handball/internal/storage"
	"github.com/Grabber66/sis-handball/internal/widget"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Widgets answers widget requests.
type Widgets interface {
	Render(ctx context.Context, req widget.Request) string
	Data(ctx context.Context, req widget.Request) (*widget.Result, error)
	Monitor(ctx context.Context, req widget.Request) (*monitor.Series, error)
	Calendar(ctx context.Context, req widget.Request) (string, error)
}

// Sweeper removes expired cache entries.
type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// Options configures the HTTP server.
type Options struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
	// SweepInterval <= 0 disables the background sweep.
	SweepInterval time.Duration
}

// Server serves the HTTP API.
type Server struct {
	widgets    Widgets
	sweeper    Sweeper
	opts       Options
	httpServer *http.Server
}

// New creates a Server. sweeper may be nil.
func New(widgets Widgets, sweeper Sweeper, opts Options) *Server {
	s := &Server{widgets: widgets, sweeper: sweeper, opts: opts}
	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		IdleTimeout:  opts.IdleTimeout,
	}
	return s
}

// Handler returns the routed handler with CORS applied.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(logRequests)

	router.HandleFunc("/widget", s.handleWidget).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/data", s.handleData).Methods(http.MethodGet)
	api.HandleFunc("/monitor", s.handleMonitor).Methods(http.MethodGet)
	api.HandleFunc("/calendar", s.handleCalendar).Methods(http.MethodGet)
	api.HandleFunc("/metrics", s.handleMetrics).Methods(http.MethodGet)

	origins := s.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	})
	return c.Handler(router)
}

// Run serves until ctx is cancelled, then shuts down gracefully. The cache
// sweep runs alongside the server.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", logger.Fields{"addr": s.opts.Addr})
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("http server shutting down", nil)
		return s.httpServer.Shutdown(shutdownCtx)
	})

	if s.sweeper != nil && s.opts.SweepInterval > 0 {
		g.Go(func() error {
			s.sweepLoop(ctx)
			return nil
		})
	}

	return g.Wait()
}

func (s *Server) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(s.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.sweeper.Sweep(ctx); err != nil && ctx.Err() == nil {
				logger.Error("cache sweep failed", nil, err)
			}
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

func (s *Server) handleWidget(w http.ResponseWriter, r *http.Request) {
	req, ok := parseRequest(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(s.widgets.Render(r.Context(), req)))
}

// dataResponse is the JSON form of a dataset.
type dataResponse struct {
	URL      string         `json:"url"`
	Type     string         `json:"type"`
	CachedAt *time.Time     `json:"cached_at,omitempty"`
	Count    int            `json:"count"`
	Rows     league.Dataset `json:"rows"`
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	req, ok := parseRequest(w, r)
	if !ok {
		return
	}
	res, err := s.widgets.Data(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := dataResponse{
		URL:   res.URL,
		Type:  req.Kind.String(),
		Count: len(res.Dataset),
		Rows:  res.Dataset,
	}
	if resp.Rows == nil {
		resp.Rows = league.Dataset{}
	}
	if !res.CachedAt.IsZero() {
		at := res.CachedAt.UTC()
		resp.CachedAt = &at
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMonitor(w http.ResponseWriter, r *http.Request) {
	req, ok := parseRequest(w, r)
	if !ok {
		return
	}
	if req.League == "" || req.Team == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "league and team are required"})
		return
	}
	series, err := s.widgets.Monitor(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	req, ok := parseRequest(w, r)
	if !ok {
		return
	}
	ics, err := s.widgets.Calendar(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="sis-handball.ics"`)
	_, _ = w.Write([]byte(ics))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, logger.GetMetricsSnapshot())
}

func parseRequest(w http.ResponseWriter, r *http.Request) (widget.Request, bool) {
	req, err := widget.RequestFromQuery(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return widget.Request{}, false
	}
	return req, true
}

// writeError maps storage failures to 500 and everything else, which comes
// from upstream or the request itself, to 502.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	var se *storage.Error
	if errors.As(err, &se) {
		status = http.StatusInternalServerError
		logger.Error("storage failure", nil, err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("encoding response failed", logger.Fields{"error": err.Error()})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		logger.RecordTiming("http.request", elapsed)
		logger.IncrCounter("http.requests")
		logger.Debug("http request", logger.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"duration_ms": elapsed.Milliseconds(),
		})
	})
}
