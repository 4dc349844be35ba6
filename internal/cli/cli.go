package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Grabber66/sis-handball/internal/cache"
	"github.com/Grabber66/sis-handball/internal/config"
	"github.com/Grabber66/sis-handball/internal/league"
	"github.com/Grabber66/sis-handball/internal/logger"
	"github.com/Grabber66/sis-handball/internal/monitor"
	"github.com/Grabber66/sis-handball/internal/render"
	"github.com/Grabber66/sis-handball/internal/scraper"
	"github.com/Grabber66/sis-handball/internal/storage"
	"github.com/Grabber66/sis-handball/internal/widget"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// Version is set at build time with -ldflags "-X ...cli.Version=v1.2.3".
var Version = "dev"

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	verbose    bool
	dbDriver   string
	dbDSN      string
	dataDir    string
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "sis-handball",
		Short: "Fetch, cache and render SIS handball league tables",
		Long: `A CLI tool to fetch standings and schedules from the SIS handball website,
cache them, track a team's league position and render the results as HTML widgets.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&g.configPath, "config", "", "Config file (default: search .sis-handball.yaml)")
	cmd.PersistentFlags().BoolVar(&g.verbose, "verbose", false, "Enable verbose logging")
	cmd.PersistentFlags().StringVar(&g.dbDriver, "db-driver", "", "Storage driver: sqlite or postgres")
	cmd.PersistentFlags().StringVar(&g.dbDSN, "db-dsn", "", "PostgreSQL connection string or SQLite file")
	cmd.PersistentFlags().StringVar(&g.dataDir, "data-dir", "", "Data directory for the SQLite database")

	cmd.AddCommand(
		newFetchCmd(g),
		newRenderCmd(g),
		newTrackCmd(g),
		newSweepCmd(g),
		newSnapshotCmd(g),
		newConcatCmd(g),
		newNamesCmd(g),
		newServeCmd(g),
		newInitCmd(),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}

// app holds the wired components of one command run.
type app struct {
	cfg     *config.Config
	db      *storage.DB
	cache   *cache.Cache
	monitor *monitor.Monitor
	widgets *widget.Service
}

// loadConfig loads the configuration and applies the persistent flags.
func (g *globalFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if g.dbDriver != "" {
		cfg.Storage.Driver = g.dbDriver
	}
	if g.dbDSN != "" {
		cfg.Storage.DSN = g.dbDSN
	}
	if g.dataDir != "" {
		cfg.Storage.Dir = g.dataDir
	}
	if g.verbose {
		cfg.LogLevel = "DEBUG"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newApp wires storage, scraper, cache, monitor and widget service.
// Callers must call close.
func (g *globalFlags) newApp(ctx context.Context, stderr io.Writer) (*app, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}
	logger.SetDefault(logger.New(logger.ParseLevel(cfg.LogLevel), stderr))

	db, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	sc, err := scraper.NewWithOptions(cfg.ScraperOptions())
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing scraper: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := &app{cfg: cfg, db: db}
	if cfg.Cache.Enabled {
		a.cache = cache.New(db, cfg.CacheTimeout())
	}
	a.monitor = monitor.New(db, sc, cfg.CacheTimeout())

	rd := render.New(render.NewLabels(cfg.Render.Texts))
	rd.HideErrors = cfg.Render.HideErrors
	rd.Location = loc

	a.widgets = widget.New(db, sc, a.cache, a.monitor, widget.Options{
		Builder:       league.Builder{Base: cfg.Upstream.BaseURL},
		ShowUpdate:    cfg.Cache.ShowUpdate,
		LazyLoadLimit: cfg.Render.LazyLoadLimit,
		Renderer:      rd,
	})
	return a, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		logger.Warn("closing storage failed", logger.Fields{"error": err.Error()})
	}
}

// requestFlags are the widget request flags shared by several commands.
type requestFlags struct {
	kind   string
	league string
	team   string
}

func (f *requestFlags) register(cmd *cobra.Command, defaultKind string) {
	cmd.Flags().StringVar(&f.kind, "type", defaultKind, "Content type: team, next, games, standings, chart, stats, club, concat")
	cmd.Flags().StringVar(&f.league, "league", "", "League (or club) id")
	cmd.Flags().StringVar(&f.team, "team", "", "Team name")
}

func (f *requestFlags) request() (widget.Request, error) {
	kind, ok := league.ParseKind(f.kind)
	if !ok {
		return widget.Request{}, fmt.Errorf("unknown type %q", f.kind)
	}
	return widget.Request{League: f.league, Kind: kind, Team: f.team}, nil
}
