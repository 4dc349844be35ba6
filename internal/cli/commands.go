package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/Grabber66/sis-handball/internal/cache"
	"github.com/Grabber66/sis-handball/internal/config"
	"github.com/Grabber66/sis-handball/internal/league"
	"github.com/Grabber66/sis-handball/internal/server"
	"github.com/Grabber66/sis-handball/internal/storage"
	"github.com/Grabber66/sis-handball/internal/widget"
	"github.com/spf13/cobra"
)

func newFetchCmd(g *globalFlags) *cobra.Command {
	var (
		rf      requestFlags
		format  string
		sortBy  string
		limit   int
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch and print the rows of a league page",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := rf.request()
			if err != nil {
				return err
			}
			outFormat, err := ParseFormat(format, true)
			if err != nil {
				return err
			}
			order, err := ParseSortOrder(sortBy)
			if err != nil {
				return err
			}
			if noCache {
				req.AdditionalParams = "cache:'no-cache'"
			}

			a, err := g.newApp(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			res, err := a.widgets.Data(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("fetching %s: %w", req.URL(league.Builder{Base: a.cfg.Upstream.BaseURL}), err)
			}

			ds := sortDataset(res.Dataset, req.Kind, order)
			if limit > 0 {
				ds = ds.Head(limit)
			}

			result := &DatasetResult{
				URL:       res.URL,
				Type:      req.Kind,
				FetchedAt: time.Now().UTC(),
				RowCount:  len(ds),
				Rows:      ds,
			}
			if !res.CachedAt.IsZero() {
				at := res.CachedAt
				result.CachedAt = &at
			}
			if err := WriteDataset(cmd.OutOrStdout(), result, outFormat); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			return nil
		},
	}

	rf.register(cmd, string(league.KindStandings))
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json, markdown or ics")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort rows: desc, date or team")
	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most N rows")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the cache")
	_ = cmd.MarkFlagRequired("league")
	return cmd
}

func newRenderCmd(g *globalFlags) *cobra.Command {
	var (
		rf  requestFlags
		req widget.Request
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a widget as HTML",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := rf.request()
			if err != nil {
				return err
			}
			req.League, req.Kind, req.Team = base.League, base.Kind, base.Team

			a, err := g.newApp(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			fmt.Fprintln(cmd.OutOrStdout(), a.widgets.Render(cmd.Context(), req))
			return nil
		},
	}

	rf.register(cmd, string(league.KindStandings))
	cmd.Flags().StringVar(&req.Marked, "marked", "", "Team to highlight")
	cmd.Flags().StringVar(&req.HideCols, "hide-cols", "", "Comma separated column numbers to hide, or hide-team")
	cmd.Flags().StringVar(&req.Limit, "limit", "", "Show at most N rows")
	cmd.Flags().StringVar(&req.Sorting, "sorting", "", "Row order: desc")
	cmd.Flags().StringVar(&req.Snapshot, "snapshot", "", "Render a saved snapshot")
	cmd.Flags().Int64Var(&req.ConcatenationID, "id", 0, "Concatenation id (type concat)")
	cmd.Flags().StringVar(&req.AdditionalParams, "params", "", "Additional params, e.g. class:'big'|cache:'no-cache'")
	return cmd
}

func newTrackCmd(g *globalFlags) *cobra.Command {
	var (
		rf     requestFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "track",
		Short: "Record and show a team's position per gameday",
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := ParseFormat(format, false)
			if err != nil {
				return err
			}
			req := widget.Request{League: rf.league, Kind: league.KindChart, Team: rf.team}

			a, err := g.newApp(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			series, err := a.widgets.Monitor(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("tracking %s: %w", rf.team, err)
			}
			return WriteSeries(cmd.OutOrStdout(), series, outFormat)
		},
	}

	cmd.Flags().StringVar(&rf.league, "league", "", "League id")
	cmd.Flags().StringVar(&rf.team, "team", "", "Team name as shown in the standings")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json or markdown")
	_ = cmd.MarkFlagRequired("league")
	_ = cmd.MarkFlagRequired("team")
	return cmd
}

func newSweepCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Delete cache entries older than seven days",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.newApp(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			removed, err := cache.New(a.db, a.cfg.CacheTimeout()).Sweep(cmd.Context())
			if err != nil {
				return fmt.Errorf("sweeping cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cache entries.\n", removed)
			return nil
		},
	}
}

func newSnapshotCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Manage pinned datasets",
	}

	var (
		rf   requestFlags
		code string
	)
	save := &cobra.Command{
		Use:   "save",
		Short: "Fetch a page and save its rows under a code",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := rf.request()
			if err != nil {
				return err
			}

			a, err := g.newApp(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			ds, err := a.widgets.SaveSnapshot(cmd.Context(), code, req)
			if err != nil {
				return fmt.Errorf("saving snapshot: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved snapshot %q with %d rows.\n", code, len(ds))
			return nil
		},
	}
	rf.register(save, string(league.KindStandings))
	save.Flags().StringVar(&code, "code", "", "Snapshot code")
	_ = save.MarkFlagRequired("code")
	_ = save.MarkFlagRequired("league")

	cmd.AddCommand(save)
	return cmd
}

func newConcatCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "concat",
		Short: "Manage next-games concatenations",
	}

	var (
		rf    requestFlags
		addID int64
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a team's next games to a concatenation",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := rf.request()
			if err != nil {
				return err
			}
			payload, err := json.Marshal(req)
			if err != nil {
				return fmt.Errorf("encoding condition: %w", err)
			}

			a, err := g.newApp(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			c := &storage.Condition{ConcatenationID: addID, Payload: payload}
			if err := a.db.AddCondition(cmd.Context(), c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added condition %d to concatenation %d.\n", c.ID, addID)
			return nil
		},
	}
	rf.register(add, string(league.KindNext))
	add.Flags().Int64Var(&addID, "id", 0, "Concatenation id")
	_ = add.MarkFlagRequired("id")
	_ = add.MarkFlagRequired("league")

	var (
		listID int64
		format string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List the conditions of a concatenation",
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := ParseFormat(format, false)
			if err != nil {
				return err
			}
			a, err := g.newApp(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			conds, err := a.db.ListConditions(cmd.Context(), listID)
			if err != nil {
				return err
			}
			return WriteConditions(cmd.OutOrStdout(), conds, outFormat)
		},
	}
	list.Flags().Int64Var(&listID, "id", 0, "Concatenation id")
	list.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	_ = list.MarkFlagRequired("id")

	cmd.AddCommand(add, list)
	return cmd
}

func newNamesCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "names",
		Short: "Manage team display names",
	}

	var source, replace string
	add := &cobra.Command{
		Use:   "add",
		Short: "Display a team under another name",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.newApp(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			r := &storage.Replacement{Source: source, Replace: replace}
			if err := a.db.AddReplacement(cmd.Context(), r); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added replacement %d: %q -> %q.\n", r.ID, source, replace)
			return nil
		},
	}
	add.Flags().StringVar(&source, "source", "", "Team name as shown upstream")
	add.Flags().StringVar(&replace, "replace", "", "Name to display instead")
	_ = add.MarkFlagRequired("source")
	_ = add.MarkFlagRequired("replace")

	var format string
	list := &cobra.Command{
		Use:   "list",
		Short: "List team display names",
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := ParseFormat(format, false)
			if err != nil {
				return err
			}
			a, err := g.newApp(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			rs, err := a.db.ListReplacements(cmd.Context())
			if err != nil {
				return err
			}
			return WriteReplacements(cmd.OutOrStdout(), rs, outFormat)
		},
	}
	list.Flags().StringVar(&format, "format", "text", "Output format: text or json")

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a team display name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[0], err)
			}
			a, err := g.newApp(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			ok, err := a.db.DeleteReplacement(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("replacement %d not found", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted replacement %d.\n", id)
			return nil
		},
	}

	cmd.AddCommand(add, list, del)
	return cmd
}

func newServeCmd(g *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve widgets and data over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := g.newApp(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			var sweeper server.Sweeper
			if a.cache != nil {
				sweeper = a.cache
			}
			srv := server.New(a.widgets, sweeper, server.Options{
				Addr:           addr,
				ReadTimeout:    a.cfg.Server.ReadTimeout,
				WriteTimeout:   a.cfg.Server.WriteTimeout,
				IdleTimeout:    a.cfg.Server.IdleTimeout,
				AllowedOrigins: a.cfg.Server.AllowedOrigins,
				SweepInterval:  a.cfg.Cache.SweepInterval,
			})
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}

func newInitCmd() *cobra.Command {
	var (
		path  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = config.XDGConfigFile()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("creating config directory: %w", err)
			}
			if err := os.WriteFile(path, config.Template(), 0o600); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "Config file to write (default: XDG config dir)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sis-handball %s\n", Version)
		},
	}
}
