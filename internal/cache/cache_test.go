package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Grabber66/sis-handball/internal/league"
	"github.com/Grabber66/sis-handball/internal/storage"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestCache(t *testing.T, timeout time.Duration) (*Cache, *clock) {
	t.Helper()
	db, err := storage.Open(context.Background(), storage.Options{Dir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	c := New(db, timeout)
	clk := &clock{t: time.Unix(1700000000, 0).UTC()}
	c.now = clk.now
	return c, clk
}

var sample = league.Dataset{
	league.NewRow("", "1", "TV Musterstadt", "10/22", "8"),
	league.NewRow("", "2", "HSG Beispiel", "10/22", "7"),
}

func TestParseTimeout(t *testing.T) {
	tests := []struct {
		option string
		want   time.Duration
	}{
		{"4h", 14400 * time.Second},
		{"8h", 28800 * time.Second},
		{"12h", 43200 * time.Second},
		{"1d", 86400 * time.Second},
		{"1w", 604800 * time.Second},
		{"", 28800 * time.Second},
		{"2h", 28800 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.option, func(t *testing.T) {
			if got := ParseTimeout(tt.option); got != tt.want {
				t.Errorf("ParseTimeout(%q) = %v, want %v", tt.option, got, tt.want)
			}
		})
	}
}

func TestFreshness(t *testing.T) {
	ctx := context.Background()
	window := ParseTimeout("4h")
	c, clk := newTestCache(t, window)
	url := league.BuildURL(league.KindStandings, "1")
	written := clk.t

	require.NoError(t, c.Write(ctx, sample, url, league.KindStandings))

	t.Run("hit just inside the window", func(t *testing.T) {
		clk.t = written.Add(window - time.Second)
		e, err := c.Lookup(ctx, url, league.KindStandings)
		require.NoError(t, err)
		require.NotNil(t, e)
		if diff := cmp.Diff(sample, e.Dataset); diff != "" {
			t.Errorf("cached dataset mismatch (-want +got):\n%s", diff)
		}
		require.True(t, e.CapturedAt.Equal(written))
	})

	t.Run("miss just outside the window", func(t *testing.T) {
		clk.t = written.Add(window + time.Second)
		e, err := c.Lookup(ctx, url, league.KindStandings)
		require.NoError(t, err)
		require.Nil(t, e)
	})

	t.Run("kind is part of the key", func(t *testing.T) {
		clk.t = written
		e, err := c.Lookup(ctx, url, league.KindStats)
		require.NoError(t, err)
		require.Nil(t, e)
	})
}

func TestLookupReturnsNewest(t *testing.T) {
	ctx := context.Background()
	c, clk := newTestCache(t, DefaultTimeout)
	url := league.BuildURL(league.KindGames, "7")

	require.NoError(t, c.Write(ctx, sample[:1], url, league.KindGames))
	clk.t = clk.t.Add(time.Minute)
	require.NoError(t, c.Write(ctx, sample, url, league.KindGames))

	e, err := c.Lookup(ctx, url, league.KindGames)
	require.NoError(t, err)
	require.Len(t, e.Dataset, 2)
}

func TestWriteSkipsEmptyDataset(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, DefaultTimeout)
	url := league.BuildURL(league.KindNext, "3")

	require.NoError(t, c.Write(ctx, nil, url, league.KindNext))

	e, err := c.Lookup(ctx, url, league.KindNext)
	require.NoError(t, err)
	require.Nil(t, e)
}

func TestSweep(t *testing.T) {
	ctx := context.Background()
	c, clk := newTestCache(t, DefaultTimeout)
	start := clk.t

	require.NoError(t, c.Write(ctx, sample, "old", league.KindStandings))
	clk.t = start.Add(3 * 24 * time.Hour)
	require.NoError(t, c.Write(ctx, sample, "recent", league.KindStandings))

	clk.t = start.Add(Retention + time.Hour)
	removed, err := c.Sweep(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)

	removed, err = c.Sweep(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 0, removed)
}
