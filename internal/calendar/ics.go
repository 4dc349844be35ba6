package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/Grabber66/sis-handball/internal/league"
)

// DefaultDuration is the length of a game event when none is configured.
const DefaultDuration = 90 * time.Minute

// Game is one scheduled game taken from a game list row.
type Game struct {
	Start time.Time
	// AllDay is set when the row carries no kick-off time.
	AllDay   bool
	Home     string
	Guest    string
	Location string
	Goals    string
}

// Games extracts the games of a dataset. Rows whose date cannot be parsed are
// skipped. Kick-off times are interpreted in loc.
func Games(ds league.Dataset, kind league.Kind, loc *time.Location) []Game {
	cells, ok := league.GameCellsFor(kind)
	if !ok {
		return nil
	}

	var games []Game
	for _, r := range ds {
		clock := ""
		if cells.Time >= 0 {
			clock = r.At(cells.Time)
		}
		start, ok := league.ParseGameTime(r.At(cells.Date), clock, loc)
		if !ok {
			continue
		}
		g := Game{
			Start:    start,
			AllDay:   strings.TrimSpace(clock) == "",
			Home:     r.At(cells.Home),
			Guest:    r.At(cells.Guest),
			Location: r.Location,
		}
		if cells.Location >= 0 {
			g.Location = r.At(cells.Location)
		}
		if cells.Goals >= 0 {
			g.Goals = r.At(cells.Goals)
		}
		games = append(games, g)
	}
	return games
}

// Options configures the generated calendar.
type Options struct {
	// Name is published as X-WR-CALNAME.
	Name     string
	Duration time.Duration
	// Now stamps DTSTAMP. Zero means time.Now.
	Now time.Time
}

// GenerateICS generates an iCalendar (.ics) file with one event per game.
func GenerateICS(games []Game, opts Options) string {
	if opts.Duration <= 0 {
		opts.Duration = DefaultDuration
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	var ics strings.Builder
	writeLine(&ics, "BEGIN:VCALENDAR")
	writeLine(&ics, "VERSION:2.0")
	writeLine(&ics, "PRODID:-//SIS Handball//sis-handball//EN")
	writeLine(&ics, "CALSCALE:GREGORIAN")
	writeLine(&ics, "METHOD:PUBLISH")
	if opts.Name != "" {
		writeLine(&ics, "X-WR-CALNAME:"+escapeICS(opts.Name))
	}

	for _, g := range games {
		writeEvent(&ics, g, opts)
	}

	writeLine(&ics, "END:VCALENDAR")
	return ics.String()
}

func writeEvent(ics *strings.Builder, g Game, opts Options) {
	writeLine(ics, "BEGIN:VEVENT")
	writeLine(ics, "UID:"+uid(g))
	writeLine(ics, "DTSTAMP:"+formatICSTime(opts.Now))

	if g.AllDay {
		writeLine(ics, "DTSTART;VALUE=DATE:"+g.Start.Format("20060102"))
		writeLine(ics, "DTEND;VALUE=DATE:"+g.Start.AddDate(0, 0, 1).Format("20060102"))
	} else {
		writeLine(ics, "DTSTART:"+formatICSTime(g.Start))
		writeLine(ics, "DTEND:"+formatICSTime(g.Start.Add(opts.Duration)))
	}

	summary := g.Home + " - " + g.Guest
	if g.Goals != "" {
		summary += " (" + g.Goals + ")"
	}
	writeLine(ics, "SUMMARY:"+escapeICS(summary))
	if g.Location != "" {
		writeLine(ics, "LOCATION:"+escapeICS(g.Location))
	}
	writeLine(ics, "STATUS:CONFIRMED")
	writeLine(ics, "TRANSP:OPAQUE")
	writeLine(ics, "END:VEVENT")
}

// uid is stable across exports so calendar clients update instead of duplicating.
func uid(g Game) string {
	return fmt.Sprintf("%s-%s-%s@sis-handball", g.Start.Format("20060102"), slug(g.Home), slug(g.Guest))
}

func slug(s string) string {
	return strings.Trim(strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return '-'
	}, s), "-")
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// writeLine writes one content line, folded at 75 octets (RFC 5545 3.1).
func writeLine(ics *strings.Builder, line string) {
	limit := 75
	for len(line) > limit {
		cut := limit
		for cut > 0 && !isRuneStart(line[cut]) {
			cut--
		}
		ics.WriteString(line[:cut] + "\r\n ")
		line = line[cut:]
		limit = 74
	}
	ics.WriteString(line + "\r\n")
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
