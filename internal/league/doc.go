// Package league describes the SIS handball content the rest of the module works with.
//
// It holds the closed set of content kinds (team schedule, next games, all games,
// standings, position chart, team stats, club schedule, concatenated next games),
// the column layout each kind exposes, the upstream URL builder and the table of
// legacy URL migrations used to reconcile position history recorded before the
// upstream site moved.
package league
