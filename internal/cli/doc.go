// Package cli implements the command-line interface for sis-handball.
//
// The cli package provides the Cobra-based CLI for fetching league tables,
// rendering widgets, tracking a team's position, managing snapshots,
// concatenations and display names, and running the HTTP server. It wires
// config, storage, scraper, cache, monitor and widget together.
package cli
