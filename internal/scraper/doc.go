// Package scraper fetches SIS handball pages and turns their result tables into rows.
//
// A fetch is one GET with a fixed desktop browser user agent and an explicit
// timeout, repeated with exponential backoff only when Options.Retries is set.
// The body is decoded from the site's single-byte charset and parsed
// leniently. Extraction locates the "table-responsive" result tables by
// position, and normalization drops header, spacer and short rows while
// keeping each cell's upstream column position.
package scraper
