// Package render turns datasets into the HTML fragments embedded in pages:
// result tables per content kind, the position chart script, the concatenated
// next-games overview and the error marker.
//
// Renderers never fetch or cache. Every cell text is HTML-escaped.
package render
