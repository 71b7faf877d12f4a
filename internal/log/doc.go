// Package log provides structured logging helpers built on log/slog.
//
// The crawler logs every URL it touches, and URLs routinely leak credentials:
// session identifiers in query strings, per-site auth headers from the config
// file, cookies supplied for gated sections. RedactHandler wraps any
// slog.Handler and masks those values before they reach the output, so crawl
// logs are safe to share in bug reports.
package log
