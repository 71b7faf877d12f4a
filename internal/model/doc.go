// Package model defines the data structures shared across the crawl engine,
// audit pipeline, report writers, and database. It holds crawl results,
// per-page outcomes, page snapshots, and SEO module report shapes.
package model
