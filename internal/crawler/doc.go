// Package crawler provides the same-origin crawl engine.
//
// # Architecture
//
// The package is designed around the Engine type, which drives a
// breadth-first traversal of a site from a seed URL. A frontier queue of
// (url, depth) pairs feeds discrete fetch batches; each batch is issued
// concurrently and fully settled before the next batch is formed, which
// bounds in-flight requests to the configured concurrency and keeps every
// piece of crawl state on the single engine loop.
//
// # Components
//
//   - Normalize: canonicalizes URLs so equivalent spellings deduplicate
//   - PatternFilter: classifies URLs against trap patterns and caller lists
//   - ExtractLinks: same-origin link discovery via golang.org/x/net/html
//   - ExtractCanonical: reads a page's declared canonical URL
//   - Fetcher: one timed HTTP GET with body limits and optional rate limiting
//   - Engine: the frontier/scheduler state machine producing a CrawlResult
//
// # Ownership
//
// All mutable run state (frontier, visited set, canonical-seen set, results)
// is owned by a single Crawl invocation and discarded when it returns.
// Nothing is shared across concurrent crawl runs, so one Engine can serve
// parallel audits of different sites.
package crawler
