// Package seo implements the on-page audit modules run against pages
// collected by the crawl engine.
//
// Each module inspects one parsed HTML page and returns a ModuleReport with
// a verdict and a list of findings. Modules are independent of the crawler:
// they receive page snapshots through the Page type and never perform
// network I/O. The Runner fans snapshots out to all registered modules with
// bounded concurrency.
package seo
