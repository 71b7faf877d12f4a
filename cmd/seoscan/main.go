// Package main provides the entry point for the SEOScan CLI.
//
// SEOScan is an on-site SEO auditing tool. It crawls a website within its
// origin, respecting robots.txt, and reports technical SEO findings.
//
// Usage:
//
//	seoscan audit https://example.com
//	seoscan audit --json https://example.com
//
// See --help for all available options.
package main

// main is the entry point for SEOScan.
func main() {
	Execute()
}
