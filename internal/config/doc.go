// Package config provides configuration structures and utilities for seoscan.
// It defines the crawl options, their defaults and clamping rules, and the
// .seoscan configuration file with per-site overrides.
package config
