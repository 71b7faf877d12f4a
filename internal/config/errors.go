package config

import "errors"

// Configuration validation errors.
//
// Design decision: We use package-level sentinel errors rather than creating
// new error instances in Validate(). This lets callers use errors.Is() for
// programmatic handling while keeping human-readable messages.
var (
	// ErrNoStartURL is returned when a crawl is requested without a seed URL.
	ErrNoStartURL = errors.New("no start URL specified")

	// ErrNoTarget is returned when no target URL is given to the CLI.
	ErrNoTarget = errors.New("no target specified: provide one or more site URLs")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")
)
