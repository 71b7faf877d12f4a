package pipeline

import (
	"context"
	"log/slog"

	"github.com/seoscan/seoscan/internal/model"
)

// Step is one phase of a site audit. The crawl step fills the report with
// pages, the audit step scores them; later phases always see what earlier
// phases produced because they share the same report.
//
// Design decision: We use an interface rather than function types because:
// 1. Steps carry state (the crawl step holds the engine and HTTP client)
// 2. It provides a Name() method for logging and PerformedSteps tracking
// 3. New phases (e.g., a sitemap pre-seed step) slot in without API changes
type Step interface {
	// Do runs the phase against the report. A crawl that reaches zero pages
	// or an audit that cannot score a page should record the problem in the
	// report and return nil; return an error only when the whole audit is
	// unusable.
	Do(ctx context.Context, report *model.SiteReport) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline runs the phases of a site audit in order, feeding one shared
// report through each.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
// This follows the functional options pattern for clean API design.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, a default logger is created.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError lets later phases run even when an earlier one fails.
// Failed steps are logged and their errors recorded in the report, but
// subsequent steps still execute.
//
// Design decision: The CLI enables this so a partial crawl still gets
// audited and written out. The default stays stop-on-error because a crawl
// that fails outright (unreachable site, bad seed URL) leaves nothing worth
// scoring.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps:           make([]Step, 0),
		continueOnError: false,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all phases in sequence against the report.
//
// Design decision: Cancellation is checked between phases, not inside them;
// a crawl in flight honors the context through its own fetches, so the check
// here only decides whether the next phase still starts.
//
// Returns the first error encountered if continueOnError is false,
// or nil if all steps complete (errors are recorded in report).
func (p *Pipeline) Execute(ctx context.Context, report *model.SiteReport) error {
	for _, step := range p.steps {
		// Check for cancellation before starting each step
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"site", report.StartURL,
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
			// Continue with execution
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"site", report.StartURL,
		)

		if err := step.Do(ctx, report); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"site", report.StartURL,
				"error", err,
			)

			// Record the error in the report
			report.Error = err.Error()

			// Stop or continue based on configuration
			if !p.continueOnError {
				return err
			}
		} else {
			p.logger.Debug("step completed",
				"step", step.Name(),
				"site", report.StartURL,
			)
		}

		// Track which steps were performed
		report.PerformedSteps = append(report.PerformedSteps, step.Name())
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
