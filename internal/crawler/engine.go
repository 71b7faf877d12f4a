package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/seoscan/seoscan/internal/config"
	"github.com/seoscan/seoscan/internal/model"
	"github.com/seoscan/seoscan/internal/robots"
)

// DefaultFrontierCap is the hard maximum frontier size. Once the frontier
// holds this many pending entries, newly discovered links are dropped rather
// than queued: back-pressure by truncation, not by blocking.
const DefaultFrontierCap = 5000

// frontierEntry is one queued (url, depth) pair. Entries are consumed
// exactly once when dequeued; their outcome is folded into a PageResult.
type frontierEntry struct {
	url   string
	depth int
}

// session holds the mutable state of one crawl run: the frontier queue, the
// visited set, and the canonical-seen set. Every field is owned by the
// engine loop of a single Crawl invocation; batch goroutines never touch a
// session, so no locking is needed.
type session struct {
	frontier      []frontierEntry
	visited       map[string]struct{}
	canonicalSeen map[string]struct{}
}

func newSession(seed string) *session {
	return &session{
		frontier:      []frontierEntry{{url: seed, depth: 0}},
		visited:       make(map[string]struct{}),
		canonicalSeen: make(map[string]struct{}),
	}
}

// fetchOutcome pairs a frontier entry with its settled fetch result.
type fetchOutcome struct {
	entry frontierEntry
	resp  *Response
	err   error
}

// Engine drives breadth-first crawls of a single origin. One Engine may
// serve many Crawl invocations, concurrently or in sequence; all per-run
// state lives in the run's session.
type Engine struct {
	client      *http.Client
	logger      *slog.Logger
	frontierCap int
	onPage      func(*model.PageSnapshot)
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithFrontierCap sets the hard maximum frontier size.
func WithFrontierCap(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.frontierCap = n
		}
	}
}

// WithPageHandler registers a callback invoked with a snapshot of every
// successfully fetched HTML page. This is how fetched pages reach the SEO
// audit modules without the engine knowing anything about them. The handler
// runs on the engine loop between batches, so it may be nil but must not
// block for long.
func WithPageHandler(fn func(*model.PageSnapshot)) EngineOption {
	return func(e *Engine) {
		e.onPage = fn
	}
}

// NewEngine creates an Engine using the given HTTP client.
//
// Design decision: We require an external client because transport
// configuration belongs to the caller; it also lets tests point the engine
// at httptest servers with their preconfigured clients.
func NewEngine(client *http.Client, opts ...EngineOption) *Engine {
	if client == nil {
		client = http.DefaultClient
	}

	e := &Engine{
		client:      client,
		logger:      slog.Default(),
		frontierCap: DefaultFrontierCap,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Crawl runs one breadth-first crawl described by cfg and returns the
// complete result. The caller always receives a result, even in worst-case
// conditions; only a malformed seed URL yields a result with Error set and
// no pages. Cancelling ctx stops the crawl between batches and returns the
// partial result.
func (e *Engine) Crawl(ctx context.Context, cfg config.CrawlConfig) *model.CrawlResult {
	cfg.Clamp()

	started := time.Now()
	res := &model.CrawlResult{
		StartURL: cfg.StartURL,
		MaxPages: cfg.MaxPages,
		Pages:    make([]model.PageResult, 0, cfg.MaxPages),
	}
	finish := func() *model.CrawlResult {
		res.Summary.DurationMS = time.Since(started).Milliseconds()
		res.Finalize()
		return res
	}

	seed, ok := Normalize(cfg.StartURL, "")
	if !ok {
		res.Error = fmt.Sprintf("invalid start URL: %q", cfg.StartURL)
		return finish()
	}
	origin, ok := Origin(seed)
	if !ok {
		res.Error = fmt.Sprintf("cannot derive origin from %q", cfg.StartURL)
		return finish()
	}

	filter, err := NewPatternFilter(cfg.AllowPatterns, cfg.DenyPatterns)
	if err != nil {
		res.Error = err.Error()
		return finish()
	}

	// Robots rules are loaded once per run, before any page processing.
	gate := robots.Load(ctx, e.client, origin, cfg.UserAgent, cfg.Timeout)
	if gate.Found() {
		res.Summary.RobotsTxt = model.RobotsFound
	} else {
		res.Summary.RobotsTxt = model.RobotsNotFound
	}

	fetcher := NewFetcher(e.client,
		WithUserAgent(cfg.UserAgent),
		WithHeaders(cfg.Headers),
		WithRateLimit(cfg.RequestsPerSecond),
	)

	e.logger.Info("starting crawl",
		"seed", seed,
		"origin", origin,
		"maxPages", cfg.MaxPages,
		"maxDepth", cfg.MaxDepth,
		"concurrency", cfg.Concurrency,
		"robots", res.Summary.RobotsTxt,
	)

	s := newSession(seed)
	for len(s.frontier) > 0 && len(res.Pages) < cfg.MaxPages {
		if ctxErr := ctx.Err(); ctxErr != nil {
			e.logger.Warn("crawl cancelled", "seed", seed, "reason", ctxErr)
			break
		}

		batch := e.nextBatch(s, gate, filter, cfg, res)
		if len(batch) == 0 {
			continue
		}

		outcomes := e.fetchBatch(ctx, fetcher, batch, cfg.Timeout)
		for _, out := range outcomes {
			e.processOutcome(s, out, origin, cfg, res)
		}
	}

	e.logger.Info("crawl finished",
		"seed", seed,
		"pages", len(res.Pages),
		"errors", res.Summary.Errors,
		"blocked", res.Summary.Blocked,
		"duplicates", res.Summary.Duplicates,
	)

	return finish()
}

// nextBatch pulls entries from the frontier head until the batch reaches
// the concurrency cap or the remaining page budget. Each entry passes the
// pre-fetch checks in order: visited, depth, robots, trap patterns. Blocked
// entries produce terminal results without being fetched; entries past max
// depth are silently dropped to bound output size.
func (e *Engine) nextBatch(s *session, gate *robots.Gate, filter *PatternFilter, cfg config.CrawlConfig, res *model.CrawlResult) []frontierEntry {
	var batch []frontierEntry

	for len(s.frontier) > 0 &&
		len(batch) < cfg.Concurrency &&
		len(res.Pages)+len(batch) < cfg.MaxPages {

		entry := s.frontier[0]
		s.frontier = s.frontier[1:]

		// Two parents may both discover the same child before either copy is
		// dequeued; only the first survives this check.
		if _, visited := s.visited[entry.url]; visited {
			res.Summary.Duplicates++
			continue
		}

		if entry.depth > cfg.MaxDepth {
			e.logger.Debug("dropping entry beyond max depth", "url", entry.url, "depth", entry.depth)
			continue
		}

		// Mark visited at dequeue time, before any network I/O, regardless of
		// how the entry ends up classified. This is what prevents duplicate
		// in-flight fetches of the same URL.
		s.visited[entry.url] = struct{}{}

		if !gate.Allowed(urlPath(entry.url)) {
			res.Pages = append(res.Pages, model.PageResult{
				URL:    entry.url,
				Status: model.StatusBlockedRobots,
				Depth:  entry.depth,
			})
			res.Summary.Blocked++
			continue
		}

		if filter.Denies(entry.url) {
			res.Pages = append(res.Pages, model.PageResult{
				URL:    entry.url,
				Status: model.StatusBlockedPattern,
				Depth:  entry.depth,
			})
			res.Summary.Blocked++
			continue
		}

		batch = append(batch, entry)
	}

	return batch
}

// fetchBatch issues all fetches in the batch concurrently and waits for
// every one to settle. One slow or failing fetch never blocks its siblings,
// and batch N is fully resolved before batch N+1 is formed.
func (e *Engine) fetchBatch(ctx context.Context, fetcher *Fetcher, batch []frontierEntry, timeout time.Duration) []fetchOutcome {
	outcomes := make([]fetchOutcome, len(batch))

	var g errgroup.Group
	for i, entry := range batch {
		g.Go(func() error {
			resp, err := fetcher.Fetch(ctx, entry.url, timeout)
			outcomes[i] = fetchOutcome{entry: entry, resp: resp, err: err}
			// Fetch failures become PageResults, never batch errors.
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // Goroutines always return nil

	return outcomes
}

// processOutcome classifies one settled fetch, records its PageResult, and
// grows the frontier from the page's links. Runs serially on the engine
// loop after the whole batch has settled.
func (e *Engine) processOutcome(s *session, out fetchOutcome, origin string, cfg config.CrawlConfig, res *model.CrawlResult) {
	entry := out.entry

	if out.err != nil {
		msg := out.err.Error()
		var fe *FetchError
		if errors.As(out.err, &fe) && fe.Timeout {
			msg = "Timeout"
		}
		res.Pages = append(res.Pages, model.PageResult{
			URL:    entry.url,
			Status: model.StatusFetchError,
			Depth:  entry.depth,
			Error:  msg,
		})
		res.Summary.Errors++
		return
	}

	resp := out.resp
	if !resp.Success() {
		res.Pages = append(res.Pages, model.PageResult{
			URL:        entry.url,
			Status:     model.StatusHTTPError,
			HTTPStatus: resp.StatusCode,
			Depth:      entry.depth,
			Error:      fmt.Sprintf("HTTP %d", resp.StatusCode),
		})
		res.Summary.Errors++
		return
	}

	if !resp.IsHTML() {
		res.Pages = append(res.Pages, model.PageResult{
			URL:        entry.url,
			Status:     model.StatusSkippedNonHTML,
			HTTPStatus: resp.StatusCode,
			Depth:      entry.depth,
		})
		return
	}

	// Duplicate-content suppression: a page declaring a canonical different
	// from its own URL, where that canonical was already recorded, does not
	// contribute links even though its HTML was fetched.
	canonical := ExtractCanonical(resp.Body, entry.url)
	if canonical != "" && canonical != entry.url {
		if _, seen := s.canonicalSeen[canonical]; seen {
			res.Pages = append(res.Pages, model.PageResult{
				URL:        entry.url,
				Status:     model.StatusDuplicateCanonical,
				HTTPStatus: resp.StatusCode,
				Depth:      entry.depth,
			})
			res.Summary.Duplicates++
			return
		}
	}
	if canonical != "" {
		s.canonicalSeen[canonical] = struct{}{}
	}

	links := ExtractLinks(resp.Body, entry.url, origin)
	for _, link := range links {
		if _, visited := s.visited[link]; visited {
			continue
		}
		if len(s.frontier) >= e.frontierCap {
			e.logger.Debug("frontier full, dropping link", "url", link)
			continue
		}
		s.frontier = append(s.frontier, frontierEntry{url: link, depth: entry.depth + 1})
	}

	res.Pages = append(res.Pages, model.PageResult{
		URL:           entry.url,
		Status:        model.StatusSuccess,
		HTTPStatus:    resp.StatusCode,
		InternalLinks: links,
		Depth:         entry.depth,
	})

	if e.onPage != nil {
		snap := &model.PageSnapshot{
			URL:         entry.url,
			Depth:       entry.depth,
			HTML:        resp.Body,
			Headers:     resp.Headers,
			ContentType: resp.ContentType,
		}
		snap.Truncate()
		e.onPage(snap)
	}
}

// urlPath extracts the path component for robots matching.
func urlPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}
