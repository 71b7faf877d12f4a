package robots

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxRobotsBody limits how much of a robots.txt response is read.
// Real robots files are a few KB; anything bigger is likely a misconfigured
// route serving HTML.
const maxRobotsBody = 512 * 1024

// Rule is a single Allow or Disallow directive scoped to a matched
// user-agent section. Rules are literal path prefixes.
type Rule struct {
	// Allow is true for Allow directives, false for Disallow.
	Allow bool

	// Path is the literal path prefix the rule applies to.
	Path string
}

// Gate answers per-path permission questions for one origin.
// A zero-rule Gate allows everything. Gates are immutable after construction
// and safe for concurrent use.
type Gate struct {
	rules []Rule
	found bool
}

// AlwaysAllow returns a Gate with no rules. Used when robots.txt is
// unavailable (fail-open).
func AlwaysAllow() *Gate {
	return &Gate{}
}

// Load fetches {origin}/robots.txt and parses the sections applicable to
// userAgent. On any fetch failure, non-2xx status, or a parse yielding zero
// applicable rules, it returns an always-allow gate. Load never returns an
// error; robots problems must not fail the crawl.
func Load(ctx context.Context, client *http.Client, origin, userAgent string, timeout time.Duration) *Gate {
	if client == nil {
		client = http.DefaultClient
	}

	reqCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return AlwaysAllow()
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return AlwaysAllow()
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return AlwaysAllow()
	}

	rules := Parse(io.LimitReader(resp.Body, maxRobotsBody), userAgent)
	if len(rules) == 0 {
		// A robots.txt with nothing applicable to us behaves like no robots.txt,
		// but it was still found.
		return &Gate{found: true}
	}

	return &Gate{rules: rules, found: true}
}

// Parse reads line-oriented robots.txt content and collects the Allow and
// Disallow rules from sections applicable to userAgent. A section applies
// if any of its agent tokens is "*", equals the user agent
// (case-insensitive), or is a substring of the user agent string.
// Consecutive User-agent lines form one group sharing the directives that
// follow them.
func Parse(r io.Reader, userAgent string) []Rule {
	var rules []Rule
	applies := false
	inAgentBlock := false
	agentLower := strings.ToLower(userAgent)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		// Strip comments and whitespace
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "user-agent":
			// A User-agent line after directives starts a new group.
			if !inAgentBlock {
				applies = false
			}
			inAgentBlock = true
			agent := strings.ToLower(value)
			applies = applies ||
				agent == "*" ||
				agent == agentLower ||
				(agent != "" && strings.Contains(agentLower, agent))
		case "allow":
			inAgentBlock = false
			if applies && value != "" {
				rules = append(rules, Rule{Allow: true, Path: value})
			}
		case "disallow":
			inAgentBlock = false
			// An empty Disallow means "allow all" and adds no rule.
			if applies && value != "" {
				rules = append(rules, Rule{Allow: false, Path: value})
			}
		}
	}

	return rules
}

// Allowed reports whether the given path may be fetched. Among all rules
// whose path is a literal prefix of the queried path, the first rule with
// the longest prefix wins; ties keep the earlier rule. No matching rule
// means allowed.
func (g *Gate) Allowed(path string) bool {
	if path == "" {
		path = "/"
	}

	bestLen := -1
	allowed := true
	for _, rule := range g.rules {
		if !strings.HasPrefix(path, rule.Path) {
			continue
		}
		if len(rule.Path) > bestLen {
			bestLen = len(rule.Path)
			allowed = rule.Allow
		}
	}

	return allowed
}

// Found reports whether a robots.txt was successfully retrieved for the
// origin. This feeds the crawl summary's robots_txt field.
func (g *Gate) Found() bool {
	return g.found
}

// RuleCount returns the number of applicable rules the gate holds.
func (g *Gate) RuleCount() int {
	return len(g.rules)
}
