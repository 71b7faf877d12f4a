// Package robots fetches and evaluates robots.txt rules for one origin.
//
// The gate is deliberately fail-open: an unreachable or unparsable robots.txt
// must never abort a crawl, it only removes the exclusion rules. Resolution
// uses longest-prefix matching over the Allow/Disallow directives of the
// sections applicable to the crawler's user agent, defaulting to allow when
// no rule matches.
//
// Design decision: We parse robots.txt ourselves rather than pulling in a
// robots library because the gate's matching contract is precise and small:
// literal prefix rules, substring user-agent section matching, first rule of
// maximal prefix length wins, no wildcard support. Off-the-shelf parsers
// implement the Google wildcard algorithm, which differs on exactly the
// inputs our tests pin down.
package robots
