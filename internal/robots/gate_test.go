package robots

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// TestParse tests section selection and rule collection.
func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("wildcard section applies", func(t *testing.T) {
		t.Parallel()

		content := `
User-agent: *
Disallow: /admin
Allow: /admin/public
`
		rules := Parse(strings.NewReader(content), "SEOScan/1.0")
		if len(rules) != 2 {
			t.Fatalf("expected 2 rules, got %d: %v", len(rules), rules)
		}
		if rules[0].Allow || rules[0].Path != "/admin" {
			t.Errorf("rule 0 = %+v, want Disallow /admin", rules[0])
		}
		if !rules[1].Allow || rules[1].Path != "/admin/public" {
			t.Errorf("rule 1 = %+v, want Allow /admin/public", rules[1])
		}
	})

	t.Run("substring agent match applies", func(t *testing.T) {
		t.Parallel()

		content := `
User-agent: seoscan
Disallow: /private
`
		rules := Parse(strings.NewReader(content), "SEOScan/1.0 (+https://github.com/seoscan/seoscan)")
		if len(rules) != 1 {
			t.Fatalf("expected 1 rule, got %d", len(rules))
		}
	})

	t.Run("foreign agent section ignored", func(t *testing.T) {
		t.Parallel()

		content := `
User-agent: Googlebot
Disallow: /no-google

User-agent: *
Disallow: /no-anyone
`
		rules := Parse(strings.NewReader(content), "SEOScan/1.0")
		if len(rules) != 1 {
			t.Fatalf("expected 1 rule, got %d: %v", len(rules), rules)
		}
		if rules[0].Path != "/no-anyone" {
			t.Errorf("rule path = %q, want /no-anyone", rules[0].Path)
		}
	})

	t.Run("stacked user-agent lines share one group", func(t *testing.T) {
		t.Parallel()

		content := `
User-agent: *
User-agent: Googlebot
Disallow: /x
`
		rules := Parse(strings.NewReader(content), "SEOScan/1.0")
		if len(rules) != 1 {
			t.Fatalf("expected 1 rule, got %d: %v", len(rules), rules)
		}
		if rules[0].Path != "/x" {
			t.Errorf("rule path = %q, want /x", rules[0].Path)
		}
	})

	t.Run("user-agent after directives starts a new group", func(t *testing.T) {
		t.Parallel()

		content := `
User-agent: *
Disallow: /everyone

User-agent: Googlebot
Disallow: /google-only
`
		rules := Parse(strings.NewReader(content), "SEOScan/1.0")
		if len(rules) != 1 {
			t.Fatalf("expected 1 rule, got %d: %v", len(rules), rules)
		}
		if rules[0].Path != "/everyone" {
			t.Errorf("rule path = %q, want /everyone", rules[0].Path)
		}
	})

	t.Run("comments and empty disallow skipped", func(t *testing.T) {
		t.Parallel()

		content := `
# full-line comment
User-agent: *
Disallow:
Disallow: /secret # trailing comment
`
		rules := Parse(strings.NewReader(content), "SEOScan/1.0")
		if len(rules) != 1 {
			t.Fatalf("expected 1 rule, got %d: %v", len(rules), rules)
		}
		if rules[0].Path != "/secret" {
			t.Errorf("rule path = %q, want /secret", rules[0].Path)
		}
	})
}

// TestGateAllowed tests longest-prefix resolution.
func TestGateAllowed(t *testing.T) {
	t.Parallel()

	gate := &Gate{rules: []Rule{
		{Allow: false, Path: "/admin"},
		{Allow: true, Path: "/admin/public"},
		{Allow: false, Path: "/tmp"},
	}}

	tests := []struct {
		path string
		want bool
	}{
		{"/", true},
		{"/blog/post", true},
		{"/admin", false},
		{"/admin/secret", false},
		{"/admin/public", true},
		{"/admin/public/page", true},
		{"/tmp/file", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := gate.Allowed(tt.path); got != tt.want {
				t.Errorf("Allowed(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// TestGateAllowedTieBreak pins the documented tie-break: when an allow and
// a disallow rule have prefixes of equal length, the first rule in file
// order wins.
func TestGateAllowedTieBreak(t *testing.T) {
	t.Parallel()

	disallowFirst := &Gate{rules: []Rule{
		{Allow: false, Path: "/both"},
		{Allow: true, Path: "/both"},
	}}
	if disallowFirst.Allowed("/both/x") {
		t.Error("expected first rule (disallow) to win on equal-length tie")
	}

	allowFirst := &Gate{rules: []Rule{
		{Allow: true, Path: "/both"},
		{Allow: false, Path: "/both"},
	}}
	if !allowFirst.Allowed("/both/x") {
		t.Error("expected first rule (allow) to win on equal-length tie")
	}
}

// TestLoad tests fetching behavior against a live test server.
func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("parses served robots", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/robots.txt" {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /admin\n"))
		}))
		defer srv.Close()

		gate := Load(context.Background(), srv.Client(), srv.URL, "SEOScan/1.0", 5*time.Second)
		if !gate.Found() {
			t.Error("expected Found() to be true")
		}
		if gate.Allowed("/admin/x") {
			t.Error("expected /admin/x to be disallowed")
		}
		if !gate.Allowed("/blog") {
			t.Error("expected /blog to be allowed")
		}
	})

	t.Run("fail-open on 404", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		}))
		defer srv.Close()

		gate := Load(context.Background(), srv.Client(), srv.URL, "SEOScan/1.0", 5*time.Second)
		if gate.Found() {
			t.Error("expected Found() to be false")
		}
		for _, path := range []string{"/", "/admin", "/anything"} {
			if !gate.Allowed(path) {
				t.Errorf("expected fail-open allow for %q", path)
			}
		}
	})

	t.Run("fail-open on unreachable server", func(t *testing.T) {
		t.Parallel()

		gate := Load(context.Background(), &http.Client{}, "http://127.0.0.1:1", "SEOScan/1.0", time.Second)
		if gate.Found() {
			t.Error("expected Found() to be false")
		}
		if !gate.Allowed("/anything") {
			t.Error("expected fail-open allow")
		}
	})

	t.Run("found with zero applicable rules still allows all", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("User-agent: Googlebot\nDisallow: /\n"))
		}))
		defer srv.Close()

		gate := Load(context.Background(), srv.Client(), srv.URL, "SEOScan/1.0", 5*time.Second)
		if !gate.Found() {
			t.Error("expected Found() to be true")
		}
		if gate.RuleCount() != 0 {
			t.Errorf("RuleCount() = %d, want 0", gate.RuleCount())
		}
		if !gate.Allowed("/anything") {
			t.Error("expected allow when no rules apply to our agent")
		}
	})
}
