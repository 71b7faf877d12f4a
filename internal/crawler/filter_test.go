package crawler

import "testing"

func TestNewPatternFilter(t *testing.T) {
	t.Parallel()

	t.Run("compiles valid patterns", func(t *testing.T) {
		t.Parallel()

		f, err := NewPatternFilter([]string{"^/news/"}, []string{`/draft-`})
		if err != nil {
			t.Fatalf("NewPatternFilter() error = %v, want nil", err)
		}
		if f == nil {
			t.Fatal("NewPatternFilter() returned nil filter")
		}
	})

	t.Run("rejects invalid allow pattern", func(t *testing.T) {
		t.Parallel()

		if _, err := NewPatternFilter([]string{"["}, nil); err == nil {
			t.Error("NewPatternFilter() error = nil, want compile error")
		}
	})

	t.Run("rejects invalid deny pattern", func(t *testing.T) {
		t.Parallel()

		if _, err := NewPatternFilter(nil, []string{"(unclosed"}); err == nil {
			t.Error("NewPatternFilter() error = nil, want compile error")
		}
	})
}

func TestPatternFilterBuiltinTraps(t *testing.T) {
	t.Parallel()

	f, err := NewPatternFilter(nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{name: "plain article allowed", url: "https://example.com/articles/go-generics", want: false},
		{name: "root allowed", url: "https://example.com/", want: false},
		{name: "search path denied", url: "https://example.com/search/widgets", want: true},
		{name: "search query denied", url: "https://example.com/products?q=widgets", want: true},
		{name: "tag listing denied", url: "https://example.com/tag/golang", want: true},
		{name: "category listing denied", url: "https://example.com/category/tools", want: true},
		{name: "path pagination denied", url: "https://example.com/blog/page/17", want: true},
		{name: "query pagination denied", url: "https://example.com/blog?page=3", want: true},
		{name: "calendar path denied", url: "https://example.com/2024/05/12", want: true},
		{name: "login denied", url: "https://example.com/login", want: true},
		{name: "cart denied", url: "https://example.com/cart", want: true},
		{name: "wp-admin denied", url: "https://example.com/wp-admin/options.php", want: true},
		{name: "feed denied", url: "https://example.com/feed", want: true},
		{name: "pdf denied", url: "https://example.com/whitepaper.pdf", want: true},
		{name: "image denied", url: "https://example.com/logo.png", want: true},
		{name: "sort query denied", url: "https://example.com/list?sort=price", want: true},
		{name: "session query denied", url: "https://example.com/p?sid=abc123", want: true},
		{name: "case-insensitive match", url: "https://example.com/WP-ADMIN/", want: true},
		{name: "unparseable denied", url: "https://example.com/%zz", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := f.Denies(tt.url); got != tt.want {
				t.Errorf("Denies(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestPatternFilterCustomDeny(t *testing.T) {
	t.Parallel()

	f, err := NewPatternFilter(nil, []string{`^/internal/`, `\?preview=`})
	if err != nil {
		t.Fatal(err)
	}

	if !f.Denies("https://example.com/internal/tools") {
		t.Error("Denies(/internal/tools) = false, want true")
	}
	if !f.Denies("https://example.com/post?preview=1") {
		t.Error("Denies(?preview=1) = false, want true")
	}
	if f.Denies("https://example.com/public/tools") {
		t.Error("Denies(/public/tools) = true, want false")
	}
}

func TestPatternFilterAllowListExclusive(t *testing.T) {
	t.Parallel()

	f, err := NewPatternFilter([]string{"^/news/"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	// A non-empty allow-list alone decides membership.
	if f.Denies("https://example.com/news/today") {
		t.Error("Denies(/news/today) = true, want false")
	}
	if !f.Denies("https://example.com/sports/match") {
		t.Error("Denies(/sports/match) = false, want true")
	}

	// Allowed URLs bypass the deny patterns, built-in traps included.
	if f.Denies("https://example.com/news/page/3") {
		t.Error("Denies(/news/page/3) = true, want false: allow-list should bypass traps")
	}
}
