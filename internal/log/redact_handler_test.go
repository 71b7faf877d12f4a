package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestRedactHandlerMasksSensitiveKeys tests key-based masking.
func TestRedactHandlerMasksSensitiveKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"authorization header", "authorization", "Bearer abc123"},
		{"cookie header", "cookie", "session=xyz"},
		{"uppercase key", "Authorization", "secret-value"},
		{"session id", "sessionid", "deadbeef"},
		{"api key", "api_key", "k-123456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(NewRedactHandler(slog.NewTextHandler(&buf, nil)))

			logger.Info("request", tt.key, tt.value)

			out := buf.String()
			if strings.Contains(out, tt.value) {
				t.Errorf("output contains unmasked value %q: %s", tt.value, out)
			}
			if !strings.Contains(out, MaskValue) {
				t.Errorf("output missing mask: %s", out)
			}
		})
	}
}

// TestRedactHandlerMasksSessionURLParams tests URL query masking.
func TestRedactHandlerMasksSessionURLParams(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewRedactHandler(slog.NewTextHandler(&buf, nil)))

	logger.Info("fetching", "url", "https://example.com/page?id=5&sessionid=topsecret")

	out := buf.String()
	if strings.Contains(out, "topsecret") {
		t.Errorf("output contains session value: %s", out)
	}
	// The URL itself must stay visible for debugging
	if !strings.Contains(out, "example.com") {
		t.Errorf("output lost the URL host: %s", out)
	}
	if !strings.Contains(out, "id=5") {
		t.Errorf("output lost benign query params: %s", out)
	}
}

// TestRedactHandlerPassesBenignAttrs tests that ordinary attributes survive.
func TestRedactHandlerPassesBenignAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewRedactHandler(slog.NewTextHandler(&buf, nil)))

	logger.Info("crawl finished", "pages", 42, "url", "https://example.com/a?id=1")

	out := buf.String()
	if !strings.Contains(out, "pages=42") {
		t.Errorf("output lost pages attr: %s", out)
	}
	if strings.Contains(out, MaskValue) {
		t.Errorf("benign attrs were masked: %s", out)
	}
}

// TestRedactHandlerMasksTokenValues tests value-pattern masking.
func TestRedactHandlerMasksTokenValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewRedactHandler(slog.NewTextHandler(&buf, nil)))

	jwt := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0.sig"
	logger.Info("header seen", "value", jwt)

	out := buf.String()
	if strings.Contains(out, jwt) {
		t.Errorf("output contains JWT: %s", out)
	}
}

// TestRedactHandlerGroups tests masking inside attribute groups.
func TestRedactHandlerGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewRedactHandler(slog.NewTextHandler(&buf, nil)))

	logger.Info("request",
		slog.Group("headers",
			slog.String("cookie", "secret-cookie"),
			slog.String("accept", "text/html"),
		),
	)

	out := buf.String()
	if strings.Contains(out, "secret-cookie") {
		t.Errorf("output contains cookie value: %s", out)
	}
	if !strings.Contains(out, "text/html") {
		t.Errorf("output lost benign group attr: %s", out)
	}
}

// TestNewLoggerLevels tests level selection via verbose.
func TestNewLoggerLevels(t *testing.T) {
	t.Parallel()

	var quiet bytes.Buffer
	NewLogger(&quiet, false).Debug("hidden")
	if quiet.Len() != 0 {
		t.Errorf("non-verbose logger emitted debug output: %s", quiet.String())
	}

	var loud bytes.Buffer
	NewLogger(&loud, true).Debug("visible")
	if loud.Len() == 0 {
		t.Error("verbose logger suppressed debug output")
	}
}
