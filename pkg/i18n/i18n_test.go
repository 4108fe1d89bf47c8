package i18n_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-paramform/pkg/i18n"
)

func testCatalog(t *testing.T) *i18n.Catalog {
	t.Helper()
	fsys := fstest.MapFS{
		"en.yaml": {Data: []byte("a: Alpha\nb: Beta\nform:\n  title: Run Script\ngreeting: \"Hello %s\"\n")},
		"pt.json": {Data: []byte(`{"a": "Alfa", "form": {"title": "Executar Script"}}`)},
		"README.md": {Data: []byte("ignored")},
	}
	catalog, err := i18n.LoadFS(fsys, "en")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return catalog
}

func TestCatalog_TranslateWithFallbacks(t *testing.T) {
	catalog := testCatalog(t)

	cases := []struct {
		locale string
		key    string
		want   string
	}{
		{locale: "en", key: "a", want: "Alpha"},
		{locale: "pt", key: "a", want: "Alfa"},
		{locale: "pt-BR", key: "a", want: "Alfa"},
		{locale: "pt_BR", key: "b", want: "Beta"},
		{locale: "pt", key: "form.title", want: "Executar Script"},
		{locale: "de", key: "form.title", want: "Run Script"},
	}
	for _, tc := range cases {
		got, err := catalog.Translate(tc.locale, tc.key)
		if err != nil {
			t.Fatalf("translate %s/%s: %v", tc.locale, tc.key, err)
		}
		if got != tc.want {
			t.Fatalf("translate %s/%s: want %q got %q", tc.locale, tc.key, tc.want, got)
		}
	}

	if got, _ := catalog.Translate("en", "greeting", "Ada"); got != "Hello Ada" {
		t.Fatalf("expected formatted message, got %q", got)
	}

	if _, err := catalog.Translate("en", "missing"); !errors.Is(err, i18n.ErrMissingTranslation) {
		t.Fatalf("expected ErrMissingTranslation, got %v", err)
	}

	if diff := catalog.Locales(); len(diff) != 2 || diff[0] != "en" || diff[1] != "pt" {
		t.Fatalf("unexpected locales %v", diff)
	}
}

func TestLabeler(t *testing.T) {
	catalog := testCatalog(t)
	catalog.Add("en", map[string]string{"html": "<b>Bold</b> & co"})

	label := i18n.Labeler(catalog, "en", nil)
	if got := label("a"); got != "Alpha" {
		t.Fatalf("expected translated label, got %q", got)
	}
	if got := label("run_date"); got != "Run date" {
		t.Fatalf("expected humanized fallback, got %q", got)
	}
	if got := label("html"); got != "Bold & co" {
		t.Fatalf("expected sanitized label, got %q", got)
	}

	var seen error
	custom := i18n.Labeler(nil, "en", func(_ string, key string, err error) string {
		seen = err
		return "[" + key + "]"
	})
	if got := custom("x"); got != "[x]" {
		t.Fatalf("unexpected custom fallback %q", got)
	}
	if !errors.Is(seen, i18n.ErrMissingTranslator) {
		t.Fatalf("expected ErrMissingTranslator, got %v", seen)
	}
}

func TestHumanize(t *testing.T) {
	cases := map[string]string{
		"run_date":   "Run date",
		"retryCount": "Retry count",
		"db-name":    "Db name",
		"a":          "A",
		"":           "",
	}
	for in, want := range cases {
		if got := i18n.Humanize(in); got != want {
			t.Fatalf("humanize %q: want %q got %q", in, want, got)
		}
	}
}

func TestNormalizeLocale(t *testing.T) {
	cases := map[string]string{
		"pt-br": "pt_BR",
		"EN":    "en",
		" zh ":  "zh",
		"":      "",
	}
	for in, want := range cases {
		if got := i18n.NormalizeLocale(in); got != want {
			t.Fatalf("normalize %q: want %q got %q", in, want, got)
		}
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "en.yaml")
	if err := os.WriteFile(path, []byte("a: Alpha\n"), 0o644); err != nil {
		t.Fatalf("write pack: %v", err)
	}

	catalog, err := i18n.LoadFS(os.DirFS(dir), "en")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	done := make(chan error, 1)
	go func() { done <- i18n.Watch(ctx, dir, catalog, logger) }()

	// give the watcher time to register before writing
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("a: Updated\n"), 0o644); err != nil {
		t.Fatalf("rewrite pack: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got, _ := catalog.Translate("en", "a"); got == "Updated" {
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("watch: %v", err)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("catalog was not reloaded")
}
