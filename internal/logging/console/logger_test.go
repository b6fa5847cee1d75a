package console_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dannyswat/wikirego/internal/logging"
	"github.com/dannyswat/wikirego/internal/logging/console"
)

func TestConsoleLogger_WritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 3, 14, 15, 9, 26, 535897000, time.UTC)

	minLevel := console.LevelDebug
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
		MinLevel: &minLevel,
	})

	logger := logging.WithFields(provider.GetLogger("wikirego.editor"), map[string]any{"module": "wikirego.editor"})
	ctx := logging.ContextWithFields(context.Background(), map[string]any{
		"session": "s-1",
	})
	logger = logger.WithContext(ctx)

	logger.Info("editor.paste.completed",
		"inserted", 3,
		"mode", "markdown",
	)

	got := strings.TrimSpace(buf.String())
	want := "2024-03-14T15:09:26.535897Z INFO editor.paste.completed inserted=3 logger=wikirego.editor mode=markdown module=wikirego.editor session=s-1"
	if got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	minLevel := console.LevelInfo
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("wikirego.test")
	logger.Debug("ignored.debug", "foo", "bar")
	logger.Info("included.info", "foo", "bar")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected single log line, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "included.info") {
		t.Fatalf("expected info log to be written, got %s", lines[0])
	}
}

func TestConsoleLogger_QuotesAndPositionalFields(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf})

	provider.GetLogger("x").Error("failed", "error", errors.New("bad input"), "dangling")

	got := buf.String()
	if !strings.Contains(got, `error="bad input"`) {
		t.Fatalf("expected quoted error value, got %s", got)
	}
	if !strings.Contains(got, "field_1=dangling") {
		t.Fatalf("expected positional field for dangling arg, got %s", got)
	}
}

func TestParseLevel(t *testing.T) {
	if lvl, ok := console.ParseLevel("WARNING"); !ok || lvl != console.LevelWarn {
		t.Fatalf("expected warn, got %v %v", lvl, ok)
	}
	if _, ok := console.ParseLevel("loud"); ok {
		t.Fatal("expected unknown level to be rejected")
	}
}
