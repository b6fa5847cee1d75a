package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunFormats(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		input string
		want  string
	}{
		{
			name:  "markdown paste as html",
			args:  nil,
			input: "# Title\n\nSome **bold** text",
			want:  "<h1>Title</h1><p>Some <strong>bold</strong> text</p>\n",
		},
		{
			name:  "plain text",
			args:  []string{"-format", "html"},
			input: "just words",
			want:  "<p>just words</p>\n",
		},
		{
			name:  "markdown round trip",
			args:  []string{"-format", "markdown"},
			input: "# Title\n\nSome **bold** text",
			want:  "# Title\n\nSome **bold** text\n",
		},
		{
			name:  "detect",
			args:  []string{"-format", "detect"},
			input: "# Title\n\nSome **bold** text",
			want:  "markdown: true\nconvert: true\n",
		},
		{
			name:  "html flavour",
			args:  []string{"-html"},
			input: "<p>rich <em>text</em></p>",
			want:  "<p>rich <em>text</em></p>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := run(tt.args, strings.NewReader(tt.input), &out); err != nil {
				t.Fatalf("run: %v", err)
			}
			if got := out.String(); got != tt.want {
				t.Fatalf("unexpected output\nwant: %q\ngot:  %q", tt.want, got)
			}
		})
	}
}

func TestRunJSONFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.md")
	if err := os.WriteFile(path, []byte("just words"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	var out bytes.Buffer
	if err := run([]string{"-file", path, "-format", "json"}, strings.NewReader(""), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("expected json output: %v", err)
	}
	if _, ok := decoded["root"]; !ok {
		t.Fatalf("expected root key, got %v", decoded)
	}
}

func TestRunRejectsUnknownFormat(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"-format", "pdf"}, strings.NewReader("x"), &out); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestRunImportsIntoSQLite(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "wiki.db")
	var out bytes.Buffer
	source := "---\ntitle: Release Notes\n---\n# Release Notes\n"
	if err := run([]string{"-sqlite", dsn}, strings.NewReader(source), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasPrefix(out.String(), "imported release-notes (") {
		t.Fatalf("unexpected output %q", out.String())
	}
}
