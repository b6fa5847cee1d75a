// Command mdpaste runs clipboard text through the paste pipeline and prints
// the resulting document.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/dannyswat/wikirego"
	"github.com/dannyswat/wikirego/internal/document"
	"github.com/dannyswat/wikirego/internal/editor"
	"github.com/dannyswat/wikirego/internal/markdown"
	"github.com/dannyswat/wikirego/pkg/interfaces"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatalf("mdpaste: %v", err)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("mdpaste", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	filePath := fs.String("file", "", "File to read instead of stdin")
	format := fs.String("format", "html", "Output format: html, json, markdown or detect")
	asHTML := fs.Bool("html", false, "Treat the input as the clipboard HTML flavour")
	dialog := fs.Bool("dialog", false, "Render with the markdown dialog instead of paste handling")
	dsn := fs.String("sqlite", "", "Import the input as a page into this sqlite database")

	if err := fs.Parse(args); err != nil {
		return err
	}

	input, err := readInput(*filePath, stdin)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if strings.TrimSpace(*dsn) != "" {
		return importPage(ctx, *dsn, input, stdout)
	}

	if *format == "detect" {
		payload := interfaces.ClipboardPayload{PlainText: string(input)}
		_, err := fmt.Fprintf(stdout, "markdown: %t\nconvert: %t\n",
			markdown.Detector{}.LooksLikeMarkdown(payload.PlainText),
			markdown.ShouldConvert(payload),
		)
		return err
	}

	session := editor.NewSession(editor.WithErrorHandler(func(error) {}))
	switch {
	case *dialog:
		_, err = session.InsertMarkdown(ctx, string(input))
	case *asHTML:
		_, err = session.HandlePaste(ctx, interfaces.ClipboardPayload{HTML: string(input)})
	default:
		_, err = session.HandlePaste(ctx, interfaces.ClipboardPayload{PlainText: string(input)})
	}
	if err != nil {
		return fmt.Errorf("paste: %w", err)
	}

	return write(stdout, *format, session)
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func write(out io.Writer, format string, session *editor.Session) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "html":
		_, err := fmt.Fprintln(out, session.ExportHTML())
		return err
	case "markdown", "md":
		md, err := session.ExportMarkdown()
		if err != nil {
			return fmt.Errorf("export markdown: %w", err)
		}
		_, err = fmt.Fprintln(out, md)
		return err
	case "json":
		data, err := document.Marshal(session.Snapshot())
		if err != nil {
			return fmt.Errorf("encode document: %w", err)
		}
		var indented bytes.Buffer
		if err := json.Indent(&indented, data, "", "  "); err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, indented.String())
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func importPage(ctx context.Context, dsn string, source []byte, out io.Writer) error {
	cfg := wikirego.DefaultConfig()
	cfg.Storage = wikirego.StorageConfig{Provider: "sqlite", DSN: dsn}
	cfg.Logging.Level = "warn"

	module, err := wikirego.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	record, err := module.Documents().ImportPage(ctx, source)
	if err != nil {
		return fmt.Errorf("import page: %w", err)
	}
	_, err = fmt.Fprintf(out, "imported %s (%s)\n", record.Slug, record.ID)
	return err
}
