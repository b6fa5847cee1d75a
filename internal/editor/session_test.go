package editor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/dannyswat/wikirego/internal/document"
	"github.com/dannyswat/wikirego/internal/tables"
	"github.com/dannyswat/wikirego/pkg/interfaces"
)

type stubParser struct {
	out   string
	err   error
	panic bool
}

func (p stubParser) Parse(md []byte) ([]byte, error) {
	return p.ParseWithOptions(md, interfaces.ParseOptions{})
}

func (p stubParser) ParseWithOptions([]byte, interfaces.ParseOptions) ([]byte, error) {
	if p.panic {
		panic("renderer exploded")
	}
	return []byte(p.out), p.err
}

func paragraphs(texts ...string) *document.Document {
	blocks := make([]document.Node, len(texts))
	for i, text := range texts {
		paragraph := document.NewParagraph()
		if text != "" {
			document.AppendChildren(paragraph, document.NewText(text))
		}
		blocks[i] = paragraph
	}
	return document.NewWithBlocks(blocks...)
}

func TestHandlePasteModes(t *testing.T) {
	cases := []struct {
		name     string
		payload  interfaces.ClipboardPayload
		opts     []Option
		mode     PasteMode
		wantHTML string
	}{
		{
			name:     "markdown plain text",
			payload:  interfaces.ClipboardPayload{PlainText: "# Title\n\nSome **bold** text"},
			mode:     PasteModeMarkdown,
			wantHTML: "<h1>Title</h1><p>Some <strong>bold</strong> text</p>",
		},
		{
			name: "markdown under a plain wrapper",
			payload: interfaces.ClipboardPayload{
				PlainText: "- [ ] todo\n- [x] done",
				HTML:      "<meta charset=\"utf-8\"><pre>- [ ] todo\n- [x] done</pre>",
			},
			mode:     PasteModeMarkdown,
			wantHTML: `<ul><li><input type="checkbox" disabled> todo</li><li><input type="checkbox" checked disabled> done</li></ul>`,
		},
		{
			name:     "rich html wins",
			payload:  interfaces.ClipboardPayload{PlainText: "# Title", HTML: "<p><b>Title</b></p>"},
			mode:     PasteModeHTML,
			wantHTML: "<p><strong>Title</strong></p>",
		},
		{
			name:     "external images are replaced",
			payload:  interfaces.ClipboardPayload{HTML: `<p>see <img src="https://cdn.example.com/a.png"></p>`},
			mode:     PasteModeHTML,
			wantHTML: "<p>see [image removed: https://cdn.example.com/a.png]</p>",
		},
		{
			name:     "plain text",
			payload:  interfaces.ClipboardPayload{PlainText: "one\ntwo\n\nthree"},
			mode:     PasteModeText,
			wantHTML: "<p>one<br>two</p><p>three</p>",
		},
		{
			name:     "markdown paste disabled",
			payload:  interfaces.ClipboardPayload{PlainText: "# Title\n\ntext"},
			opts:     []Option{WithMarkdownPaste(false)},
			mode:     PasteModeText,
			wantHTML: "<p># Title</p><p>text</p>",
		},
		{
			name:    "empty clipboard",
			payload: interfaces.ClipboardPayload{},
			mode:    PasteModeNone,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSession(tc.opts...)
			result, err := s.HandlePaste(context.Background(), tc.payload)
			if err != nil {
				t.Fatalf("HandlePaste: %v", err)
			}
			if result.Mode != tc.mode {
				t.Fatalf("mode = %s, want %s", result.Mode, tc.mode)
			}
			if got := s.ExportHTML(); got != tc.wantHTML {
				t.Fatalf("document = %q, want %q", got, tc.wantHTML)
			}
		})
	}
}

func TestHandlePasteInsertsAfterAnchorBlock(t *testing.T) {
	d := paragraphs("a", "b")
	first := d.Blocks()[0].(*document.ParagraphNode)
	if err := d.SelectStart(first.Children()[0].Key()); err != nil {
		t.Fatalf("select: %v", err)
	}
	s := NewSession(WithDocument(d))

	result, err := s.HandlePaste(context.Background(), interfaces.ClipboardPayload{PlainText: "x"})
	if err != nil {
		t.Fatalf("HandlePaste: %v", err)
	}
	if got := s.ExportHTML(); got != "<p>a</p><p>x</p><p>b</p>" {
		t.Fatalf("unexpected document %q", got)
	}
	if len(result.Inserted) != 1 {
		t.Fatalf("expected one inserted block, got %v", result.Inserted)
	}
	s.Read(func(d *document.Document) {
		if _, ok := d.FindAncestor(d.Selection().Anchor, func(n document.Node) bool {
			return n.Key() == result.Inserted[0]
		}); !ok {
			t.Fatalf("caret should end inside the pasted block")
		}
	})
}

func TestHandlePasteReplacesEmptyParagraph(t *testing.T) {
	d := paragraphs("")
	if err := d.SelectStart(d.Blocks()[0].Key()); err != nil {
		t.Fatalf("select: %v", err)
	}
	s := NewSession(WithDocument(d))

	if _, err := s.HandlePaste(context.Background(), interfaces.ClipboardPayload{PlainText: "x"}); err != nil {
		t.Fatalf("HandlePaste: %v", err)
	}
	if got := s.ExportHTML(); got != "<p>x</p>" {
		t.Fatalf("unexpected document %q", got)
	}
}

func TestUpdateDiscardsFailedTransactions(t *testing.T) {
	var reported []error
	s := NewSession(WithDocument(paragraphs("keep")), WithErrorHandler(func(err error) {
		reported = append(reported, err)
	}))
	boom := errors.New("boom")

	err := s.Update(context.Background(), func(d *document.Document) error {
		if err := d.Append(d.Root().Key(), document.NewParagraph(document.NewText("lost"))); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	err = s.Update(context.Background(), func(d *document.Document) error {
		_ = d.Append(d.Root().Key(), document.NewParagraph(document.NewText("lost")))
		panic("bad node")
	})
	if !errors.Is(err, ErrTransactionPanicked) {
		t.Fatalf("expected ErrTransactionPanicked, got %v", err)
	}

	if got := s.ExportHTML(); got != "<p>keep</p>" {
		t.Fatalf("failed transactions leaked into the document: %q", got)
	}
	if len(reported) != 2 {
		t.Fatalf("expected both failures reported, got %d", len(reported))
	}
}

func TestUpdateHonoursCancelledContext(t *testing.T) {
	s := NewSession()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.Update(ctx, func(*document.Document) error {
		called = true
		return nil
	})
	if !errors.Is(err, context.Canceled) || called {
		t.Fatalf("expected cancelled update to be skipped, err=%v called=%v", err, called)
	}
}

func TestUpdatesAreSerialized(t *testing.T) {
	s := NewSession()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.HandlePaste(context.Background(), interfaces.ClipboardPayload{PlainText: "x"}); err != nil {
				t.Errorf("HandlePaste: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := len(s.Snapshot().Blocks()); got != 20 {
		t.Fatalf("expected 20 blocks, got %d", got)
	}
}

func TestInsertMarkdown(t *testing.T) {
	s := NewSession()

	result, err := s.InsertMarkdown(context.Background(), "## Dialog\n\nline one\nline two")
	if err != nil {
		t.Fatalf("InsertMarkdown: %v", err)
	}
	if result.Mode != PasteModeDialog || len(result.Inserted) != 2 {
		t.Fatalf("unexpected result %+v", result)
	}

	snapshot := s.Snapshot()
	blocks := snapshot.Blocks()
	if len(blocks) != 3 {
		t.Fatalf("expected heading, paragraph and trailing paragraph, got %d blocks", len(blocks))
	}
	if heading, ok := blocks[0].(*document.HeadingNode); !ok || heading.Tag != "h2" {
		t.Fatalf("expected h2, got %#v", blocks[0])
	}
	var hasBreak bool
	for _, child := range blocks[1].(*document.ParagraphNode).Children() {
		if _, ok := child.(*document.LineBreakNode); ok {
			hasBreak = true
		}
	}
	if !hasBreak {
		t.Fatalf("expected a hard line break in the dialog paragraph")
	}
	trailing := blocks[2].(*document.ParagraphNode)
	if len(trailing.Children()) != 0 || snapshot.Selection().Anchor != trailing.Key() {
		t.Fatalf("expected the caret in a trailing empty paragraph")
	}

	if result, err := s.InsertMarkdown(context.Background(), "  \n"); err != nil || len(result.Inserted) != 0 {
		t.Fatalf("blank markdown should insert nothing")
	}
}

func TestInsertMarkdownRendererError(t *testing.T) {
	s := NewSession(WithParser(stubParser{err: errors.New("bad input")}))
	if _, err := s.InsertMarkdown(context.Background(), "# x"); err == nil {
		t.Fatalf("expected renderer error")
	}
	if !s.Snapshot().IsEmpty() {
		t.Fatalf("document should be untouched")
	}
}

func TestPreview(t *testing.T) {
	cases := []struct {
		name string
		opts []Option
		in   string
		want string
	}{
		{name: "blank", in: " \n ", want: ""},
		{name: "renders", in: "**x**", want: "<p><strong>x</strong></p>"},
		{name: "renderer error", opts: []Option{WithParser(stubParser{err: errors.New("bad")})}, in: "x", want: PreviewError},
		{name: "renderer panic", opts: []Option{WithParser(stubParser{panic: true})}, in: "x", want: PreviewError},
		{name: "sanitized", opts: []Option{WithParser(stubParser{out: `<p><a href="https://x.io">x</a></p>`})}, in: "x", want: `<p><a href="https://x.io" target="_blank" rel="noopener noreferrer">x</a></p>`},
		{name: "disabled", opts: []Option{WithPreview(false)}, in: "**x**", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := strings.TrimSpace(NewSession(tc.opts...).Preview(tc.in))
			if got != tc.want {
				t.Fatalf("Preview = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestApplyTableCommand(t *testing.T) {
	table := document.NewEmptyTable(2, 2, true)
	d := document.NewWithBlocks(document.NewParagraph(document.NewText("intro")), table)
	cellParagraph := table.Rows()[1].Cells()[0].Children()[0]
	if err := d.SelectStart(cellParagraph.Key()); err != nil {
		t.Fatalf("select: %v", err)
	}

	var reported int
	s := NewSession(WithDocument(d), WithErrorHandler(func(error) { reported++ }))

	applied, err := s.ApplyTableCommand(context.Background(), tables.OpInsertRowBelow)
	if err != nil || !applied {
		t.Fatalf("expected row insert, applied=%v err=%v", applied, err)
	}
	s.Read(func(d *document.Document) {
		if rows := d.Blocks()[1].(*document.TableNode).Rows(); len(rows) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(rows))
		}
	})
	if len(table.Rows()) != 2 {
		t.Fatalf("the caller's document must not be mutated by a transaction")
	}

	if _, err := s.ApplyTableCommand(context.Background(), tables.Operation("merge")); !errors.Is(err, tables.ErrUnknownOperation) {
		t.Fatalf("expected ErrUnknownOperation, got %v", err)
	}
	if reported != 1 {
		t.Fatalf("expected the failure to be reported once, got %d", reported)
	}

	empty := NewSession()
	if applied, err := empty.ApplyTableCommand(context.Background(), tables.OpDeleteRow); applied || err != nil {
		t.Fatalf("expected no-op outside a table")
	}
}

func TestExportMarkdown(t *testing.T) {
	s := NewSession()
	if _, err := s.HandlePaste(context.Background(), interfaces.ClipboardPayload{PlainText: "# Title\n\nSome **bold** text"}); err != nil {
		t.Fatalf("HandlePaste: %v", err)
	}
	got, err := s.ExportMarkdown()
	if err != nil {
		t.Fatalf("ExportMarkdown: %v", err)
	}
	if got != "# Title\n\nSome **bold** text" {
		t.Fatalf("ExportMarkdown = %q", got)
	}
}
