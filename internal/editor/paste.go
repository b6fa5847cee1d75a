package editor

import (
	"context"
	"regexp"
	"strings"

	"github.com/dannyswat/wikirego/internal/document"
	"github.com/dannyswat/wikirego/internal/logging"
	"github.com/dannyswat/wikirego/internal/markdown"
	"github.com/dannyswat/wikirego/pkg/interfaces"
)

// PasteMode records which branch produced the inserted content.
type PasteMode string

const (
	PasteModeNone     PasteMode = "none"
	PasteModeMarkdown PasteMode = "markdown"
	PasteModeHTML     PasteMode = "html"
	PasteModeText     PasteMode = "text"
	PasteModeDialog   PasteMode = "dialog"
)

// PasteResult describes a completed paste.
type PasteResult struct {
	Mode     PasteMode      `json:"mode"`
	Inserted []document.Key `json:"inserted,omitempty"`
}

// HandlePaste inserts clipboard content after the block holding the
// selection anchor, or at the end of the document when nothing is selected.
// Markdown-looking plain text wins over HTML that merely wraps it; other
// HTML is sanitized and imported; plain text becomes paragraphs.
func (s *Session) HandlePaste(ctx context.Context, payload interfaces.ClipboardPayload) (PasteResult, error) {
	result := PasteResult{Mode: PasteModeNone}

	var blocks []document.Node
	switch {
	case s.shouldConvert(payload):
		result.Mode = PasteModeMarkdown
		nodes, err := s.importHTML(s.converter.Convert(payload.PlainText))
		if err != nil {
			return result, err
		}
		blocks = nodes
	case strings.TrimSpace(payload.HTML) != "":
		result.Mode = PasteModeHTML
		nodes, err := s.importHTML(payload.HTML)
		if err != nil {
			return result, err
		}
		blocks = nodes
	case payload.PlainText != "":
		result.Mode = PasteModeText
		blocks = plainTextBlocks(payload.PlainText)
	}

	logger := logging.WithPasteMode(s.logger, string(result.Mode)).WithContext(ctx)
	if len(blocks) == 0 {
		logger.Debug("paste produced no content")
		return result, nil
	}

	err := s.Update(ctx, func(d *document.Document) error {
		keys, err := insertBlocks(d, blocks)
		if err != nil {
			return err
		}
		result.Inserted = keys
		return d.SelectEnd(keys[len(keys)-1])
	})
	if err != nil {
		result.Inserted = nil
		return result, err
	}
	logger.Debug("paste applied", "blocks", len(result.Inserted))
	return result, nil
}

func (s *Session) shouldConvert(payload interfaces.ClipboardPayload) bool {
	return s.markdownPaste && markdown.ShouldConvertWith(s.detector, payload)
}

func (s *Session) importHTML(html string) ([]document.Node, error) {
	return s.importer.Import(s.sanitizer.Sanitize(html))
}

var blankLines = regexp.MustCompile(`\n[ \t]*\n+`)

// plainTextBlocks turns text into paragraphs split on blank lines, with
// single newlines kept as line breaks.
func plainTextBlocks(text string) []document.Node {
	text = strings.ReplaceAll(strings.ReplaceAll(text, "\r\n", "\n"), "\r", "\n")
	var blocks []document.Node
	for _, chunk := range blankLines.Split(strings.Trim(text, "\n"), -1) {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		paragraph := document.NewParagraph()
		for i, line := range strings.Split(chunk, "\n") {
			if i > 0 {
				document.AppendChildren(paragraph, document.NewLineBreak())
			}
			if line != "" {
				document.AppendChildren(paragraph, document.NewText(line))
			}
		}
		blocks = append(blocks, paragraph)
	}
	return blocks
}

// insertBlocks places blocks after the top-level block holding the
// selection anchor, replacing it when it is an empty paragraph, or appends
// them to the root. It returns the keys of the inserted blocks.
func insertBlocks(d *document.Document, blocks []document.Node) ([]document.Key, error) {
	top, ok := d.TopLevelOf(d.Selection().Anchor)
	if !ok {
		if err := d.Append(d.Root().Key(), blocks...); err != nil {
			return nil, err
		}
		return keysOf(blocks), nil
	}

	if err := d.InsertAfter(top.Key(), blocks...); err != nil {
		return nil, err
	}
	if p, isParagraph := top.(*document.ParagraphNode); isParagraph && len(p.Children()) == 0 {
		if err := d.Remove(top.Key()); err != nil {
			return nil, err
		}
	}
	return keysOf(blocks), nil
}

func keysOf(nodes []document.Node) []document.Key {
	keys := make([]document.Key, len(nodes))
	for i, n := range nodes {
		keys[i] = n.Key()
	}
	return keys
}
