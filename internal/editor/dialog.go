package editor

import (
	"context"
	"fmt"
	"strings"

	"github.com/dannyswat/wikirego/internal/document"
	"github.com/dannyswat/wikirego/internal/tables"
)

// PreviewError is shown in place of a preview that failed to render.
const PreviewError = `<p style="color:red">Error parsing markdown</p>`

// InsertMarkdown renders md with the dialog renderer and inserts the result
// after the selected block, followed by an empty paragraph that receives the
// caret.
func (s *Session) InsertMarkdown(ctx context.Context, md string) (PasteResult, error) {
	result := PasteResult{Mode: PasteModeDialog}
	if strings.TrimSpace(md) == "" {
		return result, nil
	}

	rendered, err := s.parser.ParseWithOptions([]byte(md), s.dialogOptions)
	if err != nil {
		return result, fmt.Errorf("editor: render markdown: %w", err)
	}
	blocks, err := s.importHTML(string(rendered))
	if err != nil {
		return result, err
	}

	trailing := document.NewParagraph()
	err = s.Update(ctx, func(d *document.Document) error {
		keys, err := insertBlocks(d, append(blocks, trailing))
		if err != nil {
			return err
		}
		result.Inserted = keys[:len(keys)-1]
		return d.SelectStart(trailing.Key())
	})
	if err != nil {
		result.Inserted = nil
		return result, err
	}
	s.logger.WithContext(ctx).Debug("markdown dialog inserted", "blocks", len(result.Inserted))
	return result, nil
}

// Preview renders md for the dialog's live preview. Blank input renders
// nothing; render failures render PreviewError.
func (s *Session) Preview(md string) (out string) {
	if !s.previewEnabled || strings.TrimSpace(md) == "" {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("markdown preview panicked", "panic", r)
			out = PreviewError
		}
	}()

	rendered, err := s.parser.ParseWithOptions([]byte(md), s.dialogOptions)
	if err != nil {
		s.logger.Warn("markdown preview failed", "error", err)
		return PreviewError
	}
	return s.sanitizer.Sanitize(string(rendered))
}

// ApplyTableCommand runs a table operation at the selection. It reports
// false, without an error, when the selection is not inside a table.
func (s *Session) ApplyTableCommand(ctx context.Context, op tables.Operation) (bool, error) {
	var applied bool
	err := s.Update(ctx, func(d *document.Document) error {
		ok, err := tables.Apply(d, op)
		applied = ok
		return err
	})
	if err != nil {
		return false, err
	}
	if !applied {
		s.logger.WithContext(ctx).Debug("table command ignored outside a table", "operation", op)
	}
	return applied, nil
}
