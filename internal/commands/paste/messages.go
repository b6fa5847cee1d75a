package pastecmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/dannyswat/wikirego/pkg/interfaces"
)

const (
	clipboardMessageType = "editor.paste.clipboard"
	markdownMessageType  = "editor.paste.markdown"

	// MaxPayloadBytes bounds clipboard and dialog input.
	MaxPayloadBytes = 1 << 20
)

var slugRule = validation.By(func(value any) error {
	if strings.TrimSpace(value.(string)) == "" {
		return validation.NewError("editor.paste.slug_required", "slug is required")
	}
	return nil
})

var sizeRule = validation.By(func(value any) error {
	if len(value.(string)) > MaxPayloadBytes {
		return validation.NewError("editor.paste.payload_too_large", "payload exceeds the paste size limit")
	}
	return nil
})

// ClipboardCommand delivers a paste event to the document identified by
// Slug.
type ClipboardCommand struct {
	Slug      string `json:"slug"`
	PlainText string `json:"plain_text"`
	HTML      string `json:"html,omitempty"`
}

// Type implements command.Message.
func (ClipboardCommand) Type() string { return clipboardMessageType }

// Validate requires a slug and at least one clipboard flavour.
func (cmd ClipboardCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Slug, slugRule),
		validation.Field(&cmd.PlainText, validation.When(cmd.HTML == "", validation.Required), sizeRule),
		validation.Field(&cmd.HTML, sizeRule),
	)
}

// Payload returns the clipboard content of the command.
func (cmd ClipboardCommand) Payload() interfaces.ClipboardPayload {
	return interfaces.ClipboardPayload{PlainText: cmd.PlainText, HTML: cmd.HTML}
}

// MarkdownCommand submits the "paste markdown" dialog.
type MarkdownCommand struct {
	Slug     string `json:"slug"`
	Markdown string `json:"markdown"`
}

// Type implements command.Message.
func (MarkdownCommand) Type() string { return markdownMessageType }

// Validate requires a slug and non-blank markdown.
func (cmd MarkdownCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Slug, slugRule),
		validation.Field(&cmd.Markdown, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("editor.paste.markdown_required", "markdown is required")
			}
			return nil
		}), sizeRule),
	)
}
