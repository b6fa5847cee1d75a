package interfaces

// MarkdownDetector classifies pasted plain text.
type MarkdownDetector interface {
	LooksLikeMarkdown(text string) bool
}

// MarkdownConverter turns a markdown string into block/inline HTML. The
// output is not sanitized; callers pass it through an HTMLSanitizer before
// importing it into a document.
type MarkdownConverter interface {
	Convert(markdown string) string
}

// MarkdownParser renders Markdown with a full CommonMark/GFM engine. It backs
// the explicit "paste markdown" dialog, where fidelity matters more than the
// conservative paste heuristics.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises MarkdownParser behaviour. Field names stay simple so
// they can be filled from configuration or CLI flags.
type ParseOptions struct {
	Extensions []string
	HardWraps  bool
	SafeMode   bool
	// HighlightStyle enables chroma code highlighting with the named style.
	HighlightStyle string
}

// HTMLSanitizer scrubs untrusted HTML before it reaches the document model.
// Implementations never fail; malformed markup yields a minimal fragment.
type HTMLSanitizer interface {
	Sanitize(html string) string
}

// ClipboardPayload is the clipboard content delivered with a paste event.
type ClipboardPayload struct {
	PlainText string `json:"plain_text"`
	HTML      string `json:"html,omitempty"`
}
