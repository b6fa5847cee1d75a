package markdown

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/strikethrough"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// Exporter renders document HTML back to GFM Markdown. It is the reverse of
// the paste path and is used when a page is saved as a Markdown file.
type Exporter struct {
	conv *converter.Converter
}

// NewExporter builds an exporter with the CommonMark, strikethrough and table
// plugins enabled.
func NewExporter() *Exporter {
	return &Exporter{
		conv: converter.NewConverter(
			converter.WithEscapeMode(converter.EscapeModeSmart),
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(
					commonmark.WithHorizontalRule("---"),
					commonmark.WithLinkEmptyContentBehavior(commonmark.LinkBehaviorSkip),
				),
				strikethrough.NewStrikethroughPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Export converts an HTML fragment into Markdown with surrounding whitespace
// trimmed.
func (e *Exporter) Export(html string) (string, error) {
	out, err := e.conv.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("export markdown: %w", err)
	}
	return strings.TrimSpace(out), nil
}
