package dom

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/dannyswat/wikirego/internal/document"
)

// ExportDocument renders the document's blocks as HTML.
func ExportDocument(d *document.Document) string {
	return Export(d.Blocks()...)
}

// Export renders nodes as HTML.
func Export(nodes ...document.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		writeNode(&b, n)
	}
	return b.String()
}

// textFormatTags wrap a text run from the inside out.
var textFormatTags = []struct {
	flag document.TextFormat
	tag  string
}{
	{document.FormatCode, "code"},
	{document.FormatSubscript, "sub"},
	{document.FormatSuperscript, "sup"},
	{document.FormatUnderline, "u"},
	{document.FormatStrikethrough, "s"},
	{document.FormatItalic, "em"},
	{document.FormatBold, "strong"},
}

func writeChildren(b *strings.Builder, el document.Element) {
	for _, child := range el.Children() {
		writeNode(b, child)
	}
}

func writeElement(b *strings.Builder, tag string, attrs [][2]string, el document.Element) {
	b.WriteString("<" + tag)
	writeAttrs(b, attrs)
	b.WriteString(">")
	writeChildren(b, el)
	b.WriteString("</" + tag + ">")
}

func writeAttrs(b *strings.Builder, attrs [][2]string) {
	for _, kv := range attrs {
		b.WriteString(" " + kv[0] + `="` + html.EscapeString(kv[1]) + `"`)
	}
}

func writeNode(b *strings.Builder, n document.Node) {
	switch typed := n.(type) {
	case *document.RootNode:
		writeChildren(b, typed)
	case *document.ParagraphNode:
		writeElement(b, "p", nil, typed)
	case *document.HeadingNode:
		writeElement(b, typed.Tag, nil, typed)
	case *document.QuoteNode:
		writeElement(b, "blockquote", nil, typed)
	case *document.ListNode:
		tag := "ul"
		var attrs [][2]string
		if typed.ListType == document.ListNumber {
			tag = "ol"
			if typed.Start > 1 {
				attrs = append(attrs, [2]string{"start", strconv.Itoa(typed.Start)})
			}
		}
		writeElement(b, tag, attrs, typed)
	case *document.ListItemNode:
		b.WriteString("<li>")
		if typed.Checked != nil {
			b.WriteString(`<input type="checkbox"`)
			if *typed.Checked {
				b.WriteString(" checked")
			}
			b.WriteString(" disabled> ")
		}
		writeChildren(b, typed)
		b.WriteString("</li>")
	case *document.CodeNode:
		b.WriteString("<pre><code")
		if typed.Language != "" {
			writeAttrs(b, [][2]string{{"class", "language-" + typed.Language}})
		}
		b.WriteString(">")
		for _, child := range typed.Children() {
			switch line := child.(type) {
			case *document.TextNode:
				b.WriteString(html.EscapeString(line.Text))
			case *document.LineBreakNode:
				b.WriteString("\n")
			}
		}
		b.WriteString("</code></pre>")
	case *document.LinkNode:
		attrs := [][2]string{{"href", typed.URL}}
		for _, kv := range [][2]string{{"title", typed.Title}, {"target", typed.Target}, {"rel", typed.Rel}} {
			if kv[1] != "" {
				attrs = append(attrs, kv)
			}
		}
		writeElement(b, "a", attrs, typed)
	case *document.LineBreakNode:
		b.WriteString("<br>")
	case *document.HorizontalRuleNode:
		b.WriteString("<hr>")
	case *document.TextNode:
		writeText(b, typed)
	case *document.ImageNode:
		writeImage(b, typed)
	case *document.TableNode:
		writeElement(b, "table", nil, typed)
	case *document.TableRowNode:
		writeElement(b, "tr", nil, typed)
	case *document.TableCellNode:
		tag := "td"
		if typed.Header != document.HeaderNone {
			tag = "th"
		}
		var attrs [][2]string
		if typed.ColSpan > 1 {
			attrs = append(attrs, [2]string{"colspan", strconv.Itoa(typed.ColSpan)})
		}
		if typed.RowSpan > 1 {
			attrs = append(attrs, [2]string{"rowspan", strconv.Itoa(typed.RowSpan)})
		}
		b.WriteString("<" + tag)
		writeAttrs(b, attrs)
		b.WriteString(">")
		writeCellContent(b, typed)
		b.WriteString("</" + tag + ">")
	default:
		panic(fmt.Sprintf("dom: export of unknown node %T", n))
	}
}

// writeCellContent renders paragraphs inside a cell as inline runs separated
// by <br>, which keeps exported tables convertible to GFM.
func writeCellContent(b *strings.Builder, cell *document.TableCellNode) {
	for i, child := range cell.Children() {
		if i > 0 {
			b.WriteString("<br>")
		}
		if p, ok := child.(*document.ParagraphNode); ok {
			writeChildren(b, p)
			continue
		}
		writeNode(b, child)
	}
}

func writeText(b *strings.Builder, text *document.TextNode) {
	out := html.EscapeString(text.Text)
	for _, entry := range textFormatTags {
		if text.Format.Has(entry.flag) {
			out = "<" + entry.tag + ">" + out + "</" + entry.tag + ">"
		}
	}
	if text.Style != "" {
		out = `<span style="` + html.EscapeString(text.Style) + `">` + out + "</span>"
	}
	b.WriteString(out)
}

func writeImage(b *strings.Builder, image *document.ImageNode) {
	attrs := [][2]string{{"src", image.Src()}, {"alt", image.AltText()}}
	if image.Width() > 0 {
		attrs = append(attrs, [2]string{"width", strconv.Itoa(image.Width())})
	}
	if image.Height() > 0 {
		attrs = append(attrs, [2]string{"height", strconv.Itoa(image.Height())})
	}
	attrs = append(attrs, [2]string{"style", document.ImageMaxWidth})
	b.WriteString("<img")
	writeAttrs(b, attrs)
	b.WriteString(">")
}
