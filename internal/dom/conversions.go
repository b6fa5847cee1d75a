package dom

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/dannyswat/wikirego/internal/document"
)

func baseConversions() map[string]ConvertFunc {
	conversions := map[string]ConvertFunc{
		"p":          convertParagraph,
		"div":        convertDiv,
		"blockquote": convertQuote,
		"ul":         convertList(document.ListBullet),
		"ol":         convertList(document.ListNumber),
		"li":         convertListItem,
		"pre":        convertCodeBlock,
		"a":          convertLink,
		"img":        convertImage,
		"br":         convertLineBreak,
		"hr":         convertHorizontalRule,
		"input":      skipElement,
		"table":      convertTable,
		"tr":         convertTableRow,
		"td":         convertTableCell(document.HeaderNone),
		"th":         convertTableCell(document.HeaderRow),
		"span":       convertSpan,
		"strong":     convertFormat(document.FormatBold),
		"b":          convertFormat(document.FormatBold),
		"em":         convertFormat(document.FormatItalic),
		"i":          convertFormat(document.FormatItalic),
		"s":          convertFormat(document.FormatStrikethrough),
		"del":        convertFormat(document.FormatStrikethrough),
		"strike":     convertFormat(document.FormatStrikethrough),
		"u":          convertFormat(document.FormatUnderline),
		"code":       convertFormat(document.FormatCode),
		"sub":        convertFormat(document.FormatSubscript),
		"sup":        convertFormat(document.FormatSuperscript),
	}
	for level := 1; level <= 6; level++ {
		conversions["h"+strconv.Itoa(level)] = convertHeading
	}
	return conversions
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func intAttr(n *html.Node, name string) int {
	value, ok := attr(n, name)
	if !ok {
		return 0
	}
	parsed, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(value), "px"))
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}

func skipElement(*html.Node) *Conversion {
	return &Conversion{SkipChildren: true}
}

func convertParagraph(*html.Node) *Conversion {
	return &Conversion{Node: document.NewParagraph()}
}

var blockTags = map[string]bool{
	"p": true, "div": true, "blockquote": true, "ul": true, "ol": true,
	"pre": true, "table": true, "hr": true, "figure": true, "section": true,
	"article": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// convertDiv treats a div of inline content as a paragraph and lifts the
// children of a div that wraps blocks.
func convertDiv(n *html.Node) *Conversion {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && blockTags[child.Data] {
			return nil
		}
	}
	return &Conversion{Node: document.NewParagraph()}
}

func convertHeading(n *html.Node) *Conversion {
	return &Conversion{Node: document.NewHeading(n.Data)}
}

func convertQuote(*html.Node) *Conversion {
	return &Conversion{Node: document.NewQuote()}
}

func convertList(listType document.ListType) ConvertFunc {
	return func(n *html.Node) *Conversion {
		list := document.NewList(listType)
		if start := intAttr(n, "start"); start > 0 {
			list.Start = start
		}
		return &Conversion{
			Node: list,
			After: func(children []document.Node) []document.Node {
				items := make([]document.Node, 0, len(children))
				for _, child := range children {
					item, ok := child.(*document.ListItemNode)
					if !ok {
						item = document.NewListItem(child)
					}
					if item.Checked != nil {
						list.ListType = document.ListCheck
					}
					item.Value = list.Start + len(items)
					items = append(items, item)
				}
				return items
			},
		}
	}
}

func convertListItem(n *html.Node) *Conversion {
	item := document.NewListItem()
	if checked, ok := checkboxState(n); ok {
		item.Checked = &checked
	}
	return &Conversion{
		Node: item,
		After: func(children []document.Node) []document.Node {
			if item.Checked == nil || len(children) == 0 {
				return children
			}
			if text, ok := children[0].(*document.TextNode); ok {
				text.Text = strings.TrimLeft(text.Text, " ")
			}
			return children
		},
	}
}

// checkboxState finds a checkbox input among the item's direct children.
func checkboxState(li *html.Node) (bool, bool) {
	for child := li.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode || child.Data != "input" {
			continue
		}
		if kind, _ := attr(child, "type"); !strings.EqualFold(kind, "checkbox") {
			continue
		}
		_, checked := attr(child, "checked")
		return checked, true
	}
	return false, false
}

func convertCodeBlock(n *html.Node) *Conversion {
	code := document.NewCode(codeLanguage(n))
	lines := strings.Split(strings.TrimSuffix(rawText(n), "\n"), "\n")
	for i, line := range lines {
		if i > 0 {
			document.AppendChildren(code, document.NewLineBreak())
		}
		if line != "" {
			document.AppendChildren(code, document.NewText(line))
		}
	}
	return &Conversion{Node: code, SkipChildren: true}
}

func codeLanguage(pre *html.Node) string {
	for _, name := range []string{"data-language", "data-highlight-language"} {
		if value, ok := attr(pre, name); ok && value != "" {
			return value
		}
	}
	candidates := []*html.Node{pre}
	for child := pre.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.Data == "code" {
			candidates = append(candidates, child)
		}
	}
	for _, candidate := range candidates {
		class, _ := attr(candidate, "class")
		for _, token := range strings.Fields(class) {
			if lang, ok := strings.CutPrefix(token, "language-"); ok && lang != "" {
				return lang
			}
		}
	}
	return ""
}

// rawText returns the text below n verbatim, with <br> as a newline.
func rawText(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		switch {
		case node.Type == html.TextNode:
			b.WriteString(node.Data)
		case node.Type == html.ElementNode && node.Data == "br":
			b.WriteByte('\n')
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			visit(child)
		}
	}
	visit(n)
	return b.String()
}

var unsafeSchemes = []string{"javascript:", "vbscript:", "data:"}

// IsSafeHref reports whether href may become a link.
func IsSafeHref(href string) bool {
	normalized := strings.ToLower(strings.Join(strings.Fields(href), ""))
	for _, scheme := range unsafeSchemes {
		if strings.HasPrefix(normalized, scheme) {
			return false
		}
	}
	return true
}

func convertLink(n *html.Node) *Conversion {
	href, ok := attr(n, "href")
	if !ok || !IsSafeHref(href) {
		return nil
	}
	link := document.NewLink(href)
	link.Title, _ = attr(n, "title")
	link.Target, _ = attr(n, "target")
	link.Rel, _ = attr(n, "rel")
	return &Conversion{Node: link}
}

func convertImage(n *html.Node) *Conversion {
	src, _ := attr(n, "src")
	if strings.TrimSpace(src) == "" {
		return &Conversion{SkipChildren: true}
	}
	alt, _ := attr(n, "alt")
	return &Conversion{
		Node: document.NewImage(document.ImagePayload{
			Src:     src,
			AltText: alt,
			Width:   intAttr(n, "width"),
			Height:  intAttr(n, "height"),
		}),
		SkipChildren: true,
	}
}

func convertLineBreak(*html.Node) *Conversion {
	return &Conversion{Node: document.NewLineBreak(), SkipChildren: true}
}

func convertHorizontalRule(*html.Node) *Conversion {
	return &Conversion{Node: document.NewHorizontalRule(), SkipChildren: true}
}

// convertTable keeps row children and pads short rows so every row has the
// same number of cells.
func convertTable(*html.Node) *Conversion {
	return &Conversion{
		Node: document.NewTable(),
		After: func(children []document.Node) []document.Node {
			var rows []*document.TableRowNode
			columns := 0
			for _, child := range children {
				if row, ok := child.(*document.TableRowNode); ok {
					rows = append(rows, row)
					columns = max(columns, len(row.Cells()))
				}
			}
			out := make([]document.Node, 0, len(rows))
			for _, row := range rows {
				for missing := columns - len(row.Cells()); missing > 0; missing-- {
					document.AppendChildren(row, document.NewEmptyCell(document.HeaderNone))
				}
				out = append(out, row)
			}
			return out
		},
	}
}

func convertTableRow(*html.Node) *Conversion {
	return &Conversion{
		Node: document.NewTableRow(),
		After: func(children []document.Node) []document.Node {
			cells := make([]document.Node, 0, len(children))
			for _, child := range children {
				if cell, ok := child.(*document.TableCellNode); ok {
					cells = append(cells, cell)
				}
			}
			return cells
		},
	}
}

func convertTableCell(state document.HeaderState) ConvertFunc {
	return func(n *html.Node) *Conversion {
		cell := document.NewTableCell(state)
		if span := intAttr(n, "colspan"); span > 1 {
			cell.ColSpan = span
		}
		if span := intAttr(n, "rowspan"); span > 1 {
			cell.RowSpan = span
		}
		return &Conversion{
			Node: cell,
			After: func(children []document.Node) []document.Node {
				blocks := wrapInline(children)
				if len(blocks) == 0 {
					return []document.Node{document.NewParagraph()}
				}
				return blocks
			},
		}
	}
}

func convertFormat(flag document.TextFormat) ConvertFunc {
	return func(*html.Node) *Conversion {
		return &Conversion{ForChild: setFormat(flag)}
	}
}

func setFormat(flag document.TextFormat) func(document.Node) document.Node {
	return func(n document.Node) document.Node {
		if text, ok := n.(*document.TextNode); ok {
			text.Format |= flag
		}
		return n
	}
}

// convertSpan maps presentational span styles onto text formats.
func convertSpan(n *html.Node) *Conversion {
	style, _ := attr(n, "style")
	declarations := ParseStyle(style)

	var flags document.TextFormat
	if weight := declarations["font-weight"]; weight == "bold" || weight == "bolder" || weight == "700" || weight == "800" || weight == "900" {
		flags |= document.FormatBold
	}
	if declarations["font-style"] == "italic" {
		flags |= document.FormatItalic
	}
	decoration := declarations["text-decoration"]
	if strings.Contains(decoration, "line-through") {
		flags |= document.FormatStrikethrough
	}
	if strings.Contains(decoration, "underline") {
		flags |= document.FormatUnderline
	}
	switch declarations["vertical-align"] {
	case "sub":
		flags |= document.FormatSubscript
	case "super":
		flags |= document.FormatSuperscript
	}

	if flags == 0 {
		return &Conversion{}
	}
	return &Conversion{ForChild: setFormat(flags)}
}
