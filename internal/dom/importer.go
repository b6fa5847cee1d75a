// Package dom converts between HTML fragments and document nodes. Import is
// driven by a per-tag conversion map that transformers decorate; export
// renders nodes back to HTML.
package dom

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dannyswat/wikirego/internal/document"
)

// Conversion is the result of converting one HTML element.
type Conversion struct {
	// Node is the node the element becomes. When nil the element's children
	// are lifted into its parent.
	Node document.Node
	// ForChild is applied to every node created below the element, outermost
	// element first.
	ForChild func(document.Node) document.Node
	// After post-processes the converted children before they are attached.
	After func([]document.Node) []document.Node
	// SkipChildren stops the walk from descending into the element.
	SkipChildren bool
}

// ConvertFunc converts an element. A nil result lifts the element's
// children as if the element were absent.
type ConvertFunc func(el *html.Node) *Conversion

// Transformer decorates the conversion registered for tag. It returns next
// unchanged for tags it does not handle.
type Transformer func(tag string, next ConvertFunc) ConvertFunc

// Importer turns HTML fragments into detached document nodes.
type Importer struct {
	conversions map[string]ConvertFunc
}

// NewImporter builds an importer from the base conversion map decorated by
// transformers, applied in order.
func NewImporter(transformers ...Transformer) *Importer {
	conversions := baseConversions()
	for tag, fn := range conversions {
		for _, transform := range transformers {
			fn = transform(tag, fn)
		}
		conversions[tag] = fn
	}
	return &Importer{conversions: conversions}
}

// DefaultImporter is the importer the editor uses: base conversions with
// inline style merging for text.
func DefaultImporter() *Importer {
	return NewImporter(ExtendedTextStyles)
}

// Import parses fragment in a <body> context and converts it into top-level
// blocks. Inline runs at the top level are wrapped in paragraphs and blank
// paragraphs are dropped.
func (im *Importer) Import(fragment string) ([]document.Node, error) {
	container := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), container)
	if err != nil {
		return nil, fmt.Errorf("parse html fragment: %w", err)
	}
	for _, node := range nodes {
		container.AppendChild(node)
	}

	return normalizeBlocks(im.convertChildren(container, nil)), nil
}

var skippedTags = map[string]bool{
	"script": true, "style": true, "head": true, "title": true, "meta": true,
	"link": true, "noscript": true, "template": true, "iframe": true,
	"object": true, "embed": true,
}

// whitespace-only text is insignificant directly inside these containers.
var structuralTags = map[string]bool{
	"body": true, "html": true, "ul": true, "ol": true, "table": true,
	"thead": true, "tbody": true, "tfoot": true, "tr": true,
}

var whitespaceRun = regexp.MustCompile(`[ \t\n\r\f]+`)

func (im *Importer) convertChildren(parent *html.Node, chain []func(document.Node) document.Node) []document.Node {
	var out []document.Node
	for child := parent.FirstChild; child != nil; child = child.NextSibling {
		out = append(out, im.convert(child, parent, chain)...)
	}
	return out
}

func (im *Importer) convert(n, parent *html.Node, chain []func(document.Node) document.Node) []document.Node {
	switch n.Type {
	case html.TextNode:
		text := whitespaceRun.ReplaceAllString(n.Data, " ")
		if text == "" || (strings.TrimSpace(text) == "" && structuralTags[parent.Data]) {
			return nil
		}
		return []document.Node{applyChain(document.NewText(text), chain)}

	case html.ElementNode:
		if skippedTags[n.Data] {
			return nil
		}
		var conv *Conversion
		if fn, ok := im.conversions[n.Data]; ok {
			conv = fn(n)
		}
		if conv == nil {
			return im.convertChildren(n, chain)
		}

		childChain := chain
		if conv.ForChild != nil {
			childChain = append(slices.Clone(chain), conv.ForChild)
		}
		var children []document.Node
		if !conv.SkipChildren {
			children = im.convertChildren(n, childChain)
		}
		if conv.After != nil {
			children = conv.After(children)
		}
		if conv.Node == nil {
			return children
		}
		if el, ok := conv.Node.(document.Element); ok {
			document.AppendChildren(el, children...)
		}
		return []document.Node{applyChain(conv.Node, chain)}

	case html.DocumentNode:
		return im.convertChildren(n, chain)
	}
	return nil
}

func applyChain(n document.Node, chain []func(document.Node) document.Node) document.Node {
	for _, fn := range chain {
		n = fn(n)
	}
	return n
}

func isInline(n document.Node) bool {
	switch n.(type) {
	case *document.TextNode, *document.LinkNode, *document.LineBreakNode, *document.ImageNode:
		return true
	}
	return false
}

// wrapInline groups consecutive inline nodes into paragraphs.
func wrapInline(nodes []document.Node) []document.Node {
	out := make([]document.Node, 0, len(nodes))
	var run []document.Node
	flush := func() {
		if len(run) > 0 {
			out = append(out, document.NewParagraph(run...))
			run = nil
		}
	}
	for _, n := range nodes {
		if isInline(n) {
			run = append(run, n)
			continue
		}
		flush()
		out = append(out, n)
	}
	flush()
	return out
}

func normalizeBlocks(nodes []document.Node) []document.Node {
	blocks := wrapInline(nodes)
	out := blocks[:0]
	for _, block := range blocks {
		if isBlankParagraph(block) {
			continue
		}
		out = append(out, block)
	}
	return out
}

// isBlankParagraph reports whether n is a paragraph with no visible text and
// no image.
func isBlankParagraph(n document.Node) bool {
	p, ok := n.(*document.ParagraphNode)
	if !ok {
		return false
	}
	if strings.TrimSpace(document.TextContent(p)) != "" {
		return false
	}
	for _, child := range p.Children() {
		if _, isImage := child.(*document.ImageNode); isImage {
			return false
		}
	}
	return true
}
