package dom

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/dannyswat/wikirego/internal/document"
)

// ParseStyle splits an inline style attribute into lower-cased properties
// and trimmed values. Later declarations of a property win.
func ParseStyle(style string) map[string]string {
	declarations := map[string]string{}
	for _, declaration := range strings.Split(style, ";") {
		property, value, ok := strings.Cut(declaration, ":")
		if !ok {
			continue
		}
		property = strings.ToLower(strings.TrimSpace(property))
		value = strings.TrimSpace(value)
		if property == "" || value == "" {
			continue
		}
		declarations[property] = value
	}
	return declarations
}

// inlineStyleProperties are the properties carried onto text nodes, in
// output order.
var inlineStyleProperties = []string{"color", "background-color", "font-size"}

// CollectInlineStyles returns the color, background-color and font-size
// declarations of el's style attribute, joined with "; ".
func CollectInlineStyles(el *html.Node) string {
	style, ok := attr(el, "style")
	if !ok {
		return ""
	}
	declarations := ParseStyle(style)
	parts := make([]string, 0, len(inlineStyleProperties))
	for _, property := range inlineStyleProperties {
		if value := declarations[property]; value != "" {
			parts = append(parts, property+": "+value)
		}
	}
	return strings.Join(parts, "; ")
}

var styledTextTags = map[string]bool{
	"span": true, "strong": true, "em": true, "sub": true, "sup": true, "code": true,
}

// ExtendedTextStyles decorates the span, strong, em, sub, sup and code
// conversions so text created below them also receives the element's color,
// background-color and font-size. Styles are appended after whatever the
// wrapped conversion produced.
func ExtendedTextStyles(tag string, next ConvertFunc) ConvertFunc {
	if !styledTextTags[tag] {
		return next
	}
	return func(el *html.Node) *Conversion {
		out := next(el)
		if out == nil {
			return nil
		}
		extra := CollectInlineStyles(el)
		if extra == "" {
			return out
		}

		base := out.ForChild
		patched := *out
		patched.ForChild = func(n document.Node) document.Node {
			if base != nil {
				n = base(n)
			}
			if text, ok := n.(*document.TextNode); ok {
				text.MergeStyle(extra)
			}
			return n
		}
		return &patched
	}
}
