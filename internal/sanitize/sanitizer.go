// Package sanitize scrubs HTML before it is imported into a document. The
// paste-time Sanitizer only rewrites external images and links; Policy is the
// allow-list applied when HTML is persisted.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var absoluteURLPattern = regexp.MustCompile(`(?i)^https?://`)

// IsExternalURL reports whether u points off-site: an http(s) URL or a
// protocol-relative one. Everything else is treated as relative.
func IsExternalURL(u string) bool {
	return absoluteURLPattern.MatchString(u) || strings.HasPrefix(u, "//")
}

// RemovedImagePlaceholder is the text that replaces a blocked image.
func RemovedImagePlaceholder(src string) string {
	return "[image removed: " + src + "]"
}

// Sanitizer implements interfaces.HTMLSanitizer. The zero value is ready to
// use.
type Sanitizer struct{}

// Sanitize parses html as a body fragment, replaces external images with a
// text placeholder and marks external links to open in a new tab without an
// opener or referrer. It never fails: input the parser rejects yields an
// empty string.
func (Sanitizer) Sanitize(html string) string {
	return Sanitize(html)
}

// Sanitize is the package-level form of Sanitizer.Sanitize.
func Sanitize(input string) string {
	root, err := parseFragment(input)
	if err != nil {
		return ""
	}

	doc := goquery.NewDocumentFromNode(root)

	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		if !IsExternalURL(src) {
			return
		}
		img.ReplaceWithNodes(&html.Node{
			Type: html.TextNode,
			Data: RemovedImagePlaceholder(src),
		})
	})

	doc.Find("a").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		if !IsExternalURL(href) {
			return
		}
		link.SetAttr("target", "_blank")
		link.SetAttr("rel", "noopener noreferrer")
	})

	out, err := doc.Html()
	if err != nil {
		return ""
	}
	return out
}

// parseFragment parses input in a <body> context and hangs the result off a
// detached container so head-only elements are not hoisted away.
func parseFragment(input string) (*html.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(input), context)
	if err != nil {
		return nil, err
	}

	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, node := range nodes {
		root.AppendChild(node)
	}
	return root, nil
}
