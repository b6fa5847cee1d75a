package sanitize

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// metadataTokenPattern accepts language and theme names such as
	// "typescript", "c++" or "objective-c".
	metadataTokenPattern = regexp.MustCompile(`^[A-Za-z0-9_+#.-]{1,64}$`)
	targetBlankPattern   = regexp.MustCompile(`^_blank$`)
	externalRelPattern   = regexp.MustCompile(`^noopener noreferrer$`)
	// safeStylePattern accepts the declarations the document model emits.
	// Values may not contain ':', so url(...) and expression(...) payloads
	// with schemes never match.
	safeStylePattern = regexp.MustCompile(`^(?:\s*(?:color|background-color|font-size|text-align)\s*:\s*[#A-Za-z0-9(),.%\s-]+;?)+\s*$`)
)

// NewPolicy returns the allow-list used when document HTML is persisted. It
// extends the bluemonday UGC policy with the classes, code metadata and
// inline styles the editor produces.
func NewPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	// Link rel is owned by Sanitize; relative links stay bare.
	p.RequireNoFollowOnLinks(false)

	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements(
		"code", "pre", "span", "div", "figure", "figcaption",
	)
	p.AllowAttrs("data-language", "data-highlight-language", "data-theme").
		Matching(metadataTokenPattern).
		OnElements("pre", "code")
	p.AllowAttrs("target").Matching(targetBlankPattern).OnElements("a")
	p.AllowAttrs("rel").Matching(externalRelPattern).OnElements("a")
	p.AllowAttrs("style").Matching(safeStylePattern).OnElements(
		"span", "p", "strong", "em", "sub", "sup", "code", "td", "th", "img",
	)
	p.AllowAttrs("type", "checked", "disabled").OnElements("input")
	p.AllowElements("figure", "figcaption", "s", "input")
	p.AllowURLSchemes("http", "https", "mailto")
	p.AllowRelativeURLs(true)

	return p
}

// Policy adapts a bluemonday policy to interfaces.HTMLSanitizer.
type Policy struct {
	policy *bluemonday.Policy
}

// NewPersistencePolicy wraps NewPolicy.
func NewPersistencePolicy() *Policy {
	return &Policy{policy: NewPolicy()}
}

// Sanitize applies the allow-list to html.
func (p *Policy) Sanitize(html string) string {
	return p.policy.Sanitize(html)
}
