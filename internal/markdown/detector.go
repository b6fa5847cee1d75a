package markdown

import (
	"regexp"
	"strings"

	"github.com/dannyswat/wikirego/pkg/interfaces"
)

// detectorRule is a single Markdown construct the detector looks for. Strong
// rules are sufficient evidence on their own.
type detectorRule struct {
	name    string
	pattern *regexp.Regexp
	strong  bool
}

var detectorRules = []detectorRule{
	{name: "header", pattern: regexp.MustCompile(`(?m)^#{1,6}\s+.+$`), strong: true},
	{name: "unordered_list", pattern: regexp.MustCompile(`(?m)^\s*[-*+]\s+.+$`)},
	{name: "ordered_list", pattern: regexp.MustCompile(`(?m)^\s*\d+\.\s+.+$`)},
	{name: "bold", pattern: regexp.MustCompile(`\*\*.+?\*\*`)},
	{name: "italic", pattern: regexp.MustCompile(`\*.+?\*`)},
	{name: "bold_underscore", pattern: regexp.MustCompile(`__.+?__`)},
	{name: "italic_underscore", pattern: regexp.MustCompile(`_.+?_`)},
	{name: "strikethrough", pattern: regexp.MustCompile(`~~.+?~~`)},
	{name: "inline_code", pattern: regexp.MustCompile("`[^`]+`")},
	{name: "fenced_code", pattern: regexp.MustCompile("```[\\s\\S]*?```"), strong: true},
	{name: "blockquote", pattern: regexp.MustCompile(`(?m)^\s*>\s+.+$`), strong: true},
	{name: "link", pattern: regexp.MustCompile(`\[.+?\]\(.+?\)`)},
	{name: "image", pattern: regexp.MustCompile(`!\[.*?\]\(.+?\)`)},
	{name: "horizontal_rule", pattern: regexp.MustCompile(`(?m)^\s*[-*_]{3,}\s*$`)},
	{name: "table_row", pattern: regexp.MustCompile(`\|.+\|.+\|`), strong: true},
	{name: "task_item", pattern: regexp.MustCompile(`(?m)^\s*-\s*\[[ x]\]\s+`)},
}

// matchThreshold is the number of distinct rules that classify text as
// Markdown without consulting the strong rules.
const matchThreshold = 2

// Detector implements interfaces.MarkdownDetector. The zero value is ready to
// use.
type Detector struct{}

// LooksLikeMarkdown reports whether text reads as Markdown.
func (Detector) LooksLikeMarkdown(text string) bool {
	return LooksLikeMarkdown(text)
}

// LooksLikeMarkdown returns true once two distinct rules match, or when a
// single strong rule (header, fenced code, blockquote, table row) matches.
func LooksLikeMarkdown(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	matched := 0
	for _, rule := range detectorRules {
		if !rule.pattern.MatchString(text) {
			continue
		}
		matched++
		if matched >= matchThreshold {
			return true
		}
	}
	if matched == 0 {
		return false
	}

	for _, rule := range detectorRules {
		if rule.strong && rule.pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// MatchedRules lists the names of the rules that match text, in evaluation
// order. It exists for diagnostics; LooksLikeMarkdown short-circuits instead.
func MatchedRules(text string) []string {
	var names []string
	for _, rule := range detectorRules {
		if rule.pattern.MatchString(text) {
			names = append(names, rule.name)
		}
	}
	return names
}

var (
	wrapperTagPattern  = regexp.MustCompile(`(?i)</?(?:html|head|body|meta|pre|span|div|p)[^>]*>`)
	htmlCommentPattern = regexp.MustCompile(`<!--.*?-->`)
	complexTagPattern  = regexp.MustCompile(`(?i)<[a-z][^>]*>`)
)

// IsPlainTextHTML reports whether clipboard HTML is only a wrapper around
// plain text, as produced by text editors and terminals. Wrapper tags and
// comments are ignored; any remaining element other than <br> counts as rich
// content.
func IsPlainTextHTML(html string) bool {
	stripped := wrapperTagPattern.ReplaceAllString(html, "")
	stripped = htmlCommentPattern.ReplaceAllString(stripped, "")
	stripped = strings.TrimSpace(stripped)

	for _, tag := range complexTagPattern.FindAllString(stripped, -1) {
		if !isBreakTag(tag) {
			return false
		}
	}
	return true
}

// isBreakTag mirrors the "not followed by br" check, which treats any tag
// whose name starts with br (br, bR, ...) as a line break.
func isBreakTag(tag string) bool {
	lower := strings.ToLower(tag)
	return strings.HasPrefix(lower, "<br")
}

// ShouldConvert decides whether the plain-text branch of a clipboard payload
// preempts its HTML: the plain text must look like Markdown and the HTML, if
// any, must be a plain-text wrapper.
func ShouldConvert(payload interfaces.ClipboardPayload) bool {
	return ShouldConvertWith(Detector{}, payload)
}

// ShouldConvertWith is ShouldConvert with a caller-supplied detector.
func ShouldConvertWith(detector interfaces.MarkdownDetector, payload interfaces.ClipboardPayload) bool {
	if detector == nil || payload.PlainText == "" || !detector.LooksLikeMarkdown(payload.PlainText) {
		return false
	}
	return payload.HTML == "" || IsPlainTextHTML(payload.HTML)
}
