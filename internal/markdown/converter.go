package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

// Converter implements interfaces.MarkdownConverter with a fixed, ordered
// pipeline of text stages. Each stage consumes the previous stage's output.
// The zero value is ready to use.
type Converter struct{}

// Convert renders markdown into block and inline HTML. User text is escaped
// before any markup is injected, so the only tags in the output are the ones
// the stages emit.
func (Converter) Convert(markdown string) string {
	return Convert(markdown)
}

// Convert is the package-level form of Converter.Convert.
func Convert(markdown string) string {
	c := &conversion{text: markdown}
	for _, stage := range pipeline {
		stage.apply(c)
	}
	return c.text
}

// Stages returns the pipeline stage names in execution order.
func Stages() []string {
	names := make([]string, len(pipeline))
	for i, stage := range pipeline {
		names[i] = stage.name
	}
	return names
}

type stage struct {
	name  string
	apply func(*conversion)
}

var pipeline = []stage{
	{name: "normalize_line_endings", apply: normalizeLineEndings},
	{name: "escape_html", apply: escapeHTML},
	{name: "fenced_code", apply: fencedCode},
	{name: "indented_code", apply: indentedCode},
	{name: "inline_code", apply: inlineCode},
	{name: "headers", apply: headers},
	{name: "horizontal_rules", apply: horizontalRules},
	{name: "blockquotes", apply: blockquotes},
	{name: "tables", apply: tables},
	{name: "lists", apply: lists},
	{name: "task_lists", apply: taskLists},
	{name: "links_and_images", apply: linksAndImages},
	{name: "inline_formatting", apply: inlineFormatting},
	{name: "paragraphs", apply: paragraphs},
}

// conversion carries the working text plus code fragments that have been
// lifted out of it. Code is emitted verbatim, so later stages must not see
// it; the fragments come back during paragraph wrapping.
type conversion struct {
	text      string
	fragments []string
}

const (
	markerStart = "\x00"
	markerBlock = "B"
	markerSpan  = "I"
	markerEnd   = "\x00"
)

var fragmentMarker = regexp.MustCompile(`\x00[BI](\d+)\x00`)

func (c *conversion) stash(fragment string, block bool) string {
	kind := markerSpan
	if block {
		kind = markerBlock
	}
	c.fragments = append(c.fragments, fragment)
	return markerStart + kind + strconv.Itoa(len(c.fragments)-1) + markerEnd
}

func (c *conversion) restore(text string) string {
	if len(c.fragments) == 0 {
		return text
	}
	return fragmentMarker.ReplaceAllStringFunc(text, func(marker string) string {
		idx, err := strconv.Atoi(marker[2 : len(marker)-1])
		if err != nil || idx < 0 || idx >= len(c.fragments) {
			return ""
		}
		return c.fragments[idx]
	})
}

func normalizeLineEndings(c *conversion) {
	text := strings.ReplaceAll(c.text, "\r\n", "\n")
	// NUL is reserved for fragment markers.
	c.text = strings.ReplaceAll(text, "\x00", "\uFFFD")
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeHTML(c *conversion) {
	c.text = htmlEscaper.Replace(c.text)
}

var (
	fencedPattern       = regexp.MustCompile("```(\\w*)\\n([\\s\\S]*?)```")
	openFencePattern    = regexp.MustCompile("```(\\w*)\\n([\\s\\S]*)$")
	indentedPattern     = regexp.MustCompile(`(?m)(?:^(?: {4}|\t).+\n?)+`)
	indentPrefixPattern = regexp.MustCompile(`(?m)^(?: {4}|\t)`)
	inlineCodePattern   = regexp.MustCompile("`([^`\\n]+)`")
)

func fencedCode(c *conversion) {
	render := func(groups []string) string {
		return c.stash(codeBlock(groups[1], groups[2]), true)
	}
	text := replaceAllSubmatchFunc(fencedPattern, c.text, render)
	// An unterminated fence runs to the end of input.
	c.text = replaceAllSubmatchFunc(openFencePattern, text, render)
}

func codeBlock(lang, code string) string {
	class := ""
	if lang != "" {
		class = ` class="language-` + lang + `"`
	}
	return "<pre><code" + class + ">" + strings.TrimSpace(code) + "</code></pre>"
}

func indentedCode(c *conversion) {
	c.text = indentedPattern.ReplaceAllStringFunc(c.text, func(match string) string {
		code := indentPrefixPattern.ReplaceAllString(match, "")
		marker := c.stash(codeBlock("", code), true)
		if strings.HasSuffix(match, "\n") {
			marker += "\n"
		}
		return marker
	})
}

func inlineCode(c *conversion) {
	c.text = replaceAllSubmatchFunc(inlineCodePattern, c.text, func(groups []string) string {
		return c.stash("<code>"+groups[1]+"</code>", false)
	})
}

var headerPatterns = func() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, 6)
	for level := 6; level >= 1; level-- {
		patterns = append(patterns, regexp.MustCompile(`(?m)^#{`+strconv.Itoa(level)+`}[ \t]+(.+)$`))
	}
	return patterns
}()

func headers(c *conversion) {
	text := c.text
	for i, pattern := range headerPatterns {
		level := strconv.Itoa(6 - i)
		text = pattern.ReplaceAllString(text, "<h"+level+">${1}</h"+level+">")
	}
	c.text = text
}

var rulePattern = regexp.MustCompile(`(?m)^[ \t]*[-*_]{3,}[ \t]*$`)

func horizontalRules(c *conversion) {
	c.text = rulePattern.ReplaceAllString(c.text, "<hr>")
}

var quoteLinePattern = regexp.MustCompile(`^\s*&gt;\s?(.*)$`)

func blockquotes(c *conversion) {
	lines := strings.Split(c.text, "\n")
	out := make([]string, 0, len(lines))
	var quoted []string
	inQuote := false

	flush := func() {
		if inQuote {
			out = append(out, "<blockquote><p>"+strings.Join(quoted, "<br>")+"</p></blockquote>")
			inQuote = false
			quoted = nil
		}
	}

	for _, line := range lines {
		if match := quoteLinePattern.FindStringSubmatch(line); match != nil {
			inQuote = true
			quoted = append(quoted, match[1])
			continue
		}
		flush()
		out = append(out, line)
	}
	flush()
	c.text = strings.Join(out, "\n")
}

var (
	tableRowPattern       = regexp.MustCompile(`^\|.+\|$`)
	tableSeparatorPattern = regexp.MustCompile(`^\|[-:\s|]+\|$`)
)

func tables(c *conversion) {
	lines := strings.Split(c.text, "\n")
	out := make([]string, 0, len(lines))
	var rows []string
	inTable := false
	headerSection := true

	flush := func() {
		if !inTable {
			return
		}
		out = append(out, "<table><thead>"+rows[0]+"</thead><tbody>"+strings.Join(rows[1:], "")+"</tbody></table>")
		inTable = false
		rows = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		isRow := tableRowPattern.MatchString(trimmed)
		isSeparator := tableSeparatorPattern.MatchString(trimmed)

		switch {
		case isRow && !isSeparator:
			if !inTable {
				inTable = true
				headerSection = true
			}
			tag := "td"
			if headerSection {
				tag = "th"
			}
			rows = append(rows, tableRow(trimmed, tag))
		case isSeparator && inTable:
			headerSection = false
		default:
			flush()
			out = append(out, line)
		}
	}
	flush()
	c.text = strings.Join(out, "\n")
}

func tableRow(line, tag string) string {
	var b strings.Builder
	b.WriteString("<tr>")
	for _, cell := range strings.Split(line[1:len(line)-1], "|") {
		b.WriteString("<" + tag + ">" + strings.TrimSpace(cell) + "</" + tag + ">")
	}
	b.WriteString("</tr>")
	return b.String()
}

var (
	bulletItemPattern  = regexp.MustCompile(`^\s*[-*+]\s+(.+)$`)
	orderedItemPattern = regexp.MustCompile(`^\s*\d+\.\s+(.+)$`)
)

func lists(c *conversion) {
	lines := strings.Split(c.text, "\n")
	out := make([]string, 0, len(lines))
	var items []string
	listTag := ""

	flush := func() {
		if listTag == "" {
			return
		}
		var b strings.Builder
		b.WriteString("<" + listTag + ">")
		for _, item := range items {
			b.WriteString("<li>" + item + "</li>")
		}
		b.WriteString("</" + listTag + ">")
		out = append(out, b.String())
		listTag = ""
		items = nil
	}

	for _, line := range lines {
		tag, item := "", ""
		if match := bulletItemPattern.FindStringSubmatch(line); match != nil {
			tag, item = "ul", match[1]
		} else if match := orderedItemPattern.FindStringSubmatch(line); match != nil {
			tag, item = "ol", match[1]
		}

		if tag == "" {
			flush()
			out = append(out, line)
			continue
		}
		if listTag != tag {
			flush()
			listTag = tag
		}
		items = append(items, item)
	}
	flush()
	c.text = strings.Join(out, "\n")
}

// The list stage consumes the "- " marker, so task items arrive either as
// "<li>[ ] text</li>" or, for nested markers, "<li>- [ ] text</li>".
var (
	openTaskPattern = regexp.MustCompile(`(?i)<li>\s*(?:-\s*)?\[\s*\]\s+(.+?)</li>`)
	doneTaskPattern = regexp.MustCompile(`(?i)<li>\s*(?:-\s*)?\[x\]\s+(.+?)</li>`)
)

func taskLists(c *conversion) {
	text := openTaskPattern.ReplaceAllString(c.text, `<li><input type="checkbox" disabled> ${1}</li>`)
	c.text = doneTaskPattern.ReplaceAllString(text, `<li><input type="checkbox" checked disabled> ${1}</li>`)
}

var (
	imagePattern = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]+)(?:\s+"([^"]*)")?\)`)
	linkPattern  = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)(?:\s+"([^"]*)")?\)`)
)

// attrEscaper closes the one gap left by escapeHTML: quotes inside attribute
// values.
var attrEscaper = strings.NewReplacer(`"`, "&quot;")

func titleAttr(title string) string {
	if title == "" {
		return ""
	}
	return ` title="` + attrEscaper.Replace(title) + `"`
}

func linksAndImages(c *conversion) {
	text := replaceAllSubmatchFunc(imagePattern, c.text, func(groups []string) string {
		return `<img src="` + attrEscaper.Replace(groups[2]) + `" alt="` + attrEscaper.Replace(groups[1]) + `"` + titleAttr(groups[3]) + `>`
	})
	c.text = replaceAllSubmatchFunc(linkPattern, text, func(groups []string) string {
		return `<a href="` + attrEscaper.Replace(groups[2]) + `"` + titleAttr(groups[3]) + `>` + groups[1] + `</a>`
	})
}

var (
	boldStarPattern       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	boldUnderscorePattern = regexp.MustCompile(`__([^_]+)__`)
	italicStarPattern     = regexp.MustCompile(`\*([^*]+)\*`)
	strikePattern         = regexp.MustCompile(`~~([^~]+)~~`)
)

func inlineFormatting(c *conversion) {
	text := boldStarPattern.ReplaceAllString(c.text, "<strong>${1}</strong>")
	text = boldUnderscorePattern.ReplaceAllString(text, "<strong>${1}</strong>")
	text = italicStarPattern.ReplaceAllString(text, "<em>${1}</em>")
	text = underscoreItalic(text)
	c.text = strikePattern.ReplaceAllString(text, "<s>${1}</s>")
}

// underscoreItalic wraps _text_ in <em> when neither underscore touches a
// word character on its outer side, so snake_case identifiers survive.
func underscoreItalic(text string) string {
	var b strings.Builder
	last := 0
	for i := 0; i < len(text); i++ {
		if text[i] != '_' || (i > 0 && isWordByte(text[i-1])) {
			continue
		}
		end := strings.IndexByte(text[i+1:], '_')
		if end <= 0 {
			continue
		}
		closing := i + 1 + end
		if closing+1 < len(text) && isWordByte(text[closing+1]) {
			continue
		}
		b.WriteString(text[last:i])
		b.WriteString("<em>" + text[i+1:closing] + "</em>")
		last = closing + 1
		i = closing
	}
	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

func isWordByte(ch byte) bool {
	return ch == '_' || ch >= '0' && ch <= '9' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}

var (
	blankLinesPattern = regexp.MustCompile(`\n\n+`)
	blockTagPattern   = regexp.MustCompile(`(?i)^<(?:h[1-6]|p|ul|ol|li|blockquote|pre|table|thead|tbody|tr|td|th|hr|div|figure|figcaption)`)
)

func paragraphs(c *conversion) {
	blocks := blankLinesPattern.Split(c.text, -1)
	out := make([]string, 0, len(blocks))
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		switch {
		case block == "":
		case blockTagPattern.MatchString(block), strings.HasPrefix(block, markerStart+markerBlock):
			out = append(out, c.restore(block))
		default:
			out = append(out, "<p>"+c.restore(strings.ReplaceAll(block, "\n", "<br>"))+"</p>")
		}
	}
	c.text = strings.Join(out, "\n")
}

// replaceAllSubmatchFunc is ReplaceAllStringFunc with access to the capture
// groups. Groups that did not participate are empty strings.
func replaceAllSubmatchFunc(re *regexp.Regexp, text string, fn func(groups []string) string) string {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}
	var b strings.Builder
	last := 0
	for _, loc := range matches {
		groups := make([]string, len(loc)/2)
		for g := range groups {
			if loc[2*g] >= 0 {
				groups[g] = text[loc[2*g]:loc[2*g+1]]
			}
		}
		b.WriteString(text[last:loc[0]])
		b.WriteString(fn(groups))
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String()
}
