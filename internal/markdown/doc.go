// Package markdown holds the paste-time Markdown tooling used by the editor:
// a cheap detector that decides whether clipboard text is Markdown, a
// regex-staged converter that turns it into HTML for the document importer,
// a goldmark-backed parser for the explicit "paste markdown" dialog, front
// matter extraction for page imports, and an HTML to Markdown exporter.
package markdown
