package dom

import (
	"testing"

	"github.com/dannyswat/wikirego/internal/document"
)

func TestExportImage(t *testing.T) {
	got := Export(document.NewImage(document.ImagePayload{Src: "/a.png", AltText: "a", Width: 10}))
	want := `<img src="/a.png" alt="a" width="10" style="max-width: 100%">`
	if got != want {
		t.Fatalf("Export(image) = %q, want %q", got, want)
	}
}

func TestExportText(t *testing.T) {
	text := document.NewText("a<b")
	text.Format = document.FormatBold | document.FormatItalic
	text.Style = "color: red"

	got := Export(text)
	want := `<span style="color: red"><strong><em>a&lt;b</em></strong></span>`
	if got != want {
		t.Fatalf("Export(text) = %q, want %q", got, want)
	}
}

func TestExportTableAndList(t *testing.T) {
	checked := true
	item := document.NewListItem(document.NewText("done"))
	item.Checked = &checked
	table := document.NewTable(
		document.NewTableRow(document.NewTableCell(document.HeaderRow, document.NewParagraph(document.NewText("A")))),
		document.NewTableRow(document.NewTableCell(document.HeaderNone, document.NewParagraph(document.NewText("1")))),
	)

	got := Export(document.NewList(document.ListCheck, item), table)
	want := `<ul><li><input type="checkbox" checked disabled> done</li></ul>` +
		`<table><tr><th>A</th></tr><tr><td>1</td></tr></table>`
	if got != want {
		t.Fatalf("Export = %q, want %q", got, want)
	}
}

func TestImportExportRoundTrip(t *testing.T) {
	fragments := []string{
		`<h2>T</h2><p>a <strong>b</strong></p><ul><li>one</li></ul>`,
		`<ol start="3"><li>three</li><li>four</li></ol>`,
		`<blockquote><p>quoted<br>lines</p></blockquote>`,
		`<pre><code class="language-go">x := 1` + "\n" + `y := 2</code></pre>`,
		`<p><a href="/p/home">home</a></p><hr>`,
	}

	for _, fragment := range fragments {
		nodes := mustImport(t, fragment)
		if got := Export(nodes...); got != fragment {
			t.Fatalf("round trip changed markup\n got: %q\nwant: %q", got, fragment)
		}
	}
}

func TestExportDocument(t *testing.T) {
	d := document.NewWithBlocks(document.NewParagraph(document.NewText("x")))
	if got := ExportDocument(d); got != "<p>x</p>" {
		t.Fatalf("ExportDocument = %q", got)
	}
}
