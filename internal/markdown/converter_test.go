package markdown

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dannyswat/wikirego/pkg/interfaces"
)

func TestConvert(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "heading and emphasis",
			in:   "# Hello\n\nThis is **bold** and *italic*.",
			want: "<h1>Hello</h1>\n<p>This is <strong>bold</strong> and <em>italic</em>.</p>",
		},
		{
			name: "image is not a link",
			in:   "![alt](img.png)",
			want: `<p><img src="img.png" alt="alt"></p>`,
		},
		{
			name: "link with title",
			in:   `[site](https://x.io "Home")`,
			want: `<p><a href="https://x.io" title="Home">site</a></p>`,
		},
		{
			name: "quotes in urls stay inside the attribute",
			in:   `![x](a"onerror="b)`,
			want: `<p><img src="a&quot;onerror=&quot;b" alt="x"></p>`,
		},
		{
			name: "escapes markup",
			in:   "<script>alert(1)</script> & more",
			want: "<p>&lt;script&gt;alert(1)&lt;/script&gt; &amp; more</p>",
		},
		{
			name: "crlf and soft breaks",
			in:   "line one\r\nline two",
			want: "<p>line one<br>line two</p>",
		},
		{
			name: "fenced code with language",
			in:   "```go\nfmt.Println(\"<hi>\")\n```",
			want: `<pre><code class="language-go">fmt.Println("&lt;hi&gt;")</code></pre>`,
		},
		{
			name: "fenced code keeps its content verbatim",
			in:   "```\n# not a header\n\n**x**\n```",
			want: "<pre><code># not a header\n\n**x**</code></pre>",
		},
		{
			name: "unterminated fence runs to end of input",
			in:   "```js\nlet a = 1;",
			want: `<pre><code class="language-js">let a = 1;</code></pre>`,
		},
		{
			name: "indented code",
			in:   "    line one\n    line two\n\nafter",
			want: "<pre><code>line one\nline two</code></pre>\n<p>after</p>",
		},
		{
			name: "inline code is not formatted",
			in:   "Use `a*b*c` and `<b>` here",
			want: "<p>Use <code>a*b*c</code> and <code>&lt;b&gt;</code> here</p>",
		},
		{
			name: "header levels",
			in:   "###### six\n## two",
			want: "<h6>six</h6>\n<h2>two</h2>",
		},
		{
			name: "horizontal rule",
			in:   "a\n\n---\n\nb",
			want: "<p>a</p>\n<hr>\n<p>b</p>",
		},
		{
			name: "blockquote lines collapse",
			in:   "> one\n> two\n\nafter",
			want: "<blockquote><p>one<br>two</p></blockquote>\n<p>after</p>",
		},
		{
			name: "table with separator",
			in:   "| A | B |\n|---|---|\n| 1 | 2 |\n| 3 | 4 |",
			want: "<table><thead><tr><th>A</th><th>B</th></tr></thead><tbody><tr><td>1</td><td>2</td></tr><tr><td>3</td><td>4</td></tr></tbody></table>",
		},
		{
			name: "table without separator keeps header cells",
			in:   "| A |\n| B |",
			want: "<table><thead><tr><th>A</th></tr></thead><tbody><tr><th>B</th></tr></tbody></table>",
		},
		{
			name: "list kinds switch",
			in:   "- a\n- b\n1. c\n2. d",
			want: "<ul><li>a</li><li>b</li></ul>\n<ol><li>c</li><li>d</li></ol>",
		},
		{
			name: "task list",
			in:   "- [ ] todo\n- [x] done",
			want: `<ul><li><input type="checkbox" disabled> todo</li><li><input type="checkbox" checked disabled> done</li></ul>`,
		},
		{
			name: "underscore italic skips identifiers",
			in:   "call snake_case_name and _this_",
			want: "<p>call snake_case_name and <em>this</em></p>",
		},
		{
			name: "underscore bold and strikethrough",
			in:   "__strong__ ~~gone~~",
			want: "<p><strong>strong</strong> <s>gone</s></p>",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Convert(tc.in); got != tc.want {
				t.Fatalf("Convert(%q)\n got: %q\nwant: %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestConvertEmptyInput(t *testing.T) {
	if got := Convert(""); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
	if got := Convert("\n\n\n"); got != "" {
		t.Fatalf("expected blank input to produce no blocks, got %q", got)
	}
}

func TestConvertNeverLeaksMarkers(t *testing.T) {
	in := "a\x00B0\x00 `x` and\n\n```\ny\n```"
	got := Convert(in)
	if strings.Contains(got, "\x00") {
		t.Fatalf("output contains a fragment marker: %q", got)
	}
	if !strings.Contains(got, "<code>x</code>") || !strings.Contains(got, "<pre><code>y</code></pre>") {
		t.Fatalf("expected code fragments to be restored, got %q", got)
	}
}

func TestConverterImplementsInterface(t *testing.T) {
	var converter interfaces.MarkdownConverter = Converter{}
	if got := converter.Convert("**x**"); got != "<p><strong>x</strong></p>" {
		t.Fatalf("unexpected conversion %q", got)
	}
}

func TestStagesOrder(t *testing.T) {
	want := []string{
		"normalize_line_endings",
		"escape_html",
		"fenced_code",
		"indented_code",
		"inline_code",
		"headers",
		"horizontal_rules",
		"blockquotes",
		"tables",
		"lists",
		"task_lists",
		"links_and_images",
		"inline_formatting",
		"paragraphs",
	}
	if got := Stages(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Stages() = %v, want %v", got, want)
	}
}
