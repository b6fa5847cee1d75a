package sanitize

import (
	"strings"
	"testing"
)

func TestPolicy_Sanitize(t *testing.T) {
	policy := NewPersistencePolicy()

	tests := []struct {
		name         string
		input        string
		mustContain  []string
		mustNotMatch []string
	}{
		{
			name:        "keeps allowed class on code block",
			input:       `<pre class="language-go highlight">fmt.Println("ok")</pre>`,
			mustContain: []string{`<pre class="language-go highlight">`},
		},
		{
			name:         "removes class with invalid characters",
			input:        `<pre class="evil\" onclick=\"alert(1)">x</pre>`,
			mustContain:  []string{`<pre>x</pre>`},
			mustNotMatch: []string{`class=`, `onclick=`},
		},
		{
			name:        "keeps code metadata",
			input:       `<pre data-language="typescript" data-highlight-language="typescript" data-theme="github">let a = 1;</pre>`,
			mustContain: []string{`data-language="typescript"`, `data-highlight-language="typescript"`, `data-theme="github"`},
		},
		{
			name:         "removes invalid code metadata",
			input:        `<pre data-language="ts<script>">const a = 1;</pre>`,
			mustNotMatch: []string{`data-language=`},
		},
		{
			name:        "keeps anchor target blank",
			input:       `<a href="/p/home" target="_blank">home</a>`,
			mustContain: []string{`target="_blank"`},
		},
		{
			name:         "removes other anchor targets",
			input:        `<a href="/p/home" target="_self">home</a>`,
			mustNotMatch: []string{`target="_self"`},
		},
		{
			name:         "leaves relative links without rel",
			input:        `<a href="/p/home">home</a>`,
			mustContain:  []string{`<a href="/p/home">home</a>`},
			mustNotMatch: []string{`rel=`},
		},
		{
			name:         "keeps external link rel",
			input:        `<a href="https://evil.com" target="_blank" rel="noopener noreferrer">site</a>`,
			mustContain:  []string{`rel="noopener noreferrer"`},
			mustNotMatch: []string{`nofollow`},
		},
		{
			name:         "removes other rel values",
			input:        `<a href="https://evil.com" rel="opener">site</a>`,
			mustNotMatch: []string{`rel=`},
		},
		{
			name:        "keeps document styles",
			input:       `<span style="color: rgb(239, 68, 68); font-size: 16px;">text</span>`,
			mustContain: []string{`style="color: rgb(239, 68, 68); font-size: 16px;"`},
		},
		{
			name:         "removes url styles",
			input:        `<span style="background-image:url(javascript:alert(1))">x</span>`,
			mustNotMatch: []string{`style=`},
		},
		{
			name:        "keeps relative image",
			input:       `<img src="/media/uploads/photo.png" alt="photo">`,
			mustContain: []string{`src="/media/uploads/photo.png"`},
		},
		{
			name:         "removes javascript image source",
			input:        `<img src="javascript:alert(1)" alt="photo">`,
			mustNotMatch: []string{`javascript:alert(1)`},
		},
		{
			name:         "removes scripts and handlers",
			input:        `<p onclick="alert(1)">ok</p><script>alert(2)</script>`,
			mustContain:  []string{`<p>ok</p>`},
			mustNotMatch: []string{`<script`, `onclick=`, `alert(2)`},
		},
		{
			name:        "keeps figures and tables",
			input:       `<figure class="diagram"><figcaption class="caption">A</figcaption></figure><table><thead><tr><th>H</th></tr></thead><tbody><tr><td>D</td></tr></tbody></table>`,
			mustContain: []string{`<figure class="diagram"><figcaption class="caption">A</figcaption></figure>`, `<th>H</th>`, `<td>D</td>`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := policy.Sanitize(tt.input)

			for _, expected := range tt.mustContain {
				if !strings.Contains(output, expected) {
					t.Fatalf("expected sanitized output to contain %q, got: %s", expected, output)
				}
			}
			for _, forbidden := range tt.mustNotMatch {
				if strings.Contains(output, forbidden) {
					t.Fatalf("expected sanitized output to not contain %q, got: %s", forbidden, output)
				}
			}
		})
	}
}
