package extract_test

import (
	"strings"
	"testing"

	"github.com/chriscorrea/termweight/internal/extract"
)

const (
	articleHTML = `<!DOCTYPE html>
<html>
<head>
    <title>Census Report</title>
</head>
<body>
    <header>
        <h1>City Desk</h1>
        <nav>Navigation</nav>
    </header>
    <main>
        <article>
            <h1>Moscow Census</h1>
            <p>According to the latest census, the population of Moscow is more than two million.</p>
            <p>The figures cover <strong>every district</strong> and <em>every suburb</em> of the city.</p>
            <ul>
                <li>First district</li>
                <li>Second district</li>
            </ul>
        </article>
    </main>
    <aside>
        <p>This is sidebar content that should be filtered out.</p>
    </aside>
    <footer>
        <p>Footer content</p>
    </footer>
</body>
</html>`

	fragmentHTML = `<div class="content"><h2>Unclosed Header<p>Paragraph without closing<span>Some text</div>`
)

func TestToMarkdown(t *testing.T) {
	tests := []struct {
		name        string
		html        string
		opts        extract.Options
		expectError bool
		expectEmpty bool
		contains    []string
		notContains []string
	}{
		{
			name:        "main content extraction",
			html:        articleHTML,
			contains:    []string{"Moscow Census", "population of Moscow", "every district", "First district"},
			notContains: []string{"City Desk", "Navigation", "sidebar content", "Footer content"},
		},
		{
			name:        "article selector",
			html:        articleHTML,
			opts:        extract.Options{Selector: "article"},
			contains:    []string{"Moscow Census", "population of Moscow", "Second district"},
			notContains: []string{"City Desk", "sidebar content", "Footer"},
		},
		{
			name:        "multiple matching elements",
			html:        articleHTML,
			opts:        extract.Options{Selector: "li"},
			contains:    []string{"First district", "Second district"},
			notContains: []string{"population"},
		},
		{
			name:     "include all keeps page chrome",
			html:     articleHTML,
			opts:     extract.Options{IncludeAll: true},
			contains: []string{"City Desk", "population of Moscow", "Footer content"},
		},
		{
			name:     "selector wins over include all",
			html:     articleHTML,
			opts:     extract.Options{Selector: "footer", IncludeAll: true},
			contains: []string{"Footer content"},
			notContains: []string{
				"population",
			},
		},
		{
			name:        "non-existent selector",
			html:        articleHTML,
			opts:        extract.Options{Selector: ".non-existent"},
			expectError: true,
		},
		{
			name:     "malformed HTML with selector",
			html:     fragmentHTML,
			opts:     extract.Options{Selector: ".content"},
			contains: []string{"Unclosed Header", "Paragraph without closing", "Some text"},
		},
		{
			name:        "empty HTML",
			html:        "",
			expectEmpty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := extract.ToMarkdown(strings.NewReader(tt.html), tt.opts)

			if tt.expectError {
				if err == nil {
					t.Errorf("ToMarkdown() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("ToMarkdown() unexpected error: %v", err)
			}

			if tt.expectEmpty {
				if strings.TrimSpace(result) != "" {
					t.Errorf("ToMarkdown() expected empty result but got: %q", result)
				}
				return
			}

			for _, expected := range tt.contains {
				if !strings.Contains(result, expected) {
					t.Errorf("ToMarkdown() result should contain %q.\nResult: %s", expected, result)
				}
			}
			for _, notExpected := range tt.notContains {
				if strings.Contains(result, notExpected) {
					t.Errorf("ToMarkdown() result should not contain %q.\nResult: %s", notExpected, result)
				}
			}
			for _, tag := range []string{"<div>", "<article>", "</div>", "</article>"} {
				if strings.Contains(result, tag) {
					t.Errorf("ToMarkdown() result contains raw HTML tag %q", tag)
				}
			}
		})
	}
}

func TestLooksLikeHTML(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"html document", articleHTML, true},
		{"html fragment", "<p>hello</p>", true},
		{"record lines", "1,I wonder how many miles\n2,To be, or not to be?", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extract.LooksLikeHTML([]byte(tt.content)); got != tt.want {
				t.Errorf("LooksLikeHTML() = %v, want %v", got, tt.want)
			}
		})
	}
}
