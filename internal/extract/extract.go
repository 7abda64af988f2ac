// Package extract turns HTML documents into Markdown text before they enter
// the corpus, so markup never becomes a term.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// Options controls how much of an HTML page is kept.
type Options struct {
	Selector   string   // CSS selector; when set, only matching elements are kept
	IncludeAll bool     // skip readability and convert the whole page
	BaseURL    *url.URL // page URL, used by readability to resolve links (may be nil)
}

// LooksLikeHTML sniffs the first bytes of content.
func LooksLikeHTML(content []byte) bool {
	return strings.HasPrefix(http.DetectContentType(content), "text/html")
}

// ToMarkdown extracts the content of an HTML page and converts it to Markdown.
// A selector takes precedence over IncludeAll; without either, readability
// picks the main article.
func ToMarkdown(content io.Reader, opts Options) (string, error) {
	switch {
	case opts.Selector != "":
		return extractWithSelector(content, opts.Selector)
	case opts.IncludeAll:
		htmlBytes, err := io.ReadAll(content)
		if err != nil {
			return "", fmt.Errorf("failed to read HTML content: %w", err)
		}
		return convertToMarkdown(string(htmlBytes))
	default:
		return extractMainContent(content, opts.BaseURL)
	}
}

// extractMainContent uses go-readability to extract the main article content
func extractMainContent(content io.Reader, baseURL *url.URL) (string, error) {
	if baseURL == nil {
		baseURL = &url.URL{}
	}

	// readability needs the page twice when it finds no article
	htmlBytes, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("failed to read HTML content: %w", err)
	}

	article, err := readability.FromReader(bytes.NewReader(htmlBytes), baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract main content: %w", err)
	}
	if strings.TrimSpace(article.Content) == "" {
		return convertToMarkdown(string(htmlBytes))
	}

	return convertToMarkdown(article.Content)
}

// extractWithSelector keeps only the elements matching selector
func extractWithSelector(content io.Reader, selector string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(content)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	selection := doc.Find(selector)
	if selection.Length() == 0 {
		return "", fmt.Errorf("no elements found matching selector: %s", selector)
	}

	var htmlParts []string
	selection.Each(func(i int, s *goquery.Selection) {
		html, err := goquery.OuterHtml(s)
		if err == nil {
			htmlParts = append(htmlParts, html)
		}
	})

	return convertToMarkdown(strings.Join(htmlParts, "\n"))
}

// convertToMarkdown converts an HTML fragment to Markdown with collapsed
// blank lines
func convertToMarkdown(htmlString string) (string, error) {
	converter := md.NewConverter("", true, nil)

	markdown, err := converter.ConvertString(htmlString)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to Markdown: %w", err)
	}

	cleaned := strings.TrimSpace(markdown)
	for strings.Contains(cleaned, "\n\n\n") {
		cleaned = strings.ReplaceAll(cleaned, "\n\n\n", "\n\n")
	}

	return cleaned, nil
}
