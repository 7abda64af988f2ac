// Package corpus loads the documents that the TF/IDF pipelines operate on.
//
// Documents arrive either as records, one "<article_id>,<section_text>" line
// each, or as whole files where the source name is the document id.
package corpus

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/chriscorrea/termweight/internal/extract"
	"github.com/chriscorrea/termweight/internal/fetch"
)

// ErrMalformedRecord is returned for a record line without a comma.
var ErrMalformedRecord = errors.New("malformed record")

// maxLineBytes bounds a single record line
const maxLineBytes = 1024 * 1024

// Document is one immutable input text and its identifier.
type Document struct {
	ID   string
	Text string
}

// Options controls how sources become documents.
type Options struct {
	WholeFile  bool   // one document per source instead of one per line
	HTML       bool   // convert HTML sources to Markdown (whole-file mode only)
	Selector   string // CSS selector for HTML extraction
	IncludeAll bool   // skip readability filtering for HTML sources
}

// ParseRecord splits a record line on its first comma; the text keeps any
// further commas.
func ParseRecord(line string) (Document, error) {
	id, text, found := strings.Cut(line, ",")
	if !found {
		return Document{}, fmt.Errorf("%w: no comma in %q", ErrMalformedRecord, line)
	}
	return Document{ID: id, Text: text}, nil
}

// Sample returns the five-document corpus the tool demonstrates with.
func Sample() []Document {
	return []Document{
		{ID: "1", Text: "I wonder how many miles I’ve fallen by this time?"},
		{ID: "2", Text: "According to the latest census, the population of Moscow is more than two million."},
		{ID: "3", Text: "It was a warm, bright day at the end of August."},
		{ID: "4", Text: "To be, or not to be?"},
		{ID: "5", Text: "The population, the population, the population"},
	}
}

// Records renders documents back into record lines.
func Records(docs []Document) []string {
	lines := make([]string, len(docs))
	for i, doc := range docs {
		lines[i] = doc.ID + "," + doc.Text
	}
	return lines
}

// Lines reads the non-blank lines of every source, in order. Lines are not
// parsed; mappers parse their own input.
func Lines(ctx context.Context, sources []string) ([]string, error) {
	sources, err := fetch.Expand(sources)
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sourceLines, err := readLines(ctx, source)
		if err != nil {
			return nil, err
		}
		lines = append(lines, sourceLines...)
	}

	slog.Debug("Loaded record lines", "sources", len(sources), "lines", len(lines))
	return lines, nil
}

// Load reads every source into documents.
func Load(ctx context.Context, sources []string, opts Options) ([]Document, error) {
	if !opts.WholeFile {
		lines, err := Lines(ctx, sources)
		if err != nil {
			return nil, err
		}

		docs := make([]Document, 0, len(lines))
		for _, line := range lines {
			doc, err := ParseRecord(line)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
		return docs, nil
	}

	sources, err := fetch.Expand(sources)
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(sources))
	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := readDocument(ctx, source, opts)
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{ID: source, Text: text})
	}

	slog.Debug("Loaded whole-file documents", "documents", len(docs))
	return docs, nil
}

func readLines(ctx context.Context, source string) ([]string, error) {
	reader, err := fetch.GetContent(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	defer reader.Close()

	var lines []string
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", source, err)
	}
	return lines, nil
}

func readDocument(ctx context.Context, source string, opts Options) (string, error) {
	reader, err := fetch.GetContent(ctx, source)
	if err != nil {
		return "", fmt.Errorf("failed to open source: %w", err)
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", source, err)
	}

	if !opts.HTML || !extract.LooksLikeHTML(content) {
		return string(content), nil
	}

	var baseURL *url.URL
	if fetch.IsURL(source) {
		baseURL, _ = url.Parse(source) // readability accepts a nil URL
	}

	markdown, err := extract.ToMarkdown(bytes.NewReader(content), extract.Options{
		Selector:   opts.Selector,
		IncludeAll: opts.IncludeAll,
		BaseURL:    baseURL,
	})
	if err != nil {
		return "", fmt.Errorf("failed to extract %q: %w", source, err)
	}
	return markdown, nil
}
