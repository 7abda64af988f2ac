// Package section splits whole documents into article sections, the unit a
// map/reduce record carries.
//
// Splitting goes from the largest semantic unit to the smallest:
//  1. Paragraph boundaries (blank lines)
//  2. Sentence boundaries
//  3. Line boundaries
//  4. Word boundaries, for anything still oversized
//
// Each level only touches pieces that are still larger than the limit, and
// adjacent pieces are packed back together while they fit.
//
// Usage Example:
//
//	records := section.Records("42", article, section.Options{MaxBytes: 500})
//	// "42,<first section>", "42,<second section>", ...
package section

import (
	"log/slog"
	"strings"
)

// DefaultMaxBytes is the section size used when none is configured.
const DefaultMaxBytes = 1000

// level is one splitting pass; sep is re-appended to every piece but the last
type level struct {
	name string
	sep  string
}

var levels = []level{
	{name: "paragraph", sep: "\n\n"},
	{name: "sentence", sep: ". "},
	{name: "question", sep: "? "},
	{name: "exclamation", sep: "! "},
	{name: "line", sep: "\n"},
	{name: "word", sep: " "},
}

// Split breaks text into sections of at most maxBytes bytes, except for single
// words longer than the limit. Sections keep document order. Blank text and
// non-positive limits yield no sections.
func Split(text string, maxBytes int) []string {
	if maxBytes <= 0 || strings.TrimSpace(text) == "" {
		return nil
	}

	sections := split(strings.TrimSpace(text), 0, maxBytes)
	slog.Debug("Split text into sections", "textLength", len(text), "maxBytes", maxBytes, "sections", len(sections))
	return sections
}

// split applies levels[depth:] to an oversized piece, depth first
func split(piece string, depth, maxBytes int) []string {
	if len(piece) <= maxBytes || depth == len(levels) {
		return []string{piece}
	}

	lvl := levels[depth]
	var sections []string
	for _, packed := range pack(splitOn(piece, lvl.sep), lvl.sep, maxBytes) {
		sections = append(sections, split(packed, depth+1, maxBytes)...)
	}
	return sections
}

// splitOn cuts text at sep and keeps sep's punctuation on each piece
func splitOn(text, sep string) []string {
	parts := strings.Split(text, sep)
	mark := strings.TrimSpace(sep)

	pieces := make([]string, 0, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if i < len(parts)-1 {
			part += mark
		}
		pieces = append(pieces, part)
	}
	return pieces
}

// pack greedily joins consecutive pieces while the result fits in maxBytes
func pack(pieces []string, sep string, maxBytes int) []string {
	glue := " "
	if strings.Contains(sep, "\n") {
		glue = sep
	}

	var packed []string
	var current strings.Builder
	for _, piece := range pieces {
		if current.Len() > 0 && current.Len()+len(glue)+len(piece) > maxBytes {
			packed = append(packed, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(glue)
		}
		current.WriteString(piece)
	}
	if current.Len() > 0 {
		packed = append(packed, current.String())
	}
	return packed
}
