// Package report renders pipeline results as a labeled text report, JSON or
// YAML.
//
// Reports hold ordered slices rather than maps so every format is stable
// across runs: documents keep input order and terms are sorted.
package report

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the output encoding.
type Format int

const (
	// Text is the human-readable labeled report (default)
	Text Format = iota
	// JSON output format
	JSON
	// YAML output format
	YAML
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case Text:
		return "Text"
	case JSON:
		return "JSON"
	case YAML:
		return "YAML"
	default:
		return "Unknown"
	}
}

// Report is anything that can be written as text; JSON and YAML come from its
// struct tags.
type Report interface {
	WriteText(w io.Writer) error
}

// Write renders r to w in format.
func Write(w io.Writer, r Report, format Format) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode JSON report: %w", err)
		}
		return nil
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode YAML report: %w", err)
		}
		return enc.Close()
	default:
		return r.WriteText(w)
	}
}

// TermWeight is one entry of a term mapping.
type TermWeight struct {
	Term   string  `json:"term" yaml:"term"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// SortedTerms flattens a term mapping into entries ordered by key, so hashed
// buckets sort numerically.
func SortedTerms[K cmp.Ordered](weights map[K]float64, name func(K) string) []TermWeight {
	keys := make([]K, 0, len(weights))
	for key := range weights {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	entries := make([]TermWeight, len(keys))
	for i, key := range keys {
		entries[i] = TermWeight{Term: name(key), Weight: weights[key]}
	}
	return entries
}

// formatWeight prints the shortest representation that round-trips, always
// with a decimal point so weights read as floats
func formatWeight(weight float64) string {
	s := strconv.FormatFloat(weight, 'g', -1, 64)
	if math.IsInf(weight, 0) || math.IsNaN(weight) {
		return s
	}
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// formatTerms prints entries as {term: weight, ...}
func formatTerms(entries []TermWeight) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, entry := range entries {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(entry.Term)
		b.WriteString(": ")
		b.WriteString(formatWeight(entry.Weight))
	}
	b.WriteByte('}')
	return b.String()
}

// errWriter records the first write error so rendering code stays linear
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
