// Package tokenize splits raw text into the terms counted by the TF/IDF
// pipelines.
//
// Two splitting rules exist and they are intentionally different:
//   - Words: maximal runs of letters, digits and underscores, lowercased.
//     Every map/reduce mapper uses it.
//   - Fields: plain whitespace splitting with case preserved. Only the batch
//     term-frequency step uses it.
//
// Usage Example:
//
//	counts := tokenize.Count(tokenize.Words("The population, the population"))
//	// counts == map[string]int{"the": 2, "population": 2}
package tokenize

import (
	"iter"
	"log/slog"
	"regexp"
	"strings"

	"github.com/kljensen/snowball"
)

// wordRegex matches a word token; letters and digits are Unicode-aware so
// accented words stay whole
var wordRegex = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// DefaultLanguage is the snowball stemmer language used when none is given.
const DefaultLanguage = "english"

// Words returns a lazy sequence of the word tokens in text, lowercased.
// Non-word characters act as separators and are discarded.
func Words(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if text == "" {
			return
		}

		rest := strings.ToLower(text)
		for {
			loc := wordRegex.FindStringIndex(rest)
			if loc == nil {
				return
			}
			if !yield(rest[loc[0]:loc[1]]) {
				return
			}
			rest = rest[loc[1]:]
		}
	}
}

// Fields splits text on whitespace without case folding or punctuation
// stripping, so "population," and "population" are distinct terms.
func Fields(text string) []string {
	return strings.Fields(text)
}

// Count tallies how often each token occurs in seq.
func Count(seq iter.Seq[string]) map[string]int {
	counts := make(map[string]int)
	for token := range seq {
		counts[token]++
	}
	return counts
}

// Stem wraps seq so every token is reduced to its snowball stem.
// Tokens the stemmer cannot handle (e.g. an unsupported language) pass through
// unchanged.
func Stem(seq iter.Seq[string], language string) iter.Seq[string] {
	if language == "" {
		language = DefaultLanguage
	}

	return func(yield func(string) bool) {
		for token := range seq {
			stemmed, err := snowball.Stem(token, language, false)
			if err != nil || stemmed == "" {
				slog.Debug("Stemming skipped", "token", token, "language", language, "error", err)
				stemmed = token
			}
			if !yield(stemmed) {
				return
			}
		}
	}
}
