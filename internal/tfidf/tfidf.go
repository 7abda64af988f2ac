// Package tfidf implements the batch TF/IDF pipeline over an in-memory corpus.
//
// The pipeline composes three steps:
//   - CalculateTF: per-document term frequency, normalized by the document's
//     most frequent term
//   - CalculateIDF: corpus-wide inverse document frequency, ln(N/df)
//   - ToSparseVector: drop zero-weight entries from a weight mapping
//
// Usage Example:
//
//	tfs := map[string]tfidf.TermFrequency{}
//	for id, text := range documents {
//		tf, err := tfidf.CalculateTF(text)
//		if err != nil {
//			return err
//		}
//		tfs[id] = tf
//	}
//	idf := tfidf.CalculateIDF(tfs)
//
// The batch step splits on whitespace only (see tokenize.Fields); the
// map/reduce pipeline uses a different tokenizer and a different IDF formula.
package tfidf

import (
	"errors"
	"log/slog"
	"math"

	"github.com/chriscorrea/termweight/internal/tokenize"
)

// ErrEmptyDocument is returned when a document contains no terms, which
// leaves the normalization divisor undefined.
var ErrEmptyDocument = errors.New("document has no terms")

// TermFrequency maps a term to its normalized frequency in (0, 1] within one
// document.
type TermFrequency map[string]float64

// InverseDocumentFrequency maps a term to its corpus-wide IDF.
type InverseDocumentFrequency map[string]float64

// CalculateTF computes the normalized term frequency of document.
//
// Parameters:
//   - document: raw text, split on whitespace
//
// Returns:
//   - TermFrequency: count(term) / max count, so the most frequent term maps to 1.0
//   - error: ErrEmptyDocument when the document has no terms
func CalculateTF(document string) (TermFrequency, error) {
	tokens := tokenize.Fields(document)
	if len(tokens) == 0 {
		return nil, ErrEmptyDocument
	}

	termCounts := make(map[string]int)
	maxCount := 0
	for _, token := range tokens {
		termCounts[token]++
		if termCounts[token] > maxCount {
			maxCount = termCounts[token]
		}
	}

	tf := make(TermFrequency, len(termCounts))
	for term, count := range termCounts {
		tf[term] = float64(count) / float64(maxCount)
	}

	return tf, nil
}

// CalculateIDF computes ln(N/df) for every term that appears in any of the
// given term-frequency maps. Only presence matters; the TF values are ignored.
func CalculateIDF(documentsTF map[string]TermFrequency) InverseDocumentFrequency {
	docFrequencies := make(map[string]int)
	for _, tf := range documentsTF {
		for term := range tf {
			docFrequencies[term]++
		}
	}

	totalDocuments := len(documentsTF)
	idf := make(InverseDocumentFrequency, len(docFrequencies))
	for term, df := range docFrequencies {
		idf[term] = BatchIDF(totalDocuments, df)
	}

	slog.Debug("IDF calculated", "documents", totalDocuments, "terms", len(idf))
	return idf
}

// BatchIDF is the batch pipeline's inverse document frequency, ln(N/df).
// It is not interchangeable with mapreduce.StreamIDF.
func BatchIDF(totalDocuments, documentFrequency int) float64 {
	return math.Log(float64(totalDocuments) / float64(documentFrequency))
}

// Weights multiplies each term frequency by the term's IDF.
// Terms missing from idf get weight 0.
func Weights(tf TermFrequency, idf InverseDocumentFrequency) map[string]float64 {
	weights := make(map[string]float64, len(tf))
	for term, freq := range tf {
		weights[term] = freq * idf[term]
	}
	return weights
}

// ToSparseVector returns a copy of weights without its zero entries.
// Keys may be terms or hashed term ids.
func ToSparseVector[K comparable](weights map[K]float64) map[K]float64 {
	sparse := make(map[K]float64, len(weights))
	for key, weight := range weights {
		if weight != 0 {
			sparse[key] = weight
		}
	}
	return sparse
}
