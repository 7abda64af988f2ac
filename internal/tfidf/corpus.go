package tfidf

import (
	"fmt"
	"log/slog"

	"github.com/chriscorrea/termweight/internal/tokenize"
)

// Corpus holds the batch TF/IDF results for an ordered set of documents.
type Corpus struct {
	IDs             []string                 // document ids, in input order
	TermFrequencies map[string]TermFrequency // TF for each document id
	IDF             InverseDocumentFrequency // IDF over the whole corpus
}

// NewCorpus runs CalculateTF on every document and CalculateIDF over the
// results. Documents with duplicate ids keep the last text.
//
// Returns an error naming the first document that has no terms.
func NewCorpus(ids []string, texts []string) (*Corpus, error) {
	if len(ids) != len(texts) {
		return nil, fmt.Errorf("got %d ids for %d documents", len(ids), len(texts))
	}

	corpus := &Corpus{
		IDs:             make([]string, 0, len(ids)),
		TermFrequencies: make(map[string]TermFrequency, len(ids)),
	}

	for i, id := range ids {
		tf, err := CalculateTF(texts[i])
		if err != nil {
			return nil, fmt.Errorf("document %q: %w", id, err)
		}
		if _, seen := corpus.TermFrequencies[id]; !seen {
			corpus.IDs = append(corpus.IDs, id)
		}
		corpus.TermFrequencies[id] = tf
	}

	corpus.IDF = CalculateIDF(corpus.TermFrequencies)

	slog.Debug("TF-IDF corpus created", "documents", len(corpus.IDs), "terms", len(corpus.IDF))
	return corpus, nil
}

// Weights returns the tf×idf weights of the document at docIndex.
func (c *Corpus) Weights(docIndex int) map[string]float64 {
	if docIndex < 0 || docIndex >= len(c.IDs) {
		return map[string]float64{}
	}
	return Weights(c.TermFrequencies[c.IDs[docIndex]], c.IDF)
}

// Score calculates the TF-IDF relevance of query against the document at
// docIndex by summing tf×idf over the query's terms.
//
// Query terms are split the same way documents are, so matching is case
// sensitive. Out-of-range indexes and empty queries score 0.
func (c *Corpus) Score(query string, docIndex int) float64 {
	if docIndex < 0 || docIndex >= len(c.IDs) {
		slog.Debug("Invalid document index", "docIndex", docIndex, "totalDocs", len(c.IDs))
		return 0.0
	}

	queryTerms := tokenize.Fields(query)
	if len(queryTerms) == 0 {
		slog.Debug("Empty query after tokenization")
		return 0.0
	}

	docTF := c.TermFrequencies[c.IDs[docIndex]]
	var totalScore float64

	for _, term := range queryTerms {
		tf := docTF[term]
		if tf == 0 {
			continue // term not in document
		}

		idf := c.IDF[term]
		totalScore += tf * idf

		slog.Debug("TF-IDF calculation", "term", term, "tf", tf, "idf", idf)
	}

	slog.Debug("Document scoring completed", "docIndex", docIndex, "queryTerms", len(queryTerms), "totalScore", totalScore)
	return totalScore
}
