package app

import (
	"github.com/chriscorrea/bm25md"

	"github.com/chriscorrea/termweight/internal/corpus"
)

// scoreBM25 ranks documents with BM25md field weighting, so headings and
// emphasis in Markdown documents count for more than body text. Documents
// keep input order in the returned slices.
func scoreBM25(docs []corpus.Document, query string) ([]string, []float64) {
	// create BM25md corpus with default field weights and parameters
	bm := bm25md.NewCorpus()

	parser := bm25md.NewMarkdownFieldParser()
	for i, doc := range docs {
		bm.AddDocument(bm25md.Document{
			ID:       i,
			Fields:   parser.ParseDocument(doc.Text),
			Original: doc.Text,
		})
	}

	ids := make([]string, len(docs))
	scores := make([]float64, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
		scores[i] = bm.Score(query, i)
	}
	return ids, scores
}
