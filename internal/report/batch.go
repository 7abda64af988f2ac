package report

import (
	"io"
	"strconv"

	"github.com/chriscorrea/termweight/internal/tfidf"
)

// Annotation carries optional per-document facts shown next to its TF map.
type Annotation struct {
	Size     int    // document size in Unit
	Unit     string // counter name, e.g. "words"
	Language string // detected language, empty when not requested
}

// DocumentTerms is the term mapping of one document.
type DocumentTerms struct {
	Document string       `json:"document" yaml:"document"`
	Size     int          `json:"size,omitempty" yaml:"size,omitempty"`
	Unit     string       `json:"unit,omitempty" yaml:"unit,omitempty"`
	Language string       `json:"language,omitempty" yaml:"language,omitempty"`
	Terms    []TermWeight `json:"terms" yaml:"terms"`
}

// Batch is the batch TF/IDF report.
type Batch struct {
	TermFrequencies            []DocumentTerms `json:"term_frequencies" yaml:"term_frequencies"`
	InverseDocumentFrequencies []TermWeight    `json:"inverse_document_frequencies" yaml:"inverse_document_frequencies"`
	SparseVectors              []DocumentTerms `json:"sparse_vectors" yaml:"sparse_vectors"`
	Weights                    []DocumentTerms `json:"tfidf_weights" yaml:"tfidf_weights"`
}

func termName(term string) string { return term }

// NewBatch builds the report for corpus. Sparse vectors are taken from the TF
// maps; the weights section sparsifies tf×idf.
func NewBatch(corpus *tfidf.Corpus, notes map[string]Annotation) *Batch {
	b := &Batch{
		TermFrequencies:            make([]DocumentTerms, 0, len(corpus.IDs)),
		InverseDocumentFrequencies: SortedTerms(map[string]float64(corpus.IDF), termName),
		SparseVectors:              make([]DocumentTerms, 0, len(corpus.IDs)),
		Weights:                    make([]DocumentTerms, 0, len(corpus.IDs)),
	}

	for i, id := range corpus.IDs {
		tf := corpus.TermFrequencies[id]
		note := notes[id]

		b.TermFrequencies = append(b.TermFrequencies, DocumentTerms{
			Document: id,
			Size:     note.Size,
			Unit:     note.Unit,
			Language: note.Language,
			Terms:    SortedTerms(map[string]float64(tf), termName),
		})
		b.SparseVectors = append(b.SparseVectors, DocumentTerms{
			Document: id,
			Terms:    SortedTerms(tfidf.ToSparseVector(map[string]float64(tf)), termName),
		})
		b.Weights = append(b.Weights, DocumentTerms{
			Document: id,
			Terms:    SortedTerms(tfidf.ToSparseVector(corpus.Weights(i)), termName),
		})
	}

	return b
}

// WriteText writes the labeled sections of the batch report.
func (b *Batch) WriteText(w io.Writer) error {
	ew := &errWriter{w: w}

	ew.printf("Term Frequency (TF):\n")
	for _, doc := range b.TermFrequencies {
		ew.printf("Document %s%s: %s\n", doc.Document, describe(doc), formatTerms(doc.Terms))
	}

	ew.printf("\nInverse Document Frequency (IDF):\n")
	for _, entry := range b.InverseDocumentFrequencies {
		ew.printf("%s: %s\n", entry.Term, formatWeight(entry.Weight))
	}

	ew.printf("\nSparse Vectors:\n")
	for _, doc := range b.SparseVectors {
		ew.printf("Document %s: %s\n", doc.Document, formatTerms(doc.Terms))
	}

	ew.printf("\nTF/IDF Weights:\n")
	for _, doc := range b.Weights {
		ew.printf("Document %s: %s\n", doc.Document, formatTerms(doc.Terms))
	}

	return ew.err
}

// describe renders the optional annotation as " (12 words, english)"
func describe(doc DocumentTerms) string {
	var parts []string
	if doc.Unit != "" {
		parts = append(parts, strconv.Itoa(doc.Size)+" "+doc.Unit)
	}
	if doc.Language != "" {
		parts = append(parts, doc.Language)
	}
	if len(parts) == 0 {
		return ""
	}

	s := " ("
	for i, part := range parts {
		if i > 0 {
			s += ", "
		}
		s += part
	}
	return s + ")"
}
