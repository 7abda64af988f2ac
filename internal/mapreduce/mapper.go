package mapreduce

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/chriscorrea/termweight/internal/corpus"
	"github.com/chriscorrea/termweight/internal/termhash"
	"github.com/chriscorrea/termweight/internal/tokenize"
)

// MapPlain emits (term, Posting{articleID, count}) for every distinct term in
// the record.
func (j *Job) MapPlain(record string) ([]Pair[string, Posting[string]], error) {
	doc, counts, err := j.countRecord(record)
	if err != nil {
		return nil, err
	}

	pairs := make([]Pair[string, Posting[string]], 0, len(counts))
	for _, term := range sortedTerms(counts) {
		pairs = append(pairs, Pair[string, Posting[string]]{
			Key:   term,
			Value: Posting[string]{ArticleID: doc.ID, Count: counts[term]},
		})
	}
	return pairs, nil
}

// MapHashed emits (bucket, Posting{articleID, count}) for every distinct term
// in the record. Terms sharing a bucket produce separate pairs with the same
// key.
func (j *Job) MapHashed(record string) ([]Pair[int, Posting[string]], error) {
	doc, counts, err := j.countRecord(record)
	if err != nil {
		return nil, err
	}

	pairs := make([]Pair[int, Posting[string]], 0, len(counts))
	for _, term := range sortedTerms(counts) {
		bucket, err := termhash.Generate(term, j.opts.HashRange)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, Pair[int, Posting[string]]{
			Key:   bucket,
			Value: Posting[string]{ArticleID: doc.ID, Count: counts[term]},
		})
	}
	return pairs, nil
}

// MapSparse is MapHashed with the article id parsed as an integer.
func (j *Job) MapSparse(record string) ([]Pair[int, Posting[int]], error) {
	doc, counts, err := j.countRecord(record)
	if err != nil {
		return nil, err
	}

	articleID, err := strconv.Atoi(strings.TrimSpace(doc.ID))
	if err != nil {
		return nil, fmt.Errorf("%w: article id %q is not an integer", corpus.ErrMalformedRecord, doc.ID)
	}

	pairs := make([]Pair[int, Posting[int]], 0, len(counts))
	for _, term := range sortedTerms(counts) {
		bucket, err := termhash.Generate(term, j.opts.HashRange)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, Pair[int, Posting[int]]{
			Key:   bucket,
			Value: Posting[int]{ArticleID: articleID, Count: counts[term]},
		})
	}
	return pairs, nil
}

// countRecord parses a record and counts its word tokens
func (j *Job) countRecord(record string) (corpus.Document, map[string]int, error) {
	doc, err := corpus.ParseRecord(record)
	if err != nil {
		return corpus.Document{}, nil, err
	}

	words := tokenize.Words(doc.Text)
	if j.opts.Stem {
		words = tokenize.Stem(words, j.opts.Language)
	}
	return doc, tokenize.Count(words), nil
}

// sortedTerms fixes the emission order so mapper output is reproducible
func sortedTerms(counts map[string]int) []string {
	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}
