package mapreduce

import (
	"log/slog"
	"strconv"
)

// ReducePlain emits (term, Weight) for each article holding the term.
func (j *Job) ReducePlain(term string, postings []Posting[string]) []Pair[string, Weight[string]] {
	weights := weigh(postings, j.opts.Strict)
	pairs := make([]Pair[string, Weight[string]], len(weights))
	for i, w := range weights {
		pairs[i] = Pair[string, Weight[string]]{Key: term, Value: w}
	}
	return pairs
}

// ReduceHashed emits (bucket as a decimal string, Weight) for each article
// holding a term of the bucket.
func (j *Job) ReduceHashed(bucket int, postings []Posting[string]) []Pair[string, Weight[string]] {
	key := strconv.Itoa(bucket)
	weights := weigh(postings, j.opts.Strict)
	pairs := make([]Pair[string, Weight[string]], len(weights))
	for i, w := range weights {
		pairs[i] = Pair[string, Weight[string]]{Key: key, Value: w}
	}
	return pairs
}

// ReduceSparse emits (articleID, {bucket: tfidf}) fragments; MergeSparse
// assembles them into one vector per article. The posting count is computed
// here exactly as in ReducePlain.
func (j *Job) ReduceSparse(bucket int, postings []Posting[int]) []Pair[int, map[int]float64] {
	weights := weigh(postings, j.opts.Strict)
	pairs := make([]Pair[int, map[int]float64], len(weights))
	for i, w := range weights {
		pairs[i] = Pair[int, map[int]float64]{
			Key:   w.ArticleID,
			Value: map[int]float64{bucket: w.TFIDF},
		}
	}
	return pairs
}

// MergeSparse folds ReduceSparse fragments into a sparse vector per article.
func MergeSparse(fragments []Pair[int, map[int]float64]) map[int]map[int]float64 {
	vectors := make(map[int]map[int]float64)
	for _, fragment := range fragments {
		vector, ok := vectors[fragment.Key]
		if !ok {
			vector = make(map[int]float64, len(fragment.Value))
			vectors[fragment.Key] = vector
		}
		for bucket, weight := range fragment.Value {
			vector[bucket] = weight
		}
	}
	return vectors
}

// weigh is the reducer arithmetic shared by every variant.
//
// The document count is the number of postings, so an article posted twice
// for the same key counts twice unless strict is set. Per-article counts then
// collapse to the last posting seen, keeping first-seen article order.
func weigh[ID comparable](postings []Posting[ID], strict bool) []Weight[ID] {
	if len(postings) == 0 {
		return nil
	}

	var order []ID
	counts := make(map[ID]int, len(postings))
	for _, p := range postings {
		if _, seen := counts[p.ArticleID]; !seen {
			order = append(order, p.ArticleID)
		}
		counts[p.ArticleID] = p.Count
	}

	docsWithWord := len(postings)
	if strict {
		docsWithWord = len(order)
	}
	idf := StreamIDF(docsWithWord)

	weights := make([]Weight[ID], 0, len(order))
	for _, id := range order {
		weights = append(weights, Weight[ID]{ArticleID: id, TFIDF: float64(counts[id]) * idf})
	}

	if len(postings) != len(order) {
		slog.Debug("Duplicate article postings for key", "postings", len(postings), "articles", len(order), "strict", strict)
	}
	return weights
}
