package report

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/chriscorrea/termweight/internal/mapreduce"
)

// Emission is one (key, [article, tfidf]) reducer output.
type Emission struct {
	Key     string  `json:"key" yaml:"key"`
	Article string  `json:"article" yaml:"article"`
	TFIDF   float64 `json:"tfidf" yaml:"tfidf"`
}

// Fragment is one (article, {bucket: tfidf}) output of the sparse reducer.
type Fragment struct {
	Article int     `json:"article" yaml:"article"`
	Bucket  int     `json:"bucket" yaml:"bucket"`
	TFIDF   float64 `json:"tfidf" yaml:"tfidf"`
}

// ArticleVector is the merged sparse vector of one article.
type ArticleVector struct {
	Article int          `json:"article" yaml:"article"`
	Terms   []TermWeight `json:"buckets" yaml:"buckets"`
}

// MapReduce is the report of one map/reduce run.
type MapReduce struct {
	Variant   string          `json:"variant" yaml:"variant"`
	HashRange int             `json:"hash_range,omitempty" yaml:"hash_range,omitempty"`
	Emissions []Emission      `json:"emissions,omitempty" yaml:"emissions,omitempty"`
	Fragments []Fragment      `json:"fragments,omitempty" yaml:"fragments,omitempty"`
	Vectors   []ArticleVector `json:"sparse_vectors,omitempty" yaml:"sparse_vectors,omitempty"`

	// Articles names the source of each numbered article when whole files
	// were numbered for the sparse variant
	Articles map[int]string `json:"articles,omitempty" yaml:"articles,omitempty"`
}

// NewMapReduce reports the output of RunPlain or RunHashed.
func NewMapReduce(variant mapreduce.Variant, hashRange int, pairs []mapreduce.Pair[string, mapreduce.Weight[string]]) *MapReduce {
	r := &MapReduce{
		Variant:   variant.String(),
		Emissions: make([]Emission, len(pairs)),
	}
	if variant != mapreduce.Plain {
		r.HashRange = hashRange
	}
	for i, pair := range pairs {
		r.Emissions[i] = Emission{Key: pair.Key, Article: pair.Value.ArticleID, TFIDF: pair.Value.TFIDF}
	}
	return r
}

// NewSparse reports the output of RunSparse together with the merged vectors.
func NewSparse(hashRange int, fragments []mapreduce.Pair[int, map[int]float64]) *MapReduce {
	r := &MapReduce{
		Variant:   mapreduce.Sparse.String(),
		HashRange: hashRange,
	}
	for _, fragment := range fragments {
		for _, bucket := range slices.Sorted(maps.Keys(fragment.Value)) {
			r.Fragments = append(r.Fragments, Fragment{Article: fragment.Key, Bucket: bucket, TFIDF: fragment.Value[bucket]})
		}
	}

	vectors := mapreduce.MergeSparse(fragments)
	for _, article := range slices.Sorted(maps.Keys(vectors)) {
		r.Vectors = append(r.Vectors, ArticleVector{
			Article: article,
			Terms:   SortedTerms(vectors[article], strconv.Itoa),
		})
	}
	return r
}

// WriteText writes one tab-separated line per emitted pair, keys and values
// JSON-encoded. Sparse runs add the merged vectors.
func (r *MapReduce) WriteText(w io.Writer) error {
	ew := &errWriter{w: w}

	for _, e := range r.Emissions {
		key, err := json.Marshal(e.Key)
		if err != nil {
			return fmt.Errorf("failed to encode key: %w", err)
		}
		article, err := json.Marshal(e.Article)
		if err != nil {
			return fmt.Errorf("failed to encode article id: %w", err)
		}
		ew.printf("%s\t[%s, %s]\n", key, article, formatWeight(e.TFIDF))
	}

	for _, f := range r.Fragments {
		ew.printf("%d\t{\"%d\": %s}\n", f.Article, f.Bucket, formatWeight(f.TFIDF))
	}

	if len(r.Vectors) > 0 {
		ew.printf("\nSparse Vectors:\n")
		for _, v := range r.Vectors {
			ew.printf("Article %d: %s\n", v.Article, formatTerms(v.Terms))
		}
	}

	if len(r.Articles) > 0 {
		ew.printf("\nArticles:\n")
		for _, article := range slices.Sorted(maps.Keys(r.Articles)) {
			ew.printf("Article %d: %s\n", article, r.Articles[article])
		}
	}

	return ew.err
}
