// Package mapreduce computes TF/IDF weights as a two-phase map/reduce job.
//
// Three mapper/reducer pairs exist:
//   - Plain: keyed by term
//   - Hashed: keyed by the term's hash bucket (termhash)
//   - Sparse: keyed by hash bucket with integer article ids; the reducer emits
//     single-entry sparse-vector fragments keyed by article
//
// Mappers read one "<article_id>,<section_text>" record and emit one
// (key, Posting) pair per distinct term. Reducers receive every Posting for a
// key and emit count × StreamIDF weights. Each call is pure, so any harness
// that groups values by key gives the same result; Run is the in-process one.
package mapreduce

import (
	"fmt"
	"math"

	"github.com/chriscorrea/termweight/internal/termhash"
	"github.com/chriscorrea/termweight/internal/tokenize"
)

// Variant selects one of the mapper/reducer pairs.
type Variant int

const (
	// Plain keys by term string
	Plain Variant = iota
	// Hashed keys by term hash bucket
	Hashed
	// Sparse keys by hash bucket and emits per-article sparse fragments
	Sparse
)

// String returns the flag spelling of the variant.
func (v Variant) String() string {
	switch v {
	case Plain:
		return "plain"
	case Hashed:
		return "hashed"
	case Sparse:
		return "sparse"
	default:
		return "unknown"
	}
}

// ParseVariant is the inverse of Variant.String.
func ParseVariant(name string) (Variant, error) {
	switch name {
	case "plain":
		return Plain, nil
	case "hashed":
		return Hashed, nil
	case "sparse":
		return Sparse, nil
	default:
		return 0, fmt.Errorf("unknown variant %q (want plain, hashed or sparse)", name)
	}
}

// Pair is one emitted key/value pair.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// Posting is a mapper value: how often a term occurs in one article.
type Posting[ID comparable] struct {
	ArticleID ID
	Count     int
}

// Weight is a reducer value: the TF/IDF weight of a term in one article.
type Weight[ID comparable] struct {
	ArticleID ID
	TFIDF     float64
}

// Options configures a Job.
type Options struct {
	HashRange int    // bucket count for the hashed variants
	Strict    bool   // count each article once per key when computing the IDF
	Stem      bool   // stem tokens before counting
	Language  string // stemmer language
}

// DefaultOptions matches the reference job: 1000 buckets, duplicates counted.
func DefaultOptions() Options {
	return Options{
		HashRange: termhash.DefaultRange,
		Language:  tokenize.DefaultLanguage,
	}
}

// Job holds the validated options shared by its mappers and reducers.
type Job struct {
	opts Options
}

// NewJob validates opts and returns a Job.
func NewJob(opts Options) (*Job, error) {
	if opts.HashRange <= 0 {
		return nil, fmt.Errorf("%w: got %d", termhash.ErrInvalidRange, opts.HashRange)
	}
	if opts.Language == "" {
		opts.Language = tokenize.DefaultLanguage
	}
	return &Job{opts: opts}, nil
}

// Options returns the job configuration.
func (j *Job) Options() Options {
	return j.opts
}

// StreamIDF is the map/reduce inverse document frequency, ln(1 + 1/n) where n
// is the number of postings a reducer received. It is not interchangeable
// with tfidf.BatchIDF.
func StreamIDF(docsWithWord int) float64 {
	return math.Log(1 + 1/float64(docsWithWord))
}
