package report

import (
	"io"
	"sort"
)

// Hit is one ranked document.
type Hit struct {
	Rank     int     `json:"rank" yaml:"rank"`
	Document string  `json:"document" yaml:"document"`
	Score    float64 `json:"score" yaml:"score"`
}

// Search is the ranked result of a query.
type Search struct {
	Query  string `json:"query" yaml:"query"`
	Ranker string `json:"ranker" yaml:"ranker"`
	Hits   []Hit  `json:"hits" yaml:"hits"`
}

// NewSearch ranks ids by score, highest first with ties in input order, and
// keeps at most top hits (all when top <= 0). Documents scoring zero are
// dropped.
func NewSearch(query, ranker string, ids []string, scores []float64, top int) *Search {
	order := make([]int, 0, len(ids))
	for i := range ids {
		if scores[i] > 0 {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	if top > 0 && len(order) > top {
		order = order[:top]
	}

	s := &Search{Query: query, Ranker: ranker, Hits: make([]Hit, len(order))}
	for rank, i := range order {
		s.Hits[rank] = Hit{Rank: rank + 1, Document: ids[i], Score: scores[i]}
	}
	return s
}

// WriteText lists the hits one per line.
func (s *Search) WriteText(w io.Writer) error {
	ew := &errWriter{w: w}
	ew.printf("Query: %q (%s)\n", s.Query, s.Ranker)
	if len(s.Hits) == 0 {
		ew.printf("No matching documents\n")
	}
	for _, hit := range s.Hits {
		ew.printf("%d. Document %s: %s\n", hit.Rank, hit.Document, formatWeight(hit.Score))
	}
	return ew.err
}
