package report

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chriscorrea/termweight/internal/mapreduce"
	"github.com/chriscorrea/termweight/internal/tfidf"
)

func newTestCorpus(t *testing.T) *tfidf.Corpus {
	t.Helper()
	corpus, err := tfidf.NewCorpus([]string{"1", "2"}, []string{"a b a", "b c"})
	if err != nil {
		t.Fatalf("NewCorpus() unexpected error: %v", err)
	}
	return corpus
}

func TestFormatWeight(t *testing.T) {
	tests := []struct {
		weight float64
		want   string
	}{
		{1, "1.0"},
		{0, "0.0"},
		{0.5, "0.5"},
		{-2, "-2.0"},
		{0.6931471805599453, "0.6931471805599453"},
		{1e-7, "1e-07"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatWeight(tt.weight); got != tt.want {
				t.Errorf("formatWeight(%v) = %q, want %q", tt.weight, got, tt.want)
			}
		})
	}
}

func TestSortedTerms(t *testing.T) {
	buckets := SortedTerms(map[int]float64{288: 1, 38: 2, 5: 3}, strconv.Itoa)
	var got []string
	for _, entry := range buckets {
		got = append(got, entry.Term)
	}
	if strings.Join(got, ",") != "5,38,288" {
		t.Errorf("SortedTerms() order = %v, want numeric order", got)
	}
}

func TestBatchWriteText(t *testing.T) {
	want := `Term Frequency (TF):
Document 1 (3 words, english): {a: 1.0, b: 0.5}
Document 2: {b: 1.0, c: 1.0}

Inverse Document Frequency (IDF):
a: 0.6931471805599453
b: 0.0
c: 0.6931471805599453

Sparse Vectors:
Document 1: {a: 1.0, b: 0.5}
Document 2: {b: 1.0, c: 1.0}

TF/IDF Weights:
Document 1: {a: 0.6931471805599453}
Document 2: {c: 0.6931471805599453}
`
	notes := map[string]Annotation{
		"1": {Size: 3, Unit: "words", Language: "english"},
	}

	var buf bytes.Buffer
	if err := Write(&buf, NewBatch(newTestCorpus(t), notes), Text); err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}
	if buf.String() != want {
		t.Errorf("Write() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestBatchJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, NewBatch(newTestCorpus(t), nil), JSON); err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}

	var decoded Batch
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.TermFrequencies) != 2 {
		t.Fatalf("term_frequencies has %d documents, want 2", len(decoded.TermFrequencies))
	}
	if decoded.TermFrequencies[0].Document != "1" {
		t.Errorf("first document = %q, want %q", decoded.TermFrequencies[0].Document, "1")
	}
	if len(decoded.Weights[0].Terms) != 1 {
		t.Errorf("zero weights should be dropped, got %v", decoded.Weights[0].Terms)
	}
	if strings.Contains(buf.String(), `"size"`) {
		t.Error("size should be omitted when no counter ran")
	}
}

func TestBatchYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, NewBatch(newTestCorpus(t), nil), YAML); err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}

	var decoded Batch
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if len(decoded.InverseDocumentFrequencies) != 3 {
		t.Errorf("inverse_document_frequencies has %d terms, want 3", len(decoded.InverseDocumentFrequencies))
	}
	if !strings.HasPrefix(buf.String(), "term_frequencies:\n") {
		t.Errorf("unexpected YAML layout:\n%s", buf.String())
	}
}

func TestMapReduceWriteText(t *testing.T) {
	tests := []struct {
		name   string
		report *MapReduce
		want   string
	}{
		{
			name: "plain",
			report: NewMapReduce(mapreduce.Plain, 1000, []mapreduce.Pair[string, mapreduce.Weight[string]]{
				{Key: "the", Value: mapreduce.Weight[string]{ArticleID: "1", TFIDF: 0.5}},
				{Key: "the", Value: mapreduce.Weight[string]{ArticleID: "2", TFIDF: 1}},
			}),
			want: "\"the\"\t[\"1\", 0.5]\n\"the\"\t[\"2\", 1.0]\n",
		},
		{
			name: "hashed",
			report: NewMapReduce(mapreduce.Hashed, 1000, []mapreduce.Pair[string, mapreduce.Weight[string]]{
				{Key: "288", Value: mapreduce.Weight[string]{ArticleID: "1", TFIDF: 0.25}},
			}),
			want: "\"288\"\t[\"1\", 0.25]\n",
		},
		{
			name: "sparse",
			report: NewSparse(1000, []mapreduce.Pair[int, map[int]float64]{
				{Key: 1, Value: map[int]float64{38: 0.25}},
				{Key: 2, Value: map[int]float64{38: 1}},
				{Key: 1, Value: map[int]float64{288: 0.5}},
			}),
			want: "1\t{\"38\": 0.25}\n2\t{\"38\": 1.0}\n1\t{\"288\": 0.5}\n" +
				"\nSparse Vectors:\nArticle 1: {38: 0.25, 288: 0.5}\nArticle 2: {38: 1.0}\n",
		},
		{
			name: "sparse fragment buckets in numeric order",
			report: NewSparse(1000, []mapreduce.Pair[int, map[int]float64]{
				{Key: 3, Value: map[int]float64{288: 0.5, 38: 0.25, 5: 1}},
			}),
			want: "3\t{\"5\": 1.0}\n3\t{\"38\": 0.25}\n3\t{\"288\": 0.5}\n" +
				"\nSparse Vectors:\nArticle 3: {5: 1.0, 38: 0.25, 288: 0.5}\n",
		},
		{
			name: "sparse with article sources",
			report: func() *MapReduce {
				r := NewSparse(1000, []mapreduce.Pair[int, map[int]float64]{
					{Key: 1, Value: map[int]float64{38: 0.5}},
				})
				r.Articles = map[int]string{2: "b,c.txt", 1: "a.txt"}
				return r
			}(),
			want: "1\t{\"38\": 0.5}\n" +
				"\nSparse Vectors:\nArticle 1: {38: 0.5}\n" +
				"\nArticles:\nArticle 1: a.txt\nArticle 2: b,c.txt\n",
		},
		{
			name:   "empty",
			report: NewMapReduce(mapreduce.Plain, 1000, nil),
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.report.WriteText(&buf); err != nil {
				t.Fatalf("WriteText() unexpected error: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("WriteText() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestMapReduceHashRange(t *testing.T) {
	if r := NewMapReduce(mapreduce.Plain, 1000, nil); r.HashRange != 0 {
		t.Errorf("plain report HashRange = %d, want 0", r.HashRange)
	}
	if r := NewMapReduce(mapreduce.Hashed, 7, nil); r.HashRange != 7 {
		t.Errorf("hashed report HashRange = %d, want 7", r.HashRange)
	}
}

func TestNewSearch(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}
	scores := []float64{0.5, 0, 2, 0.5}

	tests := []struct {
		name string
		top  int
		want []string
	}{
		{name: "all hits", top: 0, want: []string{"c", "a", "d"}},
		{name: "top two", top: 2, want: []string{"c", "a"}},
		{name: "top larger than hits", top: 10, want: []string{"c", "a", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSearch("q", "tfidf", ids, scores, tt.top)
			if len(s.Hits) != len(tt.want) {
				t.Fatalf("NewSearch() returned %d hits, want %d", len(s.Hits), len(tt.want))
			}
			for i, hit := range s.Hits {
				if hit.Document != tt.want[i] {
					t.Errorf("hit %d = %q, want %q", i, hit.Document, tt.want[i])
				}
				if hit.Rank != i+1 {
					t.Errorf("hit %d rank = %d, want %d", i, hit.Rank, i+1)
				}
			}
		})
	}
}

func TestSearchWriteText(t *testing.T) {
	var buf bytes.Buffer
	s := NewSearch("moscow", "bm25", []string{"1", "3"}, []float64{0, 1.5}, 0)
	if err := s.WriteText(&buf); err != nil {
		t.Fatalf("WriteText() unexpected error: %v", err)
	}
	want := "Query: \"moscow\" (bm25)\n1. Document 3: 1.5\n"
	if buf.String() != want {
		t.Errorf("WriteText() = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	empty := NewSearch("nothing", "tfidf", []string{"1"}, []float64{0}, 0)
	if err := empty.WriteText(&buf); err != nil {
		t.Fatalf("WriteText() unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "No matching documents") {
		t.Errorf("WriteText() = %q, want no-match notice", buf.String())
	}
}

func TestHistoryWriteText(t *testing.T) {
	created := time.Date(2026, 10, 19, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		history *History
		want    string
	}{
		{
			name:    "no runs",
			history: &History{},
			want:    "No stored runs\n",
		},
		{
			name: "run list",
			history: &History{Runs: []RunSummary{
				{RunID: 1, Mode: "batch", Documents: 5, CreatedAt: created},
				{RunID: 2, Mode: "mapreduce", Variant: "hashed", HashRange: 1000, Documents: 5, CreatedAt: created},
				{RunID: 3, Mode: "mapreduce", Variant: "plain", Documents: 2, CreatedAt: created},
			}},
			want: "Run 1: batch, 5 documents, 2026-10-19 12:30:00\n" +
				"Run 2: mapreduce (hashed, range 1000), 5 documents, 2026-10-19 12:30:00\n" +
				"Run 3: mapreduce (plain), 2 documents, 2026-10-19 12:30:00\n",
		},
		{
			name: "batch run with idf",
			history: &History{
				Runs: []RunSummary{{RunID: 1, Mode: "batch", Documents: 2, CreatedAt: created}},
				IDF:  []TermWeight{{Term: "a", Weight: 0.5}, {Term: "b", Weight: 0}},
			},
			want: "Run 1: batch, 2 documents, 2026-10-19 12:30:00\n" +
				"\nInverse Document Frequency (IDF):\n{a: 0.5, b: 0.0}\n",
		},
		{
			name: "map/reduce run with pairs",
			history: &History{
				Runs:      []RunSummary{{RunID: 4, Mode: "mapreduce", Variant: "plain", Documents: 1, CreatedAt: created}},
				Emissions: []Emission{{Key: "moscow", Article: "2", TFIDF: 0.25}},
			},
			want: "Run 4: mapreduce (plain), 1 documents, 2026-10-19 12:30:00\n" +
				"\n\"moscow\"\t[\"2\", 0.25]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.history.WriteText(&buf); err != nil {
				t.Fatalf("WriteText() unexpected error: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("WriteText() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestFormatString(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{Text, "Text"},
		{JSON, "JSON"},
		{YAML, "YAML"},
		{Format(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}
