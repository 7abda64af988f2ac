// Package app contains the core application logic for the termweight CLI.
// It wires loading, the TF/IDF pipelines, reporting and persistence together,
// separate from CLI concerns.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/chriscorrea/termweight/internal/corpus"
	"github.com/chriscorrea/termweight/internal/counter"
	"github.com/chriscorrea/termweight/internal/language"
	"github.com/chriscorrea/termweight/internal/mapreduce"
	"github.com/chriscorrea/termweight/internal/report"
	"github.com/chriscorrea/termweight/internal/section"
	"github.com/chriscorrea/termweight/internal/spinner"
	"github.com/chriscorrea/termweight/internal/store"
	"github.com/chriscorrea/termweight/internal/tfidf"
	"github.com/chriscorrea/termweight/internal/tokenize"
)

// Ranker selects the search scoring function.
type Ranker int

const (
	// TFIDF sums batch tf×idf over the query terms (default)
	TFIDF Ranker = iota
	// BM25 uses field-weighted BM25 over Markdown structure
	BM25
)

// String returns the flag spelling of the ranker
func (r Ranker) String() string {
	switch r {
	case TFIDF:
		return "tfidf"
	case BM25:
		return "bm25"
	default:
		return "unknown"
	}
}

// ParseRanker is the inverse of Ranker.String.
func ParseRanker(name string) (Ranker, error) {
	switch name {
	case "tfidf":
		return TFIDF, nil
	case "bm25":
		return BM25, nil
	default:
		return 0, fmt.Errorf("unknown ranker %q (want tfidf or bm25)", name)
	}
}

// ErrSourceID is returned when a whole-file source name cannot serve as a
// record article id.
var ErrSourceID = errors.New("source name contains a comma")

// Config holds all configuration options for the termweight application.
type Config struct {
	Sources        []string       // URLs, file paths, directories or "-" for stdin
	Sample         bool           // use the built-in sample corpus instead of Sources
	Corpus         corpus.Options // record vs whole-file loading and HTML handling
	OutputFormat   report.Format
	CountUnits     bool                   // annotate documents with their size
	CountingMethod counter.CountingMethod // unit for CountUnits
	DetectLanguage bool                   // annotate documents with their language
	DBPath         string                 // persist results to this SQLite file when set

	// map/reduce
	Variant   mapreduce.Variant
	HashRange int
	Strict    bool // count each article once per key
	Workers   int  // worker pool size; <= 0 uses GOMAXPROCS

	// SectionSize splits whole-file documents into section records of at most
	// this many bytes; 0 keeps one record per file
	SectionSize int

	// tokenization
	Stem     bool
	Language string // stemmer language

	// search
	Query  string
	Ranker Ranker
	Top    int // max hits; <= 0 keeps every match

	// RunID selects one stored run to show; 0 lists every run
	RunID int64

	Quiet bool // suppress progress output
	Debug bool
}

// RunBatch runs the batch TF/IDF pipeline and returns the rendered report.
func RunBatch(ctx context.Context, cfg Config) (string, error) {
	docs, err := loadDocuments(ctx, cfg)
	if err != nil {
		return "", err
	}

	c, err := buildCorpus(docs, cfg)
	if err != nil {
		return "", err
	}

	notes, err := annotate(docs, cfg)
	if err != nil {
		return "", err
	}

	if cfg.DBPath != "" {
		if err := persist(cfg.DBPath, func(db *store.DB) (int64, error) {
			return db.SaveBatch(c)
		}); err != nil {
			return "", err
		}
	}

	return render(report.NewBatch(c, notes), cfg.OutputFormat)
}

// RunMapReduce runs the selected map/reduce variant in process and returns
// the rendered report.
func RunMapReduce(ctx context.Context, cfg Config) (string, error) {
	records, articles, err := loadRecords(ctx, cfg)
	if err != nil {
		return "", err
	}

	job, err := mapreduce.NewJob(mapreduce.Options{
		HashRange: cfg.HashRange,
		Strict:    cfg.Strict,
		Stem:      cfg.Stem,
		Language:  cfg.Language,
	})
	if err != nil {
		return "", fmt.Errorf("failed to configure map/reduce job: %w", err)
	}

	// display spinner for longer operations
	if !cfg.Quiet && spinner.IsTerminal(os.Stderr) {
		sp := spinner.New(ctx, os.Stderr, fmt.Sprintf("Running %s map/reduce over %d records...", cfg.Variant, len(records)))
		sp.Start()
		defer sp.Stop()
	}

	var result *report.MapReduce
	switch cfg.Variant {
	case mapreduce.Sparse:
		fragments, err := job.RunSparse(ctx, records, cfg.Workers)
		if err != nil {
			return "", err
		}
		result = report.NewSparse(cfg.HashRange, fragments)
		result.Articles = articles
	case mapreduce.Hashed:
		pairs, err := job.RunHashed(ctx, records, cfg.Workers)
		if err != nil {
			return "", err
		}
		result = report.NewMapReduce(cfg.Variant, cfg.HashRange, pairs)
	default:
		pairs, err := job.RunPlain(ctx, records, cfg.Workers)
		if err != nil {
			return "", err
		}
		result = report.NewMapReduce(cfg.Variant, cfg.HashRange, pairs)
	}

	if cfg.DBPath != "" {
		if err := persist(cfg.DBPath, func(db *store.DB) (int64, error) {
			return db.SaveMapReduce(result, len(records))
		}); err != nil {
			return "", err
		}
	}

	return render(result, cfg.OutputFormat)
}

// RunSearch ranks the loaded documents against cfg.Query and returns the
// rendered hits.
func RunSearch(ctx context.Context, cfg Config) (string, error) {
	query := strings.TrimSpace(cfg.Query)
	if query == "" {
		return "", fmt.Errorf("no search query provided")
	}

	docs, err := loadDocuments(ctx, cfg)
	if err != nil {
		return "", err
	}

	var ids []string
	var scores []float64
	switch cfg.Ranker {
	case BM25:
		ids, scores = scoreBM25(docs, query)
	default:
		c, err := buildCorpus(docs, cfg)
		if err != nil {
			return "", err
		}
		if cfg.Stem {
			query = stemText(query, cfg.Language)
		}
		ids = c.IDs
		scores = make([]float64, len(ids))
		for i := range ids {
			scores[i] = c.Score(query, i)
		}
	}

	slog.Debug("Search completed", "ranker", cfg.Ranker, "documents", len(ids))
	return render(report.NewSearch(cfg.Query, cfg.Ranker.String(), ids, scores, cfg.Top), cfg.OutputFormat)
}

// RunHistory lists the runs stored at cfg.DBPath, or the stored results of
// run cfg.RunID when it is set.
func RunHistory(ctx context.Context, cfg Config) (string, error) {
	if cfg.DBPath == "" {
		return "", fmt.Errorf("no database path provided")
	}
	// store.Open would create a missing database
	if _, err := os.Stat(cfg.DBPath); err != nil {
		return "", fmt.Errorf("failed to open database: %w", err)
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return "", fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	runs, err := db.ListRuns()
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	history := &report.History{Runs: make([]report.RunSummary, 0, len(runs))}
	for _, run := range runs {
		if cfg.RunID > 0 && run.RunID != cfg.RunID {
			continue
		}
		history.Runs = append(history.Runs, report.RunSummary{
			RunID:     run.RunID,
			Mode:      run.Mode,
			Variant:   run.Variant,
			HashRange: run.HashRange,
			Documents: run.DocumentCount,
			CreatedAt: run.CreatedAt,
		})
	}

	if cfg.RunID > 0 {
		if len(history.Runs) == 0 {
			return "", fmt.Errorf("run %d not found", cfg.RunID)
		}
		if history.Runs[0].Mode == "batch" {
			idf, err := db.IDF(cfg.RunID)
			if err != nil {
				return "", err
			}
			history.IDF = report.SortedTerms(idf, func(term string) string { return term })
		} else {
			history.Emissions, err = db.Pairs(cfg.RunID)
			if err != nil {
				return "", err
			}
		}
	}

	return render(history, cfg.OutputFormat)
}

// loadDocuments returns the sample corpus or the documents of cfg.Sources
func loadDocuments(ctx context.Context, cfg Config) ([]corpus.Document, error) {
	if cfg.Sample {
		return corpus.Sample(), nil
	}

	docs, err := corpus.Load(ctx, sources(cfg), cfg.Corpus)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents loaded")
	}
	return docs, nil
}

// loadRecords returns raw record lines for the map/reduce harness. Whole-file
// documents are rendered as records with the source as article id, split
// into sections when cfg.SectionSize is set. Sparse runs number whole-file
// documents from 1 instead and return the source of each number.
func loadRecords(ctx context.Context, cfg Config) ([]string, map[int]string, error) {
	if cfg.Sample || cfg.Corpus.WholeFile {
		docs, err := loadDocuments(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}

		var articles map[int]string
		if !cfg.Sample {
			docs, articles, err = articleIDs(docs, cfg.Variant)
			if err != nil {
				return nil, nil, err
			}
		}

		if cfg.SectionSize <= 0 || cfg.Sample {
			return corpus.Records(docs), articles, nil
		}

		var records []string
		for _, doc := range docs {
			records = append(records, section.Records(doc.ID, doc.Text, section.Options{
				MaxBytes:        cfg.SectionSize,
				KeepBoilerplate: cfg.Corpus.IncludeAll,
			})...)
		}
		slog.Debug("Split documents into section records", "documents", len(docs), "records", len(records))
		if len(records) == 0 {
			return nil, nil, fmt.Errorf("no records loaded")
		}
		return records, articles, nil
	}

	lines, err := corpus.Lines(ctx, sources(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load records: %w", err)
	}
	if len(lines) == 0 {
		return nil, nil, fmt.Errorf("no records loaded")
	}
	return lines, nil, nil
}

// articleIDs makes whole-file document ids safe to use as record article ids.
// The sparse variant needs integer ids, so documents are numbered from 1.
// Other variants keep the source name, which must not contain a comma.
func articleIDs(docs []corpus.Document, variant mapreduce.Variant) ([]corpus.Document, map[int]string, error) {
	if variant == mapreduce.Sparse {
		numbered := make([]corpus.Document, len(docs))
		articles := make(map[int]string, len(docs))
		for i, doc := range docs {
			numbered[i] = corpus.Document{ID: strconv.Itoa(i + 1), Text: doc.Text}
			articles[i+1] = doc.ID
			slog.Debug("Numbered article", "article", i+1, "source", doc.ID)
		}
		return numbered, articles, nil
	}

	for _, doc := range docs {
		if strings.Contains(doc.ID, ",") {
			return nil, nil, fmt.Errorf("%w: %q (rename it or use --variant sparse)", ErrSourceID, doc.ID)
		}
	}
	return docs, nil, nil
}

// sources falls back to stdin when no source was given
func sources(cfg Config) []string {
	if len(cfg.Sources) == 0 {
		return []string{"-"}
	}
	return cfg.Sources
}

func buildCorpus(docs []corpus.Document, cfg Config) (*tfidf.Corpus, error) {
	ids := make([]string, len(docs))
	texts := make([]string, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
		texts[i] = doc.Text
		if cfg.Stem {
			texts[i] = stemText(doc.Text, cfg.Language)
		}
	}

	c, err := tfidf.NewCorpus(ids, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to compute TF/IDF: %w", err)
	}
	return c, nil
}

// stemText stems each whitespace-separated field of text
func stemText(text, lang string) string {
	if lang == "" {
		lang = tokenize.DefaultLanguage
	}
	stemmed := slices.Collect(tokenize.Stem(slices.Values(tokenize.Fields(text)), lang))
	return strings.Join(stemmed, " ")
}

// annotate collects the optional size and language of each document
func annotate(docs []corpus.Document, cfg Config) (map[string]report.Annotation, error) {
	if !cfg.CountUnits && !cfg.DetectLanguage {
		return nil, nil
	}

	var unitCounter counter.Counter
	if cfg.CountUnits {
		var err error
		unitCounter, err = counter.NewCounter(cfg.CountingMethod)
		if err != nil {
			return nil, fmt.Errorf("failed to create counter: %w", err)
		}
	}

	var detector *language.Detector
	if cfg.DetectLanguage {
		detector = language.NewDetector()
	}

	notes := make(map[string]report.Annotation, len(docs))
	for _, doc := range docs {
		var note report.Annotation
		if unitCounter != nil {
			note.Size = unitCounter.Count(doc.Text)
			note.Unit = unitCounter.Name()
		}
		if detector != nil {
			note.Language = detector.Detect(doc.Text)
		}
		notes[doc.ID] = note
	}
	return notes, nil
}

// persist opens the database at path, runs save and closes it again
func persist(path string, save func(db *store.DB) (int64, error)) error {
	db, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	runID, err := save(db)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	slog.Debug("Run saved", "path", path, "runID", runID)
	return nil
}

func render(r report.Report, format report.Format) (string, error) {
	var buf bytes.Buffer
	if err := report.Write(&buf, r, format); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf.String(), nil
}
