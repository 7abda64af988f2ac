package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"

	"github.com/chriscorrea/termweight/internal/app"
	"github.com/chriscorrea/termweight/internal/corpus"
	"github.com/chriscorrea/termweight/internal/counter"
	"github.com/chriscorrea/termweight/internal/mapreduce"
	"github.com/chriscorrea/termweight/internal/report"
	"github.com/chriscorrea/termweight/internal/termhash"
	"github.com/chriscorrea/termweight/internal/tokenize"

	"github.com/spf13/cobra"
)

// buildConfig constructs an app.Config from command flags and arguments
func buildConfig(cmd *cobra.Command, args []string) (app.Config, error) {
	// get flag values
	sample, _ := cmd.Flags().GetBool("sample")
	wholeFile, _ := cmd.Flags().GetBool("whole-file")
	html, _ := cmd.Flags().GetBool("html")
	selector, _ := cmd.Flags().GetString("selector")
	includeAll, _ := cmd.Flags().GetBool("include-all")
	textFlag, _ := cmd.Flags().GetBool("text")
	jsonFlag, _ := cmd.Flags().GetBool("json")
	yamlFlag, _ := cmd.Flags().GetBool("yaml")
	count, _ := cmd.Flags().GetString("count")
	detectLanguage, _ := cmd.Flags().GetBool("detect-language")
	dbPath, _ := cmd.Flags().GetString("db")
	stem, _ := cmd.Flags().GetBool("stem")
	stemLanguage, _ := cmd.Flags().GetString("stem-language")
	quiet, _ := cmd.Flags().GetBool("quiet")
	debug, _ := cmd.Flags().GetBool("debug")

	// map/reduce and search flags only exist on their subcommands
	variantName, _ := cmd.Flags().GetString("variant")
	hashRange, _ := cmd.Flags().GetInt("hash-range")
	strict, _ := cmd.Flags().GetBool("strict")
	workers, _ := cmd.Flags().GetInt("workers")
	sectionSize, _ := cmd.Flags().GetInt("section-size")
	rankName, _ := cmd.Flags().GetString("rank")
	top, _ := cmd.Flags().GetInt("top")

	// determine output format
	var outputFormat report.Format
	switch {
	case jsonFlag:
		outputFormat = report.JSON
	case yamlFlag:
		outputFormat = report.YAML
	case textFlag:
		outputFormat = report.Text
	default:
		outputFormat = report.Text // default if no format flag
	}

	// size annotation is off unless --count names a unit
	var countingMethod counter.CountingMethod
	if count != "" {
		var err error
		countingMethod, err = counter.ParseCountingMethod(count)
		if err != nil {
			return app.Config{}, err
		}
	}

	variant := mapreduce.Plain
	if variantName != "" {
		var err error
		variant, err = mapreduce.ParseVariant(variantName)
		if err != nil {
			return app.Config{}, err
		}
	}

	ranker := app.TFIDF
	if rankName != "" {
		var err error
		ranker, err = app.ParseRanker(rankName)
		if err != nil {
			return app.Config{}, err
		}
	}

	// search takes the query as its first argument
	var query string
	if cmd.Name() == "search" {
		if len(args) == 0 {
			return app.Config{}, fmt.Errorf("search requires a query")
		}
		query, args = args[0], args[1:]
	}

	// runs takes an optional run id and reads no sources
	var runID int64
	if cmd.Name() == "runs" {
		if len(args) > 0 {
			var err error
			runID, err = strconv.ParseInt(args[0], 10, 64)
			if err != nil || runID <= 0 {
				return app.Config{}, fmt.Errorf("invalid run id %q", args[0])
			}
		}
		args = nil
	}

	// remaining positional arguments are sources; none means stdin
	sources := args
	if len(sources) == 0 && !sample {
		sources = []string{"-"}
	}

	return app.Config{
		Sources: sources,
		Sample:  sample,
		Corpus: corpus.Options{
			WholeFile:  wholeFile || html,
			HTML:       html,
			Selector:   selector,
			IncludeAll: includeAll,
		},
		OutputFormat:   outputFormat,
		CountUnits:     count != "",
		CountingMethod: countingMethod,
		DetectLanguage: detectLanguage,
		DBPath:         dbPath,
		Variant:        variant,
		HashRange:      hashRange,
		Strict:         strict,
		Workers:        workers,
		SectionSize:    sectionSize,
		Stem:           stem,
		Language:       stemLanguage,
		Query:          query,
		Ranker:         ranker,
		Top:            top,
		RunID:          runID,
		Quiet:          quiet,
		Debug:          debug,
	}, nil
}

// setupLogger configures the default slog logger based on debug mode
func setupLogger(debug bool) {
	var level slog.Level
	if debug {
		level = slog.LevelDebug
	} else {
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// writeOutput prints result or writes it to path when one is given
func writeOutput(path, result string) error {
	if path == "" {
		fmt.Print(result)
		return nil
	}
	if err := os.WriteFile(path, []byte(result), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// runWith adapts an app entry point into a cobra RunE
func runWith(run func(context.Context, app.Config) (string, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		// build config from flags and arguments
		config, err := buildConfig(cmd, args)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		// configure logging pending debug flag
		setupLogger(config.Debug)

		// create context with signal handling for graceful shutdown
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		result, err := run(ctx, config)
		if err != nil {
			return fmt.Errorf("%s failed: %w", cmd.Name(), err)
		}

		output, _ := cmd.Flags().GetString("output")
		return writeOutput(output, result)
	}
}

var rootCmd = &cobra.Command{
	Use:   "termweight",
	Short: "TF/IDF term weighting for small corpora",
	Long: `Termweight computes TF/IDF term weights for a corpus, either as a batch
report or as an in-process map/reduce job, and ranks documents against a query.

Sources may be files, directories, URLs or standard input. By default each
line is a record of the form "<article_id>,<text>".

Examples:
  termweight batch --sample
  termweight mapreduce --variant hashed --hash-range 1000 articles.csv
  termweight search "population" --sample
  cat articles.csv | termweight mapreduce --json
  termweight runs --db runs.db 2`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var batchCmd = &cobra.Command{
	Use:   "batch [sources...]",
	Short: "Report TF, IDF, sparse vectors and TF/IDF weights",
	RunE:  runWith(app.RunBatch),
}

var mapreduceCmd = &cobra.Command{
	Use:   "mapreduce [sources...]",
	Short: "Compute TF/IDF weights with a map/reduce job",
	RunE:  runWith(app.RunMapReduce),
}

var searchCmd = &cobra.Command{
	Use:   "search QUERY [sources...]",
	Short: "Rank documents against a query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWith(app.RunSearch),
}

var runsCmd = &cobra.Command{
	Use:   "runs [RUN_ID]",
	Short: "List runs saved with --db, or show the stored results of one run",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWith(app.RunHistory),
}

func init() {
	flags := rootCmd.PersistentFlags()

	// input flags
	flags.Bool("sample", false, "Use the built-in sample corpus")
	flags.BoolP("whole-file", "w", false, "Treat each source as one document instead of one record per line")
	flags.Bool("html", false, "Convert HTML sources to text (implies --whole-file)")
	flags.StringP("selector", "s", "", "CSS selector for HTML content extraction")
	flags.BoolP("include-all", "i", false, "Include all content without readability or boilerplate filtering")

	// output format flags are mutually exclusive
	flags.StringP("output", "o", "", "Write the report to a file instead of stdout")
	flags.Bool("text", false, "Output as a text report (default)")
	flags.Bool("json", false, "Output in JSON format")
	flags.Bool("yaml", false, "Output in YAML format")
	rootCmd.MarkFlagsMutuallyExclusive("text", "json", "yaml")

	// annotation and persistence
	flags.String("count", "", "Annotate documents with their size in words, characters or tokens")
	flags.Bool("detect-language", false, "Annotate documents with their detected language")
	flags.String("db", "", "SQLite database to save results to, or to read with runs")

	// tokenization
	flags.Bool("stem", false, "Stem terms before weighting")
	flags.String("stem-language", tokenize.DefaultLanguage, "Snowball stemmer language")

	// other flags
	flags.BoolP("quiet", "q", false, "Suppress progress output")
	flags.BoolP("debug", "D", false, "Enable debug logging")
	_ = flags.MarkHidden("debug")

	mapreduceCmd.Flags().String("variant", mapreduce.Plain.String(), "Job variant: plain, hashed or sparse")
	mapreduceCmd.Flags().Int("hash-range", termhash.DefaultRange, "Bucket count for the hashed variants")
	mapreduceCmd.Flags().Bool("strict", false, "Count each article once per key when computing the IDF")
	mapreduceCmd.Flags().Int("workers", 0, "Worker pool size (default: GOMAXPROCS)")
	mapreduceCmd.Flags().Int("section-size", 0, "Split whole-file documents into section records of at most this many bytes")

	searchCmd.Flags().String("rank", app.TFIDF.String(), "Ranking function: tfidf or bm25")
	searchCmd.Flags().Int("top", 10, "Maximum number of results (0 for all)")

	rootCmd.AddCommand(batchCmd, mapreduceCmd, searchCmd, runsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
