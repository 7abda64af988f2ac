package section

import (
	"log/slog"
	"strings"
)

// Options controls how a document becomes records.
type Options struct {
	MaxBytes        int  // section size limit; <= 0 uses DefaultMaxBytes
	KeepBoilerplate bool // keep sections IsBoilerplate would drop
}

// Records renders text as "<id>,<section>" records, one per section, with
// each section's whitespace collapsed so it fits on one line.
func Records(id, text string, opts Options) []string {
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	sections := Split(text, maxBytes)
	records := make([]string, 0, len(sections))
	for i, s := range sections {
		if !opts.KeepBoilerplate && IsBoilerplate(s, i, len(sections)) {
			slog.Debug("Dropping boilerplate section", "id", id, "index", i)
			continue
		}
		records = append(records, id+","+strings.Join(strings.Fields(s), " "))
	}
	return records
}
