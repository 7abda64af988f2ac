package report

import (
	"io"
	"time"
)

// RunSummary describes one stored run.
type RunSummary struct {
	RunID     int64     `json:"run_id" yaml:"run_id"`
	Mode      string    `json:"mode" yaml:"mode"`
	Variant   string    `json:"variant,omitempty" yaml:"variant,omitempty"`
	HashRange int       `json:"hash_range,omitempty" yaml:"hash_range,omitempty"`
	Documents int       `json:"documents" yaml:"documents"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// History lists stored runs. When a single run is shown, its stored IDF
// (batch) or pairs (map/reduce) are included.
type History struct {
	Runs      []RunSummary `json:"runs" yaml:"runs"`
	IDF       []TermWeight `json:"inverse_document_frequencies,omitempty" yaml:"inverse_document_frequencies,omitempty"`
	Emissions []Emission   `json:"emissions,omitempty" yaml:"emissions,omitempty"`
}

// WriteText writes one line per run followed by any stored results.
func (h *History) WriteText(w io.Writer) error {
	ew := &errWriter{w: w}

	if len(h.Runs) == 0 {
		ew.printf("No stored runs\n")
		return ew.err
	}

	for _, run := range h.Runs {
		ew.printf("Run %d: %s", run.RunID, run.Mode)
		switch {
		case run.Variant != "" && run.HashRange > 0:
			ew.printf(" (%s, range %d)", run.Variant, run.HashRange)
		case run.Variant != "":
			ew.printf(" (%s)", run.Variant)
		}
		ew.printf(", %d documents, %s\n", run.Documents, run.CreatedAt.Format(time.DateTime))
	}

	if len(h.IDF) > 0 {
		ew.printf("\nInverse Document Frequency (IDF):\n%s\n", formatTerms(h.IDF))
	}

	if len(h.Emissions) > 0 {
		ew.printf("\n")
		if ew.err != nil {
			return ew.err
		}
		return (&MapReduce{Emissions: h.Emissions}).WriteText(w)
	}

	return ew.err
}
