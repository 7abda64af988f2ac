// Package language tags documents with their natural language for reports.
package language

import (
	"log/slog"
	"strings"

	"github.com/pemistahl/lingua-go"
)

// defaultLanguages keeps the detector's model footprint small; most corpora
// fed to the tool are in one of these.
var defaultLanguages = []lingua.Language{
	lingua.English,
	lingua.French,
	lingua.German,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Russian,
	lingua.Spanish,
}

// Unknown is reported when no language can be determined.
const Unknown = "unknown"

// Detector guesses the language of a text.
type Detector struct {
	detector lingua.LanguageDetector
}

// NewDetector builds a detector over the default language set.
func NewDetector() *Detector {
	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(defaultLanguages...).
			Build(),
	}
}

// Detect returns the language name of text, or Unknown.
func (d *Detector) Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return Unknown
	}

	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		slog.Debug("Language not detected", "textLength", len(text))
		return Unknown
	}
	return strings.ToLower(lang.String())
}
