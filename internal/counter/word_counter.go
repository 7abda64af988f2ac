package counter

import (
	"github.com/chriscorrea/termweight/internal/tokenize"
)

// WordCounter counts the fields the batch pipeline splits a document into.
type WordCounter struct{}

// NewWordCounter creates a new WordCounter instance.
func NewWordCounter() Counter {
	return &WordCounter{}
}

// Count returns the number of whitespace-separated fields in text.
func (wc *WordCounter) Count(text string) int {
	return len(tokenize.Fields(text))
}

// Name returns "words".
func (wc *WordCounter) Name() string {
	return "words"
}
