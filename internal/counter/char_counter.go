package counter

import "unicode/utf8"

// CharCounter counts Unicode code points, not bytes.
type CharCounter struct{}

// NewCharCounter creates a new CharCounter instance.
func NewCharCounter() Counter {
	return &CharCounter{}
}

// Count returns the number of runes in text.
func (cc *CharCounter) Count(text string) int {
	return utf8.RuneCountInString(text)
}

// Name returns "characters".
func (cc *CharCounter) Name() string {
	return "characters"
}
