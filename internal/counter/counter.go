// Package counter measures document size for reports.
//
// Three measures are available: words (whitespace fields), characters (runes)
// and tokens (tiktoken cl100k_base). They describe a document; they play no
// part in any TF/IDF weight.
package counter

import "fmt"

// Counter measures text in one unit.
type Counter interface {
	// Count returns the number of units in text.
	Count(text string) int

	// Name returns the unit name used in reports and logs.
	Name() string
}

// CountingMethod selects a Counter.
type CountingMethod int

const (
	// Words counts whitespace-separated fields (default)
	Words CountingMethod = iota
	// Characters counts Unicode code points
	Characters
	// Tokens counts cl100k_base tokens
	Tokens
)

// String returns the flag spelling of the counting method.
func (cm CountingMethod) String() string {
	switch cm {
	case Words:
		return "words"
	case Characters:
		return "characters"
	case Tokens:
		return "tokens"
	default:
		return "unknown"
	}
}

// ParseCountingMethod is the inverse of CountingMethod.String.
func ParseCountingMethod(name string) (CountingMethod, error) {
	switch name {
	case "words":
		return Words, nil
	case "characters":
		return Characters, nil
	case "tokens":
		return Tokens, nil
	default:
		return 0, fmt.Errorf("unknown counting method %q (want words, characters or tokens)", name)
	}
}

// NewCounter returns the Counter for method. Only the token counter can fail,
// when its encoding cannot be loaded.
func NewCounter(method CountingMethod) (Counter, error) {
	switch method {
	case Characters:
		return NewCharCounter(), nil
	case Tokens:
		return NewTokenCounter()
	default:
		return NewWordCounter(), nil
	}
}
