package counter

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter counts tokens with the cl100k_base encoding.
type TokenCounter struct {
	encoding *tiktoken.Tiktoken
	mu       sync.Mutex // the encoder is not documented as safe for concurrent use
}

// NewTokenCounter loads the cl100k_base encoding.
func NewTokenCounter() (Counter, error) {
	slog.Debug("Initializing TokenCounter with cl100k_base encoding")

	encoding, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cl100k_base encoding: %w", err)
	}

	return &TokenCounter{encoding: encoding}, nil
}

// Count returns the number of tokens in text. Safe for concurrent use.
func (tc *TokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}

	tc.mu.Lock()
	defer tc.mu.Unlock()

	// nil params: no special tokens allowed or disallowed
	return len(tc.encoding.Encode(text, nil, nil))
}

// Name returns "tokens".
func (tc *TokenCounter) Name() string {
	return "tokens"
}
