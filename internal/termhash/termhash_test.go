package termhash

import (
	"errors"
	"testing"
)

func TestGenerate(t *testing.T) {
	// expected buckets are int(sha256(word).hexdigest(), 16) % hashRange
	tests := []struct {
		word      string
		hashRange int
		want      int
	}{
		{"the", 1000, 288},
		{"population", 1000, 457},
		{"moscow", 1000, 38},
		{"i", 1000, 239},
		{"a", 1000, 499},
		{"the", 7, 6},
		{"population", 7, 5},
		{"i", 7, 0},
		{"anything", 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got, err := Generate(tt.word, tt.hashRange)
			if err != nil {
				t.Fatalf("Generate(%q, %d) unexpected error: %v", tt.word, tt.hashRange, err)
			}
			if got != tt.want {
				t.Errorf("Generate(%q, %d) = %d, want %d", tt.word, tt.hashRange, got, tt.want)
			}
		})
	}
}

func TestGenerateDeterministicAndInRange(t *testing.T) {
	words := []string{"", "the", "population", "café", "test_123", "a much longer token than usual"}
	ranges := []int{1, 2, 13, DefaultRange, 1 << 20}

	for _, hashRange := range ranges {
		for _, word := range words {
			first, err := Generate(word, hashRange)
			if err != nil {
				t.Fatalf("Generate(%q, %d) unexpected error: %v", word, hashRange, err)
			}
			for i := 0; i < 3; i++ {
				again, _ := Generate(word, hashRange)
				if again != first {
					t.Errorf("Generate(%q, %d) not deterministic: %d then %d", word, hashRange, first, again)
				}
			}
			if first < 0 || first >= hashRange {
				t.Errorf("Generate(%q, %d) = %d, outside [0, %d)", word, hashRange, first, hashRange)
			}
		}
	}
}

func TestGenerateInvalidRange(t *testing.T) {
	for _, hashRange := range []int{0, -1, -1000} {
		_, err := Generate("the", hashRange)
		if !errors.Is(err, ErrInvalidRange) {
			t.Errorf("Generate(%q, %d) error = %v, want ErrInvalidRange", "the", hashRange, err)
		}
	}
}
