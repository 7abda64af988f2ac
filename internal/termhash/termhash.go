// Package termhash maps terms into a fixed-size range of integer buckets
// (the hashing trick).
//
// Buckets are derived from the SHA-256 digest of the UTF-8 encoded term, so they
// are stable across runs, processes and machines. That stability is what lets
// independent mappers agree on a shuffle key. Distinct terms may share a bucket;
// collisions are not resolved.
package termhash

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"
)

// DefaultRange is the bucket count used by the hashed map/reduce variants.
const DefaultRange = 1000

// ErrInvalidRange is returned when the requested range is not positive.
var ErrInvalidRange = errors.New("hash range must be positive")

// Generate returns the bucket id of word within [0, hashRange).
// The full 256-bit digest is reduced, not a truncated prefix of it.
func Generate(word string, hashRange int) (int, error) {
	if hashRange <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidRange, hashRange)
	}

	digest := sha256.Sum256([]byte(word))
	value := new(big.Int).SetBytes(digest[:])
	bucket := value.Mod(value, big.NewInt(int64(hashRange)))

	return int(bucket.Int64()), nil
}
