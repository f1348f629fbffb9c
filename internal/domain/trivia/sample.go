package trivia

import (
	"math/rand/v2"
)

// Sample returns up to n items chosen uniformly at random, in random order.
// It runs a partial Fisher-Yates shuffle on a copy, so items is left untouched.
// A nil rng uses the package-level source. n <= 0 yields an empty slice.
func Sample[T any](items []T, n int, rng *rand.Rand) []T {
	if n <= 0 || len(items) == 0 {
		return []T{}
	}
	if n > len(items) {
		n = len(items)
	}
	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}

	pool := make([]T, len(items))
	copy(pool, items)
	for i := 0; i < n; i++ {
		j := i + intN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n:n]
}
