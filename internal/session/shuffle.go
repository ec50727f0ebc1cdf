package session

import "math/rand"

// Shuffle returns a permuted copy of items. The same seed always yields the
// same order; items itself is left untouched.
func Shuffle[T any](items []T, seed int64) []T {
	out := append([]T(nil), items...)
	rnd := rand.New(rand.NewSource(seed))
	rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
