package quiz

import "math/rand"

// Shuffle permutes s in place with the Fisher–Yates algorithm, walking from the
// last index down to 1 and swapping with a uniformly chosen index in [0, i].
func Shuffle[T any](r *rand.Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
