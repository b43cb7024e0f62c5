package quiz

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShuffle(t *testing.T) {
	t.Run("keeps every element", func(t *testing.T) {
		r := rand.New(rand.NewSource(42))
		s := []int{1, 2, 3, 4, 5, 6, 7, 8, 9}
		Shuffle(r, s)

		sorted := append([]int{}, s...)
		sort.Ints(sorted)
		assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, sorted)
	})

	t.Run("empty and single element slices", func(t *testing.T) {
		r := rand.New(rand.NewSource(1))
		var empty []string
		Shuffle(r, empty)
		assert.Empty(t, empty)

		single := []string{"a"}
		Shuffle(r, single)
		assert.Equal(t, []string{"a"}, single)
	})

	t.Run("every position is reachable", func(t *testing.T) {
		r := rand.New(rand.NewSource(7))
		firstPositions := make(map[int]int)
		for i := 0; i < 4000; i++ {
			s := []int{0, 1, 2, 3}
			Shuffle(r, s)
			firstPositions[s[0]]++
		}
		for v := 0; v < 4; v++ {
			assert.InDelta(t, 1000, firstPositions[v], 150, "value %d at position 0", v)
		}
	})
}
