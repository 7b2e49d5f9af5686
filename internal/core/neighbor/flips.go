package neighbor

import (
	"math/bits"

	"sylwalk/internal/core/corpus"
)

// MinDistance and MaxDistance bound the supported max_neighbor_distance
const (
	MinDistance = 1
	MaxDistance = 3
)

// flipMasks[k] holds every 12 bit mask with exactly k bits set, ascending
// C(12,1)+C(12,2)+C(12,3) = 12+66+220 = 298
var flipMasks = func() [MaxDistance + 1][]corpus.Features {
	var out [MaxDistance + 1][]corpus.Features
	for m := 1; m < corpus.VectorSpace; m++ {
		k := bits.OnesCount16(uint16(m))
		if k <= MaxDistance {
			out[k] = append(out[k], corpus.Features(m))
		}
	}
	return out
}()

// RelatedCount returns how many vectors lie within d flips of any vector, excluding itself
func RelatedCount(d int) int {
	n := 0
	for k := 1; k <= d && k <= MaxDistance; k++ {
		n += len(flipMasks[k])
	}
	return n
}
