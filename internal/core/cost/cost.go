// Package cost scores a move from one syllable to another under a profile
package cost

import (
	"math"
	"math/bits"

	"sylwalk/internal/core/corpus"
	"sylwalk/internal/core/profile"
)

// Epsilon keeps log(frequency) finite
const Epsilon = 1e-10

// Model is a pure cost function over one corpus
// log frequencies are computed once at construction
type Model struct {
	corpus  *corpus.Corpus
	logFreq []float64
}

// New precomputes log(frequency + Epsilon) for every syllable
func New(c *corpus.Corpus) *Model {
	lf := make([]float64, c.Len())
	for i := range lf {
		lf[i] = math.Log(float64(c.Frequency(i)) + Epsilon)
	}
	return &Model{corpus: c, logFreq: lf}
}

// Corpus returns the corpus the model scores
func (m *Model) Corpus() *corpus.Corpus { return m.corpus }

// Hamming sums the feature costs of the bits where a and b differ
func Hamming(a, b corpus.Features, costs *[corpus.FeatureCount]float64) float64 {
	var sum float64
	for x := uint16(a ^ b); x != 0; x &= x - 1 {
		sum += costs[bits.TrailingZeros16(x)]
	}
	return sum
}

// Cost scores moving from current to candidate
//
//	hamming   sum of feature_costs over differing bits
//	frequency -frequency_weight * log(freq + eps), positive weights favor common syllables
//	stay      inertia_bias, only when candidate == current
//
// lower is more likely once passed through the softmax
func (m *Model) Cost(current, candidate int, p *profile.Profile) float64 {
	total := Hamming(m.corpus.Vector(current), m.corpus.Vector(candidate), &p.FeatureCosts)
	if p.FrequencyWeight != 0 {
		total -= p.FrequencyWeight * m.logFreq[candidate]
	}
	if candidate == current {
		total += p.InertiaBias
	}
	return total
}
