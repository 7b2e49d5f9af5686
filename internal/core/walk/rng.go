package walk

// The generator is counter based: every draw is a pure function of the
// walk seed and a counter, so no generator state is carried between steps.
// Changing any constant here changes every walk ever produced.

const (
	golden    = 0x9E3779B97F4A7C15
	startSalt = 0xD1B54A32D192ED03
	batchSalt = 0xA0761D6478BD642F
	unit53    = 1.0 / (1 << 53)
)

// mix64 is the SplitMix64 finalizer
func mix64(z uint64) uint64 {
	z ^= z >> 30
	z *= 0xBF58476D1CE4E5B9
	z ^= z >> 27
	z *= 0x94D049BB133111EB
	z ^= z >> 31
	return z
}

func toUnit(k uint64) float64 { return float64(k>>11) * unit53 }

// StepUniform is the uniform draw in [0,1) for step number step of a walk seeded with seed
func StepUniform(seed int64, step int) float64 {
	return toUnit(mix64(uint64(seed) + golden*(uint64(step)+1)))
}

// StartUniform is the uniform draw used to pick a random start for seed
func StartUniform(seed int64) float64 {
	return toUnit(mix64(uint64(seed) ^ startSalt))
}

// DeriveSeed returns the seed of walk i in a batch seeded with base
func DeriveSeed(base int64, i int) int64 {
	return int64(mix64((uint64(base) + golden*(uint64(i)+1)) ^ batchSalt))
}
