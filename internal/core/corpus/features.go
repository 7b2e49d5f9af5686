package corpus

import (
	"encoding/json"
	"fmt"
	"math/bits"
)

// FeatureCount is the width of every phonetic feature vector
const FeatureCount = 12

// VectorSpace is the number of distinct feature vectors (2^FeatureCount)
const VectorSpace = 1 << FeatureCount

// FeatureNames lists the features in canonical bit order
// 3 onset, 4 internal, 2 nucleus, 3 coda
var FeatureNames = [FeatureCount]string{
	"starts_with_vowel",
	"starts_with_cluster",
	"starts_with_heavy_cluster",
	"contains_plosive",
	"contains_fricative",
	"contains_liquid",
	"contains_nasal",
	"short_vowel",
	"long_vowel",
	"ends_with_vowel",
	"ends_with_nasal",
	"ends_with_stop",
}

var featureIndex = func() map[string]int {
	m := make(map[string]int, FeatureCount)
	for i, n := range FeatureNames {
		m[n] = i
	}
	return m
}()

// FeatureIndex returns the bit position for a canonical feature name
func FeatureIndex(name string) (int, bool) {
	i, ok := featureIndex[name]
	return i, ok
}

// Features is a 12 bit feature vector, bit i set when FeatureNames[i] holds
type Features uint16

// FeaturesFromBools packs an ordered boolean vector
// callers validate the length, extra entries are ignored
func FeaturesFromBools(b []bool) Features {
	var f Features
	for i := 0; i < len(b) && i < FeatureCount; i++ {
		if b[i] {
			f |= 1 << i
		}
	}
	return f
}

// Has reports whether feature i is set
func (f Features) Has(i int) bool { return f&(1<<i) != 0 }

// Bools unpacks the vector into canonical order
func (f Features) Bools() []bool {
	out := make([]bool, FeatureCount)
	for i := range out {
		out[i] = f.Has(i)
	}
	return out
}

// Distance is the Hamming distance between two vectors
func (f Features) Distance(g Features) int { return bits.OnesCount16(uint16(f ^ g)) }

// String renders the vector as 12 binary digits, feature 0 first
func (f Features) String() string {
	b := make([]byte, FeatureCount)
	for i := range b {
		b[i] = '0'
		if f.Has(i) {
			b[i] = '1'
		}
	}
	return string(b)
}

// MarshalJSON writes the ordered boolean array form
func (f Features) MarshalJSON() ([]byte, error) { return json.Marshal(f.Bools()) }

// FeatureList decodes either wire form of a feature vector
// an ordered array of booleans, or an object keyed by canonical feature name
type FeatureList []bool

// UnmarshalJSON accepts both forms, the object form must name every feature exactly once
func (l *FeatureList) UnmarshalJSON(b []byte) error {
	var arr []bool
	if err := json.Unmarshal(b, &arr); err == nil {
		*l = arr
		return nil
	}
	var obj map[string]bool
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("features must be an array of booleans or an object of named booleans")
	}
	out := make([]bool, FeatureCount)
	for name, v := range obj {
		i, ok := FeatureIndex(name)
		if !ok {
			return fmt.Errorf("unknown feature %q", name)
		}
		out[i] = v
	}
	if len(obj) != FeatureCount {
		return fmt.Errorf("features object has %d entries, want %d", len(obj), FeatureCount)
	}
	*l = out
	return nil
}
