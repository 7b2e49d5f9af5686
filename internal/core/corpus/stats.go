package corpus

import (
	"math"
	"slices"
)

// FrequencyStats describes how occurrences are spread across the corpus
type FrequencyStats struct {
	TotalOccurrences int64    `json:"total_occurrences"`
	Min              int      `json:"min"`
	Max              int      `json:"max"`
	Mean             float64  `json:"mean"`
	Median           float64  `json:"median"`
	StdDev           float64  `json:"std_dev"`
	Distinct         int      `json:"distinct"`
	Hapax            int      `json:"hapax"`
	Top              []Ranked `json:"top"`
	Bottom           []Ranked `json:"bottom"`
}

// Ranked pairs a syllable with its frequency
type Ranked struct {
	Syllable  string `json:"syllable"`
	Frequency int    `json:"frequency"`
}

// Saturation is the share of the corpus carrying one feature
type Saturation struct {
	Feature    string  `json:"feature"`
	True       int     `json:"true"`
	False      int     `json:"false"`
	Percentage float64 `json:"percentage"`
}

// Stats summarizes the corpus
type Stats struct {
	Syllables      int            `json:"syllables"`
	DistinctVector int            `json:"distinct_vectors"`
	Frequency      FrequencyStats `json:"frequency"`
	Features       []Saturation   `json:"features"`
}

const rankedLimit = 10

// Stats computes corpus summary metrics, O(n log n)
func (c *Corpus) Stats() Stats {
	n := len(c.records)
	st := Stats{Syllables: n}
	if n == 0 {
		return st
	}

	freqs := make([]int, n)
	seen := make(map[int]struct{})
	var vecs [VectorSpace]bool
	var counts [FeatureCount]int
	var sum int64
	for i, r := range c.records {
		freqs[i] = r.Frequency
		sum += int64(r.Frequency)
		seen[r.Frequency] = struct{}{}
		if r.Frequency == 1 {
			st.Frequency.Hapax++
		}
		if !vecs[r.Features] {
			vecs[r.Features] = true
			st.DistinctVector++
		}
		for b := 0; b < FeatureCount; b++ {
			if r.Features.Has(b) {
				counts[b]++
			}
		}
	}

	sorted := slices.Clone(freqs)
	slices.Sort(sorted)
	mean := float64(sum) / float64(n)
	var sq float64
	for _, f := range freqs {
		d := float64(f) - mean
		sq += d * d
	}
	std := 0.0
	if n >= 2 {
		std = math.Sqrt(sq / float64(n-1))
	}

	st.Frequency.TotalOccurrences = sum
	st.Frequency.Min = sorted[0]
	st.Frequency.Max = sorted[n-1]
	st.Frequency.Mean = mean
	st.Frequency.Median = median(sorted)
	st.Frequency.StdDev = std
	st.Frequency.Distinct = len(seen)

	// rank by frequency desc, index asc on ties
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int { return freqs[b] - freqs[a] })
	for _, i := range order[:min(rankedLimit, n)] {
		st.Frequency.Top = append(st.Frequency.Top, Ranked{Syllable: c.records[i].Text, Frequency: freqs[i]})
	}
	for k := n - 1; k >= 0 && k >= n-rankedLimit; k-- {
		i := order[k]
		st.Frequency.Bottom = append(st.Frequency.Bottom, Ranked{Syllable: c.records[i].Text, Frequency: freqs[i]})
	}

	st.Features = make([]Saturation, FeatureCount)
	for b, name := range FeatureNames {
		st.Features[b] = Saturation{
			Feature:    name,
			True:       counts[b],
			False:      n - counts[b],
			Percentage: float64(counts[b]) / float64(n) * 100,
		}
	}
	return st
}

func median(sorted []int) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}
