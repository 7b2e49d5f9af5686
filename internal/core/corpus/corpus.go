// Package corpus holds the immutable syllable corpus the walk engine explores
package corpus

import (
	"strconv"
	"strings"

	"sylwalk/internal/core/errs"

	"golang.org/x/text/unicode/norm"
)

// RawRecord is one input row before validation
// syllable + frequency + 12 features, the 14 field shape of the annotator output
type RawRecord struct {
	Syllable  string      `json:"syllable"`
	Frequency int         `json:"frequency"`
	Features  FeatureList `json:"features"`
}

// SyllableRecord is a validated corpus entry
type SyllableRecord struct {
	Index     int      `json:"index"`
	Text      string   `json:"syllable"`
	Frequency int      `json:"frequency"`
	Features  Features `json:"features"`
}

// Corpus is built once and never mutated, share it freely across goroutines
type Corpus struct {
	records []SyllableRecord
	vectors []Features
	byText  map[string][]int
}

// Load validates raw records and assigns indices in input order
// the first malformed record aborts the load, no partial corpus is returned
func Load(raw []RawRecord) (*Corpus, error) {
	if len(raw) == 0 {
		return nil, &errs.ValidationError{Index: 0, Reason: "corpus has no records"}
	}
	c := &Corpus{
		records: make([]SyllableRecord, len(raw)),
		vectors: make([]Features, len(raw)),
		byText:  make(map[string][]int, len(raw)),
	}
	for i, r := range raw {
		if err := validate(i, r); err != nil {
			return nil, err
		}
		f := FeaturesFromBools(r.Features)
		c.records[i] = SyllableRecord{Index: i, Text: r.Syllable, Frequency: r.Frequency, Features: f}
		c.vectors[i] = f
		k := textKey(r.Syllable)
		c.byText[k] = append(c.byText[k], i)
	}
	return c, nil
}

func validate(i int, r RawRecord) error {
	switch {
	case strings.TrimSpace(r.Syllable) == "":
		return &errs.ValidationError{Index: i, Reason: "syllable text is empty"}
	case r.Frequency < 1:
		return &errs.ValidationError{Index: i, Record: r.Syllable, Reason: "frequency must be >= 1"}
	case len(r.Features) != FeatureCount:
		return &errs.ValidationError{
			Index:  i,
			Record: r.Syllable,
			Reason: "feature vector must have exactly 12 entries, got " + strconv.Itoa(len(r.Features)),
		}
	}
	return nil
}

// textKey folds the lookup key to NFC so composed and decomposed spellings agree
func textKey(s string) string { return norm.NFC.String(s) }

// Len returns the number of records
func (c *Corpus) Len() int { return len(c.records) }

// LookupByIndex returns the record at i
func (c *Corpus) LookupByIndex(i int) (SyllableRecord, error) {
	if i < 0 || i >= len(c.records) {
		return SyllableRecord{}, &errs.NotFoundError{Index: i}
	}
	return c.records[i], nil
}

// LookupByText returns the first record whose text matches s
// duplicates are kept as distinct entries, see IndicesByText
func (c *Corpus) LookupByText(s string) (SyllableRecord, error) {
	ix := c.byText[textKey(s)]
	if len(ix) == 0 {
		return SyllableRecord{}, &errs.NotFoundError{Syllable: s, Index: -1}
	}
	return c.records[ix[0]], nil
}

// IndicesByText returns every index sharing the text s, in load order
func (c *Corpus) IndicesByText(s string) []int {
	ix := c.byText[textKey(s)]
	return append([]int(nil), ix...)
}

// Text returns the syllable text at i, i must be in range
func (c *Corpus) Text(i int) string { return c.records[i].Text }

// Frequency returns the frequency at i, i must be in range
func (c *Corpus) Frequency(i int) int { return c.records[i].Frequency }

// Vector returns the feature vector at i, i must be in range
func (c *Corpus) Vector(i int) Features { return c.vectors[i] }

// Vectors returns the feature vectors in index order
// the slice is shared, callers must not modify it
func (c *Corpus) Vectors() []Features { return c.vectors }

// Random maps a uniform draw u in [0,1) onto an index
func (c *Corpus) Random(u float64) int {
	i := int(u * float64(len(c.records)))
	if i >= len(c.records) {
		i = len(c.records) - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
