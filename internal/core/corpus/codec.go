package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"sylwalk/internal/core/errs"
)

// DecodeJSON reads the annotated corpus wire form, a JSON array of
// {syllable, frequency, features} objects
// a record that does not decode becomes a ValidationError at its index
func DecodeJSON(r io.Reader) ([]RawRecord, error) {
	var items []json.RawMessage
	dec := json.NewDecoder(r)
	if err := dec.Decode(&items); err != nil {
		return nil, &errs.ValidationError{Index: 0, Reason: fmt.Sprintf("corpus is not a JSON array: %v", err)}
	}
	out := make([]RawRecord, 0, len(items))
	for i, raw := range items {
		var rec RawRecord
		rd := json.NewDecoder(bytes.NewReader(raw))
		rd.DisallowUnknownFields()
		if err := rd.Decode(&rec); err != nil {
			return nil, &errs.ValidationError{Index: i, Reason: err.Error()}
		}
		out = append(out, rec)
	}
	return out, nil
}

// EncodeJSON writes the corpus back in the array wire form, index order
func EncodeJSON(w io.Writer, c *Corpus) error {
	out := make([]RawRecord, c.Len())
	for i, r := range c.records {
		out[i] = RawRecord{Syllable: r.Text, Frequency: r.Frequency, Features: r.Features.Bools()}
	}
	enc := json.NewEncoder(w)
	return enc.Encode(out)
}
