package profile

import (
	"bytes"
	"encoding/json"

	"sylwalk/internal/core/corpus"
	"sylwalk/internal/core/errs"
)

// CustomName labels profiles built from an override object
const CustomName = "custom"

// Override carries explicit parameters, unset fields keep the base value
type Override struct {
	Steps           *int      `json:"steps,omitempty" yaml:"steps"`
	MaxFlips        *int      `json:"max_flips,omitempty" yaml:"max_flips"`
	Temperature     *float64  `json:"temperature,omitempty" yaml:"temperature"`
	FrequencyWeight *float64  `json:"frequency_weight,omitempty" yaml:"frequency_weight"`
	InertiaBias     *float64  `json:"inertia_bias,omitempty" yaml:"inertia_bias"`
	FeatureCosts    []float64 `json:"feature_costs,omitempty" yaml:"feature_costs"`
}

// Apply returns base with the set fields replaced, named CustomName
// range checks are left to Profile.Validate, which needs the graph bound
func (o Override) Apply(base Profile) (Profile, error) {
	p := base
	p.Name = CustomName
	if o.Steps != nil {
		p.Steps = *o.Steps
	}
	if o.MaxFlips != nil {
		p.MaxFlips = *o.MaxFlips
	}
	if o.Temperature != nil {
		p.Temperature = *o.Temperature
	}
	if o.FrequencyWeight != nil {
		p.FrequencyWeight = *o.FrequencyWeight
	}
	if o.InertiaBias != nil {
		p.InertiaBias = *o.InertiaBias
	}
	if o.FeatureCosts != nil {
		if len(o.FeatureCosts) != corpus.FeatureCount {
			return Profile{}, errs.Configf("feature_costs", "want %d entries, got %d", corpus.FeatureCount, len(o.FeatureCosts))
		}
		copy(p.FeatureCosts[:], o.FeatureCosts)
	}
	return p, nil
}

// Ref selects a profile on the wire: a name string, an override object, or null
type Ref struct {
	Name     string
	Override *Override
}

// Named is a Ref to a registered profile
func Named(name string) Ref { return Ref{Name: name} }

// Custom is a Ref carrying an override
func Custom(o Override) Ref { return Ref{Override: &o} }

// IsZero reports whether no profile was given
func (r Ref) IsZero() bool { return r.Name == "" && r.Override == nil }

// UnmarshalJSON accepts "name", {override} or null
// override objects with unrecognized fields are rejected
func (r *Ref) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*r = Ref{}
	switch {
	case bytes.Equal(b, []byte("null")):
		return nil
	case len(b) > 0 && b[0] == '"':
		return json.Unmarshal(b, &r.Name)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	var o Override
	if err := dec.Decode(&o); err != nil {
		return errs.Configf("profile", "%v", err)
	}
	r.Override = &o
	return nil
}

// MarshalJSON writes the name, or the override object
func (r Ref) MarshalJSON() ([]byte, error) {
	if r.Override != nil {
		return json.Marshal(r.Override)
	}
	if r.Name == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.Name)
}
