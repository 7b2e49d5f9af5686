// Package profile holds the named walk parameter bundles
package profile

import (
	"math"

	"sylwalk/internal/core/corpus"
	"sylwalk/internal/core/errs"
)

// Default is used when a request names no profile
const Default = "dialect"

// Profile is an immutable bundle of walk parameters
type Profile struct {
	Name            string                       `json:"name"`
	Steps           int                          `json:"steps"`
	MaxFlips        int                          `json:"max_flips"`
	Temperature     float64                      `json:"temperature"`
	FrequencyWeight float64                      `json:"frequency_weight"`
	InertiaBias     float64                      `json:"inertia_bias"`
	FeatureCosts    [corpus.FeatureCount]float64 `json:"feature_costs"`
}

// UnitCosts returns feature costs of 1.0 for every bit
func UnitCosts() [corpus.FeatureCount]float64 {
	var c [corpus.FeatureCount]float64
	for i := range c {
		c[i] = 1
	}
	return c
}

var builtins = []Profile{
	{Name: "clerical", Steps: 5, MaxFlips: 1, Temperature: 0.3, FrequencyWeight: 1.0, FeatureCosts: UnitCosts()},
	{Name: "dialect", Steps: 5, MaxFlips: 2, Temperature: 0.7, FrequencyWeight: 0.0, FeatureCosts: UnitCosts()},
	{Name: "goblin", Steps: 5, MaxFlips: 2, Temperature: 1.5, FrequencyWeight: -0.5, FeatureCosts: UnitCosts()},
	{Name: "ritual", Steps: 5, MaxFlips: 3, Temperature: 2.5, FrequencyWeight: -1.0, FeatureCosts: UnitCosts()},
}

// Builtins returns the predefined profiles
func Builtins() []Profile { return append([]Profile(nil), builtins...) }

// Builtin returns the predefined profile called name
func Builtin(name string) (Profile, bool) {
	for _, p := range builtins {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

// Validate checks the parameters against the bound of the graph the profile will run on
func (p Profile) Validate(graphBound int) error {
	switch {
	case p.Steps < 1:
		return errs.Configf("steps", "must be positive, got %d", p.Steps)
	case p.MaxFlips < 1 || p.MaxFlips > 3:
		return errs.Configf("max_flips", "must be in [1,3], got %d", p.MaxFlips)
	case p.MaxFlips > graphBound:
		return errs.Configf("max_flips", "%d exceeds the graph bound %d", p.MaxFlips, graphBound)
	case !(p.Temperature > 0) || math.IsInf(p.Temperature, 0):
		return errs.Configf("temperature", "must be positive and finite, got %v", p.Temperature)
	case !finite(p.FrequencyWeight):
		return errs.Configf("frequency_weight", "must be finite, got %v", p.FrequencyWeight)
	case !finite(p.InertiaBias):
		return errs.Configf("inertia_bias", "must be finite, got %v", p.InertiaBias)
	}
	for i, c := range p.FeatureCosts {
		if !finite(c) || c < 0 {
			return errs.Configf("feature_costs", "%s: must be finite and >= 0, got %v", corpus.FeatureNames[i], c)
		}
	}
	return nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
