package profile

import (
	"errors"
	"io"
	"os"
	"sync"

	"sylwalk/internal/core/errs"

	"gopkg.in/yaml.v3"
)

// Registry maps profile names to profiles, seeded with the builtins
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Profile
	order  []string
}

// NewRegistry returns a registry holding the builtin profiles
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]Profile, len(builtins))}
	for _, p := range builtins {
		r.byName[p.Name] = p
		r.order = append(r.order, p.Name)
	}
	return r
}

// Register adds p under p.Name, existing names are never replaced
func (r *Registry) Register(p Profile) error {
	if p.Name == "" || p.Name == CustomName {
		return errs.Configf("name", "profile name %q is reserved or empty", p.Name)
	}
	if err := p.Validate(3); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[p.Name]; ok {
		return errs.Configf("name", "profile %q already registered", p.Name)
	}
	r.byName[p.Name] = p
	r.order = append(r.order, p.Name)
	return nil
}

// Lookup returns the profile called name
func (r *Registry) Lookup(name string) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byName[name]
	if !ok {
		return Profile{}, errs.Configf("profile", "unknown profile %q", name)
	}
	return p, nil
}

// List returns the profiles in registration order, builtins first
func (r *Registry) List() []Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Profile, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.byName[n])
	}
	return out
}

// Resolve turns a wire reference into a profile
// zero refs use Default, overrides are applied over Default
func (r *Registry) Resolve(ref Ref) (Profile, error) {
	switch {
	case ref.Override != nil:
		base, err := r.Lookup(Default)
		if err != nil {
			return Profile{}, err
		}
		return ref.Override.Apply(base)
	case ref.Name != "":
		return r.Lookup(ref.Name)
	default:
		return r.Lookup(Default)
	}
}

type fileProfile struct {
	Name     string `yaml:"name"`
	Override `yaml:",inline"`
}

type profileFile struct {
	Profiles []fileProfile `yaml:"profiles"`
}

// Decode registers every profile of a YAML document
//
//	profiles:
//	  - name: murmur
//	    steps: 8
//	    max_flips: 1
//	    temperature: 0.4
//
// unset fields come from Default, unknown keys are rejected
// registration stops at the first invalid entry
func (r *Registry) Decode(rd io.Reader) error {
	dec := yaml.NewDecoder(rd)
	dec.KnownFields(true)
	var f profileFile
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return errs.Configf("profiles_file", "%v", err)
	}
	base, _ := Builtin(Default)
	for _, fp := range f.Profiles {
		p, err := fp.Apply(base)
		if err != nil {
			return err
		}
		p.Name = fp.Name
		if err := r.Register(p); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile reads a YAML profiles file, see Decode
func (r *Registry) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errs.Configf("profiles_file", "%v", err)
	}
	defer f.Close()
	return r.Decode(f)
}
