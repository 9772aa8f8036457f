package riskdomain

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is a read-only set of domains keyed by slug.
// It is populated once at construction and never mutated afterwards.
type Registry struct {
	domains map[string]Domain
	keys    []string
}

// NewRegistry builds a registry from the given domains.
// Returns ErrDuplicateDomain if two domains share a key.
func NewRegistry(domains ...Domain) (*Registry, error) {
	r := &Registry{domains: make(map[string]Domain, len(domains))}
	for _, d := range domains {
		if _, exists := r.domains[d.Key()]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateDomain, d.Key())
		}
		r.domains[d.Key()] = d
		r.keys = append(r.keys, d.Key())
	}
	sort.Strings(r.keys)
	return r, nil
}

// Get returns the domain registered under key.
func (r *Registry) Get(key string) (Domain, error) {
	d, ok := r.domains[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDomain, key)
	}
	return d, nil
}

// Has reports whether key is registered.
func (r *Registry) Has(key string) bool {
	_, ok := r.domains[key]
	return ok
}

// Keys returns registered domain keys in ascending order.
func (r *Registry) Keys() []string {
	return append([]string(nil), r.keys...)
}

// All returns registered domains ordered by key.
func (r *Registry) All() []Domain {
	out := make([]Domain, len(r.keys))
	for i, k := range r.keys {
		out[i] = r.domains[k]
	}
	return out
}

// Builtin returns the nine built-in startup-sector domains.
func Builtin() []Domain {
	return []Domain{
		VentureCapital,
		SaaS,
		Fintech,
		HealthtechBiotech,
		Greentech,
		Accelerators,
		CrossBorder,
		PublicSectorFunded,
		MediatechPoliticaltech,
	}
}

// Default returns the process-wide registry of built-in domains.
var Default = sync.OnceValue(func() *Registry {
	r, err := NewRegistry(Builtin()...)
	if err != nil {
		panic(err)
	}
	return r
})
