// Package suite runs named groups of Go test packages and reports a
// pass/fail summary per group.
package suite

import (
	"slices"

	"github.com/modu-ai/devkit/internal/config"
)

// DefaultName is the suite registered when the configuration declares none.
const DefaultName = "unit"

// AllName selects every registered suite in name lists.
const AllName = "ALL"

// Suite is one named set of test packages.
type Suite struct {
	Name     string
	Packages []string
	Flags    []string
	Env      map[string]string
}

// Registry holds the suites in declaration order.
type Registry struct {
	suites   []Suite
	fallback bool
}

// NewRegistry builds a registry from configuration. With no configured
// suites it holds a single default suite covering ./... .
func NewRegistry(cfgs []config.SuiteConfig) *Registry {
	if len(cfgs) == 0 {
		return &Registry{
			suites:   []Suite{{Name: DefaultName, Packages: []string{"./..."}}},
			fallback: true,
		}
	}

	r := &Registry{suites: make([]Suite, 0, len(cfgs))}
	for _, c := range cfgs {
		pkgs := c.Packages
		if len(pkgs) == 0 {
			pkgs = []string{"./..."}
		}
		r.suites = append(r.suites, Suite{
			Name:     c.Name,
			Packages: slices.Clone(pkgs),
			Flags:    slices.Clone(c.Flags),
			Env:      c.Env,
		})
	}
	return r
}

// All returns every suite in declaration order.
func (r *Registry) All() []Suite {
	return slices.Clone(r.suites)
}

// Names returns the suite names in declaration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.suites))
	for i, s := range r.suites {
		names[i] = s.Name
	}
	return names
}

// Get looks a suite up by name.
func (r *Registry) Get(name string) (Suite, bool) {
	for _, s := range r.suites {
		if s.Name == name {
			return s, true
		}
	}
	return Suite{}, false
}

// IsFallback reports whether the registry only holds the implicit default
// suite.
func (r *Registry) IsFallback() bool {
	return r.fallback
}

// Select returns the suites whose names are listed, in declaration order.
// AllName selects every suite.
func (r *Registry) Select(names []string) []Suite {
	if slices.Contains(names, AllName) {
		return r.All()
	}
	var out []Suite
	for _, s := range r.suites {
		if slices.Contains(names, s.Name) {
			out = append(out, s)
		}
	}
	return out
}
