// Package imports enforces import-boundary contracts: a source package and
// its subpackages must not import any of a set of forbidden packages.
package imports

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Sentinel errors for contract evaluation.
var (
	// ErrUnknownPackage indicates a contract references a package that does
	// not exist in the loaded source tree.
	ErrUnknownPackage = errors.New("imports: unknown package")

	// ErrNoPackages indicates nothing was loaded from the module.
	ErrNoPackages = errors.New("imports: no packages loaded")
)

// Contract forbids Source (and its subpackages) from importing Forbidden.
type Contract struct {
	Name      string
	Source    string
	Forbidden []string
	// Transitive also reports indirect imports through other packages.
	Transitive bool
}

// Violation is one forbidden import found by Check.
type Violation struct {
	Contract string
	Importer string
	Imported string
	// Chain is the import path from Importer to Imported, inclusive.
	Chain []string
}

// String renders the violation as "importer -> a -> imported".
func (v Violation) String() string {
	return strings.Join(v.Chain, " -> ")
}

// Graph maps an import path to the import paths it imports directly.
type Graph map[string][]string

// Packages returns the sorted import paths in the graph.
func (g Graph) Packages() []string {
	pkgs := make([]string, 0, len(g))
	for p := range g {
		pkgs = append(pkgs, p)
	}
	slices.Sort(pkgs)
	return pkgs
}

// has reports whether name or any of its subpackages is in the graph.
func (g Graph) has(name string) bool {
	for p := range g {
		if within(p, name) {
			return true
		}
	}
	return false
}

// within reports whether pkg is root or a subpackage of root.
func within(pkg, root string) bool {
	return pkg == root || strings.HasPrefix(pkg, root+"/")
}

// Resolve expands "./"-relative package names against modulePath.
func Resolve(name, modulePath string) string {
	name = strings.TrimSuffix(name, "/...")
	switch {
	case name == ".":
		return modulePath
	case strings.HasPrefix(name, "./"):
		return modulePath + "/" + strings.TrimPrefix(name, "./")
	default:
		return name
	}
}

// Validate checks that every package a contract references exists in the
// source tree.
func Validate(contracts []Contract, g Graph) error {
	var errs []error
	for _, c := range contracts {
		for _, name := range append([]string{c.Source}, c.Forbidden...) {
			if !g.has(name) {
				errs = append(errs, fmt.Errorf("contract %q: %w: %s", c.Name, ErrUnknownPackage, name))
			}
		}
	}
	return errors.Join(errs...)
}

// Check evaluates every contract against the graph and returns the
// violations sorted by contract, then importer.
func Check(contracts []Contract, g Graph) []Violation {
	var violations []Violation
	for _, c := range contracts {
		violations = append(violations, checkContract(c, g)...)
	}
	return violations
}

func checkContract(c Contract, g Graph) []Violation {
	var violations []Violation

	forbidden := func(pkg string) bool {
		for _, f := range c.Forbidden {
			if within(pkg, f) {
				return true
			}
		}
		return false
	}

	for _, importer := range g.Packages() {
		if !within(importer, c.Source) {
			continue
		}

		if !c.Transitive {
			for _, imp := range g[importer] {
				if forbidden(imp) {
					violations = append(violations, Violation{
						Contract: c.Name,
						Importer: importer,
						Imported: imp,
						Chain:    []string{importer, imp},
					})
				}
			}
			continue
		}

		for _, chain := range forbiddenChains(g, importer, forbidden) {
			violations = append(violations, Violation{
				Contract: c.Name,
				Importer: importer,
				Imported: chain[len(chain)-1],
				Chain:    chain,
			})
		}
	}

	return violations
}

// forbiddenChains walks the graph breadth-first from start and returns the
// shortest chain to each reachable forbidden package.
func forbiddenChains(g Graph, start string, forbidden func(string) bool) [][]string {
	parent := map[string]string{start: ""}
	queue := []string{start}
	var found []string

	for len(queue) > 0 {
		pkg := queue[0]
		queue = queue[1:]

		imports := slices.Clone(g[pkg])
		slices.Sort(imports)
		for _, imp := range imports {
			if _, visited := parent[imp]; visited {
				continue
			}
			parent[imp] = pkg
			if forbidden(imp) {
				found = append(found, imp)
				continue
			}
			queue = append(queue, imp)
		}
	}

	chains := make([][]string, 0, len(found))
	for _, target := range found {
		var chain []string
		for p := target; p != ""; p = parent[p] {
			chain = append(chain, p)
		}
		slices.Reverse(chain)
		chains = append(chains, chain)
	}
	return chains
}
