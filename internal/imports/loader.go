package imports

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
	"golang.org/x/tools/go/packages"

	"github.com/modu-ai/devkit/internal/config"
	"github.com/modu-ai/devkit/internal/defs"
)

// FromConfig converts configured contracts, resolving relative package
// names against modulePath.
func FromConfig(cfgs []config.ContractConfig, modulePath string) []Contract {
	contracts := make([]Contract, 0, len(cfgs))
	for _, c := range cfgs {
		forbidden := make([]string, len(c.Forbidden))
		for i, f := range c.Forbidden {
			forbidden[i] = Resolve(f, modulePath)
		}
		contracts = append(contracts, Contract{
			Name:       c.Name,
			Source:     Resolve(c.Source, modulePath),
			Forbidden:  forbidden,
			Transitive: c.Transitive,
		})
	}
	return contracts
}

// ModulePath reads the module path from root/go.mod.
func ModulePath(root string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, defs.GoMod))
	if err != nil {
		return "", fmt.Errorf("read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("go.mod in %s declares no module path", root)
	}
	return path, nil
}

// LoadGraph loads every non-test package of the module at root and returns
// the import graph, including dependencies outside the module.
func LoadGraph(ctx context.Context, root string) (Graph, error) {
	cfg := &packages.Config{
		Context: ctx,
		Dir:     root,
		Mode:    packages.NeedName | packages.NeedImports | packages.NeedDeps,
		Tests:   false,
	}

	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, ErrNoPackages
	}

	var loadErrs []error
	g := make(Graph)
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		for _, e := range p.Errors {
			loadErrs = append(loadErrs, fmt.Errorf("%s: %s", p.PkgPath, e.Msg))
		}
		imports := make([]string, 0, len(p.Imports))
		for path := range p.Imports {
			imports = append(imports, path)
		}
		g[p.PkgPath] = imports
	})
	if len(loadErrs) > 0 {
		return nil, fmt.Errorf("load packages: %w", errors.Join(loadErrs...))
	}

	return g, nil
}
