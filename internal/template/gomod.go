package template

import (
	"golang.org/x/mod/modfile"
	"golang.org/x/mod/semver"

	"github.com/modu-ai/devkit/internal/config"
	"github.com/modu-ai/devkit/internal/defs"
	"github.com/modu-ai/devkit/pkg/version"
)

// HasToolDirective reports whether goMod declares devkit with a `tool`
// directive. Unparsable content counts as no directive.
func HasToolDirective(goMod []byte) bool {
	f, err := modfile.Parse(defs.GoMod, goMod, nil)
	if err != nil {
		return false
	}
	for _, t := range f.Tool {
		if t.Path == defs.ToolPackage {
			return true
		}
	}
	return false
}

// WorkflowCommand returns how generated CI steps invoke devkit for the
// module described by goMod: `go tool devkit` when devkit is a declared
// tool, otherwise `go run` of the devkit package at this build's version.
func WorkflowCommand(goMod []byte) string {
	if HasToolDirective(goMod) {
		return config.DefaultCommand
	}
	ref := "latest"
	if v := version.GetVersion(); semver.IsValid(v) {
		ref = v
	}
	return "go run " + defs.ToolPackage + "@" + ref
}
