package defs

// Common file and directory names used across the project.
const (
	// ConfigFile is the devkit project configuration file at the project root.
	ConfigFile = ".devkit.yaml"

	// GoMod is the Go module file used to resolve the module path.
	GoMod = "go.mod"

	// CoverageProfile is the merged coverage profile inside the report directory.
	CoverageProfile = "coverage.out"

	// CoverageHTML is the HTML coverage report inside the report directory.
	CoverageHTML = "index.html"
)

// ToolPackage is the import path of the devkit command, as used by
// `go tool` directives and `go run`.
const ToolPackage = "github.com/modu-ai/devkit/cmd/devkit"

// GitHub directory layout for generated CI definitions.
const (
	GitHubDir    = ".github"
	WorkflowsDir = "workflows"
	ActionsDir   = "actions"
	ActionFile   = "action.yml"
)
