// Package template renders and deploys the project scaffolding files
// (.devkit.yaml, .golangci.yml) written by `devkit init`.
package template

import (
	"github.com/modu-ai/devkit/internal/config"
	"github.com/modu-ai/devkit/pkg/version"
)

// TemplateContext provides data for template rendering.
// All fields are exported for use with Go's text/template package.
type TemplateContext struct {
	// ModulePath is the module path from go.mod.
	ModulePath string

	GoVersion string
	Branches  []string
	Command   string

	CoverageDir       string
	CoverageFailUnder int

	BotLogin      string
	ManualQALabel string
	MergeMethod   string

	CommitTypes     []string
	CommitMaxLength int

	Linter        string
	LinterTimeout string

	// Version is the devkit version that wrote the files.
	Version string
}

// ContextOption configures a TemplateContext.
type ContextOption func(*TemplateContext)

// NewTemplateContext creates a TemplateContext from the default
// configuration, then applies any provided options.
func NewTemplateContext(opts ...ContextOption) *TemplateContext {
	cfg := config.NewDefaultConfig()
	ctx := &TemplateContext{
		GoVersion:       cfg.Workflow.GoVersion,
		Branches:        cfg.Workflow.Branches,
		Command:         cfg.Workflow.Command,
		CoverageDir:     cfg.Coverage.Dir,
		BotLogin:        cfg.Approval.BotLogin,
		ManualQALabel:   cfg.Approval.ManualQALabel,
		MergeMethod:     cfg.Approval.MergeMethod,
		CommitTypes:     cfg.Commits.Types,
		CommitMaxLength: cfg.Commits.MaxLength,
		Linter:          cfg.Tools.Linter.Command,
		LinterTimeout:   "5m",
		Version:         version.GetVersion(),
	}
	for _, opt := range opts {
		opt(ctx)
	}
	return ctx
}

// WithModulePath sets the module path used by the default import contract.
func WithModulePath(path string) ContextOption {
	return func(c *TemplateContext) { c.ModulePath = path }
}

// WithCoverageFailUnder sets the coverage threshold.
func WithCoverageFailUnder(pct int) ContextOption {
	return func(c *TemplateContext) { c.CoverageFailUnder = pct }
}

// WithCommand sets how CI steps invoke devkit.
func WithCommand(command string) ContextOption {
	return func(c *TemplateContext) { c.Command = command }
}

// WithGoVersion sets the Go version used by CI.
func WithGoVersion(v string) ContextOption {
	return func(c *TemplateContext) { c.GoVersion = v }
}
