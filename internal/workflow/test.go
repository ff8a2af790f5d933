package workflow

import (
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/modu-ai/devkit/internal/config"
	"github.com/modu-ai/devkit/internal/defs"
)

// Test workflow identity.
const (
	TestWorkflowID   = "go-test"
	TestWorkflowName = "Go Tests"
	GateJobID        = "tests-passed"
)

// Fixed job ids of the test workflow.
const (
	JobLint      = "lint"
	JobModTidy   = "mod-tidy"
	JobTypecheck = "typecheck"
	JobImports   = "imports"
	JobTest      = "test"
	JobCoverage  = "coverage"
)

// TestOptions selects the jobs of the test workflow.
type TestOptions struct {
	// Tests lists job ids to include. Empty means ask the prompter.
	Tests []string
	// Required lists job ids the gate depends on (KeywordAll, KeywordNone
	// or ids). Nil means ask the prompter.
	Required []string
	// CoverageFailUnder is passed to the coverage job when positive.
	CoverageFailUnder int
	// CoverageFailRegressed is rejected with ErrNotImplemented.
	CoverageFailRegressed bool
	// CoverageDir is the coverage report directory the upload step reads.
	// Empty means config.DefaultCoverageDir.
	CoverageDir string
}

// candidate is a job offered for selection.
type candidate struct {
	id  string
	job func() Job
}

// TestGenerator builds the test workflow.
type TestGenerator struct {
	cfg    config.WorkflowConfig
	suites []string
	prompt Prompter
}

// NewTestGenerator creates a generator. suites lists the registered suite
// names; when empty a single test job is generated. prompt may be nil when
// every selection is given explicitly.
func NewTestGenerator(cfg config.WorkflowConfig, suites []string, prompt Prompter) *TestGenerator {
	return &TestGenerator{cfg: cfg, suites: suites, prompt: prompt}
}

// Generate returns the test workflow for opts.
func (g *TestGenerator) Generate(opts TestOptions) (*Workflow, error) {
	if opts.CoverageFailRegressed {
		return nil, fmt.Errorf("coverage fail-regressed: %w", ErrNotImplemented)
	}

	jobs := NewJobs()
	include := func(id string) (bool, error) {
		if len(opts.Tests) == 0 {
			return g.confirm(fmt.Sprintf("Do you want to run %s?", id), true)
		}
		return selected(opts.Tests, id), nil
	}

	candidates := []candidate{
		{JobLint, g.lintJob},
		{JobModTidy, g.modTidyJob},
		{JobTypecheck, g.typecheckJob},
		{JobImports, g.importsJob},
	}
	if len(g.suites) == 0 {
		candidates = append(candidates, candidate{JobTest, g.testJob})
	}
	for _, name := range g.suites {
		candidates = append(candidates, candidate{name, func() Job { return g.suiteJob(name) }})
	}
	candidates = append(candidates, candidate{JobCoverage, func() Job { return g.coverageJob(opts.CoverageFailUnder, opts.CoverageDir) }})

	for _, c := range candidates {
		ok, err := include(c.id)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if _, exists := jobs.Get(c.id); exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateJob, c.id)
		}
		jobs.Set(c.id, c.job())
	}
	if jobs.Len() == 0 {
		return nil, ErrNoJobs
	}

	required, err := g.required(jobs.IDs(), opts.Required)
	if err != nil {
		return nil, err
	}
	if len(required) > 0 {
		if _, exists := jobs.Get(GateJobID); exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateJob, GateJobID)
		}
		jobs.Set(GateJobID, g.gateJob(required))
	}

	return &Workflow{
		Name:    TestWorkflowName,
		RunName: TestWorkflowID,
		On: Triggers{
			Push:        &BranchFilter{Branches: slices.Clone(g.cfg.Branches)},
			PullRequest: &BranchFilter{Branches: slices.Clone(g.cfg.Branches)},
		},
		Jobs: jobs,
	}, nil
}

// required resolves the gate dependencies among ids.
func (g *TestGenerator) required(ids []string, list []string) ([]string, error) {
	var out []string
	for _, id := range ids {
		var ok bool
		switch {
		case list == nil:
			var err error
			ok, err = g.confirm(fmt.Sprintf("Is %s required for the CI?", id), true)
			if err != nil {
				return nil, err
			}
		case slices.Contains(list, KeywordNone):
			ok = false
		default:
			ok = selected(list, id)
		}
		if ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (g *TestGenerator) confirm(message string, def bool) (bool, error) {
	if g.prompt == nil {
		return def, nil
	}
	return g.prompt.Confirm(message, def)
}

func (g *TestGenerator) command(args ...string) string {
	return strings.Join(append([]string{g.cfg.Command}, args...), " ")
}

func (g *TestGenerator) job(name string, steps ...Step) Job {
	return Job{
		Name:      name,
		RunsOn:    g.cfg.RunsOn,
		Container: g.cfg.Container,
		Steps:     append([]Step{checkoutStep(), buildStep()}, steps...),
	}
}

func (g *TestGenerator) lintJob() Job {
	j := g.job("Go linter: lint",
		changedFilesStep(g.cfg.ChangedFiles),
		Step{
			Name: "Run lint",
			ID:   stepID(JobLint),
			If:   "${{ steps.file-changed.outputs.any_changed == 'true' }}",
			Run:  g.command("lint", "${{ steps.file-changed.outputs.all_changed_files }}"),
		},
	)
	j.If = pullRequestOnly
	return j
}

func (g *TestGenerator) modTidyJob() Job {
	j := g.job("Go linter: go mod tidy check",
		Step{Name: "Run go mod tidy check", ID: stepID(JobModTidy), Run: "go mod tidy -diff"},
	)
	j.If = pullRequestOnly
	return j
}

func (g *TestGenerator) typecheckJob() Job {
	j := g.job("Go linter: typecheck",
		changedFilesStep(g.cfg.ChangedFiles),
		Step{
			Name: "Run typecheck",
			ID:   stepID(JobTypecheck),
			If:   "${{ steps.file-changed.outputs.any_changed == 'true' }}",
			Run:  g.command("typecheck", "${{ steps.file-changed.outputs.all_changed_files }}"),
		},
	)
	j.If = pullRequestOnly
	return j
}

func (g *TestGenerator) importsJob() Job {
	j := g.job("Go linter: imports",
		Step{Name: "Run import check", ID: stepID(JobImports), Run: g.command("imports")},
	)
	j.If = pullRequestOnly
	return j
}

func (g *TestGenerator) testJob() Job {
	return g.job("Go test",
		Step{Name: "Run tests", ID: stepID(JobTest), Run: g.command("test")},
	)
}

func (g *TestGenerator) suiteJob(name string) Job {
	return g.job("Go test: "+name,
		Step{Name: "Run " + name, ID: stepID(name), Run: g.command("test", name)},
	)
}

func (g *TestGenerator) coverageJob(failUnder int, dir string) Job {
	if dir == "" {
		dir = config.DefaultCoverageDir
	}
	args := []string{"coverage"}
	if failUnder > 0 {
		args = append(args, fmt.Sprintf("--fail-under=%d", failUnder))
	}
	return g.job("Go test: coverage",
		Step{Name: "Run coverage", ID: stepID(JobCoverage), Run: g.command(args...)},
		Step{
			Name: "Upload coverage",
			ID:   "upload-coverage",
			Uses: codecovAction,
			With: map[string]string{
				"files":            path.Join(filepath.ToSlash(dir), defs.CoverageProfile),
				"fail_ci_if_error": "true",
				"verbose":          "true",
			},
		},
	)
}

func (g *TestGenerator) gateJob(required []string) Job {
	return Job{
		Name:      "Go test: OK",
		RunsOn:    g.cfg.RunsOn,
		Container: g.cfg.Container,
		If:        "${{ always() }}",
		Needs:     required,
		Steps: []Step{
			checkoutStep(),
			buildStep(),
			{
				Name: "Test results",
				ID:   "test-results",
				Run:  g.command("gate", "--required", strings.Join(required, ",")),
				Env:  map[string]string{"NEEDS_JSON": "${{ toJSON(needs) }}"},
			},
		},
	}
}
