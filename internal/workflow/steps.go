package workflow

import (
	"errors"
	"strings"

	"github.com/modu-ai/devkit/internal/config"
)

// Generator errors.
var (
	// ErrNoJobs indicates every job was deselected.
	ErrNoJobs = errors.New("workflow: no jobs selected")

	// ErrNotImplemented is returned for options that are accepted on the
	// command line but not supported.
	ErrNotImplemented = errors.New("workflow: not implemented")

	// ErrDuplicateJob indicates two jobs would share an id.
	ErrDuplicateJob = errors.New("workflow: duplicate job id")
)

// BuildActionID is the id of the shared build action.
const BuildActionID = "build"

// Pinned third-party actions.
const (
	checkoutAction     = "actions/checkout@v4"
	setupGoAction      = "actions/setup-go@v5"
	changedFilesAction = "tj-actions/changed-files@v44"
	codecovAction      = "codecov/codecov-action@v4"
	fetchMetaAction    = "dependabot/fetch-metadata@v2.1.0"
)

// Selection keywords for job and requirement lists.
const (
	KeywordAll  = "ALL"
	KeywordNone = "NONE"
)

// Prompter asks yes/no questions while generating interactively.
type Prompter interface {
	Confirm(message string, def bool) (bool, error)
}

// BuildAction returns the composite action that prepares a checked-out
// job: Go toolchain setup and module download.
func BuildAction(cfg config.WorkflowConfig) *Action {
	return &Action{
		Name:        "Build Go application.",
		Description: "Sets up Go and downloads modules.",
		Runs: ActionRuns{
			Using: "composite",
			Steps: []Step{
				{
					Name: "Set up Go",
					Uses: setupGoAction,
					With: map[string]string{"go-version": cfg.GoVersion},
				},
				{
					Name:  "Download modules",
					Shell: "bash",
					Run:   "go mod download",
				},
			},
		},
	}
}

func checkoutStep() Step {
	return Step{Name: "Checkout", Uses: checkoutAction}
}

func buildStep() Step {
	return Step{Name: "Build", Uses: "./" + strings.Join([]string{".github", "actions", BuildActionID}, "/")}
}

func changedFilesStep(glob string) Step {
	return Step{
		Name: "File changed",
		ID:   "file-changed",
		Uses: changedFilesAction,
		With: map[string]string{"files": glob},
	}
}

// stepID turns a job or suite name into a step id.
func stepID(name string) string {
	return "run-" + strings.ReplaceAll(name, "_", "-")
}

// pullRequestOnly restricts a job to pull request events.
const pullRequestOnly = "${{ github.event_name == 'pull_request' }}"

// prEnv is the environment shared by steps that call the gh CLI.
func prEnv() map[string]string {
	return map[string]string{
		"PR_URL":       "${{ github.event.pull_request.html_url }}",
		"GITHUB_TOKEN": "${{ secrets.GITHUB_TOKEN }}",
	}
}

// selected reports whether id is listed, directly or through KeywordAll.
func selected(list []string, id string) bool {
	for _, v := range list {
		if v == id || v == KeywordAll {
			return true
		}
	}
	return false
}
