package config

// Default value constants to avoid magic numbers and strings.
const (
	DefaultLinter      = "golangci-lint"
	DefaultFormatter   = "gofmt"
	DefaultTypeChecker = "go"

	DefaultCoverageDir  = "coverage"
	DefaultCoverageMode = "atomic"

	DefaultRunsOn       = "ubuntu-latest"
	DefaultGoVersion    = "stable"
	DefaultCommand      = "go tool devkit"
	DefaultChangedFiles = "**/*.go"

	DefaultBotLogin      = "dependabot[bot]"
	DefaultManualQALabel = "requires-manual-qa"
	DefaultMergeMethod   = "merge"

	DefaultCommitMaxLength = 100

	DefaultLogLevel = "warn"
)

// DefaultBranches lists the branches CI workflows trigger on.
var DefaultBranches = []string{"main"}

// DefaultExclude lists glob patterns never passed to the wrapped tools.
var DefaultExclude = []string{
	"vendor/**",
	"testdata/**",
	"**/*.pb.go",
	"**/*_templ.go",
	".git/**",
}

// DefaultCommitTypes lists the Conventional Commits types.
var DefaultCommitTypes = []string{
	"feat", "fix", "docs", "style", "refactor", "perf",
	"test", "build", "ci", "chore", "revert",
}

// NewDefaultConfig returns a Config with all compiled defaults applied.
func NewDefaultConfig() *Config {
	return &Config{
		Tools: ToolsConfig{
			Formatter: ToolConfig{
				Command:        DefaultFormatter,
				FixArgs:        []string{"-w"},
				CheckArgs:      []string{"-l"},
				DefaultTargets: []string{"."},
			},
			Linter: ToolConfig{
				Command:        DefaultLinter,
				Args:           []string{"run"},
				FixArgs:        []string{"--fix"},
				DefaultTargets: []string{"./..."},
			},
			TypeChecker: ToolConfig{
				Command:        DefaultTypeChecker,
				Args:           []string{"vet"},
				DefaultTargets: []string{"./..."},
			},
			Extensions: []string{".go"},
			Exclude:    append([]string(nil), DefaultExclude...),
		},
		Coverage: CoverageConfig{
			Dir:  DefaultCoverageDir,
			Mode: DefaultCoverageMode,
		},
		Workflow: WorkflowConfig{
			Branches:     append([]string(nil), DefaultBranches...),
			RunsOn:       DefaultRunsOn,
			GoVersion:    DefaultGoVersion,
			Command:      DefaultCommand,
			ChangedFiles: DefaultChangedFiles,
		},
		Approval: ApprovalConfig{
			BotLogin:      DefaultBotLogin,
			ManualQALabel: DefaultManualQALabel,
			MergeMethod:   DefaultMergeMethod,
		},
		Commits: CommitConfig{
			Types:     append([]string(nil), DefaultCommitTypes...),
			MaxLength: DefaultCommitMaxLength,
		},
		System: SystemConfig{
			LogLevel: DefaultLogLevel,
		},
	}
}

// applyDefaults fills zero values left by a partial YAML file.
func applyDefaults(cfg *Config) {
	def := NewDefaultConfig()

	fillTool(&cfg.Tools.Formatter, def.Tools.Formatter)
	fillTool(&cfg.Tools.Linter, def.Tools.Linter)
	fillTool(&cfg.Tools.TypeChecker, def.Tools.TypeChecker)
	if len(cfg.Tools.Extensions) == 0 {
		cfg.Tools.Extensions = def.Tools.Extensions
	}

	if cfg.Coverage.Dir == "" {
		cfg.Coverage.Dir = def.Coverage.Dir
	}
	if cfg.Coverage.Mode == "" {
		cfg.Coverage.Mode = def.Coverage.Mode
	}

	w := &cfg.Workflow
	if len(w.Branches) == 0 {
		w.Branches = def.Workflow.Branches
	}
	if w.RunsOn == "" {
		w.RunsOn = def.Workflow.RunsOn
	}
	if w.GoVersion == "" {
		w.GoVersion = def.Workflow.GoVersion
	}
	if w.Command == "" {
		w.Command = def.Workflow.Command
	}
	if w.ChangedFiles == "" {
		w.ChangedFiles = def.Workflow.ChangedFiles
	}

	a := &cfg.Approval
	if a.BotLogin == "" {
		a.BotLogin = def.Approval.BotLogin
	}
	if a.ManualQALabel == "" {
		a.ManualQALabel = def.Approval.ManualQALabel
	}
	if a.MergeMethod == "" {
		a.MergeMethod = def.Approval.MergeMethod
	}

	if len(cfg.Commits.Types) == 0 {
		cfg.Commits.Types = def.Commits.Types
	}
	if cfg.Commits.MaxLength == 0 {
		cfg.Commits.MaxLength = def.Commits.MaxLength
	}

	if cfg.System.LogLevel == "" {
		cfg.System.LogLevel = def.System.LogLevel
	}
}

func fillTool(t *ToolConfig, def ToolConfig) {
	if t.Command == "" {
		*t = def
		return
	}
	// A replaced command keeps its own arguments.
	if t.Command != def.Command {
		return
	}
	if t.Args == nil {
		t.Args = def.Args
	}
	if t.FixArgs == nil {
		t.FixArgs = def.FixArgs
	}
	if t.CheckArgs == nil {
		t.CheckArgs = def.CheckArgs
	}
	if t.DefaultTargets == nil {
		t.DefaultTargets = def.DefaultTargets
	}
}
