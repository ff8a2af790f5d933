package config

// Config is the root configuration aggregate of .devkit.yaml.
type Config struct {
	Tools    ToolsConfig    `yaml:"tools" envPrefix:"TOOLS_"`
	Suites   []SuiteConfig  `yaml:"suites"`
	Coverage CoverageConfig `yaml:"coverage" envPrefix:"COVERAGE_"`
	Imports  ImportsConfig  `yaml:"imports"`
	Workflow WorkflowConfig `yaml:"workflow" envPrefix:"WORKFLOW_"`
	Approval ApprovalConfig `yaml:"approval" envPrefix:"APPROVAL_"`
	Commits  CommitConfig   `yaml:"commits" envPrefix:"COMMITS_"`
	System   SystemConfig   `yaml:"system"`
}

// ToolsConfig configures the wrapped formatter, linter and type checker.
type ToolsConfig struct {
	Formatter   ToolConfig `yaml:"formatter" envPrefix:"FORMATTER_"`
	Linter      ToolConfig `yaml:"linter" envPrefix:"LINTER_"`
	TypeChecker ToolConfig `yaml:"type_checker" envPrefix:"TYPECHECKER_"`
	// Extensions limits explicit file lists to these suffixes.
	Extensions []string `yaml:"extensions"`
	// Exclude holds glob patterns (with ** support) removed from file lists.
	Exclude []string `yaml:"exclude"`
}

// ToolConfig describes one external tool invocation.
type ToolConfig struct {
	Command string   `yaml:"command" env:"COMMAND"`
	Args    []string `yaml:"args" env:"ARGS" envSeparator:" "`
	// FixArgs are appended when the tool is asked to fix in place.
	FixArgs []string `yaml:"fix_args"`
	// CheckArgs replace FixArgs in check-only mode (formatter).
	CheckArgs []string `yaml:"check_args"`
	// DefaultTargets are used when no files are given.
	DefaultTargets []string `yaml:"default_targets"`
}

// SuiteConfig is a named `go test` suite.
type SuiteConfig struct {
	Name     string            `yaml:"name"`
	Packages []string          `yaml:"packages"`
	Flags    []string          `yaml:"flags"`
	Env      map[string]string `yaml:"env"`
}

// CoverageConfig configures the coverage run.
type CoverageConfig struct {
	Dir       string `yaml:"dir" env:"DIR"`
	Mode      string `yaml:"mode" env:"MODE"`
	FailUnder int    `yaml:"fail_under" env:"FAIL_UNDER"`
}

// ImportsConfig holds the import-boundary contracts.
type ImportsConfig struct {
	Contracts []ContractConfig `yaml:"contracts"`
}

// ContractConfig forbids Source (and its subpackages) from importing any of
// Forbidden. Package names may be full import paths or "./"-relative to
// the module root.
type ContractConfig struct {
	Name       string   `yaml:"name"`
	Source     string   `yaml:"source"`
	Forbidden  []string `yaml:"forbidden"`
	Transitive bool     `yaml:"transitive"`
}

// WorkflowConfig configures generated GitHub Actions definitions.
type WorkflowConfig struct {
	Branches  []string `yaml:"branches" env:"BRANCHES" envSeparator:","`
	RunsOn    string   `yaml:"runs_on" env:"RUNS_ON"`
	Container string   `yaml:"container" env:"CONTAINER"`
	GoVersion string   `yaml:"go_version" env:"GO_VERSION"`
	// Command is how CI steps invoke devkit, e.g. "go tool devkit".
	Command string `yaml:"command" env:"COMMAND"`
	// ChangedFiles is the glob passed to the changed-files action.
	ChangedFiles string `yaml:"changed_files"`
}

// ApprovalConfig configures the pull request approval policy.
type ApprovalConfig struct {
	BotLogin      string `yaml:"bot_login" env:"BOT_LOGIN"`
	ManualQALabel string `yaml:"manual_qa_label" env:"MANUAL_QA_LABEL"`
	MergeMethod   string `yaml:"merge_method" env:"MERGE_METHOD"`
}

// CommitConfig configures the commit message linter.
type CommitConfig struct {
	Types     []string `yaml:"types"`
	Scopes    []string `yaml:"scopes"`
	MaxLength int      `yaml:"max_length" env:"MAX_LENGTH"`
}

// SystemConfig holds process-wide settings.
type SystemConfig struct {
	LogLevel       string `yaml:"log_level" env:"LOG_LEVEL"`
	NonInteractive bool   `yaml:"non_interactive" env:"NON_INTERACTIVE"`
	NoColor        bool   `yaml:"no_color" env:"NO_COLOR"`
}

// Suite returns the suite with the given name.
func (c *Config) Suite(name string) (SuiteConfig, bool) {
	for _, s := range c.Suites {
		if s.Name == name {
			return s, true
		}
	}
	return SuiteConfig{}, false
}
