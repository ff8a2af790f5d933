package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// jobIDPattern is the GitHub Actions job id syntax. Suite names become job
// ids of the generated test workflow.
var jobIDPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// reservedJobIDs are the fixed job ids of the generated test workflow.
var reservedJobIDs = []string{"lint", "mod-tidy", "typecheck", "imports", "coverage", "tests-passed"}

// validMergeMethods lists merge strategies accepted by `gh pr merge`.
var validMergeMethods = []string{"merge", "squash", "rebase"}

// validLogLevels lists accepted slog levels.
var validLogLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the configuration for correctness.
func Validate(cfg *Config) error {
	var errs []ValidationError

	errs = append(errs, validateSuites(cfg.Suites)...)
	errs = append(errs, validateContracts(cfg.Imports.Contracts)...)
	errs = append(errs, validateCoverage(&cfg.Coverage)...)
	errs = append(errs, validateApproval(&cfg.Approval)...)
	errs = append(errs, validateSystem(&cfg.System)...)

	if cfg.Commits.MaxLength < 0 {
		errs = append(errs, ValidationError{
			Field:   "commits.max_length",
			Message: "must not be negative",
			Value:   cfg.Commits.MaxLength,
			Wrapped: ErrInvalidConfig,
		})
	}

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

// validateSuites checks suite names are present, unique and usable as
// workflow job ids.
func validateSuites(suites []SuiteConfig) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool, len(suites))

	for i, s := range suites {
		field := fmt.Sprintf("suites[%d].name", i)
		name := strings.TrimSpace(s.Name)
		switch {
		case name == "":
			errs = append(errs, ValidationError{
				Field:   field,
				Message: "required field is empty",
				Wrapped: ErrInvalidConfig,
			})
		case strings.EqualFold(name, "ALL") || strings.EqualFold(name, "NONE"):
			errs = append(errs, ValidationError{
				Field:   field,
				Message: "ALL and NONE are reserved job selectors",
				Value:   s.Name,
				Wrapped: ErrInvalidConfig,
			})
		case !jobIDPattern.MatchString(name):
			errs = append(errs, ValidationError{
				Field:   field,
				Message: "must start with a letter or _ and contain only letters, digits, _ and -",
				Value:   s.Name,
				Wrapped: ErrInvalidConfig,
			})
		case slices.Contains(reservedJobIDs, name):
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("conflicts with a fixed workflow job; reserved: %s", strings.Join(reservedJobIDs, ", ")),
				Value:   s.Name,
				Wrapped: ErrInvalidConfig,
			})
		case seen[name]:
			errs = append(errs, ValidationError{
				Field:   field,
				Message: "suite names must be unique",
				Value:   s.Name,
				Wrapped: ErrDuplicateSuite,
			})
		}
		seen[name] = true
	}

	return errs
}

// validateContracts checks each import contract names a source and at
// least one forbidden package.
func validateContracts(contracts []ContractConfig) []ValidationError {
	var errs []ValidationError

	for i, c := range contracts {
		if strings.TrimSpace(c.Source) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("imports.contracts[%d].source", i),
				Message: "required field is empty",
				Wrapped: ErrInvalidConfig,
			})
		}
		if len(c.Forbidden) == 0 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("imports.contracts[%d].forbidden", i),
				Message: "at least one forbidden package is required",
				Wrapped: ErrInvalidConfig,
			})
		}
	}

	return errs
}

func validateCoverage(c *CoverageConfig) []ValidationError {
	var errs []ValidationError

	if c.FailUnder < 0 || c.FailUnder > 100 {
		errs = append(errs, ValidationError{
			Field:   "coverage.fail_under",
			Message: "must be between 0 and 100",
			Value:   c.FailUnder,
			Wrapped: ErrInvalidConfig,
		})
	}
	switch c.Mode {
	case "set", "count", "atomic":
	default:
		errs = append(errs, ValidationError{
			Field:   "coverage.mode",
			Message: "must be one of: set, count, atomic",
			Value:   c.Mode,
			Wrapped: ErrInvalidConfig,
		})
	}

	return errs
}

func validateApproval(a *ApprovalConfig) []ValidationError {
	if slices.Contains(validMergeMethods, a.MergeMethod) {
		return nil
	}
	return []ValidationError{{
		Field:   "approval.merge_method",
		Message: fmt.Sprintf("must be one of: %s", strings.Join(validMergeMethods, ", ")),
		Value:   a.MergeMethod,
		Wrapped: ErrInvalidConfig,
	}}
}

func validateSystem(s *SystemConfig) []ValidationError {
	if slices.Contains(validLogLevels, strings.ToLower(s.LogLevel)) {
		return nil
	}
	return []ValidationError{{
		Field:   "system.log_level",
		Message: fmt.Sprintf("must be one of: %s", strings.Join(validLogLevels, ", ")),
		Value:   s.LogLevel,
		Wrapped: ErrInvalidConfig,
	}}
}
