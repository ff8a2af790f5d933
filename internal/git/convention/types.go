// Package convention validates commit messages against the Conventional
// Commits format.
package convention

import (
	"fmt"
	"regexp"

	"github.com/modu-ai/devkit/internal/config"
)

// ViolationType classifies a convention violation.
type ViolationType string

const (
	// ViolationRequired means a mandatory part is missing.
	ViolationRequired ViolationType = "required"

	// ViolationMaxLength means the header is too long.
	ViolationMaxLength ViolationType = "max_length"

	// ViolationPattern means the header does not match the pattern.
	ViolationPattern ViolationType = "pattern"

	// ViolationInvalidType means the commit type is not allowed.
	ViolationInvalidType ViolationType = "invalid_type"

	// ViolationInvalidScope means the commit scope is not allowed.
	ViolationInvalidScope ViolationType = "invalid_scope"
)

// ConventionalPattern matches "type(scope)!: description".
var ConventionalPattern = regexp.MustCompile(`^[a-z]+(\([\w\-./, ]+\))?!?: \S.*$`)

// Convention describes the accepted commit header format.
type Convention struct {
	Name      string
	Pattern   *regexp.Regexp
	Types     []string
	Scopes    []string
	MaxLength int
}

// Violation is one rule a message breaks.
type Violation struct {
	Type       ViolationType
	Field      string
	Expected   string
	Actual     string
	Suggestion string
}

// String renders the violation for terminal output.
func (v Violation) String() string {
	if v.Actual == "" {
		return fmt.Sprintf("%s %s: expected %s", v.Field, v.Type, v.Expected)
	}
	return fmt.Sprintf("%s %s: expected %s, got %q", v.Field, v.Type, v.Expected, v.Actual)
}

// ValidationResult is the outcome of validating one message.
type ValidationResult struct {
	Valid      bool
	Message    string
	Violations []Violation
}

// FromConfig builds a Conventional Commits convention from configuration.
func FromConfig(cfg config.CommitConfig) *Convention {
	return &Convention{
		Name:      "conventional",
		Pattern:   ConventionalPattern,
		Types:     cfg.Types,
		Scopes:    cfg.Scopes,
		MaxLength: cfg.MaxLength,
	}
}
