package convention

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Validate checks a commit message against a convention.
// If conv is nil the message is considered valid.
func Validate(message string, conv *Convention) ValidationResult {
	if conv == nil {
		return ValidationResult{Valid: true, Message: message}
	}

	result := ValidationResult{Message: message}

	// Only the header is checked; NFC keeps composed characters at one rune.
	header := strings.SplitN(message, "\n", 2)[0]
	header = norm.NFC.String(strings.TrimSpace(header))

	if header == "" {
		result.Violations = append(result.Violations, Violation{
			Type:     ViolationRequired,
			Field:    "header",
			Expected: "non-empty commit message",
			Actual:   "",
		})
		result.Valid = false
		return result
	}

	if n := utf8.RuneCountInString(header); conv.MaxLength > 0 && n > conv.MaxLength {
		result.Violations = append(result.Violations, Violation{
			Type:     ViolationMaxLength,
			Field:    "header",
			Expected: fmt.Sprintf("max %d characters", conv.MaxLength),
			Actual:   fmt.Sprintf("%d characters", n),
		})
	}

	if !conv.Pattern.MatchString(header) {
		result.Violations = append(result.Violations, Violation{
			Type:       ViolationPattern,
			Field:      "header",
			Expected:   "type(scope): description",
			Actual:     header,
			Suggestion: suggestFix(header, conv),
		})
	} else {
		validateSemantics(header, conv, &result)
	}

	result.Valid = len(result.Violations) == 0
	return result
}

// validateSemantics checks type and scope against allowed lists.
func validateSemantics(header string, conv *Convention, result *ValidationResult) {
	commitType, scope := splitHeader(header)

	if len(conv.Types) > 0 && commitType != "" && !slices.Contains(conv.Types, commitType) {
		result.Violations = append(result.Violations, Violation{
			Type:       ViolationInvalidType,
			Field:      "type",
			Expected:   strings.Join(conv.Types, ", "),
			Actual:     commitType,
			Suggestion: suggestFix(header, conv),
		})
	}

	if len(conv.Scopes) > 0 && scope != "" && !slices.Contains(conv.Scopes, scope) {
		result.Violations = append(result.Violations, Violation{
			Type:     ViolationInvalidScope,
			Field:    "scope",
			Expected: strings.Join(conv.Scopes, ", "),
			Actual:   scope,
		})
	}
}

// headerParts captures the type and scope of a well-formed header.
var headerParts = regexp.MustCompile(`^([a-z]+)(?:\(([^)]*)\))?!?: `)

// splitHeader returns the type and scope of a header, e.g.
// "feat(auth): add JWT" -> ("feat", "auth").
func splitHeader(header string) (commitType, scope string) {
	m := headerParts.FindStringSubmatch(header)
	if m == nil {
		return "", ""
	}
	return m[1], m[2]
}

// typeKeywords maps description keywords to a likely commit type, first
// match wins.
var typeKeywords = []struct {
	commitType string
	words      []string
}{
	{"fix", []string{"fix", "bug"}},
	{"feat", []string{"add", "feat", "new"}},
	{"docs", []string{"doc", "readme"}},
	{"test", []string{"test"}},
	{"refactor", []string{"refactor", "clean"}},
}

// suggestFix guesses a type from keywords and prefixes the description.
func suggestFix(header string, conv *Convention) string {
	desc := header
	if _, after, ok := strings.Cut(header, ": "); ok {
		desc = after
	}
	desc = strings.TrimLeft(strings.TrimSpace(desc), "(): ")
	lower := strings.ToLower(desc)

	suggestedType := "chore"
guess:
	for _, kw := range typeKeywords {
		for _, w := range kw.words {
			if strings.Contains(lower, w) {
				suggestedType = kw.commitType
				break guess
			}
		}
	}
	if len(conv.Types) > 0 && !slices.Contains(conv.Types, suggestedType) {
		suggestedType = conv.Types[0]
	}

	if desc != "" {
		r, size := utf8.DecodeRuneInString(desc)
		desc = strings.ToLower(string(r)) + desc[size:]
	}

	return suggestedType + ": " + desc
}
