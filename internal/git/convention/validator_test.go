package convention

import (
	"strings"
	"testing"

	"github.com/modu-ai/devkit/internal/config"
	"github.com/modu-ai/devkit/internal/git"
)

func testConvention() *Convention {
	return FromConfig(config.NewDefaultConfig().Commits)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		message  string
		valid    bool
		wantType ViolationType
	}{
		{"simple", "feat: add gate command", true, ""},
		{"scope", "fix(policy): handle indirect updates", true, ""},
		{"breaking", "refactor(cli)!: rename flags", true, ""},
		{"body ignored", "docs: readme\n\nlong body " + strings.Repeat("x", 200), true, ""},
		{"empty", "   ", false, ViolationRequired},
		{"no type", "Add gate command", false, ViolationPattern},
		{"unknown type", "feature: add gate", false, ViolationInvalidType},
		{"missing description", "feat: ", false, ViolationPattern},
		{"too long", "feat: " + strings.Repeat("a", 100), false, ViolationMaxLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Validate(tt.message, testConvention())
			if got.Valid != tt.valid {
				t.Fatalf("Validate(%q).Valid = %v, want %v (%+v)", tt.message, got.Valid, tt.valid, got.Violations)
			}
			if tt.wantType != "" && got.Violations[0].Type != tt.wantType {
				t.Errorf("violation = %s, want %s", got.Violations[0].Type, tt.wantType)
			}
		})
	}
}

func TestValidate_NilConvention(t *testing.T) {
	t.Parallel()

	if got := Validate("anything", nil); !got.Valid {
		t.Error("Validate(nil convention) must accept every message")
	}
}

func TestValidate_CountsRunesAfterNormalization(t *testing.T) {
	t.Parallel()

	conv := testConvention()
	conv.MaxLength = 11
	// "e" followed by a combining acute accent composes to a single rune.
	header := "fix: cafe\u0301ss"
	if got := Validate(header, conv); !got.Valid {
		t.Errorf("Validate(%q) = %+v, want valid", header, got.Violations)
	}
}

func TestValidate_Scopes(t *testing.T) {
	t.Parallel()

	conv := testConvention()
	conv.Scopes = []string{"cli", "policy"}

	if got := Validate("feat(cli): add flag", conv); !got.Valid {
		t.Errorf("allowed scope rejected: %+v", got.Violations)
	}
	got := Validate("feat(web): add page", conv)
	if got.Valid || got.Violations[0].Type != ViolationInvalidScope {
		t.Errorf("Validate() = %+v, want invalid scope", got)
	}
}

func TestSuggestFix(t *testing.T) {
	t.Parallel()

	got := Validate("Fix crash in gate", testConvention())
	if got.Valid {
		t.Fatal("expected violation")
	}
	if s := got.Violations[0].Suggestion; s != "fix: fix crash in gate" {
		t.Errorf("Suggestion = %q", s)
	}
}

func TestLinter_LintCommits(t *testing.T) {
	t.Parallel()

	commits := []git.Commit{
		{Hash: "a", Author: "Dev", Parents: []string{"p"}, Message: "feat: ok"},
		{Hash: "b", Author: "Dev", Parents: []string{"p", "q"}, Message: "Merge branch 'main'"},
		{Hash: "c", Author: "dependabot[bot]", Parents: []string{"p"}, Message: "Bump x from 1 to 2"},
		{Hash: "d", Author: "Dev", Parents: []string{"p"}, Message: "wip"},
	}
	l := NewLinter(testConvention(), "dependabot[bot]")
	results := l.LintCommits(commits)

	if len(results) != 4 {
		t.Fatalf("results = %d, want 4", len(results))
	}
	if !results[1].Skipped || !results[2].Skipped {
		t.Error("merge and bot commits must be skipped")
	}
	if results[3].Result.Valid {
		t.Error("\"wip\" accepted")
	}
	if n := Failed(results); n != 1 {
		t.Errorf("Failed() = %d, want 1", n)
	}
}

func TestLinter_LintMessages(t *testing.T) {
	t.Parallel()

	l := NewLinter(testConvention(), "")
	got := l.LintMessages([]string{"feat: a", "nope"})
	if !got[0].Valid || got[1].Valid {
		t.Errorf("LintMessages() = %+v", got)
	}
}

func TestSplitHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header    string
		wantType  string
		wantScope string
	}{
		{"feat(auth): add JWT", "feat", "auth"},
		{"fix!: drop flag", "fix", ""},
		{"refactor(cli)!: rename", "refactor", "cli"},
		{"no convention here", "", ""},
	}
	for _, tt := range tests {
		gotType, gotScope := splitHeader(tt.header)
		if gotType != tt.wantType || gotScope != tt.wantScope {
			t.Errorf("splitHeader(%q) = (%q, %q), want (%q, %q)", tt.header, gotType, gotScope, tt.wantType, tt.wantScope)
		}
	}
}
