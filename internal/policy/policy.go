// Package policy decides how a pull request is approved and merged based on
// its author and, for dependency-bot pull requests, the update metadata.
package policy

import (
	"fmt"
	"strings"
)

// UpdateType is the semantic-version class of a dependency update.
type UpdateType string

// Update types reported by the dependency bot.
const (
	UpdatePatch UpdateType = "version-update:semver-patch"
	UpdateMinor UpdateType = "version-update:semver-minor"
	UpdateMajor UpdateType = "version-update:semver-major"
)

// rank orders update types; unknown types rank lowest.
func (u UpdateType) rank() int {
	switch u {
	case UpdatePatch:
		return 1
	case UpdateMinor:
		return 2
	case UpdateMajor:
		return 3
	default:
		return 0
	}
}

// DependencyType tells where an updated dependency is used.
type DependencyType string

// Dependency types reported by the dependency bot.
const (
	DirectProduction  DependencyType = "direct:production"
	DirectDevelopment DependencyType = "direct:development"
	Indirect          DependencyType = "indirect"
)

func (d DependencyType) rank() int {
	switch d {
	case Indirect:
		return 1
	case DirectDevelopment:
		return 2
	case DirectProduction:
		return 3
	default:
		return 0
	}
}

// Review bodies posted by the policy.
const (
	BodyPatchOrMinor = "I'm **approving** this pull request because **it includes a patch or minor update**"
	BodyMajorDev     = "I'm **approving** this pull request because **it includes a major update of a dependency only used in development**"
	BodyMajorProd    = "I'm **not approving** this PR because **it includes a major update of a dependency used in production**"
)

// Metadata describes a dependency update.
type Metadata struct {
	UpdateType     UpdateType
	DependencyType DependencyType
}

// Input is everything the policy looks at.
type Input struct {
	Author   string
	Owner    string
	Metadata Metadata
}

// Rules holds the configurable parts of the policy.
type Rules struct {
	BotLogin      string
	ManualQALabel string
	MergeMethod   string
}

// Decision is the set of actions to take on a pull request.
type Decision struct {
	Approve         bool
	ApprovalBody    string
	Comment         string
	Labels          []string
	Assignees       []string
	EnableAutoMerge bool
	ClearAutoMerge  bool
	MergeMethod     string
	// Reason explains the decision for logs and reports.
	Reason string
}

// NoAction reports whether the decision changes nothing.
func (d Decision) NoAction() bool {
	return !d.Approve && d.Comment == "" && len(d.Labels) == 0 && len(d.Assignees) == 0 &&
		!d.EnableAutoMerge && !d.ClearAutoMerge
}

// Evaluate applies the approval policy to in.
func Evaluate(in Input, rules Rules) Decision {
	switch {
	case in.Author != "" && in.Author == in.Owner:
		return Decision{Approve: true, Reason: "pull request opened by the repository owner"}
	case in.Author == rules.BotLogin:
		return evaluateBot(in, rules)
	default:
		return Decision{Reason: fmt.Sprintf("author %q is neither the owner nor %s", in.Author, rules.BotLogin)}
	}
}

func evaluateBot(in Input, rules Rules) Decision {
	d := Decision{
		ClearAutoMerge:  true,
		EnableAutoMerge: true,
		MergeMethod:     rules.MergeMethod,
	}
	md := in.Metadata

	switch {
	case md.UpdateType == UpdatePatch || md.UpdateType == UpdateMinor:
		d.Approve = true
		d.ApprovalBody = BodyPatchOrMinor
		d.Reason = "patch or minor update"
	case md.UpdateType == UpdateMajor && md.DependencyType == DirectDevelopment:
		d.Approve = true
		d.ApprovalBody = BodyMajorDev
		d.Reason = "major update of a development dependency"
	case md.UpdateType == UpdateMajor && md.DependencyType == DirectProduction:
		d.Comment = BodyMajorProd
		d.Labels = []string{rules.ManualQALabel}
		if in.Owner != "" {
			d.Assignees = []string{in.Owner}
		}
		d.Reason = "major update of a production dependency needs manual QA"
	default:
		d.Reason = fmt.Sprintf("no rule for update %q of %q dependency", md.UpdateType, md.DependencyType)
	}
	return d
}

// Markdown renders the decision as a short markdown report.
func (d Decision) Markdown() string {
	var b strings.Builder
	b.WriteString("# Approval policy\n\n")
	fmt.Fprintf(&b, "**Reason:** %s\n\n", d.Reason)

	if d.NoAction() {
		b.WriteString("No action taken.\n")
		return b.String()
	}

	if d.ClearAutoMerge {
		b.WriteString("- Clear auto-merge\n")
	}
	if d.Approve {
		if d.ApprovalBody != "" {
			fmt.Fprintf(&b, "- Approve: %s\n", d.ApprovalBody)
		} else {
			b.WriteString("- Approve\n")
		}
	}
	if d.Comment != "" {
		fmt.Fprintf(&b, "- Comment: %s\n", d.Comment)
	}
	if len(d.Labels) > 0 {
		fmt.Fprintf(&b, "- Labels: `%s`\n", strings.Join(d.Labels, "`, `"))
	}
	if len(d.Assignees) > 0 {
		fmt.Fprintf(&b, "- Assign: %s\n", strings.Join(d.Assignees, ", "))
	}
	if d.EnableAutoMerge {
		fmt.Fprintf(&b, "- Enable auto-merge (%s)\n", d.MergeMethod)
	}
	return b.String()
}
