package policy

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoMetadata indicates a commit message without an updated-dependencies
// block.
var ErrNoMetadata = errors.New("policy: no dependency metadata in commit message")

// updatedDependency is one entry of the bot's commit front matter.
type updatedDependency struct {
	Name           string `yaml:"dependency-name"`
	DependencyType string `yaml:"dependency-type"`
	UpdateType     string `yaml:"update-type"`
}

type frontMatter struct {
	UpdatedDependencies []updatedDependency `yaml:"updated-dependencies"`
}

// ParseMetadata extracts update metadata from a dependency-bot commit
// message. The block is delimited by "---" and "..." lines. With several
// dependencies the highest update type wins and production beats
// development.
func ParseMetadata(message string) (Metadata, error) {
	block, ok := frontMatterBlock(message)
	if !ok {
		return Metadata{}, ErrNoMetadata
	}

	var fm frontMatter
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return Metadata{}, fmt.Errorf("parse dependency metadata: %w", err)
	}
	if len(fm.UpdatedDependencies) == 0 {
		return Metadata{}, ErrNoMetadata
	}

	return combine(fm.UpdatedDependencies...), nil
}

// combine merges per-dependency metadata into one.
func combine(deps ...updatedDependency) Metadata {
	var md Metadata
	for _, dep := range deps {
		if u := UpdateType(dep.UpdateType); u.rank() > md.UpdateType.rank() {
			md.UpdateType = u
		}
		if d := DependencyType(dep.DependencyType); d.rank() > md.DependencyType.rank() {
			md.DependencyType = d
		}
	}
	return md
}

func frontMatterBlock(message string) (string, bool) {
	lines := strings.Split(strings.ReplaceAll(message, "\r\n", "\n"), "\n")
	start := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if start < 0 {
			if trimmed == "---" {
				start = i + 1
			}
			continue
		}
		if trimmed == "..." || trimmed == "---" {
			return strings.Join(lines[start:i], "\n"), true
		}
	}
	if start >= 0 {
		return strings.Join(lines[start:], "\n"), true
	}
	return "", false
}
