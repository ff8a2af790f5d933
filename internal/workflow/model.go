// Package workflow generates GitHub Actions workflow and composite action
// definitions for the project's CI.
package workflow

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Workflow is a GitHub Actions workflow file. Field order is the emitted key
// order.
type Workflow struct {
	Name        string            `yaml:"name"`
	RunName     string            `yaml:"run-name"`
	Permissions map[string]string `yaml:"permissions,omitempty"`
	On          Triggers          `yaml:"on"`
	Jobs        *Jobs             `yaml:"jobs"`
}

// Triggers lists the events a workflow reacts to.
type Triggers struct {
	Push        *BranchFilter `yaml:"push,omitempty"`
	PullRequest *BranchFilter `yaml:"pull_request,omitempty"`
}

// BranchFilter restricts an event to the named branches.
type BranchFilter struct {
	Branches []string `yaml:"branches"`
}

// Job is one workflow job.
type Job struct {
	Name      string            `yaml:"name"`
	RunsOn    string            `yaml:"runs-on"`
	Container string            `yaml:"container,omitempty"`
	If        string            `yaml:"if,omitempty"`
	Needs     []string          `yaml:"needs,omitempty"`
	Env       map[string]string `yaml:"env,omitempty"`
	Steps     []Step            `yaml:"steps"`
}

// Step is one job or composite action step.
type Step struct {
	Name  string            `yaml:"name,omitempty"`
	ID    string            `yaml:"id,omitempty"`
	If    string            `yaml:"if,omitempty"`
	Uses  string            `yaml:"uses,omitempty"`
	With  map[string]string `yaml:"with,omitempty"`
	Run   string            `yaml:"run,omitempty"`
	Shell string            `yaml:"shell,omitempty"`
	Env   map[string]string `yaml:"env,omitempty"`
}

// Action is a composite action definition (action.yml).
type Action struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Runs        ActionRuns `yaml:"runs"`
}

// ActionRuns holds the composite steps of an action.
type ActionRuns struct {
	Using string `yaml:"using"`
	Steps []Step `yaml:"steps"`
}

// Jobs is an insertion-ordered job map.
type Jobs struct {
	ids  []string
	jobs map[string]Job
}

// NewJobs creates an empty job map.
func NewJobs() *Jobs {
	return &Jobs{jobs: make(map[string]Job)}
}

// Set adds or replaces a job, keeping the original position on replace.
func (j *Jobs) Set(id string, job Job) {
	if _, ok := j.jobs[id]; !ok {
		j.ids = append(j.ids, id)
	}
	j.jobs[id] = job
}

// Get returns the job with the given id.
func (j *Jobs) Get(id string) (Job, bool) {
	job, ok := j.jobs[id]
	return job, ok
}

// IDs returns job ids in insertion order.
func (j *Jobs) IDs() []string {
	return append([]string(nil), j.ids...)
}

// Len returns the number of jobs.
func (j *Jobs) Len() int {
	return len(j.ids)
}

// MarshalYAML emits the jobs as a mapping in insertion order.
func (j *Jobs) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, id := range j.ids {
		var value yaml.Node
		if err := value.Encode(j.jobs[id]); err != nil {
			return nil, fmt.Errorf("encode job %s: %w", id, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: id},
			&value,
		)
	}
	return node, nil
}

// Encode renders v as YAML with two-space indentation. Multi-line strings
// are emitted as literal blocks.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}
