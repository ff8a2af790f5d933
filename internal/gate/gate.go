// Package gate aggregates CI job results into a single pass/fail verdict.
package gate

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Job results as reported by GitHub Actions.
const (
	ResultSuccess   = "success"
	ResultFailure   = "failure"
	ResultCancelled = "cancelled"
	ResultSkipped   = "skipped"
	// ResultMissing marks a required job absent from the input.
	ResultMissing = "missing"
)

// Verdict messages.
const (
	MessagePassed = "All tests passed"
	MessageFailed = "Some tests failed"
)

// ErrInvalidNeeds indicates the needs document could not be decoded.
var ErrInvalidNeeds = errors.New("gate: invalid needs JSON")

// JobResult is the outcome of one job.
type JobResult struct {
	Job    string
	Result string
}

// Passed reports whether the result lets the gate pass.
func (r JobResult) Passed() bool {
	return r.Result == ResultSuccess || r.Result == ResultSkipped
}

// Verdict is the aggregated outcome.
type Verdict struct {
	Results []JobResult
	Failed  []JobResult
}

// Passed reports whether every job passed.
func (v Verdict) Passed() bool {
	return len(v.Failed) == 0
}

// Message returns the one-line verdict.
func (v Verdict) Message() string {
	if v.Passed() {
		return MessagePassed
	}
	return MessageFailed
}

// needEntry mirrors one value of the `needs` context.
type needEntry struct {
	Result  string            `json:"result"`
	Outputs map[string]string `json:"outputs"`
}

// ParseNeeds decodes the JSON rendering of the `needs` context, e.g.
// {"lint": {"result": "success", "outputs": {}}}. Results are sorted by job.
func ParseNeeds(data []byte) ([]JobResult, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}

	var needs map[string]needEntry
	if err := json.Unmarshal(data, &needs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNeeds, err)
	}

	results := make([]JobResult, 0, len(needs))
	for job, n := range needs {
		results = append(results, JobResult{Job: job, Result: n.Result})
	}
	slices.SortFunc(results, func(a, b JobResult) int { return strings.Compare(a.Job, b.Job) })
	return results, nil
}

// Evaluate fails when any considered job is neither success nor skipped.
// When required is non-empty only those jobs are considered and a required
// job missing from results fails. Empty input passes.
func Evaluate(results []JobResult, required []string) Verdict {
	considered := results
	if len(required) > 0 {
		considered = make([]JobResult, 0, len(required))
		for _, name := range required {
			idx := slices.IndexFunc(results, func(r JobResult) bool { return r.Job == name })
			if idx < 0 {
				considered = append(considered, JobResult{Job: name, Result: ResultMissing})
				continue
			}
			considered = append(considered, results[idx])
		}
	}

	v := Verdict{Results: considered}
	for _, r := range considered {
		if !r.Passed() {
			v.Failed = append(v.Failed, r)
		}
	}
	return v
}
