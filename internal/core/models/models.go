// SPDX-License-Identifier: Apache-2.0

package models

import "time"

// NotAvailable is substituted for string fields the remote API or a hand-edited
// parameter file leaves out.
const NotAvailable = "N/A"

// ParameterRecord is one stack parameter as stored in parameters.json
type ParameterRecord struct {
	Key              string `json:"parameter_key"`
	Value            string `json:"parameter_value"`
	UsePreviousValue bool   `json:"use_previous_value"`
	ResolvedValue    string `json:"resolved_value"` // Server-derived, never submitted
}

// ArtifactSet is the pair of local files describing a stack's desired state
type ArtifactSet struct {
	Dir            string
	TemplatePath   string
	ParametersPath string
}

// SaveDirective controls whether artifacts are copied out of the scratch directory
type SaveDirective int

const (
	// SaveAsk prompts the operator
	SaveAsk SaveDirective = iota
	SaveYes
	SaveNo
)

func (d SaveDirective) String() string {
	switch d {
	case SaveYes:
		return "yes"
	case SaveNo:
		return "no"
	default:
		return "ask"
	}
}

// RunOptions contains options for a single update run
type RunOptions struct {
	StackName         string
	AllowCapabilities bool
	Save              SaveDirective
	PollInterval      time.Duration
	MaxWait           time.Duration // Zero disables the limit
}

// Step names, in execution order
const (
	StepFetch   = "fetch"
	StepStage   = "stage"
	StepEdit    = "edit"
	StepSubmit  = "submit"
	StepPoll    = "poll"
	StepPersist = "persist"
)

// Step statuses
const (
	StepPending = "pending"
	StepRunning = "running"
	StepSuccess = "success"
	StepFailure = "failure"
)

// RunStep tracks one stage of an update run
type RunStep struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// RunResult is what an update run leaves behind
type RunResult struct {
	StackName   string      `json:"stack_name"`
	Artifacts   ArtifactSet `json:"-"`
	FinalStatus StackStatus `json:"final_status,omitempty"`
	Polls       int         `json:"polls"`
	SavedTo     string      `json:"saved_to,omitempty"`
	Steps       []RunStep   `json:"steps"`
}

// NewRunResult returns a result with every step pending
func NewRunResult(stackName string) *RunResult {
	names := []string{StepFetch, StepStage, StepEdit, StepSubmit, StepPoll, StepPersist}
	steps := make([]RunStep, 0, len(names))
	for _, n := range names {
		steps = append(steps, RunStep{Name: n, Status: StepPending})
	}
	return &RunResult{StackName: stackName, Steps: steps}
}

// Step returns the named step, or nil if it is unknown
func (r *RunResult) Step(name string) *RunStep {
	for i := range r.Steps {
		if r.Steps[i].Name == name {
			return &r.Steps[i]
		}
	}
	return nil
}
