// SPDX-License-Identifier: Apache-2.0

package models

import "strings"

// StackStatus is the remote stack state as reported by the API. The set of values
// is owned by the remote system, so it is only ever classified by substring.
type StackStatus string

// StatusClass groups stack statuses for control flow and display
type StatusClass int

const (
	StatusStable StatusClass = iota
	StatusInProgress
	StatusFailed
)

func (c StatusClass) String() string {
	switch c {
	case StatusInProgress:
		return "in-progress"
	case StatusFailed:
		return "failed"
	default:
		return "stable"
	}
}

// Class classifies the status. IN_PROGRESS takes precedence, so
// UPDATE_ROLLBACK_IN_PROGRESS keeps the poll loop running.
func (s StackStatus) Class() StatusClass {
	str := string(s)
	switch {
	case strings.Contains(str, "IN_PROGRESS"):
		return StatusInProgress
	case strings.Contains(str, "FAIL"), strings.Contains(str, "ROLLBACK"):
		return StatusFailed
	default:
		return StatusStable
	}
}

// InProgress reports whether the stack is still transitioning
func (s StackStatus) InProgress() bool {
	return s.Class() == StatusInProgress
}
