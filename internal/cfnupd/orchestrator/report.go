// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/kusari-oss/cfnupd/internal/core/models"
	"golang.org/x/term"
)

const totalSteps = 5

var (
	stepLabel        = color.New(color.Bold, color.Faint).SprintFunc()
	statusInProgress = color.New(color.FgBlue).SprintFunc()
	statusFailed     = color.New(color.FgRed).SprintFunc()
	statusStable     = color.New(color.FgGreen).SprintFunc()
)

// reporter prints operator-facing progress
type reporter struct {
	out      io.Writer
	colorize bool
}

func (r *reporter) label(s string) string {
	if r.colorize {
		return stepLabel(s)
	}
	return s
}

// progress prints a numbered banner such as "[2/5] Fetched 3 parameters"
func (r *reporter) progress(n int, format string, args ...interface{}) {
	fmt.Fprintf(r.out, "%s %s\n", r.label(fmt.Sprintf("[%d/%d]", n, totalSteps)), fmt.Sprintf(format, args...))
}

func (r *reporter) status(s models.StackStatus) {
	text := string(s)
	if r.colorize {
		switch s.Class() {
		case models.StatusInProgress:
			text = statusInProgress(text)
		case models.StatusFailed:
			text = statusFailed(text)
		default:
			text = statusStable(text)
		}
	}
	fmt.Fprintf(r.out, "%s Stack status: %s\n", r.label("***"), text)
}

func (r *reporter) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format, args...)
}

// IsTerminalWriter reports whether w is attached to a terminal
func IsTerminalWriter(w io.Writer) bool {
	type fdProvider interface {
		Fd() uintptr
	}
	if v, ok := w.(fdProvider); ok {
		return term.IsTerminal(int(v.Fd()))
	}
	return false
}
