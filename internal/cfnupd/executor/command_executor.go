// SPDX-License-Identifier: Apache-2.0

package executor

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// CommandExecutor handles running a subprocess attached to a set of streams
type CommandExecutor struct {
	command string
	args    []string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	logger  *zap.Logger
}

// CommandResult holds the result of command execution
type CommandResult struct {
	Error      error
	ExitStatus int
}

// NewCommandExecutor creates a new command executor
func NewCommandExecutor(command string, args []string) *CommandExecutor {
	return &CommandExecutor{
		command: command,
		args:    args,
		logger:  zap.NewNop(),
	}
}

// WithStdio attaches the process to the given streams
func (e *CommandExecutor) WithStdio(in io.Reader, out, errOut io.Writer) *CommandExecutor {
	e.stdin = in
	e.stdout = out
	e.stderr = errOut
	return e
}

// WithLogger sets the logger used to trace executions
func (e *CommandExecutor) WithLogger(logger *zap.Logger) *CommandExecutor {
	if logger != nil {
		e.logger = logger
	}
	return e
}

// Run runs the command, blocking until it exits. Used for interactive programs
// such as editors.
func (e *CommandExecutor) Run(ctx context.Context) (*CommandResult, error) {
	cmd := exec.CommandContext(ctx, e.command, e.args...)
	cmd.Stdin = e.stdin
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr

	e.logger.Debug("executing command",
		zap.String("command", e.command),
		zap.String("args", strings.Join(e.args, " ")))

	err := cmd.Run()
	return &CommandResult{Error: err, ExitStatus: exitStatus(err)}, err
}

// exitStatus returns the process exit code, or -1 if it never ran
func exitStatus(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
