// SPDX-License-Identifier: Apache-2.0

package executor

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/kusari-oss/cfnupd/internal/core/models"
	"github.com/mattn/go-shellwords"
	"go.uber.org/zap"
)

// Editor opens files in an interactive editor
type Editor struct {
	command string
	args    []string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	logger  *zap.Logger
}

// NewEditor parses an editor command line such as "code --wait". The file to
// edit is appended as the last argument.
func NewEditor(commandLine string, logger *zap.Logger) (*Editor, error) {
	words, err := shellwords.Parse(commandLine)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing editor command %q: %v", models.ErrEditorInvocationFailed, commandLine, err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: editor command is empty", models.ErrEditorInvocationFailed)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Editor{
		command: words[0],
		args:    words[1:],
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		logger:  logger.Named("editor"),
	}, nil
}

// WithStdio replaces the terminal streams handed to the editor
func (e *Editor) WithStdio(in io.Reader, out, errOut io.Writer) *Editor {
	e.stdin = in
	e.stdout = out
	e.stderr = errOut
	return e
}

// Command returns the editor program and its fixed arguments
func (e *Editor) Command() (string, []string) {
	return e.command, append([]string(nil), e.args...)
}

// Edit opens path and waits for the editor to exit. Failing to start and a
// nonzero exit are both errors.
func (e *Editor) Edit(ctx context.Context, path string) error {
	args := append(append([]string(nil), e.args...), path)

	result, err := NewCommandExecutor(e.command, args).
		WithStdio(e.stdin, e.stdout, e.stderr).
		WithLogger(e.logger).
		Run(ctx)
	if err != nil {
		if result != nil && result.ExitStatus > 0 {
			return fmt.Errorf("%w: %s exited with status %d", models.ErrEditorInvocationFailed, e.command, result.ExitStatus)
		}
		return fmt.Errorf("%w: %s: %v", models.ErrEditorInvocationFailed, e.command, err)
	}

	return nil
}
