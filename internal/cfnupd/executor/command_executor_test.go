// SPDX-License-Identifier: Apache-2.0

package executor_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/kusari-oss/cfnupd/internal/cfnupd/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandExecutor(t *testing.T) {
	// Skip tests if running on Windows because the commands are different
	if runtime.GOOS == "windows" {
		t.Skip("Skipping test on Windows")
	}

	outputFile := filepath.Join(t.TempDir(), "output.txt")

	tests := []struct {
		name        string
		command     string
		args        []string
		shouldError bool
		exitStatus  int
		check       func(t *testing.T, stdout string)
	}{
		{
			name:    "echo command",
			command: "echo",
			args:    []string{"Hello, World!"},
			check: func(t *testing.T, stdout string) {
				assert.Equal(t, "Hello, World!\n", stdout)
			},
		},
		{
			name:    "write to file",
			command: "sh",
			args:    []string{"-c", "echo 'File content' > " + outputFile},
			check: func(t *testing.T, _ string) {
				content, err := os.ReadFile(outputFile)
				assert.NoError(t, err, "Failed to read output file")
				assert.Contains(t, string(content), "File content")
			},
		},
		{
			name:        "nonexistent command",
			command:     "thiscommanddoesnotexist",
			shouldError: true,
			exitStatus:  -1,
		},
		{
			name:        "nonzero exit",
			command:     "sh",
			args:        []string{"-c", "exit 3"},
			shouldError: true,
			exitStatus:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer
			result, err := executor.NewCommandExecutor(tt.command, tt.args).
				WithStdio(nil, &stdout, &stdout).
				Run(context.Background())

			require.NotNil(t, result)
			if tt.shouldError {
				assert.Error(t, err, "Expected error for command: %s", tt.command)
				assert.Equal(t, tt.exitStatus, result.ExitStatus)
				return
			}

			assert.NoError(t, err, "Unexpected error for command: %s %v", tt.command, tt.args)
			assert.Equal(t, 0, result.ExitStatus)
			if tt.check != nil {
				tt.check(t, stdout.String())
			}
		})
	}
}

func TestCommandExecutorRunAttachesStdio(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Skipping test on Windows")
	}

	var stdout, stderr bytes.Buffer
	result, err := executor.NewCommandExecutor("sh", []string{"-c", "read line; echo got:$line; echo oops >&2"}).
		WithStdio(strings.NewReader("hello\n"), &stdout, &stderr).
		Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitStatus)
	assert.Equal(t, "got:hello\n", stdout.String())
	assert.Equal(t, "oops\n", stderr.String())
}

func TestCommandExecutorCancelled(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Skipping test on Windows")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := executor.NewCommandExecutor("sleep", []string{"5"}).Run(ctx)
	assert.Error(t, err)
}
