//go:build integration

// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kusari-oss/cfnupd/internal/cfnupd/orchestrator"
	"github.com/kusari-oss/cfnupd/internal/core/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// TestEditWorkflow drives the whole command with a real editor process. Only the
// CloudFormation side is mocked.
func TestEditWorkflow(t *testing.T) {
	isolate(t)
	f := newFakeDeps(t)

	script := filepath.Join(t.TempDir(), "fake-editor.sh")
	require.NoError(t, os.WriteFile(script, []byte(`#!/bin/sh
case "$1" in
  *.yaml) printf 'Resources:\n  Queue:\n    Type: AWS::SQS::Queue\n' > "$1" ;;
  *.json) printf '[{"parameter_key": "Retention", "parameter_value": "86400"}]' > "$1" ;;
esac
`), 0755))

	deps := DefaultDependencies()
	deps.NewStackClient = f.deps().NewStackClient
	deps.NewStore = func() (orchestrator.ArtifactStore, error) { return f.store, nil }

	f.client.On("FetchTemplate", mock.Anything, "queue-stack").Return("Resources: {}", nil)
	f.client.On("FetchParameters", mock.Anything, "queue-stack").
		Return([]models.ParameterRecord{{Key: "Retention", Value: "3600", ResolvedValue: models.NotAvailable}}, nil)
	f.client.On("SubmitUpdate", mock.Anything, "queue-stack",
		"Resources:\n  Queue:\n    Type: AWS::SQS::Queue\n",
		[]models.ParameterRecord{{Key: "Retention", Value: "86400", ResolvedValue: models.NotAvailable}},
		false).Return(nil)
	f.client.On("QueryStatus", mock.Anything, "queue-stack").Return(models.StackStatus("UPDATE_COMPLETE"), nil)

	out, err := execute(t, deps, "", "-s", "queue-stack", "--editor", script, "--save=false", "-v")
	require.NoError(t, err)

	f.client.AssertExpectations(t)
	assert.Contains(t, out, "Artifacts are not saved in the current directory")
	assert.NoDirExists(t, filepath.Join(f.store.WorkDir, "queue-stack"))
}
