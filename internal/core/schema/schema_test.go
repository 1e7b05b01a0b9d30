// SPDX-License-Identifier: Apache-2.0

package schema_test

import (
	"testing"

	"github.com/kusari-oss/cfnupd/internal/core/schema"
	"github.com/stretchr/testify/assert"
)

func TestValidateParameters(t *testing.T) {
	tests := []struct {
		name        string
		document    string
		shouldPass  bool
		errContains string
	}{
		{
			name: "complete record",
			document: `[{"parameter_key": "InstanceType", "parameter_value": "t3.micro",
				"use_previous_value": false, "resolved_value": "N/A"}]`,
			shouldPass: true,
		},
		{
			name:       "empty list",
			document:   `[]`,
			shouldPass: true,
		},
		{
			name:       "missing optional fields",
			document:   `[{"parameter_key": "Env"}]`,
			shouldPass: true,
		},
		{
			name:        "object instead of list",
			document:    `{"parameter_key": "Env"}`,
			shouldPass:  false,
			errContains: "document validation failed",
		},
		{
			name:        "non-boolean use_previous_value",
			document:    `[{"parameter_key": "Env", "use_previous_value": "yes"}]`,
			shouldPass:  false,
			errContains: "use_previous_value",
		},
		{
			name:        "numeric value",
			document:    `[{"parameter_key": "Port", "parameter_value": 8080}]`,
			shouldPass:  false,
			errContains: "parameter_value",
		},
		{
			name:        "misspelt field",
			document:    `[{"parameter_key": "Env", "parameter_vlaue": "prod"}]`,
			shouldPass:  false,
			errContains: "parameter_vlaue",
		},
		{
			name:        "not json",
			document:    `this is not json`,
			shouldPass:  false,
			errContains: "schema validation error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schema.ValidateParameters([]byte(tt.document))
			if tt.shouldPass {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			}
		})
	}
}

func TestValidateCustomSchema(t *testing.T) {
	s := []byte(`{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`)

	assert.NoError(t, schema.Validate(s, []byte(`{"name": "web-app"}`)))

	err := schema.Validate(s, []byte(`{}`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}
