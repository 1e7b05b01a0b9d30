// SPDX-License-Identifier: Apache-2.0

package parameters

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/kusari-oss/cfnupd/internal/core/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	records := []models.ParameterRecord{
		{Key: "InstanceType", Value: "t3.micro", UsePreviousValue: false, ResolvedValue: "N/A"},
	}

	data, err := Encode(records)
	require.NoError(t, err)

	expected := `[
  {
    "parameter_key": "InstanceType",
    "parameter_value": "t3.micro",
    "use_previous_value": false,
    "resolved_value": "N/A"
  }
]
`
	assert.Equal(t, expected, string(data))

	t.Run("NilEncodesAsEmptyList", func(t *testing.T) {
		data, err := Encode(nil)
		require.NoError(t, err)
		assert.Equal(t, "[]\n", string(data))
	})

	t.Run("NoHTMLEscaping", func(t *testing.T) {
		data, err := Encode([]models.ParameterRecord{{Key: "Cidr", Value: "<10.0.0.0/16>&"}})
		require.NoError(t, err)
		assert.Contains(t, string(data), `"<10.0.0.0/16>&"`)
	})
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		records []models.ParameterRecord
	}{
		{
			name:    "empty",
			records: []models.ParameterRecord{},
		},
		{
			name: "single",
			records: []models.ParameterRecord{
				{Key: "InstanceType", Value: "t3.micro", ResolvedValue: "N/A"},
			},
		},
		{
			name: "order and exact strings preserved",
			records: []models.ParameterRecord{
				{Key: "Zeta", Value: "  padded  ", ResolvedValue: "N/A"},
				{Key: "Alpha", Value: "", UsePreviousValue: true, ResolvedValue: "N/A"},
				{Key: "Unicode", Value: "héllo \"quoted\" \\ slash\nnewline", ResolvedValue: "N/A"},
				{Key: "Ssm", Value: "/app/db/password", ResolvedValue: "s3cr3t"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.records)
			require.NoError(t, err)

			decoded, err := Decode(data)
			require.NoError(t, err)
			require.Len(t, decoded, len(tt.records))

			for i := range tt.records {
				assert.Equal(t, tt.records[i].Key, decoded[i].Key)
				assert.Equal(t, tt.records[i].Value, decoded[i].Value)
				assert.Equal(t, tt.records[i].UsePreviousValue, decoded[i].UsePreviousValue)
			}
		})
	}
}

func TestDecodePermissive(t *testing.T) {
	data := []byte(`[
  {"parameter_key": "OnlyKey"},
  {"parameter_key": "KeepOld", "use_previous_value": true},
  {"parameter_key": "Full", "parameter_value": "v", "use_previous_value": false, "resolved_value": "r"}
]`)

	records, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, models.ParameterRecord{Key: "OnlyKey", Value: "N/A", ResolvedValue: "N/A"}, records[0])
	assert.Equal(t, models.ParameterRecord{Key: "KeepOld", Value: "N/A", UsePreviousValue: true, ResolvedValue: "N/A"}, records[1])
	assert.Equal(t, models.ParameterRecord{Key: "Full", Value: "v", ResolvedValue: "r"}, records[2])
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"missing key", `[{"parameter_value": "v"}]`, models.ErrEmptyOrMissingField},
		{"empty key", `[{"parameter_key": ""}]`, models.ErrEmptyOrMissingField},
		{"not a list", `{"parameter_key": "k"}`, models.ErrMalformedParameterData},
		{"list of strings", `["k"]`, models.ErrMalformedParameterData},
		{"wrong field type", `[{"parameter_key": "k", "use_previous_value": "true"}]`, models.ErrMalformedParameterData},
		{"unknown field", `[{"parameter_key": "k", "parameter_vlaue": "v"}]`, models.ErrMalformedParameterData},
		{"duplicate key", `[{"parameter_key": "k"}, {"parameter_key": "k"}]`, models.ErrMalformedParameterData},
		{"truncated", `[{"parameter_key": "k"`, models.ErrMalformedParameterData},
		{"empty file", ``, models.ErrMalformedParameterData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := Decode([]byte(tt.data))
			assert.Nil(t, records)
			assert.ErrorIs(t, err, tt.wantErr)
			// every decode failure is malformed data, a missing key included
			assert.ErrorIs(t, err, models.ErrMalformedParameterData)
		})
	}
}

func TestToRemote(t *testing.T) {
	records := []models.ParameterRecord{
		{Key: "InstanceType", Value: "t3.large", ResolvedValue: "ignored"},
		{Key: "DbPassword", Value: "N/A", UsePreviousValue: true, ResolvedValue: "N/A"},
	}

	params := ToRemote(records)
	require.Len(t, params, 2)

	assert.Equal(t, "InstanceType", aws.ToString(params[0].ParameterKey))
	assert.Equal(t, "t3.large", aws.ToString(params[0].ParameterValue))
	assert.False(t, aws.ToBool(params[0].UsePreviousValue))
	assert.Nil(t, params[0].ResolvedValue)

	assert.Equal(t, "DbPassword", aws.ToString(params[1].ParameterKey))
	assert.Nil(t, params[1].ParameterValue)
	assert.True(t, aws.ToBool(params[1].UsePreviousValue))
	assert.Nil(t, params[1].ResolvedValue)

	assert.Empty(t, ToRemote(nil))
}

func TestFromRemote(t *testing.T) {
	params := []types.Parameter{
		{
			ParameterKey:     aws.String("InstanceType"),
			ParameterValue:   aws.String("t3.micro"),
			UsePreviousValue: aws.Bool(false),
		},
		{
			ParameterKey:  aws.String("AmiId"),
			ResolvedValue: aws.String("ami-123"),
		},
		{},
	}

	records := FromRemote(params)
	require.Len(t, records, 3)

	assert.Equal(t, models.ParameterRecord{Key: "InstanceType", Value: "t3.micro", ResolvedValue: "N/A"}, records[0])
	assert.Equal(t, models.ParameterRecord{Key: "AmiId", Value: "N/A", ResolvedValue: "ami-123"}, records[1])
	assert.Equal(t, models.ParameterRecord{Key: "N/A", Value: "N/A", ResolvedValue: "N/A"}, records[2])
}
