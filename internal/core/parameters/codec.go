// SPDX-License-Identifier: Apache-2.0

package parameters

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/kusari-oss/cfnupd/internal/core/models"
	"github.com/kusari-oss/cfnupd/internal/core/schema"
)

// fileRecord mirrors models.ParameterRecord with every field optional so that
// Decode can tell a missing field from an empty one.
type fileRecord struct {
	Key              *string `json:"parameter_key"`
	Value            *string `json:"parameter_value"`
	UsePreviousValue *bool   `json:"use_previous_value"`
	ResolvedValue    *string `json:"resolved_value"`
}

// Encode serializes records as an indented JSON list in file field order
func Encode(records []models.ParameterRecord) ([]byte, error) {
	if records == nil {
		records = []models.ParameterRecord{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("error encoding parameters: %w", err)
	}

	return buf.Bytes(), nil
}

// Decode parses a parameters document. Only parameter_key is mandatory; other
// fields fall back to N/A or false so a partially edited file still loads.
func Decode(data []byte) ([]models.ParameterRecord, error) {
	if err := schema.ValidateParameters(data); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformedParameterData, err)
	}

	var raw []fileRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformedParameterData, err)
	}

	records := make([]models.ParameterRecord, 0, len(raw))
	seen := make(map[string]int, len(raw))
	for i, r := range raw {
		if r.Key == nil || *r.Key == "" {
			return nil, fmt.Errorf("%w: parameter %d: %w: parameter_key",
				models.ErrMalformedParameterData, i, models.ErrEmptyOrMissingField)
		}
		if prev, dup := seen[*r.Key]; dup {
			return nil, fmt.Errorf("%w: parameter %q appears at positions %d and %d",
				models.ErrMalformedParameterData, *r.Key, prev, i)
		}
		seen[*r.Key] = i

		records = append(records, models.ParameterRecord{
			Key:              *r.Key,
			Value:            stringOrNA(r.Value),
			UsePreviousValue: r.UsePreviousValue != nil && *r.UsePreviousValue,
			ResolvedValue:    stringOrNA(r.ResolvedValue),
		})
	}

	return records, nil
}

// ToRemote converts records into UpdateStack parameters. ResolvedValue is
// server-derived and never sent; a value is omitted when the previous one is kept
// because the API refuses both together.
func ToRemote(records []models.ParameterRecord) []types.Parameter {
	params := make([]types.Parameter, 0, len(records))
	for _, r := range records {
		p := types.Parameter{
			ParameterKey:     aws.String(r.Key),
			UsePreviousValue: aws.Bool(r.UsePreviousValue),
		}
		if !r.UsePreviousValue {
			p.ParameterValue = aws.String(r.Value)
		}
		params = append(params, p)
	}
	return params
}

// FromRemote converts DescribeStacks parameters into records, substituting N/A
// and false for anything the API left out.
func FromRemote(params []types.Parameter) []models.ParameterRecord {
	records := make([]models.ParameterRecord, 0, len(params))
	for _, p := range params {
		records = append(records, models.ParameterRecord{
			Key:              stringOrNA(p.ParameterKey),
			Value:            stringOrNA(p.ParameterValue),
			UsePreviousValue: aws.ToBool(p.UsePreviousValue),
			ResolvedValue:    stringOrNA(p.ResolvedValue),
		})
	}
	return records
}

func stringOrNA(s *string) string {
	if s == nil {
		return models.NotAvailable
	}
	return *s
}
