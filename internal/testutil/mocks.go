// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/kusari-oss/cfnupd/internal/core/models"
	"github.com/stretchr/testify/mock"
)

// MockCloudFormationAPI mocks the CloudFormation client methods used by remote.Client
type MockCloudFormationAPI struct {
	mock.Mock
}

// DescribeStacks mocks the DescribeStacks method
func (m *MockCloudFormationAPI) DescribeStacks(ctx context.Context, params *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cloudformation.DescribeStacksOutput), args.Error(1)
}

// GetTemplate mocks the GetTemplate method
func (m *MockCloudFormationAPI) GetTemplate(ctx context.Context, params *cloudformation.GetTemplateInput, optFns ...func(*cloudformation.Options)) (*cloudformation.GetTemplateOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cloudformation.GetTemplateOutput), args.Error(1)
}

// UpdateStack mocks the UpdateStack method
func (m *MockCloudFormationAPI) UpdateStack(ctx context.Context, params *cloudformation.UpdateStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.UpdateStackOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cloudformation.UpdateStackOutput), args.Error(1)
}

// MockStackClient mocks the stack operations the orchestrator drives
type MockStackClient struct {
	mock.Mock
}

// FetchTemplate mocks the FetchTemplate method
func (m *MockStackClient) FetchTemplate(ctx context.Context, stackName string) (string, error) {
	args := m.Called(ctx, stackName)
	return args.String(0), args.Error(1)
}

// FetchParameters mocks the FetchParameters method
func (m *MockStackClient) FetchParameters(ctx context.Context, stackName string) ([]models.ParameterRecord, error) {
	args := m.Called(ctx, stackName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ParameterRecord), args.Error(1)
}

// SubmitUpdate mocks the SubmitUpdate method
func (m *MockStackClient) SubmitUpdate(ctx context.Context, stackName, templateBody string, records []models.ParameterRecord, allowCapabilities bool) error {
	args := m.Called(ctx, stackName, templateBody, records, allowCapabilities)
	return args.Error(0)
}

// QueryStatus mocks the QueryStatus method
func (m *MockStackClient) QueryStatus(ctx context.Context, stackName string) (models.StackStatus, error) {
	args := m.Called(ctx, stackName)
	return args.Get(0).(models.StackStatus), args.Error(1)
}

// MockEditor mocks the editor collaborator. When Fn is set it runs after the
// recorded call, which lets tests modify the file being edited.
type MockEditor struct {
	mock.Mock
	Fn func(path string) error
}

// Edit mocks the Edit method
func (m *MockEditor) Edit(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	if err := args.Error(0); err != nil {
		return err
	}
	if m.Fn != nil {
		return m.Fn(path)
	}
	return nil
}
