// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/kusari-oss/cfnupd/internal/core/models"
	"github.com/kusari-oss/cfnupd/internal/core/parameters"
	"go.uber.org/zap"
)

// CloudFormationAPI is the subset of the CloudFormation client used here.
// *cloudformation.Client satisfies it.
type CloudFormationAPI interface {
	DescribeStacks(ctx context.Context, params *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
	GetTemplate(ctx context.Context, params *cloudformation.GetTemplateInput, optFns ...func(*cloudformation.Options)) (*cloudformation.GetTemplateOutput, error)
	UpdateStack(ctx context.Context, params *cloudformation.UpdateStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.UpdateStackOutput, error)
}

// Client exposes the four stack operations an update run needs
type Client struct {
	api    CloudFormationAPI
	logger *zap.Logger
}

// NewClient wraps api. A nil logger disables logging.
func NewClient(api CloudFormationAPI, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{api: api, logger: logger.Named("remote")}
}

// FetchTemplate returns the stack's original template body, before any
// transforms were applied
func (c *Client) FetchTemplate(ctx context.Context, stackName string) (string, error) {
	resp, err := c.api.GetTemplate(ctx, &cloudformation.GetTemplateInput{
		StackName:     aws.String(stackName),
		TemplateStage: types.TemplateStageOriginal,
	})
	if err != nil {
		return "", classifyError(err, models.ErrRemoteUnavailable)
	}

	if resp.TemplateBody == nil {
		return "", fmt.Errorf("%w: no template body returned for stack %s", models.ErrTemplateUnavailable, stackName)
	}

	c.logger.Debug("fetched template",
		zap.String("stack", stackName),
		zap.Int("bytes", len(*resp.TemplateBody)))

	return *resp.TemplateBody, nil
}

// FetchParameters returns the stack's current parameters
func (c *Client) FetchParameters(ctx context.Context, stackName string) ([]models.ParameterRecord, error) {
	stack, err := c.describe(ctx, stackName)
	if err != nil {
		return nil, err
	}

	records := parameters.FromRemote(stack.Parameters)
	c.logger.Debug("fetched parameters",
		zap.String("stack", stackName),
		zap.Int("count", len(records)))

	return records, nil
}

// SubmitUpdate starts an update of the stack. With allowCapabilities every
// capability the API knows about is acknowledged; otherwise the remote side
// decides whether the change needs one.
func (c *Client) SubmitUpdate(ctx context.Context, stackName, templateBody string, records []models.ParameterRecord, allowCapabilities bool) error {
	input := &cloudformation.UpdateStackInput{
		StackName:    aws.String(stackName),
		TemplateBody: aws.String(templateBody),
		Parameters:   parameters.ToRemote(records),
	}
	if allowCapabilities {
		input.Capabilities = types.Capability("").Values()
	}

	c.logger.Debug("submitting update",
		zap.String("stack", stackName),
		zap.Int("parameters", len(input.Parameters)),
		zap.Int("template_bytes", len(templateBody)),
		zap.Bool("capabilities", allowCapabilities))

	resp, err := c.api.UpdateStack(ctx, input)
	if err != nil {
		return classifyError(err, models.ErrRemoteRejected)
	}

	c.logger.Debug("update accepted",
		zap.String("stack", stackName),
		zap.String("stack_id", aws.ToString(resp.StackId)))

	return nil
}

// QueryStatus returns the stack's current status
func (c *Client) QueryStatus(ctx context.Context, stackName string) (models.StackStatus, error) {
	stack, err := c.describe(ctx, stackName)
	if err != nil {
		return "", err
	}

	status := models.StackStatus(stack.StackStatus)
	c.logger.Debug("queried status",
		zap.String("stack", stackName),
		zap.String("status", string(status)))

	return status, nil
}

// describe returns the single stack matching stackName
func (c *Client) describe(ctx context.Context, stackName string) (*types.Stack, error) {
	resp, err := c.api.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		return nil, classifyError(err, models.ErrRemoteUnavailable)
	}

	switch len(resp.Stacks) {
	case 0:
		return nil, fmt.Errorf("%w: %s", models.ErrRemoteNotFound, stackName)
	case 1:
		return &resp.Stacks[0], nil
	default:
		return nil, fmt.Errorf("%w: %d stacks match %s", models.ErrRemoteAmbiguous, len(resp.Stacks), stackName)
	}
}
