package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/klothoplatform/cdkbridge/pkg/aws"
	"github.com/klothoplatform/cdkbridge/pkg/synth"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

type describeStacksResponse struct {
	Stacks []struct {
		StackName string
		Outputs   []struct {
			OutputKey   string
			OutputValue string
		}
	}
}

// GetCloudFormationReference renders a token, intrinsic or literal as it appears in the template. Literals
// are returned unchanged.
func (p *AwsProvider) GetCloudFormationReference(value any) any {
	return p.stack.Resolve(value)
}

// GetStackOutput resolves the value of one of the stack's outputs. If the stack is deployed, the value
// is read from the deployed stack and is absent when the stack has no such output. If the stack is not
// deployed yet, the value is only known when it is a literal in the pending template.
func (p *AwsProvider) GetStackOutput(ctx context.Context, output *synth.Output) (string, bool, error) {
	logicalId := output.LogicalId()
	log := p.log.With(zap.String("output", logicalId))

	resp, err := p.legacy.Request(ctx, "CloudFormation", "describeStacks", map[string]any{
		"StackName": p.stack.Name,
	})
	if errors.Is(err, aws.ErrStackNotFound) {
		log.Debug("stack is not deployed, resolving output from the pending template")
		return p.pendingOutput(output)
	}
	if err != nil {
		return "", false, err
	}

	var parsed describeStacksResponse
	if err := mapstructure.Decode(resp, &parsed); err != nil {
		return "", false, fmt.Errorf("could not read describeStacks response: %w", err)
	}
	for _, stack := range parsed.Stacks {
		for _, o := range stack.Outputs {
			if o.OutputKey == logicalId {
				return o.OutputValue, true, nil
			}
		}
	}
	log.Debug("output not found in deployed stack")
	return "", false, nil
}

func (p *AwsProvider) pendingOutput(output *synth.Output) (string, bool, error) {
	if s, ok := p.stack.Resolve(output.Value).(string); ok {
		return s, true, nil
	}
	return "", false, nil
}
