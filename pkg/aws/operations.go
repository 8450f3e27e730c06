package aws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/mitchellh/mapstructure"
)

type operation func(ctx context.Context, params map[string]any) (map[string]any, error)

func (p *Provider) buildOperations() map[string]operation {
	return map[string]operation{
		"cloudformation.describestacks":        newOperation(p.describeStacks),
		"cloudformation.describestackresource": newOperation(p.cloudformation.DescribeStackResource),
		"cloudformation.liststackresources":    newOperation(p.cloudformation.ListStackResources),
		"cloudformation.listexports":           newOperation(p.cloudformation.ListExports),
		"sts.getcalleridentity":                newOperation(p.sts.GetCallerIdentity),
	}
}

func (p *Provider) describeStacks(
	ctx context.Context,
	in *cloudformation.DescribeStacksInput,
	optFns ...func(*cloudformation.Options),
) (*cloudformation.DescribeStacksOutput, error) {
	out, err := p.cloudformation.DescribeStacks(ctx, in, optFns...)
	return out, asStackNotFound(aws.ToString(in.StackName), err)
}

// newOperation adapts an SDK client method to a generic operation: the parameters are decoded into
// the method's input struct and the output is converted to a generic tree.
func newOperation[I, O, Opts any](call func(context.Context, *I, ...func(*Opts)) (*O, error)) operation {
	return func(ctx context.Context, params map[string]any) (map[string]any, error) {
		in := new(I)
		if err := decodeParams(params, in); err != nil {
			return nil, err
		}
		out, err := call(ctx, in)
		if err != nil {
			return nil, err
		}
		return toTree(out)
	}
}

func decodeParams(params map[string]any, in any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           in,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(params); err != nil {
		return fmt.Errorf("invalid request parameters: %w", err)
	}
	return nil
}

func toTree(out any) (map[string]any, error) {
	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("could not convert response: %w", err)
	}
	tree := map[string]any{}
	if err := json.Unmarshal(b, &tree); err != nil {
		return nil, fmt.Errorf("could not convert response: %w", err)
	}
	delete(tree, "ResultMetadata")
	return tree, nil
}
