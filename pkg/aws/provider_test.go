package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
	"github.com/klothoplatform/cdkbridge/pkg/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCloudFormation struct {
	mock.Mock
}

func (m *mockCloudFormation) DescribeStacks(ctx context.Context, in *cloudformation.DescribeStacksInput, _ ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*cloudformation.DescribeStacksOutput)
	return out, args.Error(1)
}

func (m *mockCloudFormation) DescribeStackResource(ctx context.Context, in *cloudformation.DescribeStackResourceInput, _ ...func(*cloudformation.Options)) (*cloudformation.DescribeStackResourceOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*cloudformation.DescribeStackResourceOutput)
	return out, args.Error(1)
}

func (m *mockCloudFormation) ListStackResources(ctx context.Context, in *cloudformation.ListStackResourcesInput, _ ...func(*cloudformation.Options)) (*cloudformation.ListStackResourcesOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*cloudformation.ListStackResourcesOutput)
	return out, args.Error(1)
}

func (m *mockCloudFormation) ListExports(ctx context.Context, in *cloudformation.ListExportsInput, _ ...func(*cloudformation.Options)) (*cloudformation.ListExportsOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*cloudformation.ListExportsOutput)
	return out, args.Error(1)
}

type mockSTS struct {
	mock.Mock
}

func (m *mockSTS) GetCallerIdentity(ctx context.Context, in *sts.GetCallerIdentityInput, _ ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*sts.GetCallerIdentityOutput)
	return out, args.Error(1)
}

func newTestProvider() (*Provider, *mockCloudFormation, *mockSTS) {
	cfn := &mockCloudFormation{}
	stsClient := &mockSTS{}
	p := NewProviderWithClients("eu-west-1", host.NewNaming("app", "dev"), cfn, stsClient, nil)
	return p, cfn, stsClient
}

func TestProvider_Request(t *testing.T) {
	notFound := &smithy.GenericAPIError{Code: "ValidationError", Message: "Stack with id app-dev does not exist"}
	accessDenied := &smithy.GenericAPIError{Code: "AccessDenied", Message: "not authorized"}

	tests := []struct {
		name    string
		service string
		method  string
		params  map[string]any
		mocks   func(cfn *mockCloudFormation, stsClient *mockSTS)
		check   func(*assert.Assertions, map[string]any)
		wantErr func(*assert.Assertions, error)
	}{
		{
			name:    "describe stacks",
			service: "CloudFormation",
			method:  "describeStacks",
			params:  map[string]any{"StackName": "app-dev"},
			mocks: func(cfn *mockCloudFormation, _ *mockSTS) {
				cfn.On("DescribeStacks", mock.Anything, &cloudformation.DescribeStacksInput{StackName: aws.String("app-dev")}).
					Return(&cloudformation.DescribeStacksOutput{Stacks: []types.Stack{{
						StackName: aws.String("app-dev"),
						Outputs: []types.Output{
							{OutputKey: aws.String("JobsQueueUrl"), OutputValue: aws.String("https://sqs/jobs")},
						},
					}}}, nil)
			},
			check: func(assert *assert.Assertions, got map[string]any) {
				stacks, ok := got["Stacks"].([]any)
				if !assert.True(ok) || !assert.Len(stacks, 1) {
					return
				}
				stack := stacks[0].(map[string]any)
				assert.Equal("app-dev", stack["StackName"])
				assert.Equal([]any{map[string]any{
					"OutputKey":   "JobsQueueUrl",
					"OutputValue": "https://sqs/jobs",
					"Description": nil,
					"ExportName":  nil,
				}}, stack["Outputs"])
			},
		},
		{
			name:    "lowercase field names",
			service: "cloudformation",
			method:  "DescribeStackResource",
			params:  map[string]any{"stackName": "app-dev", "logicalResourceId": "JobsQueue"},
			mocks: func(cfn *mockCloudFormation, _ *mockSTS) {
				cfn.On("DescribeStackResource", mock.Anything, &cloudformation.DescribeStackResourceInput{
					StackName:         aws.String("app-dev"),
					LogicalResourceId: aws.String("JobsQueue"),
				}).Return(&cloudformation.DescribeStackResourceOutput{}, nil)
			},
			check: func(assert *assert.Assertions, got map[string]any) {
				assert.Equal(map[string]any{"StackResourceDetail": nil}, got)
			},
		},
		{
			name:    "caller identity",
			service: "STS",
			method:  "getCallerIdentity",
			mocks: func(_ *mockCloudFormation, stsClient *mockSTS) {
				stsClient.On("GetCallerIdentity", mock.Anything, &sts.GetCallerIdentityInput{}).
					Return(&sts.GetCallerIdentityOutput{Account: aws.String("123456789012")}, nil)
			},
			check: func(assert *assert.Assertions, got map[string]any) {
				assert.Equal(map[string]any{"Account": "123456789012", "Arn": nil, "UserId": nil}, got)
			},
		},
		{
			name:    "stack not found",
			service: "CloudFormation",
			method:  "describeStacks",
			params:  map[string]any{"StackName": "app-dev"},
			mocks: func(cfn *mockCloudFormation, _ *mockSTS) {
				cfn.On("DescribeStacks", mock.Anything, mock.Anything).Return(nil, notFound)
			},
			wantErr: func(assert *assert.Assertions, err error) {
				assert.ErrorIs(err, ErrStackNotFound)
				var apiErr smithy.APIError
				if assert.ErrorAs(err, &apiErr) {
					assert.Equal("ValidationError", apiErr.ErrorCode())
				}
			},
		},
		{
			name:    "other api errors are returned as-is",
			service: "CloudFormation",
			method:  "listExports",
			mocks: func(cfn *mockCloudFormation, _ *mockSTS) {
				cfn.On("ListExports", mock.Anything, mock.Anything).Return(nil, accessDenied)
			},
			wantErr: func(assert *assert.Assertions, err error) {
				assert.Same(accessDenied, err)
			},
		},
		{
			name:    "unsupported operation",
			service: "S3",
			method:  "deleteBucket",
			wantErr: func(assert *assert.Assertions, err error) {
				assert.ErrorIs(err, ErrUnsupportedOperation)
				assert.ErrorContains(err, "S3.deleteBucket")
			},
		},
		{
			name:    "unknown parameter",
			service: "CloudFormation",
			method:  "describeStacks",
			params:  map[string]any{"Stack": "app-dev"},
			wantErr: func(assert *assert.Assertions, err error) {
				assert.ErrorContains(err, "invalid request parameters")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			p, cfn, stsClient := newTestProvider()
			if tt.mocks != nil {
				tt.mocks(cfn, stsClient)
			}

			got, err := p.Request(context.Background(), tt.service, tt.method, tt.params)
			if tt.wantErr != nil {
				if assert.Error(err) {
					tt.wantErr(assert, err)
				}
				return
			}
			require.NoError(t, err)
			tt.check(assert, got)
			assert.NotContains(got, "ResultMetadata")
			cfn.AssertExpectations(t)
			stsClient.AssertExpectations(t)
		})
	}
}

func TestProvider_Accessors(t *testing.T) {
	assert := assert.New(t)
	p, _, _ := newTestProvider()
	assert.Equal("eu-west-1", p.Region())
	assert.Equal("app-dev", p.Naming().StackName())
	assert.ElementsMatch([]string{
		"cloudformation.describestacks",
		"cloudformation.describestackresource",
		"cloudformation.liststackresources",
		"cloudformation.listexports",
		"sts.getcalleridentity",
	}, p.Operations())
}

func Test_asStackNotFound(t *testing.T) {
	assert := assert.New(t)
	assert.NoError(asStackNotFound("s", nil))

	plain := errors.New("boom")
	assert.Same(plain, asStackNotFound("s", plain))

	err := asStackNotFound("s", &smithy.GenericAPIError{Code: "ValidationError", Message: "Template format error"})
	assert.NotErrorIs(err, ErrStackNotFound)
}
