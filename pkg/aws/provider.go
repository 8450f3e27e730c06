package aws

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/klothoplatform/cdkbridge/pkg/host"
	"go.uber.org/zap"
)

type (
	// Provider is the lower-level API delegate: it knows the deployment region and naming conventions and
	// forwards raw API calls to AWS.
	Provider struct {
		region string
		naming *host.Naming
		log    *zap.Logger

		cloudformation CloudFormationAPI
		sts            STSAPI

		operations map[string]operation
	}

	CloudFormationAPI interface {
		DescribeStacks(ctx context.Context, in *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
		DescribeStackResource(ctx context.Context, in *cloudformation.DescribeStackResourceInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStackResourceOutput, error)
		ListStackResources(ctx context.Context, in *cloudformation.ListStackResourcesInput, optFns ...func(*cloudformation.Options)) (*cloudformation.ListStackResourcesOutput, error)
		ListExports(ctx context.Context, in *cloudformation.ListExportsInput, optFns ...func(*cloudformation.Options)) (*cloudformation.ListExportsOutput, error)
	}

	STSAPI interface {
		GetCallerIdentity(ctx context.Context, in *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
	}
)

// LoadConfig loads the AWS SDK configuration from the default credential chain for the given region and
// optional shared-config profile.
func LoadConfig(ctx context.Context, region, profile string) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error

	opts = append(opts, awsconfig.WithRegion(region))
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}

	return awsconfig.LoadDefaultConfig(ctx, opts...)
}

func NewProvider(ctx context.Context, cfg *host.Configuration, log *zap.Logger) (*Provider, error) {
	awsCfg, err := LoadConfig(ctx, cfg.Provider.Region, cfg.Provider.Profile)
	if err != nil {
		return nil, fmt.Errorf("could not load AWS configuration: %w", err)
	}
	return NewProviderWithClients(
		cfg.Provider.Region,
		cfg.Naming(),
		cloudformation.NewFromConfig(awsCfg),
		sts.NewFromConfig(awsCfg),
		log,
	), nil
}

// NewProviderWithClients creates a provider that uses the given API clients.
func NewProviderWithClients(region string, naming *host.Naming, cfn CloudFormationAPI, stsClient STSAPI, log *zap.Logger) *Provider {
	if log == nil {
		log = zap.L()
	}
	p := &Provider{
		region:         region,
		naming:         naming,
		log:            log.Named("aws.request"),
		cloudformation: cfn,
		sts:            stsClient,
	}
	p.operations = p.buildOperations()
	return p
}

func (p *Provider) Region() string {
	return p.region
}

func (p *Provider) Naming() *host.Naming {
	return p.naming
}

// Operations lists the supported `service.method` names.
func (p *Provider) Operations() []string {
	names := make([]string, 0, len(p.operations))
	for name := range p.operations {
		names = append(names, name)
	}
	return names
}

// Request calls `service.method` (case-insensitive, eg `CloudFormation.describeStacks`) with the given
// parameters. Parameters use the SDK's input field names and the response is the SDK output as a
// generic tree. API errors are returned as-is.
func (p *Provider) Request(ctx context.Context, service, method string, params map[string]any) (map[string]any, error) {
	name := operationName(service, method)
	op, ok := p.operations[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnsupportedOperation, service, method)
	}

	log := p.log.With(zap.String("operation", name))
	log.Debug("sending request", zap.Any("params", params))

	out, err := op(ctx, params)
	if err != nil {
		log.Debug("request failed", zap.Error(err))
		return nil, err
	}
	return out, nil
}

func operationName(service, method string) string {
	return strings.ToLower(service) + "." + strings.ToLower(method)
}
