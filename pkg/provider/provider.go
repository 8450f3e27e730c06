package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/klothoplatform/cdkbridge/pkg/host"
	"github.com/klothoplatform/cdkbridge/pkg/provider/network"
	"github.com/klothoplatform/cdkbridge/pkg/registry"
	"github.com/klothoplatform/cdkbridge/pkg/synth"
	"go.uber.org/zap"
)

//go:generate mockgen -source=./provider.go --destination=./provider_mock_test.go --package=provider

type (
	// LegacyProvider is the lower-level provider of the host: it owns the region, the naming conventions
	// and access to the remote API.
	LegacyProvider interface {
		Region() string
		Naming() *host.Naming
		Request(ctx context.Context, service, method string, params map[string]any) (map[string]any, error)
	}

	// AwsProvider is the context constructs are created in for one deployment run. It owns the synthesis
	// root and its single stack, so every construct created through it adds resources to the same stack.
	AwsProvider struct {
		log      *zap.Logger
		config   *host.Configuration
		registry *registry.Registry
		legacy   LegacyProvider

		app    *synth.App
		stack  *synth.Stack
		region string
		naming *host.Naming

		mu     sync.Mutex // guards the following fields
		vpc    *network.Vpc
		merged synth.Template
	}

	Option func(*AwsProvider)
)

func WithLogger(log *zap.Logger) Option {
	return func(p *AwsProvider) {
		p.log = log
	}
}

func NewAwsProvider(cfg *host.Configuration, reg *registry.Registry, legacy LegacyProvider, opts ...Option) (*AwsProvider, error) {
	p := &AwsProvider{
		log:      zap.L(),
		config:   cfg,
		registry: reg,
		legacy:   legacy,
		region:   legacy.Region(),
		naming:   legacy.Naming(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.Named("provider")

	p.app = synth.NewApp(p.log)
	stack, err := p.app.NewStack(p.naming.StackName(), p.region)
	if err != nil {
		return nil, fmt.Errorf("could not create stack: %w", err)
	}
	p.stack = stack
	p.log.Debug("created provider", zap.String("stack", stack.Name), zap.String("region", p.region))
	return p, nil
}

func (p *AwsProvider) App() *synth.App {
	return p.app
}

func (p *AwsProvider) Stack() *synth.Stack {
	return p.stack
}

func (p *AwsProvider) StackName() string {
	return p.stack.Name
}

func (p *AwsProvider) Region() string {
	return p.region
}

func (p *AwsProvider) Naming() *host.Naming {
	return p.naming
}

func (p *AwsProvider) Configuration() *host.Configuration {
	return p.config
}

func (p *AwsProvider) Registry() *registry.Registry {
	return p.registry
}

// AddFunction adds a function to the host configuration. See [host.Configuration.AddFunction].
func (p *AwsProvider) AddFunction(name string, definition map[string]any) {
	p.config.AddFunction(name, definition)
	p.log.Debug("added function", zap.String("function", name))
}

// Request forwards a raw API call to the legacy provider. Errors are returned unchanged.
func (p *AwsProvider) Request(ctx context.Context, service, method string, params map[string]any) (map[string]any, error) {
	return p.legacy.Request(ctx, service, method, params)
}
