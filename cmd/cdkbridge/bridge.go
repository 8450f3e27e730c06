package main

import (
	"context"

	"github.com/klothoplatform/cdkbridge/pkg/aws"
	"github.com/klothoplatform/cdkbridge/pkg/constructs/queue"
	"github.com/klothoplatform/cdkbridge/pkg/constructs/storage"
	"github.com/klothoplatform/cdkbridge/pkg/host"
	"github.com/klothoplatform/cdkbridge/pkg/provider"
	"github.com/klothoplatform/cdkbridge/pkg/registry"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Bridge holds the options shared by all commands and builds the provider for a run.
type Bridge struct {
	ConfigPath string
	Options    host.Options

	// NewLegacy creates the lower-level provider, defaulting to the AWS SDK one.
	NewLegacy func(ctx context.Context, cfg *host.Configuration, log *zap.Logger) (provider.LegacyProvider, error)
}

func (b *Bridge) AddFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.StringVarP(&b.ConfigPath, "config", "c", "serverless.yml", "Deployment configuration file (yaml, json or toml)")
	flags.StringVarP(&b.Options.Stage, "stage", "s", "", "Stage, overrides provider.stage")
	flags.StringVarP(&b.Options.Region, "region", "r", "", "Region, overrides provider.region")
	flags.StringVar(&b.Options.Profile, "aws-profile", "", "AWS profile, overrides provider.profile")
}

func defaultLegacy(ctx context.Context, cfg *host.Configuration, log *zap.Logger) (provider.LegacyProvider, error) {
	return aws.NewProvider(ctx, cfg, log)
}

// Registry returns the construct types available to configurations.
func Registry(log *zap.Logger) *registry.Registry {
	reg := registry.New(log)
	reg.MustRegister(storage.Type, queue.Type)
	return reg
}

// Provider reads the configuration and creates the provider for it.
func (b *Bridge) Provider(ctx context.Context) (*provider.AwsProvider, error) {
	log := zap.L()
	cfg, err := host.ReadConfiguration(b.ConfigPath, b.Options)
	if err != nil {
		return nil, err
	}
	newLegacy := b.NewLegacy
	if newLegacy == nil {
		newLegacy = defaultLegacy
	}
	legacy, err := newLegacy(ctx, cfg, log)
	if err != nil {
		return nil, errors.Wrapf(err, "could not create provider for region %s", cfg.Provider.Region)
	}
	return provider.NewAwsProvider(cfg, Registry(log), legacy, provider.WithLogger(log))
}
