package main

import (
	"os"

	"github.com/klothoplatform/cdkbridge/pkg/closenicely"
	"github.com/klothoplatform/cdkbridge/pkg/provider"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (b *Bridge) synthCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Create the configured constructs and write the resulting configuration",
		Long: `Creates every construct of the 'constructs' section, merges their resources into the
'resources' section and writes the configuration, including functions and the vpc added by
constructs, in the format of the input file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := b.Provider(cmd.Context())
			if err != nil {
				return err
			}
			if err := Synth(p); err != nil {
				return err
			}

			if output == "" || output == "-" {
				return p.Configuration().Encode(cmd.OutOrStdout())
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := p.Configuration().Encode(f); err != nil {
				closenicely.OrDebug(f, output)
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", "File to write the configuration to, '-' for stdout")
	return cmd
}

// Synth creates all constructs of the provider's configuration and merges their resources.
func Synth(p *provider.AwsProvider) error {
	created, err := p.CreateAll()
	if err != nil {
		return err
	}
	if err := p.AppendCloudformationResources(); err != nil {
		return err
	}
	zap.L().Info("synthesized constructs",
		zap.Int("constructs", len(created)),
		zap.Int("resources", len(p.MergedTemplate().Resources())),
	)
	return nil
}
