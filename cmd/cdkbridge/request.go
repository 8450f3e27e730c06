package main

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (b *Bridge) requestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "request SERVICE METHOD [PARAMS]",
		Short: "Call the remote API through the provider",
		Example: `  cdkbridge request CloudFormation describeStacks '{StackName: app-dev}'
  cdkbridge request STS getCallerIdentity`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var params map[string]any
			if len(args) == 3 {
				if err := yaml.NewDecoder(strings.NewReader(args[2])).Decode(&params); err != nil {
					return errors.Wrap(err, "could not parse request parameters")
				}
			}
			p, err := b.Provider(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := p.Request(cmd.Context(), args[0], args[1], params)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(resp); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
