package main

import (
	"fmt"
	"os"

	clicommon "github.com/klothoplatform/cdkbridge/pkg/cli_common"
	"github.com/spf13/cobra"
)

func main() {
	root := newRootCmd(&Bridge{})
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(b *Bridge) *cobra.Command {
	var commonCfg clicommon.CommonConfig
	root := &cobra.Command{
		Use:           "cdkbridge",
		Short:         "Add constructs to a serverless deployment configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	clicommon.SetupRoot(root, &commonCfg)
	b.AddFlags(root)

	root.AddCommand(
		b.synthCmd(),
		b.outputsCmd(),
		b.typesCmd(),
		b.requestCmd(),
	)
	return root
}
