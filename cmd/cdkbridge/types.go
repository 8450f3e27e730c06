package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/klothoplatform/cdkbridge/pkg/registry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func (b *Bridge) typesCmd() *cobra.Command {
	var schema bool
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the available construct types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return PrintTypes(cmd.OutOrStdout(), Registry(zap.L()), schema)
		},
	}
	cmd.Flags().BoolVar(&schema, "schema", false, "Also print the configuration schema of each type")
	return cmd
}

func PrintTypes(w io.Writer, reg *registry.Registry, schema bool) error {
	name := color.New(color.FgHiGreen, color.Bold)
	for _, ct := range reg.ListAll() {
		if _, err := name.Fprintln(w, ct.Type()); err != nil {
			return err
		}
		if !schema {
			continue
		}
		out, err := yaml.Marshal(ct.Schema())
		if err != nil {
			return fmt.Errorf("could not render schema of %s: %w", ct.Type(), err)
		}
		if _, err := w.Write(indentLines(out, "  ")); err != nil {
			return err
		}
	}
	return nil
}

func indentLines(b []byte, prefix string) []byte {
	var out []byte
	atLineStart := true
	for _, c := range b {
		if atLineStart {
			out = append(out, prefix...)
		}
		out = append(out, c)
		atLineStart = c == '\n'
	}
	return out
}
