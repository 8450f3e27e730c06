package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/alitto/pond"
	"github.com/fatih/color"
	"github.com/klothoplatform/cdkbridge/pkg/constructs"
	"github.com/klothoplatform/cdkbridge/pkg/logging"
	"github.com/klothoplatform/cdkbridge/pkg/provider"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type (
	// ResolvedOutput is one construct output, resolved against the deployed stack.
	ResolvedOutput struct {
		Construct string
		Name      string
		Value     string
		Found     bool
		Err       error
	}
)

var (
	constructColor = color.New(color.FgHiCyan, color.Bold)
	missingColor   = color.New(color.FgHiBlack)
	errorColor     = color.New(color.FgHiRed)
)

func (b *Bridge) outputsCmd() *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "outputs",
		Short: "Show the outputs of the configured constructs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := b.Provider(cmd.Context())
			if err != nil {
				return err
			}
			created, err := p.CreateAll()
			if err != nil {
				return err
			}
			outputs := ResolveOutputs(cmd.Context(), p, created, workers)
			return PrintOutputs(cmd.OutOrStdout(), outputs)
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 5, "Number of outputs resolved concurrently")
	return cmd
}

// ResolveOutputs resolves every output of the constructs with a pool of `workers`. The result is sorted by
// construct id then output name. A failing output does not stop the others.
func ResolveOutputs(ctx context.Context, p *provider.AwsProvider, created map[string]constructs.Construct, workers int) []ResolvedOutput {
	pool := pond.New(max(workers, 1), 1000, pond.Strategy(pond.Lazy()))
	defer pool.StopAndWait()

	types := make(map[string]string, len(created))
	for id := range created {
		types[id], _ = p.Configuration().Constructs[id]["type"].(string)
	}

	var mu sync.Mutex
	var results []ResolvedOutput
	group := pool.Group()
	for id, c := range created {
		for name, resolve := range c.Outputs() {
			id, name, resolve := id, name, resolve
			group.Submit(func() {
				octx := logging.ConstructContext(ctx, id, types[id])
				value, found, err := resolve(octx)
				if err != nil {
					logging.GetLogger(octx).Warn("could not resolve output", zap.String("output", name), zap.Error(err))
				}
				mu.Lock()
				results = append(results, ResolvedOutput{Construct: id, Name: name, Value: value, Found: found, Err: err})
				mu.Unlock()
			})
		}
	}
	group.Wait()

	sort.Slice(results, func(i, j int) bool {
		if results[i].Construct != results[j].Construct {
			return results[i].Construct < results[j].Construct
		}
		return results[i].Name < results[j].Name
	})
	return results
}

func PrintOutputs(w io.Writer, outputs []ResolvedOutput) error {
	last := ""
	for _, o := range outputs {
		if o.Construct != last {
			if _, err := constructColor.Fprintf(w, "%s:\n", o.Construct); err != nil {
				return err
			}
			last = o.Construct
		}
		var err error
		switch {
		case o.Err != nil:
			_, err = errorColor.Fprintf(w, "  %s: error: %s\n", o.Name, o.Err)
		case !o.Found:
			_, err = missingColor.Fprintf(w, "  %s: (not deployed)\n", o.Name)
		default:
			_, err = fmt.Fprintf(w, "  %s: %s\n", o.Name, o.Value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
