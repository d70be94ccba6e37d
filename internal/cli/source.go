package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m3rciful/buylist/core/bootstrap"
	"github.com/m3rciful/buylist/internal/source"
)

// newSourceCmd prints one read of the configured source: a "name default"
// line per item, then one user id per line.
func newSourceCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "source",
		Short: "Print the items and users the configured source returns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadSourceConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			infra, err := bootstrap.Run(ctx, bootstrap.Options{
				Config:     &cfg.Config,
				Database:   cfg.Database,
				LoggerInit: noLogger,
			})
			if err != nil {
				return err
			}
			defer infra.Close()

			src, err := source.Open(ctx, cfg, infra.DB)
			if err != nil {
				return err
			}
			snap, err := src.Read(ctx)
			if err != nil {
				return fmt.Errorf("read source: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, e := range snap.Items {
				fmt.Fprintf(out, "%s %t\n", e.Name, e.Default)
			}
			for _, id := range snap.Users {
				fmt.Fprintf(out, "%d\n", id)
			}
			return nil
		},
	}
}
