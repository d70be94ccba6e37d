package cli

import (
	"context"

	"github.com/spf13/cobra"

	corecmd "github.com/m3rciful/buylist/core/cmd"
	"github.com/m3rciful/buylist/internal/app"
	"github.com/m3rciful/buylist/internal/config"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return corecmd.Run(cmd.Context(), corecmd.Options{
				ConfigPath:        opts.configPath,
				DefaultConfigPath: defaultConfigPath,
				LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
					cfg, err := config.Load(path)
					if err != nil {
						return nil, err
					}
					return cfg, nil
				},
				Bootstrap: func(ctx context.Context, c corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
					a, err := app.Bootstrap(ctx, c.(*config.Config), app.Options{LoggerInit: loggerInit})
					if err != nil {
						return nil, err
					}
					return a, nil
				},
			})
		},
	}
}
