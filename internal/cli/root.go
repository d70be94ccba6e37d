// Package cli holds the buylistbot cobra commands.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	corecmd "github.com/m3rciful/buylist/core/cmd"
	coreconfig "github.com/m3rciful/buylist/core/config"
	"github.com/m3rciful/buylist/core/logger"
	"github.com/m3rciful/buylist/internal/config"
)

const defaultConfigPath = "config.yaml"

// loggerInit is swapped in tests to keep stdout clean.
var loggerInit = logger.InitLogger

type rootOptions struct {
	configPath string
}

// NewRootCmd builds the command tree. Without a subcommand it serves the bot.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	serve := newServeCmd(opts)

	cmd := &cobra.Command{
		Use:           "buylistbot",
		Short:         "Shared shopping list Telegram bot",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config.yaml (default $CONFIG_PATH or ./config.yaml)")

	cmd.AddCommand(serve, newSourceCmd(opts), newMigrateCmd(opts), newVersionCmd())
	return cmd
}

// loadSourceConfig resolves the path the same way serve does and loads the
// source and database sections.
func (o *rootOptions) loadSourceConfig() (*config.Config, error) {
	path, err := corecmd.ResolveConfigPath(corecmd.Options{
		ConfigPath:        o.configPath,
		DefaultConfigPath: defaultConfigPath,
	})
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadSource(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

func noLogger(*coreconfig.Config) error { return nil }

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
