package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m3rciful/buylist/core/bootstrap"
	"github.com/m3rciful/buylist/core/logger"
	"github.com/m3rciful/buylist/internal/source/filelist"
	"github.com/m3rciful/buylist/internal/source/sqlstore"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	var seedItems, seedUsers string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and optionally import flat files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (seedItems == "") != (seedUsers == "") {
				return errors.New("--seed-items and --seed-users go together")
			}
			cfg, err := opts.loadSourceConfig()
			if err != nil {
				return err
			}
			if !cfg.Database.Enabled() {
				return errors.New("database.driver is not configured")
			}
			defer func() { _ = logger.Shutdown() }()

			var seeders []bootstrap.Seeder
			if seedItems != "" {
				seeders = append(seeders, sqlstore.Seeder{Source: filelist.New(seedItems, seedUsers)})
			}
			infra, err := bootstrap.Run(cmd.Context(), bootstrap.Options{
				Config:     &cfg.Config,
				Database:   cfg.Database,
				Seeders:    seeders,
				LoggerInit: loggerInit,
			})
			if err != nil {
				return err
			}
			defer infra.Close()
			if seedItems != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "seeded from %s and %s\n", seedItems, seedUsers)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&seedItems, "seed-items", "", "items.list to import into the items table")
	cmd.Flags().StringVar(&seedUsers, "seed-users", "", "users.list to import into the authorized_users table")
	return cmd
}
