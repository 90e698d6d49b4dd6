package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/teamboard-api/internal/database"
	"github.com/noah-isme/teamboard-api/internal/models"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := opts.open()
			if err != nil {
				return err
			}
			if err := database.Migrate(db, models.All()...); err != nil {
				return err
			}
			opts.logger.Info().Int("models", len(models.All())).Msg("schema migrated")
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}
