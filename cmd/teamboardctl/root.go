package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/noah-isme/teamboard-api/internal/config"
	"github.com/noah-isme/teamboard-api/internal/database"
)

type rootOptions struct {
	databaseURL string
	logger      zerolog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{
		logger: zerolog.New(os.Stderr).With().Timestamp().Str("component", "teamboardctl").Logger(),
	}

	cmd := &cobra.Command{
		Use:           "teamboardctl",
		Short:         "Operator tooling for the Teamboard API",
		Long:          `Runs schema migrations and bootstraps accounts against the database the API uses.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.databaseURL, "database-url", "", "database DSN (postgres URL or sqlite://path); defaults to TEAMBOARD_DATABASE_URL")

	cmd.AddCommand(newMigrateCmd(opts))
	cmd.AddCommand(newCreateSupermanagerCmd(opts))
	return cmd
}

// open connects to the configured database. The flag wins over the environment so the
// tool works without a JWT secret configured.
func (o *rootOptions) open() (*gorm.DB, error) {
	dsn := o.databaseURL
	if dsn == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		dsn = cfg.DatabaseURL
	}
	return database.Connect(dsn)
}
