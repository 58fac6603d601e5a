package main

import (
	"fmt"

	"github.com/dfryer1193/teamdojo/shared/db/sqlite"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			database := sqlite.NewSQLiteDB(&sqlite.SQLiteConfig{Path: a.cfg.Database.Path})
			if err := database.Connect(cmd.Context()); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}
			defer database.Close()

			version, err := database.SchemaVersion(cmd.Context())
			if err != nil {
				return err
			}

			log.Info().Str("database", a.cfg.Database.Path).Int("version", version).Msg("Database schema is up to date")
			return nil
		},
	}
}
