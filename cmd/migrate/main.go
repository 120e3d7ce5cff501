// Command migrate manages the database schema.
package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tripsapi/internal/app"
	"tripsapi/internal/config"
	"tripsapi/internal/logger"
	"tripsapi/internal/migrations"
)

const commandTimeout = 2 * time.Minute

type migrateFunc func(ctx context.Context, db *sql.DB, log *logrus.Logger) error

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the trips database schema",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newMigrationCommand("up", "Apply all pending migrations", func(ctx context.Context, db *sql.DB, log *logrus.Logger) error {
			return migrations.Up(ctx, db, log)
		}),
		newMigrationCommand("down", "Roll back the most recent migration", func(ctx context.Context, db *sql.DB, log *logrus.Logger) error {
			return migrations.Down(ctx, db, log)
		}),
		newMigrationCommand("status", "Show migration status", func(ctx context.Context, db *sql.DB, log *logrus.Logger) error {
			return migrations.Status(ctx, db, log)
		}),
	)

	return root
}

func newMigrationCommand(use, short string, run migrateFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()

			log, err := logger.New(cfg.Log)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			db, err := app.NewDatabase(ctx, cfg.Database, nil)
			if err != nil {
				return err
			}
			defer db.Close()

			return run(ctx, db, log)
		},
	}
}
