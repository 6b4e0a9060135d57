package main

import (
	"context"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewMigrateCmd crea el subcomando migrate.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply all pending migrations to the database configured in DATABASE_URL.`,
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, zap.NewNop())
	if err != nil {
		return err
	}
	defer store.close()

	cmd.Println("Running migrations...")
	if err := store.migrate(ctx); err != nil {
		return oops.Code("MIGRATION_FAILED").With("driver", cfg.Driver()).Wrap(err)
	}

	cmd.Println("Migrations completed successfully")
	return nil
}
