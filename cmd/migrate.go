package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GAURAV130105/attendance-system/internal/config"
	"github.com/GAURAV130105/attendance-system/internal/database/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long: `Apply all pending schema migrations to the PostgreSQL database.

Requires DATABASE_URL to be set. The schema needs the pgvector and
unaccent extensions, both created by the first migration.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := config.Load()

	pool, err := postgres.NewPool(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if err := pool.Migrate(ctx); err != nil {
		return err
	}

	applied, err := pool.MigrationsApplied(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Database schema up to date (%d migrations applied)\n", len(applied))
	return nil
}
