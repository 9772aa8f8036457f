package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"startup-risk-lab/internal/storage/migrations"
	pgstore "startup-risk-lab/internal/storage/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations for the configured stores",
	Long: `Migrate applies pending Postgres migrations when the storage backend is
postgres, and ClickHouse migrations when a ClickHouse DSN is configured.
Reruns are safe.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		ran := false

		if cfg.Storage.Backend == "postgres" {
			pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN, cfg.Storage.PostgresMaxConns)
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer pool.Close()

			applied, err := migrations.RunPostgresMigrations(ctx, pool, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "postgres: %d migration(s) applied\n", len(applied))
			ran = true
		}

		if cfg.Storage.ClickhouseDSN != "" {
			conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Storage.ClickhouseDSN, logger)
			if err != nil {
				return err
			}
			if err := conn.Close(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "clickhouse: migrations applied")
			ran = true
		}

		if !ran {
			fmt.Fprintln(cmd.OutOrStdout(), "nothing to migrate: storage backend is memory and no ClickHouse DSN is set")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
