package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"auditflow/backend/internal/config"
	"auditflow/backend/internal/logging"
	"auditflow/backend/internal/repository"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations (Postgres schema, Mongo indexes) and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(*configPath)
			if err != nil {
				return err
			}
			logger := logging.NewLogger(cfg.Log.Level, cfg.IsDev())
			defer logger.Sync()

			repo, err := repository.Open(cmd.Context(), cfg, logger)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			logger.Info("storage is up to date", "driver", cfg.DB.Driver)
			return repo.Close()
		},
	}
}
