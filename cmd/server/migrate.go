package main

import (
	"github.com/spf13/cobra"

	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/db"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			defer func() { _ = log.Sync() }()
			if err != nil {
				return err
			}
			return db.RunMigrations(cfg.DatabaseURL, log)
		},
	}
}
