package main

import (
	"fmt"

	"github.com/diewo77/listings-api/internal/db"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the users, listings and saved tables and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		gdb, err := db.Open(cfg.Database, log)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close(gdb) }()

		if err := db.Migrate(gdb); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		log.Info("migrations completed")
		return nil
	},
}
