package main

import (
	"context"
	"fmt"
	"time"

	"weddingsite/db"

	"github.com/spf13/cobra"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			store, err := a.openStore()
			if err != nil {
				return fmt.Errorf("failed to open DB: %w", err)
			}
			if err := db.Migrate(store.DB().WithContext(ctx)); err != nil {
				return fmt.Errorf("migrate failed: %w", err)
			}
			a.logger.Info("migration complete")
			return nil
		},
	}
}
