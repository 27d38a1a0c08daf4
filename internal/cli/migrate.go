package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/cadence/internal/adapters/turso"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the activity database schema",
	Long:  `Create or update the activity database schema. Safe to run repeatedly.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		if err := turso.Migrate(cmd.Context(), app.DB); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Database schema is up to date")
		return nil
	},
}
