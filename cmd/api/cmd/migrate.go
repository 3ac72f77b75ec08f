package cmd

import (
	"fmt"

	"donationtracker/config"
	"donationtracker/internal/repository/postgres"

	"github.com/spf13/cobra"
)

var migrateSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		if err := postgres.MigrateUp(cfg.DBUrl); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	Long: `Roll back the given number of migrations (default 1).

Examples:
  # Undo the latest migration
  api migrate down

  # Undo the latest two migrations
  api migrate down --steps 2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateSteps < 1 {
			return fmt.Errorf("--steps must be at least 1")
		}
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		if err := postgres.MigrateDown(cfg.DBUrl, migrateSteps); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", migrateSteps)
		return nil
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateSteps, "steps", 1, "number of migrations to roll back")
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}
