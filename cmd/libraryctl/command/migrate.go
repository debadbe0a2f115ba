package command

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"libraryhub/database"
)

var rollbackSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, zl, err := setup()
		if err != nil {
			return err
		}
		defer zl.Sync()

		if err := database.RunMigrations(cfg.DatabaseURL, zl); err != nil {
			return err
		}
		color.Green("✓ Schema is up to date")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if rollbackSteps < 1 {
			return fmt.Errorf("--steps must be at least 1")
		}
		cfg, zl, err := setup()
		if err != nil {
			return err
		}
		defer zl.Sync()

		if err := database.RollbackMigrations(cfg.DatabaseURL, rollbackSteps, zl); err != nil {
			return err
		}
		color.Yellow("Rolled back %d migration(s)", rollbackSteps)
		return nil
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, zl, err := setup()
		if err != nil {
			return err
		}
		defer zl.Sync()

		version, dirty, err := database.MigrationVersion(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		if dirty {
			color.Red("Schema version %d (dirty)", version)
			return nil
		}
		fmt.Printf("Schema version %d\n", version)
		return nil
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&rollbackSteps, "steps", 1, "number of migrations to roll back")

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}
