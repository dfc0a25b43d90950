package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Opening the store applies any pending migrations.
		s, path, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		applied, err := s.AppliedMigrations()
		if err != nil {
			return fmt.Errorf("listing migrations: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Database: %s\n", path)
		if len(applied) == 0 {
			fmt.Fprintln(out, "No migrations recorded.")
			return nil
		}
		for _, m := range applied {
			fmt.Fprintf(out, "✓ %d %s (applied %s)\n", m.Version, m.Name, m.AppliedAt)
		}
		return nil
	},
}

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the database file in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveDBPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(pathCmd)
}
