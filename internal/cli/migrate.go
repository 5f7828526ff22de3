package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"fyp-portal/pkg/database"
)

func (a *app) migrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(_ context.Context, e *env, out io.Writer) error {
				if e.sqlDB == nil {
					return errors.New("no database connection")
				}
				if err := database.RunMigrations(e.sqlDB, e.logger); err != nil {
					return err
				}
				_, err := fmt.Fprintln(out, "migrations applied")
				return err
			})
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Revert the last migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(_ context.Context, e *env, out io.Writer) error {
				if e.sqlDB == nil {
					return errors.New("no database connection")
				}
				if err := database.RollbackMigrations(e.sqlDB, steps, e.logger); err != nil {
					return err
				}
				_, err := fmt.Fprintf(out, "reverted %d migration(s)\n", steps)
				return err
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to revert")

	cmd.AddCommand(up, down)
	return cmd
}
