package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sushihentaime/writeflow/internal/common"
)

func newMigrateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, dsn, err := opts.load()
			if err != nil {
				return err
			}

			m, err := common.MigrateUp(opts.migrations, dsn)
			if err != nil {
				return fmt.Errorf("could not apply migrations: %w", err)
			}
			defer m.Close()

			version, dirty, err := m.Version()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "database at version %d (dirty: %t)\n", version, dirty)
			return nil
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return errors.New("--steps must be at least 1")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, dsn, err := opts.load()
			if err != nil {
				return err
			}

			if err := common.MigrateDown(opts.migrations, dsn, steps); err != nil {
				return fmt.Errorf("could not roll back migrations: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", steps)
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	cmd.AddCommand(up, down)
	return cmd
}
