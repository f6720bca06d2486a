package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/sushihentaime/writeflow/internal/common"
	"github.com/sushihentaime/writeflow/internal/userservice"
)

func newAdminCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage administrator accounts",
	}

	var email, password, name string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an administrator or promote an existing account",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}

			db, err := common.NewDB(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, 2, 1, time.Minute)
			if err != nil {
				return fmt.Errorf("could not connect to the database: %w", err)
			}
			defer common.CloseDB(db)

			// No events are published while creating an admin, so no broker is needed.
			s := userservice.NewUserService(db, nil, userservice.NewTokenMaker(cfg.JWTSecret, userservice.AuthTokenTime))

			u, err := s.CreateAdmin(cmd.Context(), email, password, name)
			if err != nil {
				var verr common.ValidationError
				if errors.As(err, &verr) {
					return fmt.Errorf("invalid input: %v", verr.Errors)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "user %d (%s) is now an admin\n", u.ID, u.Email)
			return nil
		},
	}
	create.Flags().StringVar(&email, "email", "", "administrator email address")
	create.Flags().StringVar(&password, "password", "", "administrator password")
	create.Flags().StringVar(&name, "name", "Administrator", "display name")

	cmd.AddCommand(create)
	return cmd
}
