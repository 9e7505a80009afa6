package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"webappmanager/internal/models"
	"webappmanager/internal/service"
)

func newUserCmd(run runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(newUserCreateCmd(run), newUserRoleCmd(run))
	return cmd
}

func newUserCreateCmd(run runner) *cobra.Command {
	var email, name, role, password, phone string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Long: `Create a user account. Roles are USER, MANAGER and ADMIN.

Examples:
  managerctl user create --email ada@example.com --name Ada --role ADMIN --password 'correct horse'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := models.ParseRole(role)
			if err != nil {
				return err
			}
			input := service.CreateUserInput{Email: email, Password: password, Name: name, Role: parsed}
			if phone != "" {
				input.Phone = &phone
			}

			return run(cmd, func(ctx context.Context, b *backend) error {
				user, err := b.users.Create(ctx, input)
				if errors.Is(err, service.ErrInvalidUser) {
					return fmt.Errorf("--email and --password are required")
				}
				if errors.Is(err, service.ErrWeakPassword) {
					return fmt.Errorf("--password must be at least %d characters", service.MinPasswordLength)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) id=%s\n", user.Email, user.Role, user.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&name, "name", "", "display name (defaults to email)")
	cmd.Flags().StringVar(&role, "role", "USER", "USER, MANAGER or ADMIN")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	cmd.Flags().StringVar(&phone, "phone", "", "optional phone number")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newUserRoleCmd(run runner) *cobra.Command {
	var email, role string

	cmd := &cobra.Command{
		Use:   "role",
		Short: "Change a user's role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := models.ParseRole(role)
			if err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, b *backend) error {
				user, err := b.users.SetRole(ctx, email, parsed)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.Email, user.Role)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "user email")
	cmd.Flags().StringVar(&role, "role", "", "USER, MANAGER or ADMIN")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}
