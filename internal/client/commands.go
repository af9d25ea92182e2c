package client

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) registerCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := a.passwordOrPrompt(password, "Password: ")
			if err != nil {
				return err
			}

			resp, err := a.adapter.Register(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("register: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", resp.Message, resp.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when empty)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func (a *App) loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Open a session and print its id",
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := a.passwordOrPrompt(password, "Password: ")
			if err != nil {
				return err
			}

			resp, err := a.adapter.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s\n", resp.Message, resp.Email)
			fmt.Fprintf(out, "session_id: %s\n", a.adapter.SessionID())
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when empty)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func (a *App) profileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Print the email of the session's user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.adapter.SessionID() == "" {
				return errNoSession
			}

			resp, err := a.adapter.Profile(cmd.Context())
			if err != nil {
				return fmt.Errorf("profile: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "email: %s\n", resp.Email)
			return nil
		},
	}
}

func (a *App) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Destroy the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.adapter.SessionID() == "" {
				return errNoSession
			}

			if err := a.adapter.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logout: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func (a *App) resetTokenCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "reset-token",
		Short: "Request a password reset token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := a.adapter.ResetPasswordToken(cmd.Context(), email)
			if err != nil {
				return fmt.Errorf("reset token: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "reset_token: %s\n", resp.ResetToken)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func (a *App) updatePasswordCmd() *cobra.Command {
	var email, token, newPassword string

	cmd := &cobra.Command{
		Use:   "update-password",
		Short: "Set a new password with a reset token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			newPassword, err := a.passwordOrPrompt(newPassword, "New password: ")
			if err != nil {
				return err
			}

			resp, err := a.adapter.UpdatePassword(cmd.Context(), email, token, newPassword)
			if err != nil {
				return fmt.Errorf("update password: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", resp.Message, resp.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&token, "token", "t", "", "reset token printed by reset-token")
	cmd.Flags().StringVarP(&newPassword, "new-password", "n", "", "new password (prompted when empty)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("token")

	return cmd
}
