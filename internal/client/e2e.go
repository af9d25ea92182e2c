package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-user-auth/internal/adapter"
	"github.com/spf13/cobra"
)

// e2eStep is one check of the end-to-end scenario.
type e2eStep struct {
	name string
	run  func(ctx context.Context) error
}

func (a *App) e2eCmd() *cobra.Command {
	var email, password, newPassword string

	cmd := &cobra.Command{
		Use:   "e2e",
		Short: "Run the account lifecycle against the server",
		Long: `e2e registers a fresh account and walks it through a failed login, a
forbidden profile read, login, profile, logout, a password reset and a login
with the new password. It stops at the first step whose outcome differs.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, step := range a.e2eSteps(email, password, newPassword) {
				if err := step.run(cmd.Context()); err != nil {
					fmt.Fprintf(out, "FAIL %s\n", step.name)
					return fmt.Errorf("%s: %w", step.name, err)
				}
				fmt.Fprintf(out, "ok   %s\n", step.name)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "guillaume@holberton.io", "email of the account to create")
	cmd.Flags().StringVarP(&password, "password", "p", "b4l0u", "initial password")
	cmd.Flags().StringVarP(&newPassword, "new-password", "n", "t4rt1fl3tt3", "password set by the reset")

	return cmd
}

func (a *App) e2eSteps(email, password, newPassword string) []e2eStep {
	var resetToken string

	expect := func(err, want error) error {
		if errors.Is(err, want) {
			return nil
		}
		if err == nil {
			return fmt.Errorf("succeeded, want %v", want)
		}
		return fmt.Errorf("got %w, want %v", err, want)
	}

	return []e2eStep{
		{"register user", func(ctx context.Context) error {
			_, err := a.adapter.Register(ctx, email, password)
			return err
		}},
		{"log in with wrong password", func(ctx context.Context) error {
			_, err := a.adapter.Login(ctx, email, password+"-wrong")
			return expect(err, adapter.ErrUnauthorized)
		}},
		{"profile without session", func(ctx context.Context) error {
			a.adapter.SetSessionID("")
			_, err := a.adapter.Profile(ctx)
			return expect(err, adapter.ErrForbidden)
		}},
		{"log in", func(ctx context.Context) error {
			_, err := a.adapter.Login(ctx, email, password)
			return err
		}},
		{"profile with session", func(ctx context.Context) error {
			profile, err := a.adapter.Profile(ctx)
			if err != nil {
				return err
			}
			if profile.Email != email {
				return fmt.Errorf("profile email %q, want %q", profile.Email, email)
			}
			return nil
		}},
		{"log out", func(ctx context.Context) error {
			return a.adapter.Logout(ctx)
		}},
		{"request reset token", func(ctx context.Context) error {
			resp, err := a.adapter.ResetPasswordToken(ctx, email)
			if err != nil {
				return err
			}
			if resp.ResetToken == "" {
				return errors.New("empty reset token")
			}
			resetToken = resp.ResetToken
			return nil
		}},
		{"update password", func(ctx context.Context) error {
			_, err := a.adapter.UpdatePassword(ctx, email, resetToken, newPassword)
			return err
		}},
		{"log in with new password", func(ctx context.Context) error {
			_, err := a.adapter.Login(ctx, email, newPassword)
			return err
		}},
	}
}
