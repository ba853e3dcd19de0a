package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/okian/recruitportal/internal/adapters/http/portalapi"
	"github.com/okian/recruitportal/internal/domain/model"
	"github.com/spf13/cobra"
)

const maxCodeAttempts = 3

func loginCmd(a *cliApp) *cobra.Command {
	var email, password, role, code string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email, password and an emailed OTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c := a.session.Auth()
			c.Open(model.Role(role))
			if password == "" {
				p, err := a.term.prompt("Password: ")
				if err != nil {
					return err
				}
				password = p
			}
			c.Credentials().SetLogin(email, password)
			if err := c.SendOtp(ctx); err != nil {
				return err
			}
			return a.verify(ctx, code)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when empty)")
	cmd.Flags().StringVar(&role, "role", string(model.RoleCandidate), "Intended role: candidate or recruiter")
	cmd.Flags().StringVar(&code, "code", "", "OTP code (prompted when empty)")
	return cmd
}

func signupCmd(a *cliApp) *cobra.Command {
	var name, email, password, confirm, role, code string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and verify it with an emailed OTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c := a.session.Auth()
			r, ok := model.ParseRole(role)
			if !ok {
				return fmt.Errorf("unknown role %q", role)
			}
			c.Open(r)
			c.SwitchTab(model.ModeSignup)
			if confirm == "" {
				confirm = password
			}
			c.Credentials().SetSignup(name, email, password, confirm)
			if err := c.CreateAccount(ctx); err != nil {
				return err
			}
			return a.verify(ctx, code)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Full name")
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	cmd.Flags().StringVar(&confirm, "confirm", "", "Password confirmation (defaults to --password)")
	cmd.Flags().StringVar(&role, "role", string(model.RoleCandidate), "Account role: candidate or recruiter")
	cmd.Flags().StringVar(&code, "code", "", "OTP code (prompted when empty)")
	return cmd
}

// verify submits code, or prompts for one. At the prompt "r" resends the OTP
// and a rejected code may be retried.
func (a *cliApp) verify(ctx context.Context, code string) error {
	c := a.session.Auth()
	if code != "" {
		c.Otp().Type(code)
		return c.VerifyOtp(ctx)
	}
	var lastErr error
	for attempt := 0; attempt < maxCodeAttempts; {
		input, err := a.term.prompt("Enter OTP (r to resend): ")
		if err != nil {
			return err
		}
		if strings.EqualFold(input, "r") {
			if err := c.ResendOtp(ctx); err != nil {
				return err
			}
			continue
		}
		c.Otp().Reset()
		c.Otp().FocusFirst()
		c.Otp().Type(input)
		lastErr = c.VerifyOtp(ctx)
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, portalapi.ErrServer) && !errors.Is(lastErr, portalapi.ErrValidation) {
			return lastErr
		}
		attempt++
	}
	return lastErr
}

func logoutCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}
