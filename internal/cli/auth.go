package cli

import (
	"github.com/spf13/cobra"
)

func newSignupCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "signup [email]",
		Short: "Create an account",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := app.emailArg(args)
			if err != nil {
				return err
			}
			pw, err := app.password("Password")
			if err != nil {
				return err
			}
			msg, err := app.Client.Signup(cmd.Context(), email, pw)
			if err != nil {
				return err
			}
			app.printf("%s\n", msg)
			return nil
		},
	}
}

func newVerifyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <token>",
		Short: "Verify an email address with the token from the verification mail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := app.Client.VerifyEmail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			app.printf("%s\n", msg)
			return nil
		},
	}
}

func newLoginCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login [email]",
		Short: "Log in and remember the session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := app.emailArg(args)
			if err != nil {
				return err
			}
			pw, err := app.password("Password")
			if err != nil {
				return err
			}
			s, err := app.Client.Login(cmd.Context(), email, pw)
			if err != nil {
				return err
			}
			app.printf("logged in as %s (session expires %s)\n", s.User.Email, s.ExpiresAt.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Client.Logout(cmd.Context()); err != nil {
				return err
			}
			app.printf("logged out\n")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.Client.Me(cmd.Context())
			if err != nil {
				return err
			}
			status := "unverified"
			if u.Verified {
				status = "verified"
			}
			app.printf("%s (%s) id=%s\n", u.Email, status, u.ID)
			return nil
		},
	}
}

func newForgotPasswordCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "forgot-password [email]",
		Short: "Request a password reset link",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := app.emailArg(args)
			if err != nil {
				return err
			}
			msg, err := app.Client.ForgotPassword(cmd.Context(), email)
			if err != nil {
				return err
			}
			app.printf("%s\n", msg)
			return nil
		},
	}
}

func newResetPasswordCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <token>",
		Short: "Set a new password with the token from the reset mail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := app.password("New password")
			if err != nil {
				return err
			}
			msg, err := app.Client.ResetPassword(cmd.Context(), args[0], pw)
			if err != nil {
				return err
			}
			app.printf("%s\n", msg)
			return nil
		},
	}
}
