// Package cli is the notectl command tree.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/oksasatya/notekeeper/internal/client"
)

// App holds what every command shares. Fields left nil are filled from flags before a command runs.
type App struct {
	Client *client.Client
	In     *bufio.Reader
	Out    io.Writer

	// ReadPassword reads a secret without echo; tests replace it.
	ReadPassword func() (string, error)

	server    string
	tokenFile string
}

func NewApp() *App {
	return &App{In: bufio.NewReader(os.Stdin), Out: os.Stdout}
}

// NewRootCmd builds the notectl command tree around app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "notectl",
		Short:         "notectl - notekeeper from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init()
		},
	}
	root.PersistentFlags().StringVar(&app.server, "server", envOr("NOTEKEEPER_URL", "http://localhost:5000"), "API base URL")
	root.PersistentFlags().StringVar(&app.tokenFile, "token-file", os.Getenv("NOTEKEEPER_TOKEN_FILE"), "session token file (default: user config dir)")

	root.AddCommand(
		newSignupCmd(app),
		newVerifyCmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newForgotPasswordCmd(app),
		newResetPasswordCmd(app),
		newNotesCmd(app),
	)
	return root
}

// Execute runs notectl and prints a single user-facing line on failure.
func Execute() int {
	app := NewApp()
	if err := NewRootCmd(app).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", UserMessage(err))
		return 1
	}
	return 0
}

// UserMessage turns an error into what the user should read.
func UserMessage(err error) string {
	if errors.Is(err, client.ErrUnauthenticated) {
		return "please log in"
	}
	return err.Error()
}

func (a *App) init() error {
	if a.Out == nil {
		a.Out = os.Stdout
	}
	if a.In == nil {
		a.In = bufio.NewReader(os.Stdin)
	}
	if a.ReadPassword == nil {
		a.ReadPassword = a.readPasswordTerm
	}
	if a.Client != nil {
		return nil
	}
	path := a.tokenFile
	if path == "" {
		p, err := client.DefaultTokenPath()
		if err != nil {
			return fmt.Errorf("locate token file: %w", err)
		}
		path = p
	}
	a.Client = client.New(a.server, client.FileTokenStore{Path: path})
	return nil
}

func (a *App) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.Out, format, args...)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
