package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// prompt prints label and reads one trimmed line.
func (a *App) prompt(label string) (string, error) {
	a.printf("%s: ", label)
	line, err := a.In.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// password reads a secret, falling back to a plain line when stdin is not a terminal.
func (a *App) password(label string) (string, error) {
	a.printf("%s: ", label)
	pw, err := a.ReadPassword()
	a.printf("\n")
	return pw, err
}

func (a *App) readPasswordTerm() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := a.In.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	b, err := term.ReadPassword(fd)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// emailArg takes the address from args or asks for it.
func (a *App) emailArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return a.prompt("Email")
}
