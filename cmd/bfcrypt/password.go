package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// passwordPrompt is swapped out in tests.
var passwordPrompt = promptPassword

// promptPassword reads the password from the terminal without echoing it.
// When confirm is set the password has to be typed twice.
func promptPassword(cmd *cobra.Command, confirm bool) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("no password given and stdin is not a terminal")
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	if !confirm {
		return password, nil
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Confirm password: ")
	again, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	if !bytes.Equal(password, again) {
		return nil, errors.New("passwords do not match")
	}
	return password, nil
}
