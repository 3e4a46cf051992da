package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// prompt prints label to the error stream and reads one line of input.
// If EOF occurs after some input was read, the partial line is returned.
func (a *App) prompt(label string) (string, error) {
	if _, err := fmt.Fprint(a.errOut, label); err != nil {
		return "", err
	}
	line, err := a.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// secret reads a value without echo when stdin is a terminal, and a plain
// line otherwise so that input can be piped in.
func (a *App) secret(label string) (string, error) {
	if !isTerminal(a.stdinFd) {
		return a.prompt(label)
	}
	if _, err := fmt.Fprint(a.errOut, label); err != nil {
		return "", err
	}
	b, err := readPassword(a.stdinFd)
	fmt.Fprintln(a.errOut)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// valueOr returns v, or prompts for it with label when v is empty.
func (a *App) valueOr(v, label string) (string, error) {
	if v != "" {
		return v, nil
	}
	return a.prompt(label)
}

// readAllInput returns everything left on stdin.
func (a *App) readAllInput() (string, error) {
	b, err := io.ReadAll(a.in)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
