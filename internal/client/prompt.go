package client

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// TerminalPasswordReader reads passwords from in without echo when in is a
// terminal and line by line otherwise. Nil arguments mean os.Stdin and
// os.Stderr.
func TerminalPasswordReader(in io.Reader, out io.Writer) PasswordReader {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stderr
	}
	lines := bufio.NewReader(in)

	return func(prompt string) (string, error) {
		fmt.Fprint(out, prompt)

		if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			password, err := term.ReadPassword(int(f.Fd()))
			fmt.Fprintln(out)
			if err != nil {
				return "", fmt.Errorf("read password: %w", err)
			}
			return string(password), nil
		}

		line, err := lines.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
}

// passwordOrPrompt returns flagValue or asks for the password.
func (a *App) passwordOrPrompt(flagValue, prompt string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	password, err := a.readPassword(prompt)
	if err != nil {
		return "", err
	}
	if password == "" {
		return "", errEmptyPassword
	}
	return password, nil
}
