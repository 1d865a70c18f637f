package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pinbox/pinbox/internal/config"
)

// promptValue asks for git.token on the terminal instead of the command line.
const promptValue = "-"

const maskedToken = "********"

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config <key> [value]",
		Short: "Show or change a setting",
		Long: `Show or change a pinbox setting.

Keys:
  git.repository  URL of the remote notes repository
  git.token       token sent as the password when pushing over http(s)

Pass "-" as the git.token value to type it without echo.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if len(args) == 1 {
				return a.showSetting(key)
			}

			value := args[1]
			if key == config.KeyToken && value == promptValue {
				v, err := a.readSecret("Token: ")
				if err != nil {
					return err
				}
				value = v
			}

			err := a.store.SetKey(key, value)
			if errors.Is(err, config.ErrUnknownKey) {
				fmt.Fprintf(a.stdout, "Unknown key %q\n", key)
				return nil
			}
			return err
		},
	}
}

func (a *app) showSetting(key string) error {
	cfg, err := a.store.LoadOptional()
	if err != nil {
		return err
	}

	value, ok, err := cfg.Get(key)
	if errors.Is(err, config.ErrUnknownKey) {
		fmt.Fprintf(a.stdout, "Unknown key %q\n", key)
		return nil
	}
	if err != nil {
		return err
	}

	switch {
	case !ok:
		fmt.Fprintf(a.stdout, "%s is not set\n", key)
	case key == config.KeyToken:
		fmt.Fprintln(a.stdout, maskedToken)
	default:
		fmt.Fprintln(a.stdout, value)
	}
	return nil
}

// readSecret reads one line from stdin, without echo when stdin is a
// terminal.
func (a *app) readSecret(prompt string) (string, error) {
	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(a.stderr, prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read token: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("failed to read token: empty input")
	}
	return line, nil
}
