package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// execFn runs one tokenized command line.
type execFn func(ctx context.Context, args []string) error

// runREPL reads lines from reader and hands them to exec until EOF or
// "exit". The prompt shows statusFn. Command errors are printed and the
// loop goes on.
func runREPL(ctx context.Context, reader *bufio.Reader, w io.Writer, exec execFn, statusFn func() string) {
	for {
		fmt.Fprintf(w, "guardian %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			fmt.Fprintln(w)
			return
		}

		args, perr := splitArgs(line)
		if perr != nil {
			fmt.Fprintln(w, perr)
			continue
		}
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		case "shell":
			fmt.Fprintln(w, "already in the shell")
		default:
			if err := exec(ctx, args); err != nil {
				fmt.Fprintln(w, "Error:", err)
			}
		}
		if ctx.Err() != nil {
			return
		}
	}
}

// splitArgs splits line on whitespace. Double quotes group words.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inQuote bool
		started bool
	)
	for _, r := range strings.TrimSpace(line) {
		switch {
		case r == '"':
			inQuote = !inQuote
			started = true
		case !inQuote && (r == ' ' || r == '\t'):
			if started {
				args = append(args, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if inQuote {
		return nil, errors.New("unterminated quote")
	}
	if started {
		args = append(args, cur.String())
	}
	return args, nil
}

func (a *App) status() string {
	s := "signed out"
	if a.session != nil {
		s = fmt.Sprintf("user %d", a.session.UserID)
		if a.session.IsGuest {
			s += " guest"
		}
	}
	return fmt.Sprintf("(%s, %s)", s, a.Mode)
}

// execLine runs args through a fresh command tree bound to a.
func (a *App) execLine(ctx context.Context, args []string) error {
	cmd := NewRootCommand(a)
	cmd.SetArgs(args)
	cmd.SetOut(a.out)
	cmd.SetErr(a.out)
	cmd.SilenceErrors = true
	return cmd.ExecuteContext(ctx)
}

func newShellCommand(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run commands interactively (type 'help' for commands)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := st.get(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Guardian shell (type 'help' for commands, 'exit' to leave)")
			runREPL(cmd.Context(), a.reader, a.out, a.execLine, a.status)
			return nil
		},
	}
}
