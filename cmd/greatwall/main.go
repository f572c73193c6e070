// Command greatwall runs an interactive GreatWall derivation in the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/Yuri-SVB/Great-Wall/greatwall"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	exitOK       = 0
	exitFailure  = 1
	exitUsage    = 2
	exitCanceled = 130
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func run(args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	root := newRootCmd(in)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(context.Background())
	var uerr usageError
	switch {
	case err == nil:
		return exitOK
	case isCanceled(err):
		fmt.Fprintln(errOut, styles.warn.Render("canceled; all session secrets were wiped"))
		return exitCanceled
	case errors.As(err, &uerr), strings.HasPrefix(err.Error(), "unknown command"):
		fmt.Fprintf(errOut, "greatwall: %v\n\n", err)
		fmt.Fprint(errOut, root.UsageString())
		return exitUsage
	default:
		fmt.Fprintln(errOut, styles.err.Render("greatwall: "+err.Error()))
		return exitFailure
	}
}

func isCanceled(err error) bool {
	return greatwall.IsCanceled(err) || errors.Is(err, context.Canceled) || errors.Is(err, huh.ErrUserAborted)
}

func newRootCmd(in io.Reader) *cobra.Command {
	root := &cobra.Command{
		Use:           "greatwall",
		Short:         "Derive a secret from a passphrase and a walk through recognizable choices",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})
	root.AddCommand(newDeriveCmd(in), newPathIndexCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "greatwall", version)
			return err
		},
	}
}
