// Command vtree renders tree files into an in-memory document, diffs them,
// and serves a live mirror of the document over HTTP.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	vterrors "github.com/vango-dev/vtree/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	root := rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		printError(stderr, err)
		return 1
	}
	return 0
}

func rootCmd() *cobra.Command {
	var colorMode string

	cmd := &cobra.Command{
		Use:   "vtree",
		Short: "Render and diff virtual trees",
		Long: `vtree reconciles virtual trees against an in-memory document.

Trees are YAML or JSON files. Use vtree to see exactly which surface
operations a change between two trees produces, or serve a live
mirror of the document and post trees to it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setColor(colorMode, cmd.OutOrStdout())
		},
	}
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usage(err)
	})

	cmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "Colorize output: auto, always or never")

	cmd.AddCommand(
		diffCmd(),
		extractCmd(),
		serveCmd(),
		versionCmd(),
	)
	return cmd
}

// setColor decides whether output is colorized. In auto mode color is used
// only when w is a terminal.
func setColor(mode string, w io.Writer) error {
	switch mode {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	case "auto", "":
		color.NoColor = !isTerminal(w)
	default:
		return usage(fmt.Errorf("invalid --color %q", mode)).
			WithSuggestion("Use one of: auto, always, never")
	}
	if color.NoColor {
		vterrors.DisableColors()
	} else {
		vterrors.EnableColors()
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func usage(err error) *vterrors.Error {
	return vterrors.New(vterrors.CodeUsage).WithDetail(err.Error())
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usage(err).WithSuggestion("Run '" + cmd.CommandPath() + " --help' for usage")
		}
		return nil
	}
}

// printError writes err and every error joined into it.
func printError(w io.Writer, err error) {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			printError(w, e)
		}
		return
	}
	var ve *vterrors.Error
	if errors.As(err, &ve) {
		vterrors.Fprint(w, ve)
		return
	}
	vterrors.Fprint(w, err)
}
