package main

import (
	"fmt"
	"io"

	"storyport/internal/core/version"
	"storyport/internal/platform/config"
	perr "storyport/internal/platform/errors"
	"storyport/internal/platform/logger"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbose bool
	quiet   bool
}

// newRoot builds the command tree; cfg supplies env defaults for every flag
func newRoot(cfg config.Conf) *cobra.Command {
	var rf rootFlags
	root := &cobra.Command{
		Use:   "storyport",
		Short: "Convert issue tracker exports into story tracker import csv",
		Long: `storyport replays the activity history of every issue in an XML export
and writes one story per issue in the story tracker's csv import format.`,
		Version:       version.Info().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			logger.Init(logger.FromEnv())
			switch {
			case rf.quiet:
				logger.SetLevel("error")
			case rf.verbose:
				logger.SetLevel("debug")
			}
		},
	}
	root.PersistentFlags().BoolVarP(&rf.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().BoolVarP(&rf.quiet, "quiet", "q", false, "only log errors")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return perr.Wrap(err, perr.ErrorCodeInvalidArgument, "usage")
	})

	root.AddCommand(newConvertCmd(cfg))
	root.AddCommand(newServeCmd(cfg))
	root.AddCommand(newTablesCmd(cfg))
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Info().String())
			return perr.WrapIf(err, perr.ErrorCodeIO, "write version")
		},
	})
	return root
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return perr.InvalidArgf("%s takes no arguments, got %q", cmd.CommandPath(), args)
	}
	return nil
}

// Execute runs the CLI and returns the process exit status
// Errors that are not project errors come from cobra itself and count as usage errors
func Execute(args []string, stdout, stderr io.Writer) int {
	root := newRoot(config.New())
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return perr.ExitOK
	}
	code := perr.ExitUsage
	if _, ok := perr.As(err); ok {
		code = perr.Exit(err)
	}
	msg := err.Error()
	if e, ok := perr.As(err); ok && e.Field() != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Field())
	}
	_, _ = fmt.Fprintln(stderr, "storyport:", msg)
	return code
}
