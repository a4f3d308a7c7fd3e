package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

type app struct {
	verbose    bool
	configPath string
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	root := &cobra.Command{
		Use:   "oraclemask",
		Short: "Oracle time-frequency mask separation",
		Long: `oraclemask - ideal ratio and binary mask separation.

Given the clean target and interference recordings, the masks are derived
from their spectrograms and applied to the mixture. The result is the
upper bound a blind separation algorithm can reach with the same analysis
parameters.

Settings are read from an optional YAML file (--config); command-line
flags override file values.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.logger = newLogger(cmd.ErrOrStderr(), a.verbose)
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML settings file")

	root.AddCommand(newSeparateCmd(a))
	root.AddCommand(newWindowCmd(a))

	return root
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
