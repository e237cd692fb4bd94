/*
Copyright (C) 2025  Carl-Philip Hänsch

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package cmd is the lisk command line: run scripts, start a REPL, write
// the function reference or serve an evaluation endpoint.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/launix-de/lisk/config"
	"github.com/launix-de/lisk/iolib"
	"github.com/launix-de/lisk/lisk"
	"github.com/launix-de/lisk/sqllib"
	"github.com/spf13/cobra"
)

var workDir string

var rootCmd = &cobra.Command{
	Use:   "lisk [files...]",
	Short: "lisk interpreter",
	Long: `lisk runs the given script files in order; without files it starts
an interactive prompt.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		lisk.SetTrace(false, "")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return repl(cmd.OutOrStdout())
		}
		return runFiles(newEnv(cmd.OutOrStdout()), args, false, cmd.OutOrStdout())
	},
}

// flagSettings maps persistent flags to the settings they override.
var flagSettings = map[string]string{
	"trace":       "Trace",
	"trace-print": "TracePrint",
	"trace-dir":   "TraceDir",
	"history":     "HistoryFile",
	"max-stack":   "MaxStack",
	"log-level":   "LogLevel",
	"collation":   "Collation",
}

func init() {
	wd, _ := os.Getwd()
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&workDir, "wd", wd, "working directory for (import) and (load)")
	flags.Bool("trace", config.Settings.Trace, "write a Chrome trace of every top-level form")
	flags.Bool("trace-print", config.Settings.TracePrint, "let (time) print its measurements")
	flags.String("trace-dir", config.Settings.TraceDir, "folder for trace files")
	flags.String("history", config.Settings.HistoryFile, "REPL history file")
	flags.String("max-stack", config.Settings.MaxStack, "maximum goroutine stack size, e.g. 512MiB")
	flags.String("log-level", config.Settings.LogLevel, "debug, info, warn or error")
	flags.String("collation", config.Settings.Collation, "default collation for string comparison")
}

// setup applies settings: defaults, then LISK_* variables, then flags.
func setup(cmd *cobra.Command, args []string) error {
	config.SetupLogging(cmd.ErrOrStderr())
	if err := config.LoadEnv(); err != nil {
		return err
	}
	for flag, setting := range flagSettings {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := config.Set(setting, f.Value.String()); err != nil {
			return err
		}
	}
	return config.InitSettings()
}

// newEnv builds a top-level environment with every library installed.
func newEnv(out io.Writer) lisk.Environment {
	env := lisk.DefaultEnv(lisk.WithOutput(out))
	iolib.Install(env, workDir)
	sqllib.Install(env)
	config.Install(env)
	return env
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("lisk failed", "err", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
