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

package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/launix-de/lisk/iolib"
	"github.com/launix-de/lisk/lisk"
	"github.com/spf13/cobra"
)

var (
	runExpression bool
	runPrint      bool
	runWait       bool
)

var runCmd = &cobra.Command{
	Use:   "run [files...]",
	Short: "Run lisk code",
	Long:  `Run lisk code supplied via the command line or script files.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env := newEnv(cmd.OutOrStdout())
		if err := runFiles(env, args, runExpression, cmd.OutOrStdout()); err != nil {
			return err
		}
		if runWait {
			// watches installed by the scripts keep firing until interrupted
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as lisk expressions")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print expression values to stdout")
	runCmd.Flags().BoolVarP(&runWait, "wait", "w", false,
		"Keep running after the scripts so file watches stay active")
}

// runFiles evaluates each argument, a script path or with expressions set
// the source itself, and stops at the first exception.
func runFiles(env lisk.Environment, args []string, expressions bool, out io.Writer) error {
	for _, arg := range args {
		var form lisk.Expression
		label := arg
		if expressions {
			form = lisk.Parse(lisk.RootTokenize(arg))
			label = "expression"
		} else {
			form = lisk.FromList(lisk.ListOf(lisk.Sym("import"), lisk.Str(iolib.Resolve(workDir, arg))))
		}
		result := lisk.EvalForm(label, form, env)
		if result.IsException() {
			return fmt.Errorf("%s: %w", label, result.AsException())
		}
		if runPrint {
			fmt.Fprintln(out, lisk.String(result))
		}
	}
	return nil
}
