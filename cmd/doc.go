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
	"fmt"

	"github.com/launix-de/lisk/lisk"
	"github.com/spf13/cobra"
)

var docCmd = &cobra.Command{
	Use:   "doc [folder]",
	Short: "Write the function reference as markdown",
	Long: `Writes index.md and one markdown file per chapter of builtins into
folder (default: docs). With --topic only the help of one function is
printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if docTopic != "" {
			return lisk.Help(cmd.OutOrStdout(), docTopic)
		}
		folder := "docs"
		if len(args) > 0 {
			folder = args[0]
		}
		if err := lisk.WriteDocumentation(folder); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "documentation written to %s\n", folder)
		return nil
	},
}

var docTopic string

func init() {
	rootCmd.AddCommand(docCmd)
	docCmd.Flags().StringVarP(&docTopic, "topic", "t", "", "print the help of one function")
}
