package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/datadash/internal/core"
)

func newDescribeCmd(opts *globalOptions) *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "describe FILE",
		Short: "Print columns, a preview and descriptive statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, sess, err := openSession(cmd.Context(), opts, args[0])
			if err != nil {
				return err
			}

			preview, err := svc.Preview(sess.ID, rows)
			if err != nil {
				return core.NewUserError(err)
			}
			summaries, err := svc.Describe(sess.ID)
			if err != nil {
				return core.NewUserError(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "File: %s (%d rows)\n", sess.FileName, sess.Original.Rows())
			fmt.Fprintf(out, "Columns: %s\n", strings.Join(sess.Original.Names(), ", "))
			fmt.Fprintf(out, "Numeric columns: %s\n", joinOrNone(sess.Original.NumericColumns()))
			fmt.Fprintf(out, "Selected: %s\n\n", joinOrNone(sess.Selected))

			fmt.Fprintln(out, "Preview:")
			printTable(out, preview)

			if len(summaries) > 0 {
				fmt.Fprintln(out, "\nStatistics:")
				printSummaries(out, summaries)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 0, "Preview rows (default: 5)")
	return cmd
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}
