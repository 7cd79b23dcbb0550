package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/datadash/internal/core"
)

func newExportCmd(opts *globalOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Write the selected numeric columns as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, sess, err := openSession(cmd.Context(), opts, args[0])
			if err != nil {
				return err
			}

			data, err := svc.ExportCSV(sess.ID)
			if err != nil {
				return core.NewUserError(err)
			}
			if err := writeFile(cmd.OutOrStdout(), out, data); err != nil {
				return err
			}
			if out != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "%d rows written to %s\n", sess.Working.Rows(), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "processed_data.csv", "Output file, or - for stdout")
	return cmd
}
