package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/datadash/internal/chart"
	"github.com/JonMunkholm/datadash/internal/core"
)

func newChartCmd(opts *globalOptions) *cobra.Command {
	var (
		kind string
		x, y string
		out  string
	)

	cmd := &cobra.Command{
		Use:   "chart FILE",
		Short: "Render a chart of the selected numeric columns to PNG",
		Long: "Render a chart to PNG. Kinds: histogram, line, pie, box, scatter, " +
			"density_heatmap and correlation_heatmap. Box plots also print their outliers.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// An unknown kind stays zero and is reported as a selection warning.
			k, _ := chart.ParseKind(kind)

			svc, sess, err := openSession(cmd.Context(), opts, args[0])
			if err != nil {
				return err
			}

			res, err := svc.RenderChart(cmd.Context(), sess.ID, chart.Request{Kind: k, X: x, Y: y})
			if err != nil {
				return core.NewUserError(err)
			}
			png, err := svc.ExportChartPNG(sess.ID)
			if err != nil {
				return core.NewUserError(err)
			}

			w := cmd.OutOrStdout()
			if err := writeFile(w, out, png); err != nil {
				return err
			}
			if out == "-" {
				return nil
			}

			fmt.Fprintf(w, "%s written to %s\n", res.Title, out)
			if b := res.Box; b != nil {
				fmt.Fprintf(w, "Q1 %s, median %s, Q3 %s, fences [%s, %s]\n",
					formatStat(b.Q1), formatStat(b.Median), formatStat(b.Q3),
					formatStat(b.LowerFence), formatStat(b.UpperFence))
			}
			if res.Outliers != nil {
				if res.Outliers.Rows() == 0 {
					fmt.Fprintln(w, "No outliers.")
				} else {
					fmt.Fprintf(w, "Outliers (%d):\n", res.Outliers.Rows())
					printTable(w, res.Outliers)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Chart kind")
	cmd.Flags().StringVar(&x, "x", "", "Column to plot")
	cmd.Flags().StringVar(&y, "y", "", "Second column for scatter and density heatmap")
	cmd.Flags().StringVar(&out, "out", "chart.png", "Output file, or - for stdout")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}
