package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/datadash/internal/chart"
	"github.com/JonMunkholm/datadash/internal/core"
	"github.com/JonMunkholm/datadash/internal/logging"
)

// Exit statuses.
const (
	exitOK      = 0
	exitFailure = 1
	exitWarning = 2
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	columns  []string
	logLevel string
	width    int
	height   int
}

// execute runs the CLI with args and returns the process exit status.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(stderr)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return reportError(stderr, err)
	}
	return exitOK
}

// reportError prints err for a person and picks the exit status. Known
// data problems print their user message; warnings exit 2.
func reportError(w io.Writer, err error) int {
	var userErr *core.UserError
	if !errors.As(err, &userErr) {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitFailure
	}

	msg := userErr.User
	if msg.Warning {
		fmt.Fprintf(w, "Warning: %s (%s)\n", msg.Message, msg.Code)
	} else {
		fmt.Fprintf(w, "Error: %s (%s)\n", msg.Message, msg.Code)
	}
	if msg.Detail != "" {
		fmt.Fprintf(w, "  %s\n", msg.Detail)
	}
	if msg.Action != "" {
		fmt.Fprintf(w, "  %s\n", msg.Action)
	}

	if msg.Warning {
		return exitWarning
	}
	return exitFailure
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	opts := &globalOptions{}
	defaults := chart.DefaultOptions()

	rootCmd := &cobra.Command{
		Use:           "explore",
		Short:         "Explore csv, xlsx and json tables from the terminal",
		Long:          "Loads a table, keeps its numeric columns and prints statistics, draws charts or exports the processed data.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			slog.SetDefault(logging.New(stderr, opts.logLevel, "text"))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringSliceVar(&opts.columns, "columns", nil, "Numeric columns to keep (default: all numeric columns)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().IntVar(&opts.width, "width", defaults.Width, "Chart width in pixels")
	rootCmd.PersistentFlags().IntVar(&opts.height, "height", defaults.Height, "Chart height in pixels")

	rootCmd.AddCommand(newDescribeCmd(opts))
	rootCmd.AddCommand(newChartCmd(opts))
	rootCmd.AddCommand(newExportCmd(opts))

	return rootCmd
}

// openSession loads path into a fresh service and applies --columns.
func openSession(ctx context.Context, opts *globalOptions, path string) (*core.Service, core.Session, error) {
	svc := core.NewService(core.Options{
		MaxConcurrent: 1,
		MaxSessions:   1,
		Chart:         chart.Options{Width: opts.width, Height: opts.height},
	})

	f, err := os.Open(path)
	if err != nil {
		return nil, core.Session{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, core.Session{}, fmt.Errorf("stat %s: %w", path, err)
	}

	sess, err := svc.Upload(ctx, filepath.Base(path), f, info.Size())
	if err != nil {
		return nil, core.Session{}, core.NewUserError(err)
	}

	if len(opts.columns) > 0 {
		sess, err = svc.SelectColumns(sess.ID, opts.columns)
		if err != nil {
			return nil, core.Session{}, core.NewUserError(err)
		}
	}
	return svc, sess, nil
}

// writeFile writes data to path, or to out when path is "-".
func writeFile(out io.Writer, path string, data []byte) error {
	if path == "-" {
		_, err := out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
