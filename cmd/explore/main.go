// Command explore runs the data exploration pass on a local file: it loads
// a csv, xlsx or json table, keeps its numeric columns and prints
// statistics, renders charts or exports the processed table.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
