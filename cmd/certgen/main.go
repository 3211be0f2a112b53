// certgen renders a personalised certificate for every row of a recipient
// list and bundles them into one zip archive.
//
// Usage:
//
//	certgen generate --template=<path|url> --records=<xlsx|csv|yaml|json> [--output-dir=<dir>]
//	certgen compositors
//	certgen config [--config=<file>]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "certgen: %v\n", err)
		stop()
		os.Exit(1)
	}
}
