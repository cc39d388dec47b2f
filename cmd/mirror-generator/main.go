// Package main provides the CLI entrypoint for mirror-generator.
//
// mirror-generator reads a canonical schema, either a YAML description or a
// Rust crate, and generates:
//   - one pydantic model per schema type
//   - a to_rs() converter back to the canonical type
//   - an __init__.py re-exporting every model
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mirror-generator/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cli.NewRootCmd().ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
