package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/cfgmigrate/cmd/cfgmigrate"
	"github.com/arthur-debert/cfgmigrate/pkg/ui/styles"
)

func main() {
	// Interrupting a migration cancels the remaining steps; stopped
	// services are still started again.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cfgmigrate.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, styles.Render("Error", fmt.Sprintf("Error: %v", err)))
		stop()
		os.Exit(1)
	}
}
