package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tsa/internal/cli"
	"tsa/internal/cli/commands"
	"tsa/internal/config"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:           "tsa",
		Short:         "Test suite adaptor for gccrs",
		Long:          `Generate a YAML test suite for gccrs out of the rust and gccrs test corpora, using rustc as the reference compiler.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	// Interrupts cancel running compilers and restore the rust checkout
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute root command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
