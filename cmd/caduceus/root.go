package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "caduceus",
	Short: "Caduceus Veritas - regulated medical record-keeping service",
	Long: `Caduceus Veritas is a record-keeping service for AI-assisted medical
image analysis, built for regulated environments.

It exposes an HTTP API for submitting medical images, providing:
  - Deterministic image classification with diagnostic findings
  - Cryptographic signing of every diagnosis via a signing oracle
  - Durable SQLite persistence for records and audit entries
  - An append-only audit trail with compliance flags
  - Per-record FDA/HIPAA compliance reports`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
