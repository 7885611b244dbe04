package main

import (
	"fmt"
	"os"

	"github.com/bpkcongli/schema-checker/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "schemachecker",
	Short: "Schema Checker validates JSON payloads against named schemas",
	Long: `Schema Checker validates JSON payloads against mandatory and non-mandatory
schemas declared in a YAML config file, from the command line, over HTTP or as
an MCP server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if err != cli.ErrViolations {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "schemachecker.yaml", "Path to the config file")
	rootCmd.PersistentFlags().String("log-level", "", "Override the configured log level (debug, info, warn, error)")
}

// loadEnv reads the persistent flags and loads the environment.
func loadEnv(cmd *cobra.Command, opts cli.Options) (*cli.Environment, error) {
	opts.ConfigPath, _ = cmd.Flags().GetString("config")
	opts.LogLevel, _ = cmd.Flags().GetString("log-level")
	return cli.Load(opts)
}
