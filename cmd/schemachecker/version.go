package main

import (
	"fmt"
	"strings"

	schemachecker "github.com/bpkcongli/schema-checker"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of schemachecker",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "schemachecker version %s\n", strings.TrimSpace(schemachecker.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
