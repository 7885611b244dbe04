package main

import (
	"os"

	"github.com/bpkcongli/schema-checker/internal/cli"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Describe the configured schemas",
	Long:  `Renders every configured schema as markdown. Output is styled when stdout is a terminal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv(cmd, cli.Options{})
		if err != nil {
			return err
		}

		raw, _ := cmd.Flags().GetBool("raw")
		return cli.Describe(env, cli.DescribeOptions{
			Out:    cmd.OutOrStdout(),
			Styled: !raw && cli.IsTerminal(os.Stdout),
			Width:  cli.TerminalWidth(os.Stdout),
		})
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().Bool("raw", false, "Print raw markdown")
}
