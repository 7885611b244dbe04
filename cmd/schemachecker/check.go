package main

import (
	"os"

	"github.com/bpkcongli/schema-checker/internal/cli"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [document ids...]",
	Short: "Check payloads against a schema",
	Long: `Checks payloads against the schema named by --schema.

Payloads come from the Loam documents named as arguments (read from --dir),
from --file, or from stdin when neither is given. Each payload gets a PASS or
FAIL line. The command exits with status 1 if any payload is refused.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv(cmd, cli.Options{})
		if err != nil {
			return err
		}

		schemaName, _ := cmd.Flags().GetString("schema")
		dir, _ := cmd.Flags().GetString("dir")
		file, _ := cmd.Flags().GetString("file")
		noColor, _ := cmd.Flags().GetBool("no-color")

		return cli.RunCheck(cmd.Context(), env, cli.CheckOptions{
			Schema: schemaName,
			Dir:    dir,
			IDs:    args,
			File:   file,
			Stdin:  cmd.InOrStdin(),
			Out:    cmd.OutOrStdout(),
			Color:  !noColor && cli.IsTerminal(os.Stdout),
		})
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringP("schema", "s", "", "Name of the schema to check against")
	checkCmd.Flags().StringP("dir", "d", ".", "Directory holding the documents named as arguments")
	checkCmd.Flags().StringP("file", "f", "", "Read the payload from a JSON file")
	checkCmd.Flags().Bool("no-color", false, "Disable colored output")
	_ = checkCmd.MarkFlagRequired("schema")
}
