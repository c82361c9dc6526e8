// Command signpost converts, validates and generates Docusaurus sidebars
// files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signpost",
		Short: "Work with Docusaurus sidebars files",
		Long: `signpost reads and writes Docusaurus sidebars files as JavaScript
(sidebars.js), JSON or YAML. The input format is taken from the file
extension unless --from is given.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(defaultCmd())
	cmd.AddCommand(convertCmd())
	cmd.AddCommand(validateCmd())
	cmd.AddCommand(treeCmd())
	cmd.AddCommand(generateCmd())

	return cmd
}
