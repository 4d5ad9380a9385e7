package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/congo-pay/payinstr/internal/status"
)

var codesCmd = &cobra.Command{
	Use:   "codes",
	Short: "List every status code",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, code := range status.Codes {
			fmt.Fprintf(out, "%-6s %s\n", code, code.Description())
		}
	},
}

func init() {
	rootCmd.AddCommand(codesCmd)
}
