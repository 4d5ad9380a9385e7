package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/congo-pay/payinstr/internal/instruction"
	"github.com/congo-pay/payinstr/internal/status"
)

var parseCmd = &cobra.Command{
	Use:   "parse <instruction>",
	Short: "Show the fields extracted from an instruction",
	Long: `Parses an instruction without validating it against any accounts and
prints the extracted fields as YAML, or the status code it is rejected with.

Examples:
  payinstr parse DEBIT 500 NGN FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2
  payinstr parse "credit 10 usd to account x for debit from account y on 2030-01-01"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

type parsedView struct {
	Type          string `yaml:"type"`
	Amount        string `yaml:"amount"`
	Currency      string `yaml:"currency"`
	DebitAccount  string `yaml:"debit_account"`
	CreditAccount string `yaml:"credit_account"`
	ExecuteBy     string `yaml:"execute_by,omitempty"`
	Canonical     string `yaml:"canonical"`
}

func runParse(cmd *cobra.Command, args []string) error {
	parsed, err := instruction.Parse(strings.Join(args, " "))
	if err != nil {
		f := status.Unexpected(err)
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", status.Classify(f), f.Reason)
		return errRejected
	}

	out, err := yaml.Marshal(parsedView{
		Type:          string(parsed.Type),
		Amount:        parsed.Amount,
		Currency:      parsed.Currency,
		DebitAccount:  parsed.DebitAccountID,
		CreditAccount: parsed.CreditAccountID,
		ExecuteBy:     parsed.ExecuteBy,
		Canonical:     parsed.String(),
	})
	if err != nil {
		return fmt.Errorf("encode parsed instruction: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
