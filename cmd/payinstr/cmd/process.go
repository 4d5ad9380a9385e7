package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/congo-pay/payinstr/internal/instruction"
	"github.com/congo-pay/payinstr/internal/payments"
	"github.com/congo-pay/payinstr/internal/status"
	"github.com/congo-pay/payinstr/internal/transaction"
)

var (
	processInstruction string
	processAccounts    string
	processAsOf        string
)

// errRejected reports a failed instruction so the process exits non-zero.
var errRejected = errors.New("instruction rejected")

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run an instruction against an accounts file",
	Long: `Runs one instruction and prints the response as JSON.

The accounts file is YAML (or JSON), either a list of accounts or a
mapping with an "accounts" key:

  - id: A1
    balance: 1000
    currency: NGN

Examples:
  payinstr process -a accounts.yaml -i "DEBIT 500 NGN FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2"
  payinstr process -a accounts.yaml -i "CREDIT 10 NGN TO ACCOUNT A2 FOR DEBIT FROM ACCOUNT A1 ON 2030-01-01" --as-of 2029-12-31`,
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVarP(&processInstruction, "instruction", "i", "", "payment instruction text")
	processCmd.Flags().StringVarP(&processAccounts, "accounts", "a", "", "path to the accounts file")
	processCmd.Flags().StringVar(&processAsOf, "as-of", "", "evaluate execution dates against this YYYY-MM-DD date instead of today")
	_ = processCmd.MarkFlagRequired("instruction")
	_ = processCmd.MarkFlagRequired("accounts")
}

func runProcess(cmd *cobra.Command, args []string) error {
	accounts, err := loadAccounts(processAccounts)
	if err != nil {
		return err
	}

	opts := []payments.Option{}
	if processAsOf != "" {
		day, ok := instruction.ExecutionDate(processAsOf)
		if !ok {
			return fmt.Errorf("--as-of must be a YYYY-MM-DD date, got %q", processAsOf)
		}
		opts = append(opts, payments.WithClock(func() time.Time { return day }))
	}

	svc := payments.NewService(newLogger(cmd), opts...)
	instr := processInstruction
	resp := svc.Process(context.Background(), payments.Request{Accounts: accounts, Instruction: &instr})

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	if resp.Status == status.Failed {
		return errRejected
	}
	return nil
}

type accountsFile struct {
	Accounts []transaction.Account `yaml:"accounts"`
}

func loadAccounts(path string) ([]transaction.Account, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read accounts file: %w", err)
	}

	var list []transaction.Account
	if err := yaml.Unmarshal(raw, &list); err == nil {
		return nonNil(list), nil
	}

	var doc accountsFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode accounts file %s: %w", path, err)
	}
	return nonNil(doc.Accounts), nil
}

// nonNil turns an empty file into an empty account list.
func nonNil(accounts []transaction.Account) []transaction.Account {
	if accounts == nil {
		return []transaction.Account{}
	}
	return accounts
}
