package payments

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/congo-pay/payinstr/internal/status"
	"github.com/congo-pay/payinstr/internal/transaction"
)

var (
	errMissingAccounts    = errors.New("accounts is required")
	errMissingInstruction = errors.New("instruction is required")
)

// Request is a payment instruction together with the accounts it may touch.
type Request struct {
	Accounts    []transaction.Account `json:"accounts"`
	Instruction *string               `json:"instruction"`
}

// validate enforces the request shape before the instruction is looked at.
func (r Request) validate() error {
	if r.Accounts == nil {
		return errMissingAccounts
	}
	if r.Instruction == nil {
		return errMissingInstruction
	}
	for i, acc := range r.Accounts {
		if acc.ID == "" {
			return fmt.Errorf("accounts[%d].id is required", i)
		}
		if acc.Currency == "" {
			return fmt.Errorf("accounts[%d].currency is required", i)
		}
	}
	return nil
}

func (r Request) instruction() string {
	if r.Instruction == nil {
		return ""
	}
	return *r.Instruction
}

// AccountView is an account as reported back to the caller.
type AccountView struct {
	ID            string `json:"id"`
	Balance       int64  `json:"balance"`
	BalanceBefore int64  `json:"balance_before"`
	Currency      string `json:"currency"`
}

// Response is the outcome of one instruction. Instruction fields are nil
// when the instruction could not be parsed.
type Response struct {
	Type          *string       `json:"type"`
	Amount        *int64        `json:"amount"`
	Currency      *string       `json:"currency"`
	DebitAccount  *string       `json:"debit_account"`
	CreditAccount *string       `json:"credit_account"`
	ExecuteBy     *string       `json:"execute_by"`
	Status        status.Status `json:"status"`
	StatusReason  string        `json:"status_reason"`
	StatusCode    status.Code   `json:"status_code"`
	Accounts      []AccountView `json:"accounts"`
}

// HTTPStatus maps the instruction status onto the transport status code.
func (r Response) HTTPStatus() int {
	if r.Status == status.Failed {
		return http.StatusBadRequest
	}
	return http.StatusOK
}
