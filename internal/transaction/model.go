package transaction

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/congo-pay/payinstr/internal/instruction"
	"github.com/congo-pay/payinstr/internal/status"
)

// Account is a caller supplied balance holder.
type Account struct {
	ID       string `json:"id" yaml:"id"`
	Balance  int64  `json:"balance" yaml:"balance"`
	Currency string `json:"currency" yaml:"currency"`
}

var errBalanceNotNumber = errors.New("balance must be a number")

// UnmarshalJSON accepts any JSON number for balance as long as it denotes a
// whole value that fits in an int64, so 1000, 1000.0 and 1e3 are equal.
func (a *Account) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       string          `json:"id"`
		Balance  json.RawMessage `json:"balance"`
		Currency string          `json:"currency"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	balance, err := parseBalance(raw.Balance)
	if err != nil {
		return fmt.Errorf("account %q: %w", raw.ID, err)
	}
	*a = Account{ID: raw.ID, Balance: balance, Currency: raw.Currency}
	return nil
}

func parseBalance(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, err
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, errBalanceNotNumber
	}
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	r, ok := new(big.Rat).SetString(n.String())
	if !ok {
		return 0, errBalanceNotNumber
	}
	if !r.IsInt() {
		return 0, fmt.Errorf("balance must be a whole number, got %s", n)
	}
	if !r.Num().IsInt64() {
		return 0, fmt.Errorf("balance %s is out of range", n)
	}
	return r.Num().Int64(), nil
}

// AccountRef is a copy of a request account together with its position in
// the request's account list.
type AccountRef struct {
	Account
	Index int
}

// Validated is an instruction that passed every business rule.
type Validated struct {
	Type      instruction.Type
	Amount    int64
	Currency  string
	Debit     AccountRef
	Credit    AccountRef
	ExecuteBy string
}

// Outcome is the result of executing a validated transaction. Debit and
// Credit hold the post-execution state; the *BalanceBefore fields hold the
// balances observed before execution.
type Outcome struct {
	Validated
	Status              status.Status
	Code                status.Code
	Reason              string
	DebitBalanceBefore  int64
	CreditBalanceBefore int64
}
