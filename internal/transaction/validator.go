package transaction

import (
	"math"
	"strings"

	"github.com/congo-pay/payinstr/internal/instruction"
	"github.com/congo-pay/payinstr/internal/status"
)

// SupportedCurrencies is the currency allow-list, upper-case.
var SupportedCurrencies = []string{"NGN", "USD", "GBP", "GHS"}

// Validate applies the business rules to a parsed instruction in a fixed
// order; the first failing rule is reported as a validation stage
// *status.Failure. The returned accounts are copies.
func Validate(p instruction.Parsed, accounts []Account) (Validated, error) {
	amount, err := validateAmount(p)
	if err != nil {
		return Validated{}, err
	}

	currency, err := validateCurrency(p.Currency)
	if err != nil {
		return Validated{}, err
	}

	debit, ok := Find(accounts, p.DebitAccountID)
	if !ok {
		return Validated{}, status.ValidationFailure(status.KindAccountNotFound, p.DebitAccountID)
	}
	credit, ok := Find(accounts, p.CreditAccountID)
	if !ok {
		return Validated{}, status.ValidationFailure(status.KindAccountNotFound, p.CreditAccountID)
	}

	if debit.ID == credit.ID {
		return Validated{}, status.ValidationFailure(status.KindSameAccount, "")
	}

	debitCurrency := strings.ToUpper(debit.Currency)
	creditCurrency := strings.ToUpper(credit.Currency)
	if debitCurrency != creditCurrency || debitCurrency != currency {
		return Validated{}, status.ValidationFailure(status.KindCurrencyMismatch, "")
	}

	if debit.Balance < amount {
		return Validated{}, status.ValidationFailure(status.KindInsufficientFunds, "")
	}
	// amount is positive here, so the subtraction cannot wrap.
	if credit.Balance > math.MaxInt64-amount {
		return Validated{}, status.ValidationFailure(status.KindBalanceOverflow, credit.ID)
	}

	return Validated{
		Type:      p.Type,
		Amount:    amount,
		Currency:  currency,
		Debit:     debit,
		Credit:    credit,
		ExecuteBy: p.ExecuteBy,
	}, nil
}

// Find returns the first account whose id equals id exactly.
func Find(accounts []Account, id string) (AccountRef, bool) {
	for i, acc := range accounts {
		if acc.ID == id {
			return AccountRef{Account: acc, Index: i}, true
		}
	}
	return AccountRef{}, false
}

func validateAmount(p instruction.Parsed) (int64, error) {
	if p.Amount == "" {
		return 0, status.ValidationFailure(status.KindInvalidAmount, "")
	}
	if strings.Contains(p.Amount, "-") {
		return 0, status.ValidationFailure(status.KindNegativeAmount, "")
	}
	if strings.Contains(p.Amount, ".") {
		return 0, status.ValidationFailure(status.KindDecimalAmount, "")
	}
	amount, ok := p.AmountValue()
	if !ok || amount <= 0 {
		return 0, status.ValidationFailure(status.KindInvalidAmount, "")
	}
	return amount, nil
}

func validateCurrency(raw string) (string, error) {
	currency := strings.ToUpper(raw)
	for _, c := range SupportedCurrencies {
		if c == currency {
			return currency, nil
		}
	}
	return "", status.ValidationFailure(status.KindUnsupportedCurrency, "")
}
