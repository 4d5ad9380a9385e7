package status

import (
	"errors"
	"fmt"
)

// Stage identifies where in the pipeline a failure originated.
type Stage string

const (
	StageParse      Stage = "parse"
	StageValidate   Stage = "validate"
	StageUnexpected Stage = "unexpected"
)

// Kind names the check that rejected an instruction.
type Kind int

const (
	KindUnexpected Kind = iota
	KindMissingKeyword
	KindInvalidKeywordOrder
	KindMalformedInstruction
	KindInvalidAccountID
	KindInvalidDateFormat
	KindInvalidAmount
	KindNegativeAmount
	KindDecimalAmount
	KindUnsupportedCurrency
	KindAccountNotFound
	KindSameAccount
	KindCurrencyMismatch
	KindInsufficientFunds
	KindBalanceOverflow
)

var kindNames = [...]string{
	KindUnexpected:           "UNEXPECTED",
	KindMissingKeyword:       "MISSING_KEYWORD",
	KindInvalidKeywordOrder:  "INVALID_KEYWORD_ORDER",
	KindMalformedInstruction: "MALFORMED_INSTRUCTION",
	KindInvalidAccountID:     "INVALID_ACCOUNT_ID",
	KindInvalidDateFormat:    "INVALID_DATE_FORMAT",
	KindInvalidAmount:        "INVALID_AMOUNT",
	KindNegativeAmount:       "NEGATIVE_AMOUNT",
	KindDecimalAmount:        "DECIMAL_AMOUNT",
	KindUnsupportedCurrency:  "UNSUPPORTED_CURRENCY",
	KindAccountNotFound:      "ACCOUNT_NOT_FOUND",
	KindSameAccount:          "SAME_ACCOUNT_ERROR",
	KindCurrencyMismatch:     "CURRENCY_MISMATCH",
	KindInsufficientFunds:    "INSUFFICIENT_FUNDS",
	KindBalanceOverflow:      "BALANCE_OVERFLOW",
}

var kindReasons = [...]string{
	KindUnexpected:           "An unexpected error occurred",
	KindMissingKeyword:       "Missing required keyword",
	KindInvalidKeywordOrder:  "Invalid keyword order",
	KindMalformedInstruction: "Malformed instruction: unable to parse keywords",
	KindInvalidAccountID:     "Invalid account ID format",
	KindInvalidDateFormat:    "Invalid date format, expected YYYY-MM-DD",
	KindInvalidAmount:        "Amount must be a positive integer",
	KindNegativeAmount:       "Amount cannot be negative",
	KindDecimalAmount:        "Amount must be a whole number",
	KindUnsupportedCurrency:  "Unsupported currency. Only NGN, USD, GBP, and GHS are supported",
	KindAccountNotFound:      "Account not found",
	KindSameAccount:          "Debit and credit accounts cannot be the same",
	KindCurrencyMismatch:     "Account currency mismatch",
	KindInsufficientFunds:    "Insufficient funds in debit account",
	KindBalanceOverflow:      "Amount would overflow the credit account balance",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Reason returns the default caller-facing message for the kind.
func (k Kind) Reason() string {
	if k < 0 || int(k) >= len(kindReasons) {
		return kindReasons[KindUnexpected]
	}
	return kindReasons[k]
}

// Failure is the single carrier of rejection details between pipeline stages.
type Failure struct {
	Kind   Kind
	Stage  Stage
	Reason string
}

func (f *Failure) Error() string {
	return f.Reason
}

// ParseFailure builds a parse stage failure carrying the default reason.
func ParseFailure(kind Kind) *Failure {
	return &Failure{Kind: kind, Stage: StageParse, Reason: kind.Reason()}
}

// ValidationFailure builds a validation stage failure. A non-empty detail is
// appended to the default reason.
func ValidationFailure(kind Kind, detail string) *Failure {
	reason := kind.Reason()
	if detail != "" {
		reason = reason + ": " + detail
	}
	return &Failure{Kind: kind, Stage: StageValidate, Reason: reason}
}

// Unexpected converts an arbitrary error into a failure. Failures pass
// through untouched.
func Unexpected(err error) *Failure {
	if f, ok := AsFailure(err); ok {
		return f
	}
	reason := KindUnexpected.Reason()
	if err != nil && err.Error() != "" {
		reason = err.Error()
	}
	return &Failure{Kind: KindUnexpected, Stage: StageUnexpected, Reason: reason}
}

// AsFailure extracts a *Failure from err's chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) && f != nil {
		return f, true
	}
	return nil, false
}
