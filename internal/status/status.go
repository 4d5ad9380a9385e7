package status

// Status is the lifecycle state reported for a processed instruction.
type Status string

const (
	Successful Status = "successful"
	Pending    Status = "pending"
	Failed     Status = "failed"
)

// Code is the protocol status code returned to callers.
type Code string

const (
	CodeExecuted            Code = "AP00"
	CodeScheduled           Code = "AP02"
	CodeMissingKeyword      Code = "SY01"
	CodeKeywordOrder        Code = "SY02"
	CodeMalformed           Code = "SY03"
	CodeInvalidAmount       Code = "AM01"
	CodeCurrencyMismatch    Code = "CU01"
	CodeUnsupportedCurrency Code = "CU02"
	CodeInsufficientFunds   Code = "AC01"
	CodeSameAccount         Code = "AC02"
	CodeAccountNotFound     Code = "AC03"
	CodeInvalidAccountID    Code = "AC04"
	CodeInvalidDate         Code = "DT01"
)

// Codes lists every status code in table order.
var Codes = []Code{
	CodeExecuted,
	CodeScheduled,
	CodeMissingKeyword,
	CodeKeywordOrder,
	CodeMalformed,
	CodeInvalidAmount,
	CodeCurrencyMismatch,
	CodeUnsupportedCurrency,
	CodeInsufficientFunds,
	CodeSameAccount,
	CodeAccountNotFound,
	CodeInvalidAccountID,
	CodeInvalidDate,
}

var descriptions = map[Code]string{
	CodeExecuted:            "executed immediately",
	CodeScheduled:           "scheduled (future-dated)",
	CodeMissingKeyword:      "missing required keyword",
	CodeKeywordOrder:        "required keywords out of order",
	CodeMalformed:           "generic/unparseable instruction",
	CodeInvalidAmount:       "invalid amount",
	CodeCurrencyMismatch:    "currency mismatch between accounts/instruction",
	CodeUnsupportedCurrency: "unsupported currency",
	CodeInsufficientFunds:   "insufficient funds",
	CodeSameAccount:         "debit and credit account identical",
	CodeAccountNotFound:     "referenced account not found",
	CodeInvalidAccountID:    "malformed account id",
	CodeInvalidDate:         "invalid date format",
}

// Description returns the human readable meaning of the code.
func (c Code) Description() string {
	return descriptions[c]
}

// Unparseable reports whether the code marks input whose structure could not
// be recovered. Responses for these codes carry no instruction fields.
func (c Code) Unparseable() bool {
	switch c {
	case CodeMissingKeyword, CodeKeywordOrder, CodeMalformed:
		return true
	default:
		return false
	}
}

const (
	ReasonExecuted  = "Transaction executed successfully"
	ReasonScheduled = "Transaction scheduled for future execution"
)
