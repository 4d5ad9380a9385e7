package instruction

import (
	"strconv"
	"strings"
)

// Type selects which grammar an instruction was written in.
type Type string

const (
	TypeDebit  Type = "DEBIT"
	TypeCredit Type = "CREDIT"
)

// Parsed holds the fields extracted from an instruction. Amount and Currency
// are raw tokens; the transaction validator owns their business rules.
type Parsed struct {
	Type            Type
	Amount          string
	Currency        string
	DebitAccountID  string
	CreditAccountID string
	// ExecuteBy is a YYYY-MM-DD date, or empty when the instruction has no ON clause.
	ExecuteBy string
}

// String renders the instruction in the canonical form of its grammar.
func (p Parsed) String() string {
	var b strings.Builder
	b.WriteString(string(p.Type))
	b.WriteByte(' ')
	b.WriteString(p.Amount)
	b.WriteByte(' ')
	b.WriteString(p.Currency)
	switch p.Type {
	case TypeCredit:
		b.WriteString(" TO ACCOUNT ")
		b.WriteString(p.CreditAccountID)
		b.WriteString(" FOR DEBIT FROM ACCOUNT ")
		b.WriteString(p.DebitAccountID)
	default:
		b.WriteString(" FROM ACCOUNT ")
		b.WriteString(p.DebitAccountID)
		b.WriteString(" FOR CREDIT TO ACCOUNT ")
		b.WriteString(p.CreditAccountID)
	}
	if p.ExecuteBy != "" {
		b.WriteString(" ON ")
		b.WriteString(p.ExecuteBy)
	}
	return b.String()
}

// AmountValue coerces the amount token the lenient way callers have always
// seen it coerced: an optional sign followed by the leading run of digits.
// "250" and "250abc" both yield 250; "abc" and overflowing values report false.
func (p Parsed) AmountValue() (int64, bool) {
	return leadingInt(p.Amount)
}

func leadingInt(s string) (int64, bool) {
	i := 0
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return 0, false
	}
	n, err := strconv.ParseInt(s[start:i], 10, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
