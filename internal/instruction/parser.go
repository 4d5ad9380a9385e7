package instruction

import (
	"strings"

	"github.com/congo-pay/payinstr/internal/status"
)

const onMarker = " ON "

const accountIDChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-@."

// grammar describes one keyword-delimited instruction shape. The first
// account id sits between first and second; the other one follows second.
type grammar struct {
	typ          Type
	prefix       string
	first        string
	second       string
	firstIsDebit bool
}

var grammars = []grammar{
	{typ: TypeDebit, prefix: "DEBIT ", first: " FROM ACCOUNT ", second: " FOR CREDIT TO ACCOUNT ", firstIsDebit: true},
	{typ: TypeCredit, prefix: "CREDIT ", first: " TO ACCOUNT ", second: " FOR DEBIT FROM ACCOUNT "},
}

// Normalize collapses runs of spaces into one and trims the ends.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	parts := strings.Split(raw, " ")
	kept := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// Parse extracts the fields of a DEBIT or CREDIT instruction using keyword
// search only. Every error it returns is a *status.Failure at the parse stage.
func Parse(raw string) (parsed Parsed, err error) {
	defer func() {
		if r := recover(); r != nil {
			parsed, err = Parsed{}, status.ParseFailure(status.KindMalformedInstruction)
		}
	}()

	clean := Normalize(raw)
	if clean == "" {
		return Parsed{}, status.ParseFailure(status.KindMalformedInstruction)
	}
	upper := upperASCII(clean)

	for _, g := range grammars {
		if strings.HasPrefix(upper, g.prefix) {
			return g.parse(clean, upper)
		}
	}
	return Parsed{}, status.ParseFailure(status.KindMalformedInstruction)
}

func (g grammar) parse(clean, upper string) (Parsed, error) {
	firstIdx := strings.Index(upper, g.first)
	secondIdx := strings.Index(upper, g.second)
	onIdx := strings.Index(upper, onMarker)

	if firstIdx == -1 || secondIdx == -1 {
		return Parsed{}, status.ParseFailure(status.KindMissingKeyword)
	}
	if secondIdx < firstIdx {
		return Parsed{}, status.ParseFailure(status.KindInvalidKeywordOrder)
	}

	tokens := strings.Split(strings.TrimSpace(slice(clean, len(g.prefix), firstIdx)), " ")
	if len(tokens) < 2 {
		return Parsed{}, status.ParseFailure(status.KindMalformedInstruction)
	}

	firstID := strings.TrimSpace(slice(clean, firstIdx+len(g.first), secondIdx))
	end := len(clean)
	if onIdx != -1 {
		end = onIdx
	}
	secondID := strings.TrimSpace(slice(clean, secondIdx+len(g.second), end))

	var executeBy string
	if onIdx != -1 {
		date := strings.TrimSpace(slice(clean, onIdx+len(onMarker), len(clean)))
		if date != "" {
			if !IsDate(date) {
				return Parsed{}, status.ParseFailure(status.KindInvalidDateFormat)
			}
			executeBy = date
		}
	}

	debitID, creditID := firstID, secondID
	if !g.firstIsDebit {
		debitID, creditID = secondID, firstID
	}
	if !validAccountID(debitID) || !validAccountID(creditID) {
		return Parsed{}, status.ParseFailure(status.KindInvalidAccountID)
	}

	return Parsed{
		Type:            g.typ,
		Amount:          tokens[0],
		Currency:        strings.Join(tokens[1:], " "),
		DebitAccountID:  debitID,
		CreditAccountID: creditID,
		ExecuteBy:       executeBy,
	}, nil
}

func validAccountID(id string) bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(accountIDChars, id[i]) == -1 {
			return false
		}
	}
	return true
}

// slice returns s[start:end], clamped to the string and empty when the
// bounds cross.
func slice(s string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(s) {
		end = len(s)
	}
	if start >= end {
		return ""
	}
	return s[start:end]
}

// upperASCII upper-cases ASCII letters only so byte offsets found in the
// result stay valid in the original string.
func upperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}
