package payments

import (
	"testing"

	"github.com/congo-pay/payinstr/internal/instruction"
	"github.com/congo-pay/payinstr/internal/status"
	"github.com/congo-pay/payinstr/internal/transaction"
)

func TestFormatOutcomeKeepsRequestOrder(t *testing.T) {
	out := transaction.Outcome{
		Validated: transaction.Validated{
			Type:     instruction.TypeDebit,
			Amount:   300,
			Currency: "GBP",
			Debit:    transaction.AccountRef{Account: transaction.Account{ID: "d", Balance: 700, Currency: "gbp"}, Index: 3},
			Credit:   transaction.AccountRef{Account: transaction.Account{ID: "c", Balance: 400, Currency: "GBP"}, Index: 1},
		},
		Status:              status.Successful,
		Code:                status.CodeExecuted,
		Reason:              status.ReasonExecuted,
		DebitBalanceBefore:  1000,
		CreditBalanceBefore: 100,
	}

	resp := formatOutcome(out)
	if len(resp.Accounts) != 2 || resp.Accounts[0].ID != "c" || resp.Accounts[1].ID != "d" {
		t.Fatalf("expected credit account first, got %+v", resp.Accounts)
	}
	if resp.Accounts[1] != (AccountView{ID: "d", Balance: 700, BalanceBefore: 1000, Currency: "GBP"}) {
		t.Fatalf("unexpected debit view %+v", resp.Accounts[1])
	}
	if resp.ExecuteBy != nil {
		t.Fatalf("expected null execute_by, got %q", *resp.ExecuteBy)
	}
	if resp.Type == nil || *resp.Type != "DEBIT" || resp.Amount == nil || *resp.Amount != 300 {
		t.Fatalf("unexpected instruction fields %+v", resp)
	}
}

func TestFormatFailureUnparseableHidesFields(t *testing.T) {
	parsed := &instruction.Parsed{Type: instruction.TypeDebit, Amount: "1", Currency: "NGN", DebitAccountID: "A1", CreditAccountID: "A2"}
	for _, f := range []*status.Failure{
		status.ParseFailure(status.KindMissingKeyword),
		status.ParseFailure(status.KindInvalidKeywordOrder),
		status.ParseFailure(status.KindMalformedInstruction),
		status.Unexpected(nil),
	} {
		resp := formatFailure(f, parsed, []transaction.Account{{ID: "A1", Balance: 1, Currency: "NGN"}})
		if resp.Type != nil || resp.Amount != nil || resp.Currency != nil || resp.DebitAccount != nil || resp.CreditAccount != nil || resp.ExecuteBy != nil {
			t.Fatalf("%v: expected null instruction fields, got %+v", f.Kind, resp)
		}
		if resp.Accounts == nil || len(resp.Accounts) != 0 {
			t.Fatalf("%v: expected empty account list, got %#v", f.Kind, resp.Accounts)
		}
		if resp.Status != status.Failed {
			t.Fatalf("%v: expected failed status", f.Kind)
		}
	}
}

func TestFormatFailureWithoutParseResult(t *testing.T) {
	resp := formatFailure(status.ParseFailure(status.KindInvalidDateFormat), nil, nil)
	if resp.StatusCode != status.CodeInvalidDate || resp.Type != nil || len(resp.Accounts) != 0 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestFormatFailureListsResolvableAccounts(t *testing.T) {
	accounts := []transaction.Account{
		{ID: "X", Balance: 5, Currency: "NGN"},
		{ID: "A2", Balance: 20, Currency: "ngn"},
		{ID: "A1", Balance: 10, Currency: "NGN"},
	}

	tests := []struct {
		name   string
		parsed instruction.Parsed
		f      *status.Failure
		want   []string
	}{
		{
			name:   "both resolve",
			parsed: instruction.Parsed{Type: instruction.TypeDebit, Amount: "500", Currency: "ngn", DebitAccountID: "A1", CreditAccountID: "A2"},
			f:      status.ValidationFailure(status.KindInsufficientFunds, ""),
			want:   []string{"A2", "A1"},
		},
		{
			name:   "one missing",
			parsed: instruction.Parsed{Type: instruction.TypeDebit, Amount: "5", Currency: "NGN", DebitAccountID: "A1", CreditAccountID: "NOPE"},
			f:      status.ValidationFailure(status.KindAccountNotFound, "NOPE"),
			want:   []string{"A1"},
		},
		{
			name:   "same account listed once",
			parsed: instruction.Parsed{Type: instruction.TypeCredit, Amount: "5", Currency: "NGN", DebitAccountID: "A1", CreditAccountID: "A1"},
			f:      status.ValidationFailure(status.KindSameAccount, ""),
			want:   []string{"A1"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := formatFailure(tc.f, &tc.parsed, accounts)
			if len(resp.Accounts) != len(tc.want) {
				t.Fatalf("expected %v, got %+v", tc.want, resp.Accounts)
			}
			for i, id := range tc.want {
				acc := resp.Accounts[i]
				if acc.ID != id || acc.Balance != acc.BalanceBefore {
					t.Fatalf("unexpected account %d: %+v", i, acc)
				}
			}
			if resp.Currency == nil || *resp.Currency != "NGN" {
				t.Fatalf("expected upper-cased currency, got %v", resp.Currency)
			}
		})
	}
}

func TestFormatFailureSameAccountListsSingleEntry(t *testing.T) {
	accounts := []transaction.Account{
		{ID: "A2", Balance: 20, Currency: "NGN"},
		{ID: "A1", Balance: 10, Currency: "NGN"},
	}
	parsed := instruction.Parsed{Type: instruction.TypeDebit, Amount: "5", Currency: "NGN", DebitAccountID: "A1", CreditAccountID: "A1"}

	resp := formatFailure(status.ValidationFailure(status.KindSameAccount, ""), &parsed, accounts)
	if resp.StatusCode != status.CodeSameAccount {
		t.Fatalf("expected AC02, got %s", resp.StatusCode)
	}
	want := []AccountView{{ID: "A1", Balance: 10, BalanceBefore: 10, Currency: "NGN"}}
	if len(resp.Accounts) != len(want) || resp.Accounts[0] != want[0] {
		t.Fatalf("expected %+v, got %+v", want, resp.Accounts)
	}
	if resp.DebitAccount == nil || resp.CreditAccount == nil || *resp.DebitAccount != "A1" || *resp.CreditAccount != "A1" {
		t.Fatalf("expected both account fields echoed, got %v / %v", resp.DebitAccount, resp.CreditAccount)
	}
}

func TestFormatFailureAmountCoercion(t *testing.T) {
	parsed := instruction.Parsed{Type: instruction.TypeDebit, Amount: "abc", Currency: "NGN", DebitAccountID: "A1", CreditAccountID: "A2"}
	resp := formatFailure(status.ValidationFailure(status.KindInvalidAmount, ""), &parsed, nil)
	if resp.StatusCode != status.CodeInvalidAmount || resp.Amount != nil {
		t.Fatalf("expected AM01 with null amount, got %+v", resp)
	}

	parsed.Amount = "12.5"
	resp = formatFailure(status.ValidationFailure(status.KindDecimalAmount, ""), &parsed, nil)
	if resp.Amount == nil || *resp.Amount != 12 {
		t.Fatalf("expected leading integer 12, got %v", resp.Amount)
	}
}
