package payments

import (
	"sort"
	"strings"

	"github.com/congo-pay/payinstr/internal/instruction"
	"github.com/congo-pay/payinstr/internal/status"
	"github.com/congo-pay/payinstr/internal/transaction"
)

// formatOutcome renders an executed or scheduled transaction. Accounts keep
// the order they had in the request.
func formatOutcome(out transaction.Outcome) Response {
	debit := AccountView{
		ID:            out.Debit.ID,
		Balance:       out.Debit.Balance,
		BalanceBefore: out.DebitBalanceBefore,
		Currency:      strings.ToUpper(out.Debit.Currency),
	}
	credit := AccountView{
		ID:            out.Credit.ID,
		Balance:       out.Credit.Balance,
		BalanceBefore: out.CreditBalanceBefore,
		Currency:      strings.ToUpper(out.Credit.Currency),
	}
	accounts := []AccountView{debit, credit}
	if out.Credit.Index < out.Debit.Index {
		accounts = []AccountView{credit, debit}
	}

	amount := out.Amount
	return Response{
		Type:          optional(string(out.Type)),
		Amount:        &amount,
		Currency:      optional(out.Currency),
		DebitAccount:  optional(out.Debit.ID),
		CreditAccount: optional(out.Credit.ID),
		ExecuteBy:     optional(out.ExecuteBy),
		Status:        out.Status,
		StatusReason:  out.Reason,
		StatusCode:    out.Code,
		Accounts:      accounts,
	}
}

// formatFailure renders a rejected instruction. parsed is nil when parsing
// did not succeed.
func formatFailure(f *status.Failure, parsed *instruction.Parsed, accounts []transaction.Account) Response {
	if f == nil {
		f = status.Unexpected(nil)
	}
	code := status.Classify(f)
	resp := Response{
		Status:       status.Failed,
		StatusReason: f.Reason,
		StatusCode:   code,
		Accounts:     []AccountView{},
	}
	if parsed == nil || code.Unparseable() {
		return resp
	}

	resp.Type = optional(string(parsed.Type))
	if amount, ok := parsed.AmountValue(); ok {
		resp.Amount = &amount
	}
	resp.Currency = optional(strings.ToUpper(parsed.Currency))
	resp.DebitAccount = optional(parsed.DebitAccountID)
	resp.CreditAccount = optional(parsed.CreditAccountID)
	resp.ExecuteBy = optional(parsed.ExecuteBy)
	// On AC03 only the id that resolved is listed.
	resp.Accounts = involvedAccounts(accounts, parsed.DebitAccountID, parsed.CreditAccountID)
	return resp
}

// involvedAccounts lists the accounts referenced by ids that exist in the
// request, once each, in request order. Nothing was moved, so balance equals
// balance_before.
func involvedAccounts(accounts []transaction.Account, ids ...string) []AccountView {
	refs := make([]transaction.AccountRef, 0, len(ids))
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		ref, ok := transaction.Find(accounts, id)
		if !ok || seen[ref.Index] {
			continue
		}
		seen[ref.Index] = true
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Index < refs[j].Index })

	views := make([]AccountView, 0, len(refs))
	for _, ref := range refs {
		views = append(views, AccountView{
			ID:            ref.ID,
			Balance:       ref.Balance,
			BalanceBefore: ref.Balance,
			Currency:      strings.ToUpper(ref.Currency),
		})
	}
	return views
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
