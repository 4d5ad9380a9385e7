package transaction

import (
	"time"

	"github.com/congo-pay/payinstr/internal/instruction"
	"github.com/congo-pay/payinstr/internal/status"
)

// Executor applies validated transactions, or schedules them when their
// execution date lies in the future.
type Executor struct {
	now func() time.Time
}

// NewExecutor builds an executor reading the current time from now. A nil
// clock uses time.Now.
func NewExecutor(now func() time.Time) *Executor {
	if now == nil {
		now = time.Now
	}
	return &Executor{now: now}
}

// Execute never fails. Pending outcomes leave balances untouched; successful
// ones move Amount from debit to credit in one step on the outcome's copies.
func (e *Executor) Execute(v Validated) Outcome {
	out := Outcome{
		Validated:           v,
		DebitBalanceBefore:  v.Debit.Balance,
		CreditBalanceBefore: v.Credit.Balance,
	}

	if IsFuture(v.ExecuteBy, e.now()) {
		out.Status = status.Pending
		out.Code = status.CodeScheduled
		out.Reason = status.ReasonScheduled
		return out
	}

	out.Debit.Balance, out.Credit.Balance = v.Debit.Balance-v.Amount, v.Credit.Balance+v.Amount
	out.Status = status.Successful
	out.Code = status.CodeExecuted
	out.Reason = status.ReasonExecuted
	return out
}

// IsFuture reports whether executeBy falls strictly after now's UTC date.
// An empty or unreadable date is never in the future.
func IsFuture(executeBy string, now time.Time) bool {
	if executeBy == "" {
		return false
	}
	date, ok := instruction.ExecutionDate(executeBy)
	if !ok {
		return false
	}
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return date.After(today)
}
