package payments

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/congo-pay/payinstr/internal/instruction"
	"github.com/congo-pay/payinstr/internal/journal"
	"github.com/congo-pay/payinstr/internal/logging"
	"github.com/congo-pay/payinstr/internal/notification"
	"github.com/congo-pay/payinstr/internal/schedule"
	"github.com/congo-pay/payinstr/internal/status"
	"github.com/congo-pay/payinstr/internal/transaction"
)

const defaultSideEffectTimeout = 2 * time.Second

// Service runs payment instructions through parsing, validation and
// execution, and records what happened.
type Service struct {
	logger            *slog.Logger
	executor          *transaction.Executor
	now               func() time.Time
	journal           journal.Journal
	book              schedule.Book
	notifier          notification.Notifier
	sideEffectTimeout time.Duration
}

// Option customises a Service.
type Option func(*Service)

// WithJournal records every processed instruction in j.
func WithJournal(j journal.Journal) Option {
	return func(s *Service) { s.journal = j }
}

// WithScheduleBook stores pending transfers in b.
func WithScheduleBook(b schedule.Book) Option {
	return func(s *Service) { s.book = b }
}

// WithNotifier sends transfer notifications through n.
func WithNotifier(n notification.Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithClock replaces the clock used to decide whether a transfer is due.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSideEffectTimeout bounds each journal, schedule and notification call.
func WithSideEffectTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.sideEffectTimeout = d
		}
	}
}

// NewService constructs a payment instruction service. Without options it
// has no side effects beyond logging.
func NewService(logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		logger:            logger,
		now:               time.Now,
		sideEffectTimeout: defaultSideEffectTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	s.executor = transaction.NewExecutor(s.now)
	return s
}

type requestIDKey struct{}

// ContextWithRequestID attaches a request identifier that ends up in logs
// and journal entries.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Process runs one instruction. It always returns a well formed Response;
// rejected instructions come back with status failed and a specific code.
// The request's accounts are never modified.
func (s *Service) Process(ctx context.Context, req Request) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			f := status.Unexpected(fmt.Errorf("panic: %v", r))
			resp = formatFailure(f, nil, nil)
			s.safeLog(ctx, slog.LevelError, "unexpected-error", f, req)
		}
	}()

	if err := req.validate(); err != nil {
		return s.reject(ctx, req, status.Unexpected(err), nil)
	}

	parsed, err := instruction.Parse(*req.Instruction)
	if err != nil {
		return s.reject(ctx, req, status.Unexpected(err), nil)
	}

	validated, err := transaction.Validate(parsed, req.Accounts)
	if err != nil {
		return s.reject(ctx, req, status.Unexpected(err), &parsed)
	}

	outcome := s.executor.Execute(validated)
	resp = formatOutcome(outcome)
	s.afterOutcome(ctx, req, outcome, resp)
	return resp
}

// Reject renders a request that could not be decoded at all.
func (s *Service) Reject(ctx context.Context, err error) Response {
	return s.reject(ctx, Request{}, status.Unexpected(err), nil)
}

// Scheduled lists pending transfers due on or before day.
func (s *Service) Scheduled(ctx context.Context, day time.Time) ([]schedule.Entry, error) {
	if s.book == nil {
		return []schedule.Entry{}, nil
	}
	return s.book.Due(ctx, day)
}

// Recent lists the latest journal entries, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]journal.Entry, error) {
	if s.journal == nil {
		return []journal.Entry{}, nil
	}
	return s.journal.Recent(ctx, limit)
}

// Today returns the service clock's current UTC date.
func (s *Service) Today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *Service) reject(ctx context.Context, req Request, f *status.Failure, parsed *instruction.Parsed) Response {
	switch f.Stage {
	case status.StageParse:
		s.safeLog(ctx, slog.LevelWarn, "parse-error", f, req)
	case status.StageValidate:
		s.safeLog(ctx, slog.LevelWarn, "validation-error", f, req)
	default:
		s.safeLog(ctx, slog.LevelError, "unexpected-error", f, req)
	}

	resp := formatFailure(f, parsed, req.Accounts)
	s.record(ctx, uuid.New(), req, resp)
	return resp
}

func (s *Service) afterOutcome(ctx context.Context, req Request, out transaction.Outcome, resp Response) {
	id := uuid.New()
	s.record(ctx, id, req, resp)

	switch out.Status {
	case status.Pending:
		s.scheduleTransfer(ctx, id, out)
		s.notify(ctx, notification.Message{
			Kind:        notification.KindTransferScheduled,
			Destination: out.Credit.ID,
			Body:        fmt.Sprintf("%d %s from %s scheduled for %s", out.Amount, out.Currency, out.Debit.ID, out.ExecuteBy),
		})
	case status.Successful:
		s.notify(ctx, notification.Message{
			Kind:        notification.KindTransferExecuted,
			Destination: out.Credit.ID,
			Body:        fmt.Sprintf("received %d %s from %s", out.Amount, out.Currency, out.Debit.ID),
		})
	}
}

// sideEffectContext ignores the caller's cancellation and is bounded by the
// side effect timeout instead.
func (s *Service) sideEffectContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.sideEffectTimeout)
}

func (s *Service) record(ctx context.Context, id uuid.UUID, req Request, resp Response) {
	if s.journal == nil {
		return
	}
	defer s.recoverSideEffect(ctx, "journal")
	jctx, cancel := s.sideEffectContext(ctx)
	defer cancel()

	err := s.journal.Record(jctx, journal.Entry{
		ID:            id,
		RequestID:     requestIDFrom(ctx),
		Instruction:   req.instruction(),
		Status:        string(resp.Status),
		StatusCode:    string(resp.StatusCode),
		StatusReason:  resp.StatusReason,
		Type:          resp.Type,
		Amount:        resp.Amount,
		Currency:      resp.Currency,
		DebitAccount:  resp.DebitAccount,
		CreditAccount: resp.CreditAccount,
		ExecuteBy:     resp.ExecuteBy,
		ProcessedAt:   s.now().UTC(),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "journal record failed", slog.String("request_id", requestIDFrom(ctx)), slog.Any("error", err))
	}
}

func (s *Service) scheduleTransfer(ctx context.Context, id uuid.UUID, out transaction.Outcome) {
	if s.book == nil {
		return
	}
	defer s.recoverSideEffect(ctx, "schedule")
	sctx, cancel := s.sideEffectContext(ctx)
	defer cancel()

	err := s.book.Add(sctx, schedule.Entry{
		ID:            id.String(),
		RequestID:     requestIDFrom(ctx),
		Type:          string(out.Type),
		Amount:        out.Amount,
		Currency:      out.Currency,
		DebitAccount:  out.Debit.ID,
		CreditAccount: out.Credit.ID,
		ExecuteBy:     out.ExecuteBy,
		ScheduledAt:   s.now().UTC(),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "schedule transfer failed", slog.String("request_id", requestIDFrom(ctx)), slog.Any("error", err))
	}
}

func (s *Service) notify(ctx context.Context, msg notification.Message) {
	if s.notifier == nil {
		return
	}
	defer s.recoverSideEffect(ctx, "notification")
	nctx, cancel := s.sideEffectContext(ctx)
	defer cancel()
	if err := s.notifier.Send(nctx, msg); err != nil {
		s.logger.WarnContext(ctx, "notification failed", slog.String("kind", msg.Kind), slog.Any("error", err))
	}
}

func (s *Service) recoverSideEffect(ctx context.Context, name string) {
	if r := recover(); r != nil {
		s.safeLog(ctx, slog.LevelError, "side-effect-panic", status.Unexpected(fmt.Errorf("%s: %v", name, r)), Request{})
	}
}

// safeLog reports a rejected instruction. A misbehaving logger never changes
// the response.
func (s *Service) safeLog(ctx context.Context, level slog.Level, msg string, f *status.Failure, req Request) {
	defer func() { _ = recover() }()
	s.logger.Log(ctx, level, msg,
		slog.String("request_id", requestIDFrom(ctx)),
		slog.String("stage", string(f.Stage)),
		slog.String("kind", f.Kind.String()),
		slog.String("error", f.Reason),
		slog.String("instruction", req.instruction()),
	)
}
