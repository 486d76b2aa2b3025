package services

import (
	"context"
	"fmt"
	"log/slog"

	"ledger/internal/access"
	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/stats"
	"ledger/internal/store"
	"ledger/internal/view"
)

// SyncPublisher queues a settings sync for the worker and returns the request ID.
type SyncPublisher interface {
	PublishSyncRequest(ctx context.Context, requestedBy, role string) (string, error)
}

// Purger drops cached ledger state.
type Purger interface {
	Purge()
}

// SyncResult reports what a sync request did.
type SyncResult struct {
	RequestID string `json:"requestId,omitempty"`
	Queued    bool   `json:"queued"`
}

// LedgerService is the gated read surface of the ledger. Every method checks
// the caller against the access gate before touching the store.
type LedgerService struct {
	reader       store.Reader
	publisher    SyncPublisher
	purger       Purger
	placeholders stats.Placeholders
	logger       *log.Logger
	events       *log.StructuredLogger
}

// Option configures a LedgerService.
type Option func(*LedgerService)

func WithPublisher(p SyncPublisher) Option { return func(s *LedgerService) { s.publisher = p } }

func WithPurger(p Purger) Option { return func(s *LedgerService) { s.purger = p } }

func WithPlaceholders(p stats.Placeholders) Option {
	return func(s *LedgerService) { s.placeholders = p }
}

func WithLogger(l *log.Logger) Option {
	return func(s *LedgerService) { s.logger = l.WithComponent(log.ComponentLedger) }
}

func NewLedgerService(reader store.Reader, opts ...Option) *LedgerService {
	s := &LedgerService{
		reader: reader,
		logger: log.New(log.Config{Handler: slog.Default().Handler(), Component: log.ComponentLedger}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.events = log.NewStructuredLogger(s.logger)
	return s
}

func (s *LedgerService) authorize(ctx context.Context, caller access.Caller, op access.Operation) error {
	err := access.Authorize(caller, op)
	if err != nil {
		reason := access.ReasonCode(op)
		s.events.LogAccessDenied(ctx, caller.Name, caller.Role.String(), string(op), reason)
	}
	return err
}

// Dashboard returns the aggregated stats and collections narrowed to caller.
func (s *LedgerService) Dashboard(ctx context.Context, caller access.Caller) (view.ScopedView, error) {
	if err := s.authorize(ctx, caller, access.OpDashboard); err != nil {
		return view.ScopedView{}, err
	}

	snap, err := store.Load(ctx, s.reader)
	if err != nil {
		return view.ScopedView{}, fmt.Errorf("dashboard: %w", err)
	}

	st := stats.Aggregate(snap, snap.Settings, s.placeholders)
	if caller.Role == access.RoleInvestor {
		s.logMatch(ctx, snap.Investors, caller)
	}
	return view.Narrow(st, snap.Investors, snap.Withdrawals, snap.Expenses, snap.Revenues, caller), nil
}

func (s *LedgerService) Investors(ctx context.Context, caller access.Caller) ([]core.Investor, error) {
	if err := s.authorize(ctx, caller, access.OpInvestors); err != nil {
		return nil, err
	}
	out, err := s.reader.ListInvestors(ctx)
	if err != nil {
		return nil, fmt.Errorf("investors: %w", err)
	}
	return out, nil
}

func (s *LedgerService) Expenses(ctx context.Context, caller access.Caller) ([]core.Expense, error) {
	if err := s.authorize(ctx, caller, access.OpExpenses); err != nil {
		return nil, err
	}
	out, err := s.reader.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("expenses: %w", err)
	}
	return out, nil
}

func (s *LedgerService) Revenues(ctx context.Context, caller access.Caller) ([]core.Revenue, error) {
	if err := s.authorize(ctx, caller, access.OpRevenues); err != nil {
		return nil, err
	}
	out, err := s.reader.ListRevenues(ctx)
	if err != nil {
		return nil, fmt.Errorf("revenues: %w", err)
	}
	return out, nil
}

// Withdrawals returns every withdrawal, or only the caller's own for investors.
func (s *LedgerService) Withdrawals(ctx context.Context, caller access.Caller) ([]core.Withdrawal, error) {
	if err := s.authorize(ctx, caller, access.OpWithdrawals); err != nil {
		return nil, err
	}
	out, err := s.reader.ListWithdrawals(ctx)
	if err != nil {
		return nil, fmt.Errorf("withdrawals: %w", err)
	}
	if caller.Role == access.RoleInvestor {
		return view.OwnWithdrawals(out, caller), nil
	}
	return out, nil
}

func (s *LedgerService) ProjectWithdrawals(ctx context.Context, caller access.Caller) ([]core.ProjectWithdrawal, error) {
	if err := s.authorize(ctx, caller, access.OpProjectWithdrawals); err != nil {
		return nil, err
	}
	out, err := s.reader.ListProjectWithdrawals(ctx)
	if err != nil {
		return nil, fmt.Errorf("project withdrawals: %w", err)
	}
	return out, nil
}

// SyncData queues a sync with the worker and drops the cached snapshot so the
// next read sees fresh data. Without a publisher only the cache is purged.
func (s *LedgerService) SyncData(ctx context.Context, caller access.Caller) (SyncResult, error) {
	if err := s.authorize(ctx, caller, access.OpSyncData); err != nil {
		return SyncResult{}, err
	}

	var res SyncResult
	if s.publisher != nil {
		id, err := s.publisher.PublishSyncRequest(ctx, caller.Name, caller.Role.String())
		if err != nil {
			return SyncResult{}, fmt.Errorf("publish sync request: %w", err)
		}
		res = SyncResult{RequestID: id, Queued: true}
	} else {
		s.logger.WarnContext(ctx, "No sync publisher configured, skipping sync request")
	}

	if s.purger != nil {
		s.purger.Purge()
	}

	s.logger.InfoContext(ctx, "Sync requested",
		log.FieldCaller, caller.Name,
		log.FieldRequestID, res.RequestID,
		"queued", res.Queued)
	return res, nil
}

func (s *LedgerService) logMatch(ctx context.Context, investors []core.Investor, caller access.Caller) {
	m := view.MatchInvestor(investors, caller)
	switch {
	case !m.Found():
		s.logger.WarnContext(ctx, "No investor record matches caller",
			log.FieldCaller, caller.Name)
	case m.Duplicates > 0:
		s.logger.WarnContext(ctx, "Caller matches several investor records, using the first",
			log.FieldCaller, caller.Name,
			log.FieldDuplicates, m.Duplicates)
	}
}
