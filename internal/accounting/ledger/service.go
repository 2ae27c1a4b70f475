package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aums-erp/aums-erp/internal/accounting/accounts"
	"github.com/aums-erp/aums-erp/internal/accounting/shared"
	"github.com/aums-erp/aums-erp/internal/displayid"
)

// Bumper invalidates derived read models (report caches) when the journal
// advances. Optional; a nil bumper is ignored.
type Bumper interface {
	Bump(ctx context.Context) error
}

// Service owns all writes to the journal.
type Service struct {
	repo     Repository
	chart    *accounts.Chart
	logger   *slog.Logger
	bumper   Bumper
	tenantID string
	now      func() time.Time
}

func NewService(repo Repository, chart *accounts.Chart, logger *slog.Logger, tenantID string) *Service {
	return &Service{
		repo:     repo,
		chart:    chart,
		logger:   logger,
		tenantID: tenantID,
		now:      time.Now,
	}
}

// WithBumper attaches a cache invalidation hook.
func (s *Service) WithBumper(b Bumper) *Service {
	s.bumper = b
	return s
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Chart exposes the chart the service validates against.
func (s *Service) Chart() *accounts.Chart {
	return s.chart
}

func (s *Service) build(in PostingInput) Entry {
	return Entry{
		ID:              uuid.New(),
		DisplayID:       displayid.New(),
		TransactionType: in.TransactionType,
		ReferenceID:     in.ReferenceID,
		PartyType:       in.PartyType,
		PartyID:         in.PartyID,
		PartyName:       in.PartyName,
		Description:     in.Description,
		DebitCode:       in.DebitCode,
		CreditCode:      in.CreditCode,
		Amount:          in.Amount,
		TransactionDate: s.now(),
		TenantID:        s.tenantID,
	}
}

// Post appends a single entry. A duplicate (reference, debit, credit) key
// is not an error: the call becomes a no-op with a Warn log and a nil
// entry, so retried business operations stay safe.
func (s *Service) Post(ctx context.Context, in PostingInput) (*Entry, error) {
	if err := in.Validate(s.chart); err != nil {
		return nil, err
	}
	entry := s.build(in)
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.Insert(ctx, entry)
	})
	if errors.Is(err, shared.ErrDuplicatePosting) {
		s.logger.Warn("duplicate ledger posting prevented",
			slog.String("reference_id", in.ReferenceID.String()),
			slog.String("debit", in.DebitCode),
			slog.String("credit", in.CreditCode))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.bump(ctx)
	return &entry, nil
}

// PostSet appends every leg of one business event atomically. Legs whose
// idempotency key already exists are skipped individually; the remaining
// legs still commit, so a partially-retried generator converges on the
// complete set. Returns the entries actually inserted.
func (s *Service) PostSet(ctx context.Context, inputs []PostingInput) ([]Entry, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	if err := validateSet(s.chart, inputs); err != nil {
		return nil, err
	}
	entries := make([]Entry, len(inputs))
	for i, in := range inputs {
		entries[i] = s.build(in)
	}
	var inserted []Entry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		inserted = inserted[:0]
		for _, entry := range entries {
			err := tx.Insert(ctx, entry)
			if errors.Is(err, shared.ErrDuplicatePosting) {
				s.logger.Warn("duplicate ledger posting prevented",
					slog.String("reference_id", entry.ReferenceID.String()),
					slog.String("debit", entry.DebitCode),
					slog.String("credit", entry.CreditCode))
				continue
			}
			if err != nil {
				return err
			}
			inserted = append(inserted, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(inserted) > 0 {
		s.bump(ctx)
	}
	return inserted, nil
}

func (s *Service) bump(ctx context.Context) {
	if s.bumper == nil {
		return
	}
	if err := s.bumper.Bump(ctx); err != nil {
		s.logger.Warn("report cache bump", slog.Any("error", err))
	}
}

// Entries returns the full journal in posting order.
func (s *Service) Entries(ctx context.Context) ([]Entry, error) {
	return s.repo.List(ctx)
}

// EntriesBetween returns entries within the inclusive date range. Nil
// bounds are open-ended.
func (s *Service) EntriesBetween(ctx context.Context, from, to *time.Time) ([]Entry, error) {
	return s.repo.ListBetween(ctx, from, to)
}

// PartyLedger returns the entries for one counterparty.
func (s *Service) PartyLedger(ctx context.Context, partyID string) ([]Entry, error) {
	return s.repo.ListByParty(ctx, partyID)
}

// EntriesByReference returns all legs posted under one business event.
func (s *Service) EntriesByReference(ctx context.Context, referenceID uuid.UUID) ([]Entry, error) {
	return s.repo.ListByReference(ctx, referenceID)
}
