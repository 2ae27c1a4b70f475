package reports

import (
	"context"
	"time"

	"github.com/aums-erp/aums-erp/internal/accounting/accounts"
	"github.com/aums-erp/aums-erp/internal/accounting/ledger"
)

// LedgerReader is the slice of the journal the report builders need.
type LedgerReader interface {
	EntriesBetween(ctx context.Context, from, to *time.Time) ([]ledger.Entry, error)
	Chart() *accounts.Chart
}

// Service derives financial statements from the journal. All builders are
// pure folds over ledger entries; the service adds range filtering and a
// versioned cache in front.
type Service struct {
	ledger   LedgerReader
	cache    *Cache
	tenantID string
}

// NewService wires the report service. A nil cache disables caching.
func NewService(ledger LedgerReader, cache *Cache, tenantID string) *Service {
	return &Service{ledger: ledger, cache: cache, tenantID: tenantID}
}

// TrialBalance aggregates per-account debits and credits over the range.
// Nil bounds leave that side of the range open.
func (s *Service) TrialBalance(ctx context.Context, from, to *time.Time) (TrialBalance, error) {
	var tb TrialBalance
	key, err := s.cache.BuildKey(ctx, keyTrialBalance(s.tenantID, from, to))
	if err != nil {
		return tb, err
	}
	err = s.cache.FetchJSON(ctx, key, &tb, func(ctx context.Context) (interface{}, error) {
		return s.buildTrialBalance(ctx, from, to)
	})
	return tb, err
}

// ProfitAndLoss summarizes revenue against expenses over the range.
func (s *Service) ProfitAndLoss(ctx context.Context, from, to *time.Time) (ProfitAndLoss, error) {
	var pl ProfitAndLoss
	key, err := s.cache.BuildKey(ctx, keyProfitAndLoss(s.tenantID, from, to))
	if err != nil {
		return pl, err
	}
	err = s.cache.FetchJSON(ctx, key, &pl, func(ctx context.Context) (interface{}, error) {
		tb, err := s.buildTrialBalance(ctx, from, to)
		if err != nil {
			return nil, err
		}
		return BuildProfitAndLoss(tb), nil
	})
	return pl, err
}

// BalanceSheet presents assets against liabilities and equity as of the
// end of the range, folding the range's net profit into equity.
func (s *Service) BalanceSheet(ctx context.Context, from, to *time.Time) (BalanceSheet, error) {
	var bs BalanceSheet
	key, err := s.cache.BuildKey(ctx, keyBalanceSheet(s.tenantID, from, to))
	if err != nil {
		return bs, err
	}
	err = s.cache.FetchJSON(ctx, key, &bs, func(ctx context.Context) (interface{}, error) {
		tb, err := s.buildTrialBalance(ctx, from, to)
		if err != nil {
			return nil, err
		}
		pl := BuildProfitAndLoss(tb)
		return BuildBalanceSheet(s.ledger.Chart(), tb, pl.NetProfit), nil
	})
	return bs, err
}

func (s *Service) buildTrialBalance(ctx context.Context, from, to *time.Time) (TrialBalance, error) {
	entries, err := s.ledger.EntriesBetween(ctx, from, to)
	if err != nil {
		return TrialBalance{}, err
	}
	return BuildTrialBalance(s.ledger.Chart(), entries), nil
}
