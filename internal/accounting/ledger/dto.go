package ledger

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/aums-erp/aums-erp/internal/accounting/accounts"
	"github.com/aums-erp/aums-erp/internal/accounting/shared"
)

// PostingInput groups the fields required to append one ledger entry.
type PostingInput struct {
	TransactionType TransactionType
	ReferenceID     uuid.UUID
	PartyType       PartyType
	PartyID         string
	PartyName       string
	Description     string
	DebitCode       string
	CreditCode      string
	Amount          int64
}

// Validate checks the input against the chart. Unknown account codes fail
// here, at write time, instead of silently dropping out of reports later.
func (in PostingInput) Validate(chart *accounts.Chart) error {
	if in.ReferenceID == uuid.Nil {
		return shared.ErrEmptyReference
	}
	if in.Amount <= 0 {
		return shared.ErrInvalidAmount
	}
	if _, ok := chart.ByCode(in.DebitCode); !ok {
		return fmt.Errorf("%w: debit %q", shared.ErrUnknownAccount, in.DebitCode)
	}
	if _, ok := chart.ByCode(in.CreditCode); !ok {
		return fmt.Errorf("%w: credit %q", shared.ErrUnknownAccount, in.CreditCode)
	}
	if in.DebitCode == in.CreditCode {
		return shared.ErrSameAccount
	}
	return nil
}

// validateSet additionally requires every suspense (clearing) account to
// net to zero across the set, since a clearing account only exists to carry
// multi-leg events through pairwise entries.
func validateSet(chart *accounts.Chart, inputs []PostingInput) error {
	net := make(map[string]int64)
	for idx, in := range inputs {
		if err := in.Validate(chart); err != nil {
			return fmt.Errorf("leg %d: %w", idx, err)
		}
		if acc, _ := chart.ByCode(in.DebitCode); acc.Suspense {
			net[in.DebitCode] += in.Amount
		}
		if acc, _ := chart.ByCode(in.CreditCode); acc.Suspense {
			net[in.CreditCode] -= in.Amount
		}
	}
	for code, val := range net {
		if val != 0 {
			return fmt.Errorf("%w: clearing %s nets %d", shared.ErrUnbalancedSet, code, val)
		}
	}
	return nil
}
