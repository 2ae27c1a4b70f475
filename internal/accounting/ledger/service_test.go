package ledger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/aums-erp/aums-erp/internal/accounting/accounts"
	"github.com/aums-erp/aums-erp/internal/accounting/shared"
	"github.com/aums-erp/aums-erp/internal/displayid"
)

func newTestService() (*Service, *MemoryRepository) {
	repo := NewMemoryRepository()
	svc := NewService(repo, accounts.Default(), slog.Default(), "dealer-001")
	return svc, repo
}

func receiptInput(ref uuid.UUID, amount int64) PostingInput {
	return PostingInput{
		TransactionType: TransactionReceipt,
		ReferenceID:     ref,
		PartyType:       PartyCustomer,
		PartyID:         "cust-1",
		PartyName:       "Rahul Kumar",
		Description:     "test posting",
		DebitCode:       accounts.CodeCash,
		CreditCode:      accounts.CodeAccountsReceivable,
		Amount:          amount,
	}
}

func TestPostAppendsEntry(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	ref := uuid.New()
	entry, err := svc.Post(ctx, receiptInput(ref, 40000))
	require.NoError(t, err)
	require.NotNil(t, entry)
	require.Equal(t, int64(40000), entry.Amount)
	require.Equal(t, "dealer-001", entry.TenantID)
	require.True(t, displayid.Validate(entry.DisplayID))

	entries, err := svc.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestPostAbsorbsDuplicates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	ref := uuid.New()
	first, err := svc.Post(ctx, receiptInput(ref, 40000))
	require.NoError(t, err)
	require.NotNil(t, first)

	// Retried generator: same reference and account pair is a no-op.
	second, err := svc.Post(ctx, receiptInput(ref, 40000))
	require.NoError(t, err)
	require.Nil(t, second)

	entries, err := svc.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestPostRejectsUnknownAccount(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	in := receiptInput(uuid.New(), 100)
	in.DebitCode = "9999"
	_, err := svc.Post(ctx, in)
	require.ErrorIs(t, err, shared.ErrUnknownAccount)
}

func TestPostRejectsNonPositiveAmount(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	in := receiptInput(uuid.New(), 0)
	_, err := svc.Post(ctx, in)
	require.ErrorIs(t, err, shared.ErrInvalidAmount)

	in.Amount = -5
	_, err = svc.Post(ctx, in)
	require.ErrorIs(t, err, shared.ErrInvalidAmount)
}

func TestPostRejectsSameAccount(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	in := receiptInput(uuid.New(), 100)
	in.CreditCode = in.DebitCode
	_, err := svc.Post(ctx, in)
	require.ErrorIs(t, err, shared.ErrSameAccount)
}

func TestPostSetCommitsAllLegs(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	ref := uuid.New()
	legs := []PostingInput{
		{
			TransactionType: TransactionInvoice,
			ReferenceID:     ref,
			PartyType:       PartyCustomer,
			PartyID:         "cust-1",
			PartyName:       "Rahul Kumar",
			Description:     "invoice total",
			DebitCode:       accounts.CodeAccountsReceivable,
			CreditCode:      accounts.CodeSalesClearing,
			Amount:          94000,
		},
		{
			TransactionType: TransactionInvoice,
			ReferenceID:     ref,
			PartyType:       PartyCustomer,
			PartyID:         "cust-1",
			PartyName:       "Rahul Kumar",
			Description:     "vehicle revenue",
			DebitCode:       accounts.CodeSalesClearing,
			CreditCode:      accounts.CodeSalesVehicle,
			Amount:          66406,
		},
		{
			TransactionType: TransactionInvoice,
			ReferenceID:     ref,
			PartyType:       PartyCustomer,
			PartyID:         "cust-1",
			PartyName:       "Rahul Kumar",
			Description:     "rto fee",
			DebitCode:       accounts.CodeSalesClearing,
			CreditCode:      accounts.CodeSalesRTO,
			Amount:          9000,
		},
		{
			TransactionType: TransactionInvoice,
			ReferenceID:     ref,
			PartyType:       PartyTaxAuthority,
			PartyID:         "GST-AUTH",
			PartyName:       "GST Authority",
			Description:     "output gst",
			DebitCode:       accounts.CodeSalesClearing,
			CreditCode:      accounts.CodeOutputGST,
			Amount:          18594,
		},
	}

	inserted, err := svc.PostSet(ctx, legs)
	require.NoError(t, err)
	require.Len(t, inserted, 4)

	// Retry inserts nothing new.
	inserted, err = svc.PostSet(ctx, legs)
	require.NoError(t, err)
	require.Empty(t, inserted)

	entries, err := svc.EntriesByReference(ctx, ref)
	require.NoError(t, err)
	require.Len(t, entries, 4)
}

func TestPostSetRejectsUnbalancedClearing(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	ref := uuid.New()
	legs := []PostingInput{
		{
			TransactionType: TransactionInvoice,
			ReferenceID:     ref,
			PartyType:       PartyCustomer,
			PartyID:         "cust-1",
			PartyName:       "Rahul Kumar",
			Description:     "invoice total",
			DebitCode:       accounts.CodeAccountsReceivable,
			CreditCode:      accounts.CodeSalesClearing,
			Amount:          94000,
		},
		{
			TransactionType: TransactionInvoice,
			ReferenceID:     ref,
			PartyType:       PartyCustomer,
			PartyID:         "cust-1",
			PartyName:       "Rahul Kumar",
			Description:     "vehicle revenue",
			DebitCode:       accounts.CodeSalesClearing,
			CreditCode:      accounts.CodeSalesVehicle,
			Amount:          66406,
		},
	}
	_, err := svc.PostSet(ctx, legs)
	require.ErrorIs(t, err, shared.ErrUnbalancedSet)

	entries, err := svc.Entries(ctx)
	require.NoError(t, err)
	require.Empty(t, entries, "failed set must not partially commit")
}

func TestPartyLedgerFilters(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	in := receiptInput(uuid.New(), 500)
	_, err := svc.Post(ctx, in)
	require.NoError(t, err)

	other := receiptInput(uuid.New(), 700)
	other.PartyID = "cust-2"
	other.PartyName = "Meera Iyer"
	_, err = svc.Post(ctx, other)
	require.NoError(t, err)

	entries, err := svc.PartyLedger(ctx, "cust-2")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, int64(700), entries[0].Amount)
}
