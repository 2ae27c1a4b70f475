package ledger

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType classifies the business event behind a posting.
type TransactionType string

const (
	TransactionInvoice TransactionType = "INVOICE"
	TransactionReceipt TransactionType = "RECEIPT"
	TransactionJournal TransactionType = "JOURNAL"
)

// PartyType identifies the counterparty category on an entry.
type PartyType string

const (
	PartyCustomer     PartyType = "CUSTOMER"
	PartyTaxAuthority PartyType = "TAX_AUTHORITY"
)

// Entry is one append-only journal line: a single (debit account, credit
// account, amount) triple. Multi-leg business events are represented as
// several entries sharing a ReferenceID. Entries are never updated or
// deleted once posted.
//
// DebitCode and CreditCode hold stable chart codes resolved at posting
// time, so report generation never has to re-match names.
type Entry struct {
	ID              uuid.UUID
	DisplayID       string
	TransactionType TransactionType
	ReferenceID     uuid.UUID
	PartyType       PartyType
	PartyID         string
	PartyName       string
	Description     string
	DebitCode       string
	CreditCode      string
	Amount          int64
	TransactionDate time.Time
	TenantID        string
}
