package accounts

import "fmt"

// Stable account codes referenced by the posting generators. Ledger entries
// store these codes, not names, so renaming an account never orphans
// historical postings.
const (
	CodeCash               = "1000"
	CodeBank               = "1010"
	CodeAccountsReceivable = "1100"
	CodeSalesClearing      = "1900"
	CodeOutputGST          = "2100"
	CodeOwnersEquity       = "3000"
	CodeSalesVehicle       = "4000"
	CodeSalesInsurance     = "4010"
	CodeSalesRTO           = "4020"
	CodeSalesReturns       = "5100"
)

// Default returns the dealership chart of accounts.
//
// Sales Clearing is a registered suspense account: invoice and credit note
// generators decompose multi-leg events into pairwise entries through it,
// and registering it keeps every posting resolvable at report time.
func Default() *Chart {
	return NewChart([]Account{
		{Code: CodeCash, Name: "Cash", Type: AccountTypeAsset},
		{Code: CodeBank, Name: "Bank", Type: AccountTypeAsset},
		{Code: CodeAccountsReceivable, Name: "Accounts Receivable", Type: AccountTypeAsset},
		{Code: CodeSalesClearing, Name: "Sales Clearing", Type: AccountTypeAsset, Suspense: true},
		{Code: CodeOutputGST, Name: "Output GST Liability", Type: AccountTypeLiability},
		{Code: CodeOwnersEquity, Name: "Owner's Equity", Type: AccountTypeEquity},
		{Code: CodeSalesVehicle, Name: "Sales - Vehicle", Type: AccountTypeRevenue},
		{Code: CodeSalesInsurance, Name: "Sales - Insurance", Type: AccountTypeRevenue},
		{Code: CodeSalesRTO, Name: "Sales - RTO Charges", Type: AccountTypeRevenue},
		{Code: CodeSalesReturns, Name: "Sales Returns", Type: AccountTypeExpense},
	})
}

// Chart provides indexed lookup over a fixed set of accounts.
type Chart struct {
	ordered []Account
	byCode  map[string]Account
	byName  map[string]Account
}

// NewChart indexes the given accounts. Duplicate codes panic: the chart is
// static configuration and a duplicate is a programming error.
func NewChart(list []Account) *Chart {
	c := &Chart{
		ordered: make([]Account, 0, len(list)),
		byCode:  make(map[string]Account, len(list)),
		byName:  make(map[string]Account, len(list)),
	}
	for _, acc := range list {
		if _, dup := c.byCode[acc.Code]; dup {
			panic(fmt.Sprintf("accounts: duplicate code %s", acc.Code))
		}
		c.ordered = append(c.ordered, acc)
		c.byCode[acc.Code] = acc
		c.byName[acc.Name] = acc
	}
	return c
}

// All returns accounts in definition order.
func (c *Chart) All() []Account {
	out := make([]Account, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// ByCode looks an account up by its stable code.
func (c *Chart) ByCode(code string) (Account, bool) {
	acc, ok := c.byCode[code]
	return acc, ok
}

// ByName looks an account up by display name.
func (c *Chart) ByName(name string) (Account, bool) {
	acc, ok := c.byName[name]
	return acc, ok
}
