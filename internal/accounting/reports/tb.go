package reports

import (
	"sort"

	"github.com/aums-erp/aums-erp/internal/accounting/accounts"
	"github.com/aums-erp/aums-erp/internal/accounting/ledger"
)

// TrialBalanceItem aggregates one account's debits and credits.
type TrialBalanceItem struct {
	AccountCode string               `json:"account_code"`
	AccountName string               `json:"account_name"`
	AccountType accounts.AccountType `json:"account_type"`
	TotalDebit  int64                `json:"total_debit"`
	TotalCredit int64                `json:"total_credit"`
	// NetBalance is TotalDebit - TotalCredit; positive means net debit.
	NetBalance int64 `json:"net_balance"`
	NetDebit   int64 `json:"net_debit"`
	NetCredit  int64 `json:"net_credit"`
}

// TrialBalance lists every account's accumulated totals and whether the
// journal balances. Imbalance is reported, not thrown, so a diagnostic
// view can always render.
type TrialBalance struct {
	Items       []TrialBalanceItem `json:"items"`
	TotalDebit  int64              `json:"total_debit"`
	TotalCredit int64              `json:"total_credit"`
	Diff        int64              `json:"diff"`
	IsBalanced  bool               `json:"is_balanced"`
}

// BuildTrialBalance folds ledger entries into per-account totals. Every
// entry names a debit and a credit code, both resolved against the chart
// at posting time, so resolution here cannot miss.
func BuildTrialBalance(chart *accounts.Chart, entries []ledger.Entry) TrialBalance {
	itemsByCode := make(map[string]*TrialBalanceItem)
	getOrInit := func(code string) *TrialBalanceItem {
		if item, ok := itemsByCode[code]; ok {
			return item
		}
		acc, _ := chart.ByCode(code)
		item := &TrialBalanceItem{
			AccountCode: code,
			AccountName: acc.Name,
			AccountType: acc.Type,
		}
		itemsByCode[code] = item
		return item
	}

	for _, e := range entries {
		getOrInit(e.DebitCode).TotalDebit += e.Amount
		getOrInit(e.CreditCode).TotalCredit += e.Amount
	}

	tb := TrialBalance{Items: make([]TrialBalanceItem, 0, len(itemsByCode))}
	for _, item := range itemsByCode {
		item.NetBalance = item.TotalDebit - item.TotalCredit
		if item.NetBalance > 0 {
			item.NetDebit = item.NetBalance
		} else {
			item.NetCredit = -item.NetBalance
		}
		tb.TotalDebit += item.TotalDebit
		tb.TotalCredit += item.TotalCredit
		tb.Items = append(tb.Items, *item)
	}
	sort.Slice(tb.Items, func(i, j int) bool {
		return tb.Items[i].AccountCode < tb.Items[j].AccountCode
	})

	tb.Diff = tb.TotalDebit - tb.TotalCredit
	if tb.Diff < 0 {
		tb.Diff = -tb.Diff
	}
	tb.IsBalanced = tb.Diff == 0
	return tb
}
