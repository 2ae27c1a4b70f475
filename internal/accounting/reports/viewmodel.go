package reports

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// inr renders whole-rupee amounts with Indian digit grouping (lakh/crore).
var inr = message.NewPrinter(language.MustParse("en-IN"))

// FormatINR renders an amount like ₹12,34,567.
func FormatINR(amount int64) string {
	if amount < 0 {
		return inr.Sprintf("-₹%d", -amount)
	}
	return inr.Sprintf("₹%d", amount)
}

// SummaryView is the dashboard snapshot: headline figures from all three
// statements, pre-formatted for display.
type SummaryView struct {
	TotalRevenue     string `json:"total_revenue"`
	TotalExpense     string `json:"total_expense"`
	NetProfit        string `json:"net_profit"`
	TotalAssets      string `json:"total_assets"`
	TotalLiabilities string `json:"total_liabilities"`
	TotalEquity      string `json:"total_equity"`
	LedgerBalanced   bool   `json:"ledger_balanced"`
	LedgerDiff       string `json:"ledger_diff"`
}

// NewSummaryView folds the statement totals into display strings.
func NewSummaryView(tb TrialBalance, pl ProfitAndLoss, bs BalanceSheet) SummaryView {
	return SummaryView{
		TotalRevenue:     FormatINR(pl.TotalRevenue),
		TotalExpense:     FormatINR(pl.TotalExpense),
		NetProfit:        FormatINR(pl.NetProfit),
		TotalAssets:      FormatINR(bs.TotalAssets),
		TotalLiabilities: FormatINR(bs.TotalLiabilities),
		TotalEquity:      FormatINR(bs.TotalEquity),
		LedgerBalanced:   tb.IsBalanced,
		LedgerDiff:       FormatINR(tb.Diff),
	}
}
