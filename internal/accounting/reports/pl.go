package reports

import "github.com/aums-erp/aums-erp/internal/accounting/accounts"

// PLLine is one revenue or expense account's contribution for the period.
type PLLine struct {
	AccountCode string `json:"account_code"`
	AccountName string `json:"account_name"`
	Amount      int64  `json:"amount"`
}

// ProfitAndLoss summarizes revenue against expenses. Revenue accounts
// contribute their net credit, expense accounts their net debit.
type ProfitAndLoss struct {
	Revenue      []PLLine `json:"revenue"`
	Expenses     []PLLine `json:"expenses"`
	TotalRevenue int64    `json:"total_revenue"`
	TotalExpense int64    `json:"total_expense"`
	NetProfit    int64    `json:"net_profit"`
}

// BuildProfitAndLoss derives the P&L from a trial balance. Trial balance
// items are already sorted by code, so the lines come out stable.
func BuildProfitAndLoss(tb TrialBalance) ProfitAndLoss {
	pl := ProfitAndLoss{
		Revenue:  []PLLine{},
		Expenses: []PLLine{},
	}
	for _, item := range tb.Items {
		switch item.AccountType {
		case accounts.AccountTypeRevenue:
			pl.Revenue = append(pl.Revenue, PLLine{
				AccountCode: item.AccountCode,
				AccountName: item.AccountName,
				Amount:      item.NetCredit,
			})
			pl.TotalRevenue += item.NetCredit
		case accounts.AccountTypeExpense:
			pl.Expenses = append(pl.Expenses, PLLine{
				AccountCode: item.AccountCode,
				AccountName: item.AccountName,
				Amount:      item.NetDebit,
			})
			pl.TotalExpense += item.NetDebit
		}
	}
	pl.NetProfit = pl.TotalRevenue - pl.TotalExpense
	return pl
}
