package reports

import "github.com/aums-erp/aums-erp/internal/accounting/accounts"

// RetainedEarningsCode is the synthetic equity line carrying the period's
// net profit into the balance sheet. It is not part of the chart.
const RetainedEarningsCode = "EQ-RET"

// BSLine is one balance sheet position.
type BSLine struct {
	AccountCode string `json:"account_code"`
	AccountName string `json:"account_name"`
	Amount      int64  `json:"amount"`
}

// BSValidation reports whether assets equal liabilities plus equity.
// A non-zero Diff signals a posting-side bug, surfaced rather than hidden.
type BSValidation struct {
	IsBalanced bool  `json:"is_balanced"`
	Diff       int64 `json:"diff"`
}

// BalanceSheet presents assets against liabilities and equity as of the
// end of the covered range. Profit for the range rolls into equity as a
// synthesized retained earnings line.
type BalanceSheet struct {
	Assets           []BSLine     `json:"assets"`
	Liabilities      []BSLine     `json:"liabilities"`
	Equity           []BSLine     `json:"equity"`
	TotalAssets      int64        `json:"total_assets"`
	TotalLiabilities int64        `json:"total_liabilities"`
	TotalEquity      int64        `json:"total_equity"`
	Validation       BSValidation `json:"validation"`
}

// BuildBalanceSheet derives the balance sheet from the trial balance and
// the P&L's net profit. Suspense accounts net to zero by posting-time
// invariant and drop out of every section.
func BuildBalanceSheet(chart *accounts.Chart, tb TrialBalance, netProfit int64) BalanceSheet {
	bs := BalanceSheet{
		Assets:      []BSLine{},
		Liabilities: []BSLine{},
		Equity:      []BSLine{},
	}
	for _, item := range tb.Items {
		if acc, ok := chart.ByCode(item.AccountCode); ok && acc.Suspense {
			continue
		}
		line := BSLine{AccountCode: item.AccountCode, AccountName: item.AccountName}
		switch item.AccountType {
		case accounts.AccountTypeAsset:
			line.Amount = item.NetDebit - item.NetCredit
			bs.Assets = append(bs.Assets, line)
			bs.TotalAssets += line.Amount
		case accounts.AccountTypeLiability:
			line.Amount = item.NetCredit - item.NetDebit
			bs.Liabilities = append(bs.Liabilities, line)
			bs.TotalLiabilities += line.Amount
		case accounts.AccountTypeEquity:
			line.Amount = item.NetCredit - item.NetDebit
			bs.Equity = append(bs.Equity, line)
			bs.TotalEquity += line.Amount
		}
	}

	if netProfit != 0 {
		bs.Equity = append(bs.Equity, BSLine{
			AccountCode: RetainedEarningsCode,
			AccountName: "Retained Earnings (Net Profit)",
			Amount:      netProfit,
		})
		bs.TotalEquity += netProfit
	}

	diff := bs.TotalAssets - (bs.TotalLiabilities + bs.TotalEquity)
	if diff < 0 {
		diff = -diff
	}
	bs.Validation = BSValidation{IsBalanced: diff == 0, Diff: diff}
	return bs
}
