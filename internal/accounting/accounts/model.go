package accounts

// AccountType enumerates CoA categories.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// Account models a chart of accounts node. The chart is static
// configuration: accounts are defined once and never mutated at runtime.
type Account struct {
	Code string
	Name string
	Type AccountType
	// Suspense marks clearing accounts whose postings always net to zero.
	// They carry multi-leg events as pairwise entries and are excluded
	// from balance sheet sections.
	Suspense bool
}
