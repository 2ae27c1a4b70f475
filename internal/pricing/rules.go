package pricing

// Addon is an optional insurance cover with a flat cost.
type Addon struct {
	Name string `json:"name"`
	Cost int64  `json:"cost"`
}

// InsuranceRule prices a provider's premium as a percentage of the
// ex-showroom price plus flat addon costs. Rules are master data owned
// upstream; the engine never mutates them.
type InsuranceRule struct {
	ID           string  `json:"id"`
	ProviderName string  `json:"provider_name"`
	BaseRate     float64 `json:"base_rate"` // percent of ex-showroom
	Addons       []Addon `json:"addons"`
}

// RTORule prices state registration as road tax percent of ex-showroom
// plus a flat registration fee.
type RTORule struct {
	StateCode       string  `json:"state_code"`
	StateName       string  `json:"state_name"`
	RoadTaxPercent  float64 `json:"road_tax_percent"`
	RegistrationFee int64   `json:"registration_fee"`
}

// DefaultInsuranceRules returns the seeded provider rules.
func DefaultInsuranceRules() []InsuranceRule {
	return []InsuranceRule{
		{
			ID:           "IR-001",
			ProviderName: "HDFC Ergo",
			BaseRate:     3.5,
			Addons: []Addon{
				{Name: "Zero Depreciation", Cost: 1500},
				{Name: "Engine Protect", Cost: 800},
			},
		},
		{
			ID:           "IR-002",
			ProviderName: "ICICI Lombard",
			BaseRate:     3.2,
			Addons: []Addon{
				{Name: "Zero Depreciation", Cost: 1800},
			},
		},
	}
}

// DefaultRTORules returns the seeded per-state registration rules.
func DefaultRTORules() []RTORule {
	return []RTORule{
		{StateCode: "KA", StateName: "Karnataka", RoadTaxPercent: 18.2, RegistrationFee: 2000},
		{StateCode: "MH", StateName: "Maharashtra", RoadTaxPercent: 14.0, RegistrationFee: 1500},
		{StateCode: "DL", StateName: "Delhi", RoadTaxPercent: 8.0, RegistrationFee: 1000},
	}
}
