package pricing

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnknownState         = errors.New("pricing: no RTO rule for state")
	ErrUnknownInsuranceRule = errors.New("pricing: unknown insurance rule")
	ErrInvalidExShowroom    = errors.New("pricing: ex-showroom price must be positive")
)

// Product is the variant being priced.
type Product struct {
	Brand           string
	Model           string
	Variant         string
	ExShowroom      int64
	AccessoryBundle int64
}

// PriceSnapshot is the locked on-road quote attached to a booking.
// Once generated it is never recomputed; invoices read it verbatim.
type PriceSnapshot struct {
	ID              uuid.UUID `json:"id"`
	VariantLabel    string    `json:"variant_label"`
	StateCode       string    `json:"state_code"`
	RTOCode         string    `json:"rto_code"`
	ExShowroom      int64     `json:"ex_showroom"`
	RTOCharges      int64     `json:"rto_charges"`
	InsuranceBase   int64     `json:"insurance_base"`
	InsuranceAddons int64     `json:"insurance_addons"`
	AccessoryBundle int64     `json:"accessory_bundle"`
	TotalOnRoad     int64     `json:"total_on_road"`
	RuleVersion     string    `json:"rule_version"`
	CalculatedAt    time.Time `json:"calculated_at"`
}

// InsuranceTotal is the full premium: base plus addons.
func (s PriceSnapshot) InsuranceTotal() int64 {
	return s.InsuranceBase + s.InsuranceAddons
}

// Engine resolves rule tables into snapshots. Lookup misses fail loudly;
// a quote silently priced under the wrong state's rules is worse than no
// quote.
type Engine struct {
	insurance   map[string]InsuranceRule
	rto         map[string]RTORule
	ruleVersion string
	now         func() time.Time
}

// NewEngine indexes the given rules under a version label.
func NewEngine(ruleVersion string, insurance []InsuranceRule, rto []RTORule) *Engine {
	e := &Engine{
		insurance:   make(map[string]InsuranceRule, len(insurance)),
		rto:         make(map[string]RTORule, len(rto)),
		ruleVersion: ruleVersion,
		now:         time.Now,
	}
	for _, rule := range insurance {
		e.insurance[rule.ID] = rule
	}
	for _, rule := range rto {
		e.rto[rule.StateCode] = rule
	}
	return e
}

// NewDefaultEngine builds an engine over the seeded rule tables.
func NewDefaultEngine() *Engine {
	return NewEngine("v1", DefaultInsuranceRules(), DefaultRTORules())
}

// WithNow overrides the clock, for tests.
func (e *Engine) WithNow(now func() time.Time) {
	e.now = now
}

// Insurance prices the premium for one provider rule: base rate percent
// of ex-showroom, rounded, plus flat addon costs.
func (e *Engine) Insurance(exShowroom int64, ruleID string) (base, addons int64, err error) {
	rule, ok := e.insurance[ruleID]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrUnknownInsuranceRule, ruleID)
	}
	base = roundRupees(float64(exShowroom) * rule.BaseRate / 100)
	for _, addon := range rule.Addons {
		addons += addon.Cost
	}
	return base, addons, nil
}

// RTO prices state registration: road tax percent of ex-showroom plus
// the flat registration fee, rounded.
func (e *Engine) RTO(exShowroom int64, stateCode string) (int64, error) {
	rule, ok := e.rto[stateCode]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownState, stateCode)
	}
	tax := float64(exShowroom) * rule.RoadTaxPercent / 100
	return roundRupees(tax) + rule.RegistrationFee, nil
}

// Generate produces the locked snapshot for a booking. insuranceRuleID
// may be empty: vehicles sold without dealer insurance carry a zero
// premium and the invoice simply omits the insurance line.
func (e *Engine) Generate(p Product, stateCode, rtoCode, insuranceRuleID string) (PriceSnapshot, error) {
	if p.ExShowroom <= 0 {
		return PriceSnapshot{}, ErrInvalidExShowroom
	}
	rtoCharges, err := e.RTO(p.ExShowroom, stateCode)
	if err != nil {
		return PriceSnapshot{}, err
	}
	var insBase, insAddons int64
	if insuranceRuleID != "" {
		insBase, insAddons, err = e.Insurance(p.ExShowroom, insuranceRuleID)
		if err != nil {
			return PriceSnapshot{}, err
		}
	}
	snap := PriceSnapshot{
		ID:              uuid.New(),
		VariantLabel:    fmt.Sprintf("%s %s %s", p.Brand, p.Model, p.Variant),
		StateCode:       stateCode,
		RTOCode:         rtoCode,
		ExShowroom:      p.ExShowroom,
		RTOCharges:      rtoCharges,
		InsuranceBase:   insBase,
		InsuranceAddons: insAddons,
		AccessoryBundle: p.AccessoryBundle,
		RuleVersion:     e.ruleVersion,
		CalculatedAt:    e.now(),
	}
	snap.TotalOnRoad = snap.ExShowroom + snap.RTOCharges + snap.InsuranceTotal() + snap.AccessoryBundle
	return snap, nil
}

func roundRupees(v float64) int64 {
	return int64(math.Round(v))
}
