package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInsurancePremium(t *testing.T) {
	e := NewDefaultEngine()

	base, addons, err := e.Insurance(100000, "IR-001")
	require.NoError(t, err)
	require.Equal(t, int64(3500), base)
	require.Equal(t, int64(2300), addons)

	base, addons, err = e.Insurance(100000, "IR-002")
	require.NoError(t, err)
	require.Equal(t, int64(3200), base)
	require.Equal(t, int64(1800), addons)

	_, _, err = e.Insurance(100000, "IR-999")
	require.ErrorIs(t, err, ErrUnknownInsuranceRule)
}

func TestInsuranceRoundsBase(t *testing.T) {
	e := NewDefaultEngine()
	// 3.5% of 85001 = 2975.035 -> 2975
	base, _, err := e.Insurance(85001, "IR-001")
	require.NoError(t, err)
	require.Equal(t, int64(2975), base)
}

func TestRTOCharges(t *testing.T) {
	e := NewDefaultEngine()

	charges, err := e.RTO(100000, "KA")
	require.NoError(t, err)
	require.Equal(t, int64(18200+2000), charges)

	charges, err = e.RTO(100000, "DL")
	require.NoError(t, err)
	require.Equal(t, int64(8000+1000), charges)

	_, err = e.RTO(100000, "ZZ")
	require.ErrorIs(t, err, ErrUnknownState)
}

func TestGenerateSnapshot(t *testing.T) {
	e := NewDefaultEngine()
	at := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	e.WithNow(func() time.Time { return at })

	snap, err := e.Generate(Product{
		Brand:           "Hero",
		Model:           "Splendor",
		Variant:         "Plus",
		ExShowroom:      100000,
		AccessoryBundle: 2500,
	}, "DL", "DL-01", "IR-002")
	require.NoError(t, err)

	require.Equal(t, "Hero Splendor Plus", snap.VariantLabel)
	require.Equal(t, "DL", snap.StateCode)
	require.Equal(t, "DL-01", snap.RTOCode)
	require.Equal(t, int64(100000), snap.ExShowroom)
	require.Equal(t, int64(9000), snap.RTOCharges)
	require.Equal(t, int64(3200), snap.InsuranceBase)
	require.Equal(t, int64(1800), snap.InsuranceAddons)
	require.Equal(t, int64(5000), snap.InsuranceTotal())
	require.Equal(t, int64(100000+9000+5000+2500), snap.TotalOnRoad)
	require.Equal(t, "v1", snap.RuleVersion)
	require.Equal(t, at, snap.CalculatedAt)
	require.NotEqual(t, snap.ID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestGenerateWithoutInsurance(t *testing.T) {
	e := NewDefaultEngine()

	snap, err := e.Generate(Product{Brand: "Hero", Model: "HF", Variant: "Deluxe", ExShowroom: 85000}, "DL", "DL-01", "")
	require.NoError(t, err)
	require.Zero(t, snap.InsuranceTotal())
	require.Equal(t, int64(85000+6800+1000), snap.TotalOnRoad)
}

func TestGenerateRejectsBadInput(t *testing.T) {
	e := NewDefaultEngine()

	_, err := e.Generate(Product{ExShowroom: 0}, "DL", "DL-01", "")
	require.ErrorIs(t, err, ErrInvalidExShowroom)

	_, err = e.Generate(Product{ExShowroom: 85000}, "XX", "XX-01", "")
	require.ErrorIs(t, err, ErrUnknownState)
}
