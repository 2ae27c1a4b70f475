package invoices

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPeelGST(t *testing.T) {
	taxable, tax := peelGST(85000, 28)
	require.Equal(t, int64(66406), taxable)
	require.Equal(t, int64(18594), tax)

	taxable, tax = peelGST(5000, 18)
	require.Equal(t, int64(4237), taxable)
	require.Equal(t, int64(763), tax)

	taxable, tax = peelGST(9000, 0)
	require.Equal(t, int64(9000), taxable)
	require.Zero(t, tax)
}

func TestPeelGSTRecomposes(t *testing.T) {
	for _, total := range []int64{1, 99, 85000, 123457, 9999999} {
		taxable, tax := peelGST(total, 28)
		require.Equal(t, total, taxable+tax)
	}
}

func TestSplitTaxIntraState(t *testing.T) {
	cgst, sgst, igst := splitTax(18594, true)
	require.Equal(t, int64(9297), cgst)
	require.Equal(t, int64(9297), sgst)
	require.Zero(t, igst)

	// Odd tax: the rounding remainder lands on SGST.
	cgst, sgst, igst = splitTax(763, true)
	require.Equal(t, int64(382), cgst)
	require.Equal(t, int64(381), sgst)
	require.Zero(t, igst)
	require.Equal(t, int64(763), cgst+sgst)
}

func TestSplitTaxInterState(t *testing.T) {
	cgst, sgst, igst := splitTax(18594, false)
	require.Zero(t, cgst)
	require.Zero(t, sgst)
	require.Equal(t, int64(18594), igst)
}

func TestStatusFor(t *testing.T) {
	require.Equal(t, Unpaid, StatusFor(0, 94000))
	require.Equal(t, PartiallyPaid, StatusFor(40000, 94000))
	require.Equal(t, Paid, StatusFor(94000, 94000))
	require.Equal(t, Overpaid, StatusFor(94001, 94000))
}
