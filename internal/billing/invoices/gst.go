package invoices

import "math"

// GST rates by line kind.
const (
	VehicleGSTRate   = 28
	InsuranceGSTRate = 18
)

// peelGST splits a tax-inclusive total into taxable value and tax:
// taxable = round(total / (1 + rate/100)), tax is the remainder so the
// two always recompose to the total exactly.
func peelGST(total int64, ratePct int) (taxable, tax int64) {
	if ratePct == 0 {
		return total, 0
	}
	taxable = int64(math.Round(float64(total) / (1 + float64(ratePct)/100)))
	return taxable, total - taxable
}

// splitTax divides tax between CGST and SGST for intra-state supply,
// assigning the rounding remainder to SGST so the halves recompose
// exactly. Inter-state supply carries the whole tax as IGST.
func splitTax(tax int64, intraState bool) (cgst, sgst, igst int64) {
	if !intraState {
		return 0, 0, tax
	}
	cgst = int64(math.Round(float64(tax) / 2))
	return cgst, tax - cgst, 0
}
