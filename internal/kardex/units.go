package kardex

import "github.com/shopspring/decimal"

// Canonical raw-material unit: one sack (SC) = 60 kg.
var (
	kgPerSack = decimal.NewFromInt(60)
	kgPerTon  = decimal.NewFromInt(1000)
)

// ToSacks converts a quantity in an arbitrary invoice unit into sacks.
// Unit labels are free text; matching is case- and accent-insensitive.
// Unrecognized units pass through unchanged: historical invoices already
// record raw coffee in sacks under ad-hoc labels, so the permissive
// fallback is load-bearing, not an error path. known reports whether the
// label was recognized so callers can emit a warning.
func ToSacks(qty decimal.Decimal, unit string) (sacks decimal.Decimal, known bool) {
	switch normalizeText(unit) {
	case "KG", "KILO", "KILOS", "QUILO", "QUILOS", "KGS":
		return round(qty.Div(kgPerSack)), true
	case "SC", "SACA", "SACAS", "SACO", "SACOS", "SACK":
		return qty, true
	case "T", "TON", "TONS", "TONELADA", "TONELADAS":
		return round(qty.Mul(kgPerTon).Div(kgPerSack)), true
	default:
		return qty, false
	}
}

// UnitsPerSack returns how many invoice units make up one sack, used to
// re-express per-unit prices as per-sack costs: a purchase priced per kg
// costs 60 times as much per sack. Unknown units count as sacks already.
func UnitsPerSack(unit string) decimal.Decimal {
	switch normalizeText(unit) {
	case "KG", "KILO", "KILOS", "QUILO", "QUILOS", "KGS":
		return kgPerSack
	case "T", "TON", "TONS", "TONELADA", "TONELADAS":
		return kgPerSack.Div(kgPerTon) // 0.06 ton per sack
	default:
		return decimal.NewFromInt(1)
	}
}
