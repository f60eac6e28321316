package kardex

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ledgerPrecision is the fixed number of fractional digits every
// intermediate result is rounded to before being folded forward. Keeping it
// fixed makes the ledger reproducible regardless of the decimal library's
// default division precision.
const ledgerPrecision = 6

func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(ledgerPrecision)
}

// CoerceDecimal converts a raw textual numeric from the invoice store into a
// decimal. Historical rows carry the occasional non-numeric value ("", "-",
// free text); those coerce to zero instead of failing, which keeps the fold
// total over inconsistent history. Callers that want visibility pass the
// returned ok flag into the report warning channel instead of erroring.
//
// This is a compatibility shim: tightening it would change the output of
// historical reports.
func CoerceDecimal(raw string) (d decimal.Decimal, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
