package kardex

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// ledgerState is the running moving-average position. AvgCost only moves on
// entries; exits and consumption deduct at the average in force.
type ledgerState struct {
	qty     decimal.Decimal
	value   decimal.Decimal
	avgCost decimal.Decimal
}

// SortEvents orders events by the composite key
// (timestamp, invoiceID, itemID, kind rank). Moving-average cost is
// order-sensitive, so the ordering must be total: two runs over the same
// events, whatever their input order, fold identically.
func SortEvents(events []StockEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		if a.InvoiceID != b.InvoiceID {
			return a.InvoiceID < b.InvoiceID
		}
		if a.ItemID != b.ItemID {
			return a.ItemID < b.ItemID
		}
		return a.Kind < b.Kind
	})
}

// ProcessEvents folds the event list into the full-history ledger. The first
// movement is always the OPENING row at the epoch; every subsequent row
// reflects the post-state of one event (plus one extra blocked row whenever
// a withdrawal could not be fully met).
//
// Invariants the fold maintains: balance quantity never goes negative, and a
// zero balance quantity always carries a zero balance value. All
// intermediate decimals pass through round() before being folded forward.
func ProcessEvents(cfg Config, events []StockEvent) []LedgerMovement {
	SortEvents(events)

	st := ledgerState{
		qty:     round(cfg.OpeningSacks),
		value:   round(cfg.OpeningSacks.Mul(cfg.OpeningUnitCost)),
		avgCost: round(cfg.OpeningUnitCost),
	}

	movements := make([]LedgerMovement, 0, len(events)+1)
	movements = append(movements, LedgerMovement{
		Type:              MovementOpening,
		Timestamp:         cfg.Epoch,
		AppliedSacks:      st.qty,
		RequestedSacks:    st.qty,
		UnitCost:          st.avgCost,
		AvgCostAfter:      st.avgCost,
		BalanceQtyAfter:   st.qty,
		BalanceValueAfter: st.value,
		Notes:             "estoque inicial",
	})

	for _, ev := range events {
		switch ev.Kind {
		case KindEntry:
			movements = append(movements, applyEntry(&st, ev))
		case KindExit, KindConsumption:
			movements = append(movements, applyWithdrawal(&st, ev)...)
		}
	}
	return movements
}

// applyEntry increases the balance by the full quantity (entries are never
// clamped) and recomputes the moving average. An entry landing on an empty
// balance restarts the cost at its own unit cost instead of averaging
// against a zero base.
func applyEntry(st *ledgerState, ev StockEvent) LedgerMovement {
	qty := ev.QuantitySacks.Abs()

	unitCost := ev.UnitCostSack
	if unitCost.IsZero() && qty.IsPositive() {
		// No unit price on the item; derive from its net total.
		unitCost = round(ev.NetTotal.Div(qty))
	}
	entryValue := round(unitCost.Mul(qty))

	restarted := st.qty.IsZero()
	st.qty = round(st.qty.Add(qty))
	st.value = round(st.value.Add(entryValue))
	switch {
	case restarted:
		st.avgCost = unitCost
	case st.qty.IsPositive():
		st.avgCost = round(st.value.Div(st.qty))
	}

	return LedgerMovement{
		Type:              MovementEntry,
		Timestamp:         ev.Timestamp,
		Document:          ev.Document,
		Partner:           ev.PartnerName,
		CFOP:              ev.CFOP,
		AppliedSacks:      qty,
		RequestedSacks:    qty,
		UnitCost:          unitCost,
		AvgCostAfter:      st.avgCost,
		BalanceQtyAfter:   st.qty,
		BalanceValueAfter: st.value,
		CostRestarted:     restarted,
	}
}

// applyWithdrawal deducts an exit or consumption at the moving average in
// force, clamped to the available balance. Three shapes come out of it:
//
//   - balance already zero: a single blocked row, state untouched;
//   - balance covers the request: one normal row;
//   - partial cover: a normal row for the applied part plus one blocked row
//     carrying the unmet remainder.
//
// Consumption events additionally complete their paired sale record with the
// applied quantity and the pre-deduction average cost.
func applyWithdrawal(st *ledgerState, ev StockEvent) []LedgerMovement {
	requested := ev.QuantitySacks.Abs()
	notes := withdrawalNotes(ev)

	if st.qty.IsZero() {
		if ev.Sale != nil {
			ev.Sale.ConsumedSacks = decimal.Zero
			// Cost fields stay nil: nothing was attributable.
		}
		return []LedgerMovement{{
			Type:              MovementExit,
			Timestamp:         ev.Timestamp,
			Document:          ev.Document,
			Partner:           ev.PartnerName,
			CFOP:              ev.CFOP,
			AppliedSacks:      decimal.Zero,
			RequestedSacks:    requested,
			UnitCost:          st.avgCost,
			AvgCostAfter:      st.avgCost,
			BalanceQtyAfter:   st.qty,
			BalanceValueAfter: st.value,
			Blocked:           true,
			Notes:             notes,
		}}
	}

	applied := decimal.Min(requested, st.qty)
	avgBefore := st.avgCost
	removed := round(avgBefore.Mul(applied))

	st.qty = round(st.qty.Sub(applied))
	st.value = round(st.value.Sub(removed))
	if st.qty.IsZero() {
		// No quantity left: purge any rounding residue from the value.
		st.value = decimal.Zero
	}

	if ev.Sale != nil {
		ev.Sale.ConsumedSacks = applied
		cost := avgBefore
		value := removed
		ev.Sale.CostPerSack = &cost
		ev.Sale.ConsumedValue = &value
	}

	out := []LedgerMovement{{
		Type:              MovementExit,
		Timestamp:         ev.Timestamp,
		Document:          ev.Document,
		Partner:           ev.PartnerName,
		CFOP:              ev.CFOP,
		AppliedSacks:      applied,
		RequestedSacks:    requested,
		UnitCost:          avgBefore,
		AvgCostAfter:      st.avgCost,
		BalanceQtyAfter:   st.qty,
		BalanceValueAfter: st.value,
		Notes:             notes,
	}}

	if requested.GreaterThan(applied) {
		remainder := round(requested.Sub(applied))
		out = append(out, LedgerMovement{
			Type:              MovementExit,
			Timestamp:         ev.Timestamp,
			Document:          ev.Document,
			Partner:           ev.PartnerName,
			CFOP:              ev.CFOP,
			AppliedSacks:      decimal.Zero,
			RequestedSacks:    remainder,
			UnitCost:          avgBefore,
			AvgCostAfter:      st.avgCost,
			BalanceQtyAfter:   st.qty,
			BalanceValueAfter: st.value,
			Blocked:           true,
			Notes:             notes,
		})
	}
	return out
}

func withdrawalNotes(ev StockEvent) string {
	if ev.Sale == nil {
		return ""
	}
	return fmt.Sprintf("consumo %s x %s", ev.Sale.Alias, ev.Sale.UnitsSold.String())
}
