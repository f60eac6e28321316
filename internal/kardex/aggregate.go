package kardex

import "github.com/shopspring/decimal"

// AggregateDaily reduces the windowed movement list into per-day totals.
// Synthetic rows (OPENING, PRIOR_BALANCE) contribute no entry/exit volume
// but still advance the end-of-day balance snapshot. Days appear in
// chronological order; days without movements do not appear.
func AggregateDaily(movements []LedgerMovement) []DailyTotal {
	var out []DailyTotal
	for _, m := range movements {
		day := m.Timestamp.Format("2006-01-02")
		if len(out) == 0 || out[len(out)-1].Date != day {
			out = append(out, DailyTotal{Date: day})
		}
		t := &out[len(out)-1]
		switch m.Type {
		case MovementEntry:
			t.EntrySacks = t.EntrySacks.Add(m.AppliedSacks)
		case MovementExit:
			t.ExitSacks = t.ExitSacks.Add(m.AppliedSacks)
		}
		t.BalanceQty = m.BalanceQtyAfter
		t.BalanceValue = m.BalanceValueAfter
		t.AvgCost = m.AvgCostAfter
	}
	return out
}

// AggregateProducts reduces the windowed finished sales into per-alias
// totals, in the fixed display order. Revenue is units times net unit price;
// consumption cost only counts sales the ledger could attribute.
func AggregateProducts(sales []FinishedSaleRecord) []ProductTotal {
	order := make([]ProductAlias, len(FinishedAliasOrder))
	copy(order, FinishedAliasOrder)
	byAlias := make(map[ProductAlias]*ProductTotal, len(order))
	for _, alias := range order {
		byAlias[alias] = &ProductTotal{Alias: alias}
	}
	for _, s := range sales {
		t, found := byAlias[s.Alias]
		if !found {
			t = &ProductTotal{Alias: s.Alias}
			byAlias[s.Alias] = t
			order = append(order, s.Alias)
		}
		t.UnitsSold = t.UnitsSold.Add(s.UnitsSold)
		t.ConsumedSacks = t.ConsumedSacks.Add(s.ConsumedSacks)
		t.Revenue = t.Revenue.Add(round(s.UnitsSold.Mul(s.UnitNetPrice)))
		if s.ConsumedValue != nil {
			t.ConsumedValue = t.ConsumedValue.Add(*s.ConsumedValue)
		}
	}
	out := make([]ProductTotal, 0, len(order))
	for _, alias := range order {
		out = append(out, *byAlias[alias])
	}
	return out
}

// Totals closes the report over the windowed movements and product totals.
func Totals(movements []LedgerMovement, products []ProductTotal) GrandTotals {
	var g GrandTotals
	for _, m := range movements {
		switch m.Type {
		case MovementEntry:
			g.EntrySacks = g.EntrySacks.Add(m.AppliedSacks)
		case MovementExit:
			g.ExitSacks = g.ExitSacks.Add(m.AppliedSacks)
		}
	}
	for _, p := range products {
		g.UnitsSold = g.UnitsSold.Add(p.UnitsSold)
		g.ConsumedSacks = g.ConsumedSacks.Add(p.ConsumedSacks)
		g.Revenue = g.Revenue.Add(p.Revenue)
		g.ConsumedValue = g.ConsumedValue.Add(p.ConsumedValue)
	}
	if n := len(movements); n > 0 {
		last := movements[n-1]
		g.FinalBalanceQty = last.BalanceQtyAfter
		g.FinalBalanceValue = last.BalanceValueAfter
		g.FinalAvgCost = last.AvgCostAfter
	} else {
		g.FinalBalanceQty = decimal.Zero
		g.FinalBalanceValue = decimal.Zero
		g.FinalAvgCost = decimal.Zero
	}
	return g
}
