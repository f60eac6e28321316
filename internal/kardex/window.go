package kardex

import "time"

// WindowMovements derives a period view from the full-history ledger.
//
// The movement list is chronological (ProcessEvents output). The last
// movement strictly before from carries the financially consistent snapshot
// the window must open with, so it is re-emitted as a PRIOR_BALANCE
// pseudo-movement dated exactly at from. Movements inside [from, to] pass
// through unchanged. When nothing precedes from (a window opening at or
// before the epoch) there is no prior row: the OPENING movement itself is in
// the window.
func WindowMovements(movements []LedgerMovement, from, to time.Time) []LedgerMovement {
	var prior *LedgerMovement
	for i := range movements {
		if movements[i].Timestamp.Before(from) {
			prior = &movements[i]
		} else {
			break
		}
	}

	var out []LedgerMovement
	if prior != nil {
		out = append(out, LedgerMovement{
			Type:              MovementPriorBalance,
			Timestamp:         from,
			AvgCostAfter:      prior.AvgCostAfter,
			BalanceQtyAfter:   prior.BalanceQtyAfter,
			BalanceValueAfter: prior.BalanceValueAfter,
			Notes:             "saldo anterior",
		})
	}
	for _, m := range movements {
		if m.Timestamp.Before(from) || m.Timestamp.After(to) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// WindowSales filters completed finished-sale records to [from, to].
func WindowSales(sales []*FinishedSaleRecord, from, to time.Time) []FinishedSaleRecord {
	var out []FinishedSaleRecord
	for _, s := range sales {
		if s.Timestamp.Before(from) || s.Timestamp.After(to) {
			continue
		}
		out = append(out, *s)
	}
	return out
}
