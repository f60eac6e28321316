package kardex_test

import (
	"testing"

	"github.com/borghilucas/fluitax/internal/kardex"
)

func TestWindowMovements_PriorBalance(t *testing.T) {
	cfg := testConfig()
	movements := kardex.ProcessEvents(cfg, []kardex.StockEvent{
		entry(ts(1), 1, 1, "50", "600"),
		exit(ts(10), 2, 1, "30"),
		entry(ts(20), 3, 1, "10", "700"),
	})

	from := ts(15)
	to := ts(30)
	windowed := kardex.WindowMovements(movements, from, to)

	if len(windowed) != 2 {
		t.Fatalf("expected prior row + one movement, got %d", len(windowed))
	}

	prior := windowed[0]
	if prior.Type != kardex.MovementPriorBalance {
		t.Fatalf("first row type = %s, want PRIOR_BALANCE", prior.Type)
	}
	if !prior.Timestamp.Equal(from) {
		t.Errorf("prior row dated %s, want exactly %s", prior.Timestamp, from)
	}

	// The prior row must carry the post-state of the last full-history
	// movement strictly before the window.
	var lastBefore kardex.LedgerMovement
	for _, m := range movements {
		if m.Timestamp.Before(from) {
			lastBefore = m
		}
	}
	if !prior.BalanceQtyAfter.Equal(lastBefore.BalanceQtyAfter) ||
		!prior.BalanceValueAfter.Equal(lastBefore.BalanceValueAfter) ||
		!prior.AvgCostAfter.Equal(lastBefore.AvgCostAfter) {
		t.Errorf("prior row state %s/%s/%s diverges from history %s/%s/%s",
			prior.BalanceQtyAfter, prior.BalanceValueAfter, prior.AvgCostAfter,
			lastBefore.BalanceQtyAfter, lastBefore.BalanceValueAfter, lastBefore.AvgCostAfter)
	}

	if windowed[1].Type != kardex.MovementEntry || !windowed[1].Timestamp.Equal(ts(20)) {
		t.Errorf("second row = %+v, want the entry at day 20", windowed[1])
	}
}

func TestWindowMovements_FromEpochHasNoPriorRow(t *testing.T) {
	cfg := testConfig()
	movements := kardex.ProcessEvents(cfg, []kardex.StockEvent{
		entry(ts(1), 1, 1, "50", "600"),
	})

	windowed := kardex.WindowMovements(movements, cfg.Epoch, ts(30))
	if len(windowed) != 2 {
		t.Fatalf("expected opening + entry, got %d", len(windowed))
	}
	if windowed[0].Type != kardex.MovementOpening {
		t.Errorf("first row = %s, want the OPENING itself", windowed[0].Type)
	}
}

func TestWindowMovements_UpperBoundInclusive(t *testing.T) {
	cfg := testConfig()
	movements := kardex.ProcessEvents(cfg, []kardex.StockEvent{
		entry(ts(10), 1, 1, "50", "600"),
		entry(ts(11), 2, 1, "10", "650"),
	})

	windowed := kardex.WindowMovements(movements, ts(10), ts(10))
	if len(windowed) != 2 {
		t.Fatalf("expected prior + day-10 entry, got %d", len(windowed))
	}
	for _, m := range windowed {
		if m.Timestamp.After(ts(10)) {
			t.Errorf("movement at %s leaked past the upper bound", m.Timestamp)
		}
	}
}

func TestWindowSales(t *testing.T) {
	sales := []*kardex.FinishedSaleRecord{
		{Timestamp: ts(5), InvoiceID: 1, Alias: kardex.AliasFardoTradicional},
		{Timestamp: ts(15), InvoiceID: 2, Alias: kardex.AliasFardoGourmet},
		{Timestamp: ts(25), InvoiceID: 3, Alias: kardex.AliasFardoExtraforte},
	}
	windowed := kardex.WindowSales(sales, ts(10), ts(20))
	if len(windowed) != 1 || windowed[0].InvoiceID != 2 {
		t.Errorf("windowed = %+v, want only invoice 2", windowed)
	}
}
