package kardex

import "time"

// Builder assembles a consolidated Kardex report from pre-fetched inputs.
// It performs no I/O: companies, invoice items and partner names arrive from
// the persistence layer, already sorted by (date, invoice, item). Two calls
// with the same inputs produce identical reports.
type Builder struct {
	cfg Config
}

func NewBuilder(cfg Config) *Builder {
	return &Builder{cfg: cfg}
}

// Build runs the whole pipeline: extract events from every item since the
// epoch, fold them into the full-history ledger, window it to [from, to],
// and reduce the window into daily and per-product totals.
//
// The item list must cover the epoch up to to: the opening balance of a
// mid-history window can only be exact when the fold saw everything that
// came before it.
func (b *Builder) Build(resolved []Company, items []InvoiceItemRecord, partnerNames map[PartnerKey]string, from, to time.Time) *Report {
	extractor := NewExtractor(b.cfg, resolved, partnerNames)
	events, sales, warnings := extractor.Extract(items)

	movements := ProcessEvents(b.cfg, events)
	windowed := WindowMovements(movements, from, to)
	windowedSales := WindowSales(sales, from, to)

	products := AggregateProducts(windowedSales)

	ids := make([]int, 0, len(resolved))
	names := make([]string, 0, len(resolved))
	for _, c := range resolved {
		ids = append(ids, c.ID)
		names = append(names, c.Name)
	}

	return &Report{
		Filters: ReportFilters{
			From:         from.Format("2006-01-02"),
			To:           to.Format("2006-01-02"),
			CompanyIDs:   ids,
			CompanyNames: names,
		},
		OpeningBalance: movements[0],
		Movements:      windowed,
		FinishedSales:  windowedSales,
		DailyTotals:    AggregateDaily(windowed),
		ProductTotals:  products,
		GrandTotals:    Totals(windowed, products),
		Warnings:       warnings,
	}
}
