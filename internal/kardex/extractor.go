package kardex

import "fmt"

// Extractor turns raw invoice items into typed stock events. It is built
// once per report with the resolved participant set, so intercompany
// transfers and blocked partners are excluded up front.
type Extractor struct {
	cfg          Config
	resolver     *AliasResolver
	ownCNPJs     map[string]bool
	blocked      map[string]bool
	partnerNames map[PartnerKey]string
}

func NewExtractor(cfg Config, resolved []Company, partnerNames map[PartnerKey]string) *Extractor {
	own := make(map[string]bool, len(resolved))
	for _, c := range resolved {
		own[onlyDigits(c.CNPJ)] = true
	}
	blocked := make(map[string]bool, len(cfg.BlockedPartnerIDs))
	for _, id := range cfg.BlockedPartnerIDs {
		blocked[onlyDigits(id)] = true
	}
	return &Extractor{
		cfg:          cfg,
		resolver:     NewAliasResolver(cfg),
		ownCNPJs:     own,
		blocked:      blocked,
		partnerNames: partnerNames,
	}
}

// Extract walks every invoice item and emits the stock events the ledger
// will fold, plus the draft finished-sale records the processor completes.
// Items that do not belong in the consolidation are skipped, never errored:
// one odd historical row must not prevent the rest of the ledger.
func (e *Extractor) Extract(items []InvoiceItemRecord) ([]StockEvent, []*FinishedSaleRecord, []string) {
	var events []StockEvent
	var sales []*FinishedSaleRecord
	var warnings []string

	for _, item := range items {
		partnerID := onlyDigits(item.PartnerID)

		// An invoice between two consolidated entities is an internal
		// transfer; counting it would double both sides.
		if e.ownCNPJs[partnerID] || e.blocked[partnerID] {
			continue
		}

		alias := e.resolver.Resolve(item.ProductName, item.Description, item.ProductCode)
		if alias == "" {
			continue
		}

		switch alias {
		case AliasGreenCoffee:
			ev, warn := e.rawEvent(item)
			if warn != "" {
				warnings = append(warnings, warn)
			}
			events = append(events, ev)
		default:
			// Finished goods only consume raw material when they leave the
			// company; inbound finished-good invoices (returns, transfers
			// from outside) carry no consumption signal.
			if item.Direction != DirectionOut {
				continue
			}
			ev, sale := e.consumptionEvent(item, alias)
			events = append(events, ev)
			sales = append(sales, sale)
		}
	}
	return events, sales, warnings
}

// rawEvent builds an ENTRY or EXIT for a green-coffee item. Quantity is
// normalized to sacks and the net unit price is re-expressed per sack.
func (e *Extractor) rawEvent(item InvoiceItemRecord) (StockEvent, string) {
	kind := KindEntry
	if item.Direction == DirectionOut {
		kind = KindExit
	}

	sacks, known := ToSacks(item.Quantity.Abs(), item.Unit)
	var warn string
	if !known {
		warn = fmt.Sprintf("invoice %s item %d: unit %q not recognized, quantity treated as sacks", item.Document, item.ItemID, item.Unit)
	}

	netUnit := item.UnitPrice
	if item.Quantity.IsPositive() && !item.Discount.IsZero() {
		netUnit = netUnit.Sub(item.Discount.Div(item.Quantity))
	}
	costPerSack := round(netUnit.Mul(UnitsPerSack(item.Unit)))

	return StockEvent{
		Kind:          kind,
		Timestamp:     item.IssuedAt,
		InvoiceID:     item.InvoiceID,
		ItemID:        item.ItemID,
		QuantitySacks: sacks,
		UnitCostSack:  costPerSack,
		NetTotal:      round(item.GrossValue.Sub(item.Discount)),
		PartnerName:   e.partnerName(item),
		PartnerID:     item.PartnerID,
		Document:      item.Document,
		CFOP:          item.CFOP,
	}, warn
}

// consumptionEvent builds a CONSUMPTION for an outbound finished-good item
// and the draft sale record it will complete. The nominal consumption is the
// configured ratio times the units sold; the processor clamps it against the
// available balance.
func (e *Extractor) consumptionEvent(item InvoiceItemRecord, alias ProductAlias) (StockEvent, *FinishedSaleRecord) {
	units := item.Quantity.Abs()
	netUnit := item.UnitPrice
	if units.IsPositive() && !item.Discount.IsZero() {
		netUnit = netUnit.Sub(item.Discount.Div(units))
	}

	sale := &FinishedSaleRecord{
		Timestamp:    item.IssuedAt,
		InvoiceID:    item.InvoiceID,
		ItemID:       item.ItemID,
		Document:     item.Document,
		Partner:      e.partnerName(item),
		Alias:        alias,
		UnitsSold:    units,
		UnitNetPrice: round(netUnit),
	}

	ev := StockEvent{
		Kind:          KindConsumption,
		Timestamp:     item.IssuedAt,
		InvoiceID:     item.InvoiceID,
		ItemID:        item.ItemID,
		QuantitySacks: round(units.Mul(e.cfg.ConsumptionRatio)),
		PartnerName:   sale.Partner,
		PartnerID:     item.PartnerID,
		Document:      item.Document,
		CFOP:          item.CFOP,
		Sale:          sale,
	}
	return ev, sale
}

func (e *Extractor) partnerName(item InvoiceItemRecord) string {
	if name, found := e.partnerNames[PartnerKey{CompanyID: item.CompanyID, PartnerID: item.PartnerID}]; found && name != "" {
		return name
	}
	if item.PartnerName != "" {
		return item.PartnerName
	}
	return item.PartnerID
}
