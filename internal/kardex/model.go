package kardex

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether an invoice moves goods into or out of the company.
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// ProductAlias is one of the canonical product identities the consolidation
// tracks. Everything else on an invoice is ignored.
type ProductAlias string

const (
	AliasGreenCoffee      ProductAlias = "CAFE_VERDE"
	AliasFardoTradicional ProductAlias = "FARDO_TRADICIONAL"
	AliasFardoExtraforte  ProductAlias = "FARDO_EXTRAFORTE"
	AliasFardoGourmet     ProductAlias = "FARDO_GOURMET"
)

// FinishedAliasOrder is the display order of finished-good aliases in
// per-product aggregates.
var FinishedAliasOrder = []ProductAlias{
	AliasFardoTradicional,
	AliasFardoExtraforte,
	AliasFardoGourmet,
}

// Company is a legal entity participating in the consolidation.
type Company struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	CNPJ string `json:"cnpj"`
}

// PartnerKey identifies a counter-party within one company's invoice scope.
type PartnerKey struct {
	CompanyID int
	PartnerID string
}

// InvoiceItemRecord is one invoice line as persisted by the ingestion
// subsystem. Records are immutable inputs; quantity, price and value fields
// arrive already coerced to decimals (malformed source values become zero,
// see CoerceDecimal).
type InvoiceItemRecord struct {
	InvoiceID   int64
	ItemID      int64
	IssuedAt    time.Time
	Direction   Direction
	CompanyID   int
	PartnerID   string
	PartnerName string
	Document    string // invoice number as printed on the NFe/CTe
	CFOP        string
	ProductName string // mapped product name, highest-priority alias candidate
	Description string
	ProductCode string
	Unit        string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	GrossValue  decimal.Decimal
	Discount    decimal.Decimal
}

// EventKind types a stock event. The iota value doubles as the tie-break
// rank when events share (timestamp, invoice, item): entries land before
// exits, exits before consumption.
type EventKind int

const (
	KindEntry EventKind = iota
	KindExit
	KindConsumption
)

func (k EventKind) String() string {
	switch k {
	case KindEntry:
		return "ENTRY"
	case KindExit:
		return "EXIT"
	case KindConsumption:
		return "CONSUMPTION"
	}
	return "UNKNOWN"
}

// StockEvent is a typed movement derived from one invoice item. Events are
// never mutated after extraction; the processor reads them in sorted order.
type StockEvent struct {
	Kind          EventKind
	Timestamp     time.Time
	InvoiceID     int64
	ItemID        int64
	QuantitySacks decimal.Decimal // always positive
	UnitCostSack  decimal.Decimal // net cost per sack; zero when the item had no unit price
	NetTotal      decimal.Decimal // item net total, fallback cost source for entries
	PartnerName   string
	PartnerID     string
	Document      string
	CFOP          string

	// Sale points at the draft FinishedSaleRecord paired with a consumption
	// event. The processor completes it in place. Nil for entries and exits.
	Sale *FinishedSaleRecord
}

// MovementType classifies one row of the output ledger.
type MovementType string

const (
	MovementOpening      MovementType = "OPENING"
	MovementPriorBalance MovementType = "PRIOR_BALANCE"
	MovementEntry        MovementType = "ENTRY"
	MovementExit         MovementType = "EXIT"
)

// LedgerMovement is one row of the consolidated Kardex. BalanceQtyAfter is
// never negative, and a zero quantity always carries a zero value.
type LedgerMovement struct {
	Type              MovementType    `json:"type"`
	Timestamp         time.Time       `json:"timestamp"`
	Document          string          `json:"document"`
	Partner           string          `json:"partner"`
	CFOP              string          `json:"cfop"`
	AppliedSacks      decimal.Decimal `json:"appliedSacks"`
	RequestedSacks    decimal.Decimal `json:"requestedSacks"`
	UnitCost          decimal.Decimal `json:"unitCost"`
	AvgCostAfter      decimal.Decimal `json:"avgCostAfter"`
	BalanceQtyAfter   decimal.Decimal `json:"balanceQtyAfter"`
	BalanceValueAfter decimal.Decimal `json:"balanceValueAfter"`
	Blocked           bool            `json:"blocked"`
	CostRestarted     bool            `json:"costRestarted"`
	Notes             string          `json:"notes,omitempty"`
}

// FinishedSaleRecord tracks one finished-good sale line and the raw-material
// consumption attributed to it. ConsumedSacks may be less than the nominal
// ratio times units when the ledger balance ran short; cost fields stay nil
// when nothing could be attributed at all.
type FinishedSaleRecord struct {
	Timestamp      time.Time        `json:"timestamp"`
	InvoiceID      int64            `json:"invoiceId"`
	ItemID         int64            `json:"itemId"`
	Document       string           `json:"document"`
	Partner        string           `json:"partner"`
	Alias          ProductAlias     `json:"alias"`
	UnitsSold      decimal.Decimal  `json:"unitsSold"`
	UnitNetPrice   decimal.Decimal  `json:"unitNetPrice"`
	ConsumedSacks  decimal.Decimal  `json:"consumedSacks"`
	CostPerSack    *decimal.Decimal `json:"costPerSack,omitempty"`
	ConsumedValue  *decimal.Decimal `json:"consumedValue,omitempty"`
}

// DailyTotal aggregates one calendar day of the windowed ledger.
type DailyTotal struct {
	Date         string          `json:"date"` // YYYY-MM-DD
	EntrySacks   decimal.Decimal `json:"entrySacks"`
	ExitSacks    decimal.Decimal `json:"exitSacks"`
	BalanceQty   decimal.Decimal `json:"balanceQty"`
	BalanceValue decimal.Decimal `json:"balanceValue"`
	AvgCost      decimal.Decimal `json:"avgCost"`
}

// ProductTotal aggregates one finished-good alias over the window.
type ProductTotal struct {
	Alias         ProductAlias    `json:"alias"`
	UnitsSold     decimal.Decimal `json:"unitsSold"`
	ConsumedSacks decimal.Decimal `json:"consumedSacks"`
	Revenue       decimal.Decimal `json:"revenue"`
	ConsumedValue decimal.Decimal `json:"consumedValue"`
}

// GrandTotals closes the report.
type GrandTotals struct {
	EntrySacks        decimal.Decimal `json:"entrySacks"`
	ExitSacks         decimal.Decimal `json:"exitSacks"`
	UnitsSold         decimal.Decimal `json:"unitsSold"`
	ConsumedSacks     decimal.Decimal `json:"consumedSacks"`
	Revenue           decimal.Decimal `json:"revenue"`
	ConsumedValue     decimal.Decimal `json:"consumedValue"`
	FinalBalanceQty   decimal.Decimal `json:"finalBalanceQty"`
	FinalBalanceValue decimal.Decimal `json:"finalBalanceValue"`
	FinalAvgCost      decimal.Decimal `json:"finalAvgCost"`
}

// ReportFilters echoes the parameters the report was built with.
type ReportFilters struct {
	From         string   `json:"from"`
	To           string   `json:"to"`
	CompanyIDs   []int    `json:"companyIds"`
	CompanyNames []string `json:"companyNames"`
}

// Report is the full consolidated Kardex output. It is rebuilt from invoice
// history on every request and never persisted; renderers only read it.
type Report struct {
	Filters        ReportFilters        `json:"filters"`
	OpeningBalance LedgerMovement       `json:"openingBalance"`
	Movements      []LedgerMovement     `json:"movements"`
	FinishedSales  []FinishedSaleRecord `json:"finishedSales"`
	DailyTotals    []DailyTotal         `json:"dailyTotals"`
	ProductTotals  []ProductTotal       `json:"productTotals"`
	GrandTotals    GrandTotals          `json:"grandTotals"`
	Warnings       []string             `json:"warnings,omitempty"`
}
