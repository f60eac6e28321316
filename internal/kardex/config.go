package kardex

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ConfigError marks a configuration problem that makes consolidation
// impossible (missing participant, unmatched matcher). It aborts report
// construction before any ledger work and surfaces as a client-correctable
// condition at the HTTP edge.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

func configErrorf(format string, args ...any) error {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// CompanyMatcher matches one required participant by name tokens. Every
// token must appear in the normalized company name.
type CompanyMatcher struct {
	Label  string
	Tokens []string
}

// Config carries every constant the engine consumes. It is built once at
// startup and passed explicitly; there is no process-global state.
type Config struct {
	// Epoch is where full-history reconstruction starts. The opening stock
	// is dated here.
	Epoch time.Time

	// Opening raw-material stock at the epoch.
	OpeningSacks    decimal.Decimal
	OpeningUnitCost decimal.Decimal

	// ConsumptionRatio is the sacks of green coffee consumed per finished
	// unit (fardo) sold, identical across blends.
	ConsumptionRatio decimal.Decimal

	// RawAliases are exact-match (post normalization) names for the raw
	// material. RawHeuristics are token sets: a candidate containing every
	// token of any set still classifies as raw material.
	RawAliases    []string
	RawHeuristics [][]string

	// FinishedAliases maps product names to finished-good aliases.
	FinishedAliases map[string]ProductAlias

	// BlockedPartnerIDs are counter-party identifiers whose invoices never
	// enter the ledger (brokerage passthroughs, test partners).
	BlockedPartnerIDs []string

	// Participant selection: explicit IDs win over explicit CNPJs, which win
	// over the name-token matchers.
	CompanyIDs      []int
	CompanyCNPJs    []string
	CompanyMatchers []CompanyMatcher
}

// DefaultConfig returns the production constants for the coffee
// consolidation. Opening stock and company overrides normally come from the
// environment; see cmd/server.
func DefaultConfig() Config {
	return Config{
		Epoch:            time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
		OpeningSacks:     decimal.Zero,
		OpeningUnitCost:  decimal.Zero,
		ConsumptionRatio: decimal.RequireFromString("0.5"),
		RawAliases: []string{
			"CAFE VERDE",
			"CAFE CONILON",
			"CAFE CONILON EM GRAO",
			"CAFE EM COCO",
			"CAFE CRU EM GRAO",
		},
		RawHeuristics: [][]string{
			{"CONILON"},
			{"CAFE", "VERDE"},
			{"CAFE", "GRAO"},
			{"CAFE", "COCO"},
		},
		FinishedAliases: map[string]ProductAlias{
			"FARDO TRADICIONAL":                AliasFardoTradicional,
			"CAFE TORRADO E MOIDO TRADICIONAL": AliasFardoTradicional,
			"FARDO 10X500G TRADICIONAL":        AliasFardoTradicional,
			"FARDO EXTRAFORTE":                 AliasFardoExtraforte,
			"CAFE TORRADO E MOIDO EXTRAFORTE":  AliasFardoExtraforte,
			"FARDO 10X500G EXTRAFORTE":         AliasFardoExtraforte,
			"FARDO GOURMET":                    AliasFardoGourmet,
			"CAFE TORRADO E MOIDO GOURMET":     AliasFardoGourmet,
			"FARDO 20X250G GOURMET":            AliasFardoGourmet,
		},
		CompanyMatchers: []CompanyMatcher{
			{Label: "industria", Tokens: []string{"TORREFACAO"}},
			{Label: "comercio", Tokens: []string{"COMERCIO", "CAFE"}},
		},
	}
}
