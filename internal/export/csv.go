package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/borghilucas/fluitax/internal/kardex"
)

// WriteCSV renders the report's movement ledger and finished sales as a
// semicolon-separated CSV, the separator Brazilian spreadsheet software
// expects. The renderer only reads the report; every number was computed by
// the engine.
func WriteCSV(w io.Writer, report *kardex.Report) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write([]string{
		"tipo", "data", "documento", "parceiro", "cfop",
		"qtd_aplicada_sc", "qtd_solicitada_sc", "custo_unitario",
		"custo_medio", "saldo_sc", "saldo_valor", "bloqueado", "obs",
	}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, m := range report.Movements {
		row := []string{
			string(m.Type),
			m.Timestamp.Format("2006-01-02"),
			m.Document,
			m.Partner,
			m.CFOP,
			m.AppliedSacks.String(),
			m.RequestedSacks.String(),
			m.UnitCost.String(),
			m.AvgCostAfter.String(),
			m.BalanceQtyAfter.String(),
			m.BalanceValueAfter.String(),
			boolLabel(m.Blocked),
			m.Notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write movement row: %w", err)
		}
	}

	// Blank separator, then the finished-sales block.
	if err := cw.Write([]string{}); err != nil {
		return fmt.Errorf("failed to write separator: %w", err)
	}
	if err := cw.Write([]string{
		"data", "documento", "parceiro", "produto",
		"unidades", "preco_liquido", "consumo_sc", "custo_sc", "custo_total",
	}); err != nil {
		return fmt.Errorf("failed to write sales header: %w", err)
	}
	for _, s := range report.FinishedSales {
		row := []string{
			s.Timestamp.Format("2006-01-02"),
			s.Document,
			s.Partner,
			string(s.Alias),
			s.UnitsSold.String(),
			s.UnitNetPrice.String(),
			s.ConsumedSacks.String(),
			optDecimal(s.CostPerSack),
			optDecimal(s.ConsumedValue),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write sale row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func boolLabel(b bool) string {
	if b {
		return "Sim"
	}
	return "Nao"
}

// optDecimal renders a nullable cost field; nil means the ledger could not
// attribute any cost, which is different from zero.
func optDecimal(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
