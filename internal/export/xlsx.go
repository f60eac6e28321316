package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/borghilucas/fluitax/internal/kardex"
)

// WriteXLSX renders the report as a workbook with one sheet per section:
// the movement ledger, the finished sales, and the daily/product totals.
func WriteXLSX(w io.Writer, report *kardex.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeMovementsSheet(f, report); err != nil {
		return err
	}
	if err := writeSalesSheet(f, report); err != nil {
		return err
	}
	if err := writeTotalsSheet(f, report); err != nil {
		return err
	}

	// The default sheet excelize creates is replaced by Movimentos.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeMovementsSheet(f *excelize.File, report *kardex.Report) error {
	const sheet = "Movimentos"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	headers := []string{
		"Tipo", "Data", "Documento", "Parceiro", "CFOP",
		"Qtd Aplicada (SC)", "Qtd Solicitada (SC)", "Custo Unit.",
		"Custo Médio", "Saldo (SC)", "Saldo (R$)", "Bloqueado", "Obs",
	}
	if err := writeRow(f, sheet, 1, headers); err != nil {
		return err
	}

	for i, m := range report.Movements {
		row := []any{
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
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeSalesSheet(f *excelize.File, report *kardex.Report) error {
	const sheet = "Vendas"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	headers := []string{
		"Data", "Documento", "Parceiro", "Produto",
		"Unidades", "Preço Líquido", "Consumo (SC)", "Custo/SC", "Custo Total",
	}
	if err := writeRow(f, sheet, 1, headers); err != nil {
		return err
	}

	for i, s := range report.FinishedSales {
		row := []any{
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
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeTotalsSheet(f *excelize.File, report *kardex.Report) error {
	const sheet = "Totais"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	if err := writeRow(f, sheet, 1, []string{"Dia", "Entradas (SC)", "Saídas (SC)", "Saldo (SC)", "Saldo (R$)", "Custo Médio"}); err != nil {
		return err
	}
	rowNo := 2
	for _, d := range report.DailyTotals {
		row := []any{d.Date, d.EntrySacks.String(), d.ExitSacks.String(), d.BalanceQty.String(), d.BalanceValue.String(), d.AvgCost.String()}
		if err := writeRow(f, sheet, rowNo, row); err != nil {
			return err
		}
		rowNo++
	}

	rowNo++
	if err := writeRow(f, sheet, rowNo, []string{"Produto", "Unidades", "Consumo (SC)", "Receita", "Custo"}); err != nil {
		return err
	}
	rowNo++
	for _, p := range report.ProductTotals {
		row := []any{string(p.Alias), p.UnitsSold.String(), p.ConsumedSacks.String(), p.Revenue.String(), p.ConsumedValue.String()}
		if err := writeRow(f, sheet, rowNo, row); err != nil {
			return err
		}
		rowNo++
	}
	return nil
}

func writeRow[T any](f *excelize.File, sheet string, rowNo int, values []T) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNo)
	if err != nil {
		return fmt.Errorf("failed to compute cell for row %d: %w", rowNo, err)
	}
	anyValues := make([]any, len(values))
	for i, v := range values {
		anyValues[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &anyValues); err != nil {
		return fmt.Errorf("failed to write row %d on %s: %w", rowNo, sheet, err)
	}
	return nil
}
