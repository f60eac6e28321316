package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/borghilucas/fluitax/internal/kardex"
)

// InvoiceRepository is the single I/O boundary of a report build: one bulk
// fetch of companies, invoice items and partner names before any ledger
// work starts. The engine itself never touches the database.
type InvoiceRepository interface {
	FetchCompanies(ctx context.Context) ([]kardex.Company, error)
	// FetchInvoiceItems returns every authorized invoice item of the given
	// companies from since (the reconstruction epoch) up to and including
	// until, sorted by (issue date, invoice id, item id) ascending.
	// The warnings list reports historical rows whose numeric columns could
	// not be parsed and were coerced to zero.
	FetchInvoiceItems(ctx context.Context, companyIDs []int, since, until time.Time) ([]kardex.InvoiceItemRecord, []string, error)
	// FetchPartnerNames returns the display names registered for the
	// companies' counter-parties. Best effort: absent keys fall back to the
	// raw identifier downstream.
	FetchPartnerNames(ctx context.Context, companyIDs []int) (map[kardex.PartnerKey]string, error)
}

type invoiceRepository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) InvoiceRepository {
	return &invoiceRepository{pool: pool}
}

func (r *invoiceRepository) FetchCompanies(ctx context.Context) ([]kardex.Company, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, cnpj
		FROM companies
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}
	defer rows.Close()

	var companies []kardex.Company
	for rows.Next() {
		var c kardex.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.CNPJ); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating companies: %w", err)
	}
	return companies, nil
}

// FetchInvoiceItems pulls the whole consolidation window in one query.
// Numeric columns are read as text and coerced through kardex.CoerceDecimal:
// the invoice store predates this service and the occasional row carries
// free-text where a number belongs. Cancelled and denied invoices never
// reach the ledger.
func (r *invoiceRepository) FetchInvoiceItems(ctx context.Context, companyIDs []int, since, until time.Time) ([]kardex.InvoiceItemRecord, []string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT i.id,
		       it.id,
		       i.issued_at,
		       i.direction,
		       i.company_id,
		       COALESCE(i.partner_id, ''),
		       COALESCE(i.partner_name, ''),
		       COALESCE(i.number, ''),
		       COALESCE(it.cfop, ''),
		       COALESCE(it.product_name, ''),
		       COALESCE(it.description, ''),
		       COALESCE(it.product_code, ''),
		       COALESCE(it.unit, ''),
		       COALESCE(it.quantity::text, ''),
		       COALESCE(it.unit_price::text, ''),
		       COALESCE(it.gross_value::text, ''),
		       COALESCE(it.discount_value::text, '')
		FROM invoice_items it
		JOIN invoices i ON i.id = it.invoice_id
		WHERE i.company_id = ANY($1)
		  AND i.status = 'AUTHORIZED'
		  AND i.issued_at >= $2
		  AND i.issued_at <= $3
		ORDER BY i.issued_at ASC, i.id ASC, it.id ASC
	`, companyIDs, since, until)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query invoice items: %w", err)
	}
	defer rows.Close()

	var items []kardex.InvoiceItemRecord
	var warnings []string
	for rows.Next() {
		var rec kardex.InvoiceItemRecord
		var direction string
		var qty, price, gross, discount string
		if err := rows.Scan(
			&rec.InvoiceID, &rec.ItemID, &rec.IssuedAt, &direction,
			&rec.CompanyID, &rec.PartnerID, &rec.PartnerName, &rec.Document,
			&rec.CFOP, &rec.ProductName, &rec.Description, &rec.ProductCode,
			&rec.Unit, &qty, &price, &gross, &discount,
		); err != nil {
			return nil, nil, fmt.Errorf("failed to scan invoice item: %w", err)
		}
		rec.Direction = kardex.Direction(direction)
		rec.Quantity = coerce(&warnings, rec.Document, rec.ItemID, "quantity", qty)
		rec.UnitPrice = coerce(&warnings, rec.Document, rec.ItemID, "unit_price", price)
		rec.GrossValue = coerce(&warnings, rec.Document, rec.ItemID, "gross_value", gross)
		rec.Discount = coerce(&warnings, rec.Document, rec.ItemID, "discount_value", discount)
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating invoice items: %w", err)
	}
	return items, warnings, nil
}

func (r *invoiceRepository) FetchPartnerNames(ctx context.Context, companyIDs []int) (map[kardex.PartnerKey]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT company_id, partner_id, name
		FROM partners
		WHERE company_id = ANY($1)
	`, companyIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query partner names: %w", err)
	}
	defer rows.Close()

	names := make(map[kardex.PartnerKey]string)
	for rows.Next() {
		var key kardex.PartnerKey
		var name string
		if err := rows.Scan(&key.CompanyID, &key.PartnerID, &name); err != nil {
			return nil, fmt.Errorf("failed to scan partner name: %w", err)
		}
		names[key] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating partner names: %w", err)
	}
	return names, nil
}

func coerce(warnings *[]string, document string, itemID int64, column, raw string) decimal.Decimal {
	d, ok := kardex.CoerceDecimal(raw)
	if !ok && raw != "" {
		*warnings = append(*warnings, fmt.Sprintf("invoice %s item %d: %s %q is not numeric, treated as zero", document, itemID, column, raw))
	}
	return d
}
