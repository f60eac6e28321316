package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/borghilucas/fluitax/internal/kardex"
	"github.com/borghilucas/fluitax/internal/repo"
)

// defaultFetchTimeout bounds the bulk fetch, the only blocking step of a
// report build. The fold itself is in-memory and needs no deadline.
const defaultFetchTimeout = 30 * time.Second

type appService struct {
	repo         repo.InvoiceRepository
	cfg          kardex.Config
	log          *logrus.Logger
	fetchTimeout time.Duration
}

// NewAppService wires the repository and engine configuration into the
// application facade.
func NewAppService(r repo.InvoiceRepository, cfg kardex.Config, log *logrus.Logger) ApplicationService {
	return &appService{repo: r, cfg: cfg, log: log, fetchTimeout: defaultFetchTimeout}
}

// BuildKardexReport resolves the participant set, performs the single bulk
// fetch under a deadline, and hands everything to the pure builder. Note the
// fetch always starts at the configured epoch regardless of the requested
// window: a mid-history opening balance is only exact when the fold saw all
// prior movements.
func (s *appService) BuildKardexReport(ctx context.Context, from, to time.Time) (*kardex.Report, error) {
	companies, err := s.fetchCompanies(ctx)
	if err != nil {
		return nil, err
	}

	resolved, err := kardex.ResolveCompanies(s.cfg, companies)
	if err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(resolved))
	for _, c := range resolved {
		ids = append(ids, c.ID)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	start := time.Now()
	items, warnings, err := s.repo.FetchInvoiceItems(fetchCtx, ids, s.cfg.Epoch, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoice items: %w", err)
	}
	partnerNames, err := s.repo.FetchPartnerNames(fetchCtx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch partner names: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"module":    "kardex",
		"companies": ids,
		"items":     len(items),
		"fetch_ms":  time.Since(start).Milliseconds(),
	}).Info("invoice history fetched")

	report := kardex.NewBuilder(s.cfg).Build(resolved, items, partnerNames, from, to)
	report.Warnings = append(warnings, report.Warnings...)
	return report, nil
}

func (s *appService) fetchCompanies(ctx context.Context) ([]kardex.Company, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	companies, err := s.repo.FetchCompanies(fetchCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch companies: %w", err)
	}
	return companies, nil
}
