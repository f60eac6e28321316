package app_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/borghilucas/fluitax/internal/app"
	"github.com/borghilucas/fluitax/internal/kardex"
)

type stubRepo struct {
	companies []kardex.Company
	items     []kardex.InvoiceItemRecord
	warnings  []string

	gotSince time.Time
	gotUntil time.Time
	gotIDs   []int
}

func (s *stubRepo) FetchCompanies(context.Context) ([]kardex.Company, error) {
	return s.companies, nil
}

func (s *stubRepo) FetchInvoiceItems(_ context.Context, companyIDs []int, since, until time.Time) ([]kardex.InvoiceItemRecord, []string, error) {
	s.gotIDs, s.gotSince, s.gotUntil = companyIDs, since, until
	return s.items, s.warnings, nil
}

func (s *stubRepo) FetchPartnerNames(context.Context, []int) (map[kardex.PartnerKey]string, error) {
	return nil, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testConfig() kardex.Config {
	cfg := kardex.DefaultConfig()
	cfg.CompanyIDs = []int{1, 2}
	cfg.OpeningSacks = decimal.NewFromInt(100)
	cfg.OpeningUnitCost = decimal.NewFromInt(500)
	return cfg
}

func twoCompanies() []kardex.Company {
	return []kardex.Company{
		{ID: 1, Name: "TORREFACAO BORGHI LTDA", CNPJ: "11.111.111/0001-11"},
		{ID: 2, Name: "COMERCIO DE CAFE BORGHI LTDA", CNPJ: "22.222.222/0001-22"},
	}
}

func TestBuildKardexReportFetchesFromEpoch(t *testing.T) {
	cfg := testConfig()
	repo := &stubRepo{companies: twoCompanies()}
	svc := app.NewAppService(repo, cfg, quietLogger())

	from := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2023, 5, 31, 0, 0, 0, 0, time.UTC)
	report, err := svc.BuildKardexReport(context.Background(), from, to)
	if err != nil {
		t.Fatalf("BuildKardexReport: %v", err)
	}

	// The fetch must reach back to the epoch even for a mid-history window,
	// otherwise the opening balance of the window would be wrong.
	if !repo.gotSince.Equal(cfg.Epoch) {
		t.Errorf("fetch since = %s, want epoch %s", repo.gotSince, cfg.Epoch)
	}
	if !repo.gotUntil.Equal(to) {
		t.Errorf("fetch until = %s, want %s", repo.gotUntil, to)
	}
	if len(repo.gotIDs) != 2 {
		t.Errorf("fetch company ids = %v", repo.gotIDs)
	}

	if report.Filters.From != "2023-05-01" || report.Filters.To != "2023-05-31" {
		t.Errorf("filters = %+v", report.Filters)
	}
	if !report.GrandTotals.FinalBalanceQty.Equal(decimal.NewFromInt(100)) {
		t.Errorf("final balance = %s, want opening 100", report.GrandTotals.FinalBalanceQty)
	}
}

func TestBuildKardexReportPrependsRepoWarnings(t *testing.T) {
	repo := &stubRepo{
		companies: twoCompanies(),
		warnings:  []string{"invoice 42 item 1: quantity \"abc\" is not numeric, treated as zero"},
	}
	svc := app.NewAppService(repo, testConfig(), quietLogger())

	report, err := svc.BuildKardexReport(context.Background(),
		time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 5, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("BuildKardexReport: %v", err)
	}
	if len(report.Warnings) != 1 || report.Warnings[0] != repo.warnings[0] {
		t.Errorf("warnings = %v", report.Warnings)
	}
}

func TestBuildKardexReportFailsClosedOnMissingCompany(t *testing.T) {
	repo := &stubRepo{companies: twoCompanies()[:1]}
	svc := app.NewAppService(repo, testConfig(), quietLogger())

	_, err := svc.BuildKardexReport(context.Background(),
		time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 5, 31, 0, 0, 0, 0, time.UTC))
	var cfgErr *kardex.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("err = %v, want *kardex.ConfigError", err)
	}
}
