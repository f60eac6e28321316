package web_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/borghilucas/fluitax/internal/adapters/web"
	"github.com/borghilucas/fluitax/internal/kardex"
)

// stubService returns a canned report or error.
type stubService struct {
	report *kardex.Report
	err    error

	gotFrom time.Time
	gotTo   time.Time
}

func (s *stubService) BuildKardexReport(_ context.Context, from, to time.Time) (*kardex.Report, error) {
	s.gotFrom, s.gotTo = from, to
	if s.err != nil {
		return nil, s.err
	}
	return s.report, nil
}

func newTestHandler(svc *stubService) http.Handler {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return web.NewHandler(svc, "", log)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestHandler(&stubService{}), "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
}

func TestKardexJSON(t *testing.T) {
	svc := &stubService{report: &kardex.Report{
		Filters: kardex.ReportFilters{From: "2023-05-01", To: "2023-05-31"},
	}}
	rec := get(t, newTestHandler(svc), "/api/reports/kardex?from=2023-05-01&to=2023-05-31")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	if got := svc.gotFrom.Format("2006-01-02"); got != "2023-05-01" {
		t.Errorf("from = %s", got)
	}
	// The closing bound covers the whole final day.
	if !svc.gotTo.After(time.Date(2023, 5, 31, 23, 0, 0, 0, time.UTC)) {
		t.Errorf("to = %s, want end of 2023-05-31", svc.gotTo)
	}

	var report kardex.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Filters.From != "2023-05-01" {
		t.Errorf("filters.from = %q", report.Filters.From)
	}
}

func TestKardexRejectsBadWindow(t *testing.T) {
	h := newTestHandler(&stubService{report: &kardex.Report{}})

	for _, path := range []string{
		"/api/reports/kardex",
		"/api/reports/kardex?from=2023-05-01",
		"/api/reports/kardex?from=05/01/2023&to=05/31/2023",
		"/api/reports/kardex?from=2023-05-31&to=2023-05-01",
	} {
		rec := get(t, h, path)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rec.Code)
		}
	}
}

func TestKardexConfigError(t *testing.T) {
	svc := &stubService{err: &kardex.ConfigError{Msg: "no company matched TORREFACAO"}}
	rec := get(t, newTestHandler(svc), "/api/reports/kardex?from=2023-05-01&to=2023-05-31")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var body struct {
		Code  string `json:"code"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != "CONFIG_ERROR" {
		t.Errorf("code = %q", body.Code)
	}
	if !strings.Contains(body.Error, "TORREFACAO") {
		t.Errorf("error = %q", body.Error)
	}
}

func TestKardexCSVDownload(t *testing.T) {
	svc := &stubService{report: &kardex.Report{
		Filters: kardex.ReportFilters{From: "2023-05-01", To: "2023-05-31"},
	}}
	rec := get(t, newTestHandler(svc), "/api/reports/kardex.csv?from=2023-05-01&to=2023-05-31")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "kardex-2023-05-01-2023-05-31.csv") {
		t.Errorf("content disposition = %q", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "tipo;data") {
		t.Errorf("body should start with the CSV header: %q", rec.Body.String()[:40])
	}
}

func TestKardexXLSXDownload(t *testing.T) {
	svc := &stubService{report: &kardex.Report{
		Filters: kardex.ReportFilters{From: "2023-05-01", To: "2023-05-31"},
	}}
	rec := get(t, newTestHandler(svc), "/api/reports/kardex.xlsx?from=2023-05-01&to=2023-05-31")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Body.Bytes(); len(got) < 2 || string(got[:2]) != "PK" {
		t.Errorf("body is not a zip archive")
	}
}

func TestRequestIDPropagated(t *testing.T) {
	rec := get(t, newTestHandler(&stubService{}), "/api/health")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
}
