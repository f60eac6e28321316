package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/borghilucas/fluitax/internal/app"
	"github.com/borghilucas/fluitax/internal/export"
	"github.com/borghilucas/fluitax/internal/kardex"
)

const dateLayout = "2006-01-02"

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc      app.ApplicationService
	log      *logrus.Logger
	validate *validator.Validate
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins string, log *logrus.Logger) http.Handler {
	h := &Handler{
		svc:      svc,
		log:      log,
		validate: validator.New(),
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(log))
	r.Use(Recoverer(log))
	r.Use(CORS(allowedOrigins))

	r.Get("/api/health", h.health)
	r.Get("/api/reports/kardex", h.kardexJSON)
	r.Get("/api/reports/kardex.csv", h.kardexCSV)
	r.Get("/api/reports/kardex.xlsx", h.kardexXLSX)

	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// reportQuery carries the window parameters of a report request.
type reportQuery struct {
	From string `validate:"required,datetime=2006-01-02"`
	To   string `validate:"required,datetime=2006-01-02"`
}

// parseWindow validates from/to query parameters. On failure it writes the
// error response and returns ok=false.
func (h *Handler) parseWindow(w http.ResponseWriter, r *http.Request) (from, to time.Time, ok bool) {
	q := reportQuery{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}
	if err := h.validate.Struct(q); err != nil {
		writeError(w, r, "from and to must be YYYY-MM-DD dates", "BAD_REQUEST", http.StatusBadRequest)
		return from, to, false
	}

	from, _ = time.Parse(dateLayout, q.From)
	to, _ = time.Parse(dateLayout, q.To)
	if to.Before(from) {
		writeError(w, r, "to must not precede from", "BAD_REQUEST", http.StatusBadRequest)
		return from, to, false
	}
	// End of the closing day, so same-day movements are included.
	to = to.Add(24*time.Hour - time.Nanosecond)
	return from, to, true
}

// buildReport runs the consolidation for the requested window. Configuration
// problems are the caller's to fix and map to 422; everything else is a 500.
func (h *Handler) buildReport(w http.ResponseWriter, r *http.Request) (*kardex.Report, bool) {
	from, to, ok := h.parseWindow(w, r)
	if !ok {
		return nil, false
	}

	report, err := h.svc.BuildKardexReport(r.Context(), from, to)
	if err != nil {
		var cfgErr *kardex.ConfigError
		if errors.As(err, &cfgErr) {
			writeError(w, r, cfgErr.Error(), "CONFIG_ERROR", http.StatusUnprocessableEntity)
			return nil, false
		}
		h.log.WithError(err).Error("kardex report failed")
		writeError(w, r, "failed to build report", "INTERNAL_ERROR", http.StatusInternalServerError)
		return nil, false
	}
	return report, true
}

// kardexJSON handles GET /api/reports/kardex.
func (h *Handler) kardexJSON(w http.ResponseWriter, r *http.Request) {
	report, ok := h.buildReport(w, r)
	if !ok {
		return
	}
	writeJSON(w, report)
}

// kardexCSV handles GET /api/reports/kardex.csv.
func (h *Handler) kardexCSV(w http.ResponseWriter, r *http.Request) {
	report, ok := h.buildReport(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", downloadName("csv", report))
	if err := export.WriteCSV(w, report); err != nil {
		h.log.WithError(err).Error("csv render failed")
	}
}

// kardexXLSX handles GET /api/reports/kardex.xlsx.
func (h *Handler) kardexXLSX(w http.ResponseWriter, r *http.Request) {
	report, ok := h.buildReport(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", downloadName("xlsx", report))
	if err := export.WriteXLSX(w, report); err != nil {
		h.log.WithError(err).Error("xlsx render failed")
	}
}

func downloadName(ext string, report *kardex.Report) string {
	return fmt.Sprintf(`attachment; filename="kardex-%s-%s.%s"`,
		report.Filters.From, report.Filters.To, ext)
}
