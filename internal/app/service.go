package app

import (
	"context"
	"time"

	"github.com/borghilucas/fluitax/internal/kardex"
)

// ApplicationService is the single interface the HTTP adapter (and any
// future CLI) calls. Implementations contain no transport or display logic.
type ApplicationService interface {
	// BuildKardexReport reconstructs the consolidated raw-material ledger
	// from invoice history and windows it to [from, to]. The build is pure
	// after one bulk fetch; identical inputs yield identical reports.
	// Configuration problems (incomplete participant set) surface as a
	// *kardex.ConfigError.
	BuildKardexReport(ctx context.Context, from, to time.Time) (*kardex.Report, error)
}
