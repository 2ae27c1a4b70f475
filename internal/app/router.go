package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/aums-erp/aums-erp/internal/accounting/accounts"
	"github.com/aums-erp/aums-erp/internal/accounting/ledger"
	"github.com/aums-erp/aums-erp/internal/accounting/reports"
	"github.com/aums-erp/aums-erp/internal/billing/creditnotes"
	"github.com/aums-erp/aums-erp/internal/billing/invoices"
	"github.com/aums-erp/aums-erp/internal/billing/receipts"
	"github.com/aums-erp/aums-erp/internal/inventory"
	"github.com/aums-erp/aums-erp/internal/observability"
	"github.com/aums-erp/aums-erp/internal/sales/bookings"
	"github.com/aums-erp/aums-erp/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	AccountsHandler   *accounts.Handler
	LedgerHandler     *ledger.Handler
	ReportsHandler    *reports.Handler
	InventoryHandler  *inventory.Handler
	BookingsHandler   *bookings.Handler
	InvoicesHandler   *invoices.Handler
	ReceiptsHandler   *receipts.Handler
	CreditNoteHandler *creditnotes.Handler
	JobsHandler       *jobs.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	if params.Metrics != nil {
		r.Use(params.Metrics.Middleware)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/accounting", func(r chi.Router) {
		r.Route("/accounts", params.AccountsHandler.MountRoutes)
		r.Route("/ledger", params.LedgerHandler.MountRoutes)
		r.Route("/reports", params.ReportsHandler.MountRoutes)
	})

	r.Route("/inventory", params.InventoryHandler.MountRoutes)
	r.Route("/sales/bookings", params.BookingsHandler.MountRoutes)

	r.Route("/billing", func(r chi.Router) {
		r.Route("/invoices", params.InvoicesHandler.MountRoutes)
		r.Route("/receipts", params.ReceiptsHandler.MountRoutes)
		r.Route("/credit-notes", params.CreditNoteHandler.MountRoutes)
	})

	if params.JobsHandler != nil {
		r.Route("/jobs", params.JobsHandler.MountRoutes)
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
