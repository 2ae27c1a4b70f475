package reports

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"golang.org/x/sync/singleflight"

	"github.com/aums-erp/aums-erp/internal/platform/httpx"
)

// Handler serves the financial statement endpoints. Builds are
// singleflighted per report and range so a thundering herd after a cache
// bump folds into one ledger scan.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	rateLimit func(http.Handler) http.Handler
	group     singleflight.Group
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		rateLimit: httprate.LimitByIP(30, time.Minute),
	}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rateLimit)
		r.Get("/trial-balance", h.TrialBalance)
		r.Get("/profit-and-loss", h.ProfitAndLoss)
		r.Get("/balance-sheet", h.BalanceSheet)
		r.Get("/summary", h.Summary)
	})
}

func (h *Handler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "tb", func(ctx context.Context, from, to *time.Time) (interface{}, error) {
		return h.service.TrialBalance(ctx, from, to)
	})
}

func (h *Handler) ProfitAndLoss(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "pl", func(ctx context.Context, from, to *time.Time) (interface{}, error) {
		return h.service.ProfitAndLoss(ctx, from, to)
	})
}

func (h *Handler) BalanceSheet(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "bs", func(ctx context.Context, from, to *time.Time) (interface{}, error) {
		return h.service.BalanceSheet(ctx, from, to)
	})
}

// Summary returns the dashboard headline figures with amounts formatted
// for display.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "summary", func(ctx context.Context, from, to *time.Time) (interface{}, error) {
		tb, err := h.service.TrialBalance(ctx, from, to)
		if err != nil {
			return nil, err
		}
		pl, err := h.service.ProfitAndLoss(ctx, from, to)
		if err != nil {
			return nil, err
		}
		bs, err := h.service.BalanceSheet(ctx, from, to)
		if err != nil {
			return nil, err
		}
		return NewSummaryView(tb, pl, bs), nil
	})
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, report string, build func(context.Context, *time.Time, *time.Time) (interface{}, error)) {
	from, to, err := parseRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	key := report + ":" + rangeToken(from, to)
	resultChan := h.group.DoChan(key, func() (interface{}, error) {
		return build(r.Context(), from, to)
	})
	select {
	case <-r.Context().Done():
		http.Error(w, "request cancelled", http.StatusRequestTimeout)
	case res := <-resultChan:
		if res.Err != nil {
			h.logger.Error("build report", slog.String("report", report), slog.Any("error", res.Err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		httpx.JSON(w, http.StatusOK, res.Val)
	}
}

// parseRange reads optional from/to query params as YYYY-MM-DD dates.
// Both bounds are inclusive; to covers its whole day.
func parseRange(r *http.Request) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if raw := r.URL.Query().Get("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, nil, err
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	return from, to, nil
}
