package accounts

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	chart  *Chart
	logger *slog.Logger
}

func NewHandler(logger *slog.Logger, chart *Chart) *Handler {
	return &Handler{logger: logger, chart: chart}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	type row struct {
		Code     string `json:"code"`
		Name     string `json:"name"`
		Type     string `json:"type"`
		Suspense bool   `json:"suspense,omitempty"`
	}
	accounts := h.chart.All()
	out := make([]row, 0, len(accounts))
	for _, acc := range accounts {
		out = append(out, row{Code: acc.Code, Name: acc.Name, Type: string(acc.Type), Suspense: acc.Suspense})
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"accounts": out}); err != nil {
		h.logger.Error("encode accounts", slog.Any("error", err))
	}
}
