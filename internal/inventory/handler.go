package inventory

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aums-erp/aums-erp/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.Pools)
	r.Get("/units", h.Units)
	r.Get("/units/{vin}", h.Unit)
}

func (h *Handler) Pools(w http.ResponseWriter, r *http.Request) {
	pools, err := h.service.Pools(r.Context())
	if err != nil {
		h.logger.Error("list stock pools", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"pools": pools})
}

func (h *Handler) Units(w http.ResponseWriter, r *http.Request) {
	units, err := h.service.Units(r.Context(), r.URL.Query().Get("sku"))
	if err != nil {
		h.logger.Error("list vehicle units", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"units": units})
}

func (h *Handler) Unit(w http.ResponseWriter, r *http.Request) {
	unit, err := h.service.UnitByVIN(r.Context(), chi.URLParam(r, "vin"))
	if err == ErrUnitNotFound {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("get vehicle unit", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"unit": unit})
}
