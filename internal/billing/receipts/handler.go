package receipts

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/aums-erp/aums-erp/internal/billing/invoices"
	"github.com/aums-erp/aums-erp/internal/platform/httpx"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.Record)
	r.Get("/invoice/{invoiceID}", h.ListByInvoice)
}

type recordRequest struct {
	InvoiceID  string `json:"invoice_id" validate:"required,uuid4"`
	Amount     int64  `json:"amount" validate:"required,gt=0"`
	Mode       string `json:"mode" validate:"required,oneof=CASH BANK UPI CHEQUE"`
	Reference  string `json:"reference"`
	ReceivedBy string `json:"received_by" validate:"required"`
}

func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		fields := make(map[string]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fieldErr := range verrs {
				fields[fieldErr.Field()] = fieldErr.Tag()
			}
		}
		httpx.JSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": fields})
		return
	}
	invoiceID, err := uuid.Parse(req.InvoiceID)
	if err != nil {
		http.Error(w, "invalid invoice id", http.StatusBadRequest)
		return
	}
	rcpt, inv, err := h.service.Record(r.Context(), invoiceID, req.Amount, PaymentMode(req.Mode), req.Reference, req.ReceivedBy)
	switch {
	case errors.Is(err, invoices.ErrInvoiceNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, ErrInvalidAmount):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case err != nil:
		h.logger.Error("record payment", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"receipt": rcpt, "invoice": inv})
}

func (h *Handler) ListByInvoice(w http.ResponseWriter, r *http.Request) {
	invoiceID, err := uuid.Parse(chi.URLParam(r, "invoiceID"))
	if err != nil {
		http.Error(w, "invalid invoice id", http.StatusBadRequest)
		return
	}
	list, err := h.service.ListByInvoice(r.Context(), invoiceID)
	if err != nil {
		h.logger.Error("list receipts", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"receipts": list})
}
