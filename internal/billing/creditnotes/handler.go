package creditnotes

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/aums-erp/aums-erp/internal/billing/invoices"
	"github.com/aums-erp/aums-erp/internal/billing/receipts"
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
	r.Post("/", h.Generate)
	r.Get("/{creditNoteID}", h.Get)
	r.Get("/{creditNoteID}/refunds", h.ListRefunds)
	r.Post("/{creditNoteID}/refunds", h.ProcessRefund)
}

type generateRequest struct {
	InvoiceID string `json:"invoice_id" validate:"required,uuid4"`
	Reason    string `json:"reason" validate:"required"`
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.validationError(w, err)
		return
	}
	invoiceID, err := uuid.Parse(req.InvoiceID)
	if err != nil {
		http.Error(w, "invalid invoice id", http.StatusBadRequest)
		return
	}
	cn, err := h.service.Generate(r.Context(), invoiceID, req.Reason)
	switch {
	case errors.Is(err, invoices.ErrInvoiceNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("generate credit note", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"credit_note": cn})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "creditNoteID"))
	if err != nil {
		http.Error(w, "invalid credit note id", http.StatusBadRequest)
		return
	}
	cn, err := h.service.Get(r.Context(), id)
	switch {
	case errors.Is(err, ErrCreditNoteNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("get credit note", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"credit_note": cn})
}

func (h *Handler) ListRefunds(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "creditNoteID"))
	if err != nil {
		http.Error(w, "invalid credit note id", http.StatusBadRequest)
		return
	}
	list, err := h.service.Refunds(r.Context(), id)
	if err != nil {
		h.logger.Error("list refunds", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"refunds": list})
}

type refundRequest struct {
	Amount int64  `json:"amount" validate:"required,gt=0"`
	Mode   string `json:"mode" validate:"required,oneof=CASH BANK UPI CHEQUE"`
}

func (h *Handler) ProcessRefund(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "creditNoteID"))
	if err != nil {
		http.Error(w, "invalid credit note id", http.StatusBadRequest)
		return
	}
	var req refundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.validationError(w, err)
		return
	}
	refund, err := h.service.ProcessRefund(r.Context(), id, req.Amount, receipts.PaymentMode(req.Mode))
	switch {
	case errors.Is(err, ErrCreditNoteNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrRefundExceedsCredit):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case err != nil:
		h.logger.Error("process refund", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"refund": refund})
}

func (h *Handler) validationError(w http.ResponseWriter, err error) {
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fieldErr := range verrs {
			fields[fieldErr.Field()] = fieldErr.Tag()
		}
	}
	httpx.JSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": fields})
}
