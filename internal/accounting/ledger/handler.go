package ledger

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/aums-erp/aums-erp/internal/accounting/shared"
	"github.com/aums-erp/aums-erp/internal/platform/httpx"
)

type Handler struct {
	service   *Service
	logger    *slog.Logger
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.PostJournal)
	r.Get("/party/{partyID}", h.Party)
	r.Get("/reference/{referenceID}", h.Reference)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Entries(r.Context())
	if err != nil {
		h.logger.Error("list ledger", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (h *Handler) Party(w http.ResponseWriter, r *http.Request) {
	partyID := chi.URLParam(r, "partyID")
	entries, err := h.service.PartyLedger(r.Context(), partyID)
	if err != nil {
		h.logger.Error("party ledger", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"party_id": partyID, "entries": entries})
}

func (h *Handler) Reference(w http.ResponseWriter, r *http.Request) {
	referenceID, err := uuid.Parse(chi.URLParam(r, "referenceID"))
	if err != nil {
		http.Error(w, "invalid reference id", http.StatusBadRequest)
		return
	}
	entries, err := h.service.EntriesByReference(r.Context(), referenceID)
	if err != nil {
		h.logger.Error("reference ledger", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"reference_id": referenceID, "entries": entries})
}

type postJournalRequest struct {
	ReferenceID string `json:"reference_id" validate:"required,uuid4"`
	PartyType   string `json:"party_type" validate:"required,oneof=CUSTOMER TAX_AUTHORITY"`
	PartyID     string `json:"party_id" validate:"required"`
	PartyName   string `json:"party_name" validate:"required"`
	Description string `json:"description" validate:"required"`
	DebitCode   string `json:"debit_code" validate:"required"`
	CreditCode  string `json:"credit_code" validate:"required"`
	Amount      int64  `json:"amount" validate:"required,gt=0"`
}

// PostJournal records a manual adjustment entry.
func (h *Handler) PostJournal(w http.ResponseWriter, r *http.Request) {
	var req postJournalRequest
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
	referenceID, err := uuid.Parse(req.ReferenceID)
	if err != nil {
		http.Error(w, "invalid reference id", http.StatusBadRequest)
		return
	}
	entry, err := h.service.Post(r.Context(), PostingInput{
		TransactionType: TransactionJournal,
		ReferenceID:     referenceID,
		PartyType:       PartyType(req.PartyType),
		PartyID:         req.PartyID,
		PartyName:       req.PartyName,
		Description:     req.Description,
		DebitCode:       req.DebitCode,
		CreditCode:      req.CreditCode,
		Amount:          req.Amount,
	})
	switch {
	case errors.Is(err, shared.ErrUnknownAccount),
		errors.Is(err, shared.ErrInvalidAmount),
		errors.Is(err, shared.ErrSameAccount),
		errors.Is(err, shared.ErrEmptyReference):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case err != nil:
		h.logger.Error("post journal", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if entry == nil {
		// Duplicate absorbed; report the idempotent outcome.
		httpx.JSON(w, http.StatusOK, map[string]any{"duplicate": true})
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"entry": entry})
}
