package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/aums-erp/aums-erp/internal/inventory"
	"github.com/aums-erp/aums-erp/internal/platform/httpx"
	"github.com/aums-erp/aums-erp/internal/pricing"
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
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{bookingID}", h.Get)
	r.Post("/{bookingID}/soft-lock", h.SoftLock)
	r.Post("/{bookingID}/hard-lock", h.HardLock)
	r.Post("/{bookingID}/revoke-allotment", h.RevokeAllotment)
	r.Post("/{bookingID}/assign-vin", h.AssignVIN)
	r.Post("/{bookingID}/pdi", h.CompletePDI)
	r.Post("/{bookingID}/deliver", h.Deliver)
	r.Post("/{bookingID}/acknowledge-documents", h.AcknowledgeDocuments)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list bookings", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"bookings": list})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.bookingID(w, r)
	if !ok {
		return
	}
	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "get booking", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"booking": b})
}

type createRequest struct {
	SalesOrderID        string `json:"sales_order_id" validate:"required,uuid4"`
	SalesOrderDisplayID string `json:"sales_order_display_id" validate:"required"`
	CustomerID          string `json:"customer_id" validate:"required"`
	CustomerName        string `json:"customer_name" validate:"required"`
	Brand               string `json:"brand" validate:"required"`
	Model               string `json:"model" validate:"required"`
	Variant             string `json:"variant" validate:"required"`
	SKU                 string `json:"sku" validate:"required"`
	Price               int64  `json:"price" validate:"required,gt=0"`
	StateCode           string `json:"state_code" validate:"required,len=2"`
	RTOCode             string `json:"rto_code" validate:"required"`
	InsuranceRuleID     string `json:"insurance_rule_id"`
	Actor               string `json:"actor" validate:"required"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !h.decode(w, r, &req) {
		return
	}
	orderID, err := uuid.Parse(req.SalesOrderID)
	if err != nil {
		http.Error(w, "invalid sales order id", http.StatusBadRequest)
		return
	}
	b, err := h.service.Create(r.Context(), CreateInput{
		SalesOrderID:        orderID,
		SalesOrderDisplayID: req.SalesOrderDisplayID,
		CustomerID:          req.CustomerID,
		CustomerName:        req.CustomerName,
		Brand:               req.Brand,
		Model:               req.Model,
		Variant:             req.Variant,
		SKU:                 req.SKU,
		Price:               req.Price,
		StateCode:           req.StateCode,
		RTOCode:             req.RTOCode,
		InsuranceRuleID:     req.InsuranceRuleID,
		Actor:               req.Actor,
	})
	if err != nil {
		h.respondError(w, "create booking", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"booking": b})
}

type actorRequest struct {
	Actor string `json:"actor" validate:"required"`
}

func (h *Handler) SoftLock(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "soft lock", h.service.SoftLock)
}

func (h *Handler) HardLock(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "hard lock", h.service.HardLock)
}

func (h *Handler) RevokeAllotment(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "revoke allotment", h.service.RevokeAllotment)
}

type assignVINRequest struct {
	VIN   string `json:"vin" validate:"required"`
	Actor string `json:"actor" validate:"required"`
}

func (h *Handler) AssignVIN(w http.ResponseWriter, r *http.Request) {
	id, ok := h.bookingID(w, r)
	if !ok {
		return
	}
	var req assignVINRequest
	if !h.decode(w, r, &req) {
		return
	}
	b, err := h.service.AssignVIN(r.Context(), id, req.VIN, req.Actor)
	if err != nil {
		h.respondError(w, "assign vin", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"booking": b})
}

type pdiRequest struct {
	InspectorName string `json:"inspector_name" validate:"required"`
	OdoReading    string `json:"odo_reading" validate:"required"`
	Notes         string `json:"notes"`
}

func (h *Handler) CompletePDI(w http.ResponseWriter, r *http.Request) {
	id, ok := h.bookingID(w, r)
	if !ok {
		return
	}
	var req pdiRequest
	if !h.decode(w, r, &req) {
		return
	}
	b, err := h.service.CompletePDI(r.Context(), id, PDIInput{
		InspectorName: req.InspectorName,
		OdoReading:    req.OdoReading,
		Notes:         req.Notes,
	})
	if err != nil {
		h.respondError(w, "complete pdi", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"booking": b})
}

type deliverRequest struct {
	ReceiverName string `json:"receiver_name" validate:"required"`
	Notes        string `json:"notes"`
}

func (h *Handler) Deliver(w http.ResponseWriter, r *http.Request) {
	id, ok := h.bookingID(w, r)
	if !ok {
		return
	}
	var req deliverRequest
	if !h.decode(w, r, &req) {
		return
	}
	b, err := h.service.Deliver(r.Context(), id, DeliverInput{
		ReceiverName: req.ReceiverName,
		Notes:        req.Notes,
	})
	if err != nil {
		h.respondError(w, "deliver booking", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"booking": b})
}

type ackDocumentsRequest struct {
	InsurancePolicyNo string `json:"insurance_policy_no" validate:"required"`
	Actor             string `json:"actor" validate:"required"`
}

func (h *Handler) AcknowledgeDocuments(w http.ResponseWriter, r *http.Request) {
	id, ok := h.bookingID(w, r)
	if !ok {
		return
	}
	var req ackDocumentsRequest
	if !h.decode(w, r, &req) {
		return
	}
	b, err := h.service.AcknowledgeDocuments(r.Context(), id, req.InsurancePolicyNo, req.Actor)
	if err != nil {
		h.respondError(w, "acknowledge documents", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"booking": b})
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, name string, fn func(context.Context, uuid.UUID, string) (Booking, error)) {
	id, ok := h.bookingID(w, r)
	if !ok {
		return
	}
	var req actorRequest
	if !h.decode(w, r, &req) {
		return
	}
	b, err := fn(r.Context(), id, req.Actor)
	if err != nil {
		h.respondError(w, name, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"booking": b})
}

func (h *Handler) bookingID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "bookingID"))
	if err != nil {
		http.Error(w, "invalid booking id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return false
	}
	if err := h.validator.Struct(dest); err != nil {
		fields := make(map[string]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fieldErr := range verrs {
				fields[fieldErr.Field()] = fieldErr.Tag()
			}
		}
		httpx.JSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": fields})
		return false
	}
	return true
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrBookingNotFound), errors.Is(err, inventory.ErrUnitNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrAllotmentState),
		errors.Is(err, ErrNotHardLocked),
		errors.Is(err, ErrVINAlreadyAssigned),
		errors.Is(err, ErrNoVIN),
		errors.Is(err, ErrPDIAlreadyPassed),
		errors.Is(err, ErrPDINotPassed),
		errors.Is(err, ErrAlreadyDelivered),
		errors.Is(err, ErrNotDelivered),
		errors.Is(err, ErrDocsAcknowledged),
		errors.Is(err, inventory.ErrInsufficientStock),
		errors.Is(err, inventory.ErrUnitUnavailable),
		errors.Is(err, pricing.ErrUnknownState),
		errors.Is(err, pricing.ErrUnknownInsuranceRule),
		errors.Is(err, pricing.ErrInvalidExShowroom):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		h.logger.Error(op, slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
