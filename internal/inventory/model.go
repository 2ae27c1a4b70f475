package inventory

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrPoolNotFound      = errors.New("inventory: stock pool not found")
	ErrInsufficientStock = errors.New("inventory: not enough stock")
	ErrUnitNotFound      = errors.New("inventory: vehicle unit not found")
	ErrUnitUnavailable   = errors.New("inventory: vehicle unit not available")
	ErrInvalidQuantity   = errors.New("inventory: quantity must be positive")
)

// StockPool tracks per-SKU counts through the booking funnel.
// Available + Reserved + Allotted == TotalStock at all times.
type StockPool struct {
	SKU         string    `json:"sku"`
	Brand       string    `json:"brand"`
	Model       string    `json:"model"`
	Variant     string    `json:"variant"`
	Color       string    `json:"color"`
	TotalStock  int       `json:"total_stock"`
	Reserved    int       `json:"reserved"`
	Allotted    int       `json:"allotted"`
	Available   int       `json:"available"`
	LastUpdated time.Time `json:"last_updated"`
}

// UnitStatus tracks a physical vehicle through assignment and handover.
type UnitStatus string

const (
	UnitAvailable UnitStatus = "AVAILABLE"
	UnitAssigned  UnitStatus = "ASSIGNED"
	UnitDelivered UnitStatus = "DELIVERED"
)

// VehicleUnit is one physical vehicle identified by its VIN.
type VehicleUnit struct {
	ID           uuid.UUID  `json:"id"`
	VIN          string     `json:"vin"`
	SKU          string     `json:"sku"`
	Status       UnitStatus `json:"status"`
	EngineNumber string     `json:"engine_number"`
	Location     string     `json:"location"`
	InwardDate   time.Time  `json:"inward_date"`
	BookingID    *uuid.UUID `json:"booking_id,omitempty"`
	AssignedAt   *time.Time `json:"assigned_at,omitempty"`
}
