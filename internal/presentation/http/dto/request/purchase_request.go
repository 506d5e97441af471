package request

import (
	"github.com/google/uuid"
	"github.com/marumbi/kahawa-api/internal/domain/enum"
)

// PurchaseItemRequest represents one line of a purchase request payload
type PurchaseItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
	UnitCost  float64   `json:"unit_cost" binding:"gte=0"`
}

// CreatePurchaseRequest represents the create purchase request payload
type CreatePurchaseRequest struct {
	SupplierID      *uuid.UUID            `json:"supplier_id,omitempty"`
	Status          enum.PurchaseStatus   `json:"status"`
	DiscountPercent int                   `json:"discount_percent" binding:"gte=0,lte=100"`
	TaxPercent      int                   `json:"tax_percent" binding:"gte=0,lte=100"`
	Items           []PurchaseItemRequest `json:"items" binding:"required,min=1,dive"`
}
