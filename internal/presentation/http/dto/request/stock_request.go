package request

import "github.com/google/uuid"

// AdjustStockRequest represents a manual stock adjustment request payload.
// Exactly one of quantity_in/quantity_out must be positive; the adjustment
// lands as an append-only ledger entry, never an in-place edit.
type AdjustStockRequest struct {
	ProductID   uuid.UUID `json:"product_id" binding:"required"`
	QuantityIn  int       `json:"quantity_in" binding:"gte=0"`
	QuantityOut int       `json:"quantity_out" binding:"gte=0"`
	UnitPrice   float64   `json:"unit_price" binding:"gte=0"`
}
