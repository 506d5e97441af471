package request

import (
	"github.com/google/uuid"
	"github.com/marumbi/kahawa-api/internal/domain/enum"
)

// CreateOrderRequest represents the create order request payload
type CreateOrderRequest struct {
	OrderType    enum.OrderType `json:"order_type"`
	TableNo      *string        `json:"table_no,omitempty"`
	CustomerID   *uuid.UUID     `json:"customer_id,omitempty"`
	CustomerName *string        `json:"customer_name,omitempty"`
}

// AddOrderItemRequest represents the add item request payload
type AddOrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

// UpdateDiscountRequest represents the discount update request payload
type UpdateDiscountRequest struct {
	DiscountPercent int `json:"discount_percent" binding:"gte=0,lte=100"`
}

// CompletePaymentRequest represents the payment settlement request payload.
// Amount is the money actually handed over, in major currency units.
type CompletePaymentRequest struct {
	Method enum.PaymentMethod `json:"method" binding:"required"`
	Amount float64            `json:"amount" binding:"gte=0"`
}

// PayCreditRequest represents a payment against an order's credit portion
type PayCreditRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}
