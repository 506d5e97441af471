package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/marumbi/kahawa-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Order represents a sale in progress or settled. Subtotal, discount and total
// are materialized from the line items and always recomputable from them;
// paid_amount and credit_amount track settlement.
type Order struct {
	ID              uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	OrderNo         string             `gorm:"size:100;unique;not null" json:"order_no"`
	OrderType       enum.OrderType     `gorm:"default:0" json:"order_type"`
	TableNo         *string            `gorm:"size:20" json:"table_no,omitempty"`
	Status          enum.OrderStatus   `gorm:"default:0;index" json:"status"`
	PaymentStatus   enum.PaymentStatus `gorm:"default:0;index" json:"payment_status"`
	PaymentMethod   enum.PaymentMethod `gorm:"size:20" json:"payment_method,omitempty"`
	Subtotal        int64              `gorm:"default:0" json:"-"` // Stored in cents
	DiscountPercent int                `gorm:"default:0" json:"discount_percent"`
	DiscountAmount  int64              `gorm:"default:0" json:"-"` // Stored in cents
	TotalAmount     int64              `gorm:"default:0" json:"-"` // Stored in cents
	PaidAmount      int64              `gorm:"default:0" json:"-"` // Stored in cents
	CreditAmount    int64              `gorm:"default:0" json:"-"` // Outstanding credit, in cents
	CustomerID      *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	CustomerName    *string            `gorm:"size:255" json:"customer_name,omitempty"`
	CreatedBy       uuid.UUID          `gorm:"type:uuid;not null;index" json:"created_by"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	DeletedAt       gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Customer *Customer   `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// Editable reports whether items and discount may still change: only pending
// orders that are not fully paid accept mutations.
func (o *Order) Editable() bool {
	return o.Status == enum.OrderStatusPending && o.PaymentStatus != enum.PaymentStatusPaid
}

// MarshalJSON converts cent amounts to decimals for API responses
func (o Order) MarshalJSON() ([]byte, error) {
	type Alias Order
	return json.Marshal(&struct {
		Alias
		Subtotal       float64 `json:"subtotal"`
		DiscountAmount float64 `json:"discount_amount"`
		TotalAmount    float64 `json:"total_amount"`
		PaidAmount     float64 `json:"paid_amount"`
		CreditAmount   float64 `json:"credit_amount"`
	}{
		Alias:          Alias(o),
		Subtotal:       float64(o.Subtotal) / 100,
		DiscountAmount: float64(o.DiscountAmount) / 100,
		TotalAmount:    float64(o.TotalAmount) / 100,
		PaidAmount:     float64(o.PaidAmount) / 100,
		CreditAmount:   float64(o.CreditAmount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem represents a line item in an order. The product name and unit price
// are snapshots taken when the item was added.
type OrderItem struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	OrderID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName string         `gorm:"size:255;not null" json:"product_name"`
	Quantity    int            `gorm:"not null" json:"quantity"`
	UnitPrice   int64          `gorm:"not null" json:"-"` // Stored in cents
	TotalPrice  int64          `gorm:"not null" json:"-"` // Stored in cents
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

// MarshalJSON converts cent amounts to decimals for API responses
func (oi OrderItem) MarshalJSON() ([]byte, error) {
	type Alias OrderItem
	return json.Marshal(&struct {
		Alias
		UnitPrice  float64 `json:"unit_price"`
		TotalPrice float64 `json:"total_price"`
	}{
		Alias:      Alias(oi),
		UnitPrice:  float64(oi.UnitPrice) / 100,
		TotalPrice: float64(oi.TotalPrice) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new order item
func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == uuid.Nil {
		oi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
