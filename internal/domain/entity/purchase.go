package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/marumbi/kahawa-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Purchase represents a supplier delivery. Purchases are permanent once created:
// no update or delete is ever issued against them; mistakes are compensated by
// correction ledger entries referencing the purchase.
type Purchase struct {
	ID              uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	SupplierID      *uuid.UUID          `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	PurchaseNo      string              `gorm:"size:100;unique;not null" json:"purchase_no"`
	Status          enum.PurchaseStatus `gorm:"default:0" json:"status"`
	Subtotal        int64               `gorm:"default:0" json:"-"` // Stored in cents
	DiscountPercent int                 `gorm:"default:0" json:"discount_percent"`
	DiscountAmount  int64               `gorm:"default:0" json:"-"` // Stored in cents
	TaxPercent      int                 `gorm:"default:0" json:"tax_percent"`
	TaxAmount       int64               `gorm:"default:0" json:"-"` // Stored, not exercised by business rules
	TotalAmount     int64               `gorm:"default:0" json:"-"` // Stored in cents
	CreatedBy       uuid.UUID           `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`

	// Relationships
	Supplier *Supplier      `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Items    []PurchaseItem `gorm:"foreignKey:PurchaseID" json:"items,omitempty"`
}

// MarshalJSON converts cent amounts to decimals for API responses
func (p Purchase) MarshalJSON() ([]byte, error) {
	type Alias Purchase
	return json.Marshal(&struct {
		Alias
		Subtotal       float64 `json:"subtotal"`
		DiscountAmount float64 `json:"discount_amount"`
		TaxAmount      float64 `json:"tax_amount"`
		TotalAmount    float64 `json:"total_amount"`
	}{
		Alias:          Alias(p),
		Subtotal:       float64(p.Subtotal) / 100,
		DiscountAmount: float64(p.DiscountAmount) / 100,
		TaxAmount:      float64(p.TaxAmount) / 100,
		TotalAmount:    float64(p.TotalAmount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new purchase
func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Purchase model
func (Purchase) TableName() string {
	return "purchases"
}

// PurchaseItem represents a line item in a purchase
type PurchaseItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PurchaseID uuid.UUID `gorm:"type:uuid;not null;index" json:"purchase_id"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	UnitCost   int64     `gorm:"not null" json:"-"` // Stored in cents
	TotalCost  int64     `gorm:"not null" json:"-"` // Stored in cents
	CreatedAt  time.Time `json:"created_at"`

	// Relationships
	Purchase Purchase `gorm:"foreignKey:PurchaseID" json:"-"`
	Product  Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// MarshalJSON converts cent amounts to decimals for API responses
func (pi PurchaseItem) MarshalJSON() ([]byte, error) {
	type Alias PurchaseItem
	return json.Marshal(&struct {
		Alias
		UnitCost  float64 `json:"unit_cost"`
		TotalCost float64 `json:"total_cost"`
	}{
		Alias:     Alias(pi),
		UnitCost:  float64(pi.UnitCost) / 100,
		TotalCost: float64(pi.TotalCost) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new purchase item
func (pi *PurchaseItem) BeforeCreate(tx *gorm.DB) error {
	if pi.ID == uuid.Nil {
		pi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PurchaseItem model
func (PurchaseItem) TableName() string {
	return "purchase_items"
}
