package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/marumbi/kahawa-api/internal/domain/enum"
	"gorm.io/gorm"
)

// LedgerEntry is one immutable record of a stock movement. Exactly one of
// QuantityIn/QuantityOut is positive. Entries are never updated or deleted;
// mistakes are compensated by correction entries referencing the original.
type LedgerEntry struct {
	ID              uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	ProductID       uuid.UUID          `gorm:"type:uuid;not null;index" json:"product_id"`
	QuantityIn      int                `gorm:"default:0" json:"quantity_in"`
	QuantityOut     int                `gorm:"default:0" json:"quantity_out"`
	UnitPrice       int64              `gorm:"default:0" json:"-"` // Price at time of entry, in cents
	TransactionType enum.LedgerType    `gorm:"size:20;not null;index" json:"transaction_type"`
	ReferenceType   enum.ReferenceType `gorm:"size:20" json:"reference_type,omitempty"`
	ReferenceID     *uuid.UUID         `gorm:"type:uuid;index" json:"reference_id,omitempty"`
	CreatedBy       uuid.UUID          `gorm:"type:uuid" json:"created_by"`
	CreatedAt       time.Time          `gorm:"index" json:"created_at"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

// Delta is the signed stock effect of the entry.
func (e *LedgerEntry) Delta() int {
	return e.QuantityIn - e.QuantityOut
}

// MarshalJSON converts the cent price to a decimal for API responses
func (e LedgerEntry) MarshalJSON() ([]byte, error) {
	type Alias LedgerEntry
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
	}{
		Alias:     Alias(e),
		UnitPrice: float64(e.UnitPrice) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new ledger entry
func (e *LedgerEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the LedgerEntry model
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
