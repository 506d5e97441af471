package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/marumbi/kahawa-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Customer represents a customer who may buy on credit. CreditBalance is a
// materialized running total of the customer's credit transactions; it is not
// independently authoritative and can always be reconciled from the log.
type Customer struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Phone         *string        `gorm:"size:50" json:"phone,omitempty"`
	Email         *string        `gorm:"size:255" json:"email,omitempty"`
	Address       *string        `gorm:"type:text" json:"address,omitempty"`
	CreditLimit   int64          `gorm:"default:0" json:"-"` // Stored in cents
	CreditBalance int64          `gorm:"default:0" json:"-"` // Amount currently owed, in cents
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Orders       []Order             `gorm:"foreignKey:CustomerID" json:"-"`
	Transactions []CreditTransaction `gorm:"foreignKey:CustomerID" json:"-"`
}

// AvailableCredit is the headroom left under the customer's credit limit.
func (c *Customer) AvailableCredit() int64 {
	return c.CreditLimit - c.CreditBalance
}

// MarshalJSON converts cent amounts to decimals for API responses
func (c Customer) MarshalJSON() ([]byte, error) {
	type Alias Customer
	return json.Marshal(&struct {
		Alias
		CreditLimit   float64 `json:"credit_limit"`
		CreditBalance float64 `json:"credit_balance"`
	}{
		Alias:         Alias(c),
		CreditLimit:   float64(c.CreditLimit) / 100,
		CreditBalance: float64(c.CreditBalance) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// CreditTransaction is one immutable movement on a customer's credit ledger:
// a credit grant grows the balance owed, a payment shrinks it.
type CreditTransaction struct {
	ID              uuid.UUID                  `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID      uuid.UUID                  `gorm:"type:uuid;not null;index" json:"customer_id"`
	OrderID         *uuid.UUID                 `gorm:"type:uuid;index" json:"order_id,omitempty"`
	TransactionType enum.CreditTransactionType `gorm:"size:20;not null" json:"transaction_type"`
	Amount          int64                      `gorm:"not null" json:"-"` // Stored in cents
	CreatedBy       uuid.UUID                  `gorm:"type:uuid" json:"created_by"`
	CreatedAt       time.Time                  `gorm:"index" json:"created_at"`

	// Relationships
	Customer Customer `gorm:"foreignKey:CustomerID" json:"-"`
}

// MarshalJSON converts the cent amount to a decimal for API responses
func (t CreditTransaction) MarshalJSON() ([]byte, error) {
	type Alias CreditTransaction
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(t),
		Amount: float64(t.Amount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new credit transaction
func (t *CreditTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CreditTransaction model
func (CreditTransaction) TableName() string {
	return "credit_transactions"
}
