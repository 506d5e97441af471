package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/marumbi/kahawa-api/internal/domain/entity"
	"github.com/marumbi/kahawa-api/pkg/pagination"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error)
	// IncrementBalance grows the materialized credit balance only if the result
	// stays within the customer's credit limit; it reports false when the guard
	// fails. The adjustment is a single conditional UPDATE, never read-modify-write.
	IncrementBalance(ctx context.Context, id uuid.UUID, amount int64) (bool, error)
	// DecrementBalance shrinks the materialized credit balance.
	DecrementBalance(ctx context.Context, id uuid.UUID, amount int64) error
	// SetBalance overwrites the materialized balance (used by reconciliation).
	SetBalance(ctx context.Context, id uuid.UUID, balance int64) error
}

// CreditTransactionRepository is the append-only store for customer credit
// movements. No update or delete exists; the balance is always re-derivable.
type CreditTransactionRepository interface {
	Create(ctx context.Context, tx *entity.CreditTransaction) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.CreditTransaction, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params *pagination.PaginationParams) ([]entity.CreditTransaction, int64, error)
	// NetBalance computes Σ credit − Σ payment for the customer from the log.
	NetBalance(ctx context.Context, customerID uuid.UUID) (int64, error)
}
