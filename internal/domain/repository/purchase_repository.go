package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marumbi/kahawa-api/internal/domain/entity"
	"github.com/marumbi/kahawa-api/pkg/pagination"
)

// PurchaseRepository defines the interface for purchase data operations.
// Purchases are permanent: there is no update or delete. Corrections are issued
// as new correction ledger entries referencing the purchase.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Purchase, error)
	GetByPurchaseNo(ctx context.Context, purchaseNo string) (*entity.Purchase, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Purchase, error)
	List(ctx context.Context, params *PurchaseFilterParams) ([]entity.Purchase, int64, error)
}

// PurchaseFilterParams contains filtering parameters for purchase queries
type PurchaseFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	SupplierID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

// PurchaseItemRepository defines the interface for purchase line item operations
type PurchaseItemRepository interface {
	CreateBatch(ctx context.Context, items []entity.PurchaseItem) error
	GetByPurchaseID(ctx context.Context, purchaseID uuid.UUID) ([]entity.PurchaseItem, error)
}
