package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/marumbi/kahawa-api/internal/domain/entity"
	"github.com/marumbi/kahawa-api/internal/domain/enum"
	"github.com/marumbi/kahawa-api/pkg/pagination"
)

// LedgerRepository is the append-only store for stock movements. It deliberately
// exposes no update or delete: reversals are new correction entries.
type LedgerRepository interface {
	// Create appends a single entry. This must be an atomic single-record insert.
	Create(ctx context.Context, entry *entity.LedgerEntry) error
	// GetByID retrieves a single entry
	GetByID(ctx context.Context, id uuid.UUID) (*entity.LedgerEntry, error)
	// GetByReference returns all entries pointing at the given record
	GetByReference(ctx context.Context, refType enum.ReferenceType, refID uuid.UUID) ([]entity.LedgerEntry, error)
	// CurrentStock folds every entry for the product into a single quantity
	CurrentStock(ctx context.Context, productID uuid.UUID) (int, error)
	// CurrentStockBatch computes stock for many products in one query
	CurrentStockBatch(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]int, error)
	// History pages through a product's entries newest-first using keyset
	// pagination, so pages stay stable while new entries are appended.
	History(ctx context.Context, productID uuid.UUID, params *pagination.CursorParams) ([]entity.LedgerEntry, error)
}
