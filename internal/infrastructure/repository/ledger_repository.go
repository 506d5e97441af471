package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/marumbi/kahawa-api/internal/domain/entity"
	"github.com/marumbi/kahawa-api/internal/domain/enum"
	domainRepo "github.com/marumbi/kahawa-api/internal/domain/repository"
	"github.com/marumbi/kahawa-api/pkg/pagination"
	"gorm.io/gorm"
)

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *gorm.DB) domainRepo.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Create(ctx context.Context, entry *entity.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ledgerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.LedgerEntry, error) {
	var entry entity.LedgerEntry
	err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &entry, err
}

func (r *ledgerRepository) GetByReference(ctx context.Context, refType enum.ReferenceType, refID uuid.UUID) ([]entity.LedgerEntry, error) {
	var entries []entity.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", refType, refID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	return entries, err
}

// CurrentStock folds the whole ledger for the product into one quantity.
// The sum is the only source of truth for stock on hand.
func (r *ledgerRepository) CurrentStock(ctx context.Context, productID uuid.UUID) (int, error) {
	var stock int
	err := r.db.WithContext(ctx).Model(&entity.LedgerEntry{}).
		Select("COALESCE(SUM(quantity_in - quantity_out), 0)").
		Where("product_id = ?", productID).
		Scan(&stock).Error
	return stock, err
}

func (r *ledgerRepository) CurrentStockBatch(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	stocks := make(map[uuid.UUID]int, len(productIDs))
	if len(productIDs) == 0 {
		return stocks, nil
	}

	type row struct {
		ProductID uuid.UUID
		Stock     int
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&entity.LedgerEntry{}).
		Select("product_id, COALESCE(SUM(quantity_in - quantity_out), 0) as stock").
		Where("product_id IN ?", productIDs).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	// Products with no entries yet simply stay at zero.
	for _, id := range productIDs {
		stocks[id] = 0
	}
	for _, rw := range rows {
		stocks[rw.ProductID] = rw.Stock
	}
	return stocks, nil
}

// History returns entries newest-first using cursor-based pagination
func (r *ledgerRepository) History(ctx context.Context, productID uuid.UUID, params *pagination.CursorParams) ([]entity.LedgerEntry, error) {
	var entries []entity.LedgerEntry

	params.Validate()
	query := r.db.WithContext(ctx).Model(&entity.LedgerEntry{}).
		Where("product_id = ?", productID)

	cursor, err := params.DecodeCursor()
	if err != nil {
		return nil, err
	}

	if cursor != nil {
		if params.Direction == pagination.CursorDirectionNext {
			query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		} else {
			query = query.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
		}
	}

	err = query.Limit(params.Limit + 1).
		Order("created_at DESC, id DESC").
		Find(&entries).Error

	return entries, err
}
