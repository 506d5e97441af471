package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marumbi/kahawa-api/internal/domain/entity"
	"github.com/marumbi/kahawa-api/internal/domain/enum"
	"github.com/marumbi/kahawa-api/internal/domain/repository"
	"github.com/marumbi/kahawa-api/pkg/apperror"
	"github.com/marumbi/kahawa-api/pkg/pagination"
)

// LedgerService owns the append-only inventory ledger. All stock movements in
// the system flow through RecordEntry; stock on hand is never stored anywhere,
// only folded from the entries.
type LedgerService struct {
	ledgerRepo  repository.LedgerRepository
	productRepo repository.ProductRepository
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	ledgerRepo repository.LedgerRepository,
	productRepo repository.ProductRepository,
) *LedgerService {
	return &LedgerService{
		ledgerRepo:  ledgerRepo,
		productRepo: productRepo,
	}
}

// RecordEntryInput represents a single stock movement to append
type RecordEntryInput struct {
	ProductID       uuid.UUID
	QuantityIn      int
	QuantityOut     int
	UnitPrice       int64
	TransactionType enum.LedgerType
	ReferenceType   enum.ReferenceType
	ReferenceID     *uuid.UUID
	CreatedBy       uuid.UUID
}

// RecordEntry validates and appends one ledger entry. Exactly one of
// QuantityIn/QuantityOut must be positive, and an outflow may never push the
// folded stock below zero.
func (s *LedgerService) RecordEntry(ctx context.Context, input *RecordEntryInput) (*entity.LedgerEntry, error) {
	if !input.TransactionType.IsValid() {
		return nil, apperror.NewBadRequestError("Unknown ledger transaction type")
	}

	if input.QuantityIn < 0 || input.QuantityOut < 0 {
		return nil, apperror.NewBadRequestError("Quantities must not be negative")
	}
	if (input.QuantityIn > 0) == (input.QuantityOut > 0) {
		return nil, apperror.NewBadRequestError("Exactly one of quantity_in and quantity_out must be positive")
	}

	product, err := s.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if input.QuantityOut > 0 {
		stock, err := s.ledgerRepo.CurrentStock(ctx, input.ProductID)
		if err != nil {
			return nil, err
		}
		if input.QuantityOut > stock {
			return nil, apperror.ErrInsufficientStock
		}
	}

	entry := &entity.LedgerEntry{
		ProductID:       input.ProductID,
		QuantityIn:      input.QuantityIn,
		QuantityOut:     input.QuantityOut,
		UnitPrice:       input.UnitPrice,
		TransactionType: input.TransactionType,
		ReferenceType:   input.ReferenceType,
		ReferenceID:     input.ReferenceID,
		CreatedBy:       input.CreatedBy,
	}

	if err := s.ledgerRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Reverse appends a correction entry that exactly compensates an earlier entry.
// The original is never touched.
func (s *LedgerService) Reverse(ctx context.Context, entryID, createdBy uuid.UUID) (*entity.LedgerEntry, error) {
	original, err := s.ledgerRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, apperror.NewNotFoundError("Ledger entry")
	}

	refID := original.ID
	return s.RecordEntry(ctx, &RecordEntryInput{
		ProductID:       original.ProductID,
		QuantityIn:      original.QuantityOut,
		QuantityOut:     original.QuantityIn,
		UnitPrice:       original.UnitPrice,
		TransactionType: enum.LedgerTypeCorrection,
		ReferenceType:   enum.ReferenceTypeLedgerEntry,
		ReferenceID:     &refID,
		CreatedBy:       createdBy,
	})
}

// CurrentStock returns the folded stock for one product
func (s *LedgerService) CurrentStock(ctx context.Context, productID uuid.UUID) (int, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, apperror.NewNotFoundError("Product")
	}
	return s.ledgerRepo.CurrentStock(ctx, productID)
}

// CurrentStockBatch returns folded stock for many products at once
func (s *LedgerService) CurrentStockBatch(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	return s.ledgerRepo.CurrentStockBatch(ctx, productIDs)
}

// History pages through a product's ledger entries newest-first
func (s *LedgerService) History(ctx context.Context, productID uuid.UUID, params *pagination.CursorParams) (*pagination.CursorPaginatedResult[entity.LedgerEntry], error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	entries, err := s.ledgerRepo.History(ctx, productID, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(entries, params.Limit,
		func(e entity.LedgerEntry) string { return e.ID.String() },
		func(e entity.LedgerEntry) time.Time { return e.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}
