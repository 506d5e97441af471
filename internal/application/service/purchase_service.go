package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/marumbi/kahawa-api/internal/domain/entity"
	"github.com/marumbi/kahawa-api/internal/domain/enum"
	"github.com/marumbi/kahawa-api/internal/domain/repository"
	"github.com/marumbi/kahawa-api/pkg/apperror"
	"github.com/marumbi/kahawa-api/pkg/pagination"
	"github.com/marumbi/kahawa-api/pkg/utils"
)

// PurchaseService handles supplier deliveries. Each received line books stock in
// through the ledger and folds the delivery cost into the product's running
// average buying price. Purchases are permanent; a bad delivery is compensated
// with correction entries, never edited.
type PurchaseService struct {
	purchaseRepo     repository.PurchaseRepository
	purchaseItemRepo repository.PurchaseItemRepository
	productRepo      repository.ProductRepository
	supplierRepo     repository.SupplierRepository
	ledgerRepo       repository.LedgerRepository
	ledger           *LedgerService
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(
	purchaseRepo repository.PurchaseRepository,
	purchaseItemRepo repository.PurchaseItemRepository,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	ledgerRepo repository.LedgerRepository,
	ledger *LedgerService,
) *PurchaseService {
	return &PurchaseService{
		purchaseRepo:     purchaseRepo,
		purchaseItemRepo: purchaseItemRepo,
		productRepo:      productRepo,
		supplierRepo:     supplierRepo,
		ledgerRepo:       ledgerRepo,
		ledger:           ledger,
	}
}

// PurchaseItemInput represents one delivered line
type PurchaseItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	UnitCost  int64 // Cents
}

// CreatePurchaseInput represents the create purchase input
type CreatePurchaseInput struct {
	SupplierID      *uuid.UUID
	Status          enum.PurchaseStatus
	DiscountPercent int
	TaxPercent      int
	Items           []PurchaseItemInput
	CreatedBy       uuid.UUID
}

// CreatePurchase records a delivery: the purchase with its items, one stock-in
// ledger entry per tracked line, and the updated average cost per product.
func (s *PurchaseService) CreatePurchase(ctx context.Context, input *CreatePurchaseInput) (*entity.Purchase, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("Purchase has no items")
	}
	if input.DiscountPercent < 0 || input.DiscountPercent > 100 {
		return nil, apperror.NewBadRequestError("Discount percent must be between 0 and 100")
	}

	if input.SupplierID != nil {
		supplier, err := s.supplierRepo.GetByID(ctx, *input.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplier == nil {
			return nil, apperror.NewNotFoundError("Supplier")
		}
	}

	productIDs := make([]uuid.UUID, len(input.Items))
	for i, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, apperror.NewBadRequestError("Item quantity must be positive")
		}
		if item.UnitCost < 0 {
			return nil, apperror.NewBadRequestError("Item unit cost must not be negative")
		}
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	var subtotal int64
	items := make([]entity.PurchaseItem, 0, len(input.Items))
	for _, in := range input.Items {
		if _, exists := productMap[in.ProductID]; !exists {
			return nil, apperror.NewNotFoundError("Product")
		}
		lineTotal := in.UnitCost * int64(in.Quantity)
		subtotal += lineTotal
		items = append(items, entity.PurchaseItem{
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			UnitCost:  in.UnitCost,
			TotalCost: lineTotal,
		})
	}

	discountAmount := subtotal * int64(input.DiscountPercent) / 100
	taxAmount := (subtotal - discountAmount) * int64(input.TaxPercent) / 100
	total := subtotal - discountAmount + taxAmount

	purchase := &entity.Purchase{
		SupplierID:      input.SupplierID,
		PurchaseNo:      utils.GeneratePurchaseNo(),
		Status:          input.Status,
		Subtotal:        subtotal,
		DiscountPercent: input.DiscountPercent,
		DiscountAmount:  discountAmount,
		TaxPercent:      input.TaxPercent,
		TaxAmount:       taxAmount,
		TotalAmount:     total,
		CreatedBy:       input.CreatedBy,
	}

	if err := s.purchaseRepo.Create(ctx, purchase); err != nil {
		return nil, err
	}

	for i := range items {
		items[i].PurchaseID = purchase.ID
	}
	if err := s.purchaseItemRepo.CreateBatch(ctx, items); err != nil {
		return nil, err
	}

	purchaseID := purchase.ID
	for _, item := range items {
		product := productMap[item.ProductID]
		if !product.TracksInventory {
			continue
		}

		// Average cost is weighted over the stock held before this delivery.
		stockBefore, err := s.ledgerRepo.CurrentStock(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		newAvg := averageCost(stockBefore, product.BuyingPrice, item.Quantity, item.UnitCost)
		if newAvg != product.BuyingPrice {
			if err := s.productRepo.UpdateBuyingPrice(ctx, item.ProductID, newAvg); err != nil {
				return nil, err
			}
		}

		if _, err := s.ledger.RecordEntry(ctx, &RecordEntryInput{
			ProductID:       item.ProductID,
			QuantityIn:      item.Quantity,
			UnitPrice:       item.UnitCost,
			TransactionType: enum.LedgerTypePurchase,
			ReferenceType:   enum.ReferenceTypePurchase,
			ReferenceID:     &purchaseID,
			CreatedBy:       input.CreatedBy,
		}); err != nil {
			return nil, err
		}
	}

	return s.purchaseRepo.GetWithItems(ctx, purchase.ID)
}

// averageCost folds a delivery into the running weighted average unit cost.
// With nothing on hand the delivery cost simply becomes the new average.
func averageCost(stockBefore int, oldAvg int64, quantity int, unitCost int64) int64 {
	if stockBefore <= 0 {
		return unitCost
	}
	totalUnits := int64(stockBefore) + int64(quantity)
	return (int64(stockBefore)*oldAvg + int64(quantity)*unitCost) / totalUnits
}

// CorrectPurchase compensates a mistaken delivery: every stock-in entry booked
// for the purchase is reversed with a correction entry. The purchase record
// itself stays untouched.
func (s *PurchaseService) CorrectPurchase(ctx context.Context, purchaseID, createdBy uuid.UUID) error {
	purchase, err := s.purchaseRepo.GetByID(ctx, purchaseID)
	if err != nil {
		return err
	}
	if purchase == nil {
		return apperror.NewNotFoundError("Purchase")
	}

	entries, err := s.ledgerRepo.GetByReference(ctx, enum.ReferenceTypePurchase, purchaseID)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.TransactionType != enum.LedgerTypePurchase {
			continue
		}
		if _, err := s.ledger.Reverse(ctx, entry.ID, createdBy); err != nil {
			return err
		}
	}
	return nil
}

// GetPurchase retrieves a purchase with its items
func (s *PurchaseService) GetPurchase(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	purchase, err := s.purchaseRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, apperror.NewNotFoundError("Purchase")
	}
	return purchase, nil
}

// ListPurchases lists purchases with filtering
func (s *PurchaseService) ListPurchases(ctx context.Context, params *repository.PurchaseFilterParams) (*pagination.PaginatedResult[entity.Purchase], error) {
	purchases, total, err := s.purchaseRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(purchases, pag), nil
}
