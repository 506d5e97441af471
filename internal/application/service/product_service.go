package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/marumbi/kahawa-api/internal/domain/entity"
	"github.com/marumbi/kahawa-api/internal/domain/repository"
	"github.com/marumbi/kahawa-api/pkg/apperror"
	"github.com/marumbi/kahawa-api/pkg/pagination"
	"github.com/marumbi/kahawa-api/pkg/utils"
)

// ProductService handles catalog operations. Stock figures attached to products
// here are always folded from the ledger at read time.
type ProductService struct {
	productRepo repository.ProductRepository
	ledgerRepo  repository.LedgerRepository
}

// NewProductService creates a new product service
func NewProductService(
	productRepo repository.ProductRepository,
	ledgerRepo repository.LedgerRepository,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		ledgerRepo:  ledgerRepo,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Name            string
	CategoryID      *uuid.UUID
	Code            string
	SellingPrice    int64 // Cents
	TracksInventory bool
	StockAlert      int
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if input.SellingPrice < 0 {
		return nil, apperror.NewBadRequestError("Selling price must not be negative")
	}
	if input.StockAlert < 0 {
		return nil, apperror.NewBadRequestError("Stock alert must not be negative")
	}

	slug := utils.Slugify(input.Name)
	existing, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A product with this name already exists")
	}

	code := input.Code
	if code == "" {
		code = utils.GenerateProductCode()
	} else {
		existing, err := s.productRepo.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("A product with this code already exists")
		}
	}

	product := &entity.Product{
		Name:            input.Name,
		Slug:            slug,
		Code:            code,
		CategoryID:      input.CategoryID,
		SellingPrice:    input.SellingPrice,
		TracksInventory: input.TracksInventory,
		StockAlert:      input.StockAlert,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, product.ID)
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	Name            *string
	CategoryID      *uuid.UUID
	SellingPrice    *int64
	TracksInventory *bool
	StockAlert      *int
}

// UpdateProduct updates a product's details
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if input.Name != nil && *input.Name != product.Name {
		slug := utils.Slugify(*input.Name)
		existing, err := s.productRepo.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != product.ID {
			return nil, apperror.NewConflictError("A product with this name already exists")
		}
		product.Name = *input.Name
		product.Slug = slug
	}
	if input.CategoryID != nil {
		product.CategoryID = input.CategoryID
	}
	if input.SellingPrice != nil {
		if *input.SellingPrice < 0 {
			return nil, apperror.NewBadRequestError("Selling price must not be negative")
		}
		product.SellingPrice = *input.SellingPrice
	}
	if input.TracksInventory != nil {
		product.TracksInventory = *input.TracksInventory
	}
	if input.StockAlert != nil {
		if *input.StockAlert < 0 {
			return nil, apperror.NewBadRequestError("Stock alert must not be negative")
		}
		product.StockAlert = *input.StockAlert
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, product.ID)
}

// ProductWithStock pairs a product with its ledger-derived stock
type ProductWithStock struct {
	entity.Product
	CurrentStock int `json:"current_stock"`
}

// GetProduct retrieves a product together with its folded stock
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductWithStock, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	stock := 0
	if product.TracksInventory {
		stock, err = s.ledgerRepo.CurrentStock(ctx, id)
		if err != nil {
			return nil, err
		}
	}
	return &ProductWithStock{Product: *product, CurrentStock: stock}, nil
}

// DeleteProduct soft-deletes a product. Its ledger entries remain untouched.
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}
	return s.productRepo.Delete(ctx, id)
}

// ListProducts lists products with their folded stock attached
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[ProductWithStock], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	stocks, err := s.ledgerRepo.CurrentStockBatch(ctx, ids)
	if err != nil {
		return nil, err
	}

	withStock := make([]ProductWithStock, len(products))
	for i, p := range products {
		withStock[i] = ProductWithStock{Product: p, CurrentStock: stocks[p.ID]}
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(withStock, pag), nil
}
