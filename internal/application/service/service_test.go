package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/marumbi/kahawa-api/internal/application/service"
	"github.com/marumbi/kahawa-api/internal/domain/entity"
	"github.com/marumbi/kahawa-api/internal/domain/enum"
	"github.com/marumbi/kahawa-api/internal/domain/repository"
	"github.com/marumbi/kahawa-api/internal/infrastructure/database"
	infra "github.com/marumbi/kahawa-api/internal/infrastructure/repository"
	"github.com/marumbi/kahawa-api/pkg/events"
	"github.com/marumbi/kahawa-api/pkg/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory database per test. The shared cache keeps
// the database alive across the connections gorm pools.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// testEnv wires real repositories and services against the test database
type testEnv struct {
	db  *gorm.DB
	bus *events.Bus

	ledgerRepo   repository.LedgerRepository
	customerRepo repository.CustomerRepository
	creditTxRepo repository.CreditTransactionRepository
	orderRepo    repository.OrderRepository

	ledger    *service.LedgerService
	orders    *service.OrderService
	purchases *service.PurchaseService
	customers *service.CustomerService
	products  *service.ProductService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	bus := events.NewBus()

	productRepo := infra.NewProductRepository(db)
	ledgerRepo := infra.NewLedgerRepository(db)
	customerRepo := infra.NewCustomerRepository(db)
	creditTxRepo := infra.NewCreditTransactionRepository(db)
	orderRepo := infra.NewOrderRepository(db)
	orderItemRepo := infra.NewOrderItemRepository(db)
	supplierRepo := infra.NewSupplierRepository(db)
	purchaseRepo := infra.NewPurchaseRepository(db)
	purchaseItemRepo := infra.NewPurchaseItemRepository(db)

	ledgerSvc := service.NewLedgerService(ledgerRepo, productRepo)

	return &testEnv{
		db:           db,
		bus:          bus,
		ledgerRepo:   ledgerRepo,
		customerRepo: customerRepo,
		creditTxRepo: creditTxRepo,
		orderRepo:    orderRepo,
		ledger:       ledgerSvc,
		orders:       service.NewOrderService(orderRepo, orderItemRepo, productRepo, customerRepo, creditTxRepo, ledgerSvc, bus),
		purchases:    service.NewPurchaseService(purchaseRepo, purchaseItemRepo, productRepo, supplierRepo, ledgerRepo, ledgerSvc),
		customers:    service.NewCustomerService(customerRepo, creditTxRepo),
		products:     service.NewProductService(productRepo, ledgerRepo),
	}
}

// createTrackedProduct creates a product in a countable category, so its sales
// and purchases flow through the inventory ledger.
func (e *testEnv) createTrackedProduct(t *testing.T, name string, sellingPrice int64) *entity.Product {
	t.Helper()

	category := &entity.Category{
		Name:      name + " category",
		Slug:      utils.Slugify(name + " category"),
		Countable: true,
	}
	if err := e.db.Create(category).Error; err != nil {
		t.Fatalf("failed to create category: %v", err)
	}

	product := &entity.Product{
		Name:            name,
		Slug:            utils.Slugify(name),
		Code:            utils.GenerateProductCode(),
		CategoryID:      &category.ID,
		SellingPrice:    sellingPrice,
		TracksInventory: true,
		StockAlert:      2,
	}
	if err := e.db.Create(product).Error; err != nil {
		t.Fatalf("failed to create product: %v", err)
	}
	return product
}

// createServiceProduct creates a product outside inventory tracking, like a
// made-to-order espresso.
func (e *testEnv) createServiceProduct(t *testing.T, name string, sellingPrice int64) *entity.Product {
	t.Helper()

	product := &entity.Product{
		Name:         name,
		Slug:         utils.Slugify(name),
		Code:         utils.GenerateProductCode(),
		SellingPrice: sellingPrice,
	}
	if err := e.db.Create(product).Error; err != nil {
		t.Fatalf("failed to create product: %v", err)
	}
	return product
}

func (e *testEnv) createCustomer(t *testing.T, name string, creditLimit int64) *entity.Customer {
	t.Helper()

	customer := &entity.Customer{
		Name:        name,
		CreditLimit: creditLimit,
	}
	if err := e.db.Create(customer).Error; err != nil {
		t.Fatalf("failed to create customer: %v", err)
	}
	return customer
}

// stockIn seeds inventory through the ledger, the only legal way in
func (e *testEnv) stockIn(t *testing.T, productID uuid.UUID, quantity int, unitPrice int64) {
	t.Helper()

	_, err := e.ledger.RecordEntry(context.Background(), &service.RecordEntryInput{
		ProductID:       productID,
		QuantityIn:      quantity,
		UnitPrice:       unitPrice,
		TransactionType: enum.LedgerTypeAdjustment,
		ReferenceType:   enum.ReferenceTypeManual,
		CreatedBy:       uuid.New(),
	})
	if err != nil {
		t.Fatalf("failed to stock in: %v", err)
	}
}

func (e *testEnv) currentStock(t *testing.T, productID uuid.UUID) int {
	t.Helper()

	stock, err := e.ledgerRepo.CurrentStock(context.Background(), productID)
	if err != nil {
		t.Fatalf("failed to read current stock: %v", err)
	}
	return stock
}

// openOrderWithItem creates a pending order holding one line of the product
func (e *testEnv) openOrderWithItem(t *testing.T, customer *entity.Customer, product *entity.Product, quantity int) *entity.Order {
	t.Helper()
	ctx := context.Background()

	input := &service.CreateOrderInput{
		OrderType: enum.OrderTypeTakeaway,
		CreatedBy: uuid.New(),
	}
	if customer != nil {
		input.CustomerID = &customer.ID
	}

	order, err := e.orders.CreateOrder(ctx, input)
	if err != nil {
		t.Fatalf("failed to create order: %v", err)
	}

	order, err = e.orders.AddItem(ctx, order.ID, product.ID, quantity, order.CreatedBy)
	if err != nil {
		t.Fatalf("failed to add item: %v", err)
	}
	return order
}
