package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/marumbi/kahawa-api/internal/application/service"
	"github.com/marumbi/kahawa-api/internal/domain/entity"
	"github.com/marumbi/kahawa-api/internal/domain/enum"
)

func (e *testEnv) productByID(t *testing.T, id uuid.UUID) *entity.Product {
	t.Helper()
	var product entity.Product
	if err := e.db.First(&product, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to load product: %v", err)
	}
	return &product
}

func TestCreatePurchaseStocksIn(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createTrackedProduct(t, "Arabica 1kg", 2200_00)

	purchase, err := env.purchases.CreatePurchase(ctx, &service.CreatePurchaseInput{
		Status: enum.PurchaseStatusReceived,
		Items: []service.PurchaseItemInput{
			{ProductID: product.ID, Quantity: 20, UnitCost: 1200_00},
		},
		CreatedBy: uuid.New(),
	})
	if err != nil {
		t.Fatalf("CreatePurchase failed: %v", err)
	}

	if purchase.Subtotal != 20*1200_00 {
		t.Errorf("got subtotal %d, want %d", purchase.Subtotal, 20*1200_00)
	}
	if len(purchase.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(purchase.Items))
	}

	if got := env.currentStock(t, product.ID); got != 20 {
		t.Fatalf("got stock %d after delivery, want 20", got)
	}

	// With nothing on hand before the delivery, the unit cost becomes the
	// average cost outright.
	if fresh := env.productByID(t, product.ID); fresh.BuyingPrice != 1200_00 {
		t.Errorf("got buying price %d, want %d", fresh.BuyingPrice, 1200_00)
	}
}

func TestAverageCostWeightedAcrossDeliveries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createTrackedProduct(t, "Robusta 1kg", 1800_00)

	// First delivery: 10 units at 1000.
	if _, err := env.purchases.CreatePurchase(ctx, &service.CreatePurchaseInput{
		Items:     []service.PurchaseItemInput{{ProductID: product.ID, Quantity: 10, UnitCost: 1000}},
		CreatedBy: uuid.New(),
	}); err != nil {
		t.Fatalf("first purchase failed: %v", err)
	}

	// Second delivery: 10 units at 2000. Average over 20 units is 1500.
	if _, err := env.purchases.CreatePurchase(ctx, &service.CreatePurchaseInput{
		Items:     []service.PurchaseItemInput{{ProductID: product.ID, Quantity: 10, UnitCost: 2000}},
		CreatedBy: uuid.New(),
	}); err != nil {
		t.Fatalf("second purchase failed: %v", err)
	}

	if fresh := env.productByID(t, product.ID); fresh.BuyingPrice != 1500 {
		t.Errorf("got buying price %d, want 1500", fresh.BuyingPrice)
	}
	if got := env.currentStock(t, product.ID); got != 20 {
		t.Fatalf("got stock %d, want 20", got)
	}
}

func TestPurchaseTotalsWithDiscountAndTax(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createTrackedProduct(t, "Milk Crate", 90_00)

	purchase, err := env.purchases.CreatePurchase(ctx, &service.CreatePurchaseInput{
		DiscountPercent: 10,
		TaxPercent:      16,
		Items: []service.PurchaseItemInput{
			{ProductID: product.ID, Quantity: 10, UnitCost: 1000},
		},
		CreatedBy: uuid.New(),
	})
	if err != nil {
		t.Fatalf("CreatePurchase failed: %v", err)
	}

	// subtotal 10000, discount 1000, tax 16% of 9000 = 1440, total 10440
	if purchase.DiscountAmount != 1000 {
		t.Errorf("got discount %d, want 1000", purchase.DiscountAmount)
	}
	if purchase.TaxAmount != 1440 {
		t.Errorf("got tax %d, want 1440", purchase.TaxAmount)
	}
	if purchase.TotalAmount != 10440 {
		t.Errorf("got total %d, want 10440", purchase.TotalAmount)
	}
}

func TestCreatePurchaseValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createTrackedProduct(t, "Sugar Sack", 150_00)

	cases := []struct {
		name  string
		input service.CreatePurchaseInput
	}{
		{name: "no items", input: service.CreatePurchaseInput{}},
		{
			name: "zero quantity",
			input: service.CreatePurchaseInput{
				Items: []service.PurchaseItemInput{{ProductID: product.ID, Quantity: 0, UnitCost: 100}},
			},
		},
		{
			name: "negative unit cost",
			input: service.CreatePurchaseInput{
				Items: []service.PurchaseItemInput{{ProductID: product.ID, Quantity: 1, UnitCost: -5}},
			},
		},
		{
			name: "discount above 100",
			input: service.CreatePurchaseInput{
				DiscountPercent: 150,
				Items:           []service.PurchaseItemInput{{ProductID: product.ID, Quantity: 1, UnitCost: 100}},
			},
		},
		{
			name: "unknown product",
			input: service.CreatePurchaseInput{
				Items: []service.PurchaseItemInput{{ProductID: uuid.New(), Quantity: 1, UnitCost: 100}},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.input.CreatedBy = uuid.New()
			if _, err := env.purchases.CreatePurchase(ctx, &tc.input); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestCorrectPurchaseReversesStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createTrackedProduct(t, "Flour Bag", 120_00)

	purchase, err := env.purchases.CreatePurchase(ctx, &service.CreatePurchaseInput{
		Items:     []service.PurchaseItemInput{{ProductID: product.ID, Quantity: 15, UnitCost: 6000}},
		CreatedBy: uuid.New(),
	})
	if err != nil {
		t.Fatalf("CreatePurchase failed: %v", err)
	}
	if got := env.currentStock(t, product.ID); got != 15 {
		t.Fatalf("got stock %d, want 15", got)
	}

	if err := env.purchases.CorrectPurchase(ctx, purchase.ID, uuid.New()); err != nil {
		t.Fatalf("CorrectPurchase failed: %v", err)
	}

	if got := env.currentStock(t, product.ID); got != 0 {
		t.Fatalf("got stock %d after correction, want 0", got)
	}

	// The correction must be compensating entries, not edits: the purchase
	// entry is still on the ledger alongside the correction.
	entries, err := env.ledgerRepo.GetByReference(ctx, enum.ReferenceTypePurchase, purchase.ID)
	if err != nil {
		t.Fatalf("GetByReference failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d purchase entries, want 1", len(entries))
	}
}
