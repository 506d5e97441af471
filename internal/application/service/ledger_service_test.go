package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/marumbi/kahawa-api/internal/application/service"
	"github.com/marumbi/kahawa-api/internal/domain/entity"
	"github.com/marumbi/kahawa-api/internal/domain/enum"
	"github.com/marumbi/kahawa-api/pkg/apperror"
	"github.com/marumbi/kahawa-api/pkg/pagination"
)

func TestRecordEntryValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createTrackedProduct(t, "Beans 1kg", 1500_00)

	cases := []struct {
		name  string
		input service.RecordEntryInput
	}{
		{
			name: "both quantities set",
			input: service.RecordEntryInput{
				ProductID:       product.ID,
				QuantityIn:      5,
				QuantityOut:     3,
				TransactionType: enum.LedgerTypeAdjustment,
			},
		},
		{
			name: "neither quantity set",
			input: service.RecordEntryInput{
				ProductID:       product.ID,
				TransactionType: enum.LedgerTypeAdjustment,
			},
		},
		{
			name: "negative quantity",
			input: service.RecordEntryInput{
				ProductID:       product.ID,
				QuantityIn:      -1,
				TransactionType: enum.LedgerTypeAdjustment,
			},
		},
		{
			name: "unknown transaction type",
			input: service.RecordEntryInput{
				ProductID:       product.ID,
				QuantityIn:      5,
				TransactionType: enum.LedgerType("refund"),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.input.CreatedBy = uuid.New()
			if _, err := env.ledger.RecordEntry(ctx, &tc.input); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestRecordEntryRejectsOversell(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createTrackedProduct(t, "Croissant", 350)

	env.stockIn(t, product.ID, 3, 120)

	_, err := env.ledger.RecordEntry(ctx, &service.RecordEntryInput{
		ProductID:       product.ID,
		QuantityOut:     4,
		TransactionType: enum.LedgerTypeSale,
		CreatedBy:       uuid.New(),
	})
	if !errors.Is(err, apperror.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	if got := env.currentStock(t, product.ID); got != 3 {
		t.Fatalf("stock changed on rejected entry: got %d, want 3", got)
	}
}

func TestCurrentStockFoldsEntries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createTrackedProduct(t, "Muffin", 400)

	env.stockIn(t, product.ID, 10, 150)
	env.stockIn(t, product.ID, 5, 160)

	_, err := env.ledger.RecordEntry(ctx, &service.RecordEntryInput{
		ProductID:       product.ID,
		QuantityOut:     4,
		TransactionType: enum.LedgerTypeSale,
		CreatedBy:       uuid.New(),
	})
	if err != nil {
		t.Fatalf("sale entry failed: %v", err)
	}

	stock, err := env.ledger.CurrentStock(ctx, product.ID)
	if err != nil {
		t.Fatalf("CurrentStock failed: %v", err)
	}
	if stock != 11 {
		t.Fatalf("got stock %d, want 11", stock)
	}
}

func TestReverseAppendsCorrection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createTrackedProduct(t, "Tea Box", 900)

	entry, err := env.ledger.RecordEntry(ctx, &service.RecordEntryInput{
		ProductID:       product.ID,
		QuantityIn:      8,
		UnitPrice:       300,
		TransactionType: enum.LedgerTypeAdjustment,
		ReferenceType:   enum.ReferenceTypeManual,
		CreatedBy:       uuid.New(),
	})
	if err != nil {
		t.Fatalf("RecordEntry failed: %v", err)
	}

	correction, err := env.ledger.Reverse(ctx, entry.ID, uuid.New())
	if err != nil {
		t.Fatalf("Reverse failed: %v", err)
	}

	if correction.TransactionType != enum.LedgerTypeCorrection {
		t.Errorf("got type %s, want %s", correction.TransactionType, enum.LedgerTypeCorrection)
	}
	if correction.QuantityOut != 8 || correction.QuantityIn != 0 {
		t.Errorf("correction quantities got in=%d out=%d, want in=0 out=8", correction.QuantityIn, correction.QuantityOut)
	}
	if correction.ReferenceID == nil || *correction.ReferenceID != entry.ID {
		t.Error("correction should reference the original entry")
	}

	// The original row must survive untouched.
	original, err := env.ledgerRepo.GetByID(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if original == nil || original.QuantityIn != 8 {
		t.Fatal("original entry was modified or removed")
	}

	if got := env.currentStock(t, product.ID); got != 0 {
		t.Fatalf("got stock %d after reversal, want 0", got)
	}
}

func TestReverseRejectsWhenStockWouldGoNegative(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createTrackedProduct(t, "Cocoa", 700)

	entry, err := env.ledger.RecordEntry(ctx, &service.RecordEntryInput{
		ProductID:       product.ID,
		QuantityIn:      5,
		TransactionType: enum.LedgerTypeAdjustment,
		CreatedBy:       uuid.New(),
	})
	if err != nil {
		t.Fatalf("RecordEntry failed: %v", err)
	}

	// Sell everything, then try to reverse the stock-in.
	if _, err := env.ledger.RecordEntry(ctx, &service.RecordEntryInput{
		ProductID:       product.ID,
		QuantityOut:     5,
		TransactionType: enum.LedgerTypeSale,
		CreatedBy:       uuid.New(),
	}); err != nil {
		t.Fatalf("sale entry failed: %v", err)
	}

	if _, err := env.ledger.Reverse(ctx, entry.ID, uuid.New()); !errors.Is(err, apperror.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
}

func TestHistoryKeysetPagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createTrackedProduct(t, "Syrup", 600)

	// Seed entries with strictly increasing timestamps so the order is
	// deterministic regardless of clock resolution.
	base := time.Now().Add(-time.Hour)
	const total = 25
	for i := 0; i < total; i++ {
		entry := &entity.LedgerEntry{
			ProductID:       product.ID,
			QuantityIn:      1,
			TransactionType: enum.LedgerTypeAdjustment,
			CreatedBy:       uuid.New(),
			CreatedAt:       base.Add(time.Duration(i) * time.Second),
		}
		if err := env.db.Create(entry).Error; err != nil {
			t.Fatalf("failed to seed entry: %v", err)
		}
	}

	seen := make(map[uuid.UUID]bool)
	var prev *time.Time
	cursor := ""
	pages := 0

	for {
		params := &pagination.CursorParams{Cursor: cursor, Limit: 10}
		result, err := env.ledger.History(ctx, product.ID, params)
		if err != nil {
			t.Fatalf("History failed: %v", err)
		}
		pages++

		for _, e := range result.Items {
			if seen[e.ID] {
				t.Fatalf("entry %s returned twice", e.ID)
			}
			seen[e.ID] = true
			if prev != nil && e.CreatedAt.After(*prev) {
				t.Fatal("history is not in descending time order")
			}
			ts := e.CreatedAt
			prev = &ts
		}

		if !result.Pagination.HasNext {
			break
		}
		cursor = *result.Pagination.NextCursor
	}

	if len(seen) != total {
		t.Fatalf("got %d distinct entries across pages, want %d", len(seen), total)
	}
	if pages != 3 {
		t.Fatalf("got %d pages, want 3", pages)
	}
}
