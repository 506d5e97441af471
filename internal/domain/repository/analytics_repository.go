package repository

import (
	"context"

	"github.com/google/uuid"
)

// LowStockResult pairs a product with its ledger-derived stock level
type LowStockResult struct {
	ProductID    uuid.UUID
	ProductName  string
	ProductCode  string
	CurrentStock int
	StockAlert   int
}

// TopProductResult represents a product's sales performance
type TopProductResult struct {
	ProductID    uuid.UUID
	ProductName  string
	ProductCode  string
	QuantitySold int
	Revenue      float64
}

// AnalyticsRepository defines read-only aggregation queries consumed by the
// reporting layer. These impose no additional contract on the transaction core.
type AnalyticsRepository interface {
	// GetTodaySales returns the summed totals (cents) of today's completed orders
	GetTodaySales(ctx context.Context) (int64, error)
	// GetTodayCredit returns credit (cents) granted today
	GetTodayCredit(ctx context.Context) (int64, error)
	// GetOutstandingCredit returns the total credit (cents) currently owed
	GetOutstandingCredit(ctx context.Context) (int64, error)
	// GetLowStock lists tracked, countable-category products whose
	// ledger-derived stock is at or below their alert threshold
	GetLowStock(ctx context.Context) ([]LowStockResult, error)
	// GetTopProducts returns top selling products by revenue
	GetTopProducts(ctx context.Context, limit int) ([]TopProductResult, error)
	// CountOrdersToday returns the number of orders opened today
	CountOrdersToday(ctx context.Context) (int64, error)
}
