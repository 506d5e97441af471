package repository

import (
	"context"
	"time"

	"github.com/marumbi/kahawa-api/internal/domain/entity"
	"github.com/marumbi/kahawa-api/internal/domain/enum"
	domainRepo "github.com/marumbi/kahawa-api/internal/domain/repository"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func (r *analyticsRepository) GetTodaySales(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("status = ? AND created_at >= ?", enum.OrderStatusCompleted, startOfToday()).
		Scan(&total).Error
	return total, err
}

func (r *analyticsRepository) GetTodayCredit(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.CreditTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("transaction_type = ? AND created_at >= ?", enum.CreditTransactionCredit, startOfToday()).
		Scan(&total).Error
	return total, err
}

func (r *analyticsRepository) GetOutstandingCredit(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Customer{}).
		Select("COALESCE(SUM(credit_balance), 0)").
		Scan(&total).Error
	return total, err
}

// GetLowStock folds the ledger per product and keeps tracked products in
// countable categories whose stock sits at or below their alert threshold.
func (r *analyticsRepository) GetLowStock(ctx context.Context) ([]domainRepo.LowStockResult, error) {
	var results []domainRepo.LowStockResult
	err := r.db.WithContext(ctx).
		Table("products").
		Select("products.id AS product_id, products.name AS product_name, products.code AS product_code, COALESCE(SUM(ledger_entries.quantity_in - ledger_entries.quantity_out), 0) AS current_stock, products.stock_alert").
		Joins("JOIN categories ON categories.id = products.category_id AND categories.countable = ? AND categories.deleted_at IS NULL", true).
		Joins("LEFT JOIN ledger_entries ON ledger_entries.product_id = products.id").
		Where("products.tracks_inventory = ? AND products.deleted_at IS NULL", true).
		Group("products.id, products.name, products.code, products.stock_alert").
		Having("COALESCE(SUM(ledger_entries.quantity_in - ledger_entries.quantity_out), 0) <= products.stock_alert").
		Order("current_stock ASC").
		Scan(&results).Error
	return results, err
}

func (r *analyticsRepository) GetTopProducts(ctx context.Context, limit int) ([]domainRepo.TopProductResult, error) {
	var results []domainRepo.TopProductResult
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.product_id AS product_id, products.name AS product_name, products.code AS product_code, SUM(order_items.quantity) AS quantity_sold, SUM(order_items.total_price) / 100.0 AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id AND orders.status = ? AND orders.deleted_at IS NULL", enum.OrderStatusCompleted).
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("order_items.deleted_at IS NULL").
		Group("order_items.product_id, products.name, products.code").
		Order("revenue DESC").
		Limit(limit).
		Scan(&results).Error
	return results, err
}

func (r *analyticsRepository) CountOrdersToday(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("created_at >= ?", startOfToday()).
		Count(&count).Error
	return count, err
}
