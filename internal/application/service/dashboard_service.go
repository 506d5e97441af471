package service

import (
	"context"
	"sync"

	"github.com/marumbi/kahawa-api/internal/domain/repository"
	"github.com/marumbi/kahawa-api/pkg/events"
)

// DashboardService provides the till's daily overview. It subscribes to
// settlement events so the live tallies move the moment an order settles,
// while the persisted figures are always re-derivable from the database.
type DashboardService struct {
	analyticsRepo repository.AnalyticsRepository
	topProducts   int

	mu               sync.Mutex
	settledSinceBoot int64 // Cents collected since the process started
	creditSinceBoot  int64 // Net credit granted since the process started
	settlements      int64
}

// NewDashboardService creates a new dashboard service and wires it to the bus
func NewDashboardService(analyticsRepo repository.AnalyticsRepository, bus *events.Bus, topProducts int) *DashboardService {
	if topProducts <= 0 {
		topProducts = 5
	}
	s := &DashboardService{
		analyticsRepo: analyticsRepo,
		topProducts:   topProducts,
	}
	bus.Subscribe(s.onSettlement)
	return s
}

func (s *DashboardService) onSettlement(e events.SettlementEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settledSinceBoot += e.PaidAmount
	s.creditSinceBoot += e.CreditDelta
	s.settlements++
}

// LiveTally is the in-memory settlement counter since process start
type LiveTally struct {
	Settlements int64   `json:"settlements"`
	Collected   float64 `json:"collected"`
	CreditDelta float64 `json:"credit_delta"`
}

// DashboardStats represents the dashboard overview
type DashboardStats struct {
	TodaySales        float64                       `json:"today_sales"`
	TodayCredit       float64                       `json:"today_credit"`
	OutstandingCredit float64                       `json:"outstanding_credit"`
	OrdersToday       int64                         `json:"orders_today"`
	LowStock          []repository.LowStockResult   `json:"low_stock"`
	TopProducts       []repository.TopProductResult `json:"top_products"`
	Live              LiveTally                     `json:"live"`
}

// GetDashboardStats returns the dashboard overview
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	todaySales, err := s.analyticsRepo.GetTodaySales(ctx)
	if err != nil {
		return nil, err
	}
	stats.TodaySales = float64(todaySales) / 100

	todayCredit, err := s.analyticsRepo.GetTodayCredit(ctx)
	if err != nil {
		return nil, err
	}
	stats.TodayCredit = float64(todayCredit) / 100

	outstanding, err := s.analyticsRepo.GetOutstandingCredit(ctx)
	if err != nil {
		return nil, err
	}
	stats.OutstandingCredit = float64(outstanding) / 100

	ordersToday, err := s.analyticsRepo.CountOrdersToday(ctx)
	if err != nil {
		return nil, err
	}
	stats.OrdersToday = ordersToday

	lowStock, err := s.analyticsRepo.GetLowStock(ctx)
	if err != nil {
		return nil, err
	}
	stats.LowStock = lowStock

	topProducts, err := s.analyticsRepo.GetTopProducts(ctx, s.topProducts)
	if err != nil {
		return nil, err
	}
	stats.TopProducts = topProducts

	s.mu.Lock()
	stats.Live = LiveTally{
		Settlements: s.settlements,
		Collected:   float64(s.settledSinceBoot) / 100,
		CreditDelta: float64(s.creditSinceBoot) / 100,
	}
	s.mu.Unlock()

	return stats, nil
}
