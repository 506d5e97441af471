package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/marumbi/kahawa-api/internal/application/service"
	"github.com/marumbi/kahawa-api/internal/domain/enum"
	infra "github.com/marumbi/kahawa-api/internal/infrastructure/repository"
)

func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	analytics := infra.NewAnalyticsRepository(env.db)
	dashboard := service.NewDashboardService(analytics, env.bus, 5)

	// Stock alert for fixtures is 2; selling 4 of 5 leaves 1 on hand, which
	// should surface in the low stock report.
	product := env.createTrackedProduct(t, "Mocha Beans", 1000)
	env.stockIn(t, product.ID, 5, 400)
	customer := env.createCustomer(t, "Zawadi", 10000)

	order := env.openOrderWithItem(t, customer, product, 4) // total 4000

	if _, err := env.orders.CompletePayment(ctx, &service.CompletePaymentInput{
		OrderID:   order.ID,
		Method:    enum.PaymentMethodCash,
		Amount:    3000,
		CreatedBy: uuid.New(),
	}); err != nil {
		t.Fatalf("CompletePayment failed: %v", err)
	}

	stats, err := dashboard.GetDashboardStats(ctx)
	if err != nil {
		t.Fatalf("GetDashboardStats failed: %v", err)
	}

	if stats.TodaySales != 40.0 {
		t.Errorf("got today sales %.2f, want 40.00", stats.TodaySales)
	}
	if stats.TodayCredit != 10.0 {
		t.Errorf("got today credit %.2f, want 10.00", stats.TodayCredit)
	}
	if stats.OutstandingCredit != 10.0 {
		t.Errorf("got outstanding credit %.2f, want 10.00", stats.OutstandingCredit)
	}
	if stats.OrdersToday != 1 {
		t.Errorf("got %d orders today, want 1", stats.OrdersToday)
	}

	if len(stats.LowStock) != 1 {
		t.Fatalf("got %d low stock rows, want 1", len(stats.LowStock))
	}
	if stats.LowStock[0].ProductID != product.ID || stats.LowStock[0].CurrentStock != 1 {
		t.Errorf("low stock row got product=%s stock=%d, want %s/1",
			stats.LowStock[0].ProductID, stats.LowStock[0].CurrentStock, product.ID)
	}

	if len(stats.TopProducts) != 1 {
		t.Fatalf("got %d top products, want 1", len(stats.TopProducts))
	}
	if stats.TopProducts[0].QuantitySold != 4 || stats.TopProducts[0].Revenue != 40.0 {
		t.Errorf("top product got qty=%d revenue=%.2f, want 4/40.00",
			stats.TopProducts[0].QuantitySold, stats.TopProducts[0].Revenue)
	}

	// Live tally moved with the settlement event.
	if stats.Live.Settlements != 1 {
		t.Errorf("got %d live settlements, want 1", stats.Live.Settlements)
	}
	if stats.Live.Collected != 30.0 {
		t.Errorf("got live collected %.2f, want 30.00", stats.Live.Collected)
	}
	if stats.Live.CreditDelta != 10.0 {
		t.Errorf("got live credit delta %.2f, want 10.00", stats.Live.CreditDelta)
	}
}
