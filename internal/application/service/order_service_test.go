package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/marumbi/kahawa-api/internal/application/service"
	"github.com/marumbi/kahawa-api/internal/domain/enum"
	"github.com/marumbi/kahawa-api/pkg/apperror"
	"github.com/marumbi/kahawa-api/pkg/events"
)

func TestAddItemReservesStock(t *testing.T) {
	env := newTestEnv(t)
	product := env.createTrackedProduct(t, "Bagel", 250)
	env.stockIn(t, product.ID, 10, 90)

	order := env.openOrderWithItem(t, nil, product, 4)

	if got := env.currentStock(t, product.ID); got != 6 {
		t.Fatalf("got stock %d after adding item, want 6", got)
	}
	if order.Subtotal != 1000 {
		t.Errorf("got subtotal %d, want 1000", order.Subtotal)
	}
	if order.TotalAmount != 1000 {
		t.Errorf("got total %d, want 1000", order.TotalAmount)
	}
	if order.PaymentStatus != enum.PaymentStatusUnpaid {
		t.Errorf("got payment status %s, want Unpaid", order.PaymentStatus)
	}
}

func TestAddItemCannotOversell(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createTrackedProduct(t, "Scone", 300)
	env.stockIn(t, product.ID, 5, 100)

	// First order reserves 4 of the 5 on hand.
	env.openOrderWithItem(t, nil, product, 4)

	second, err := env.orders.CreateOrder(ctx, &service.CreateOrderInput{CreatedBy: uuid.New()})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if _, err := env.orders.AddItem(ctx, second.ID, product.ID, 2, second.CreatedBy); !errors.Is(err, apperror.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// The failed line must not linger on the order.
	fresh, err := env.orders.GetOrder(ctx, second.ID)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if len(fresh.Items) != 0 {
		t.Fatalf("got %d items on order after rejected add, want 0", len(fresh.Items))
	}
}

func TestServiceProductSkipsLedger(t *testing.T) {
	env := newTestEnv(t)
	product := env.createServiceProduct(t, "Espresso", 280)

	order := env.openOrderWithItem(t, nil, product, 3)

	if order.Subtotal != 840 {
		t.Errorf("got subtotal %d, want 840", order.Subtotal)
	}
	if got := env.currentStock(t, product.ID); got != 0 {
		t.Fatalf("untracked product wrote ledger entries: stock %d", got)
	}
}

func TestRemoveItemRestoresStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createTrackedProduct(t, "Brownie", 450)
	env.stockIn(t, product.ID, 8, 200)

	order := env.openOrderWithItem(t, nil, product, 3)
	if got := env.currentStock(t, product.ID); got != 5 {
		t.Fatalf("got stock %d after add, want 5", got)
	}

	itemID := order.Items[0].ID
	order, err := env.orders.RemoveItem(ctx, order.ID, itemID, uuid.New())
	if err != nil {
		t.Fatalf("RemoveItem failed: %v", err)
	}

	if got := env.currentStock(t, product.ID); got != 8 {
		t.Fatalf("got stock %d after remove, want 8", got)
	}
	if order.Subtotal != 0 || order.TotalAmount != 0 {
		t.Errorf("totals not recomputed: subtotal=%d total=%d", order.Subtotal, order.TotalAmount)
	}

	// The reversal is a correction entry against the removed item, never an
	// edit of the original sale entry.
	entries, err := env.ledgerRepo.GetByReference(ctx, enum.ReferenceTypeOrderItem, itemID)
	if err != nil {
		t.Fatalf("GetByReference failed: %v", err)
	}
	found := false
	for _, e := range entries {
		if e.TransactionType != enum.LedgerTypeCorrection {
			continue
		}
		found = true
		if e.QuantityIn != 3 {
			t.Errorf("got correction quantity in %d, want 3", e.QuantityIn)
		}
	}
	if !found {
		t.Fatal("no correction entry written for the removed item")
	}
}

func TestUpdateDiscountRecomputesTotals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createTrackedProduct(t, "Latte Beans", 1000)
	env.stockIn(t, product.ID, 10, 400)

	order := env.openOrderWithItem(t, nil, product, 4)

	order, err := env.orders.UpdateDiscount(ctx, order.ID, 25)
	if err != nil {
		t.Fatalf("UpdateDiscount failed: %v", err)
	}
	if order.DiscountAmount != 1000 {
		t.Errorf("got discount %d, want 1000", order.DiscountAmount)
	}
	if order.TotalAmount != 3000 {
		t.Errorf("got total %d, want 3000", order.TotalAmount)
	}

	if _, err := env.orders.UpdateDiscount(ctx, order.ID, 101); err == nil {
		t.Fatal("expected error for discount above 100")
	}
	if _, err := env.orders.UpdateDiscount(ctx, order.ID, -1); err == nil {
		t.Fatal("expected error for negative discount")
	}
}

func TestCompletePaymentFullCash(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createTrackedProduct(t, "Sandwich", 550)
	env.stockIn(t, product.ID, 10, 250)

	order := env.openOrderWithItem(t, nil, product, 2)

	settled, err := env.orders.CompletePayment(ctx, &service.CompletePaymentInput{
		OrderID:   order.ID,
		Method:    enum.PaymentMethodCash,
		Amount:    1100,
		CreatedBy: uuid.New(),
	})
	if err != nil {
		t.Fatalf("CompletePayment failed: %v", err)
	}

	if settled.Status != enum.OrderStatusCompleted {
		t.Errorf("got status %s, want Completed", settled.Status)
	}
	if settled.PaymentStatus != enum.PaymentStatusPaid {
		t.Errorf("got payment status %s, want Paid", settled.PaymentStatus)
	}
	if settled.PaidAmount != 1100 {
		t.Errorf("got paid %d, want 1100", settled.PaidAmount)
	}
	if settled.CreditAmount != 0 {
		t.Errorf("got credit %d, want 0", settled.CreditAmount)
	}

	// Settled orders are closed for edits.
	if _, err := env.orders.AddItem(ctx, order.ID, product.ID, 1, uuid.New()); !errors.Is(err, apperror.ErrOrderNotEditable) {
		t.Fatalf("expected ErrOrderNotEditable, got %v", err)
	}
}

func TestCompletePaymentRejectsOverpayment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createTrackedProduct(t, "Mocha", 500)
	env.stockIn(t, product.ID, 5, 200)

	order := env.openOrderWithItem(t, nil, product, 2) // total 1000

	_, err := env.orders.CompletePayment(ctx, &service.CompletePaymentInput{
		OrderID:   order.ID,
		Method:    enum.PaymentMethodCash,
		Amount:    99999,
		CreatedBy: uuid.New(),
	})
	if !errors.Is(err, apperror.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	pending, err := env.orders.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if pending.Status != enum.OrderStatusPending || pending.PaidAmount != 0 {
		t.Errorf("got status=%s paid=%d after rejected overpayment, want Pending paid=0",
			pending.Status, pending.PaidAmount)
	}
}

func TestCompletePaymentRejectsZeroCash(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createTrackedProduct(t, "Tea Masala", 250)
	env.stockIn(t, product.ID, 8, 100)
	customer := env.createCustomer(t, "Wairimu", 10000)

	order := env.openOrderWithItem(t, customer, product, 4) // total 1000

	// A zero cash amount must not quietly turn the sale into a credit sale.
	_, err := env.orders.CompletePayment(ctx, &service.CompletePaymentInput{
		OrderID:   order.ID,
		Method:    enum.PaymentMethodCash,
		Amount:    0,
		CreatedBy: uuid.New(),
	})
	if !errors.Is(err, apperror.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	fresh, err := env.customerRepo.GetByID(ctx, customer.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fresh.CreditBalance != 0 {
		t.Errorf("got customer balance %d after rejected payment, want 0", fresh.CreditBalance)
	}
}

func TestCompletePaymentPartialBooksCredit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createTrackedProduct(t, "Cake Slice", 800)
	env.stockIn(t, product.ID, 10, 350)
	customer := env.createCustomer(t, "Wanjiku", 5000)

	order := env.openOrderWithItem(t, customer, product, 3) // total 2400

	settled, err := env.orders.CompletePayment(ctx, &service.CompletePaymentInput{
		OrderID:   order.ID,
		Method:    enum.PaymentMethodCash,
		Amount:    1400,
		CreatedBy: uuid.New(),
	})
	if err != nil {
		t.Fatalf("CompletePayment failed: %v", err)
	}

	if settled.PaymentStatus != enum.PaymentStatusPartial {
		t.Errorf("got payment status %s, want Partial", settled.PaymentStatus)
	}
	if settled.PaidAmount != 1400 || settled.CreditAmount != 1000 {
		t.Errorf("got paid=%d credit=%d, want paid=1400 credit=1000", settled.PaidAmount, settled.CreditAmount)
	}

	fresh, err := env.customerRepo.GetByID(ctx, customer.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fresh.CreditBalance != 1000 {
		t.Errorf("got customer balance %d, want 1000", fresh.CreditBalance)
	}

	txs, err := env.creditTxRepo.GetByOrderID(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetByOrderID failed: %v", err)
	}
	if len(txs) != 1 || txs[0].TransactionType != enum.CreditTransactionCredit || txs[0].Amount != 1000 {
		t.Fatalf("expected one credit transaction of 1000, got %+v", txs)
	}
}

func TestCompletePaymentRejectsOverCreditLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createTrackedProduct(t, "Gift Hamper", 6000)
	env.stockIn(t, product.ID, 5, 3000)
	customer := env.createCustomer(t, "Otieno", 2000)

	order := env.openOrderWithItem(t, customer, product, 1) // total 6000, limit 2000

	_, err := env.orders.CompletePayment(ctx, &service.CompletePaymentInput{
		OrderID:   order.ID,
		Method:    enum.PaymentMethodCash,
		Amount:    1000,
		CreatedBy: uuid.New(),
	})
	if !errors.Is(err, apperror.ErrCreditLimitExceeded) {
		t.Fatalf("expected ErrCreditLimitExceeded, got %v", err)
	}

	// Nothing may have landed on the customer.
	fresh, _ := env.customerRepo.GetByID(ctx, customer.ID)
	if fresh.CreditBalance != 0 {
		t.Errorf("got balance %d after rejected settlement, want 0", fresh.CreditBalance)
	}

	// The order remains pending and settlable.
	pending, _ := env.orders.GetOrder(ctx, order.ID)
	if pending.Status != enum.OrderStatusPending {
		t.Errorf("got status %s, want Pending", pending.Status)
	}
}

func TestCompletePaymentShortfallRequiresCustomer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createTrackedProduct(t, "Cold Brew", 500)
	env.stockIn(t, product.ID, 5, 200)

	order := env.openOrderWithItem(t, nil, product, 2)

	_, err := env.orders.CompletePayment(ctx, &service.CompletePaymentInput{
		OrderID:   order.ID,
		Method:    enum.PaymentMethodCash,
		Amount:    300,
		CreatedBy: uuid.New(),
	})
	if !errors.Is(err, apperror.ErrCustomerRequired) {
		t.Fatalf("expected ErrCustomerRequired, got %v", err)
	}
}

func TestCreditMethodNeedsShortfall(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createTrackedProduct(t, "Mandazi", 100)
	env.stockIn(t, product.ID, 10, 40)
	customer := env.createCustomer(t, "Akinyi", 10000)

	order := env.openOrderWithItem(t, customer, product, 5)

	_, err := env.orders.CompletePayment(ctx, &service.CompletePaymentInput{
		OrderID:   order.ID,
		Method:    enum.PaymentMethodCredit,
		Amount:    500,
		CreatedBy: uuid.New(),
	})
	if err == nil {
		t.Fatal("expected error when a credit sale leaves nothing on credit")
	}
}

func TestPayCreditSettlesOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createTrackedProduct(t, "Samosa", 150)
	env.stockIn(t, product.ID, 20, 60)
	customer := env.createCustomer(t, "Baraka", 5000)

	order := env.openOrderWithItem(t, customer, product, 10) // total 1500

	settled, err := env.orders.CompletePayment(ctx, &service.CompletePaymentInput{
		OrderID:   order.ID,
		Method:    enum.PaymentMethodCredit,
		Amount:    0,
		CreatedBy: uuid.New(),
	})
	if err != nil {
		t.Fatalf("CompletePayment failed: %v", err)
	}
	if settled.PaymentStatus != enum.PaymentStatusUnpaid {
		t.Errorf("got payment status %s for all-credit sale, want Unpaid", settled.PaymentStatus)
	}

	// Repaying more than the outstanding credit is rejected outright.
	if _, err := env.orders.PayCredit(ctx, order.ID, 2000, uuid.New()); !errors.Is(err, apperror.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	partial, err := env.orders.PayCredit(ctx, order.ID, 500, uuid.New())
	if err != nil {
		t.Fatalf("PayCredit failed: %v", err)
	}
	if partial.PaymentStatus != enum.PaymentStatusPartial {
		t.Errorf("got payment status %s, want Partial", partial.PaymentStatus)
	}

	final, err := env.orders.PayCredit(ctx, order.ID, 1000, uuid.New())
	if err != nil {
		t.Fatalf("PayCredit failed: %v", err)
	}
	if final.PaymentStatus != enum.PaymentStatusPaid {
		t.Errorf("got payment status %s, want Paid", final.PaymentStatus)
	}
	if final.CreditAmount != 0 || final.PaidAmount != 1500 {
		t.Errorf("got paid=%d credit=%d, want paid=1500 credit=0", final.PaidAmount, final.CreditAmount)
	}

	fresh, _ := env.customerRepo.GetByID(ctx, customer.ID)
	if fresh.CreditBalance != 0 {
		t.Errorf("got customer balance %d, want 0", fresh.CreditBalance)
	}
}

func TestCancelOrderRestoresStockAndWritesOffCredit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createTrackedProduct(t, "Chapati", 120)
	env.stockIn(t, product.ID, 10, 50)
	customer := env.createCustomer(t, "Njeri", 5000)

	order := env.openOrderWithItem(t, customer, product, 5) // total 600

	if _, err := env.orders.CompletePayment(ctx, &service.CompletePaymentInput{
		OrderID:   order.ID,
		Method:    enum.PaymentMethodCash,
		Amount:    200,
		CreatedBy: uuid.New(),
	}); err != nil {
		t.Fatalf("CompletePayment failed: %v", err)
	}

	cancelled, err := env.orders.CancelOrder(ctx, order.ID, uuid.New())
	if err != nil {
		t.Fatalf("CancelOrder failed: %v", err)
	}
	if cancelled.Status != enum.OrderStatusCancelled {
		t.Errorf("got status %s, want Cancelled", cancelled.Status)
	}

	if got := env.currentStock(t, product.ID); got != 10 {
		t.Fatalf("got stock %d after cancel, want 10", got)
	}

	fresh, _ := env.customerRepo.GetByID(ctx, customer.ID)
	if fresh.CreditBalance != 0 {
		t.Errorf("got customer balance %d after write-off, want 0", fresh.CreditBalance)
	}

	if _, err := env.orders.CancelOrder(ctx, order.ID, uuid.New()); err == nil {
		t.Fatal("expected error cancelling twice")
	}
}

func TestCancelPaidOrderRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createTrackedProduct(t, "Juice", 350)
	env.stockIn(t, product.ID, 5, 150)

	order := env.openOrderWithItem(t, nil, product, 1)
	if _, err := env.orders.CompletePayment(ctx, &service.CompletePaymentInput{
		OrderID:   order.ID,
		Method:    enum.PaymentMethodCard,
		Amount:    350,
		CreatedBy: uuid.New(),
	}); err != nil {
		t.Fatalf("CompletePayment failed: %v", err)
	}

	if _, err := env.orders.CancelOrder(ctx, order.ID, uuid.New()); err == nil {
		t.Fatal("expected error cancelling a paid order")
	}
}

func TestReconcileTotalsRepairsDrift(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createTrackedProduct(t, "Donut", 200)
	env.stockIn(t, product.ID, 10, 80)

	order := env.openOrderWithItem(t, nil, product, 3) // subtotal 600

	report, err := env.orders.ReconcileTotals(ctx, order.ID)
	if err != nil {
		t.Fatalf("ReconcileTotals failed: %v", err)
	}
	if !report.Consistent {
		t.Fatal("fresh order reported inconsistent totals")
	}

	// Corrupt the stored subtotal behind the service's back.
	if err := env.db.Table("orders").Where("id = ?", order.ID).
		Updates(map[string]interface{}{"subtotal": 9999, "total_amount": 9999}).Error; err != nil {
		t.Fatalf("failed to corrupt totals: %v", err)
	}

	report, err = env.orders.ReconcileTotals(ctx, order.ID)
	if err != nil {
		t.Fatalf("ReconcileTotals failed: %v", err)
	}
	if report.Consistent {
		t.Fatal("corrupted totals reported consistent")
	}
	if report.FreshSubtotal != 600 || report.FreshTotal != 600 {
		t.Errorf("got fresh subtotal=%d total=%d, want 600/600", report.FreshSubtotal, report.FreshTotal)
	}

	repaired, _ := env.orders.GetOrder(ctx, order.ID)
	if repaired.Subtotal != 600 || repaired.TotalAmount != 600 {
		t.Errorf("totals not repaired: subtotal=%d total=%d", repaired.Subtotal, repaired.TotalAmount)
	}
}

// TestOrderLifecycleEndToEnd walks a full day at the till: a delivery, a
// discounted cash sale, and the cancellation of a lingering reservation.
func TestOrderLifecycleEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createTrackedProduct(t, "House Blend 250g", 1000)

	// An earlier delivery of 2 units is already held by a pending order.
	env.stockIn(t, product.ID, 2, 500)
	held := env.openOrderWithItem(t, nil, product, 2)
	if got := env.currentStock(t, product.ID); got != 0 {
		t.Fatalf("got stock %d with the early reservation, want 0", got)
	}

	// The morning delivery brings 10 units.
	if _, err := env.purchases.CreatePurchase(ctx, &service.CreatePurchaseInput{
		Status:    enum.PurchaseStatusReceived,
		Items:     []service.PurchaseItemInput{{ProductID: product.ID, Quantity: 10, UnitCost: 500}},
		CreatedBy: uuid.New(),
	}); err != nil {
		t.Fatalf("CreatePurchase failed: %v", err)
	}
	if got := env.currentStock(t, product.ID); got != 10 {
		t.Fatalf("got stock %d after delivery, want 10", got)
	}

	// Selling 3 units reserves them immediately.
	sale := env.openOrderWithItem(t, nil, product, 3)
	if got := env.currentStock(t, product.ID); got != 7 {
		t.Fatalf("got stock %d after sale, want 7", got)
	}
	if sale.Subtotal != 3000 {
		t.Errorf("got subtotal %d, want 3000", sale.Subtotal)
	}

	// Ten percent off, settled in cash for the discounted total.
	sale, err := env.orders.UpdateDiscount(ctx, sale.ID, 10)
	if err != nil {
		t.Fatalf("UpdateDiscount failed: %v", err)
	}
	if sale.TotalAmount != 2700 {
		t.Fatalf("got total %d after discount, want 2700", sale.TotalAmount)
	}
	settled, err := env.orders.CompletePayment(ctx, &service.CompletePaymentInput{
		OrderID:   sale.ID,
		Method:    enum.PaymentMethodCash,
		Amount:    2700,
		CreatedBy: uuid.New(),
	})
	if err != nil {
		t.Fatalf("CompletePayment failed: %v", err)
	}
	if settled.PaymentStatus != enum.PaymentStatusPaid || settled.PaidAmount != 2700 {
		t.Errorf("got status=%s paid=%d, want Paid paid=2700", settled.PaymentStatus, settled.PaidAmount)
	}

	// Cancelling the lingering reservation puts its 2 units back.
	if _, err := env.orders.CancelOrder(ctx, held.ID, uuid.New()); err != nil {
		t.Fatalf("CancelOrder failed: %v", err)
	}
	if got := env.currentStock(t, product.ID); got != 9 {
		t.Fatalf("got stock %d at close, want 9", got)
	}
}

func TestSettlementEventPublished(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createTrackedProduct(t, "Pilau Plate", 700)
	env.stockIn(t, product.ID, 10, 300)
	customer := env.createCustomer(t, "Kamau", 5000)

	var received []events.SettlementEvent
	env.bus.Subscribe(func(e events.SettlementEvent) {
		received = append(received, e)
	})

	order := env.openOrderWithItem(t, customer, product, 2) // total 1400

	if _, err := env.orders.CompletePayment(ctx, &service.CompletePaymentInput{
		OrderID:   order.ID,
		Method:    enum.PaymentMethodCash,
		Amount:    1000,
		CreatedBy: uuid.New(),
	}); err != nil {
		t.Fatalf("CompletePayment failed: %v", err)
	}

	if _, err := env.orders.PayCredit(ctx, order.ID, 400, uuid.New()); err != nil {
		t.Fatalf("PayCredit failed: %v", err)
	}

	if len(received) != 2 {
		t.Fatalf("got %d events, want 2", len(received))
	}
	if received[0].PaidAmount != 1000 || received[0].CreditDelta != 400 {
		t.Errorf("settlement event got paid=%d delta=%d, want 1000/400", received[0].PaidAmount, received[0].CreditDelta)
	}
	if received[1].PaidAmount != 400 || received[1].CreditDelta != -400 {
		t.Errorf("repayment event got paid=%d delta=%d, want 400/-400", received[1].PaidAmount, received[1].CreditDelta)
	}
}
