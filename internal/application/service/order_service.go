package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marumbi/kahawa-api/internal/domain/entity"
	"github.com/marumbi/kahawa-api/internal/domain/enum"
	"github.com/marumbi/kahawa-api/internal/domain/repository"
	"github.com/marumbi/kahawa-api/pkg/apperror"
	"github.com/marumbi/kahawa-api/pkg/events"
	"github.com/marumbi/kahawa-api/pkg/pagination"
	"github.com/marumbi/kahawa-api/pkg/utils"
)

// OrderService handles the order lifecycle: open, build up line items, settle,
// cancel. Every stock effect goes through the ledger service so the inventory
// log stays the single source of truth, and every credit effect goes through
// the customer's credit transaction log.
type OrderService struct {
	orderRepo     repository.OrderRepository
	orderItemRepo repository.OrderItemRepository
	productRepo   repository.ProductRepository
	customerRepo  repository.CustomerRepository
	creditTxRepo  repository.CreditTransactionRepository
	ledger        *LedgerService
	bus           *events.Bus
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	orderItemRepo repository.OrderItemRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	creditTxRepo repository.CreditTransactionRepository,
	ledger *LedgerService,
	bus *events.Bus,
) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		productRepo:   productRepo,
		customerRepo:  customerRepo,
		creditTxRepo:  creditTxRepo,
		ledger:        ledger,
		bus:           bus,
	}
}

// CreateOrderInput represents the create order input
type CreateOrderInput struct {
	OrderType    enum.OrderType
	TableNo      *string
	CustomerID   *uuid.UUID
	CustomerName *string
	CreatedBy    uuid.UUID
}

// CreateOrder opens a new empty pending order
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*entity.Order, error) {
	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
		if input.CustomerName == nil {
			input.CustomerName = &customer.Name
		}
	}

	order := &entity.Order{
		OrderNo:       utils.GenerateOrderNo(),
		OrderType:     input.OrderType,
		TableNo:       input.TableNo,
		Status:        enum.OrderStatusPending,
		PaymentStatus: enum.PaymentStatusUnpaid,
		CustomerID:    input.CustomerID,
		CustomerName:  input.CustomerName,
		CreatedBy:     input.CreatedBy,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// AddItem appends a line item to a pending order. For countable products the
// sale ledger entry is written immediately, so stock already reflects items
// sitting on open orders and a concurrent order cannot oversell them.
func (s *OrderService) AddItem(ctx context.Context, orderID, productID uuid.UUID, quantity int, createdBy uuid.UUID) (*entity.Order, error) {
	if quantity <= 0 {
		return nil, apperror.NewBadRequestError("Quantity must be positive")
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if !order.Editable() {
		return nil, apperror.ErrOrderNotEditable
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	item := &entity.OrderItem{
		OrderID:     order.ID,
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    quantity,
		UnitPrice:   product.SellingPrice,
		TotalPrice:  product.SellingPrice * int64(quantity),
	}
	if err := s.orderItemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	if product.Countable() {
		refID := item.ID
		if _, err := s.ledger.RecordEntry(ctx, &RecordEntryInput{
			ProductID:       product.ID,
			QuantityOut:     quantity,
			UnitPrice:       product.SellingPrice,
			TransactionType: enum.LedgerTypeSale,
			ReferenceType:   enum.ReferenceTypeOrderItem,
			ReferenceID:     &refID,
			CreatedBy:       createdBy,
		}); err != nil {
			// No stock left for this line; take the item back out.
			_ = s.orderItemRepo.Delete(ctx, item.ID)
			return nil, err
		}
	}

	if err := s.recomputeTotals(ctx, order); err != nil {
		return nil, err
	}
	return s.orderRepo.GetWithItems(ctx, order.ID)
}

// RemoveItem takes a line item off a pending order and, for countable products,
// gives the reserved stock back through a correction entry against the same item.
func (s *OrderService) RemoveItem(ctx context.Context, orderID, itemID, createdBy uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if !order.Editable() {
		return nil, apperror.ErrOrderNotEditable
	}

	item, err := s.orderItemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.OrderID != order.ID {
		return nil, apperror.NewNotFoundError("Order item")
	}

	product, err := s.productRepo.GetByID(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}

	if product != nil && product.Countable() {
		refID := item.ID
		if _, err := s.ledger.RecordEntry(ctx, &RecordEntryInput{
			ProductID:       item.ProductID,
			QuantityIn:      item.Quantity,
			UnitPrice:       item.UnitPrice,
			TransactionType: enum.LedgerTypeCorrection,
			ReferenceType:   enum.ReferenceTypeOrderItem,
			ReferenceID:     &refID,
			CreatedBy:       createdBy,
		}); err != nil {
			return nil, err
		}
	}

	if err := s.orderItemRepo.Delete(ctx, item.ID); err != nil {
		return nil, err
	}

	if err := s.recomputeTotals(ctx, order); err != nil {
		return nil, err
	}
	return s.orderRepo.GetWithItems(ctx, order.ID)
}

// UpdateDiscount sets the order-level discount percentage on a pending order
func (s *OrderService) UpdateDiscount(ctx context.Context, orderID uuid.UUID, percent int) (*entity.Order, error) {
	if percent < 0 || percent > 100 {
		return nil, apperror.NewBadRequestError("Discount percent must be between 0 and 100")
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if !order.Editable() {
		return nil, apperror.ErrOrderNotEditable
	}

	order.DiscountPercent = percent
	if err := s.recomputeTotals(ctx, order); err != nil {
		return nil, err
	}
	return s.orderRepo.GetWithItems(ctx, order.ID)
}

// recomputeTotals re-derives subtotal, discount and total from the line items
// and persists them together with the derived payment status.
func (s *OrderService) recomputeTotals(ctx context.Context, order *entity.Order) error {
	items, err := s.orderItemRepo.GetByOrderID(ctx, order.ID)
	if err != nil {
		return err
	}

	var subtotal int64
	for _, item := range items {
		subtotal += item.TotalPrice
	}

	order.Subtotal = subtotal
	order.DiscountAmount = subtotal * int64(order.DiscountPercent) / 100
	order.TotalAmount = subtotal - order.DiscountAmount
	order.PaymentStatus = enum.DerivePaymentStatus(order.TotalAmount, order.PaidAmount, order.CreditAmount)

	return s.orderRepo.Update(ctx, order)
}

// CompletePaymentInput represents the settlement input
type CompletePaymentInput struct {
	OrderID   uuid.UUID
	Method    enum.PaymentMethod
	Amount    int64 // Cents handed over; at most the order total, may fall short (credit)
	CreatedBy uuid.UUID
}

// CompletePayment settles a pending order. A full payment closes it outright;
// a short payment or an explicit credit method books the shortfall onto the
// customer's credit balance, subject to their credit limit.
func (s *OrderService) CompletePayment(ctx context.Context, input *CompletePaymentInput) (*entity.Order, error) {
	if !input.Method.IsValid() {
		return nil, apperror.NewBadRequestError("Unknown payment method")
	}
	if input.Amount < 0 {
		return nil, apperror.ErrInvalidAmount
	}
	if input.Amount == 0 && input.Method != enum.PaymentMethodCredit {
		// Only a credit sale may collect nothing at the till.
		return nil, apperror.ErrInvalidAmount
	}

	order, err := s.orderRepo.GetWithItems(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if order.Status != enum.OrderStatusPending {
		return nil, apperror.NewBadRequestError("Order is not pending")
	}
	if len(order.Items) == 0 {
		return nil, apperror.NewBadRequestError("Order has no items")
	}

	if input.Amount > order.TotalAmount {
		// Change is handled at the till; the books never record an overpayment.
		return nil, apperror.ErrInvalidAmount
	}

	collected := input.Amount
	shortfall := order.TotalAmount - collected
	if input.Method == enum.PaymentMethodCredit && shortfall == 0 && order.TotalAmount > 0 {
		return nil, apperror.NewBadRequestError("Nothing to put on credit")
	}

	if shortfall > 0 {
		if order.CustomerID == nil {
			return nil, apperror.ErrCustomerRequired
		}

		ok, err := s.customerRepo.IncrementBalance(ctx, *order.CustomerID, shortfall)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperror.ErrCreditLimitExceeded
		}

		orderID := order.ID
		if err := s.creditTxRepo.Create(ctx, &entity.CreditTransaction{
			CustomerID:      *order.CustomerID,
			OrderID:         &orderID,
			TransactionType: enum.CreditTransactionCredit,
			Amount:          shortfall,
			CreatedBy:       input.CreatedBy,
		}); err != nil {
			// Keep the materialized balance in line with the log.
			_ = s.customerRepo.DecrementBalance(ctx, *order.CustomerID, shortfall)
			return nil, err
		}
	}

	order.PaymentMethod = input.Method
	order.PaidAmount = collected
	order.CreditAmount = shortfall
	order.Status = enum.OrderStatusCompleted
	order.PaymentStatus = enum.DerivePaymentStatus(order.TotalAmount, order.PaidAmount, order.CreditAmount)

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	s.bus.Publish(events.SettlementEvent{
		OrderID:     order.ID,
		CustomerID:  order.CustomerID,
		PaidAmount:  collected,
		CreditDelta: shortfall,
		OccurredAt:  time.Now(),
	})

	return order, nil
}

// PayCredit records a repayment against an order's outstanding credit
func (s *OrderService) PayCredit(ctx context.Context, orderID uuid.UUID, amount int64, createdBy uuid.UUID) (*entity.Order, error) {
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if order.CreditAmount <= 0 || order.CustomerID == nil {
		return nil, apperror.NewBadRequestError("Order has no outstanding credit")
	}
	if amount > order.CreditAmount {
		return nil, apperror.ErrInvalidAmount
	}

	if err := s.creditTxRepo.Create(ctx, &entity.CreditTransaction{
		CustomerID:      *order.CustomerID,
		OrderID:         &orderID,
		TransactionType: enum.CreditTransactionPayment,
		Amount:          amount,
		CreatedBy:       createdBy,
	}); err != nil {
		return nil, err
	}

	if err := s.customerRepo.DecrementBalance(ctx, *order.CustomerID, amount); err != nil {
		return nil, err
	}

	order.PaidAmount += amount
	order.CreditAmount -= amount
	order.PaymentStatus = enum.DerivePaymentStatus(order.TotalAmount, order.PaidAmount, order.CreditAmount)

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	s.bus.Publish(events.SettlementEvent{
		OrderID:     order.ID,
		CustomerID:  order.CustomerID,
		PaidAmount:  amount,
		CreditDelta: -amount,
		OccurredAt:  time.Now(),
	})

	return order, nil
}

// CancelOrder voids an order: reserved stock flows back through correction
// entries and any outstanding credit is written off the customer's balance.
// Fully paid orders cannot be cancelled.
func (s *OrderService) CancelOrder(ctx context.Context, orderID, createdBy uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if order.Status == enum.OrderStatusCancelled {
		return nil, apperror.NewBadRequestError("Order is already cancelled")
	}
	if order.PaymentStatus == enum.PaymentStatusPaid {
		return nil, apperror.NewBadRequestError("Paid orders cannot be cancelled")
	}

	if err := s.restoreStock(ctx, order, createdBy); err != nil {
		return nil, err
	}

	if err := s.writeOffCredit(ctx, order, createdBy); err != nil {
		return nil, err
	}

	order.Status = enum.OrderStatusCancelled
	order.PaymentStatus = enum.DerivePaymentStatus(order.TotalAmount, order.PaidAmount, order.CreditAmount)
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// DeleteOrder removes an order from day-to-day listings. The order is cancelled
// first if needed, then soft-deleted together with its items, so an audit row
// survives in the database.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID, createdBy uuid.UUID) error {
	order, err := s.orderRepo.GetWithItems(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}

	if order.Status != enum.OrderStatusCancelled {
		if err := s.restoreStock(ctx, order, createdBy); err != nil {
			return err
		}
		if err := s.writeOffCredit(ctx, order, createdBy); err != nil {
			return err
		}
		order.Status = enum.OrderStatusCancelled
		order.PaymentStatus = enum.DerivePaymentStatus(order.TotalAmount, order.PaidAmount, order.CreditAmount)
		if err := s.orderRepo.Update(ctx, order); err != nil {
			return err
		}
	}

	if err := s.orderItemRepo.DeleteByOrderID(ctx, order.ID); err != nil {
		return err
	}
	return s.orderRepo.Delete(ctx, order.ID)
}

// restoreStock writes a correction entry per countable line item
func (s *OrderService) restoreStock(ctx context.Context, order *entity.Order, createdBy uuid.UUID) error {
	if len(order.Items) == 0 {
		return nil
	}

	productIDs := make([]uuid.UUID, len(order.Items))
	for i, item := range order.Items {
		productIDs[i] = item.ProductID
	}
	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	for _, item := range order.Items {
		product, exists := productMap[item.ProductID]
		if !exists || !product.Countable() {
			continue
		}
		refID := item.ID
		if _, err := s.ledger.RecordEntry(ctx, &RecordEntryInput{
			ProductID:       item.ProductID,
			QuantityIn:      item.Quantity,
			UnitPrice:       item.UnitPrice,
			TransactionType: enum.LedgerTypeCorrection,
			ReferenceType:   enum.ReferenceTypeOrderItem,
			ReferenceID:     &refID,
			CreatedBy:       createdBy,
		}); err != nil {
			return err
		}
	}
	return nil
}

// writeOffCredit clears an order's outstanding credit through a payment
// transaction so the customer's log stays balanced.
func (s *OrderService) writeOffCredit(ctx context.Context, order *entity.Order, createdBy uuid.UUID) error {
	if order.CreditAmount <= 0 || order.CustomerID == nil {
		return nil
	}

	orderID := order.ID
	if err := s.creditTxRepo.Create(ctx, &entity.CreditTransaction{
		CustomerID:      *order.CustomerID,
		OrderID:         &orderID,
		TransactionType: enum.CreditTransactionPayment,
		Amount:          order.CreditAmount,
		CreatedBy:       createdBy,
	}); err != nil {
		return err
	}
	if err := s.customerRepo.DecrementBalance(ctx, *order.CustomerID, order.CreditAmount); err != nil {
		return err
	}
	order.CreditAmount = 0
	return nil
}

// TotalsReport describes the result of re-deriving an order's totals
type TotalsReport struct {
	OrderID        uuid.UUID `json:"order_id"`
	Consistent     bool      `json:"consistent"`
	StoredSubtotal int64     `json:"stored_subtotal"`
	FreshSubtotal  int64     `json:"fresh_subtotal"`
	StoredTotal    int64     `json:"stored_total"`
	FreshTotal     int64     `json:"fresh_total"`
}

// ReconcileTotals re-derives the order's money fields from its line items,
// repairs any drift and reports what it found.
func (s *OrderService) ReconcileTotals(ctx context.Context, orderID uuid.UUID) (*TotalsReport, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}

	report := &TotalsReport{
		OrderID:        order.ID,
		StoredSubtotal: order.Subtotal,
		StoredTotal:    order.TotalAmount,
	}

	if err := s.recomputeTotals(ctx, order); err != nil {
		return nil, err
	}

	report.FreshSubtotal = order.Subtotal
	report.FreshTotal = order.TotalAmount
	report.Consistent = report.StoredSubtotal == report.FreshSubtotal &&
		report.StoredTotal == report.FreshTotal
	return report, nil
}

// GetOrder retrieves an order with its items
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders lists orders with filtering
func (s *OrderService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) (*pagination.PaginatedResult[entity.Order], error) {
	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

// ListOrdersWithCursor lists orders with cursor-based pagination
func (s *OrderService) ListOrdersWithCursor(ctx context.Context, params *repository.OrderCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Order], error) {
	orders, err := s.orderRepo.ListWithCursor(ctx, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(orders, params.Cursor.Limit,
		func(o entity.Order) string { return o.ID.String() },
		func(o entity.Order) time.Time { return o.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// GetCreditOrders returns orders carrying an outstanding credit balance
func (s *OrderService) GetCreditOrders(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Order], error) {
	orders, total, err := s.orderRepo.GetCreditOrders(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}
