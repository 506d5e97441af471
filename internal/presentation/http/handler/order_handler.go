package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marumbi/kahawa-api/internal/application/service"
	"github.com/marumbi/kahawa-api/internal/domain/enum"
	"github.com/marumbi/kahawa-api/internal/domain/repository"
	"github.com/marumbi/kahawa-api/internal/presentation/http/dto/request"
	"github.com/marumbi/kahawa-api/internal/presentation/http/dto/response"
	"github.com/marumbi/kahawa-api/pkg/pagination"
)

// OrderHandler handles order HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create handles POST /orders
func (h *OrderHandler) Create(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &service.CreateOrderInput{
		OrderType:    req.OrderType,
		TableNo:      req.TableNo,
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		CreatedBy:    userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order created", order)
}

// Get handles GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved", order)
}

// AddItem handles POST /orders/:id/items
func (h *OrderHandler) AddItem(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.AddOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.orderService.AddItem(c.Request.Context(), orderID, req.ProductID, req.Quantity, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added", order)
}

// RemoveItem handles DELETE /orders/:id/items/:itemId
func (h *OrderHandler) RemoveItem(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	order, err := h.orderService.RemoveItem(c.Request.Context(), orderID, itemID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item removed", order)
}

// UpdateDiscount handles PUT /orders/:id/discount
func (h *OrderHandler) UpdateDiscount(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.UpdateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.orderService.UpdateDiscount(c.Request.Context(), orderID, req.DiscountPercent)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount updated", order)
}

// CompletePayment handles POST /orders/:id/payment
func (h *OrderHandler) CompletePayment(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.CompletePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.orderService.CompletePayment(c.Request.Context(), &service.CompletePaymentInput{
		OrderID:   orderID,
		Method:    req.Method,
		Amount:    toCents(req.Amount),
		CreatedBy: userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment completed", order)
}

// PayCredit handles POST /orders/:id/pay-credit
func (h *OrderHandler) PayCredit(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.PayCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.orderService.PayCredit(c.Request.Context(), orderID, toCents(req.Amount), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Credit payment recorded", order)
}

// Cancel handles POST /orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.CancelOrder(c.Request.Context(), orderID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order cancelled", order)
}

// Delete handles DELETE /orders/:id
func (h *OrderHandler) Delete(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), orderID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ReconcileTotals handles GET /orders/:id/reconcile
func (h *OrderHandler) ReconcileTotals(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	report, err := h.orderService.ReconcileTotals(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Totals reconciled", report)
}

// CreditOrders handles GET /orders/credit
func (h *OrderHandler) CreditOrders(c *gin.Context) {
	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.orderService.GetCreditOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Credit orders retrieved", result)
}

// List handles GET /orders. When a cursor (or explicit use_cursor flag) is
// present it uses keyset pagination, which stays stable while tills keep
// appending orders; otherwise it falls back to page-based pagination.
func (h *OrderHandler) List(c *gin.Context) {
	if c.Query("cursor") != "" || c.Query("use_cursor") == "true" {
		h.listWithCursor(c)
		return
	}

	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	filter := &repository.OrderFilterParams{
		Pagination: params,
		Search:     c.Query("search"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}

	if err := h.bindCommonFilters(c, &filter.Status, &filter.CustomerID, &filter.StartDate, &filter.EndDate); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if ps := c.Query("payment_status"); ps != "" {
		status, ok := parsePaymentStatus(ps)
		if !ok {
			response.BadRequest(c, "Invalid payment status filter")
			return
		}
		filter.PaymentStatus = &status
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Orders retrieved", result)
}

func (h *OrderHandler) listWithCursor(c *gin.Context) {
	params := pagination.DefaultCursorParams()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	filter := &repository.OrderCursorFilterParams{
		Cursor: params,
		Search: c.Query("search"),
	}

	if err := h.bindCommonFilters(c, &filter.Status, &filter.CustomerID, &filter.StartDate, &filter.EndDate); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.orderService.ListOrdersWithCursor(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Orders retrieved", result)
}

func (h *OrderHandler) bindCommonFilters(c *gin.Context, status **enum.OrderStatus, customerID **uuid.UUID, startDate, endDate **time.Time) error {
	if s := c.Query("status"); s != "" {
		parsed, ok := parseOrderStatus(s)
		if !ok {
			return errInvalidFilter("status")
		}
		*status = &parsed
	}

	if cid := c.Query("customer_id"); cid != "" {
		id, err := uuid.Parse(cid)
		if err != nil {
			return errInvalidFilter("customer_id")
		}
		*customerID = &id
	}

	if sd := c.Query("start_date"); sd != "" {
		t, err := time.Parse("2006-01-02", sd)
		if err != nil {
			return errInvalidFilter("start_date")
		}
		*startDate = &t
	}

	if ed := c.Query("end_date"); ed != "" {
		t, err := time.Parse("2006-01-02", ed)
		if err != nil {
			return errInvalidFilter("end_date")
		}
		// Include the whole end day
		t = t.Add(24*time.Hour - time.Nanosecond)
		*endDate = &t
	}

	return nil
}

type filterError string

func (e filterError) Error() string { return string(e) }

func errInvalidFilter(name string) error {
	return filterError("Invalid " + name + " filter")
}

func parseOrderStatus(s string) (enum.OrderStatus, bool) {
	switch strings.ToLower(s) {
	case "pending":
		return enum.OrderStatusPending, true
	case "completed":
		return enum.OrderStatusCompleted, true
	case "cancelled":
		return enum.OrderStatusCancelled, true
	}
	return 0, false
}

func parsePaymentStatus(s string) (enum.PaymentStatus, bool) {
	switch strings.ToLower(s) {
	case "unpaid":
		return enum.PaymentStatusUnpaid, true
	case "partial":
		return enum.PaymentStatusPartial, true
	case "paid":
		return enum.PaymentStatusPaid, true
	}
	return 0, false
}
