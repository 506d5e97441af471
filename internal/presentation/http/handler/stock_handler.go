package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marumbi/kahawa-api/internal/application/service"
	"github.com/marumbi/kahawa-api/internal/domain/enum"
	"github.com/marumbi/kahawa-api/internal/presentation/http/dto/request"
	"github.com/marumbi/kahawa-api/internal/presentation/http/dto/response"
	"github.com/marumbi/kahawa-api/pkg/pagination"
)

// StockHandler handles inventory ledger HTTP requests
type StockHandler struct {
	ledgerService *service.LedgerService
}

// NewStockHandler creates a new stock handler
func NewStockHandler(ledgerService *service.LedgerService) *StockHandler {
	return &StockHandler{ledgerService: ledgerService}
}

// CurrentStock handles GET /stock/:productId
func (h *StockHandler) CurrentStock(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	stock, err := h.ledgerService.CurrentStock(c.Request.Context(), productID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Current stock retrieved", gin.H{
		"product_id":    productID,
		"current_stock": stock,
	})
}

// History handles GET /stock/:productId/history with cursor pagination
func (h *StockHandler) History(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	params := pagination.DefaultCursorParams()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.ledgerService.History(c.Request.Context(), productID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock history retrieved", result)
}

// Adjust handles POST /stock/adjustments for manual stock corrections
func (h *StockHandler) Adjust(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	entry, err := h.ledgerService.RecordEntry(c.Request.Context(), &service.RecordEntryInput{
		ProductID:       req.ProductID,
		QuantityIn:      req.QuantityIn,
		QuantityOut:     req.QuantityOut,
		UnitPrice:       toCents(req.UnitPrice),
		TransactionType: enum.LedgerTypeAdjustment,
		ReferenceType:   enum.ReferenceTypeManual,
		CreatedBy:       userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Stock adjusted", entry)
}

// Reverse handles POST /stock/entries/:id/reverse. The original entry stays
// untouched; a compensating correction entry is appended instead.
func (h *StockHandler) Reverse(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid entry ID")
		return
	}

	entry, err := h.ledgerService.Reverse(c.Request.Context(), entryID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Entry reversed", entry)
}
