package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marumbi/kahawa-api/internal/application/service"
	"github.com/marumbi/kahawa-api/internal/domain/repository"
	"github.com/marumbi/kahawa-api/internal/presentation/http/dto/request"
	"github.com/marumbi/kahawa-api/internal/presentation/http/dto/response"
	"github.com/marumbi/kahawa-api/pkg/pagination"
)

// PurchaseHandler handles purchase HTTP requests
type PurchaseHandler struct {
	purchaseService *service.PurchaseService
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(purchaseService *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// Create handles POST /purchases
func (h *PurchaseHandler) Create(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	items := make([]service.PurchaseItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.PurchaseItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitCost:  toCents(item.UnitCost),
		})
	}

	purchase, err := h.purchaseService.CreatePurchase(c.Request.Context(), &service.CreatePurchaseInput{
		SupplierID:      req.SupplierID,
		Status:          req.Status,
		DiscountPercent: req.DiscountPercent,
		TaxPercent:      req.TaxPercent,
		Items:           items,
		CreatedBy:       userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Purchase recorded", purchase)
}

// Get handles GET /purchases/:id
func (h *PurchaseHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid purchase ID")
		return
	}

	purchase, err := h.purchaseService.GetPurchase(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase retrieved", purchase)
}

// Correct handles POST /purchases/:id/correct. A purchase is never edited in
// place; correction appends reversing ledger entries for every stock-in line.
func (h *PurchaseHandler) Correct(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid purchase ID")
		return
	}

	if err := h.purchaseService.CorrectPurchase(c.Request.Context(), id, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase corrected", nil)
}

// List handles GET /purchases
func (h *PurchaseHandler) List(c *gin.Context) {
	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	filter := &repository.PurchaseFilterParams{
		Pagination: params,
		Search:     c.Query("search"),
	}

	if sid := c.Query("supplier_id"); sid != "" {
		id, err := uuid.Parse(sid)
		if err != nil {
			response.BadRequest(c, "Invalid supplier ID")
			return
		}
		filter.SupplierID = &id
	}

	if sd := c.Query("start_date"); sd != "" {
		t, err := time.Parse("2006-01-02", sd)
		if err != nil {
			response.BadRequest(c, "Invalid start_date filter")
			return
		}
		filter.StartDate = &t
	}

	if ed := c.Query("end_date"); ed != "" {
		t, err := time.Parse("2006-01-02", ed)
		if err != nil {
			response.BadRequest(c, "Invalid end_date filter")
			return
		}
		t = t.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &t
	}

	result, err := h.purchaseService.ListPurchases(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Purchases retrieved", result)
}
