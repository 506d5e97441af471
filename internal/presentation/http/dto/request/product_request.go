package request

import "github.com/google/uuid"

// CreateProductRequest represents the create product request payload.
// Prices are in major currency units and converted to cents at the handler.
type CreateProductRequest struct {
	Name            string     `json:"name" binding:"required,min=2,max=200"`
	CategoryID      *uuid.UUID `json:"category_id,omitempty"`
	Code            string     `json:"code,omitempty"`
	SellingPrice    float64    `json:"selling_price" binding:"gte=0"`
	TracksInventory bool       `json:"tracks_inventory"`
	StockAlert      int        `json:"stock_alert" binding:"gte=0"`
}

// UpdateProductRequest represents the update product request payload
type UpdateProductRequest struct {
	Name            *string    `json:"name,omitempty" binding:"omitempty,min=2,max=200"`
	CategoryID      *uuid.UUID `json:"category_id,omitempty"`
	SellingPrice    *float64   `json:"selling_price,omitempty" binding:"omitempty,gte=0"`
	TracksInventory *bool      `json:"tracks_inventory,omitempty"`
	StockAlert      *int       `json:"stock_alert,omitempty" binding:"omitempty,gte=0"`
}

// CreateCategoryRequest represents the create category request payload
type CreateCategoryRequest struct {
	Name      string `json:"name" binding:"required,min=2,max=100"`
	Countable bool   `json:"countable"`
}

// UpdateCategoryRequest represents the update category request payload
type UpdateCategoryRequest struct {
	Name      *string `json:"name,omitempty" binding:"omitempty,min=2,max=100"`
	Countable *bool   `json:"countable,omitempty"`
}
