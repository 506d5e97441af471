package request

// SupplierRequest represents the create/update supplier request payload
type SupplierRequest struct {
	Name    string  `json:"name" binding:"required,min=2,max=100"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty" binding:"omitempty,email"`
	Address *string `json:"address,omitempty"`
}
