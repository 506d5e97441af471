package request

// CreateCustomerRequest represents the create customer request payload
type CreateCustomerRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=100"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty" binding:"omitempty,email"`
	Address     *string `json:"address,omitempty"`
	CreditLimit float64 `json:"credit_limit" binding:"gte=0"`
}

// UpdateCustomerRequest represents the update customer request payload
type UpdateCustomerRequest struct {
	Name        *string  `json:"name,omitempty" binding:"omitempty,min=2,max=100"`
	Phone       *string  `json:"phone,omitempty"`
	Email       *string  `json:"email,omitempty" binding:"omitempty,email"`
	Address     *string  `json:"address,omitempty"`
	CreditLimit *float64 `json:"credit_limit,omitempty" binding:"omitempty,gte=0"`
}

// GrantCreditRequest represents a manual credit grant request payload
type GrantCreditRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// RecordPaymentRequest represents a credit repayment request payload
type RecordPaymentRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}
