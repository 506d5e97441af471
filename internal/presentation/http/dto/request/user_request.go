package request

// CreateUserRequest represents the create user request payload
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=admin manager cashier"`
}

// UpdateUserRequest represents the update user request payload
type UpdateUserRequest struct {
	Name   *string `json:"name,omitempty" binding:"omitempty,min=2,max=100"`
	Role   *string `json:"role,omitempty" binding:"omitempty,oneof=admin manager cashier"`
	Active *bool   `json:"active,omitempty"`
}
