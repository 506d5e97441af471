package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/marumbi/kahawa-api/internal/domain/entity"
	"github.com/marumbi/kahawa-api/internal/domain/enum"
	"github.com/marumbi/kahawa-api/internal/domain/repository"
	"github.com/marumbi/kahawa-api/pkg/apperror"
	"github.com/marumbi/kahawa-api/pkg/pagination"
)

// CustomerService handles customer records and their credit ledger
type CustomerService struct {
	customerRepo repository.CustomerRepository
	creditTxRepo repository.CreditTransactionRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(
	customerRepo repository.CustomerRepository,
	creditTxRepo repository.CreditTransactionRepository,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		creditTxRepo: creditTxRepo,
	}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	Name        string
	Phone       *string
	Email       *string
	Address     *string
	CreditLimit int64 // Cents
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	if input.CreditLimit < 0 {
		return nil, apperror.NewBadRequestError("Credit limit must not be negative")
	}

	customer := &entity.Customer{
		Name:        input.Name,
		Phone:       input.Phone,
		Email:       input.Email,
		Address:     input.Address,
		CreditLimit: input.CreditLimit,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// UpdateCustomerInput represents the update customer input
type UpdateCustomerInput struct {
	Name        *string
	Phone       *string
	Email       *string
	Address     *string
	CreditLimit *int64
}

// UpdateCustomer updates a customer's details. Lowering the credit limit below
// the current balance is allowed; it only blocks further credit.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.Address != nil {
		customer.Address = input.Address
	}
	if input.CreditLimit != nil {
		if *input.CreditLimit < 0 {
			return nil, apperror.NewBadRequestError("Credit limit must not be negative")
		}
		customer.CreditLimit = *input.CreditLimit
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// DeleteCustomer soft-deletes a customer. Customers still owing money keep
// their record until the balance is settled.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}
	if customer.CreditBalance > 0 {
		return apperror.NewConflictError("Customer has an outstanding credit balance")
	}
	return s.customerRepo.Delete(ctx, id)
}

// ListCustomers lists customers with optional search
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// GrantCredit books a manual credit grant (not tied to an order) onto the
// customer's balance, subject to their credit limit.
func (s *CustomerService) GrantCredit(ctx context.Context, customerID uuid.UUID, amount int64, createdBy uuid.UUID) (*entity.Customer, error) {
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount
	}

	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	ok, err := s.customerRepo.IncrementBalance(ctx, customerID, amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.ErrCreditLimitExceeded
	}

	if err := s.creditTxRepo.Create(ctx, &entity.CreditTransaction{
		CustomerID:      customerID,
		TransactionType: enum.CreditTransactionCredit,
		Amount:          amount,
		CreatedBy:       createdBy,
	}); err != nil {
		_ = s.customerRepo.DecrementBalance(ctx, customerID, amount)
		return nil, err
	}

	return s.customerRepo.GetByID(ctx, customerID)
}

// RecordPayment books a repayment against the customer's overall balance,
// independent of any single order.
func (s *CustomerService) RecordPayment(ctx context.Context, customerID uuid.UUID, amount int64, createdBy uuid.UUID) (*entity.Customer, error) {
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount
	}

	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	if amount > customer.CreditBalance {
		return nil, apperror.ErrInvalidAmount
	}

	if err := s.creditTxRepo.Create(ctx, &entity.CreditTransaction{
		CustomerID:      customerID,
		TransactionType: enum.CreditTransactionPayment,
		Amount:          amount,
		CreatedBy:       createdBy,
	}); err != nil {
		return nil, err
	}

	if err := s.customerRepo.DecrementBalance(ctx, customerID, amount); err != nil {
		return nil, err
	}

	return s.customerRepo.GetByID(ctx, customerID)
}

// ListTransactions pages through a customer's credit transaction log
func (s *CustomerService) ListTransactions(ctx context.Context, customerID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.CreditTransaction], error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	txs, total, err := s.creditTxRepo.ListByCustomer(ctx, customerID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(txs, pag), nil
}

// BalanceReport describes the result of re-deriving a customer's balance
type BalanceReport struct {
	CustomerID    uuid.UUID `json:"customer_id"`
	Consistent    bool      `json:"consistent"`
	StoredBalance int64     `json:"stored_balance"`
	LedgerBalance int64     `json:"ledger_balance"`
}

// ReconcileBalance re-derives the customer's balance from the transaction log,
// repairs the materialized value if it drifted, and reports what it found.
func (s *CustomerService) ReconcileBalance(ctx context.Context, customerID uuid.UUID) (*BalanceReport, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	ledgerBalance, err := s.creditTxRepo.NetBalance(ctx, customerID)
	if err != nil {
		return nil, err
	}

	report := &BalanceReport{
		CustomerID:    customerID,
		StoredBalance: customer.CreditBalance,
		LedgerBalance: ledgerBalance,
		Consistent:    customer.CreditBalance == ledgerBalance,
	}

	if !report.Consistent {
		if err := s.customerRepo.SetBalance(ctx, customerID, ledgerBalance); err != nil {
			return nil, err
		}
	}
	return report, nil
}
