package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/marumbi/kahawa-api/internal/domain/entity"
	"github.com/marumbi/kahawa-api/internal/domain/enum"
	domainRepo "github.com/marumbi/kahawa-api/internal/domain/repository"
	"github.com/marumbi/kahawa-api/pkg/pagination"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Customer{}, "id = ?", id).Error
}

func (r *customerRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	var customers []entity.Customer
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Customer{})

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR phone ILIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&customers).Error

	return customers, total, err
}

// IncrementBalance applies the credit limit check and the balance bump in one
// conditional UPDATE so concurrent settlements cannot overshoot the limit.
func (r *customerRepository) IncrementBalance(ctx context.Context, id uuid.UUID, amount int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entity.Customer{}).
		Where("id = ? AND credit_balance + ? <= credit_limit", id, amount).
		Update("credit_balance", gorm.Expr("credit_balance + ?", amount))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *customerRepository) DecrementBalance(ctx context.Context, id uuid.UUID, amount int64) error {
	return r.db.WithContext(ctx).Model(&entity.Customer{}).
		Where("id = ?", id).
		Update("credit_balance", gorm.Expr("credit_balance - ?", amount)).Error
}

func (r *customerRepository) SetBalance(ctx context.Context, id uuid.UUID, balance int64) error {
	return r.db.WithContext(ctx).Model(&entity.Customer{}).
		Where("id = ?", id).
		Update("credit_balance", balance).Error
}

type creditTransactionRepository struct {
	db *gorm.DB
}

// NewCreditTransactionRepository creates a new credit transaction repository
func NewCreditTransactionRepository(db *gorm.DB) domainRepo.CreditTransactionRepository {
	return &creditTransactionRepository{db: db}
}

func (r *creditTransactionRepository) Create(ctx context.Context, tx *entity.CreditTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *creditTransactionRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.CreditTransaction, error) {
	var txs []entity.CreditTransaction
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC, id ASC").
		Find(&txs).Error
	return txs, err
}

func (r *creditTransactionRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, params *pagination.PaginationParams) ([]entity.CreditTransaction, int64, error) {
	var txs []entity.CreditTransaction
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.CreditTransaction{}).
		Where("customer_id = ?", customerID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&txs).Error

	return txs, total, err
}

// NetBalance re-derives the amount owed from the transaction log alone.
func (r *creditTransactionRepository) NetBalance(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var balance int64
	err := r.db.WithContext(ctx).Model(&entity.CreditTransaction{}).
		Select("COALESCE(SUM(CASE WHEN transaction_type = ? THEN amount ELSE -amount END), 0)", enum.CreditTransactionCredit).
		Where("customer_id = ?", customerID).
		Scan(&balance).Error
	return balance, err
}
