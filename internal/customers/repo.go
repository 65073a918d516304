// Package customers handles the upsert-by-email customer identity used at
// order time, plus best-effort address bookkeeping.
package customers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haroldnikoue/storefront-backend/pkg/db/models"
)

const customerCodePrefix = "CUST-"

// Repository persists customers and their addresses.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	MaxCustomerCode(ctx context.Context) (string, error)

	HasAddress(ctx context.Context, customerID uuid.UUID) (bool, error)
	CreateAddress(ctx context.Context, address *models.Address) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a customer repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) Create(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

func (r *repository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// MaxCustomerCode returns the highest existing code, or empty when the table
// has no customers yet.
func (r *repository) MaxCustomerCode(ctx context.Context) (string, error) {
	var code *string
	err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Select("MAX(customer_code)").
		Scan(&code).Error
	if err != nil {
		return "", err
	}
	if code == nil {
		return "", nil
	}
	return *code, nil
}

func (r *repository) HasAddress(ctx context.Context, customerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Address{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) CreateAddress(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Create(address).Error
}

// NextCustomerCode derives the next sequential CUST- code from the current
// maximum. A malformed or empty maximum restarts the sequence rather than
// failing an order over a vanity identifier.
func NextCustomerCode(maxCode string) string {
	next := 1
	if suffix, ok := strings.CutPrefix(maxCode, customerCodePrefix); ok {
		if parsed, err := strconv.Atoi(suffix); err == nil && parsed > 0 {
			next = parsed + 1
		}
	}
	return fmt.Sprintf("%s%06d", customerCodePrefix, next)
}
