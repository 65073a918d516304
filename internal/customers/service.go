package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/haroldnikoue/storefront-backend/pkg/db/models"
	"github.com/haroldnikoue/storefront-backend/pkg/enums"
	pkgerrors "github.com/haroldnikoue/storefront-backend/pkg/errors"
	"github.com/haroldnikoue/storefront-backend/pkg/logger"
	"github.com/haroldnikoue/storefront-backend/pkg/types"
)

// CustomerInfo is the identity block submitted with an order.
type CustomerInfo struct {
	Email       string
	FirstName   string
	LastName    *string
	Phone       *string
	CompanyName *string
	DateOfBirth *time.Time
	Gender      *string
}

// Service upserts customers by email and keeps address bookkeeping
// best-effort.
type Service interface {
	UpsertByEmail(ctx context.Context, info CustomerInfo, createProfile bool) (*models.Customer, error)
	EnsureDefaultAddress(ctx context.Context, customer *models.Customer, address types.ShippingAddress)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService wires the customer service.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customers repository is required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// UpsertByEmail finds the customer by email and diff-updates only the scalar
// fields that actually changed, or inserts a new customer with the next
// sequential code. New customers are guests unless profile creation was
// requested.
func (s *service) UpsertByEmail(ctx context.Context, info CustomerInfo, createProfile bool) (*models.Customer, error) {
	email := strings.ToLower(strings.TrimSpace(info.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return s.diffUpdate(ctx, existing, info, createProfile)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up customer")
	}

	maxCode, err := s.repo.MaxCustomerCode(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deriving customer code")
	}

	created, err := s.repo.Create(ctx, &models.Customer{
		CustomerCode: NextCustomerCode(maxCode),
		Email:        email,
		FirstName:    firstNameOf(info),
		LastName:     info.LastName,
		Phone:        info.Phone,
		CompanyName:  info.CompanyName,
		DateOfBirth:  info.DateOfBirth,
		Gender:       info.Gender,
		IsGuest:      !createProfile,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating customer")
	}
	return created, nil
}

// firstNameOf falls back to the company name when no person name was given,
// so B2B guest checkouts still produce a displayable customer.
func firstNameOf(info CustomerInfo) string {
	if info.FirstName != "" {
		return info.FirstName
	}
	if info.CompanyName != nil {
		return *info.CompanyName
	}
	return ""
}

func (s *service) diffUpdate(ctx context.Context, existing *models.Customer, info CustomerInfo, createProfile bool) (*models.Customer, error) {
	fields := map[string]any{}

	if name := firstNameOf(info); name != "" && name != existing.FirstName {
		fields["first_name"] = name
		existing.FirstName = name
	}
	if changedPtr(existing.LastName, info.LastName) {
		fields["last_name"] = info.LastName
		existing.LastName = info.LastName
	}
	if changedPtr(existing.Phone, info.Phone) {
		fields["phone"] = info.Phone
		existing.Phone = info.Phone
	}
	if changedPtr(existing.CompanyName, info.CompanyName) {
		fields["company_name"] = info.CompanyName
		existing.CompanyName = info.CompanyName
	}
	if info.DateOfBirth != nil && (existing.DateOfBirth == nil || !existing.DateOfBirth.Equal(*info.DateOfBirth)) {
		fields["date_of_birth"] = info.DateOfBirth
		existing.DateOfBirth = info.DateOfBirth
	}
	if changedPtr(existing.Gender, info.Gender) {
		fields["gender"] = info.Gender
		existing.Gender = info.Gender
	}
	if createProfile && existing.IsGuest {
		fields["is_guest"] = false
		existing.IsGuest = false
	}

	if len(fields) == 0 {
		return existing, nil
	}
	fields["updated_at"] = time.Now().UTC()
	if err := s.repo.UpdateFields(ctx, existing.ID, fields); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating customer")
	}
	return existing, nil
}

// changedPtr reports whether the incoming value is present and differs.
// An absent incoming value never clears a stored one.
func changedPtr(current, incoming *string) bool {
	if incoming == nil {
		return false
	}
	return current == nil || *current != *incoming
}

// EnsureDefaultAddress inserts a default shipping address when the customer
// has none. Failures are logged and swallowed: an order must never be lost
// over address bookkeeping.
func (s *service) EnsureDefaultAddress(ctx context.Context, customer *models.Customer, address types.ShippingAddress) {
	has, err := s.repo.HasAddress(ctx, customer.ID)
	if err != nil {
		s.warn(ctx, "checking customer addresses failed", err)
		return
	}
	if has {
		return
	}

	record := &models.Address{
		CustomerID: customer.ID,
		Type:       enums.AddressTypeShipping,
		FirstName:  address.FirstName,
		Line1:      address.Line1,
		City:       address.City,
		PostalCode: address.PostalCode,
		Country:    address.Country,
		IsDefault:  true,
	}
	if address.LastName != "" {
		record.LastName = &address.LastName
	}
	if address.Line2 != "" {
		record.Line2 = &address.Line2
	}
	if address.State != "" {
		record.State = &address.State
	}
	if address.Phone != "" {
		record.Phone = &address.Phone
	}

	if err := s.repo.CreateAddress(ctx, record); err != nil {
		s.warn(ctx, "saving default address failed", err)
	}
}

func (s *service) warn(ctx context.Context, msg string, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(s.logg.WithField(ctx, "cause", err.Error()), msg)
}
