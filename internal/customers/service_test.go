package customers

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haroldnikoue/storefront-backend/pkg/db/models"
	pkgerrors "github.com/haroldnikoue/storefront-backend/pkg/errors"
	"github.com/haroldnikoue/storefront-backend/pkg/types"
)

type fakeCustomerRepo struct {
	customers []*models.Customer
	addresses []*models.Address

	maxCode    string
	addressErr error
	updates    map[string]any
}

func (f *fakeCustomerRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeCustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	for _, c := range f.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCustomerRepo) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	for _, c := range f.customers {
		if c.Email == strings.ToLower(email) {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCustomerRepo) Create(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	f.customers = append(f.customers, customer)
	return customer, nil
}

func (f *fakeCustomerRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	f.updates = fields
	return nil
}

func (f *fakeCustomerRepo) MaxCustomerCode(ctx context.Context) (string, error) {
	return f.maxCode, nil
}

func (f *fakeCustomerRepo) HasAddress(ctx context.Context, customerID uuid.UUID) (bool, error) {
	for _, a := range f.addresses {
		if a.CustomerID == customerID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCustomerRepo) CreateAddress(ctx context.Context, address *models.Address) error {
	if f.addressErr != nil {
		return f.addressErr
	}
	f.addresses = append(f.addresses, address)
	return nil
}

func strPtr(s string) *string { return &s }

func TestNextCustomerCode(t *testing.T) {
	cases := []struct {
		name    string
		maxCode string
		want    string
	}{
		{"empty table", "", "CUST-000001"},
		{"increments", "CUST-000041", "CUST-000042"},
		{"malformed restarts", "LEGACY-99", "CUST-000001"},
		{"grows past padding", "CUST-999999", "CUST-1000000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NextCustomerCode(tc.maxCode); got != tc.want {
				t.Fatalf("expected %s got %s", tc.want, got)
			}
		})
	}
}

func TestUpsertByEmailRequiresEmail(t *testing.T) {
	svc, err := NewService(&fakeCustomerRepo{}, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.UpsertByEmail(context.Background(), CustomerInfo{}, false)
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", gotErr)
	}
}

func TestUpsertByEmailCreatesGuest(t *testing.T) {
	repo := &fakeCustomerRepo{maxCode: "CUST-000007"}
	svc, _ := NewService(repo, nil)

	customer, err := svc.UpsertByEmail(context.Background(), CustomerInfo{
		Email:     "New@Example.COM",
		FirstName: "Nora",
	}, false)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if customer.Email != "new@example.com" {
		t.Fatalf("expected normalized email, got %s", customer.Email)
	}
	if customer.CustomerCode != "CUST-000008" {
		t.Fatalf("expected next code, got %s", customer.CustomerCode)
	}
	if !customer.IsGuest {
		t.Fatal("expected guest customer without profile creation")
	}
}

func TestUpsertByEmailCreateProfileClearsGuest(t *testing.T) {
	repo := &fakeCustomerRepo{}
	svc, _ := NewService(repo, nil)

	customer, err := svc.UpsertByEmail(context.Background(), CustomerInfo{
		Email:     "p@example.com",
		FirstName: "Pat",
	}, true)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if customer.IsGuest {
		t.Fatal("expected non-guest customer when profile requested")
	}
}

func TestUpsertByEmailDiffUpdatesOnlyChangedFields(t *testing.T) {
	existing := &models.Customer{
		ID:        uuid.New(),
		Email:     "d@example.com",
		FirstName: "Dana",
		Phone:     strPtr("111"),
	}
	repo := &fakeCustomerRepo{customers: []*models.Customer{existing}}
	svc, _ := NewService(repo, nil)

	updated, err := svc.UpsertByEmail(context.Background(), CustomerInfo{
		Email:     "d@example.com",
		FirstName: "Dana",
		Phone:     strPtr("222"),
	}, false)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if updated.ID != existing.ID {
		t.Fatal("expected existing customer reused")
	}
	if _, ok := repo.updates["first_name"]; ok {
		t.Fatal("unchanged first name must not be written")
	}
	if _, ok := repo.updates["phone"]; !ok {
		t.Fatal("changed phone must be written")
	}
	if _, ok := repo.updates["updated_at"]; !ok {
		t.Fatal("expected updated_at bump alongside changes")
	}
}

func TestUpsertByEmailNoChangesWritesNothing(t *testing.T) {
	existing := &models.Customer{
		ID:        uuid.New(),
		Email:     "same@example.com",
		FirstName: "Sam",
	}
	repo := &fakeCustomerRepo{customers: []*models.Customer{existing}}
	svc, _ := NewService(repo, nil)

	if _, err := svc.UpsertByEmail(context.Background(), CustomerInfo{
		Email:     "same@example.com",
		FirstName: "Sam",
	}, false); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if repo.updates != nil {
		t.Fatalf("expected no update call, got %v", repo.updates)
	}
}

func TestUpsertByEmailCompanyAsName(t *testing.T) {
	repo := &fakeCustomerRepo{}
	svc, _ := NewService(repo, nil)

	customer, err := svc.UpsertByEmail(context.Background(), CustomerInfo{
		Email:       "b2b@example.com",
		CompanyName: strPtr("Acme GmbH"),
	}, false)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if customer.FirstName != "Acme GmbH" {
		t.Fatalf("expected company used as display name, got %q", customer.FirstName)
	}
}

func TestEnsureDefaultAddressSkipsWhenPresent(t *testing.T) {
	customer := &models.Customer{ID: uuid.New()}
	repo := &fakeCustomerRepo{addresses: []*models.Address{{CustomerID: customer.ID}}}
	svc, _ := NewService(repo, nil)

	svc.EnsureDefaultAddress(context.Background(), customer, types.ShippingAddress{Line1: "1 Rue"})
	if len(repo.addresses) != 1 {
		t.Fatalf("expected no new address, got %d", len(repo.addresses))
	}
}

func TestEnsureDefaultAddressInsertsDefault(t *testing.T) {
	customer := &models.Customer{ID: uuid.New()}
	repo := &fakeCustomerRepo{}
	svc, _ := NewService(repo, nil)

	svc.EnsureDefaultAddress(context.Background(), customer, types.ShippingAddress{
		FirstName:  "Nora",
		Line1:      "1 Rue de Test",
		City:       "Lyon",
		PostalCode: "69001",
		Country:    "FR",
	})
	if len(repo.addresses) != 1 {
		t.Fatalf("expected address insert, got %d", len(repo.addresses))
	}
	if !repo.addresses[0].IsDefault {
		t.Fatal("expected inserted address to be the default")
	}
}
