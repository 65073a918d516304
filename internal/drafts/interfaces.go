package drafts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haroldnikoue/storefront-backend/pkg/db/models"
	"github.com/haroldnikoue/storefront-backend/pkg/types"
)

// Repository persists checkout drafts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindByID(ctx context.Context, id uuid.UUID) (*models.CheckoutDraft, error)
	FindResolvedByCustomer(ctx context.Context, customerID uuid.UUID) (*models.CheckoutDraft, error)
	FindAnyByCustomer(ctx context.Context, customerID uuid.UUID) (*models.CheckoutDraft, error)
	FindBySession(ctx context.Context, sessionID string) (*models.CheckoutDraft, error)

	Create(ctx context.Context, draft *models.CheckoutDraft) (*models.CheckoutDraft, error)
	UpdateData(ctx context.Context, id uuid.UUID, data types.DraftData) error
	MigrateSessionToCustomer(ctx context.Context, sessionID string, customerID uuid.UUID, data types.DraftData) (int64, error)

	DeleteByID(ctx context.Context, id uuid.UUID) error
	DeleteByCustomer(ctx context.Context, customerID uuid.UUID) error
	DeleteBySession(ctx context.Context, sessionID string) error
	DeleteAnonymousOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
