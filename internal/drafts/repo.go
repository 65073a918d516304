package drafts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haroldnikoue/storefront-backend/pkg/db/models"
	"github.com/haroldnikoue/storefront-backend/pkg/types"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a drafts repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CheckoutDraft, error) {
	var draft models.CheckoutDraft
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&draft).Error
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

// FindResolvedByCustomer returns the fully migrated row: customer set,
// session cleared.
func (r *repository) FindResolvedByCustomer(ctx context.Context, customerID uuid.UUID) (*models.CheckoutDraft, error) {
	var draft models.CheckoutDraft
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND session_id IS NULL", customerID).
		First(&draft).Error
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *repository) FindAnyByCustomer(ctx context.Context, customerID uuid.UUID) (*models.CheckoutDraft, error) {
	var draft models.CheckoutDraft
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("updated_at DESC").
		First(&draft).Error
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *repository) FindBySession(ctx context.Context, sessionID string) (*models.CheckoutDraft, error) {
	var draft models.CheckoutDraft
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&draft).Error
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *repository) Create(ctx context.Context, draft *models.CheckoutDraft) (*models.CheckoutDraft, error) {
	if err := r.db.WithContext(ctx).Create(draft).Error; err != nil {
		return nil, err
	}
	return draft, nil
}

// UpdateData goes through a struct update so the jsonb serializer applies.
func (r *repository) UpdateData(ctx context.Context, id uuid.UUID, data types.DraftData) error {
	return r.db.WithContext(ctx).
		Model(&models.CheckoutDraft{}).
		Where("id = ?", id).
		Select("draft_data").
		Updates(&models.CheckoutDraft{DraftData: data}).Error
}

// MigrateSessionToCustomer reassigns a session draft to a customer in one
// UPDATE: customer set, session cleared, merged data written. The WHERE
// clause only matches a still-anonymous session row, so a concurrent
// migration that got there first leaves this one with zero rows affected.
func (r *repository) MigrateSessionToCustomer(ctx context.Context, sessionID string, customerID uuid.UUID, data types.DraftData) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CheckoutDraft{}).
		Where("session_id = ? AND customer_id IS NULL", sessionID).
		Select("customer_id", "session_id", "draft_data").
		Updates(&models.CheckoutDraft{
			CustomerID: &customerID,
			SessionID:  nil,
			DraftData:  data,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.CheckoutDraft{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) DeleteByCustomer(ctx context.Context, customerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Delete(&models.CheckoutDraft{}).Error
}

func (r *repository) DeleteBySession(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.CheckoutDraft{}).Error
}

func (r *repository) DeleteAnonymousOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("customer_id IS NULL AND updated_at < ?", cutoff).
		Delete(&models.CheckoutDraft{})
	return result.RowsAffected, result.Error
}
