// Package drafts implements the checkout draft store. A draft is partial
// checkout form state keyed by a customer identity, a session identity, or
// both during the window where an anonymous session signs in and its draft
// migrates to the customer.
package drafts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haroldnikoue/storefront-backend/pkg/config"
	"github.com/haroldnikoue/storefront-backend/pkg/db/models"
	pkgerrors "github.com/haroldnikoue/storefront-backend/pkg/errors"
	"github.com/haroldnikoue/storefront-backend/pkg/logger"
	"github.com/haroldnikoue/storefront-backend/pkg/types"
)

// migrationLocker is the advisory-lock surface the migration path needs.
// *redis.Client satisfies it.
type migrationLocker interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	DraftMigrationLockKey(sessionID string) string
}

// SaveDraftInput carries one save call. At least one identity is required.
type SaveDraftInput struct {
	CustomerID *uuid.UUID
	SessionID  *string
	Data       types.DraftData
}

// DeleteDraftInput deletes by the most specific identifier present:
// draft id, then customer id, then session id.
type DeleteDraftInput struct {
	DraftID    *uuid.UUID
	CustomerID *uuid.UUID
	SessionID  *string
}

// Service exposes checkout draft operations.
type Service interface {
	GetDraft(ctx context.Context, customerID *uuid.UUID, sessionID *string) (*models.CheckoutDraft, error)
	SaveDraft(ctx context.Context, input SaveDraftInput) (*models.CheckoutDraft, error)
	DeleteDraft(ctx context.Context, input DeleteDraftInput) error
	CleanupOldDrafts(ctx context.Context, daysOld int) (int64, error)
}

type service struct {
	repo     Repository
	locker   migrationLocker
	validate *validator.Validate
	cfg      config.DraftsConfig
	logg     *logger.Logger
}

// NewService wires the draft service. The locker is optional; without it the
// migration path runs unguarded.
func NewService(repo Repository, locker migrationLocker, validate *validator.Validate, cfg config.DraftsConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("drafts repository is required")
	}
	if validate == nil {
		validate = validator.New()
	}
	return &service{
		repo:     repo,
		locker:   locker,
		validate: validate,
		cfg:      cfg,
		logg:     logg,
	}, nil
}

// GetDraft resolves a draft with customer precedence: the fully migrated row
// (customer set, session null) first, any customer row second, the session
// row last. No match returns nil, not an error. Stored content is validated
// on the way out so a corrupted draft surfaces instead of feeding checkout.
func (s *service) GetDraft(ctx context.Context, customerID *uuid.UUID, sessionID *string) (*models.CheckoutDraft, error) {
	if customerID == nil && (sessionID == nil || *sessionID == "") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id or session id is required")
	}

	var draft *models.CheckoutDraft
	var err error
	if customerID != nil {
		draft, err = s.repo.FindResolvedByCustomer(ctx, *customerID)
		if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
			draft, err = s.repo.FindAnyByCustomer(ctx, *customerID)
		}
	} else {
		draft, err = s.repo.FindBySession(ctx, *sessionID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up draft")
	}

	if err := ValidateDraftData(s.validate, draft.DraftData); err != nil {
		return nil, err
	}
	return draft, nil
}

// SaveDraft validates then writes. With a customer identity it updates the
// customer's row, migrates a session row when the customer has none, or
// inserts fresh. With only a session identity it upserts the session row.
func (s *service) SaveDraft(ctx context.Context, input SaveDraftInput) (*models.CheckoutDraft, error) {
	if input.CustomerID == nil && (input.SessionID == nil || *input.SessionID == "") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id or session id is required")
	}
	if err := ValidateDraftData(s.validate, input.Data); err != nil {
		return nil, err
	}

	if input.CustomerID != nil {
		return s.saveForCustomer(ctx, *input.CustomerID, input.SessionID, input.Data)
	}
	return s.saveForSession(ctx, *input.SessionID, input.Data)
}

func (s *service) saveForCustomer(ctx context.Context, customerID uuid.UUID, sessionID *string, data types.DraftData) (*models.CheckoutDraft, error) {
	existing, err := s.repo.FindResolvedByCustomer(ctx, customerID)
	if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		existing, err = s.repo.FindAnyByCustomer(ctx, customerID)
	}
	if err == nil {
		return s.mergeInto(ctx, existing, data)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up customer draft")
	}

	if sessionID != nil && *sessionID != "" {
		draft, migrated, err := s.migrate(ctx, *sessionID, customerID, data)
		if err != nil {
			return nil, err
		}
		if migrated {
			return draft, nil
		}
	}

	created, err := s.repo.Create(ctx, &models.CheckoutDraft{
		CustomerID: &customerID,
		DraftData:  data.Clone(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating customer draft")
	}
	return created, nil
}

func (s *service) saveForSession(ctx context.Context, sessionID string, data types.DraftData) (*models.CheckoutDraft, error) {
	existing, err := s.repo.FindBySession(ctx, sessionID)
	if err == nil {
		return s.mergeInto(ctx, existing, data)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up session draft")
	}

	created, err := s.repo.Create(ctx, &models.CheckoutDraft{
		SessionID: &sessionID,
		DraftData: data.Clone(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating session draft")
	}
	return created, nil
}

func (s *service) mergeInto(ctx context.Context, existing *models.CheckoutDraft, data types.DraftData) (*models.CheckoutDraft, error) {
	merged := MergeDraftData(existing.DraftData, data)
	if err := s.repo.UpdateData(ctx, existing.ID, merged); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating draft")
	}
	existing.DraftData = merged
	existing.UpdatedAt = time.Now().UTC()
	return existing, nil
}

// migrate moves a session draft to the customer in a single guarded UPDATE.
// Two tabs saving at sign-in is a real pattern, so the session id is locked
// for the duration; a held lock means the other call is mid-migration and
// this one reports a retryable conflict. A redis fault degrades to the
// unguarded update rather than blocking checkout on the cache tier.
func (s *service) migrate(ctx context.Context, sessionID string, customerID uuid.UUID, data types.DraftData) (*models.CheckoutDraft, bool, error) {
	if s.locker != nil {
		key := s.locker.DraftMigrationLockKey(sessionID)
		acquired, err := s.locker.SetNX(ctx, key, customerID.String(), s.cfg.MigrationLockTTL)
		if err != nil {
			if s.logg != nil {
				s.logg.Warn(ctx, "draft migration lock unavailable, proceeding unguarded")
			}
		} else if !acquired {
			return nil, false, pkgerrors.New(pkgerrors.CodeConflict, "draft migration already in progress")
		} else {
			defer func() {
				if err := s.locker.Del(context.WithoutCancel(ctx), key); err != nil && s.logg != nil {
					s.logg.Warn(ctx, "failed to release draft migration lock")
				}
			}()
		}
	}

	sessionDraft, err := s.repo.FindBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up session draft")
	}

	merged := MergeDraftData(sessionDraft.DraftData, data)
	affected, err := s.repo.MigrateSessionToCustomer(ctx, sessionID, customerID, merged)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "migrating session draft")
	}
	if affected == 0 {
		// Lost the race: the row is no longer an anonymous session draft.
		return nil, false, nil
	}

	sessionDraft.CustomerID = &customerID
	sessionDraft.SessionID = nil
	sessionDraft.DraftData = merged
	sessionDraft.UpdatedAt = time.Now().UTC()
	return sessionDraft, true, nil
}

// DeleteDraft requires at least one identifier and honors specificity:
// draft id beats customer id beats session id.
func (s *service) DeleteDraft(ctx context.Context, input DeleteDraftInput) error {
	switch {
	case input.DraftID != nil:
		err := s.repo.DeleteByID(ctx, *input.DraftID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "draft not found")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting draft")
		}
		return nil
	case input.CustomerID != nil:
		if err := s.repo.DeleteByCustomer(ctx, *input.CustomerID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting customer drafts")
		}
		return nil
	case input.SessionID != nil && *input.SessionID != "":
		if err := s.repo.DeleteBySession(ctx, *input.SessionID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting session draft")
		}
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one identifier is required")
	}
}

// CleanupOldDrafts sweeps anonymous drafts older than the cutoff and returns
// the number removed. A non-positive daysOld falls back to the configured
// retention.
func (s *service) CleanupOldDrafts(ctx context.Context, daysOld int) (int64, error) {
	if daysOld <= 0 {
		daysOld = s.cfg.CleanupDaysOld
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -daysOld)
	removed, err := s.repo.DeleteAnonymousOlderThan(ctx, cutoff)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cleaning up drafts")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "removed", removed), "anonymous draft cleanup completed")
	}
	return removed, nil
}
