package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/haroldnikoue/storefront-backend/pkg/types"
)

// CheckoutDraft persists partial checkout form state. A row with CustomerID
// set and SessionID null is the resolved (fully migrated) state.
type CheckoutDraft struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID *uuid.UUID      `gorm:"column:customer_id;type:uuid"`
	SessionID  *string         `gorm:"column:session_id"`
	DraftData  types.DraftData `gorm:"column:draft_data;type:jsonb;serializer:json"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
