package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/haroldnikoue/storefront-backend/pkg/enums"
)

// Cart is keyed by session identity, customer identity, or both.
// Uniqueness per identity is enforced by a partial index on active carts.
type Cart struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID *uuid.UUID       `gorm:"column:customer_id;type:uuid"`
	SessionID  *string          `gorm:"column:session_id"`
	Status     enums.CartStatus `gorm:"column:status;not null;default:'active'"`
	Items      []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
