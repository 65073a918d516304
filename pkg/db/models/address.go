package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/haroldnikoue/storefront-backend/pkg/enums"
)

// Address belongs to a customer; at most one default per (customer, type).
type Address struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID         `gorm:"column:customer_id;type:uuid;not null"`
	Type       enums.AddressType `gorm:"column:type;not null;default:'shipping'"`
	FirstName  string            `gorm:"column:first_name;not null"`
	LastName   *string           `gorm:"column:last_name"`
	Line1      string            `gorm:"column:line1;not null"`
	Line2      *string           `gorm:"column:line2"`
	City       string            `gorm:"column:city;not null"`
	State      *string           `gorm:"column:state"`
	PostalCode string            `gorm:"column:postal_code;not null"`
	Country    string            `gorm:"column:country;not null"`
	Phone      *string           `gorm:"column:phone"`
	IsDefault  bool              `gorm:"column:is_default;not null;default:false"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
