package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is upserted by email at order time. CustomerCode is the
// human-readable sequential identifier (CUST-000042).
type Customer struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerCode string     `gorm:"column:customer_code;not null;uniqueIndex"`
	Email        string     `gorm:"column:email;not null;uniqueIndex"`
	FirstName    string     `gorm:"column:first_name;not null"`
	LastName     *string    `gorm:"column:last_name"`
	Phone        *string    `gorm:"column:phone"`
	CompanyName  *string    `gorm:"column:company_name"`
	DateOfBirth  *time.Time `gorm:"column:date_of_birth"`
	Gender       *string    `gorm:"column:gender"`
	IsGuest      bool       `gorm:"column:is_guest;not null;default:true"`
	Addresses    []Address  `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
