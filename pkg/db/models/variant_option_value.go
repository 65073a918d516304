package models

import "github.com/google/uuid"

// VariantOptionValue resolves a variant's structured option pair (size=M).
type VariantOptionValue struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VariantID   uuid.UUID `gorm:"column:variant_id;type:uuid;not null"`
	OptionName  string    `gorm:"column:option_name;not null"`
	OptionValue string    `gorm:"column:option_value;not null"`
	SortOrder   int       `gorm:"column:sort_order;not null;default:0"`
}
