package models

import "time"

// MenuItem is a sellable product with a live stock counter. Stock is only
// ever mutated through guarded conditional updates so it cannot go negative.
type MenuItem struct {
	ID              int64     `gorm:"column:item_id;primaryKey;autoIncrement"`
	Name            string    `gorm:"column:name;not null"`
	Description     *string   `gorm:"column:description"`
	PriceCents      int64     `gorm:"column:price_cents;not null"`
	AvailableAmount int64     `gorm:"column:available_amount;not null;default:0"`
	CategoryID      int64     `gorm:"column:category_id;not null"`
	IsAvailable     bool      `gorm:"column:is_available;not null;default:true"`
	ImageURL        *string   `gorm:"column:image_url"`
	Category        *Category `gorm:"foreignKey:CategoryID"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
