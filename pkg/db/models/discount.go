package models

// Discount is a flat-amount voucher purchasable with loyalty points.
type Discount struct {
	ID                  int64   `gorm:"column:discount_id;primaryKey;autoIncrement"`
	Code                string  `gorm:"column:code;not null;uniqueIndex"`
	Description         *string `gorm:"column:description"`
	DiscountAmountCents int64   `gorm:"column:discount_amount_cents;not null"`
	PointsRequired      int64   `gorm:"column:points_required;not null"`
}
