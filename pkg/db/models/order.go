package models

import (
	"time"

	"github.com/hengonghuat/cafe-backend/pkg/enums"
)

// Order is the header row for a placed order. Totals are persisted at
// placement time and never recomputed afterward.
type Order struct {
	ID                   int64             `gorm:"column:order_id;primaryKey;autoIncrement"`
	CustomerID           int64             `gorm:"column:customer_id;not null"`
	TotalPriceCents      int64             `gorm:"column:total_price_cents;not null"`
	DiscountID           *int64            `gorm:"column:discount_id"`
	DiscountAppliedCents int64             `gorm:"column:discount_applied_cents;not null;default:0"`
	MembershipPoints     int64             `gorm:"column:membership_points;not null;default:0"`
	OrderType            enums.OrderType   `gorm:"column:order_type;not null;default:'dine_in'"`
	PreorderDatetime     *time.Time        `gorm:"column:preorder_datetime"`
	Status               enums.OrderStatus `gorm:"column:status;not null;default:'Preparing'"`
	Sales                []Sale            `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedDateTime      time.Time         `gorm:"column:created_date_time;autoCreateTime"`
}
