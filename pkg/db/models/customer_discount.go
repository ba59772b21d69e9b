package models

// CustomerDiscount banks a customer's remaining uses of a redeemed discount.
// The (customer, discount) pair is unique; uses move through atomic
// increments and guarded decrements only.
type CustomerDiscount struct {
	ID            int64 `gorm:"column:cust_dis_id;primaryKey;autoIncrement"`
	CustomerID    int64 `gorm:"column:customer_id;not null;uniqueIndex:idx_customer_discount"`
	DiscountID    int64 `gorm:"column:discount_id;not null;uniqueIndex:idx_customer_discount"`
	RemainingUses int64 `gorm:"column:remaining_uses;not null;default:0"`
}
