package models

// Sale is one line item of an order. Line rows are created as a batch with
// their parent order and never updated afterward.
type Sale struct {
	ID              int64   `gorm:"column:sale_id;primaryKey;autoIncrement"`
	OrderID         int64   `gorm:"column:order_id;not null"`
	ItemID          int64   `gorm:"column:item_id;not null"`
	Quantity        int64   `gorm:"column:quantity;not null"`
	TotalPriceCents int64   `gorm:"column:total_price_cents;not null"`
	Remarks         *string `gorm:"column:remarks"`
}
