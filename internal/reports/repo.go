package reports

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Repository reads the raw rows behind the dashboard reports. Aggregation
// happens in the service so the bucketing rules stay portable across SQL
// dialects.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a reports repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderStamp struct {
	CustomerID      int64
	TotalPriceCents int64
	CreatedDateTime time.Time
}

// OrdersSince returns order headers created at or after the cutoff.
func (r *Repository) OrdersSince(ctx context.Context, cutoff time.Time) ([]orderStamp, error) {
	var rows []orderStamp
	err := r.db.WithContext(ctx).
		Table("orders").
		Select("customer_id, total_price_cents, created_date_time").
		Where("created_date_time >= ?", cutoff).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type itemTotal struct {
	ItemName  string
	TotalSold int64
}

// TopSelling returns items ranked by lifetime units sold.
func (r *Repository) TopSelling(ctx context.Context, limit int) ([]itemTotal, error) {
	var rows []itemTotal
	err := r.db.WithContext(ctx).
		Table("sales").
		Select("menu_items.name AS item_name, SUM(sales.quantity) AS total_sold").
		Joins("JOIN menu_items ON menu_items.item_id = sales.item_id").
		Group("sales.item_id, menu_items.name").
		Order("total_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type categoryTotal struct {
	Category     string
	Quantity     int64
	RevenueCents int64
}

// CategorySales sums units and revenue per category across all sales.
func (r *Repository) CategorySales(ctx context.Context) ([]categoryTotal, error) {
	var rows []categoryTotal
	err := r.db.WithContext(ctx).
		Table("sales").
		Select(`categories.category_name AS category,
			COALESCE(SUM(sales.quantity), 0) AS quantity,
			COALESCE(SUM(sales.total_price_cents), 0) AS revenue_cents`).
		Joins("JOIN menu_items ON menu_items.item_id = sales.item_id").
		Joins("JOIN categories ON categories.category_id = menu_items.category_id").
		Group("categories.category_id, categories.category_name").
		Order("categories.category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type saleStamp struct {
	Quantity        int64
	CreatedDateTime time.Time
}

// ItemSalesSince returns (quantity, placed-at) pairs for one item's sale
// lines created at or after the cutoff.
func (r *Repository) ItemSalesSince(ctx context.Context, itemID int64, cutoff time.Time) ([]saleStamp, error) {
	var rows []saleStamp
	err := r.db.WithContext(ctx).
		Table("sales").
		Select("sales.quantity, orders.created_date_time").
		Joins("JOIN orders ON orders.order_id = sales.order_id").
		Where("sales.item_id = ? AND orders.created_date_time >= ?", itemID, cutoff).
		Order("orders.created_date_time").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
