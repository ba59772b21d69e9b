package orders

import (
	"context"
	"time"

	"github.com/hengonghuat/cafe-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes order persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to an in-flight transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts an order header row.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// CreateSales batch-inserts the line items of an order.
func (r *Repository) CreateSales(ctx context.Context, sales []models.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&sales).Error
}

// FindByID loads an order header by primary key.
func (r *Repository) FindByID(ctx context.Context, orderID int64) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "order_id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByCustomer returns a customer's orders newest first.
func (r *Repository) ListByCustomer(ctx context.Context, customerID int64) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_date_time DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

type invoiceLine struct {
	SaleID          int64
	Name            string
	Quantity        int64
	PriceCents      int64
	TotalPriceCents int64
	Remarks         *string
	ImageURL        *string
}

// InvoiceLines returns the sale rows of an order joined with menu names and
// unit prices.
func (r *Repository) InvoiceLines(ctx context.Context, orderID int64) ([]invoiceLine, error) {
	var lines []invoiceLine
	err := r.db.WithContext(ctx).
		Table("sales").
		Select(`sales.sale_id,
			menu_items.name,
			sales.quantity,
			menu_items.price_cents,
			sales.total_price_cents,
			sales.remarks,
			menu_items.image_url`).
		Joins("JOIN menu_items ON menu_items.item_id = sales.item_id").
		Where("sales.order_id = ?", orderID).
		Order("sales.sale_id").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

type adminOrderRow struct {
	OrderID              int64
	CustomerID           int64
	CustomerName         *string
	TotalPriceCents      int64
	DiscountAppliedCents int64
	CreatedDateTime      time.Time
	MembershipPoints     int64
	PreorderDatetime     *time.Time
	Status               string
}

// ListAllWithCustomers returns every order newest first, joined with the
// customer table for display names.
func (r *Repository) ListAllWithCustomers(ctx context.Context) ([]adminOrderRow, error) {
	var rows []adminOrderRow
	err := r.db.WithContext(ctx).
		Table("orders").
		Select(`orders.order_id,
			orders.customer_id,
			customers.customer_name,
			orders.total_price_cents,
			orders.discount_applied_cents,
			orders.created_date_time,
			orders.membership_points,
			orders.preorder_datetime,
			orders.status`).
		Joins("LEFT JOIN customers ON customers.customer_id = orders.customer_id").
		Order("orders.created_date_time DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// LinesByOrderIDs returns every sale line of the given orders.
func (r *Repository) LinesByOrderIDs(ctx context.Context, orderIDs []int64) ([]models.Sale, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	var sales []models.Sale
	err := r.db.WithContext(ctx).
		Where("order_id IN ?", orderIDs).
		Order("sale_id").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

// UpdateStatus changes the status of an order.
func (r *Repository) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_id = ?", orderID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByIDs removes the selected orders and their sale lines.
func (r *Repository) DeleteByIDs(ctx context.Context, orderIDs []int64) (int64, error) {
	if err := r.db.WithContext(ctx).Delete(&models.Sale{}, "order_id IN ?", orderIDs).Error; err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).Delete(&models.Order{}, "order_id IN ?", orderIDs)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
