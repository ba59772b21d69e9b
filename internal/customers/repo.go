package customers

import (
	"context"
	"time"

	"github.com/hengonghuat/cafe-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes customer persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a customers repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to an in-flight transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new customer and returns the persisted model.
func (r *Repository) Create(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// FindByID loads a customer by primary key.
func (r *Repository) FindByID(ctx context.Context, customerID int64) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "customer_id = ?", customerID).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindByName retrieves the customer matching the provided display name.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).Where("customer_name = ?", name).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindByEmail retrieves the customer matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// taken reports whether another customer (excluding excludeID, pass 0 to
// include everyone) already holds the given column value.
func (r *Repository) taken(ctx context.Context, column, value string, excludeID int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Customer{}).Where(column+" = ?", value)
	if excludeID > 0 {
		query = query.Where("customer_id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// NameTaken reports whether a display name is already registered.
func (r *Repository) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	return r.taken(ctx, "customer_name", name, excludeID)
}

// EmailTaken reports whether an email is already registered.
func (r *Repository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.taken(ctx, "email", email, excludeID)
}

// PhoneTaken reports whether a phone number is already registered.
func (r *Repository) PhoneTaken(ctx context.Context, phone string, excludeID int64) (bool, error) {
	return r.taken(ctx, "phone_number", phone, excludeID)
}

// UpdateProfile overwrites the mutable profile columns.
func (r *Repository) UpdateProfile(ctx context.Context, customerID int64, updates map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("customer_id = ?", customerID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdatePasswordByEmail replaces the stored hash for the account owning email.
func (r *Repository) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("email = ?", email).
		UpdateColumn("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreditPoints adds points to a customer balance.
func (r *Repository) CreditPoints(ctx context.Context, customerID, points int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("customer_id = ?", customerID).
		UpdateColumn("points", gorm.Expr("points + ?", points))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a customer row.
func (r *Repository) Delete(ctx context.Context, customerID int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Customer{}, "customer_id = ?", customerID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListCRM aggregates order counts, lifetime spend, and banked discounts per
// customer. Correlated subqueries keep the counts independent of each other.
func (r *Repository) ListCRM(ctx context.Context) ([]crmRow, error) {
	var rows []crmRow
	err := r.db.WithContext(ctx).
		Table("customers").
		Select(`customers.customer_id,
			customers.customer_name,
			customers.phone_number,
			customers.points,
			(SELECT COUNT(*) FROM orders WHERE orders.customer_id = customers.customer_id) AS total_orders,
			(SELECT COALESCE(SUM(orders.total_price_cents), 0) FROM orders WHERE orders.customer_id = customers.customer_id) AS total_spent_cents,
			(SELECT COUNT(*) FROM customer_discounts WHERE customer_discounts.customer_id = customers.customer_id AND customer_discounts.remaining_uses > 0) AS discounts_available`).
		Order("customers.customer_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TopByPoints returns the highest-balance customers.
func (r *Repository) TopByPoints(ctx context.Context, limit int) ([]models.Customer, error) {
	var rows []models.Customer
	err := r.db.WithContext(ctx).
		Order("points DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// OrderStampsSince returns (customer, placed-at) pairs for orders created at
// or after the cutoff. Day grouping happens in the service.
func (r *Repository) OrderStampsSince(ctx context.Context, cutoff time.Time) ([]orderStamp, error) {
	var stamps []orderStamp
	err := r.db.WithContext(ctx).
		Table("orders").
		Select("customer_id, created_date_time").
		Where("created_date_time >= ?", cutoff).
		Scan(&stamps).Error
	if err != nil {
		return nil, err
	}
	return stamps, nil
}
