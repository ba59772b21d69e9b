package menu

import (
	"context"
	"time"

	"github.com/hengonghuat/cafe-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists menu items and categories. Stock moves only through
// guarded conditional updates so available_amount can never go negative.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *Repository) Update(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *Repository) Delete(ctx context.Context, itemID int64) error {
	result := r.db.WithContext(ctx).Delete(&models.MenuItem{}, "item_id = ?", itemID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, itemID int64) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.WithContext(ctx).Preload("Category").First(&item, "item_id = ?", itemID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) List(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.db.WithContext(ctx).Preload("Category").Order("item_id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SetAvailability flips the is_available flag.
func (r *Repository) SetAvailability(ctx context.Context, itemID int64, available bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("item_id = ?", itemID).
		Update("is_available", available)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AdjustStock applies a signed delta in one conditional UPDATE. The guard
// keeps the result non-negative; false means the adjustment was refused.
func (r *Repository) AdjustStock(ctx context.Context, itemID, delta int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("item_id = ? AND available_amount + ? >= 0", itemID, delta).
		Update("available_amount", gorm.Expr("available_amount + ?", delta))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListLowStock returns available items at or below the threshold.
func (r *Repository) ListLowStock(ctx context.Context, threshold int64) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("available_amount <= ?", threshold).
		Order("available_amount").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("category_id").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

type salesCount struct {
	ItemID int64
	Total  int64
}

// SalesCounts sums sold quantities per item, lifetime and since the provided
// start of day, from the sales/orders join.
func (r *Repository) SalesCounts(ctx context.Context, todayStart time.Time) (lifetime, today map[int64]int64, err error) {
	lifetime = map[int64]int64{}
	today = map[int64]int64{}

	var rows []salesCount
	err = r.db.WithContext(ctx).
		Table("sales").
		Select("sales.item_id AS item_id, SUM(sales.quantity) AS total").
		Group("sales.item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}
	for _, row := range rows {
		lifetime[row.ItemID] = row.Total
	}

	rows = rows[:0]
	err = r.db.WithContext(ctx).
		Table("sales").
		Select("sales.item_id AS item_id, SUM(sales.quantity) AS total").
		Joins("JOIN orders ON orders.order_id = sales.order_id").
		Where("orders.created_date_time >= ?", todayStart).
		Group("sales.item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}
	for _, row := range rows {
		today[row.ItemID] = row.Total
	}
	return lifetime, today, nil
}
