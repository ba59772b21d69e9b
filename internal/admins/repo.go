package admins

import (
	"context"

	"github.com/hengonghuat/cafe-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes staff-account persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an admins repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new staff account.
func (r *Repository) Create(ctx context.Context, admin *models.AdminUser) (*models.AdminUser, error) {
	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		return nil, err
	}
	return admin, nil
}

// FindByUsername retrieves the staff account matching the username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// UsernameTaken reports whether another account (excluding excludeID, pass 0
// to include everyone) already holds the username.
func (r *Repository) UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.AdminUser{}).Where("username = ?", username)
	if excludeID > 0 {
		query = query.Where("user_id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns every staff account ordered by id.
func (r *Repository) List(ctx context.Context) ([]models.AdminUser, error) {
	var admins []models.AdminUser
	if err := r.db.WithContext(ctx).Order("user_id").Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

// Update overwrites username and password hash for an account.
func (r *Repository) Update(ctx context.Context, userID int64, username, passwordHash string) error {
	result := r.db.WithContext(ctx).
		Model(&models.AdminUser{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{"username": username, "password_hash": passwordHash})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a staff account.
func (r *Repository) Delete(ctx context.Context, userID int64) error {
	result := r.db.WithContext(ctx).Delete(&models.AdminUser{}, "user_id = ?", userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
