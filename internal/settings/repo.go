package settings

import (
	"context"

	"github.com/hengonghuat/cafe-backend/pkg/db/models"
	"github.com/hengonghuat/cafe-backend/pkg/enums"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists key-value settings rows.
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

// Find loads the raw value for a key; gorm.ErrRecordNotFound when absent.
func (r *Repository) Find(ctx context.Context, key enums.SettingKey) (*models.Setting, error) {
	var setting models.Setting
	if err := r.db.WithContext(ctx).First(&setting, "setting_key = ?", key.String()).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

// Upsert writes the value for a key, inserting the row when missing.
func (r *Repository) Upsert(ctx context.Context, key enums.SettingKey, value string) error {
	setting := models.Setting{Key: key.String(), Value: value}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "setting_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"setting_value"}),
		}).
		Create(&setting).Error
}
