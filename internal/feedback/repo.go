package feedback

import (
	"context"
	"time"

	"github.com/hengonghuat/cafe-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes feedback persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a feedback repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a feedback row.
func (r *Repository) Create(ctx context.Context, entry *models.Feedback) (*models.Feedback, error) {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// ResolveCustomerID returns the id of the customer owning the phone number,
// or nil when no account matches.
func (r *Repository) ResolveCustomerID(ctx context.Context, phoneNumber string) (*int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("phone_number = ?", phoneNumber).
		Limit(1).
		Pluck("customer_id", &ids).Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return &ids[0], nil
}

type feedbackRow struct {
	FeedbackID   int64
	PhoneNumber  string
	Feedback     string
	Rating       *float64
	CustomerID   *int64
	CustomerName *string
	CreatedAt    time.Time
}

// ListWithCustomerNames returns all feedback newest first, joined with the
// customer table for display names.
func (r *Repository) ListWithCustomerNames(ctx context.Context) ([]feedbackRow, error) {
	var rows []feedbackRow
	err := r.db.WithContext(ctx).
		Table("feedbacks").
		Select(`feedbacks.feedback_id,
			feedbacks.phone_number,
			feedbacks.feedback,
			feedbacks.rating,
			feedbacks.customer_id,
			customers.customer_name,
			feedbacks.created_at`).
		Joins("LEFT JOIN customers ON customers.customer_id = feedbacks.customer_id").
		Order("feedbacks.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
