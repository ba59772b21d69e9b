package models

import "time"

// Feedback is free-text customer feedback, optionally linked to a known
// customer resolved from the submitted phone number.
type Feedback struct {
	ID          int64     `gorm:"column:feedback_id;primaryKey;autoIncrement"`
	PhoneNumber string    `gorm:"column:phone_number;not null"`
	CustomerID  *int64    `gorm:"column:customer_id"`
	Feedback    string    `gorm:"column:feedback;not null"`
	Rating      *float64  `gorm:"column:rating"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
