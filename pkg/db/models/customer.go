package models

import "time"

// Customer represents a loyalty-program member.
type Customer struct {
	ID           int64     `gorm:"column:customer_id;primaryKey;autoIncrement"`
	CustomerName string    `gorm:"column:customer_name;not null;uniqueIndex"`
	Email        string    `gorm:"column:email;not null;uniqueIndex"`
	PhoneNumber  string    `gorm:"column:phone_number;not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Points       int64     `gorm:"column:points;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
