package models

// Category groups menu items (food, beverage, dessert).
type Category struct {
	ID           int64  `gorm:"column:category_id;primaryKey;autoIncrement"`
	CategoryName string `gorm:"column:category_name;not null"`
}
