package models

// Setting is one row of the shared key-value configuration table.
type Setting struct {
	Key   string `gorm:"column:setting_key;primaryKey"`
	Value string `gorm:"column:setting_value;not null"`
}
