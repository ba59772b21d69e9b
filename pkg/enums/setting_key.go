package enums

// SettingKey names an entry in the key-value settings table.
type SettingKey string

const (
	SettingPointsConversionRate SettingKey = "points_conversion_rate"
	SettingLowStockThreshold    SettingKey = "low_stock_threshold"
)

// String implements fmt.Stringer.
func (k SettingKey) String() string {
	return string(k)
}
