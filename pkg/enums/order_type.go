package enums

import "fmt"

// OrderType distinguishes walk-in orders from scheduled pickups.
type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine_in"
	OrderTypePreorder OrderType = "preorder"
)

var validOrderTypes = []OrderType{
	OrderTypeDineIn,
	OrderTypePreorder,
}

// String implements fmt.Stringer.
func (t OrderType) String() string {
	return string(t)
}

// IsValid reports whether the order type is recognized.
func (t OrderType) IsValid() bool {
	for _, candidate := range validOrderTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseOrderType converts a raw string into an OrderType, defaulting to dine_in
// when the value is empty.
func ParseOrderType(value string) (OrderType, error) {
	if value == "" {
		return OrderTypeDineIn, nil
	}
	for _, candidate := range validOrderTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order type %q", value)
}
