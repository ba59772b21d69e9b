package orders

import (
	"time"

	"github.com/hengonghuat/cafe-backend/pkg/db/models"
	"github.com/hengonghuat/cafe-backend/pkg/money"
	"github.com/shopspring/decimal"
)

// SaleLineInput is one line of an order submission. Line totals arrive as
// JSON numbers or decimal strings and are converted to cents at the boundary.
type SaleLineInput struct {
	ItemID     int64           `json:"item_id" validate:"required,gt=0"`
	Quantity   int64           `json:"quantity" validate:"required,gt=0"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Remarks    *string         `json:"remarks"`
}

// PlaceOrderInput carries an order submission.
type PlaceOrderInput struct {
	CustomerID       int64           `json:"customerId" validate:"required,gt=0"`
	Sales            []SaleLineInput `json:"sales" validate:"required,min=1,dive"`
	DiscountCode     string          `json:"discountCode"`
	DiscountAmount   decimal.Decimal `json:"discountAmount"`
	OrderType        string          `json:"order_type" validate:"omitempty,oneof=dine_in preorder"`
	PreorderDatetime *time.Time      `json:"preorder_datetime"`
}

// PlaceOrderResult reports the outcome of a successful placement.
type PlaceOrderResult struct {
	OrderID          int64  `json:"orderId"`
	FinalTotal       string `json:"finalTotal"`
	MembershipPoints int64  `json:"membershipPoints"`
}

// OrderSummaryDTO is the customer-facing order history row.
type OrderSummaryDTO struct {
	OrderID         int64     `json:"order_id"`
	CreatedDateTime time.Time `json:"created_date_time"`
	TotalPrice      string    `json:"total_price"`
	Status          string    `json:"status"`
}

// InvoiceItemDTO is one invoice line joined with the menu item.
type InvoiceItemDTO struct {
	SaleID     int64   `json:"sale_id"`
	Name       string  `json:"name"`
	Quantity   int64   `json:"quantity"`
	Price      string  `json:"price"`
	TotalPrice string  `json:"total_price"`
	Remarks    *string `json:"remarks"`
	ImageURL   *string `json:"image_url"`
}

// InvoiceDTO is the persisted view of an order. Every value comes from the
// stored rows, nothing is recomputed.
type InvoiceDTO struct {
	OrderID          int64            `json:"orderId"`
	Items            []InvoiceItemDTO `json:"items"`
	DiscountApplied  string           `json:"discount_applied"`
	FinalTotal       string           `json:"finalTotal"`
	CreatedDateTime  time.Time        `json:"created_date_time"`
	MembershipPoints int64            `json:"membership_points"`
	OrderType        string           `json:"order_type"`
	PreorderDatetime *time.Time       `json:"preorder_datetime"`
}

// OrderLineDTO is a compact (item, quantity) pair for the admin list.
type OrderLineDTO struct {
	ItemID   int64 `json:"item_id"`
	Quantity int64 `json:"quantity"`
}

// AdminOrderDTO is the back-office order row with the customer name and
// line items attached.
type AdminOrderDTO struct {
	OrderID          int64          `json:"order_id"`
	CustomerID       int64          `json:"customerId"`
	CustomerName     *string        `json:"customerName"`
	TotalPrice       string         `json:"total_price"`
	DiscountApplied  string         `json:"discount_applied"`
	CreatedDateTime  time.Time      `json:"created_date_time"`
	MembershipPoints int64          `json:"membership_points"`
	PreorderDatetime *time.Time     `json:"preorder_datetime"`
	Status           string         `json:"status"`
	Items            []OrderLineDTO `json:"items"`
}

// StatusUpdateInput changes the kitchen status of an order.
type StatusUpdateInput struct {
	OrderID int64  `json:"orderId" validate:"required,gt=0"`
	Status  string `json:"status" validate:"required,oneof=Preparing Completed Cancelled"`
}

// DeleteOrdersInput selects order ids for bulk deletion.
type DeleteOrdersInput struct {
	OrderIDs []int64 `json:"orderIds" validate:"required,min=1,dive,gt=0"`
}

func toOrderSummaryDTO(order *models.Order) OrderSummaryDTO {
	return OrderSummaryDTO{
		OrderID:         order.ID,
		CreatedDateTime: order.CreatedDateTime,
		TotalPrice:      money.FormatCents(order.TotalPriceCents),
		Status:          order.Status.String(),
	}
}
