package discounts

import (
	"github.com/hengonghuat/cafe-backend/pkg/db/models"
	"github.com/hengonghuat/cafe-backend/pkg/money"
)

// DiscountDTO is the public shape of a voucher.
type DiscountDTO struct {
	DiscountID     int64   `json:"discount_id"`
	Code           string  `json:"code"`
	Description    *string `json:"description,omitempty"`
	DiscountAmount string  `json:"discount_amount"`
	PointsRequired int64   `json:"points_required"`
}

// CustomerDiscountDTO is a banked voucher with its remaining uses.
type CustomerDiscountDTO struct {
	DiscountID     int64  `json:"discount_id"`
	Code           string `json:"code"`
	DiscountAmount string `json:"discount_amount"`
	RemainingUses  int64  `json:"remaining_uses"`
}

// RedemptionResult is returned after points are exchanged for a voucher use.
type RedemptionResult struct {
	Code           string `json:"code"`
	DiscountAmount string `json:"discount_amount"`
	RemainingUses  int64  `json:"remaining_uses"`
}

func toDiscountDTO(d models.Discount) DiscountDTO {
	return DiscountDTO{
		DiscountID:     d.ID,
		Code:           d.Code,
		Description:    d.Description,
		DiscountAmount: money.FormatCents(d.DiscountAmountCents),
		PointsRequired: d.PointsRequired,
	}
}
