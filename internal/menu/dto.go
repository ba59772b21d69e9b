package menu

import (
	"github.com/hengonghuat/cafe-backend/pkg/db/models"
	"github.com/hengonghuat/cafe-backend/pkg/money"
)

// ItemDTO is the public shape of a menu item, price rendered as a 2dp string.
type ItemDTO struct {
	ItemID          int64   `json:"item_id"`
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	Price           string  `json:"price"`
	AvailableAmount int64   `json:"available_amount"`
	CategoryID      int64   `json:"category_id"`
	CategoryName    string  `json:"category_name,omitempty"`
	IsAvailable     bool    `json:"is_available"`
	ImageURL        *string `json:"image_url,omitempty"`
	LifetimeSales   int64   `json:"lifetime_sales"`
	TodaySales      int64   `json:"today_sales"`
}

// CategoryDTO is the public shape of a menu category.
type CategoryDTO struct {
	CategoryID   int64  `json:"category_id"`
	CategoryName string `json:"category_name"`
}

func toItemDTO(item models.MenuItem, lifetime, today int64) ItemDTO {
	dto := ItemDTO{
		ItemID:          item.ID,
		Name:            item.Name,
		Description:     item.Description,
		Price:           money.FormatCents(item.PriceCents),
		AvailableAmount: item.AvailableAmount,
		CategoryID:      item.CategoryID,
		IsAvailable:     item.IsAvailable,
		ImageURL:        item.ImageURL,
		LifetimeSales:   lifetime,
		TodaySales:      today,
	}
	if item.Category != nil {
		dto.CategoryName = item.Category.CategoryName
	}
	return dto
}
