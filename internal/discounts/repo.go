package discounts

import (
	"context"

	"github.com/hengonghuat/cafe-backend/pkg/db/models"
	"github.com/hengonghuat/cafe-backend/pkg/money"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists discounts and the per-customer banked uses.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, discount *models.Discount) (*models.Discount, error) {
	if err := r.db.WithContext(ctx).Create(discount).Error; err != nil {
		return nil, err
	}
	return discount, nil
}

func (r *Repository) Update(ctx context.Context, discount *models.Discount) (*models.Discount, error) {
	if err := r.db.WithContext(ctx).Save(discount).Error; err != nil {
		return nil, err
	}
	return discount, nil
}

func (r *Repository) Delete(ctx context.Context, discountID int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Discount{}, "discount_id = ?", discountID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, discountID int64) (*models.Discount, error) {
	var discount models.Discount
	if err := r.db.WithContext(ctx).First(&discount, "discount_id = ?", discountID).Error; err != nil {
		return nil, err
	}
	return &discount, nil
}

func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Discount, error) {
	var discount models.Discount
	if err := r.db.WithContext(ctx).First(&discount, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &discount, nil
}

func (r *Repository) List(ctx context.Context) ([]models.Discount, error) {
	var all []models.Discount
	if err := r.db.WithContext(ctx).Order("discount_id").Find(&all).Error; err != nil {
		return nil, err
	}
	return all, nil
}

// BankUse adds one remaining use for the (customer, discount) pair, creating
// the row on first redemption. The unique index serializes concurrent upserts.
func (r *Repository) BankUse(ctx context.Context, customerID, discountID int64) error {
	record := models.CustomerDiscount{
		CustomerID:    customerID,
		DiscountID:    discountID,
		RemainingUses: 1,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "customer_id"}, {Name: "discount_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"remaining_uses": gorm.Expr("remaining_uses + 1")}),
		}).
		Create(&record).Error
}

// ConsumeUse spends one banked use; false when none remain.
func (r *Repository) ConsumeUse(ctx context.Context, customerID, discountID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CustomerDiscount{}).
		Where("customer_id = ? AND discount_id = ? AND remaining_uses >= 1", customerID, discountID).
		Update("remaining_uses", gorm.Expr("remaining_uses - 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) FindCustomerDiscount(ctx context.Context, customerID, discountID int64) (*models.CustomerDiscount, error) {
	var record models.CustomerDiscount
	err := r.db.WithContext(ctx).
		First(&record, "customer_id = ? AND discount_id = ?", customerID, discountID).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

type customerDiscountRow struct {
	DiscountID          int64
	Code                string
	DiscountAmountCents int64
	RemainingUses       int64
}

// ListForCustomer joins banked uses with their voucher definitions.
func (r *Repository) ListForCustomer(ctx context.Context, customerID int64) ([]CustomerDiscountDTO, error) {
	var rows []customerDiscountRow
	err := r.db.WithContext(ctx).
		Table("customer_discounts").
		Select("discounts.discount_id, discounts.code, discounts.discount_amount_cents, customer_discounts.remaining_uses").
		Joins("JOIN discounts ON discounts.discount_id = customer_discounts.discount_id").
		Where("customer_discounts.customer_id = ? AND customer_discounts.remaining_uses > 0", customerID).
		Order("discounts.discount_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	dtos := make([]CustomerDiscountDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, CustomerDiscountDTO{
			DiscountID:     row.DiscountID,
			Code:           row.Code,
			DiscountAmount: money.FormatCents(row.DiscountAmountCents),
			RemainingUses:  row.RemainingUses,
		})
	}
	return dtos, nil
}
