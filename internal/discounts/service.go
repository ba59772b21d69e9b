package discounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hengonghuat/cafe-backend/pkg/db/models"
	pkgerrors "github.com/hengonghuat/cafe-backend/pkg/errors"
	"github.com/hengonghuat/cafe-backend/pkg/metrics"
	"github.com/hengonghuat/cafe-backend/pkg/money"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type customerReader interface {
	FindByID(ctx context.Context, customerID int64) (*models.Customer, error)
}

type orderReader interface {
	FindByID(ctx context.Context, orderID int64) (*models.Order, error)
}

// Service exposes voucher management, redemption and application.
type Service interface {
	List(ctx context.Context) ([]DiscountDTO, error)
	Create(ctx context.Context, input DiscountInput) (*DiscountDTO, error)
	Update(ctx context.Context, discountID int64, input DiscountInput) (*DiscountDTO, error)
	Delete(ctx context.Context, discountID int64) error
	Redeem(ctx context.Context, customerID, discountID int64) (*RedemptionResult, error)
	Apply(ctx context.Context, customerID int64, discountCode string, orderID int64) error
	ResolveByCode(ctx context.Context, code string) (*models.Discount, error)
	ListForCustomer(ctx context.Context, customerID int64) ([]CustomerDiscountDTO, error)
}

// DiscountInput holds the validated payload to create or replace a voucher.
type DiscountInput struct {
	Code           string
	Description    *string
	DiscountAmount string
	PointsRequired int64
}

type service struct {
	tx        txRunner
	repo      *Repository
	customers customerReader
	orders    orderReader
	metrics   *metrics.OrderMetrics
}

func NewService(tx txRunner, repo *Repository, customers customerReader, orders orderReader, orderMetrics *metrics.OrderMetrics) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("discount repository required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &service{tx: tx, repo: repo, customers: customers, orders: orders, metrics: orderMetrics}, nil
}

func (s *service) List(ctx context.Context) ([]DiscountDTO, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list discounts")
	}
	dtos := make([]DiscountDTO, 0, len(all))
	for _, d := range all {
		dtos = append(dtos, toDiscountDTO(d))
	}
	return dtos, nil
}

func (s *service) Create(ctx context.Context, input DiscountInput) (*DiscountDTO, error) {
	discount, err := s.discountFromInput(input)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, discount)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "discount code already exists")
	}
	dto := toDiscountDTO(*created)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, discountID int64, input DiscountInput) (*DiscountDTO, error) {
	existing, err := s.repo.FindByID(ctx, discountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "discount not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load discount")
	}

	replacement, err := s.discountFromInput(input)
	if err != nil {
		return nil, err
	}
	replacement.ID = existing.ID

	updated, err := s.repo.Update(ctx, replacement)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update discount")
	}
	dto := toDiscountDTO(*updated)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, discountID int64) error {
	if err := s.repo.Delete(ctx, discountID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "discount not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete discount")
	}
	return nil
}

// Redeem exchanges loyalty points for one banked voucher use. Checks run in
// the documented order and nothing is mutated when any of them fails.
func (s *service) Redeem(ctx context.Context, customerID, discountID int64) (*RedemptionResult, error) {
	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load customer")
	}

	discount, err := s.repo.FindByID(ctx, discountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "discount not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load discount")
	}

	if customer.Points < discount.PointsRequired {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "insufficient points").
			WithDetails(map[string]any{"points": customer.Points, "required": discount.PointsRequired})
	}

	var result *RedemptionResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		debited, err := debitPointsTx(ctx, tx, customerID, discount.PointsRequired)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "debit points")
		}
		if !debited {
			// a concurrent redemption spent the points first
			return pkgerrors.New(pkgerrors.CodeValidation, "insufficient points")
		}

		if err := repo.BankUse(ctx, customerID, discountID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "bank discount use")
		}

		record, err := repo.FindCustomerDiscount(ctx, customerID, discountID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load banked discount")
		}
		result = &RedemptionResult{
			Code:           discount.Code,
			DiscountAmount: money.FormatCents(discount.DiscountAmountCents),
			RemainingUses:  record.RemainingUses,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncRedemption()
	return result, nil
}

// Apply attaches a banked voucher to an existing order, spending one use.
func (s *service) Apply(ctx context.Context, customerID int64, discountCode string, orderID int64) error {
	discount, err := s.repo.FindByCode(ctx, strings.TrimSpace(discountCode))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "discount code not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load discount")
	}

	record, err := s.repo.FindCustomerDiscount(ctx, customerID, discount.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load banked discount")
	}
	if record == nil || record.RemainingUses < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "no remaining uses for this discount")
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	if order.CustomerID != customerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another customer")
	}
	if order.DiscountID != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order already has a discount applied")
	}

	applied := discount.DiscountAmountCents
	if applied > order.TotalPriceCents {
		applied = order.TotalPriceCents
	}
	newTotal := order.TotalPriceCents - applied

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		consumed, err := repo.ConsumeUse(ctx, customerID, discount.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "consume discount use")
		}
		if !consumed {
			return pkgerrors.New(pkgerrors.CodeValidation, "no remaining uses for this discount")
		}

		attached, err := applyDiscountTx(ctx, tx, order.ID, discount.ID, applied, newTotal)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "apply discount to order")
		}
		if !attached {
			return pkgerrors.New(pkgerrors.CodeValidation, "order already has a discount applied")
		}
		return nil
	})
}

// ResolveByCode is the lenient lookup used at order placement: an unknown
// code yields no discount rather than an error.
func (s *service) ResolveByCode(ctx context.Context, code string) (*models.Discount, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, nil
	}
	discount, err := s.repo.FindByCode(ctx, trimmed)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve discount code")
	}
	return discount, nil
}

func (s *service) ListForCustomer(ctx context.Context, customerID int64) ([]CustomerDiscountDTO, error) {
	dtos, err := s.repo.ListForCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list customer discounts")
	}
	return dtos, nil
}

func (s *service) discountFromInput(input DiscountInput) (*models.Discount, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}
	amountCents, err := money.ParseAmount(input.DiscountAmount)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount amount")
	}
	if amountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount amount must be positive")
	}
	if input.PointsRequired < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "points required cannot be negative")
	}
	return &models.Discount{
		Code:                code,
		Description:         input.Description,
		DiscountAmountCents: amountCents,
		PointsRequired:      input.PointsRequired,
	}, nil
}

func debitPointsTx(ctx context.Context, tx *gorm.DB, customerID, points int64) (bool, error) {
	result := tx.WithContext(ctx).
		Model(&models.Customer{}).
		Where("customer_id = ? AND points >= ?", customerID, points).
		Update("points", gorm.Expr("points - ?", points))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// applyDiscountTx attaches the discount only when the order has none yet.
// The guard makes concurrent applies lose instead of overwriting, and the
// rolled-back transaction returns the consumed use.
func applyDiscountTx(ctx context.Context, tx *gorm.DB, orderID, discountID, appliedCents, newTotalCents int64) (bool, error) {
	result := tx.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_id = ? AND discount_id IS NULL", orderID).
		Updates(map[string]interface{}{
			"discount_id":            discountID,
			"discount_applied_cents": appliedCents,
			"total_price_cents":      newTotalCents,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
