package orders

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/hengonghuat/cafe-backend/pkg/db/models"
	"github.com/hengonghuat/cafe-backend/pkg/enums"
	pkgerrors "github.com/hengonghuat/cafe-backend/pkg/errors"
	"github.com/hengonghuat/cafe-backend/pkg/metrics"
	"github.com/hengonghuat/cafe-backend/pkg/money"
	"gorm.io/gorm"
)

// Service defines the behavior needed by the order controllers.
type Service interface {
	Place(ctx context.Context, input PlaceOrderInput) (*PlaceOrderResult, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]OrderSummaryDTO, error)
	Invoice(ctx context.Context, orderID int64) (*InvoiceDTO, error)
	AdminList(ctx context.Context) ([]AdminOrderDTO, error)
	UpdateStatus(ctx context.Context, input StatusUpdateInput) error
	Delete(ctx context.Context, input DeleteOrdersInput) error
	FindByID(ctx context.Context, orderID int64) (*models.Order, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type customerReader interface {
	FindByID(ctx context.Context, customerID int64) (*models.Customer, error)
}

type discountResolver interface {
	ResolveByCode(ctx context.Context, code string) (*models.Discount, error)
}

type rateProvider interface {
	PointsConversionRate(ctx context.Context) float64
}

type service struct {
	tx        txRunner
	repo      *Repository
	customers customerReader
	discounts discountResolver
	settings  rateProvider
	metrics   *metrics.OrderMetrics
	now       func() time.Time
}

// NewService constructs an order service with the provided dependencies.
// Metrics may be nil.
func NewService(tx txRunner, repo *Repository, customers customerReader, discounts discountResolver, settings rateProvider, orderMetrics *metrics.OrderMetrics) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if repo == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer reader is required")
	}
	if discounts == nil {
		return nil, fmt.Errorf("discount resolver is required")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings provider is required")
	}
	return &service{
		tx:        tx,
		repo:      repo,
		customers: customers,
		discounts: discounts,
		settings:  settings,
		metrics:   orderMetrics,
		now:       time.Now,
	}, nil
}

// Place validates and persists an order in a single transaction: the order
// header, its sale lines, a guarded stock decrement per line, and the points
// credit all commit or roll back together.
func (s *service) Place(ctx context.Context, input PlaceOrderInput) (*PlaceOrderResult, error) {
	started := s.now()

	order, sales, err := s.prepare(ctx, input)
	if err != nil {
		s.metrics.IncFailed(failureReason(err))
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if _, err := txRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert order")
		}
		for i := range sales {
			sales[i].OrderID = order.ID
		}
		if err := txRepo.CreateSales(ctx, sales); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert sale lines")
		}

		for _, line := range sales {
			ok, err := decrementStockTx(ctx, tx, line.ItemID, line.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").
					WithDetails(map[string]any{"itemId": line.ItemID, "quantity": line.Quantity})
			}
		}

		if order.MembershipPoints > 0 {
			if err := creditPointsTx(ctx, tx, order.CustomerID, order.MembershipPoints); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "credit points")
			}
		}
		return nil
	})
	if err != nil {
		s.metrics.IncFailed(failureReason(err))
		return nil, err
	}

	s.metrics.IncPlaced(order.OrderType.String())
	s.metrics.AddPointsAwarded(order.MembershipPoints)
	s.metrics.ObserveDuration(order.OrderType.String(), s.now().Sub(started))

	return &PlaceOrderResult{
		OrderID:          order.ID,
		FinalTotal:       money.FormatCents(order.TotalPriceCents),
		MembershipPoints: order.MembershipPoints,
	}, nil
}

// prepare runs the fail-fast checks and builds the rows to insert. The
// conversion rate is read here, before the transaction opens, so a mid-order
// settings change never splits an order's totals.
func (s *service) prepare(ctx context.Context, input PlaceOrderInput) (*models.Order, []models.Sale, error) {
	if _, err := s.customers.FindByID(ctx, input.CustomerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load customer")
	}
	if len(input.Sales) == 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}

	orderType := enums.OrderTypeDineIn
	if input.OrderType != "" {
		parsed, err := enums.ParseOrderType(input.OrderType)
		if err != nil {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order type")
		}
		orderType = parsed
	}
	if orderType == enums.OrderTypePreorder && input.PreorderDatetime == nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "preorder orders require a pickup time")
	}

	var subtotalCents int64
	sales := make([]models.Sale, 0, len(input.Sales))
	for _, line := range input.Sales {
		if line.Quantity <= 0 {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}
		lineCents := money.CentsFromDecimal(line.TotalPrice)
		if lineCents < 0 {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid line total").
				WithDetails(map[string]any{"itemId": line.ItemID})
		}
		subtotalCents += lineCents
		sales = append(sales, models.Sale{
			ItemID:          line.ItemID,
			Quantity:        line.Quantity,
			TotalPriceCents: lineCents,
			Remarks:         line.Remarks,
		})
	}

	if input.DiscountAmount.IsNegative() {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid discount amount")
	}
	claimedCents := money.CentsFromDecimal(input.DiscountAmount)

	// unknown codes are tolerated: the order goes through without a link
	discount, err := s.discounts.ResolveByCode(ctx, input.DiscountCode)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve discount code")
	}
	var discountID *int64
	if discount != nil {
		discountID = &discount.ID
	}

	appliedCents := claimedCents
	if appliedCents > subtotalCents {
		appliedCents = subtotalCents
	}
	finalCents := subtotalCents - appliedCents
	if finalCents < 0 {
		finalCents = 0
	}

	rate := s.settings.PointsConversionRate(ctx)
	var points int64
	if rate > 0 {
		points = int64(math.Floor(float64(subtotalCents) / (rate * 100)))
	}

	order := &models.Order{
		CustomerID:           input.CustomerID,
		TotalPriceCents:      finalCents,
		DiscountID:           discountID,
		DiscountAppliedCents: appliedCents,
		MembershipPoints:     points,
		OrderType:            orderType,
		PreorderDatetime:     input.PreorderDatetime,
		Status:               enums.OrderStatusPreparing,
	}
	return order, sales, nil
}

func (s *service) ListByCustomer(ctx context.Context, customerID int64) ([]OrderSummaryDTO, error) {
	rows, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	out := make([]OrderSummaryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toOrderSummaryDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Invoice(ctx context.Context, orderID int64) (*InvoiceDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	lines, err := s.repo.InvoiceLines(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load invoice lines")
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
	}

	items := make([]InvoiceItemDTO, 0, len(lines))
	for _, line := range lines {
		items = append(items, InvoiceItemDTO{
			SaleID:     line.SaleID,
			Name:       line.Name,
			Quantity:   line.Quantity,
			Price:      money.FormatCents(line.PriceCents),
			TotalPrice: money.FormatCents(line.TotalPriceCents),
			Remarks:    line.Remarks,
			ImageURL:   line.ImageURL,
		})
	}

	return &InvoiceDTO{
		OrderID:          order.ID,
		Items:            items,
		DiscountApplied:  money.FormatCents(order.DiscountAppliedCents),
		FinalTotal:       money.FormatCents(order.TotalPriceCents),
		CreatedDateTime:  order.CreatedDateTime,
		MembershipPoints: order.MembershipPoints,
		OrderType:        order.OrderType.String(),
		PreorderDatetime: order.PreorderDatetime,
	}, nil
}

func (s *service) AdminList(ctx context.Context) ([]AdminOrderDTO, error) {
	rows, err := s.repo.ListAllWithCustomers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}

	orderIDs := make([]int64, 0, len(rows))
	for _, row := range rows {
		orderIDs = append(orderIDs, row.OrderID)
	}
	sales, err := s.repo.LinesByOrderIDs(ctx, orderIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load sale lines")
	}
	linesByOrder := make(map[int64][]OrderLineDTO, len(rows))
	for _, sale := range sales {
		linesByOrder[sale.OrderID] = append(linesByOrder[sale.OrderID], OrderLineDTO{
			ItemID:   sale.ItemID,
			Quantity: sale.Quantity,
		})
	}

	out := make([]AdminOrderDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, AdminOrderDTO{
			OrderID:          row.OrderID,
			CustomerID:       row.CustomerID,
			CustomerName:     row.CustomerName,
			TotalPrice:       money.FormatCents(row.TotalPriceCents),
			DiscountApplied:  money.FormatCents(row.DiscountAppliedCents),
			CreatedDateTime:  row.CreatedDateTime,
			MembershipPoints: row.MembershipPoints,
			PreorderDatetime: row.PreorderDatetime,
			Status:           row.Status,
			Items:            linesByOrder[row.OrderID],
		})
	}
	return out, nil
}

func (s *service) UpdateStatus(ctx context.Context, input StatusUpdateInput) error {
	status, err := enums.ParseOrderStatus(input.Status)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if err := s.repo.UpdateStatus(ctx, input.OrderID, status.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update status")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, input DeleteOrdersInput) error {
	if len(input.OrderIDs) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "no orders selected for deletion")
	}
	if _, err := s.repo.DeleteByIDs(ctx, input.OrderIDs); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete orders")
	}
	return nil
}

func (s *service) FindByID(ctx context.Context, orderID int64) (*models.Order, error) {
	return s.repo.FindByID(ctx, orderID)
}

func failureReason(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		switch typed.Code() {
		case pkgerrors.CodeValidation:
			return "validation"
		case pkgerrors.CodeNotFound:
			return "not_found"
		case pkgerrors.CodeConflict:
			return "stock_conflict"
		}
	}
	return "internal"
}

func decrementStockTx(ctx context.Context, tx *gorm.DB, itemID, qty int64) (bool, error) {
	result := tx.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("item_id = ? AND available_amount >= ?", itemID, qty).
		Update("available_amount", gorm.Expr("available_amount - ?", qty))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func creditPointsTx(ctx context.Context, tx *gorm.DB, customerID, points int64) error {
	result := tx.WithContext(ctx).
		Model(&models.Customer{}).
		Where("customer_id = ?", customerID).
		Update("points", gorm.Expr("points + ?", points))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
