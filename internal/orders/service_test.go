package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hengonghuat/cafe-backend/pkg/db/models"
	"github.com/hengonghuat/cafe-backend/pkg/enums"
	pkgerrors "github.com/hengonghuat/cafe-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&models.Customer{},
		&models.Category{},
		&models.MenuItem{},
		&models.Discount{},
		&models.CustomerDiscount{},
		&models.Order{},
		&models.Sale{},
		&models.Setting{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type gormCustomerReader struct {
	db *gorm.DB
}

func (r gormCustomerReader) FindByID(ctx context.Context, customerID int64) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "customer_id = ?", customerID).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

type gormDiscountResolver struct {
	db *gorm.DB
}

func (r gormDiscountResolver) ResolveByCode(ctx context.Context, code string) (*models.Discount, error) {
	if code == "" {
		return nil, nil
	}
	var discount models.Discount
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&discount).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &discount, nil
}

func dec(raw string) decimal.Decimal {
	return decimal.RequireFromString(raw)
}

type fixedRate struct {
	rate float64
}

func (r fixedRate) PointsConversionRate(context.Context) float64 { return r.rate }

func newTestService(t *testing.T, db *gorm.DB, rate float64) Service {
	t.Helper()
	svc, err := NewService(
		gormTxRunner{db: db},
		NewRepository(db),
		gormCustomerReader{db: db},
		gormDiscountResolver{db: db},
		fixedRate{rate: rate},
		nil,
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func mustCreateCustomer(t *testing.T, db *gorm.DB) *models.Customer {
	t.Helper()
	customer := &models.Customer{
		CustomerName: "cust_" + uuid.NewString(),
		Email:        uuid.NewString() + "@example.com",
		PhoneNumber:  uuid.NewString(),
		PasswordHash: "hash",
	}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("create customer: %v", err)
	}
	return customer
}

func mustCreateItem(t *testing.T, db *gorm.DB, name string, priceCents, stock int64) *models.MenuItem {
	t.Helper()
	category := models.Category{CategoryName: "cat_" + uuid.NewString()}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	item := &models.MenuItem{
		Name:            name,
		PriceCents:      priceCents,
		AvailableAmount: stock,
		CategoryID:      category.ID,
		IsAvailable:     true,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("create item: %v", err)
	}
	return item
}

func TestPlaceOrderHappyPath(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db, 10)
	ctx := context.Background()

	customer := mustCreateCustomer(t, db)
	latte := mustCreateItem(t, db, "Latte", 1200, 5)
	toast := mustCreateItem(t, db, "Kaya Toast", 450, 5)

	result, err := svc.Place(ctx, PlaceOrderInput{
		CustomerID: customer.ID,
		Sales: []SaleLineInput{
			{ItemID: latte.ID, Quantity: 2, TotalPrice: dec("24.00")},
			{ItemID: toast.ID, Quantity: 1, TotalPrice: dec("4.50")},
		},
	})
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	// subtotal 28.50, no discount, floor(2850 / (10 * 100)) = 2 points
	if result.FinalTotal != "28.50" || result.MembershipPoints != 2 {
		t.Fatalf("unexpected result %+v", result)
	}

	var order models.Order
	if err := db.Preload("Sales").First(&order, "order_id = ?", result.OrderID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if order.TotalPriceCents != 2850 || order.MembershipPoints != 2 || len(order.Sales) != 2 {
		t.Fatalf("unexpected order %+v", order)
	}
	if order.Status != enums.OrderStatusPreparing || order.OrderType != enums.OrderTypeDineIn {
		t.Fatalf("unexpected defaults %+v", order)
	}

	var items []models.MenuItem
	if err := db.Order("item_id").Find(&items).Error; err != nil {
		t.Fatalf("reload items: %v", err)
	}
	if items[0].AvailableAmount != 3 || items[1].AvailableAmount != 4 {
		t.Fatalf("stock not decremented: %d %d", items[0].AvailableAmount, items[1].AvailableAmount)
	}

	var reloaded models.Customer
	if err := db.First(&reloaded, "customer_id = ?", customer.ID).Error; err != nil {
		t.Fatalf("reload customer: %v", err)
	}
	if reloaded.Points != 2 {
		t.Fatalf("points not credited: %d", reloaded.Points)
	}
}

func TestPlaceOrderInsufficientStockRollsBackEverything(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db, 10)
	ctx := context.Background()

	customer := mustCreateCustomer(t, db)
	latte := mustCreateItem(t, db, "Latte", 1200, 5)
	cake := mustCreateItem(t, db, "Carrot Cake", 900, 1)

	_, err := svc.Place(ctx, PlaceOrderInput{
		CustomerID: customer.ID,
		Sales: []SaleLineInput{
			{ItemID: latte.ID, Quantity: 2, TotalPrice: dec("24.00")},
			{ItemID: cake.ID, Quantity: 3, TotalPrice: dec("27.00")},
		},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected stock conflict, got %v", err)
	}

	// nothing committed: no orders, no sales, stock and points untouched
	var orderCount, saleCount int64
	if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if err := db.Model(&models.Sale{}).Count(&saleCount).Error; err != nil {
		t.Fatalf("count sales: %v", err)
	}
	if orderCount != 0 || saleCount != 0 {
		t.Fatalf("partial commit: %d orders, %d sales", orderCount, saleCount)
	}

	var items []models.MenuItem
	if err := db.Order("item_id").Find(&items).Error; err != nil {
		t.Fatalf("reload items: %v", err)
	}
	if items[0].AvailableAmount != 5 || items[1].AvailableAmount != 1 {
		t.Fatalf("stock mutated on rollback: %d %d", items[0].AvailableAmount, items[1].AvailableAmount)
	}

	var reloaded models.Customer
	if err := db.First(&reloaded, "customer_id = ?", customer.ID).Error; err != nil {
		t.Fatalf("reload customer: %v", err)
	}
	if reloaded.Points != 0 {
		t.Fatalf("points credited on rollback: %d", reloaded.Points)
	}
}

func TestPlaceOrderDiscountClampAndLenientCode(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db, 10)
	ctx := context.Background()

	customer := mustCreateCustomer(t, db)
	latte := mustCreateItem(t, db, "Latte", 1200, 10)
	discount := models.Discount{Code: "KOPI", DiscountAmountCents: 300, PointsRequired: 10}
	if err := db.Create(&discount).Error; err != nil {
		t.Fatalf("create discount: %v", err)
	}

	// claimed discount above the subtotal is clamped to it
	result, err := svc.Place(ctx, PlaceOrderInput{
		CustomerID:     customer.ID,
		Sales:          []SaleLineInput{{ItemID: latte.ID, Quantity: 1, TotalPrice: dec("12.00")}},
		DiscountCode:   "KOPI",
		DiscountAmount: dec("99.00"),
	})
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if result.FinalTotal != "0.00" {
		t.Fatalf("expected clamped total, got %s", result.FinalTotal)
	}

	var order models.Order
	if err := db.First(&order, "order_id = ?", result.OrderID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if order.DiscountAppliedCents != 1200 || order.TotalPriceCents != 0 {
		t.Fatalf("unexpected totals %+v", order)
	}
	if order.DiscountID == nil || *order.DiscountID != discount.ID {
		t.Fatalf("discount not linked: %+v", order)
	}
	// points come from the pre-discount subtotal
	if order.MembershipPoints != 1 {
		t.Fatalf("expected 1 point from subtotal, got %d", order.MembershipPoints)
	}

	// an unknown code does not fail the order, it just stays unlinked
	result, err = svc.Place(ctx, PlaceOrderInput{
		CustomerID:   customer.ID,
		Sales:        []SaleLineInput{{ItemID: latte.ID, Quantity: 1, TotalPrice: dec("12.00")}},
		DiscountCode: "TYPO",
	})
	if err != nil {
		t.Fatalf("place with unknown code: %v", err)
	}
	order = models.Order{}
	if err := db.First(&order, "order_id = ?", result.OrderID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if order.DiscountID != nil || order.TotalPriceCents != 1200 {
		t.Fatalf("unknown code altered the order: %+v", order)
	}
}

func TestPlaceOrderFailFastValidation(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db, 10)
	ctx := context.Background()

	customer := mustCreateCustomer(t, db)
	latte := mustCreateItem(t, db, "Latte", 1200, 10)

	_, err := svc.Place(ctx, PlaceOrderInput{
		CustomerID: 999,
		Sales:      []SaleLineInput{{ItemID: latte.ID, Quantity: 1, TotalPrice: dec("12.00")}},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown customer, got %v", err)
	}

	_, err = svc.Place(ctx, PlaceOrderInput{CustomerID: customer.ID})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation for empty sales, got %v", err)
	}

	_, err = svc.Place(ctx, PlaceOrderInput{
		CustomerID: customer.ID,
		Sales:      []SaleLineInput{{ItemID: latte.ID, Quantity: 1, TotalPrice: dec("12.00")}},
		OrderType:  "preorder",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation for preorder without time, got %v", err)
	}

	pickup := time.Now().Add(2 * time.Hour)
	result, err := svc.Place(ctx, PlaceOrderInput{
		CustomerID:       customer.ID,
		Sales:            []SaleLineInput{{ItemID: latte.ID, Quantity: 1, TotalPrice: dec("12.00")}},
		OrderType:        "preorder",
		PreorderDatetime: &pickup,
	})
	if err != nil {
		t.Fatalf("preorder with time: %v", err)
	}
	var order models.Order
	if err := db.First(&order, "order_id = ?", result.OrderID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if order.OrderType != enums.OrderTypePreorder || order.PreorderDatetime == nil {
		t.Fatalf("preorder fields not stored: %+v", order)
	}
}

func TestPlaceOrderRateChangeDoesNotAffectPastOrders(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	customer := mustCreateCustomer(t, db)
	latte := mustCreateItem(t, db, "Latte", 1200, 10)

	first := newTestService(t, db, 10)
	resultA, err := first.Place(ctx, PlaceOrderInput{
		CustomerID: customer.ID,
		Sales:      []SaleLineInput{{ItemID: latte.ID, Quantity: 2, TotalPrice: dec("24.00")}},
	})
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	// rate changes afterward; the stored points stay as computed
	second := newTestService(t, db, 5)
	if _, err := second.Place(ctx, PlaceOrderInput{
		CustomerID: customer.ID,
		Sales:      []SaleLineInput{{ItemID: latte.ID, Quantity: 2, TotalPrice: dec("24.00")}},
	}); err != nil {
		t.Fatalf("place second: %v", err)
	}

	var orderA models.Order
	if err := db.First(&orderA, "order_id = ?", resultA.OrderID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if orderA.MembershipPoints != 2 {
		t.Fatalf("past order points changed: %d", orderA.MembershipPoints)
	}
}

func TestPlaceOrderFloorsPointsWithFractionalRate(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db, 12.5)
	ctx := context.Background()

	customer := mustCreateCustomer(t, db)
	latte := mustCreateItem(t, db, "Latte", 1200, 10)

	// 24.00 at 12.5 per point is 1.92, floored to 1
	result, err := svc.Place(ctx, PlaceOrderInput{
		CustomerID: customer.ID,
		Sales:      []SaleLineInput{{ItemID: latte.ID, Quantity: 2, TotalPrice: dec("24.00")}},
	})
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if result.MembershipPoints != 1 {
		t.Fatalf("expected 1 point, got %d", result.MembershipPoints)
	}
}

func TestListInvoiceAndAdminPaths(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db, 10)
	ctx := context.Background()

	customer := mustCreateCustomer(t, db)
	latte := mustCreateItem(t, db, "Latte", 1200, 10)

	remark := "less sugar"
	result, err := svc.Place(ctx, PlaceOrderInput{
		CustomerID: customer.ID,
		Sales:      []SaleLineInput{{ItemID: latte.ID, Quantity: 2, TotalPrice: dec("24.00"), Remarks: &remark}},
	})
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	summaries, err := svc.ListByCustomer(ctx, customer.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 1 || summaries[0].TotalPrice != "24.00" || summaries[0].Status != "Preparing" {
		t.Fatalf("unexpected summaries %+v", summaries)
	}

	invoice, err := svc.Invoice(ctx, result.OrderID)
	if err != nil {
		t.Fatalf("invoice: %v", err)
	}
	if len(invoice.Items) != 1 {
		t.Fatalf("expected 1 invoice line, got %d", len(invoice.Items))
	}
	line := invoice.Items[0]
	if line.Name != "Latte" || line.Price != "12.00" || line.TotalPrice != "24.00" {
		t.Fatalf("unexpected invoice line %+v", line)
	}
	if line.Remarks == nil || *line.Remarks != "less sugar" {
		t.Fatalf("remarks lost: %+v", line)
	}
	if invoice.FinalTotal != "24.00" || invoice.DiscountApplied != "0.00" {
		t.Fatalf("unexpected invoice totals %+v", invoice)
	}

	_, err = svc.Invoice(ctx, 999)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	adminRows, err := svc.AdminList(ctx)
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(adminRows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(adminRows))
	}
	row := adminRows[0]
	if row.CustomerName == nil || *row.CustomerName != customer.CustomerName {
		t.Fatalf("customer name missing: %+v", row)
	}
	if len(row.Items) != 1 || row.Items[0].Quantity != 2 {
		t.Fatalf("line items missing: %+v", row)
	}

	if err := svc.UpdateStatus(ctx, StatusUpdateInput{OrderID: result.OrderID, Status: "Completed"}); err != nil {
		t.Fatalf("update status: %v", err)
	}
	err = svc.UpdateStatus(ctx, StatusUpdateInput{OrderID: result.OrderID, Status: "Burnt"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation for bad status, got %v", err)
	}

	if err := svc.Delete(ctx, DeleteOrdersInput{OrderIDs: []int64{result.OrderID}}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var saleCount int64
	if err := db.Model(&models.Sale{}).Count(&saleCount).Error; err != nil {
		t.Fatalf("count sales: %v", err)
	}
	if saleCount != 0 {
		t.Fatalf("sale rows left behind: %d", saleCount)
	}
}
