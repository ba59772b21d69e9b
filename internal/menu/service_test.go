package menu

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hengonghuat/cafe-backend/internal/settings"
	"github.com/hengonghuat/cafe-backend/pkg/config"
	"github.com/hengonghuat/cafe-backend/pkg/db/models"
	pkgerrors "github.com/hengonghuat/cafe-backend/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:menu_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.MenuItem{}, &models.Customer{}, &models.Order{}, &models.Sale{}, &models.Setting{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	settingsSvc, err := settings.NewService(settings.NewRepository(db), config.LoyaltyConfig{DefaultConversionRate: 10, DefaultLowStockThreshold: 3})
	if err != nil {
		t.Fatalf("settings service: %v", err)
	}
	svc, err := NewService(NewRepository(db), settingsSvc)
	if err != nil {
		t.Fatalf("menu service: %v", err)
	}
	return svc
}

func mustCreateCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{CategoryName: name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return category
}

func mustCreateItem(t *testing.T, db *gorm.DB, categoryID, priceCents, stock int64) *models.MenuItem {
	t.Helper()
	item := &models.MenuItem{
		Name:            "Kaya Toast",
		PriceCents:      priceCents,
		AvailableAmount: stock,
		CategoryID:      categoryID,
		IsAvailable:     true,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("create item: %v", err)
	}
	return item
}

func TestAdjustStockGuardRefusesNegative(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	category := mustCreateCategory(t, db, "Food")
	item := mustCreateItem(t, db, category.ID, 320, 2)
	repo := NewRepository(db)
	ctx := context.Background()

	ok, err := repo.AdjustStock(ctx, item.ID, -2)
	if err != nil || !ok {
		t.Fatalf("expected adjustment to apply, ok=%v err=%v", ok, err)
	}

	ok, err = repo.AdjustStock(ctx, item.ID, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("guard must refuse going below zero")
	}

	var reloaded models.MenuItem
	if err := db.First(&reloaded, "item_id = ?", item.ID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if reloaded.AvailableAmount != 0 {
		t.Fatalf("expected stock 0, got %d", reloaded.AvailableAmount)
	}
}

func TestMenuIncludesSalesCounts(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	category := mustCreateCategory(t, db, "Beverage")
	item := mustCreateItem(t, db, category.ID, 180, 10)

	customer := &models.Customer{CustomerName: "Mei", Email: "mei@example.com", PhoneNumber: "91234567", PasswordHash: "x"}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("create customer: %v", err)
	}

	oldOrder := &models.Order{CustomerID: customer.ID, TotalPriceCents: 360, Sales: []models.Sale{{ItemID: item.ID, Quantity: 2, TotalPriceCents: 360}}}
	if err := db.Create(oldOrder).Error; err != nil {
		t.Fatalf("create old order: %v", err)
	}
	// push it to yesterday
	if err := db.Model(&models.Order{}).Where("order_id = ?", oldOrder.ID).
		Update("created_date_time", time.Now().Add(-36*time.Hour)).Error; err != nil {
		t.Fatalf("age order: %v", err)
	}

	todayOrder := &models.Order{CustomerID: customer.ID, TotalPriceCents: 180, Sales: []models.Sale{{ItemID: item.ID, Quantity: 1, TotalPriceCents: 180}}}
	if err := db.Create(todayOrder).Error; err != nil {
		t.Fatalf("create today order: %v", err)
	}

	repo := NewRepository(db)
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	lifetime, today, err := repo.SalesCounts(context.Background(), todayStart)
	if err != nil {
		t.Fatalf("sales counts: %v", err)
	}
	if lifetime[item.ID] != 3 {
		t.Fatalf("expected lifetime 3, got %d", lifetime[item.ID])
	}
	if today[item.ID] != 1 {
		t.Fatalf("expected today 1, got %d", today[item.ID])
	}
}

func TestAddItemValidatesPrice(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	category := mustCreateCategory(t, db, "Food")
	svc := newTestService(t, db)

	_, err := svc.AddItem(context.Background(), ItemInput{
		Name:       "Free Water",
		Price:      "0.00",
		CategoryID: category.ID,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	dto, err := svc.AddItem(context.Background(), ItemInput{
		Name:            "Kopi",
		Price:           "1.80",
		AvailableAmount: 10,
		CategoryID:      category.ID,
		IsAvailable:     true,
	})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if dto.Price != "1.80" {
		t.Fatalf("expected price 1.80, got %s", dto.Price)
	}
}

func TestLowStockUsesThreshold(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	category := mustCreateCategory(t, db, "Food")
	mustCreateItem(t, db, category.ID, 320, 2)
	plentiful := mustCreateItem(t, db, category.ID, 320, 50)
	_ = plentiful

	svc := newTestService(t, db)
	items, err := svc.LowStock(context.Background())
	if err != nil {
		t.Fatalf("low stock: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 low stock item, got %d", len(items))
	}
	if items[0].AvailableAmount != 2 {
		t.Fatalf("unexpected item %+v", items[0])
	}
}

func TestAdjustStockMissingItem(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.AdjustStock(context.Background(), 999, 5)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
