package feedback

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hengonghuat/cafe-backend/pkg/db/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:feedback_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Customer{}, &models.Feedback{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestSubmitLinksKnownCustomer(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	customer := models.Customer{
		CustomerName: "Hafiz",
		Email:        "hafiz@example.com",
		PhoneNumber:  "012-9998877",
		PasswordHash: "hash",
	}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("create customer: %v", err)
	}

	rating := 4.5
	id, err := svc.Submit(ctx, SubmitInput{
		PhoneNumber: "012-9998877",
		Feedback:    "latte was excellent",
		Rating:      &rating,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	var stored models.Feedback
	if err := db.First(&stored, "feedback_id = ?", id).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.CustomerID == nil || *stored.CustomerID != customer.ID {
		t.Fatalf("expected feedback linked to customer, got %+v", stored)
	}
	if stored.Rating == nil || *stored.Rating != 4.5 {
		t.Fatalf("rating not stored: %+v", stored)
	}
}

func TestSubmitUnknownPhoneStillRecords(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	id, err := svc.Submit(ctx, SubmitInput{
		PhoneNumber: "000-0000000",
		Feedback:    "queue was long",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	var stored models.Feedback
	if err := db.First(&stored, "feedback_id = ?", id).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.CustomerID != nil {
		t.Fatalf("expected no customer link, got %+v", stored)
	}
	if stored.Rating != nil {
		t.Fatalf("expected nil rating, got %+v", stored)
	}
}

func TestListNewestFirstWithNames(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	customer := models.Customer{
		CustomerName: "Wei Jie",
		Email:        "weijie@example.com",
		PhoneNumber:  "013-1112222",
		PasswordHash: "hash",
	}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("create customer: %v", err)
	}

	if _, err := svc.Submit(ctx, SubmitInput{PhoneNumber: "013-1112222", Feedback: "first"}); err != nil {
		t.Fatalf("submit first: %v", err)
	}
	if _, err := svc.Submit(ctx, SubmitInput{PhoneNumber: "999-0000000", Feedback: "second"}); err != nil {
		t.Fatalf("submit second: %v", err)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(list))
	}

	var linked, anonymous *FeedbackDTO
	for i := range list {
		if list[i].Feedback == "first" {
			linked = &list[i]
		} else {
			anonymous = &list[i]
		}
	}
	if linked == nil || linked.CustomerName == nil || *linked.CustomerName != "Wei Jie" {
		t.Fatalf("expected resolved customer name, got %+v", linked)
	}
	if anonymous == nil || anonymous.CustomerName != nil {
		t.Fatalf("expected nil name for unknown phone, got %+v", anonymous)
	}
}
