package admins

import (
	"context"
	"testing"

	"github.com/google/uuid"
	pkgauth "github.com/hengonghuat/cafe-backend/pkg/auth"
	"github.com/hengonghuat/cafe-backend/pkg/config"
	"github.com/hengonghuat/cafe-backend/pkg/db/models"
	"github.com/hengonghuat/cafe-backend/pkg/enums"
	pkgerrors "github.com/hengonghuat/cafe-backend/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:admins_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.AdminUser{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	jwtCfg := config.JWTConfig{Secret: "test-secret", Issuer: "cafe-backend-test", ExpirationMinutes: 15}
	passwordCfg := config.PasswordConfig{ArgonMemoryKB: 8, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 8, ArgonKeyLen: 16}
	svc, err := NewService(NewRepository(db), jwtCfg, passwordCfg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestAdminRegisterLoginAndRole(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	id, err := svc.Register(ctx, AdminInput{Username: "manager", Password: "barista-key-1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	result, err := svc.Login(ctx, LoginInput{Username: "manager", Password: "barista-key-1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	jwtCfg := config.JWTConfig{Secret: "test-secret", Issuer: "cafe-backend-test", ExpirationMinutes: 15}
	claims, err := pkgauth.ParseAccessToken(jwtCfg, result.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.SubjectID != id || claims.Role != enums.ActorRoleAdmin {
		t.Fatalf("unexpected claims %+v", claims)
	}

	_, err = svc.Login(ctx, LoginInput{Username: "manager", Password: "wrong"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	_, err = svc.Register(ctx, AdminInput{Username: "manager", Password: "other-pass-1"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict on duplicate username, got %v", err)
	}
}

func TestAdminCRUD(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	id, err := svc.Register(ctx, AdminInput{Username: "shift-lead", Password: "first-pass-1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.Update(ctx, id, AdminInput{Username: "shift-lead-2", Password: "second-pass-1"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	admins, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(admins) != 1 || admins[0].Username != "shift-lead-2" {
		t.Fatalf("unexpected list %+v", admins)
	}
	if _, err := svc.Login(ctx, LoginInput{Username: "shift-lead-2", Password: "second-pass-1"}); err != nil {
		t.Fatalf("login after update: %v", err)
	}

	if err := svc.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	err = svc.Delete(ctx, id)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
