package admins

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgauth "github.com/hengonghuat/cafe-backend/pkg/auth"
	"github.com/hengonghuat/cafe-backend/pkg/config"
	"github.com/hengonghuat/cafe-backend/pkg/db/models"
	"github.com/hengonghuat/cafe-backend/pkg/enums"
	pkgerrors "github.com/hengonghuat/cafe-backend/pkg/errors"
	"github.com/hengonghuat/cafe-backend/pkg/security"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the admin controllers.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Register(ctx context.Context, input AdminInput) (int64, error)
	List(ctx context.Context) ([]AdminDTO, error)
	Update(ctx context.Context, userID int64, input AdminInput) error
	Delete(ctx context.Context, userID int64) error
}

type adminRepository interface {
	Create(ctx context.Context, admin *models.AdminUser) (*models.AdminUser, error)
	FindByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error)
	List(ctx context.Context) ([]models.AdminUser, error)
	Update(ctx context.Context, userID int64, username, passwordHash string) error
	Delete(ctx context.Context, userID int64) error
}

type service struct {
	repo        adminRepository
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	now         func() time.Time
}

// NewService constructs an admin service with the provided dependencies.
func NewService(repo adminRepository, jwtCfg config.JWTConfig, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("admin repository is required")
	}
	return &service{
		repo:        repo,
		jwtCfg:      jwtCfg,
		passwordCfg: passwordCfg,
		now:         time.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	admin, err := s.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load admin")
	}

	ok, err := security.VerifyPassword(input.Password, admin.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		SubjectID: admin.ID,
		Name:      admin.Username,
		Role:      enums.ActorRoleAdmin,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &LoginResult{Token: token, UserID: admin.ID, Username: admin.Username}, nil
}

func (s *service) Register(ctx context.Context, input AdminInput) (int64, error) {
	taken, err := s.repo.UsernameTaken(ctx, input.Username, 0)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
	}
	if taken {
		return 0, pkgerrors.New(pkgerrors.CodeConflict, "username already exists")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	admin, err := s.repo.Create(ctx, &models.AdminUser{Username: input.Username, PasswordHash: hash})
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create admin")
	}
	return admin.ID, nil
}

func (s *service) List(ctx context.Context) ([]AdminDTO, error) {
	admins, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list admins")
	}
	out := make([]AdminDTO, 0, len(admins))
	for i := range admins {
		out = append(out, toAdminDTO(&admins[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, userID int64, input AdminInput) error {
	taken, err := s.repo.UsernameTaken(ctx, input.Username, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
	}
	if taken {
		return pkgerrors.New(pkgerrors.CodeConflict, "username already exists")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.repo.Update(ctx, userID, input.Username, hash); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "admin not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update admin")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, userID int64) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "admin not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete admin")
	}
	return nil
}
