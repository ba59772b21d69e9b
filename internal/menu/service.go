package menu

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hengonghuat/cafe-backend/internal/settings"
	"github.com/hengonghuat/cafe-backend/pkg/db/models"
	pkgerrors "github.com/hengonghuat/cafe-backend/pkg/errors"
	"github.com/hengonghuat/cafe-backend/pkg/money"
	"gorm.io/gorm"
)

// Service exposes the menu read path and the admin mutations.
type Service interface {
	Menu(ctx context.Context) ([]ItemDTO, error)
	Categories(ctx context.Context) ([]CategoryDTO, error)
	AddItem(ctx context.Context, input ItemInput) (*ItemDTO, error)
	UpdateItem(ctx context.Context, itemID int64, input ItemInput) (*ItemDTO, error)
	DeleteItem(ctx context.Context, itemID int64) error
	SetAvailability(ctx context.Context, itemID int64, available bool) error
	AdjustStock(ctx context.Context, itemID, delta int64) (int64, error)
	LowStock(ctx context.Context) ([]ItemDTO, error)
}

// ItemInput holds the validated payload to create or replace a menu item.
type ItemInput struct {
	Name            string
	Description     *string
	Price           string
	AvailableAmount int64
	CategoryID      int64
	IsAvailable     bool
	ImageURL        *string
}

type service struct {
	repo     *Repository
	settings settings.Service
	now      func() time.Time
}

func NewService(repo *Repository, settingsSvc settings.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("menu repository required")
	}
	if settingsSvc == nil {
		return nil, fmt.Errorf("settings service required")
	}
	return &service{repo: repo, settings: settingsSvc, now: time.Now}, nil
}

func (s *service) Menu(ctx context.Context) ([]ItemDTO, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list menu")
	}

	now := s.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	lifetime, today, err := s.repo.SalesCounts(ctx, todayStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregate sales counts")
	}

	dtos := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, toItemDTO(item, lifetime[item.ID], today[item.ID]))
	}
	return dtos, nil
}

func (s *service) Categories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	dtos := make([]CategoryDTO, 0, len(categories))
	for _, category := range categories {
		dtos = append(dtos, CategoryDTO{CategoryID: category.ID, CategoryName: category.CategoryName})
	}
	return dtos, nil
}

func (s *service) AddItem(ctx context.Context, input ItemInput) (*ItemDTO, error) {
	item, err := s.itemFromInput(input)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create menu item")
	}
	dto := toItemDTO(*created, 0, 0)
	return &dto, nil
}

func (s *service) UpdateItem(ctx context.Context, itemID int64, input ItemInput) (*ItemDTO, error) {
	existing, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load menu item")
	}

	replacement, err := s.itemFromInput(input)
	if err != nil {
		return nil, err
	}
	replacement.ID = existing.ID
	replacement.CreatedAt = existing.CreatedAt

	updated, err := s.repo.Update(ctx, replacement)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update menu item")
	}
	dto := toItemDTO(*updated, 0, 0)
	return &dto, nil
}

func (s *service) DeleteItem(ctx context.Context, itemID int64) error {
	if err := s.repo.Delete(ctx, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete menu item")
	}
	return nil
}

func (s *service) SetAvailability(ctx context.Context, itemID int64, available bool) error {
	if err := s.repo.SetAvailability(ctx, itemID, available); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "toggle availability")
	}
	return nil
}

func (s *service) AdjustStock(ctx context.Context, itemID, delta int64) (int64, error) {
	if delta == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "delta cannot be zero")
	}

	ok, err := s.repo.AdjustStock(ctx, itemID, delta)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adjust stock")
	}
	if !ok {
		// distinguish missing item from a refused decrement
		if _, findErr := s.repo.FindByID(ctx, itemID); findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return 0, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
			}
			return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, findErr, "load menu item")
		}
		return 0, pkgerrors.New(pkgerrors.CodeConflict, "stock cannot go negative").
			WithDetails(map[string]any{"item_id": itemID, "delta": delta})
	}

	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load menu item")
	}
	return item.AvailableAmount, nil
}

func (s *service) LowStock(ctx context.Context) ([]ItemDTO, error) {
	threshold := s.settings.LowStockThreshold(ctx)
	items, err := s.repo.ListLowStock(ctx, threshold)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list low stock")
	}
	dtos := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, toItemDTO(item, 0, 0))
	}
	return dtos, nil
}

func (s *service) itemFromInput(input ItemInput) (*models.MenuItem, error) {
	priceCents, err := money.ParseAmount(input.Price)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
	}
	if priceCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if input.AvailableAmount < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "available amount cannot be negative")
	}
	return &models.MenuItem{
		Name:            input.Name,
		Description:     input.Description,
		PriceCents:      priceCents,
		AvailableAmount: input.AvailableAmount,
		CategoryID:      input.CategoryID,
		IsAvailable:     input.IsAvailable,
		ImageURL:        input.ImageURL,
	}, nil
}
