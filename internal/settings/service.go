package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/hengonghuat/cafe-backend/pkg/config"
	"github.com/hengonghuat/cafe-backend/pkg/enums"
	pkgerrors "github.com/hengonghuat/cafe-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes typed access to the shared settings table. Missing or
// non-numeric values fall back to the configured defaults instead of failing.
type Service interface {
	PointsConversionRate(ctx context.Context) float64
	LowStockThreshold(ctx context.Context) int64
	Get(ctx context.Context, key enums.SettingKey) (string, error)
	SetPointsConversionRate(ctx context.Context, rate float64) error
	SetLowStockThreshold(ctx context.Context, threshold int64) error
}

type service struct {
	repo     *Repository
	defaults config.LoyaltyConfig
}

func NewService(repo *Repository, defaults config.LoyaltyConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo, defaults: defaults}, nil
}

func (s *service) PointsConversionRate(ctx context.Context) float64 {
	return s.floatOrDefault(ctx, enums.SettingPointsConversionRate, s.defaults.DefaultConversionRate)
}

func (s *service) LowStockThreshold(ctx context.Context) int64 {
	return s.intOrDefault(ctx, enums.SettingLowStockThreshold, int64(s.defaults.DefaultLowStockThreshold))
}

func (s *service) Get(ctx context.Context, key enums.SettingKey) (string, error) {
	setting, err := s.repo.Find(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "setting not found")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load setting")
	}
	return setting.Value, nil
}

func (s *service) SetPointsConversionRate(ctx context.Context, rate float64) error {
	if rate <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "conversion rate must be positive")
	}
	return s.set(ctx, enums.SettingPointsConversionRate, strconv.FormatFloat(rate, 'f', -1, 64))
}

func (s *service) SetLowStockThreshold(ctx context.Context, threshold int64) error {
	if threshold < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "threshold cannot be negative")
	}
	return s.set(ctx, enums.SettingLowStockThreshold, strconv.FormatInt(threshold, 10))
}

func (s *service) set(ctx context.Context, key enums.SettingKey, value string) error {
	if err := s.repo.Upsert(ctx, key, value); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store setting")
	}
	return nil
}

func (s *service) floatOrDefault(ctx context.Context, key enums.SettingKey, fallback float64) float64 {
	setting, err := s.repo.Find(ctx, key)
	if err != nil {
		return fallback
	}
	value, err := strconv.ParseFloat(setting.Value, 64)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func (s *service) intOrDefault(ctx context.Context, key enums.SettingKey, fallback int64) int64 {
	setting, err := s.repo.Find(ctx, key)
	if err != nil {
		return fallback
	}
	value, err := strconv.ParseInt(setting.Value, 10, 64)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
