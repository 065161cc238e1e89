// Package settings serves the single venue settings record.
package settings

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"console-cafe-backend/config"
	"console-cafe-backend/internal/apperr"
	"console-cafe-backend/internal/model"
	"console-cafe-backend/internal/store"
)

// UpdateRequest is a partial settings update; nil fields are left unchanged.
type UpdateRequest struct {
	HourlyRate *float64 `json:"hourly_rate" binding:"omitempty,gt=0"`
	Currency   *string  `json:"currency" binding:"omitempty,max=16"`
	CafeName   *string  `json:"cafe_name" binding:"omitempty,max=128"`
	TaxRate    *float64 `json:"tax_rate" binding:"omitempty,gte=0,lte=1"`
}

// Service reads settings through an in-process cache.
type Service struct {
	store    store.Store
	defaults model.Settings
	cache    *cache.Cache
	log      *zap.Logger
}

func New(s store.Store, venue config.VenueConfig, ttl time.Duration, log *zap.Logger) *Service {
	return &Service{
		store: s,
		defaults: model.Settings{
			ID:         model.SettingsID,
			HourlyRate: venue.HourlyRate,
			Currency:   venue.Currency,
			CafeName:   venue.CafeName,
			TaxRate:    venue.TaxRate,
		},
		cache: cache.New(ttl, 2*ttl),
		log:   log,
	}
}

// EnsureDefaults stores the configured defaults if no settings record exists yet.
func (s *Service) EnsureDefaults(ctx context.Context) (bool, error) {
	_, err := s.store.GetSettings(ctx)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}
	defaults := s.defaults
	if err := s.store.SaveSettings(ctx, &defaults); err != nil {
		return false, err
	}
	s.log.Info("seeded venue settings",
		zap.Float64("hourly_rate", defaults.HourlyRate),
		zap.String("cafe_name", defaults.CafeName))
	return true, nil
}

// Get returns the current settings. Before EnsureDefaults has run it returns
// the configured defaults.
func (s *Service) Get(ctx context.Context) (*model.Settings, error) {
	if cached, found := s.cache.Get(model.SettingsID); found {
		settings := cached.(model.Settings)
		return &settings, nil
	}

	settings, err := s.store.GetSettings(ctx)
	if errors.Is(err, store.ErrNotFound) {
		defaults := s.defaults
		return &defaults, nil
	}
	if err != nil {
		return nil, err
	}
	s.cache.Set(model.SettingsID, *settings, cache.DefaultExpiration)
	return settings, nil
}

// HourlyRate is the rate applied to sessions started without an explicit one.
func (s *Service) HourlyRate(ctx context.Context) (float64, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return 0, err
	}
	return settings.HourlyRate, nil
}

func (s *Service) Update(ctx context.Context, req UpdateRequest) (*model.Settings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	next := *current

	if req.HourlyRate != nil {
		if !positive(*req.HourlyRate) {
			return nil, apperr.Validation("hourly_rate must be greater than 0")
		}
		next.HourlyRate = *req.HourlyRate
	}
	if req.TaxRate != nil {
		if math.IsNaN(*req.TaxRate) || *req.TaxRate < 0 || *req.TaxRate > 1 {
			return nil, apperr.Validation("tax_rate must be between 0 and 1")
		}
		next.TaxRate = *req.TaxRate
	}
	if req.Currency != nil {
		currency := strings.TrimSpace(*req.Currency)
		if currency == "" {
			return nil, apperr.Validation("currency must not be empty")
		}
		next.Currency = currency
	}
	if req.CafeName != nil {
		name := strings.TrimSpace(*req.CafeName)
		if name == "" {
			return nil, apperr.Validation("cafe_name must not be empty")
		}
		next.CafeName = name
	}

	if err := s.store.SaveSettings(ctx, &next); err != nil {
		return nil, err
	}
	s.cache.Delete(model.SettingsID)
	s.log.Info("venue settings updated", zap.Float64("hourly_rate", next.HourlyRate), zap.Float64("tax_rate", next.TaxRate))
	return &next, nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
