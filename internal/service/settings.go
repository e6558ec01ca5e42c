package service

import (
	"context"
	"time"

	"github.com/billbook/billbook/internal/api/dto"
	"github.com/billbook/billbook/internal/cache"
	"github.com/billbook/billbook/internal/domain/settings"
)

// SettingsService serves the company defaults used to prefill invoices
type SettingsService interface {
	GetCompanySettings(ctx context.Context) (*dto.CompanySettingsResponse, error)
	SaveCompanySettings(ctx context.Context, s *settings.CompanySettings) error
}

type settingsService struct {
	ServiceParams
}

func NewSettingsService(params ServiceParams) SettingsService {
	return &settingsService{
		ServiceParams: params,
	}
}

var companySettingsKey = cache.GenerateKey(cache.PrefixSettings, "company")

func (s *settingsService) GetCompanySettings(ctx context.Context) (*dto.CompanySettingsResponse, error) {
	if cached, found := s.Cache.Get(ctx, companySettingsKey); found {
		if cs, ok := cached.(*settings.CompanySettings); ok {
			return dto.NewCompanySettingsResponse(cs), nil
		}
	}

	cs, err := s.SettingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, companySettingsKey, cs, 0)
	return dto.NewCompanySettingsResponse(cs), nil
}

func (s *settingsService) SaveCompanySettings(ctx context.Context, cs *settings.CompanySettings) error {
	cs.UpdatedAt = time.Now().UTC()
	if err := s.SettingsRepo.Upsert(ctx, cs); err != nil {
		return err
	}

	s.Cache.Delete(ctx, companySettingsKey)
	s.Logger.Infow("company settings saved", "seller_name", cs.SellerName)
	return nil
}
