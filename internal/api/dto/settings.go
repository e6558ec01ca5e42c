package dto

import "github.com/billbook/billbook/internal/domain/settings"

// CompanySettingsResponse is the settings row as the invoice form consumes it
type CompanySettingsResponse struct {
	*settings.CompanySettings
}

func NewCompanySettingsResponse(s *settings.CompanySettings) *CompanySettingsResponse {
	return &CompanySettingsResponse{CompanySettings: s}
}
