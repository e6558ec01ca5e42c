package v1

import (
	"net/http"

	"github.com/billbook/billbook/internal/logger"
	"github.com/billbook/billbook/internal/service"
	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	service service.SettingsService
	log     *logger.Logger
}

func NewSettingsHandler(service service.SettingsService, log *logger.Logger) *SettingsHandler {
	return &SettingsHandler{
		service: service,
		log:     log,
	}
}

// @Summary Get company settings
// @Description Seller and payment defaults used to prefill new invoices
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CompanySettingsResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /settings/company [get]
func (h *SettingsHandler) GetCompanySettings(c *gin.Context) {
	resp, err := h.service.GetCompanySettings(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
