package v1

import (
	"net/http"

	"github.com/billbook/billbook/internal/api/dto"
	ierr "github.com/billbook/billbook/internal/errors"
	"github.com/billbook/billbook/internal/logger"
	"github.com/billbook/billbook/internal/service"
	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	service service.ClientService
	log     *logger.Logger
}

func NewClientHandler(service service.ClientService, log *logger.Logger) *ClientHandler {
	return &ClientHandler{
		service: service,
		log:     log,
	}
}

// @Summary Save a client
// @Description Creates the client or updates the one with the same name
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param client body dto.UpsertClientRequest true "Client"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /clients/save [post]
func (h *ClientHandler) SaveClient(c *gin.Context) {
	var req dto.UpsertClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.SaveClient(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Search clients
// @Description Case-insensitive substring search on client names
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param query query string false "Name fragment"
// @Success 200 {array} dto.ClientResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /clients/search [get]
func (h *ClientHandler) SearchClients(c *gin.Context) {
	resp, err := h.service.SearchClients(c.Request.Context(), c.Query("query"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
