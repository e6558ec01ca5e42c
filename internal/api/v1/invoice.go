package v1

import (
	"net/http"
	"strconv"

	"github.com/billbook/billbook/internal/api/dto"
	ierr "github.com/billbook/billbook/internal/errors"
	"github.com/billbook/billbook/internal/logger"
	"github.com/billbook/billbook/internal/service"
	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	service service.InvoiceService
	log     *logger.Logger
}

func NewInvoiceHandler(service service.InvoiceService, log *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		service: service,
		log:     log,
	}
}

// @Summary Preview the next invoice number
// @Description Returns the number the next save is expected to allocate. Nothing is reserved.
// @Tags Invoices
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.NextInvoiceNumberResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /invoice/next-number [get]
func (h *InvoiceHandler) GetNextNumber(c *gin.Context) {
	resp, err := h.service.PeekNextInvoiceNumber(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Save an invoice
// @Description Persists the invoice with its line items and consumes the next invoice number
// @Tags Invoices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param invoice body dto.SaveInvoiceRequest true "Invoice"
// @Success 200 {object} dto.SaveInvoiceResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /invoice/save [post]
func (h *InvoiceHandler) SaveInvoice(c *gin.Context) {
	var req dto.SaveInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.SaveInvoice(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List invoices
// @Description Lists invoice summaries, newest first
// @Tags Invoices
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.InvoiceSummaryResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /invoice/all [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	resp, err := h.service.ListInvoices(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get an invoice
// @Description Returns the invoice with its ordered line items
// @Tags Invoices
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invoice ID"
// @Success 200 {object} dto.InvoiceDocument
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /invoice/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invoice ID must be a number").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetInvoice(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
