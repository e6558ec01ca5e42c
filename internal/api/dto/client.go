package dto

import (
	"strings"

	"github.com/billbook/billbook/internal/domain/client"
	ierr "github.com/billbook/billbook/internal/errors"
	"github.com/billbook/billbook/internal/validator"
)

const ClientSavedMessage = "Client saved successfully"

type UpsertClientRequest struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Gst     string `json:"gst"`
}

func (r *UpsertClientRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if strings.TrimSpace(r.Name) == "" {
		return ierr.NewError("client name is blank").
			WithHint("Client name is required").
			WithReportableDetails(map[string]any{
				"name": "is required",
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (r *UpsertClientRequest) ToClient() *client.Client {
	return client.NewClient(r.Name, r.Phone, r.Address, r.Gst)
}

type ClientResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Gst     string `json:"gst"`
}

func NewClientResponse(c *client.Client) *ClientResponse {
	return &ClientResponse{
		ID:      c.ID,
		Name:    c.Name,
		Phone:   c.Phone,
		Address: c.Address,
		Gst:     c.GST,
	}
}
