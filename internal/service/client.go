package service

import (
	"context"
	"strings"

	"github.com/billbook/billbook/internal/api/dto"
	"github.com/billbook/billbook/internal/domain/client"
	"github.com/samber/lo"
)

type ClientService interface {
	// UpsertClient writes on the transaction carried by ctx when there is one.
	// A blank name is a no-op.
	UpsertClient(ctx context.Context, c *client.Client) error
	SaveClient(ctx context.Context, req dto.UpsertClientRequest) (*dto.SuccessResponse, error)
	SearchClients(ctx context.Context, query string) ([]*dto.ClientResponse, error)
}

type clientService struct {
	ServiceParams
}

func NewClientService(params ServiceParams) ClientService {
	return &clientService{
		ServiceParams: params,
	}
}

func (s *clientService) UpsertClient(ctx context.Context, c *client.Client) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil
	}
	return s.ClientRepo.Upsert(ctx, c)
}

func (s *clientService) SaveClient(ctx context.Context, req dto.UpsertClientRequest) (*dto.SuccessResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.UpsertClient(ctx, req.ToClient()); err != nil {
		return nil, err
	}
	return &dto.SuccessResponse{Message: dto.ClientSavedMessage}, nil
}

func (s *clientService) SearchClients(ctx context.Context, query string) ([]*dto.ClientResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*dto.ClientResponse{}, nil
	}

	clients, err := s.ClientRepo.Search(ctx, query, s.Config.Invoice.ClientSearchLimit)
	if err != nil {
		return nil, err
	}
	return lo.Map(clients, func(c *client.Client, _ int) *dto.ClientResponse {
		return dto.NewClientResponse(c)
	}), nil
}
