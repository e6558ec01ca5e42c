package service

import (
	"context"

	"github.com/billbook/billbook/internal/api/dto"
	"github.com/billbook/billbook/internal/domain/client"
	"github.com/billbook/billbook/internal/domain/invoice"
	ierr "github.com/billbook/billbook/internal/errors"
	"github.com/samber/lo"
)

type InvoiceService interface {
	// PeekNextInvoiceNumber previews the number the next save will allocate.
	// It neither locks nor writes, so two callers may see the same number.
	PeekNextInvoiceNumber(ctx context.Context) (*dto.NextInvoiceNumberResponse, error)
	SaveInvoice(ctx context.Context, req dto.SaveInvoiceRequest) (*dto.SaveInvoiceResponse, error)
	GetInvoice(ctx context.Context, id int64) (*dto.InvoiceDocument, error)
	ListInvoices(ctx context.Context) ([]*dto.InvoiceSummaryResponse, error)
}

type invoiceService struct {
	ServiceParams
	clientService ClientService
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{
		ServiceParams: params,
		clientService: NewClientService(params),
	}
}

func (s *invoiceService) PeekNextInvoiceNumber(ctx context.Context) (*dto.NextInvoiceNumberResponse, error) {
	counter, err := s.CounterRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	next := counter.Next()
	return &dto.NextInvoiceNumberResponse{
		InvoiceNo:  s.formatNumber(counter, next),
		NextNumber: next,
	}, nil
}

// SaveInvoice persists the client, header, items and the counter advance in
// one transaction. Nothing is written when any step fails.
func (s *invoiceService) SaveInvoice(ctx context.Context, req dto.SaveInvoiceRequest) (*dto.SaveInvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	draft, err := req.ToDraft()
	if err != nil {
		return nil, err
	}

	if err := draft.Validate(); err != nil {
		return nil, err
	}

	var saved *invoice.Invoice
	err = s.DB.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.clientService.UpsertClient(txCtx, client.NewClient(
			draft.ClientName,
			draft.ClientPhone,
			draft.ClientAddress,
			draft.ClientGST,
		)); err != nil {
			return err
		}

		// serializes concurrent saves until commit
		counter, err := s.CounterRepo.GetForUpdate(txCtx)
		if err != nil {
			return err
		}

		sequence := counter.Next()
		allocated := s.formatNumber(counter, sequence)

		number := draft.InvoiceNumber
		if number == "" {
			number = allocated
		} else if number != allocated {
			// the previewed number went to another save first; the submitted number is kept
			s.Logger.Warnw("submitted invoice number differs from allocated sequence",
				"submitted", number,
				"allocated", allocated,
				"sequence_no", sequence,
			)
		}

		inv := invoice.NewInvoice(draft, number, sequence)
		if err := s.InvoiceRepo.Create(txCtx, inv); err != nil {
			return err
		}

		current, err := s.CounterRepo.Increment(txCtx)
		if err != nil {
			return err
		}
		if current != sequence {
			return ierr.NewError("invoice counter moved during save").
				WithHint("Invoice number was taken by another save, please retry").
				WithReportableDetails(map[string]any{
					"expected": sequence,
					"actual":   current,
				}).
				Mark(ierr.ErrConflict)
		}

		saved = inv
		return nil
	})
	if err != nil {
		s.Logger.Errorw("failed to save invoice",
			"invoice_no", draft.InvoiceNumber,
			"error", err,
		)
		return nil, err
	}

	s.Logger.Infow("invoice saved",
		"invoice_id", saved.ID,
		"invoice_no", saved.InvoiceNumber,
		"sequence_no", saved.Sequence,
		"total_amount", saved.TotalAmount.String(),
	)

	return &dto.SaveInvoiceResponse{
		Message:   dto.InvoiceSavedMessage,
		InvoiceID: saved.ID,
	}, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id int64) (*dto.InvoiceDocument, error) {
	if id <= 0 {
		return nil, ierr.NewError("invalid invoice id").
			WithHint("Invoice ID must be a positive integer").
			WithReportableDetails(map[string]any{
				"id": id,
			}).
			Mark(ierr.ErrValidation)
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewInvoiceDocument(inv), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context) ([]*dto.InvoiceSummaryResponse, error) {
	summaries, err := s.InvoiceRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(summaries, func(summary *invoice.Summary, _ int) *dto.InvoiceSummaryResponse {
		return dto.NewInvoiceSummaryResponse(summary)
	}), nil
}

func (s *invoiceService) formatNumber(counter *invoice.Counter, sequence int64) string {
	return invoice.FormatInvoiceNumber(
		counter.PrefixOr(s.Config.Invoice.DefaultPrefix),
		sequence,
		s.Config.Invoice.NumberPadding,
	)
}
