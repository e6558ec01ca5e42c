package service

import (
	"github.com/billbook/billbook/internal/api/dto"
	"github.com/billbook/billbook/internal/auth"
	"github.com/billbook/billbook/internal/testutil"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// newTestServiceParams wires services to the suite's in-memory stores
func newTestServiceParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	stores := s.GetStores()
	return NewServiceParams(
		s.GetLogger(),
		s.GetConfig(),
		s.GetDB(),
		s.GetCache(),
		auth.NewProvider(s.GetConfig()),
		stores.InvoiceRepo,
		stores.CounterRepo,
		stores.ClientRepo,
		stores.SettingsRepo,
		stores.UserRepo,
	)
}

func amount(value string) *decimal.Decimal {
	return lo.ToPtr(decimal.RequireFromString(value))
}

func item(description, quantity, unitPrice string) dto.InvoiceItemRequest {
	return dto.InvoiceItemRequest{
		Description: description,
		Quantity:    amount(quantity),
		UnitPrice:   amount(unitPrice),
	}
}

func saveRequest(invoiceNo, clientName string, taxRate string, items ...dto.InvoiceItemRequest) dto.SaveInvoiceRequest {
	return dto.SaveInvoiceRequest{
		InvoiceData: &dto.InvoiceData{
			InvoiceNo:     invoiceNo,
			InvoiceDate:   "2024-03-15",
			ClientName:    clientName,
			ClientPhone:   "+91 98765 43210",
			ClientAddress: "12 MG Road, Bengaluru",
			ClientGst:     "29ABCDE1234F1Z5",
			Items:         items,
			TaxRate:       amount(taxRate),
			SellerName:    "Billbook Traders",
			RegdAddress:   "1 Registered Street",
			OffcAddress:   "2 Office Lane",
			PaymentInfo: dto.PaymentInfo{
				BankName:    "State Bank",
				AccountName: "Billbook Traders",
				AccountNo:   "000123456789",
				IFSCCode:    "SBIN0000123",
				Branch:      "Indiranagar",
			},
		},
	}
}

func widgetGadgetRequest(invoiceNo string) dto.SaveInvoiceRequest {
	return saveRequest(invoiceNo, "Acme Corp", "18",
		item("Widget", "2", "100"),
		item("Gadget", "1", "50"),
	)
}
