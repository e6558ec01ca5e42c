package service

import (
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/billbook/billbook/internal/api/dto"
	ierr "github.com/billbook/billbook/internal/errors"
	"github.com/billbook/billbook/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/suite"
)

type InvoiceServiceSuite struct {
	testutil.BaseServiceTestSuite
	service InvoiceService
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewInvoiceService(newTestServiceParams(&s.BaseServiceTestSuite))
}

func (s *InvoiceServiceSuite) decimalEqual(expected string, actual decimal.Decimal) {
	s.Truef(decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual.String())
}

func (s *InvoiceServiceSuite) TestPeekNextInvoiceNumber() {
	testCases := []struct {
		name           string
		setup          func()
		expectedNo     string
		expectedNext   int64
		expectedErrFn  func(error) bool
		expectedResult bool
	}{
		{
			name:           "fresh_counter",
			expectedNo:     "INV-00001",
			expectedNext:   1,
			expectedResult: true,
		},
		{
			name: "existing_counter",
			setup: func() {
				s.GetStores().CounterRepo.Reset(41, "INV")
			},
			expectedNo:     "INV-00042",
			expectedNext:   42,
			expectedResult: true,
		},
		{
			name: "custom_prefix",
			setup: func() {
				s.GetStores().CounterRepo.Reset(6, "BB")
			},
			expectedNo:     "BB-00007",
			expectedNext:   7,
			expectedResult: true,
		},
		{
			name: "blank_prefix_uses_default",
			setup: func() {
				s.GetStores().CounterRepo.Reset(99999, "")
			},
			expectedNo:     "INV-100000",
			expectedNext:   100000,
			expectedResult: true,
		},
		{
			name: "missing_counter",
			setup: func() {
				s.GetStores().CounterRepo.Remove()
			},
			expectedErrFn: ierr.IsNotInitialized,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.GetStores().CounterRepo.Reset(0, "INV")
			if tc.setup != nil {
				tc.setup()
			}
			before := s.GetStores().CounterRepo.Current()

			resp, err := s.service.PeekNextInvoiceNumber(s.GetContext())
			if !tc.expectedResult {
				s.Error(err)
				s.True(tc.expectedErrFn(err))
				return
			}

			s.NoError(err)
			s.Equal(tc.expectedNo, resp.InvoiceNo)
			s.Equal(tc.expectedNext, resp.NextNumber)
			s.Equal(before, s.GetStores().CounterRepo.Current(), "peek must not advance the counter")
		})
	}
}

func (s *InvoiceServiceSuite) TestSaveInvoice_WidgetGadgetScenario() {
	resp, err := s.service.SaveInvoice(s.GetContext(), widgetGadgetRequest("INV-00001"))
	s.Require().NoError(err)
	s.Equal(dto.InvoiceSavedMessage, resp.Message)
	s.Positive(resp.InvoiceID)

	doc, err := s.service.GetInvoice(s.GetContext(), resp.InvoiceID)
	s.Require().NoError(err)

	s.decimalEqual("250", doc.Subtotal)
	s.decimalEqual("45", doc.TaxAmount)
	s.decimalEqual("295", doc.TotalAmount)
	s.decimalEqual("18", doc.TaxRate)

	s.Require().Len(doc.Items, 2)
	s.Equal("Widget", doc.Items[0].Description)
	s.decimalEqual("2", doc.Items[0].Quantity)
	s.decimalEqual("100", doc.Items[0].UnitPrice)
	s.decimalEqual("200", doc.Items[0].LineTotal)
	s.Equal("Gadget", doc.Items[1].Description)
	s.decimalEqual("1", doc.Items[1].Quantity)
	s.decimalEqual("50", doc.Items[1].UnitPrice)
	s.decimalEqual("50", doc.Items[1].LineTotal)

	s.Equal("INV-00001", doc.InvoiceNo)
	s.Equal(int64(1), doc.SequenceNo)
	s.Equal("2024-03-15", doc.InvoiceDate)
	s.Equal("Acme Corp", doc.ClientName)
	s.Equal("SBIN0000123", doc.PaymentInfo.IFSCCode)
	s.Equal("000123456789", doc.PaymentInfo.AccountNo)
	s.Equal("Billbook Traders", doc.SellerName)

	s.Equal(int64(1), s.GetStores().CounterRepo.Current())
}

func (s *InvoiceServiceSuite) TestSaveInvoice_RoundTripPreservesItems() {
	req := saveRequest("", "Globex", "12.5",
		item("Consulting hours", "7.25", "1499.99"),
		item("Travel", "1", "0"),
		item("Licence seat", "3", "333.333"),
		item("Support", "0.5", "80"),
	)

	resp, err := s.service.SaveInvoice(s.GetContext(), req)
	s.Require().NoError(err)

	doc, err := s.service.GetInvoice(s.GetContext(), resp.InvoiceID)
	s.Require().NoError(err)

	s.Require().Len(doc.Items, len(req.InvoiceData.Items))
	for i, submitted := range req.InvoiceData.Items {
		s.Equal(submitted.Description, doc.Items[i].Description)
		s.True(submitted.Quantity.Equal(doc.Items[i].Quantity))
		s.True(submitted.UnitPrice.Equal(doc.Items[i].UnitPrice))
		s.True(submitted.Quantity.Mul(*submitted.UnitPrice).Equal(doc.Items[i].LineTotal))
	}

	s.True(doc.Subtotal.Add(doc.TaxAmount).Equal(doc.TotalAmount), "subtotal + tax must equal total exactly")
	s.decimalEqual("11914.9265", doc.Subtotal)
	s.decimalEqual("1489.3658125", doc.TaxAmount)
	s.decimalEqual("13404.2923125", doc.TotalAmount)
}

func (s *InvoiceServiceSuite) TestSaveInvoice_BlankNumberUsesAllocated() {
	s.GetStores().CounterRepo.Reset(9, "INV")

	resp, err := s.service.SaveInvoice(s.GetContext(), widgetGadgetRequest("  "))
	s.Require().NoError(err)

	doc, err := s.service.GetInvoice(s.GetContext(), resp.InvoiceID)
	s.Require().NoError(err)
	s.Equal("INV-00010", doc.InvoiceNo)
	s.Equal(int64(10), doc.SequenceNo)
}

func (s *InvoiceServiceSuite) TestSaveInvoice_StalePreviewKeepsSubmittedNumber() {
	first, err := s.service.PeekNextInvoiceNumber(s.GetContext())
	s.Require().NoError(err)
	second, err := s.service.PeekNextInvoiceNumber(s.GetContext())
	s.Require().NoError(err)
	s.Equal(first.InvoiceNo, second.InvoiceNo)

	a, err := s.service.SaveInvoice(s.GetContext(), widgetGadgetRequest(first.InvoiceNo))
	s.Require().NoError(err)
	b, err := s.service.SaveInvoice(s.GetContext(), widgetGadgetRequest(second.InvoiceNo))
	s.Require().NoError(err)

	docA, err := s.service.GetInvoice(s.GetContext(), a.InvoiceID)
	s.Require().NoError(err)
	docB, err := s.service.GetInvoice(s.GetContext(), b.InvoiceID)
	s.Require().NoError(err)

	s.Equal(docA.InvoiceNo, docB.InvoiceNo)
	s.Equal(int64(1), docA.SequenceNo)
	s.Equal(int64(2), docB.SequenceNo)
	s.Equal(int64(2), s.GetStores().CounterRepo.Current())
}

func (s *InvoiceServiceSuite) TestSaveInvoice_ValidationFailuresWriteNothing() {
	testCases := []struct {
		name    string
		request dto.SaveInvoiceRequest
	}{
		{
			name:    "missing_invoice_data",
			request: dto.SaveInvoiceRequest{},
		},
		{
			name:    "empty_items",
			request: saveRequest("INV-00001", "Acme Corp", "18"),
		},
		{
			name:    "zero_quantity",
			request: saveRequest("INV-00001", "Acme Corp", "18", item("Widget", "0", "100")),
		},
		{
			name:    "negative_quantity",
			request: saveRequest("INV-00001", "Acme Corp", "18", item("Widget", "-1", "100")),
		},
		{
			name:    "negative_unit_price",
			request: saveRequest("INV-00001", "Acme Corp", "18", item("Widget", "1", "-5")),
		},
		{
			name:    "negative_tax_rate",
			request: saveRequest("INV-00001", "Acme Corp", "-1", item("Widget", "1", "5")),
		},
		{
			name: "bad_date",
			request: func() dto.SaveInvoiceRequest {
				req := widgetGadgetRequest("INV-00001")
				req.InvoiceData.InvoiceDate = "15/03/2024"
				return req
			}(),
		},
		{
			name: "missing_unit_price",
			request: func() dto.SaveInvoiceRequest {
				req := widgetGadgetRequest("INV-00001")
				req.InvoiceData.Items[1].UnitPrice = nil
				return req
			}(),
		},
		{
			name: "missing_quantity",
			request: func() dto.SaveInvoiceRequest {
				req := widgetGadgetRequest("INV-00001")
				req.InvoiceData.Items[0].Quantity = nil
				return req
			}(),
		},
		{
			name: "missing_tax_rate",
			request: func() dto.SaveInvoiceRequest {
				req := widgetGadgetRequest("INV-00001")
				req.InvoiceData.TaxRate = nil
				return req
			}(),
		},
		{
			name: "missing_date",
			request: func() dto.SaveInvoiceRequest {
				req := widgetGadgetRequest("INV-00001")
				req.InvoiceData.InvoiceDate = ""
				return req
			}(),
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			resp, err := s.service.SaveInvoice(s.GetContext(), tc.request)
			s.Nil(resp)
			s.Error(err)
			s.True(ierr.IsValidation(err), "expected validation error, got %v", err)

			s.Equal(0, s.GetStores().InvoiceRepo.Count())
			s.Equal(0, s.GetStores().InvoiceRepo.ItemCount())
			s.Equal(0, s.GetStores().ClientRepo.Count())
			s.Equal(int64(0), s.GetStores().CounterRepo.Current())
		})
	}
}

func (s *InvoiceServiceSuite) TestSaveInvoice_AbsentAmountsInJSONWriteNothing() {
	bodies := map[string]string{
		"unit_price_missing": `{"invoiceData":{"invoiceDate":"2024-03-15","taxRate":18,
			"items":[{"description":"Widget","quantity":2}]}}`,
		"unit_price_null": `{"invoiceData":{"invoiceDate":"2024-03-15","taxRate":18,
			"items":[{"description":"Gadget","quantity":1,"unitPrice":null}]}}`,
		"tax_rate_missing": `{"invoiceData":{"invoiceDate":"2024-03-15",
			"items":[{"description":"Widget","quantity":2,"unitPrice":100}]}}`,
		"quantity_missing": `{"invoiceData":{"invoiceDate":"2024-03-15","taxRate":0,
			"items":[{"description":"Widget","unitPrice":100}]}}`,
	}

	for name, body := range bodies {
		s.Run(name, func() {
			var req dto.SaveInvoiceRequest
			s.Require().NoError(json.Unmarshal([]byte(body), &req))

			resp, err := s.service.SaveInvoice(s.GetContext(), req)
			s.Nil(resp)
			s.True(ierr.IsValidation(err), "expected validation error, got %v", err)
			s.Equal(0, s.GetStores().InvoiceRepo.Count())
			s.Equal(int64(0), s.GetStores().CounterRepo.Current())
		})
	}
}

func (s *InvoiceServiceSuite) TestSaveInvoice_ExplicitZeroTaxIsAccepted() {
	var req dto.SaveInvoiceRequest
	s.Require().NoError(json.Unmarshal([]byte(`{"invoiceData":{"invoiceDate":"2024-03-15","taxRate":0,
		"items":[{"description":"Sample","quantity":1,"unitPrice":0}]}}`), &req))

	resp, err := s.service.SaveInvoice(s.GetContext(), req)
	s.Require().NoError(err)

	doc, err := s.service.GetInvoice(s.GetContext(), resp.InvoiceID)
	s.Require().NoError(err)
	s.True(doc.TotalAmount.IsZero())
	s.Equal(int64(1), s.GetStores().CounterRepo.Current())
}

func (s *InvoiceServiceSuite) TestSaveInvoice_RollsBackOnItemFailure() {
	s.GetStores().InvoiceRepo.FailItemsWith = errors.New("connection reset")

	resp, err := s.service.SaveInvoice(s.GetContext(), widgetGadgetRequest("INV-00001"))
	s.Nil(resp)
	s.Error(err)
	s.True(ierr.IsDatabase(err))

	s.Equal(0, s.GetStores().InvoiceRepo.Count(), "header must be rolled back")
	s.Equal(0, s.GetStores().ClientRepo.Count(), "client upsert must be rolled back")
	s.Equal(int64(0), s.GetStores().CounterRepo.Current(), "counter must not advance")

	s.GetStores().InvoiceRepo.FailItemsWith = nil
	resp, err = s.service.SaveInvoice(s.GetContext(), widgetGadgetRequest("INV-00001"))
	s.Require().NoError(err)

	doc, err := s.service.GetInvoice(s.GetContext(), resp.InvoiceID)
	s.Require().NoError(err)
	s.Equal(int64(1), doc.SequenceNo, "no number is lost to the failed save")
}

func (s *InvoiceServiceSuite) TestSaveInvoice_MissingCounter() {
	s.GetStores().CounterRepo.Remove()

	_, err := s.service.SaveInvoice(s.GetContext(), widgetGadgetRequest("INV-00001"))
	s.Error(err)
	s.True(ierr.IsNotInitialized(err))
	s.Equal(0, s.GetStores().InvoiceRepo.Count())
	s.Equal(0, s.GetStores().ClientRepo.Count())
}

func (s *InvoiceServiceSuite) TestSaveInvoice_ConcurrentSavesAreGapFree() {
	const n = 25

	var (
		mu   sync.Mutex
		ids  []int64
		errs []error
		wg   conc.WaitGroup
	)

	for i := 0; i < n; i++ {
		wg.Go(func() {
			resp, err := s.service.SaveInvoice(s.GetContext(), widgetGadgetRequest(""))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			ids = append(ids, resp.InvoiceID)
		})
	}
	wg.Wait()

	s.Empty(errs)
	s.Require().Len(ids, n)
	s.Equal(int64(n), s.GetStores().CounterRepo.Current())

	sequences := make([]int64, 0, n)
	for _, id := range ids {
		doc, err := s.service.GetInvoice(s.GetContext(), id)
		s.Require().NoError(err)
		sequences = append(sequences, doc.SequenceNo)
	}
	sort.Slice(sequences, func(i, j int) bool { return sequences[i] < sequences[j] })
	for i, seq := range sequences {
		s.Equal(int64(i+1), seq)
	}
}

func (s *InvoiceServiceSuite) TestSaveInvoice_ClientUpsertAndSnapshot() {
	first := widgetGadgetRequest("")
	first.InvoiceData.ClientName = "  Initech  "
	first.InvoiceData.ClientPhone = "111"
	a, err := s.service.SaveInvoice(s.GetContext(), first)
	s.Require().NoError(err)

	second := widgetGadgetRequest("")
	second.InvoiceData.ClientName = "Initech"
	second.InvoiceData.ClientPhone = "222"
	_, err = s.service.SaveInvoice(s.GetContext(), second)
	s.Require().NoError(err)

	s.Equal(1, s.GetStores().ClientRepo.Count())
	c, err := s.GetStores().ClientRepo.GetByName(s.GetContext(), "Initech")
	s.Require().NoError(err)
	s.Equal("222", c.Phone)

	docA, err := s.service.GetInvoice(s.GetContext(), a.InvoiceID)
	s.Require().NoError(err)
	s.Equal("Initech", docA.ClientName)
	s.Equal("111", docA.ClientPhone, "invoice keeps the contact it was saved with")
}

func (s *InvoiceServiceSuite) TestSaveInvoice_BlankClientSkipsUpsert() {
	_, err := s.service.SaveInvoice(s.GetContext(), saveRequest("", "   ", "0", item("Walk-in sale", "1", "10")))
	s.Require().NoError(err)
	s.Equal(0, s.GetStores().ClientRepo.Count())
	s.Equal(1, s.GetStores().InvoiceRepo.Count())
}

func (s *InvoiceServiceSuite) TestGetInvoice_Errors() {
	_, err := s.service.GetInvoice(s.GetContext(), 404)
	s.True(ierr.IsNotFound(err))

	_, err = s.service.GetInvoice(s.GetContext(), 0)
	s.True(ierr.IsValidation(err))
}

func (s *InvoiceServiceSuite) TestListInvoices_NewestFirst() {
	base := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	tick := 0
	s.GetStores().InvoiceRepo.Clock = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	var ids []int64
	for _, name := range []string{"First", "Second", "Third"} {
		resp, err := s.service.SaveInvoice(s.GetContext(), saveRequest("", name, "18", item("Widget", "1", "10")))
		s.Require().NoError(err)
		ids = append(ids, resp.InvoiceID)
	}

	list, err := s.service.ListInvoices(s.GetContext())
	s.Require().NoError(err)
	s.Require().Len(list, 3)

	s.Equal(ids[2], list[0].ID)
	s.Equal(ids[1], list[1].ID)
	s.Equal(ids[0], list[2].ID)
	s.Equal("Third", list[0].ClientName)
	s.Equal("2024-03-15", list[0].InvoiceDate)
	s.Equal("INV-00003", list[0].InvoiceNo)
	s.True(decimal.RequireFromString("11.8").Equal(list[0].TotalAmount))
}

func (s *InvoiceServiceSuite) TestListInvoices_Empty() {
	list, err := s.service.ListInvoices(s.GetContext())
	s.NoError(err)
	s.NotNil(list)
	s.Empty(list)
}
