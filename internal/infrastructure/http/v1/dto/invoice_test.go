package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"voltbill/internal/core/entity"
	"voltbill/internal/core/id"
	"voltbill/internal/core/types"
	"voltbill/internal/domain/documents/emi"
	"voltbill/internal/domain/documents/invoice"
)

func TestCreateInvoiceRequest_ToCreateRequest(t *testing.T) {
	productID := id.New()

	req := CreateInvoiceRequest{
		Customer: InvoiceCustomerRequest{
			Name:    "Amit Verma",
			Mobile:  "+919900011122",
			Address: "Jaipur",
		},
		Items: []InvoiceItemRequest{
			{ProductID: productID.String(), Quantity: 2.5},
		},
		SubTotal:    100_000,
		TotalGST:    18_000,
		Discount:    5_000,
		GrandTotal:  113_000,
		PaymentType: "mixed",
		PaymentBreakdown: InvoicePaymentBreakdownRequest{
			Cash: 50_000,
			UPI:  63_000,
		},
		Comment: "counter sale",
	}

	got := req.ToCreateRequest()

	if got.Customer.Name != "Amit Verma" || got.Customer.Mobile != "+919900011122" {
		t.Errorf("customer = %+v", got.Customer)
	}
	if len(got.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(got.Items))
	}
	if got.Items[0].ProductID != productID {
		t.Errorf("product id = %s", got.Items[0].ProductID)
	}
	if got.Items[0].Quantity != types.NewQuantityFromFloat64(2.5) {
		t.Errorf("quantity = %v", got.Items[0].Quantity)
	}
	if got.GrandTotal != 113_000 {
		t.Errorf("grand total = %d", got.GrandTotal)
	}
	if got.Breakdown.Cash != 50_000 || got.Breakdown.UPI != 63_000 {
		t.Errorf("breakdown = %+v", got.Breakdown)
	}
	if got.EMIDetails != nil {
		t.Error("emi details should be nil")
	}
}

func TestCreateInvoiceRequest_ToCreateRequest_EMI(t *testing.T) {
	req := CreateInvoiceRequest{
		Customer:    InvoiceCustomerRequest{Name: "A", Mobile: "1"},
		Items:       []InvoiceItemRequest{{ProductID: id.New().String(), Quantity: 1}},
		GrandTotal:  50_000,
		PaymentType: "emi",
		EMIDetails: &InvoiceEMIRequest{
			InterestRate: decimal.RequireFromString("12"),
			TenureValue:  6,
			TenureType:   "months",
		},
	}

	got := req.ToCreateRequest()

	if got.EMIDetails == nil {
		t.Fatal("emi details missing")
	}
	if got.EMIDetails.TenureUnit != emi.TenureMonths {
		t.Errorf("tenure unit = %q", got.EMIDetails.TenureUnit)
	}
	if got.EMIDetails.TenureValue != 6 {
		t.Errorf("tenure value = %d", got.EMIDetails.TenureValue)
	}
}

func TestFromInvoice(t *testing.T) {
	lineProduct := id.New()
	now := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)

	doc := &invoice.Invoice{
		Document: entity.Document{
			BaseDocument: entity.NewBaseDocument(),
			Number:       "INV-2026-00042",
			Date:         now,
			Posted:       true,
		},
		CustomerName:   "Sunita Joshi",
		CustomerMobile: "+919900022233",
		CustomerAddr:   "MG Road",
		SubTotal:       200_000,
		TotalGST:       36_000,
		GrandTotal:     236_000,
		PaymentType:    invoice.PaymentCash,
		PaymentStatus:  invoice.StatusPaid,
		PaymentBreakdown: invoice.PaymentBreakdown{
			Cash: 236_000,
		},
		Lines: []invoice.Line{
			{
				LineID:      id.New(),
				LineNo:      1,
				ProductID:   lineProduct,
				ProductName: "Ceiling Fan",
				Unit:        "pcs",
				Quantity:    types.NewQuantityFromFloat64(2),
				UnitPrice:   100_000,
				FinalPrice:  100_000,
				GSTPercent:  decimal.RequireFromString("18"),
				GSTAmount:   36_000,
				Total:       236_000,
			},
		},
	}

	resp := FromInvoice(doc)

	if resp.Number != "INV-2026-00042" {
		t.Errorf("number = %q", resp.Number)
	}
	if !resp.Posted {
		t.Error("posted flag lost")
	}
	if resp.PayCash != 236_000 {
		t.Errorf("pay cash = %d", resp.PayCash)
	}
	if resp.CustomerAddress != "MG Road" {
		t.Errorf("address = %q", resp.CustomerAddress)
	}
	if len(resp.Lines) != 1 {
		t.Fatalf("lines = %d", len(resp.Lines))
	}
	if resp.Lines[0].Quantity != 2 {
		t.Errorf("line quantity = %v", resp.Lines[0].Quantity)
	}
	if resp.Lines[0].ProductID != lineProduct.String() {
		t.Errorf("line product = %q", resp.Lines[0].ProductID)
	}
}
