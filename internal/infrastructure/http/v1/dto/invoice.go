package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"voltbill/internal/core/id"
	"voltbill/internal/core/types"
	"voltbill/internal/domain/documents/emi"
	"voltbill/internal/domain/documents/invoice"
)

// --- Request DTOs ---

type InvoiceCustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Mobile  string `json:"mobile" binding:"required"`
	Address string `json:"address,omitempty"`
}

type InvoiceItemRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Quantity  float64 `json:"quantity" binding:"required,gt=0"`
}

type InvoiceEMIRequest struct {
	InterestRate decimal.Decimal `json:"interestRate"`
	TenureValue  int             `json:"tenureValue" binding:"required,gt=0"`
	TenureType   string          `json:"tenureType" binding:"required"`
}

type InvoicePaymentBreakdownRequest struct {
	Cash int64 `json:"cash,omitempty"`
	UPI  int64 `json:"upi,omitempty"`
	Card int64 `json:"card,omitempty"`
	EMI  int64 `json:"emi,omitempty"`
}

// CreateInvoiceRequest is one submitted sale. Amounts are in paise,
// quantities in whole-or-fractional units.
type CreateInvoiceRequest struct {
	Customer InvoiceCustomerRequest `json:"customer" binding:"required"`
	Items    []InvoiceItemRequest   `json:"items" binding:"required,min=1,dive"`

	SubTotal   int64 `json:"subTotal" binding:"gte=0"`
	TotalGST   int64 `json:"totalGst" binding:"gte=0"`
	Discount   int64 `json:"discount" binding:"gte=0"`
	GrandTotal int64 `json:"grandTotal" binding:"required,gt=0"`

	PaymentType      string                         `json:"paymentType" binding:"required"`
	PaymentBreakdown InvoicePaymentBreakdownRequest `json:"paymentBreakdown"`
	EMIDetails       *InvoiceEMIRequest             `json:"emiDetails,omitempty"`

	Comment string `json:"comment,omitempty"`
}

func (r *CreateInvoiceRequest) ToCreateRequest() invoice.CreateRequest {
	req := invoice.CreateRequest{
		Customer: invoice.CustomerInput{
			Name:    r.Customer.Name,
			Mobile:  r.Customer.Mobile,
			Address: r.Customer.Address,
		},
		SubTotal:    types.MinorUnits(r.SubTotal),
		TotalGST:    types.MinorUnits(r.TotalGST),
		Discount:    types.MinorUnits(r.Discount),
		GrandTotal:  types.MinorUnits(r.GrandTotal),
		PaymentType: invoice.PaymentType(r.PaymentType),
		Breakdown: invoice.PaymentBreakdown{
			Cash: types.MinorUnits(r.PaymentBreakdown.Cash),
			UPI:  types.MinorUnits(r.PaymentBreakdown.UPI),
			Card: types.MinorUnits(r.PaymentBreakdown.Card),
			EMI:  types.MinorUnits(r.PaymentBreakdown.EMI),
		},
		Comment: r.Comment,
	}

	req.Items = make([]invoice.CartItem, 0, len(r.Items))
	for _, item := range r.Items {
		productID, _ := id.Parse(item.ProductID)
		req.Items = append(req.Items, invoice.CartItem{
			ProductID: productID,
			Quantity:  types.NewQuantityFromFloat64(item.Quantity),
		})
	}

	if r.EMIDetails != nil {
		req.EMIDetails = &invoice.EMIInput{
			InterestRate: r.EMIDetails.InterestRate,
			TenureValue:  r.EMIDetails.TenureValue,
			TenureUnit:   emi.TenureUnit(r.EMIDetails.TenureType),
		}
	}

	return req
}

// --- Response DTOs ---

type InvoiceLineResponse struct {
	LineID              string          `json:"lineId"`
	LineNo              int             `json:"lineNo"`
	ProductID           string          `json:"productId"`
	ProductName         string          `json:"productName"`
	Model               string          `json:"model,omitempty"`
	HSNCode             string          `json:"hsnCode,omitempty"`
	Unit                string          `json:"unit"`
	Quantity            float64         `json:"quantity"`
	UnitPrice           int64           `json:"unitPrice"`
	DiscountAmount      int64           `json:"discountAmount"`
	FinalPrice          int64           `json:"finalPrice"`
	AppliedDiscountType string          `json:"appliedDiscountType,omitempty"`
	GSTPercent          decimal.Decimal `json:"gstPercent"`
	GSTAmount           int64           `json:"gstAmount"`
	Total               int64           `json:"total"`
	WarrantyMonths      int             `json:"warrantyMonths,omitempty"`
	GuaranteeMonths     int             `json:"guaranteeMonths,omitempty"`
}

type InvoiceResponse struct {
	ID              string                `json:"id"`
	Number          string                `json:"number"`
	Date            time.Time             `json:"date"`
	Posted          bool                  `json:"posted"`
	CustomerName    string                `json:"customerName"`
	CustomerMobile  string                `json:"customerMobile"`
	CustomerAddress string                `json:"customerAddress,omitempty"`
	SubTotal        int64                 `json:"subTotal"`
	TotalGST        int64                 `json:"totalGst"`
	Discount        int64                 `json:"discount"`
	GrandTotal      int64                 `json:"grandTotal"`
	PaymentType     string                `json:"paymentType"`
	PaymentStatus   string                `json:"paymentStatus"`
	PayCash         int64                 `json:"payCash"`
	PayUPI          int64                 `json:"payUpi"`
	PayCard         int64                 `json:"payCard"`
	PayEMI          int64                 `json:"payEmi"`
	BilledByID      string                `json:"billedById,omitempty"`
	BilledByName    string                `json:"billedByName,omitempty"`
	Comment         string                `json:"comment,omitempty"`
	Lines           []InvoiceLineResponse `json:"lines,omitempty"`
	DeletionMark    bool                  `json:"deletionMark,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

func FromInvoice(doc *invoice.Invoice) *InvoiceResponse {
	resp := &InvoiceResponse{
		ID:              doc.ID.String(),
		Number:          doc.Number,
		Date:            doc.Date,
		Posted:          doc.Posted,
		CustomerName:    doc.CustomerName,
		CustomerMobile:  doc.CustomerMobile,
		CustomerAddress: doc.CustomerAddr,
		SubTotal:        int64(doc.SubTotal),
		TotalGST:        int64(doc.TotalGST),
		Discount:        int64(doc.Discount),
		GrandTotal:      int64(doc.GrandTotal),
		PaymentType:     string(doc.PaymentType),
		PaymentStatus:   string(doc.PaymentStatus),
		PayCash:         int64(doc.Cash),
		PayUPI:          int64(doc.UPI),
		PayCard:         int64(doc.Card),
		PayEMI:          int64(doc.EMI),
		BilledByID:      doc.BilledByID,
		BilledByName:    doc.BilledByName,
		Comment:         doc.Comment,
		DeletionMark:    doc.DeletionMark,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}

	if len(doc.Lines) > 0 {
		resp.Lines = make([]InvoiceLineResponse, 0, len(doc.Lines))
		for _, line := range doc.Lines {
			resp.Lines = append(resp.Lines, InvoiceLineResponse{
				LineID:              line.LineID.String(),
				LineNo:              line.LineNo,
				ProductID:           line.ProductID.String(),
				ProductName:         line.ProductName,
				Model:               line.Model,
				HSNCode:             line.HSNCode,
				Unit:                line.Unit,
				Quantity:            line.Quantity.Float64(),
				UnitPrice:           int64(line.UnitPrice),
				DiscountAmount:      int64(line.DiscountAmount),
				FinalPrice:          int64(line.FinalPrice),
				AppliedDiscountType: line.AppliedDiscountType,
				GSTPercent:          line.GSTPercent,
				GSTAmount:           int64(line.GSTAmount),
				Total:               int64(line.Total),
				WarrantyMonths:      line.WarrantyMonths,
				GuaranteeMonths:     line.GuaranteeMonths,
			})
		}
	}

	return resp
}

type InvoiceListResponse struct {
	Items      []*InvoiceResponse `json:"items"`
	TotalCount int                `json:"totalCount"`
	Limit      int                `json:"limit"`
	Offset     int                `json:"offset"`
}

// CreateInvoiceResponse carries the persisted invoice and, for financed
// sales, the EMI opened alongside it.
type CreateInvoiceResponse struct {
	Invoice *InvoiceResponse `json:"invoice"`
	EMI     *EMIResponse     `json:"emi,omitempty"`
}

func FromCreateResult(result *invoice.CreateResult) *CreateInvoiceResponse {
	resp := &CreateInvoiceResponse{
		Invoice: FromInvoice(result.Invoice),
	}
	if result.EMI != nil {
		resp.EMI = FromEMI(result.EMI)
	}
	return resp
}
