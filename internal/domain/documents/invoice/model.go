// Package invoice provides the Invoice document and the sale creation
// pipeline: totals recomputation, stock deduction, customer registration and
// EMI creation in a single transaction.
package invoice

import (
	"context"

	"github.com/shopspring/decimal"

	"voltbill/internal/core/apperror"
	"voltbill/internal/core/entity"
	"voltbill/internal/core/id"
	"voltbill/internal/core/types"
)

// PaymentType is the instrument mix declared for the sale.
type PaymentType string

const (
	PaymentCash  PaymentType = "cash"
	PaymentUPI   PaymentType = "upi"
	PaymentCard  PaymentType = "card"
	PaymentEMI   PaymentType = "emi"
	PaymentMixed PaymentType = "mixed"
)

// PaymentStatus is derived at creation time: Partial when any part of the
// sale is financed, Paid otherwise. Pending is reserved for imported records.
type PaymentStatus string

const (
	StatusPaid    PaymentStatus = "paid"
	StatusPending PaymentStatus = "pending"
	StatusPartial PaymentStatus = "partial"
)

// PaymentBreakdown splits the grand total by instrument, in paise.
type PaymentBreakdown struct {
	Cash types.MinorUnits `db:"pay_cash" json:"cash"`
	UPI  types.MinorUnits `db:"pay_upi" json:"upi"`
	Card types.MinorUnits `db:"pay_card" json:"card"`
	EMI  types.MinorUnits `db:"pay_emi" json:"emi"`
}

// Total is the sum across instruments.
func (p PaymentBreakdown) Total() types.MinorUnits {
	return p.Cash + p.UPI + p.Card + p.EMI
}

// Invoice is an immutable record of one completed sale. Customer and product
// fields are snapshots copied at sale time, never live references.
type Invoice struct {
	entity.Document

	// Customer snapshot
	CustomerName   string `db:"customer_name" json:"customerName"`
	CustomerMobile string `db:"customer_mobile" json:"customerMobile"`
	CustomerAddr   string `db:"customer_address" json:"customerAddress,omitempty"`

	// Totals, recomputed server-side at creation
	SubTotal   types.MinorUnits `db:"sub_total" json:"subTotal"`
	TotalGST   types.MinorUnits `db:"total_gst" json:"totalGst"`
	Discount   types.MinorUnits `db:"discount" json:"discount"`
	GrandTotal types.MinorUnits `db:"grand_total" json:"grandTotal"`

	PaymentType   PaymentType   `db:"payment_type" json:"paymentType"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"paymentStatus"`

	PaymentBreakdown

	// BilledBy is the staff member who rang up the sale
	BilledByID   string `db:"billed_by_id" json:"billedById"`
	BilledByName string `db:"billed_by_name" json:"billedByName"`

	// Table part: sold items
	Lines []Line `db:"-" json:"lines"`
}

// Line is a snapshot of one sold item.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID   id.ID  `db:"product_id" json:"productId"`
	ProductName string `db:"product_name" json:"productName"`
	Model       string `db:"model" json:"model,omitempty"`
	HSNCode     string `db:"hsn_code" json:"hsnCode,omitempty"`
	Unit        string `db:"unit" json:"unit"`

	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// Per-unit amounts in paise
	UnitPrice      types.MinorUnits `db:"unit_price" json:"unitPrice"`
	DiscountAmount types.MinorUnits `db:"discount_amount" json:"discountAmount"`
	FinalPrice     types.MinorUnits `db:"final_price" json:"finalPrice"`

	// AppliedDiscountType names the winning rule type, empty when none
	AppliedDiscountType string `db:"applied_discount_type" json:"appliedDiscountType,omitempty"`

	GSTPercent decimal.Decimal  `db:"gst_percent" json:"gstPercent"`
	GSTAmount  types.MinorUnits `db:"gst_amount" json:"gstAmount"`

	// Total is finalPrice x quantity + GST for the line
	Total types.MinorUnits `db:"total" json:"total"`

	WarrantyMonths  int `db:"warranty_months" json:"warrantyMonths"`
	GuaranteeMonths int `db:"guarantee_months" json:"guaranteeMonths"`
}

// GrossAmount is unitPrice x quantity, before discount and GST.
func (l *Line) GrossAmount() types.MinorUnits {
	return types.MinorUnits((l.Quantity.Int64Scaled() * int64(l.UnitPrice)) / types.QuantityScale)
}

// DiscountTotal is discountAmount x quantity.
func (l *Line) DiscountTotal() types.MinorUnits {
	return types.MinorUnits((l.Quantity.Int64Scaled() * int64(l.DiscountAmount)) / types.QuantityScale)
}

// BaseAmount is finalPrice x quantity: the taxable base after discount.
func (l *Line) BaseAmount() types.MinorUnits {
	return types.MinorUnits((l.Quantity.Int64Scaled() * int64(l.FinalPrice)) / types.QuantityScale)
}

// NewInvoice creates an empty invoice document.
func NewInvoice() *Invoice {
	return &Invoice{
		Document: entity.NewDocument(),
		Lines:    make([]Line, 0),
	}
}

// RecalculateTotals derives the invoice totals from its lines.
// Invariant: grandTotal = subTotal + totalGST - discount, where subTotal is
// on undiscounted prices and GST is charged on the discounted base.
func (inv *Invoice) RecalculateTotals() {
	inv.SubTotal = 0
	inv.TotalGST = 0
	inv.Discount = 0

	for _, line := range inv.Lines {
		inv.SubTotal += line.GrossAmount()
		inv.Discount += line.DiscountTotal()
		inv.TotalGST += line.GSTAmount
	}
	inv.GrandTotal = inv.SubTotal + inv.TotalGST - inv.Discount
}

// Validate implements entity.Validatable.
func (inv *Invoice) Validate(ctx context.Context) error {
	if err := inv.Document.Validate(ctx); err != nil {
		return err
	}

	if len(inv.Lines) == 0 {
		return apperror.NewValidation("invoice must have at least one item").
			WithDetail("field", "items")
	}

	switch inv.PaymentType {
	case PaymentCash, PaymentUPI, PaymentCard, PaymentEMI, PaymentMixed:
	default:
		return apperror.NewValidation("invalid payment type").
			WithDetail("field", "paymentType").
			WithDetail("value", string(inv.PaymentType))
	}

	for i, line := range inv.Lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("item product reference is required").
				WithDetail("field", "items").
				WithDetail("line", i+1)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("item quantity must be positive").
				WithDetail("field", "items").
				WithDetail("line", i+1)
		}
	}

	return nil
}

// IsFinanced reports whether any part of the sale rides on an EMI.
func (inv *Invoice) IsFinanced() bool {
	return inv.PaymentType == PaymentEMI || inv.PaymentBreakdown.EMI > 0
}

// FinancedAmount is the principal for EMI creation: the whole grand total for
// a pure EMI sale, the EMI slice for a mixed one.
func (inv *Invoice) FinancedAmount() types.MinorUnits {
	if inv.PaymentType == PaymentEMI && inv.PaymentBreakdown.EMI == 0 {
		return inv.GrandTotal
	}
	return inv.PaymentBreakdown.EMI
}
