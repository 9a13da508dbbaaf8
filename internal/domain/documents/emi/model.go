package emi

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"voltbill/internal/core/apperror"
	"voltbill/internal/core/entity"
	"voltbill/internal/core/id"
	"voltbill/internal/core/types"
)

// Status is the loan lifecycle state.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusDefaulted Status = "defaulted"
)

// PaymentMode is the instrument used for an installment payment.
type PaymentMode string

const (
	PayCash PaymentMode = "cash"
	PayUPI  PaymentMode = "upi"
	PayCard PaymentMode = "card"
)

// EMI represents an installment loan created alongside an invoice.
// AmountPaid is the running total of recorded payments; the loan transitions
// to Completed automatically when AmountPaid reaches TotalPayable.
type EMI struct {
	entity.Document

	// InvoiceID links the loan to the sale that created it
	InvoiceID id.ID `db:"invoice_id" json:"invoiceId"`

	// Customer snapshot taken at sale time, not a live reference
	CustomerName   string `db:"customer_name" json:"customerName"`
	CustomerMobile string `db:"customer_mobile" json:"customerMobile"`

	// Principal is the financed amount in paise
	Principal types.MinorUnits `db:"principal" json:"principal"`

	// InterestRate is the flat annual rate in percent
	InterestRate decimal.Decimal `db:"interest_rate" json:"interestRate"`

	// Tenure as entered at sale time
	TenureValue int        `db:"tenure_value" json:"tenureValue"`
	TenureUnit  TenureUnit `db:"tenure_unit" json:"tenureType"`

	// Computed schedule (see Calculate)
	EMIAmount      types.MinorUnits `db:"emi_amount" json:"emiAmount"`
	TotalPayable   types.MinorUnits `db:"total_payable" json:"totalPayable"`
	InterestAmount types.MinorUnits `db:"interest_amount" json:"interestAmount"`
	TotalMonths    int              `db:"total_months" json:"totalMonths"`

	StartDate   time.Time `db:"start_date" json:"startDate"`
	EndDate     time.Time `db:"end_date" json:"endDate"`
	NextDueDate time.Time `db:"next_due_date" json:"nextDueDate"`

	// AmountPaid is the sum of recorded payments
	AmountPaid types.MinorUnits `db:"amount_paid" json:"amountPaid"`

	Status Status `db:"status" json:"status"`
}

// NewEMI creates an EMI for an invoice with the given computed schedule.
// The first installment falls due one calendar month after the invoice date.
func NewEMI(invoiceID id.ID, customerName, customerMobile string, principal types.MinorUnits,
	rate decimal.Decimal, tenureValue int, unit TenureUnit, schedule Schedule, invoiceDate time.Time) *EMI {

	e := &EMI{
		Document:       entity.NewDocument(),
		InvoiceID:      invoiceID,
		CustomerName:   customerName,
		CustomerMobile: customerMobile,
		Principal:      principal,
		InterestRate:   rate,
		TenureValue:    tenureValue,
		TenureUnit:     unit,
		EMIAmount:      schedule.EMIAmount,
		TotalPayable:   schedule.TotalPayable,
		InterestAmount: schedule.InterestAmount,
		TotalMonths:    schedule.TotalMonths,
		StartDate:      invoiceDate,
		EndDate:        invoiceDate.AddDate(0, schedule.TotalMonths, 0),
		NextDueDate:    invoiceDate.AddDate(0, 1, 0),
		AmountPaid:     0,
		Status:         StatusActive,
	}
	e.Date = invoiceDate
	return e
}

// Validate implements entity.Validatable.
func (e *EMI) Validate(ctx context.Context) error {
	if err := e.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(e.InvoiceID) {
		return apperror.NewValidation("invoice reference is required").
			WithDetail("field", "invoiceId")
	}
	if !e.Principal.IsPositive() {
		return apperror.NewValidation("principal must be positive").
			WithDetail("field", "principal")
	}
	if e.TotalMonths <= 0 {
		return apperror.NewValidation("totalMonths must be positive").
			WithDetail("field", "totalMonths")
	}

	switch e.Status {
	case StatusActive, StatusCompleted, StatusDefaulted:
	default:
		return apperror.NewValidation("invalid EMI status").
			WithDetail("field", "status").
			WithDetail("value", string(e.Status))
	}

	return nil
}

// RemainingBalance is the outstanding amount; never negative even when the
// customer overpays the final installment.
func (e *EMI) RemainingBalance() types.MinorUnits {
	if e.AmountPaid >= e.TotalPayable {
		return 0
	}
	return e.TotalPayable - e.AmountPaid
}

// ApplyPayment records the payment's effect on the aggregate: bumps the paid
// total, pushes the next due date one calendar month forward, and closes the
// loan when fully recovered.
func (e *EMI) ApplyPayment(amount types.MinorUnits) {
	e.AmountPaid += amount
	e.NextDueDate = e.NextDueDate.AddDate(0, 1, 0)
	if e.AmountPaid >= e.TotalPayable && e.Status == StatusActive {
		e.Status = StatusCompleted
	}
}

// Payment is an append-only ledger entry against an EMI.
type Payment struct {
	ID        id.ID            `db:"id" json:"id"`
	EmiID     id.ID            `db:"emi_id" json:"emiId"`
	Amount    types.MinorUnits `db:"amount" json:"amount"`
	Date      time.Time        `db:"date" json:"date"`
	Mode      PaymentMode      `db:"mode" json:"mode"`
	Remarks   string           `db:"remarks" json:"remarks,omitempty"`
	CreatedAt time.Time        `db:"created_at" json:"createdAt"`
}

// NewPayment creates a payment record for an EMI.
func NewPayment(emiID id.ID, amount types.MinorUnits, mode PaymentMode, remarks string) *Payment {
	now := time.Now().UTC()
	return &Payment{
		ID:        id.New(),
		EmiID:     emiID,
		Amount:    amount,
		Date:      now,
		Mode:      mode,
		Remarks:   remarks,
		CreatedAt: now,
	}
}

// Validate checks payment invariants.
func (p *Payment) Validate(ctx context.Context) error {
	if id.IsNil(p.EmiID) {
		return apperror.NewValidation("EMI reference is required").
			WithDetail("field", "emiId")
	}
	if !p.Amount.IsPositive() {
		return apperror.NewValidation("payment amount must be positive").
			WithDetail("field", "amount")
	}
	switch p.Mode {
	case PayCash, PayUPI, PayCard:
	default:
		return apperror.NewValidation("invalid payment mode").
			WithDetail("field", "mode").
			WithDetail("value", string(p.Mode))
	}
	return nil
}
