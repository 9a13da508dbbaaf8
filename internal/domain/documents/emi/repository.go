package emi

import (
	"context"
	"time"

	"voltbill/internal/core/id"
	"voltbill/internal/domain"
)

// Repository defines operations for EMI records and their payment ledger.
type Repository interface {
	Create(ctx context.Context, e *EMI) error
	GetByID(ctx context.Context, emiID id.ID) (*EMI, error)
	GetByInvoiceID(ctx context.Context, invoiceID id.ID) (*EMI, error)
	Update(ctx context.Context, e *EMI) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*EMI], error)

	// GetForUpdate locks the EMI row for the duration of the transaction.
	// Payment recording reads under lock so concurrent payments serialize.
	GetForUpdate(ctx context.Context, emiID id.ID) (*EMI, error)

	// AddPayment appends a ledger entry. Payments are never updated or deleted.
	AddPayment(ctx context.Context, p *Payment) error
	ListPayments(ctx context.Context, emiID id.ID) ([]*Payment, error)

	// ListDueBefore returns active EMIs whose next installment falls due
	// before the given date. Feeds the dashboard dues widget.
	ListDueBefore(ctx context.Context, due time.Time) ([]*EMI, error)
}

// ListFilter for filtering EMI records.
type ListFilter struct {
	domain.ListFilter

	Status   *Status
	Mobile   *string
	DateFrom *time.Time
	DateTo   *time.Time
}
