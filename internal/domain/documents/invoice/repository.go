package invoice

import (
	"context"
	"time"

	"voltbill/internal/core/id"
	"voltbill/internal/domain"
)

// Repository defines operations for invoice documents.
type Repository interface {
	Create(ctx context.Context, doc *Invoice) error
	GetByID(ctx context.Context, docID id.ID) (*Invoice, error)
	GetByNumber(ctx context.Context, number string) (*Invoice, error)
	Update(ctx context.Context, doc *Invoice) error
	Delete(ctx context.Context, docID id.ID) error

	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error)
	GetForUpdate(ctx context.Context, docID id.ID) (*Invoice, error)
}

// ListFilter for filtering invoices.
type ListFilter struct {
	domain.ListFilter

	CustomerMobile *string
	PaymentType    *PaymentType
	PaymentStatus  *PaymentStatus
	BilledByID     *string
	DateFrom       *time.Time
	DateTo         *time.Time
}
