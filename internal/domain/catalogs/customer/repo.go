package customer

import (
	"context"

	"voltbill/internal/domain"
)

// Repository defines the interface for Customer persistence.
type Repository interface {
	domain.CatalogRepository[*Customer]

	// FindByMobile retrieves a customer by mobile number (unique within the shop).
	FindByMobile(ctx context.Context, mobile string) (*Customer, error)

	// CreateIfAbsent inserts the customer unless one with the same mobile
	// already exists. Relies on the unique constraint: a constraint hit means
	// "already exists" and is not an error. Returns true when a row was inserted.
	CreateIfAbsent(ctx context.Context, c *Customer) (bool, error)
}
