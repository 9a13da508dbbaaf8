package discount

import (
	"context"

	"voltbill/internal/domain"
)

// Repository defines the interface for Discount persistence.
type Repository interface {
	domain.CatalogRepository[*Discount]

	// FindActive returns all active, non-deleted discount rules.
	// Date-window filtering is left to the resolver so a single query
	// serves both the resolver and the rule management screens.
	FindActive(ctx context.Context) ([]*Discount, error)
}
