package supplier

import (
	"context"

	"voltbill/internal/domain"
)

// Repository defines the interface for Supplier persistence.
type Repository interface {
	domain.CatalogRepository[*Supplier]

	// FindByGSTNumber retrieves a supplier by GSTIN (unique within the shop).
	FindByGSTNumber(ctx context.Context, gstin string) (*Supplier, error)
}
