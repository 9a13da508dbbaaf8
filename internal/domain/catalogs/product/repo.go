package product

import (
	"context"

	"voltbill/internal/core/id"
	"voltbill/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]

	// FindBySKU retrieves a product by SKU code (unique within the shop).
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// GetForUpdate retrieves a product with row lock.
	GetForUpdate(ctx context.Context, id id.ID) (*Product, error)

	// GetByIDs retrieves products in bulk (cart price lookups).
	GetByIDs(ctx context.Context, ids []id.ID) (map[id.ID]*Product, error)
}
