package shop

import (
	"context"

	"voltbill/internal/domain"
)

// Repository defines the interface for shop profile storage.
type Repository interface {
	domain.CatalogRepository[*Shop]

	// GetProfile returns the tenant's shop profile record.
	// Every tenant database carries exactly one non-deleted profile.
	GetProfile(ctx context.Context) (*Shop, error)
}
