package shop

import (
	"context"

	"voltbill/internal/core/apperror"
	"voltbill/internal/core/numerator"
	"voltbill/internal/domain"
)

// Service provides business logic for the Shop profile catalog.
type Service struct {
	*domain.CatalogService[*Shop]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Shop service.
func NewService(repo Repository, numerator numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Shop]{
		Repo:       repo,
		Numerator:  numerator,
		EntityName: "shop",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      numerator,
	}

	return svc
}

// GetProfile retrieves the tenant's shop profile.
func (s *Service) GetProfile(ctx context.Context) (*Shop, error) {
	return s.repo.GetProfile(ctx)
}

// AddCategory appends a category name to the shop's picker list and saves.
func (s *Service) AddCategory(ctx context.Context, itemType, category string) (*Shop, error) {
	if category == "" {
		return nil, apperror.NewValidation("category is required").
			WithDetail("field", "category")
	}

	profile, err := s.repo.GetProfile(ctx)
	if err != nil {
		return nil, err
	}

	if !profile.AddCategory(itemType, category) {
		// Duplicate category names are silently ignored.
		return profile, nil
	}

	if err := s.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
