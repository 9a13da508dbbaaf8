package supplier

import (
	"context"
	"fmt"
	"time"

	"voltbill/internal/core/apperror"
	"voltbill/internal/core/numerator"
	"voltbill/internal/domain"
)

// Service provides business logic for the Supplier catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Supplier]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Supplier service.
func NewService(repo Repository, numerator numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Supplier]{
		Repo:       repo,
		TxManager:  nil, // Will be obtained from context
		Numerator:  numerator,
		EntityName: "supplier",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      numerator,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.prepareForUpdate)

	return svc
}

// prepareForCreate handles code generation and GSTIN uniqueness before create.
func (s *Service) prepareForCreate(ctx context.Context, sup *Supplier) error {
	if sup.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("SUP"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		sup.Code = code
	}

	return s.checkGSTIN(ctx, sup)
}

// prepareForUpdate handles GSTIN uniqueness before update.
func (s *Service) prepareForUpdate(ctx context.Context, sup *Supplier) error {
	return s.checkGSTIN(ctx, sup)
}

func (s *Service) checkGSTIN(ctx context.Context, sup *Supplier) error {
	if sup.GSTNumber == nil || *sup.GSTNumber == "" {
		return nil
	}

	existing, err := s.repo.FindByGSTNumber(ctx, *sup.GSTNumber)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != sup.ID {
		return apperror.NewConflict("supplier with this GSTIN already exists").
			WithDetail("gstNumber", sup.GSTNumber)
	}
	return nil
}

// FindByGSTNumber retrieves a supplier by GSTIN.
func (s *Service) FindByGSTNumber(ctx context.Context, gstin string) (*Supplier, error) {
	return s.repo.FindByGSTNumber(ctx, gstin)
}
