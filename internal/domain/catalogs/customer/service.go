package customer

import (
	"context"
	"fmt"
	"time"

	"voltbill/internal/core/apperror"
	"voltbill/internal/core/numerator"
	"voltbill/internal/domain"
)

// Service provides business logic for the Customer registry.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Customer]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Customer service.
func NewService(repo Repository, numerator numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Customer]{
		Repo:       repo,
		TxManager:  nil, // Will be obtained from context
		Numerator:  numerator,
		EntityName: "customer",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      numerator,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.checkMobile)

	return svc
}

// prepareForCreate handles code generation and mobile uniqueness before create.
func (s *Service) prepareForCreate(ctx context.Context, c *Customer) error {
	if c.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("CUS"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		c.Code = code
	}

	return s.checkMobile(ctx, c)
}

func (s *Service) checkMobile(ctx context.Context, c *Customer) error {
	existing, err := s.repo.FindByMobile(ctx, c.Mobile)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != c.ID {
		return apperror.NewConflict("customer with this mobile already exists").
			WithDetail("mobile", c.Mobile)
	}
	return nil
}

// FindByMobile retrieves a customer by mobile number.
func (s *Service) FindByMobile(ctx context.Context, mobile string) (*Customer, error) {
	return s.repo.FindByMobile(ctx, mobile)
}

// RegisterIfAbsent creates a customer record unless the mobile is already
// registered. Used by the invoice pipeline: concurrent first-time purchases by
// the same mobile resolve on the unique constraint rather than check-then-insert.
// Returns true when a new record was created.
func (s *Service) RegisterIfAbsent(ctx context.Context, name, mobile, address string) (bool, error) {
	c := NewCustomer("", name, mobile)
	if address != "" {
		c.Address = &address
	}
	if c.Name == "" {
		c.Name = mobile // walk-in customers may give no name
	}

	if err := c.Validate(ctx); err != nil {
		return false, err
	}

	code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("CUS"), nil, time.Now())
	if err != nil {
		return false, fmt.Errorf("generate code: %w", err)
	}
	c.Code = code

	return s.repo.CreateIfAbsent(ctx, c)
}
