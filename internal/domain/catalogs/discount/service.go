package discount

import (
	"context"
	"fmt"
	"time"

	"voltbill/internal/core/apperror"
	"voltbill/internal/core/numerator"
	"voltbill/internal/domain"
)

// Service provides business logic for Discount rules.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Discount]
	repo      Repository
	numerator numerator.Generator
	resolver  *Resolver
}

// NewService creates a new Discount service.
func NewService(repo Repository, numerator numerator.Generator, resolver *Resolver) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Discount]{
		Repo:       repo,
		TxManager:  nil, // Will be obtained from context
		Numerator:  numerator,
		EntityName: "discount",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      numerator,
		resolver:       resolver,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.checkCondition)

	return svc
}

// prepareForCreate handles code generation and condition validation.
func (s *Service) prepareForCreate(ctx context.Context, d *Discount) error {
	if d.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("DIS"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		d.Code = code
	}

	return s.checkCondition(ctx, d)
}

// checkCondition rejects rules whose CEL condition does not compile,
// so the resolver never has to deal with broken expressions.
func (s *Service) checkCondition(_ context.Context, d *Discount) error {
	if err := s.resolver.CompileCondition(d.Condition); err != nil {
		return apperror.NewValidation("invalid discount condition").
			WithDetail("field", "condition").
			WithDetail("error", err.Error())
	}
	return nil
}

// SetActive toggles a rule without touching the rest of the record.
func (s *Service) SetActive(ctx context.Context, code string, active bool) error {
	d, err := s.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if d.IsActive == active {
		return nil
	}
	d.IsActive = active
	return s.Update(ctx, d)
}

// ResolveForLines applies the shop's active rules to the given lines.
func (s *Service) ResolveForLines(ctx context.Context, lines []Line, now time.Time) ([]Applied, error) {
	rules, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load discount rules: %w", err)
	}
	return s.resolver.Resolve(rules, lines, now), nil
}
