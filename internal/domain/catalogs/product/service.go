package product

import (
	"context"
	"fmt"
	"time"

	"voltbill/internal/core/apperror"
	"voltbill/internal/core/id"
	"voltbill/internal/core/numerator"
	"voltbill/internal/domain"
	"voltbill/internal/domain/registers/stock"
)

// Service provides business logic for the Product catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Product]
	repo      Repository
	stock     *stock.Service
	numerator numerator.Generator
}

// NewService creates a new Product service.
// In Database-per-Tenant, TxManager is obtained from context.
func NewService(
	repo Repository,
	stockService *stock.Service,
	numerator numerator.Generator,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  nil, // Will be obtained from context
		Numerator:  numerator,
		EntityName: "product",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		stock:          stockService,
		numerator:      numerator,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.prepareForUpdate)

	return svc
}

// prepareForCreate handles code generation and SKU uniqueness.
func (s *Service) prepareForCreate(ctx context.Context, p *Product) error {
	if p.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("PR"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		p.Code = code
	}

	if p.SKUCode != nil && *p.SKUCode != "" {
		exists, err := s.checkSKUExists(ctx, *p.SKUCode, p.ID)
		if err != nil {
			return err
		}
		if exists {
			return apperror.NewConflict("product with this SKU already exists").
				WithDetail("skuCode", p.SKUCode)
		}
	}

	return nil
}

// prepareForUpdate handles SKU uniqueness (excluding current record).
func (s *Service) prepareForUpdate(ctx context.Context, p *Product) error {
	if p.SKUCode != nil && *p.SKUCode != "" {
		exists, err := s.checkSKUExists(ctx, *p.SKUCode, p.ID)
		if err != nil {
			return err
		}
		if exists {
			return apperror.NewConflict("product with this SKU already exists").
				WithDetail("skuCode", p.SKUCode)
		}
	}

	return nil
}

// --- Entity-specific methods ---

// GetWithStock retrieves a product with its on-hand quantity attached.
func (s *Service) GetWithStock(ctx context.Context, productID id.ID) (*Product, error) {
	p, err := s.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	balance, err := s.stock.GetBalance(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get stock balance: %w", err)
	}
	p.StockQuantity = balance.Quantity

	return p, nil
}

// ListWithStock retrieves products with on-hand quantities attached.
func (s *Service) ListWithStock(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Product], error) {
	result, err := s.List(ctx, filter)
	if err != nil {
		return result, err
	}

	if len(result.Items) == 0 {
		return result, nil
	}

	ids := make([]id.ID, 0, len(result.Items))
	for _, p := range result.Items {
		ids = append(ids, p.ID)
	}

	balances, err := s.stock.GetBalances(ctx, ids)
	if err != nil {
		return result, fmt.Errorf("get stock balances: %w", err)
	}

	for _, p := range result.Items {
		if b, ok := balances[p.ID]; ok {
			p.StockQuantity = b.Quantity
		}
	}

	return result, nil
}

// FindBySKU retrieves a product by SKU code.
func (s *Service) FindBySKU(ctx context.Context, sku string) (*Product, error) {
	return s.repo.FindBySKU(ctx, sku)
}

// checkSKUExists checks if SKU is already used by another product.
func (s *Service) checkSKUExists(ctx context.Context, sku string, excludeID id.ID) (bool, error) {
	existing, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		if apperror.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return existing.ID != excludeID, nil
}

// GetByIDs retrieves products keyed by ID. Missing IDs are simply absent
// from the map; the caller decides whether that is an error.
func (s *Service) GetByIDs(ctx context.Context, ids []id.ID) (map[id.ID]*Product, error) {
	if len(ids) == 0 {
		return map[id.ID]*Product{}, nil
	}
	return s.repo.GetByIDs(ctx, ids)
}
