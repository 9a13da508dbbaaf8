package reports

import (
	"context"
	"fmt"
	"time"
)

// Service provides dashboard aggregation operations.
type Service struct {
	repo Repository
}

// NewService creates a new reports service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetSalesSummary aggregates posted invoices over a period.
func (s *Service) GetSalesSummary(ctx context.Context, filter SalesSummaryFilter) (*SalesSummary, error) {
	filter = normalizePeriod(filter)

	if filter.FromDate.After(filter.ToDate) {
		return nil, fmt.Errorf("fromDate must be before toDate")
	}

	summary, err := s.repo.GetSalesSummary(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get sales summary: %w", err)
	}

	return summary, nil
}

// GetTopProducts returns best-selling products for a period.
func (s *Service) GetTopProducts(ctx context.Context, filter TopProductsFilter) (*TopProductsReport, error) {
	if filter.FromDate.IsZero() || filter.ToDate.IsZero() {
		from, to := currentMonth()
		if filter.FromDate.IsZero() {
			filter.FromDate = from
		}
		if filter.ToDate.IsZero() {
			filter.ToDate = to
		}
	}

	switch filter.OrderBy {
	case "":
		filter.OrderBy = "revenue"
	case "quantity", "revenue":
	default:
		return nil, fmt.Errorf("orderBy must be quantity or revenue")
	}

	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	report, err := s.repo.GetTopProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get top products: %w", err)
	}

	return report, nil
}

// GetLowStock returns products at or below the stock threshold.
func (s *Service) GetLowStock(ctx context.Context, filter LowStockFilter) (*LowStockReport, error) {
	if filter.Threshold <= 0 {
		filter.Threshold = 5
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 200 {
		filter.Limit = 200
	}

	report, err := s.repo.GetLowStock(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get low stock: %w", err)
	}

	return report, nil
}

// GetEMIDues returns overdue and upcoming EMI installments.
func (s *Service) GetEMIDues(ctx context.Context, filter EMIDuesFilter) (*EMIDuesReport, error) {
	if filter.AsOf.IsZero() {
		filter.AsOf = time.Now()
	}
	if filter.HorizonDays <= 0 {
		filter.HorizonDays = 30
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}

	report, err := s.repo.GetEMIDues(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get emi dues: %w", err)
	}

	return report, nil
}

// GetDashboard assembles all widgets for the landing screen.
func (s *Service) GetDashboard(ctx context.Context) (*Dashboard, error) {
	sales, err := s.GetSalesSummary(ctx, SalesSummaryFilter{})
	if err != nil {
		return nil, err
	}

	topProducts, err := s.GetTopProducts(ctx, TopProductsFilter{})
	if err != nil {
		return nil, err
	}

	lowStock, err := s.GetLowStock(ctx, LowStockFilter{})
	if err != nil {
		return nil, err
	}

	emiDues, err := s.GetEMIDues(ctx, EMIDuesFilter{})
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Sales:       sales,
		TopProducts: topProducts,
		LowStock:    lowStock,
		EMIDues:     emiDues,
	}, nil
}

func normalizePeriod(filter SalesSummaryFilter) SalesSummaryFilter {
	if filter.FromDate.IsZero() || filter.ToDate.IsZero() {
		from, to := currentMonth()
		if filter.FromDate.IsZero() {
			filter.FromDate = from
		}
		if filter.ToDate.IsZero() {
			filter.ToDate = to
		}
	}
	return filter
}

func currentMonth() (time.Time, time.Time) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return from, from.AddDate(0, 1, 0)
}
