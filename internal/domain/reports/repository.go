package reports

import (
	"context"
)

// Repository defines dashboard data access. All reads are aggregate queries
// over posted invoices, stock balances and EMI accounts.
type Repository interface {
	GetSalesSummary(ctx context.Context, filter SalesSummaryFilter) (*SalesSummary, error)
	GetTopProducts(ctx context.Context, filter TopProductsFilter) (*TopProductsReport, error)
	GetLowStock(ctx context.Context, filter LowStockFilter) (*LowStockReport, error)
	GetEMIDues(ctx context.Context, filter EMIDuesFilter) (*EMIDuesReport, error)
}
