// Package report_repo provides PostgreSQL implementations for report repositories.
// In Database-per-Tenant architecture, TxManager is obtained from context.
package report_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"voltbill/internal/domain/reports"
	"voltbill/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository with aggregate queries over
// posted invoices, stock balances and EMI accounts.
type ReportRepo struct{}

// NewReportRepo creates a new report repository.
func NewReportRepo() *ReportRepo {
	return &ReportRepo{}
}

// getTxManager retrieves TxManager from context.
func (r *ReportRepo) getTxManager(ctx context.Context) *postgres.TxManager {
	return postgres.MustGetTxManager(ctx)
}

// GetSalesSummary aggregates posted invoices over a period.
func (r *ReportRepo) GetSalesSummary(ctx context.Context, filter reports.SalesSummaryFilter) (*reports.SalesSummary, error) {
	query := `
		SELECT
			COUNT(*) as invoice_count,
			COALESCE(SUM(grand_total), 0) as revenue,
			COALESCE(SUM(total_gst), 0) as gst_collected,
			COALESCE(SUM(discount), 0) as discount_given,
			COALESCE(SUM(pay_cash), 0) as pay_cash,
			COALESCE(SUM(pay_upi), 0) as pay_upi,
			COALESCE(SUM(pay_card), 0) as pay_card,
			COALESCE(SUM(pay_emi), 0) as pay_emi
		FROM doc_invoices
		WHERE posted = true
		  AND deletion_mark = false
		  AND date >= $1 AND date < $2
	`

	summary := &reports.SalesSummary{
		FromDate: filter.FromDate,
		ToDate:   filter.ToDate,
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	err := querier.QueryRow(ctx, query, filter.FromDate, filter.ToDate).Scan(
		&summary.InvoiceCount,
		&summary.Revenue,
		&summary.GSTCollected,
		&summary.DiscountGiven,
		&summary.PaymentSplit.Cash,
		&summary.PaymentSplit.UPI,
		&summary.PaymentSplit.Card,
		&summary.PaymentSplit.EMI,
	)
	if err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}

	return summary, nil
}

// GetTopProducts returns best-selling products for a period, ordered by
// quantity sold or revenue.
func (r *ReportRepo) GetTopProducts(ctx context.Context, filter reports.TopProductsFilter) (*reports.TopProductsReport, error) {
	orderBy := "revenue DESC"
	if filter.OrderBy == "quantity" {
		orderBy = "quantity_sold DESC"
	}

	query := fmt.Sprintf(`
		SELECT
			l.product_id,
			l.product_name,
			SUM(l.quantity)::float8 / 10000.0 as quantity_sold,
			SUM(l.total) as revenue
		FROM doc_invoice_lines l
		JOIN doc_invoices d ON l.document_id = d.id
		WHERE d.posted = true
		  AND d.deletion_mark = false
		  AND d.date >= $1 AND d.date < $2
		GROUP BY l.product_id, l.product_name
		ORDER BY %s
		LIMIT $3
	`, orderBy)

	var items []reports.TopProductItem
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, query, filter.FromDate, filter.ToDate, filter.Limit); err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}

	return &reports.TopProductsReport{
		FromDate: filter.FromDate,
		ToDate:   filter.ToDate,
		OrderBy:  filter.OrderBy,
		Items:    items,
	}, nil
}

// GetLowStock returns active products whose balance is at or below the
// threshold. Products with no balance row count as zero stock.
func (r *ReportRepo) GetLowStock(ctx context.Context, filter reports.LowStockFilter) (*reports.LowStockReport, error) {
	query := `
		SELECT
			p.id as product_id,
			p.name as product_name,
			COALESCE(p.sku_code, '') as sku_code,
			p.category,
			COALESCE(b.quantity, 0)::float8 / 10000.0 as quantity
		FROM cat_products p
		LEFT JOIN reg_stock_balances b ON b.product_id = p.id
		WHERE p.is_active = true
		  AND p.deletion_mark = false
		  AND COALESCE(b.quantity, 0) <= $1
		ORDER BY COALESCE(b.quantity, 0) ASC, p.name
		LIMIT $2
	`

	// Threshold arrives in whole units; balances store fixed-point quantities.
	scaledThreshold := filter.Threshold * 10_000

	var items []reports.LowStockItem
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, query, scaledThreshold, filter.Limit); err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}

	return &reports.LowStockReport{
		Threshold: filter.Threshold,
		Items:     items,
	}, nil
}

// GetEMIDues returns active EMI accounts due within the horizon, overdue
// rows first.
func (r *ReportRepo) GetEMIDues(ctx context.Context, filter reports.EMIDuesFilter) (*reports.EMIDuesReport, error) {
	horizon := filter.AsOf.AddDate(0, 0, filter.HorizonDays)

	query := `
		SELECT
			id as emi_id,
			number,
			customer_name,
			customer_mobile,
			emi_amount,
			total_payable - amount_paid as remaining_balance,
			next_due_date,
			next_due_date < $1 as overdue
		FROM doc_emis
		WHERE status = 'active'
		  AND deletion_mark = false
		  AND next_due_date < $2
		ORDER BY next_due_date ASC
		LIMIT $3
	`

	var items []reports.EMIDueItem
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, query, filter.AsOf, horizon, filter.Limit); err != nil {
		return nil, fmt.Errorf("emi dues: %w", err)
	}

	overdue := 0
	for _, item := range items {
		if item.Overdue {
			overdue++
		}
	}

	return &reports.EMIDuesReport{
		AsOf:         filter.AsOf,
		HorizonDays:  filter.HorizonDays,
		OverdueCount: overdue,
		Items:        items,
	}, nil
}

var _ reports.Repository = (*ReportRepo)(nil)
