package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"voltbill/internal/core/id"
	"voltbill/internal/domain"
	"voltbill/internal/domain/documents/invoice"
	"voltbill/internal/infrastructure/storage/postgres"
)

const (
	invoicesTable     = "doc_invoices"
	invoiceLinesTable = "doc_invoice_lines"
)

// InvoiceRepo implements invoice.Repository.
type InvoiceRepo struct {
	*BaseDocumentRepo[*invoice.Invoice]
}

// NewInvoiceRepo creates a new invoice repository.
func NewInvoiceRepo() *InvoiceRepo {
	return &InvoiceRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*invoice.Invoice](
			invoicesTable,
			postgres.ExtractDBColumns[invoice.Invoice](),
			func() *invoice.Invoice { return &invoice.Invoice{} },
		),
	}
}

func (r *InvoiceRepo) GetLines(ctx context.Context, docID id.ID) ([]invoice.Line, error) {
	q := r.Builder().
		Select(
			"line_id", "line_no", "product_id", "product_name", "model",
			"hsn_code", "unit", "quantity", "unit_price", "discount_amount",
			"final_price", "applied_discount_type", "gst_percent", "gst_amount",
			"total", "warranty_months", "guarantee_months",
		).
		From(invoiceLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []invoice.Line
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

func (r *InvoiceRepo) SaveLines(ctx context.Context, docID id.ID, lines []invoice.Line) error {
	querier := r.getTxManager(ctx).GetQuerier(ctx)

	deleteSQL := "DELETE FROM " + invoiceLinesTable + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(invoiceLinesTable).
		Columns(
			"line_id", "document_id", "line_no", "product_id", "product_name",
			"model", "hsn_code", "unit", "quantity", "unit_price",
			"discount_amount", "final_price", "applied_discount_type",
			"gst_percent", "gst_amount", "total", "warranty_months",
			"guarantee_months",
		)

	for _, line := range lines {
		q = q.Values(
			line.LineID, docID, line.LineNo, line.ProductID, line.ProductName,
			line.Model, line.HSNCode, line.Unit, line.Quantity, line.UnitPrice,
			line.DiscountAmount, line.FinalPrice, line.AppliedDiscountType,
			line.GSTPercent, line.GSTAmount, line.Total, line.WarrantyMonths,
			line.GuaranteeMonths,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}

func (r *InvoiceRepo) List(ctx context.Context, filter invoice.ListFilter) (domain.ListResult[*invoice.Invoice], error) {
	result := domain.ListResult[*invoice.Invoice]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect(ctx)

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if filter.CustomerMobile != nil {
		q = q.Where(squirrel.Eq{"customer_mobile": *filter.CustomerMobile})
	}

	if filter.PaymentType != nil {
		q = q.Where(squirrel.Eq{"payment_type": *filter.PaymentType})
	}

	if filter.PaymentStatus != nil {
		q = q.Where(squirrel.Eq{"payment_status": *filter.PaymentStatus})
	}

	if filter.BilledByID != nil {
		q = q.Where(squirrel.Eq{"billed_by_id": *filter.BilledByID})
	}

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}

	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"number": searchPattern},
			squirrel.ILike{"customer_name": searchPattern},
			squirrel.ILike{"customer_mobile": searchPattern},
		})
	}

	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select: %w", err)
	}

	return result, nil
}

var _ invoice.Repository = (*InvoiceRepo)(nil)
