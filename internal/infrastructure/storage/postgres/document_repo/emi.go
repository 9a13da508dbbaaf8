package document_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"voltbill/internal/core/apperror"
	"voltbill/internal/core/id"
	"voltbill/internal/domain"
	"voltbill/internal/domain/documents/emi"
	"voltbill/internal/infrastructure/storage/postgres"
)

const (
	emisTable        = "doc_emis"
	emiPaymentsTable = "doc_emi_payments"
)

// EMIRepo implements emi.Repository.
type EMIRepo struct {
	*BaseDocumentRepo[*emi.EMI]
}

// NewEMIRepo creates a new EMI repository.
func NewEMIRepo() *EMIRepo {
	return &EMIRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*emi.EMI](
			emisTable,
			postgres.ExtractDBColumns[emi.EMI](),
			func() *emi.EMI { return &emi.EMI{} },
		),
	}
}

// GetByInvoiceID retrieves the EMI record created for an invoice.
func (r *EMIRepo) GetByInvoiceID(ctx context.Context, invoiceID id.ID) (*emi.EMI, error) {
	entity := &emi.EMI{}
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"invoice_id": invoiceID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("emi", invoiceID.String())
		}
		return nil, fmt.Errorf("get by invoice id: %w", err)
	}

	return entity, nil
}

// AddPayment appends a ledger entry. Rows are insert-only.
func (r *EMIRepo) AddPayment(ctx context.Context, p *emi.Payment) error {
	q := r.Builder().
		Insert(emiPaymentsTable).
		Columns("id", "emi_id", "amount", "date", "mode", "remarks", "created_at").
		Values(p.ID, p.EmiID, p.Amount, p.Date, p.Mode, p.Remarks, p.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert payment: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	return nil
}

func (r *EMIRepo) ListPayments(ctx context.Context, emiID id.ID) ([]*emi.Payment, error) {
	q := r.Builder().
		Select("id", "emi_id", "amount", "date", "mode", "remarks", "created_at").
		From(emiPaymentsTable).
		Where(squirrel.Eq{"emi_id": emiID}).
		OrderBy("date ASC", "created_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var payments []*emi.Payment
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &payments, sql, args...); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	return payments, nil
}

// ListDueBefore returns active EMIs whose next installment falls due before
// the given date.
func (r *EMIRepo) ListDueBefore(ctx context.Context, due time.Time) ([]*emi.EMI, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"status": emi.StatusActive}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(squirrel.Lt{"next_due_date": due}).
		OrderBy("next_due_date ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*emi.EMI
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list due emis: %w", err)
	}

	return items, nil
}

func (r *EMIRepo) List(ctx context.Context, filter emi.ListFilter) (domain.ListResult[*emi.EMI], error) {
	result := domain.ListResult[*emi.EMI]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect(ctx)

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}

	if filter.Mobile != nil {
		q = q.Where(squirrel.Eq{"customer_mobile": *filter.Mobile})
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

var _ emi.Repository = (*EMIRepo)(nil)
