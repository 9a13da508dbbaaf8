package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"voltbill/internal/domain/catalogs/discount"
	"voltbill/internal/infrastructure/storage/postgres"
)

const discountTable = "cat_discounts"

// DiscountRepo implements discount.Repository.
type DiscountRepo struct {
	*BaseCatalogRepo[*discount.Discount]
}

// NewDiscountRepo creates a new discount rule repository.
func NewDiscountRepo() *DiscountRepo {
	return &DiscountRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*discount.Discount](
			discountTable,
			postgres.ExtractDBColumns[discount.Discount](),
			func() *discount.Discount { return &discount.Discount{} },
		),
	}
}

// FindActive returns all active, non-deleted discount rules. Date windows are
// evaluated by the resolver, not here.
func (r *DiscountRepo) FindActive(ctx context.Context) ([]*discount.Discount, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"is_active": true}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("code ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*discount.Discount
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("find active discounts: %w", err)
	}

	return items, nil
}

var _ discount.Repository = (*DiscountRepo)(nil)
