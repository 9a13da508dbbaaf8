package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"voltbill/internal/core/apperror"
	"voltbill/internal/core/id"
	"voltbill/internal/domain/catalogs/product"
	"voltbill/internal/infrastructure/storage/postgres"
)

const productTable = "cat_products"

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

// NewProductRepo creates a new product repository.
func NewProductRepo() *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*product.Product](
			productTable,
			postgres.ExtractDBColumns[product.Product](),
			func() *product.Product { return &product.Product{} },
		),
	}
}

// FindBySKU retrieves a product by SKU code.
func (r *ProductRepo) FindBySKU(ctx context.Context, sku string) (*product.Product, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"sku_code": sku}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	item, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("product", sku)
		}
		return nil, err
	}
	return item, nil
}

// GetByIDs retrieves products in bulk, keyed by ID. Missing IDs are simply
// absent from the map; the caller decides whether that is an error.
func (r *ProductRepo) GetByIDs(ctx context.Context, ids []id.ID) (map[id.ID]*product.Product, error) {
	result := make(map[id.ID]*product.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"id": ids})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*product.Product
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get products by ids: %w", err)
	}

	for _, item := range items {
		result[item.ID] = item
	}
	return result, nil
}

var _ product.Repository = (*ProductRepo)(nil)
