package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"voltbill/internal/core/apperror"
	"voltbill/internal/domain/catalogs/shop"
	"voltbill/internal/infrastructure/storage/postgres"
)

const shopTable = "cat_shops"

// ShopRepo implements shop.Repository.
type ShopRepo struct {
	*BaseCatalogRepo[*shop.Shop]
}

// NewShopRepo creates a new shop repository.
func NewShopRepo() *ShopRepo {
	return &ShopRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*shop.Shop](
			shopTable,
			postgres.ExtractDBColumns[shop.Shop](),
			func() *shop.Shop { return &shop.Shop{} },
		),
	}
}

// GetProfile returns the tenant's shop profile. Each tenant database carries
// exactly one non-deleted profile row.
func (r *ShopRepo) GetProfile(ctx context.Context) (*shop.Shop, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("created_at ASC").
		Limit(1)

	item, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("shop", "profile")
		}
		return nil, err
	}
	return item, nil
}

var _ shop.Repository = (*ShopRepo)(nil)
