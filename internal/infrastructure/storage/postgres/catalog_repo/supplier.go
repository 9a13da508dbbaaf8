package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"voltbill/internal/core/apperror"
	"voltbill/internal/domain/catalogs/supplier"
	"voltbill/internal/infrastructure/storage/postgres"
)

const supplierTable = "cat_suppliers"

// SupplierRepo implements supplier.Repository.
type SupplierRepo struct {
	*BaseCatalogRepo[*supplier.Supplier]
}

// NewSupplierRepo creates a new supplier repository.
func NewSupplierRepo() *SupplierRepo {
	return &SupplierRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*supplier.Supplier](
			supplierTable,
			postgres.ExtractDBColumns[supplier.Supplier](),
			func() *supplier.Supplier { return &supplier.Supplier{} },
		),
	}
}

// FindByGSTNumber retrieves a supplier by GSTIN.
func (r *SupplierRepo) FindByGSTNumber(ctx context.Context, gstin string) (*supplier.Supplier, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"gst_number": gstin}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	item, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("supplier", gstin)
		}
		return nil, err
	}
	return item, nil
}

var _ supplier.Repository = (*SupplierRepo)(nil)
