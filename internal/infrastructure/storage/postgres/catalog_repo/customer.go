package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"voltbill/internal/core/apperror"
	"voltbill/internal/domain/catalogs/customer"
	"voltbill/internal/infrastructure/storage/postgres"
)

const customerTable = "cat_customers"

// CustomerRepo implements customer.Repository.
type CustomerRepo struct {
	*BaseCatalogRepo[*customer.Customer]
}

// NewCustomerRepo creates a new customer repository.
func NewCustomerRepo() *CustomerRepo {
	return &CustomerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*customer.Customer](
			customerTable,
			postgres.ExtractDBColumns[customer.Customer](),
			func() *customer.Customer { return &customer.Customer{} },
		),
	}
}

// FindByMobile retrieves a customer by mobile number.
func (r *CustomerRepo) FindByMobile(ctx context.Context, mobile string) (*customer.Customer, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"mobile": mobile}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	item, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("customer", mobile)
		}
		return nil, err
	}
	return item, nil
}

// CreateIfAbsent inserts the customer unless one with the same mobile already
// exists. The unique constraint on mobile decides: ON CONFLICT DO NOTHING means
// a concurrent or earlier registration wins silently. Returns true when a row
// was inserted.
func (r *CustomerRepo) CreateIfAbsent(ctx context.Context, c *customer.Customer) (bool, error) {
	data := postgres.StructToMap(c)
	if len(data) == 0 {
		return false, fmt.Errorf("no db tags found in entity")
	}

	filteredData := make(map[string]any, len(data))
	for _, col := range postgres.ExtractDBColumns[customer.Customer]() {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.Builder().
		Insert(customerTable).
		SetMap(filteredData).
		Suffix("ON CONFLICT (mobile) DO NOTHING")

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("insert %s: %w", customerTable, err)
	}

	return tag.RowsAffected() == 1, nil
}

var _ customer.Repository = (*CustomerRepo)(nil)
