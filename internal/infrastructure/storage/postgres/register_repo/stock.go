// Package register_repo provides PostgreSQL implementations for register repositories.
// In Database-per-Tenant architecture, TxManager is obtained from context.
package register_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"voltbill/internal/core/entity"
	"voltbill/internal/core/id"
	"voltbill/internal/core/types"
	"voltbill/internal/domain/registers/stock"
	"voltbill/internal/infrastructure/storage/postgres"
)

const (
	stockMovementsTable = "reg_stock_movements"
	stockBalancesTable  = "reg_stock_balances"
)

// StockRepo implements stock.Repository.
// In Database-per-Tenant architecture, TxManager is obtained from context.
type StockRepo struct {
	builder squirrel.StatementBuilderType
}

// NewStockRepo creates a new stock register repository.
func NewStockRepo() *StockRepo {
	return &StockRepo{
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// getTxManager retrieves TxManager from context.
func (r *StockRepo) getTxManager(ctx context.Context) *postgres.TxManager {
	return postgres.MustGetTxManager(ctx)
}

// CreateMovements batch inserts movements.
func (r *StockRepo) CreateMovements(ctx context.Context, movements []entity.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}

	// Fast path: COPY when inside a transaction.
	txm := r.getTxManager(ctx)
	if tx := txm.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(txm)
		columns := []string{
			"line_id", "recorder_id", "recorder_type", "recorder_version",
			"period", "record_type",
			"product_id", "quantity", "created_at",
		}
		rows := make([][]any, 0, len(movements))
		for _, m := range movements {
			rows = append(rows, []any{
				m.LineID, m.RecorderID, m.RecorderType, m.RecorderVersion,
				m.Period, m.RecordType,
				m.ProductID, m.Quantity, m.CreatedAt,
			})
		}
		if _, err := inserter.CopyFromSlice(ctx, stockMovementsTable, columns, rows); err != nil {
			return fmt.Errorf("copy movements: %w", err)
		}
		return nil
	}

	// Fallback: non-transactional insert (slower). Prefer calling CreateMovements within tx.
	q := r.builder.Insert(stockMovementsTable).Columns(
		"line_id", "recorder_id", "recorder_type", "recorder_version",
		"period", "record_type",
		"product_id", "quantity", "created_at",
	)

	for _, m := range movements {
		q = q.Values(
			m.LineID, m.RecorderID, m.RecorderType, m.RecorderVersion,
			m.Period, m.RecordType,
			m.ProductID, m.Quantity, m.CreatedAt,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	_, err = querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("insert movements: %w", err)
	}

	return nil
}

// DeleteMovementsByRecorder removes movements for a document version.
func (r *StockRepo) DeleteMovementsByRecorder(ctx context.Context, recorderID id.ID, beforeVersion int) error {
	q := r.builder.Delete(stockMovementsTable).
		Where(squirrel.Eq{"recorder_id": recorderID}).
		Where(squirrel.Lt{"recorder_version": beforeVersion})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	_, err = querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete movements: %w", err)
	}

	return nil
}

// GetMovementsByRecorder retrieves movements for a document.
func (r *StockRepo) GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.StockMovement, error) {
	q := r.builder.Select(
		"line_id", "recorder_id", "recorder_type", "recorder_version",
		"period", "record_type",
		"product_id", "quantity", "created_at",
	).From(stockMovementsTable).
		Where(squirrel.Eq{"recorder_id": recorderID}).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []entity.StockMovement
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}

	return movements, nil
}

// GetBalance returns the current balance for a product.
func (r *StockRepo) GetBalance(ctx context.Context, productID id.ID) (entity.StockBalance, error) {
	var balance entity.StockBalance

	q := r.builder.Select(
		"product_id", "quantity", "last_movement_at", "updated_at",
	).From(stockBalancesTable).
		Where(squirrel.Eq{"product_id": productID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return balance, fmt.Errorf("build query: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &balance, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity.StockBalance{
				ProductID: productID,
				Quantity:  0,
			}, nil
		}
		return balance, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

// GetBalances returns current balances for a set of products.
func (r *StockRepo) GetBalances(ctx context.Context, productIDs []id.ID) (map[id.ID]entity.StockBalance, error) {
	if len(productIDs) == 0 {
		return map[id.ID]entity.StockBalance{}, nil
	}

	q := r.builder.Select(
		"product_id", "quantity", "last_movement_at", "updated_at",
	).From(stockBalancesTable).
		Where(squirrel.Eq{"product_id": productIDs})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var balances []entity.StockBalance
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &balances, sql, args...); err != nil {
		return nil, fmt.Errorf("select balances: %w", err)
	}

	result := make(map[id.ID]entity.StockBalance, len(balances))
	for _, b := range balances {
		result[b.ProductID] = b
	}
	return result, nil
}

// GetBalanceForUpdate returns balance with pessimistic lock.
func (r *StockRepo) GetBalanceForUpdate(ctx context.Context, productID id.ID) (entity.StockBalance, error) {
	var balance entity.StockBalance

	sql := `
		SELECT product_id, quantity, last_movement_at, updated_at
		FROM reg_stock_balances
		WHERE product_id = $1
		FOR UPDATE
	`

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	err := pgxscan.Get(ctx, querier, &balance, sql, productID)
	if err != nil {
		if pgxscan.NotFound(err) {
			return entity.StockBalance{
				ProductID: productID,
				Quantity:  0,
			}, nil
		}
		return balance, fmt.Errorf("get balance for update: %w", err)
	}

	return balance, nil
}

// ConditionalDecrement subtracts quantity only when enough stock remains.
// A single guarded UPDATE: two concurrent sales of the same last unit cannot
// both pass, whichever lands second sees zero rows affected.
func (r *StockRepo) ConditionalDecrement(ctx context.Context, productID id.ID, quantity types.Quantity, at time.Time) (bool, types.Quantity, error) {
	sql := `
		UPDATE reg_stock_balances
		SET quantity = quantity - $2,
		    last_movement_at = $3,
		    updated_at = now()
		WHERE product_id = $1 AND quantity >= $2
		RETURNING quantity
	`

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	var remainingScaled int64
	err := querier.QueryRow(ctx, sql, productID, quantity, at).Scan(&remainingScaled)
	if err == nil {
		return true, types.NewQuantityFromInt64Scaled(remainingScaled), nil
	}
	if err != pgx.ErrNoRows {
		return false, 0, fmt.Errorf("conditional decrement: %w", err)
	}

	// Decrement refused: report the available quantity for the error message.
	balance, err := r.GetBalance(ctx, productID)
	if err != nil {
		return false, 0, err
	}
	return false, balance.Quantity, nil
}

// IncrementBalance adds quantity, creating the balance row on first movement.
func (r *StockRepo) IncrementBalance(ctx context.Context, productID id.ID, quantity types.Quantity, at time.Time) error {
	sql := `
		INSERT INTO reg_stock_balances (product_id, quantity, last_movement_at, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id)
		DO UPDATE SET quantity = reg_stock_balances.quantity + EXCLUDED.quantity,
		              last_movement_at = EXCLUDED.last_movement_at,
		              updated_at = now()
	`

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, productID, quantity, at); err != nil {
		return fmt.Errorf("increment balance: %w", err)
	}

	return nil
}

// ListBalances returns balances matching the filter.
func (r *StockRepo) ListBalances(ctx context.Context, filter stock.BalanceFilter) ([]entity.StockBalance, error) {
	q := r.builder.Select(
		"product_id", "quantity", "last_movement_at", "updated_at",
	).From(stockBalancesTable)

	if filter.ExcludeZero {
		q = q.Where(squirrel.NotEq{"quantity": int64(0)})
	}

	if len(filter.ProductIDs) > 0 {
		q = q.Where(squirrel.Eq{"product_id": filter.ProductIDs})
	}

	if filter.MinQuantity != nil {
		q = q.Where(squirrel.GtOrEq{"quantity": filter.MinQuantity.Int64Scaled()})
	}

	if filter.MaxQuantity != nil {
		q = q.Where(squirrel.LtOrEq{"quantity": filter.MaxQuantity.Int64Scaled()})
	}

	q = q.OrderBy("quantity", "product_id")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var balances []entity.StockBalance
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &balances, sql, args...); err != nil {
		return nil, fmt.Errorf("select balances: %w", err)
	}

	return balances, nil
}

// GetBalanceAtDate calculates balance as of a specific date.
func (r *StockRepo) GetBalanceAtDate(ctx context.Context, productID id.ID, date time.Time) (types.Quantity, error) {
	sql := `
		SELECT COALESCE(
			SUM(CASE WHEN record_type = 'receipt' THEN quantity ELSE -quantity END),
			0
		)
		FROM reg_stock_movements
		WHERE product_id = $1
		  AND period <= $2
	`

	var balanceScaled int64
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	err := querier.QueryRow(ctx, sql, productID, date).Scan(&balanceScaled)
	if err != nil && err != pgx.ErrNoRows {
		return 0, fmt.Errorf("calculate balance at date: %w", err)
	}

	return types.NewQuantityFromInt64Scaled(balanceScaled), nil
}

// GetMovementHistory returns movement history for a product.
func (r *StockRepo) GetMovementHistory(ctx context.Context, productID id.ID, filter stock.MovementFilter) ([]entity.StockMovement, error) {
	q := r.builder.Select(
		"line_id", "recorder_id", "recorder_type", "recorder_version",
		"period", "record_type",
		"product_id", "quantity", "created_at",
	).From(stockMovementsTable).
		Where(squirrel.Eq{"product_id": productID})

	if filter.RecordType != nil {
		q = q.Where(squirrel.Eq{"record_type": *filter.RecordType})
	}

	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"period": *filter.FromDate})
	}

	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"period": *filter.ToDate})
	}

	q = q.OrderBy("period DESC", "created_at DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []entity.StockMovement
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}

	return movements, nil
}

// GetTurnover calculates turnover for period.
func (r *StockRepo) GetTurnover(ctx context.Context, filter stock.TurnoverFilter) (stock.Turnover, error) {
	var result stock.Turnover

	args := []any{filter.FromDate, filter.ToDate}
	baseConditions := "period >= $1 AND period < $2"

	if filter.ProductID != nil {
		baseConditions += " AND product_id = $3"
		args = append(args, *filter.ProductID)
		result.ProductID = *filter.ProductID
	}

	sql := fmt.Sprintf(`
		SELECT
			COALESCE(SUM(CASE WHEN record_type = 'receipt' THEN quantity ELSE 0 END), 0) as receipt,
			COALESCE(SUM(CASE WHEN record_type = 'expense' THEN quantity ELSE 0 END), 0) as expense
		FROM reg_stock_movements
		WHERE %s
	`, baseConditions)

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	var receiptScaled, expenseScaled int64
	err := querier.QueryRow(ctx, sql, args...).Scan(&receiptScaled, &expenseScaled)
	if err != nil && err != pgx.ErrNoRows {
		return result, fmt.Errorf("calculate turnover: %w", err)
	}
	result.Receipt = types.NewQuantityFromInt64Scaled(receiptScaled)
	result.Expense = types.NewQuantityFromInt64Scaled(expenseScaled)

	// Calculate opening balance
	openingArgs := []any{filter.FromDate}
	openingConditions := "period < $1"

	if filter.ProductID != nil {
		openingConditions += " AND product_id = $2"
		openingArgs = append(openingArgs, *filter.ProductID)
	}

	openingSQL := fmt.Sprintf(`
		SELECT COALESCE(
			SUM(CASE WHEN record_type = 'receipt' THEN quantity ELSE -quantity END),
			0
		)
		FROM reg_stock_movements
		WHERE %s
	`, openingConditions)

	var openingScaled int64
	err = querier.QueryRow(ctx, openingSQL, openingArgs...).Scan(&openingScaled)
	if err != nil && err != pgx.ErrNoRows {
		return result, fmt.Errorf("calculate opening balance: %w", err)
	}
	result.OpeningBalance = types.NewQuantityFromInt64Scaled(openingScaled)

	result.ClosingBalance = result.OpeningBalance + result.Receipt - result.Expense

	return result, nil
}

// RecalculateBalances rebuilds balance table from movements.
func (r *StockRepo) RecalculateBalances(ctx context.Context, productID *id.ID) error {
	sql := `
		INSERT INTO reg_stock_balances (product_id, quantity, last_movement_at, updated_at)
		SELECT product_id,
		       COALESCE(SUM(CASE WHEN record_type = 'receipt' THEN quantity ELSE -quantity END), 0),
		       MAX(period),
		       now()
		FROM reg_stock_movements
		WHERE ($1::uuid IS NULL OR product_id = $1)
		GROUP BY product_id
		ON CONFLICT (product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity,
		              last_movement_at = EXCLUDED.last_movement_at,
		              updated_at = now()
	`

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, productID); err != nil {
		return fmt.Errorf("recalculate balances: %w", err)
	}

	return nil
}

// Ensure interface compliance.
var _ stock.Repository = (*StockRepo)(nil)
