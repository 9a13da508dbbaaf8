// Package stock provides the stock accumulation register.
// The register tracks on-hand quantity per product: immutable movement rows
// recorded by documents, plus a materialized balance table the invoice
// pipeline decrements atomically.
package stock

import (
	"context"
	"time"

	"voltbill/internal/core/entity"
	"voltbill/internal/core/id"
	"voltbill/internal/core/types"
)

// Repository defines operations for the stock register.
type Repository interface {
	// Movement operations

	// CreateMovements batch inserts movements (used during posting)
	CreateMovements(ctx context.Context, movements []entity.StockMovement) error

	// DeleteMovementsByRecorder removes all movements for a document version
	// Used during unposting or re-posting
	DeleteMovementsByRecorder(ctx context.Context, recorderID id.ID, beforeVersion int) error

	// GetMovementsByRecorder retrieves all movements for a document
	GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.StockMovement, error)

	// Balance operations

	// GetBalance returns the current balance for a product.
	// Products with no movements yet report a zero balance, not an error.
	GetBalance(ctx context.Context, productID id.ID) (entity.StockBalance, error)

	// GetBalances returns current balances for a set of products.
	// Products without a balance row are absent from the result map.
	GetBalances(ctx context.Context, productIDs []id.ID) (map[id.ID]entity.StockBalance, error)

	// GetBalanceForUpdate returns balance with row lock for stock control
	GetBalanceForUpdate(ctx context.Context, productID id.ID) (entity.StockBalance, error)

	// ConditionalDecrement atomically subtracts quantity from the balance
	// with a single UPDATE ... WHERE quantity >= $qty. Reports the remaining
	// quantity and whether the decrement was applied; when it was not, the
	// returned quantity is the available balance the caller can put in the
	// error message.
	ConditionalDecrement(ctx context.Context, productID id.ID, quantity types.Quantity, at time.Time) (applied bool, available types.Quantity, err error)

	// IncrementBalance adds quantity to the balance, inserting the row when
	// the product has never moved before. Used for receipts (restocking).
	IncrementBalance(ctx context.Context, productID id.ID, quantity types.Quantity, at time.Time) error

	// ListBalances returns balances matching the filter
	ListBalances(ctx context.Context, filter BalanceFilter) ([]entity.StockBalance, error)

	// GetBalanceAtDate calculates the balance as of a specific date (for reports)
	GetBalanceAtDate(ctx context.Context, productID id.ID, date time.Time) (types.Quantity, error)

	// Reporting

	// GetMovementHistory returns movement history for a product
	GetMovementHistory(ctx context.Context, productID id.ID, filter MovementFilter) ([]entity.StockMovement, error)

	// GetTurnover calculates receipt and expense totals for period
	GetTurnover(ctx context.Context, filter TurnoverFilter) (Turnover, error)

	// Maintenance

	// RecalculateBalances rebuilds balance table from movements
	RecalculateBalances(ctx context.Context, productID *id.ID) error
}

// BalanceFilter for filtering balance queries.
type BalanceFilter struct {
	ProductIDs  []id.ID
	ExcludeZero bool
	MinQuantity *types.Quantity
	MaxQuantity *types.Quantity
	Limit       int
}

// MovementFilter for filtering movement history.
type MovementFilter struct {
	RecordType *entity.RecordType
	FromDate   *time.Time
	ToDate     *time.Time
	Limit      int
	Offset     int
}

// TurnoverFilter for turnover reports.
type TurnoverFilter struct {
	ProductID *id.ID
	FromDate  time.Time
	ToDate    time.Time
}

// Turnover represents receipt/expense totals.
type Turnover struct {
	ProductID      id.ID          `json:"productId,omitempty"`
	OpeningBalance types.Quantity `json:"openingBalance"`
	Receipt        types.Quantity `json:"receipt"`
	Expense        types.Quantity `json:"expense"`
	ClosingBalance types.Quantity `json:"closingBalance"`
}
