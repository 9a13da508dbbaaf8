package stock

import (
	"context"
	"fmt"
	"time"

	"voltbill/internal/core/apperror"
	"voltbill/internal/core/entity"
	"voltbill/internal/core/id"
	"voltbill/internal/core/types"
	"voltbill/pkg/logger"
)

// Recorder identifies the document writing to the register.
type Recorder struct {
	ID      id.ID
	Type    string
	Version int
	Period  time.Time
}

// Deduction is one product quantity to remove from stock.
// ProductName is carried only for the insufficient-stock error message.
type Deduction struct {
	ProductID   id.ID
	ProductName string
	Quantity    types.Quantity
}

// Service provides business operations for the stock register.
// Transactions are managed by the caller: the invoice pipeline runs all
// deductions for one sale inside its own transaction, so either every line's
// decrement lands or none do.
type Service struct {
	repo Repository
}

// NewService creates a new stock register service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// Deduct removes stock for every item or fails the whole call.
// Each line is a single conditional decrement: the balance row is only
// updated when enough stock remains, so two concurrent sales of the last
// unit cannot both succeed. The first line that cannot be satisfied aborts
// with an insufficient-stock error naming the product; the caller's
// transaction rollback undoes any decrements already applied.
func (s *Service) Deduct(ctx context.Context, rec Recorder, items []Deduction) error {
	if len(items) == 0 {
		return nil
	}

	movements := make([]entity.StockMovement, 0, len(items))
	for i, item := range items {
		if !item.Quantity.IsPositive() {
			return apperror.NewValidation(fmt.Sprintf("item %d: quantity must be positive", i)).
				WithDetail("product_id", item.ProductID.String())
		}

		applied, available, err := s.repo.ConditionalDecrement(ctx, item.ProductID, item.Quantity, rec.Period)
		if err != nil {
			return fmt.Errorf("decrement stock for %s: %w", item.ProductID, err)
		}
		if !applied {
			return apperror.NewInsufficientStock(
				item.ProductID.String(),
				item.ProductName,
				item.Quantity.Int64Scaled(),
				available.Int64Scaled(),
			)
		}

		movements = append(movements, entity.NewStockMovement(
			rec.ID, rec.Type, rec.Version, rec.Period,
			entity.RecordTypeExpense, item.ProductID, item.Quantity,
		))
	}

	if err := s.repo.CreateMovements(ctx, movements); err != nil {
		return fmt.Errorf("create movements: %w", err)
	}

	logger.Info(ctx, "stock deducted",
		"recorder_id", rec.ID,
		"lines", len(items),
	)

	return nil
}

// Restock adds stock for a product (external restocking, opening balance).
func (s *Service) Restock(ctx context.Context, rec Recorder, productID id.ID, quantity types.Quantity) error {
	if !quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("product_id", productID.String())
	}

	if err := s.repo.IncrementBalance(ctx, productID, quantity, rec.Period); err != nil {
		return fmt.Errorf("increment balance: %w", err)
	}

	movement := entity.NewStockMovement(
		rec.ID, rec.Type, rec.Version, rec.Period,
		entity.RecordTypeReceipt, productID, quantity,
	)
	if err := s.repo.CreateMovements(ctx, []entity.StockMovement{movement}); err != nil {
		return fmt.Errorf("create movement: %w", err)
	}

	logger.Info(ctx, "stock received",
		"recorder_id", rec.ID,
		"product_id", productID,
		"quantity", quantity,
	)

	return nil
}

// ReverseByRecorder undoes a document's effect on the register: balances are
// restored from the recorded movements, then the movement rows are removed.
// Reversing a receipt whose stock has already been sold fails rather than
// driving the balance negative.
func (s *Service) ReverseByRecorder(ctx context.Context, recorderID id.ID, beforeVersion int) error {
	movements, err := s.repo.GetMovementsByRecorder(ctx, recorderID)
	if err != nil {
		return fmt.Errorf("get movements: %w", err)
	}

	now := time.Now().UTC()
	for _, m := range movements {
		if m.RecorderVersion >= beforeVersion {
			continue
		}
		switch m.RecordType {
		case entity.RecordTypeExpense:
			if err := s.repo.IncrementBalance(ctx, m.ProductID, m.Quantity, now); err != nil {
				return fmt.Errorf("restore balance for %s: %w", m.ProductID, err)
			}
		case entity.RecordTypeReceipt:
			applied, available, err := s.repo.ConditionalDecrement(ctx, m.ProductID, m.Quantity, now)
			if err != nil {
				return fmt.Errorf("revert receipt for %s: %w", m.ProductID, err)
			}
			if !applied {
				return apperror.NewInsufficientStock(
					m.ProductID.String(), "",
					m.Quantity.Int64Scaled(), available.Int64Scaled(),
				)
			}
		}
	}

	if err := s.repo.DeleteMovementsByRecorder(ctx, recorderID, beforeVersion); err != nil {
		return fmt.Errorf("delete movements: %w", err)
	}

	logger.Info(ctx, "stock movements reversed",
		"recorder_id", recorderID,
		"before_version", beforeVersion,
	)

	return nil
}

// GetBalance returns the current balance for a product (zero when no row).
func (s *Service) GetBalance(ctx context.Context, productID id.ID) (entity.StockBalance, error) {
	return s.repo.GetBalance(ctx, productID)
}

// GetBalances returns current balances keyed by product.
func (s *Service) GetBalances(ctx context.Context, productIDs []id.ID) (map[id.ID]entity.StockBalance, error) {
	if len(productIDs) == 0 {
		return map[id.ID]entity.StockBalance{}, nil
	}
	return s.repo.GetBalances(ctx, productIDs)
}

// ListLowStock returns products whose on-hand quantity is at or below the
// threshold. Feeds the dashboard low-stock widget.
func (s *Service) ListLowStock(ctx context.Context, threshold types.Quantity, limit int) ([]entity.StockBalance, error) {
	return s.repo.ListBalances(ctx, BalanceFilter{
		MaxQuantity: &threshold,
		Limit:       limit,
	})
}

// GetMovementHistory returns the movement history for a product.
func (s *Service) GetMovementHistory(ctx context.Context, productID id.ID, filter MovementFilter) ([]entity.StockMovement, error) {
	return s.repo.GetMovementHistory(ctx, productID, filter)
}

// GetTurnover generates a receipt/expense turnover report for the period.
func (s *Service) GetTurnover(ctx context.Context, filter TurnoverFilter) (Turnover, error) {
	return s.repo.GetTurnover(ctx, filter)
}

// GetBalanceAtDate calculates a product's balance as of a specific date.
func (s *Service) GetBalanceAtDate(ctx context.Context, productID id.ID, date time.Time) (types.Quantity, error) {
	return s.repo.GetBalanceAtDate(ctx, productID, date)
}
