package stock

import (
	"context"
	"errors"
	"testing"
	"time"

	"voltbill/internal/core/apperror"
	"voltbill/internal/core/entity"
	"voltbill/internal/core/id"
	"voltbill/internal/core/types"
)

type mockRepo struct {
	balances  map[id.ID]types.Quantity
	movements []entity.StockMovement
}

func newMockRepo() *mockRepo {
	return &mockRepo{balances: make(map[id.ID]types.Quantity)}
}

func (m *mockRepo) CreateMovements(_ context.Context, movements []entity.StockMovement) error {
	m.movements = append(m.movements, movements...)
	return nil
}

func (m *mockRepo) DeleteMovementsByRecorder(_ context.Context, recorderID id.ID, beforeVersion int) error {
	kept := m.movements[:0]
	for _, mv := range m.movements {
		if mv.RecorderID != recorderID || mv.RecorderVersion >= beforeVersion {
			kept = append(kept, mv)
		}
	}
	m.movements = kept
	return nil
}

func (m *mockRepo) GetMovementsByRecorder(_ context.Context, recorderID id.ID) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	for _, mv := range m.movements {
		if mv.RecorderID == recorderID {
			out = append(out, mv)
		}
	}
	return out, nil
}

func (m *mockRepo) GetBalance(_ context.Context, productID id.ID) (entity.StockBalance, error) {
	return entity.StockBalance{ProductID: productID, Quantity: m.balances[productID]}, nil
}

func (m *mockRepo) GetBalances(_ context.Context, productIDs []id.ID) (map[id.ID]entity.StockBalance, error) {
	out := make(map[id.ID]entity.StockBalance)
	for _, pid := range productIDs {
		if q, ok := m.balances[pid]; ok {
			out[pid] = entity.StockBalance{ProductID: pid, Quantity: q}
		}
	}
	return out, nil
}

func (m *mockRepo) GetBalanceForUpdate(ctx context.Context, productID id.ID) (entity.StockBalance, error) {
	return m.GetBalance(ctx, productID)
}

func (m *mockRepo) ConditionalDecrement(_ context.Context, productID id.ID, quantity types.Quantity, _ time.Time) (bool, types.Quantity, error) {
	current := m.balances[productID]
	if current < quantity {
		return false, current, nil
	}
	m.balances[productID] = current - quantity
	return true, current - quantity, nil
}

func (m *mockRepo) IncrementBalance(_ context.Context, productID id.ID, quantity types.Quantity, _ time.Time) error {
	m.balances[productID] += quantity
	return nil
}

func (m *mockRepo) ListBalances(_ context.Context, filter BalanceFilter) ([]entity.StockBalance, error) {
	var out []entity.StockBalance
	for pid, q := range m.balances {
		if filter.MaxQuantity != nil && q > *filter.MaxQuantity {
			continue
		}
		out = append(out, entity.StockBalance{ProductID: pid, Quantity: q})
	}
	return out, nil
}

func (m *mockRepo) GetBalanceAtDate(_ context.Context, productID id.ID, _ time.Time) (types.Quantity, error) {
	return m.balances[productID], nil
}

func (m *mockRepo) GetMovementHistory(_ context.Context, productID id.ID, _ MovementFilter) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	for _, mv := range m.movements {
		if mv.ProductID == productID {
			out = append(out, mv)
		}
	}
	return out, nil
}

func (m *mockRepo) GetTurnover(_ context.Context, _ TurnoverFilter) (Turnover, error) {
	return Turnover{}, nil
}

func (m *mockRepo) RecalculateBalances(_ context.Context, _ *id.ID) error { return nil }

func testRecorder() Recorder {
	return Recorder{ID: id.New(), Type: "Invoice", Version: 1, Period: time.Now().UTC()}
}

func TestDeduct(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	p1, p2 := id.New(), id.New()
	repo.balances[p1] = types.NewQuantityFromFloat64(10)
	repo.balances[p2] = types.NewQuantityFromFloat64(5)

	err := svc.Deduct(context.Background(), testRecorder(), []Deduction{
		{ProductID: p1, ProductName: "Fan", Quantity: types.NewQuantityFromFloat64(3)},
		{ProductID: p2, ProductName: "Bulb", Quantity: types.NewQuantityFromFloat64(5)},
	})
	if err != nil {
		t.Fatalf("Deduct failed: %v", err)
	}

	if got := repo.balances[p1]; got != types.NewQuantityFromFloat64(7) {
		t.Errorf("p1 balance = %s, want 7", got)
	}
	if got := repo.balances[p2]; !got.IsZero() {
		t.Errorf("p2 balance = %s, want 0 (exact stock sale)", got)
	}
	if len(repo.movements) != 2 {
		t.Errorf("movements = %d, want 2", len(repo.movements))
	}
	for _, mv := range repo.movements {
		if mv.RecordType != entity.RecordTypeExpense {
			t.Errorf("movement record type = %s, want expense", mv.RecordType)
		}
	}
}

func TestDeduct_InsufficientStockNamesProduct(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	pid := id.New()
	repo.balances[pid] = types.NewQuantityFromFloat64(2)

	err := svc.Deduct(context.Background(), testRecorder(), []Deduction{
		{ProductID: pid, ProductName: "Ceiling Fan", Quantity: types.NewQuantityFromFloat64(3)},
	})
	if err == nil {
		t.Fatal("expected insufficient stock error")
	}

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != apperror.CodeInsufficientStock {
		t.Errorf("code = %s, want %s", appErr.Code, apperror.CodeInsufficientStock)
	}
	if appErr.Details["product"] != "Ceiling Fan" {
		t.Errorf("error does not name the product: %v", appErr.Details)
	}
	if len(repo.movements) != 0 {
		t.Errorf("movements written despite failure: %d", len(repo.movements))
	}
}

func TestDeduct_RejectsNonPositiveQuantity(t *testing.T) {
	svc := NewService(newMockRepo())

	err := svc.Deduct(context.Background(), testRecorder(), []Deduction{
		{ProductID: id.New(), ProductName: "Fan", Quantity: 0},
	})
	if err == nil {
		t.Fatal("zero quantity accepted")
	}
}

func TestRestockAndReverse(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	pid := id.New()
	rec := testRecorder()

	if err := svc.Restock(context.Background(), rec, pid, types.NewQuantityFromFloat64(10)); err != nil {
		t.Fatalf("Restock failed: %v", err)
	}
	if got := repo.balances[pid]; got != types.NewQuantityFromFloat64(10) {
		t.Fatalf("balance after restock = %s, want 10", got)
	}

	// Sell part of it with another document.
	saleRec := testRecorder()
	if err := svc.Deduct(context.Background(), saleRec, []Deduction{
		{ProductID: pid, ProductName: "Fan", Quantity: types.NewQuantityFromFloat64(4)},
	}); err != nil {
		t.Fatalf("Deduct failed: %v", err)
	}

	// Reversing the sale restores the balance and drops the movement rows.
	if err := svc.ReverseByRecorder(context.Background(), saleRec.ID, saleRec.Version+1); err != nil {
		t.Fatalf("ReverseByRecorder failed: %v", err)
	}
	if got := repo.balances[pid]; got != types.NewQuantityFromFloat64(10) {
		t.Errorf("balance after reverse = %s, want 10", got)
	}
	remaining, _ := repo.GetMovementsByRecorder(context.Background(), saleRec.ID)
	if len(remaining) != 0 {
		t.Errorf("sale movements not removed: %d", len(remaining))
	}
}

func TestReverseReceipt_FailsWhenStockAlreadySold(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	pid := id.New()
	receiptRec := testRecorder()

	if err := svc.Restock(context.Background(), receiptRec, pid, types.NewQuantityFromFloat64(5)); err != nil {
		t.Fatal(err)
	}
	if err := svc.Deduct(context.Background(), testRecorder(), []Deduction{
		{ProductID: pid, ProductName: "Fan", Quantity: types.NewQuantityFromFloat64(4)},
	}); err != nil {
		t.Fatal(err)
	}

	// Only 1 left; reverting the 5-unit receipt would go negative.
	err := svc.ReverseByRecorder(context.Background(), receiptRec.ID, receiptRec.Version+1)
	if err == nil {
		t.Fatal("receipt reversal accepted despite sold stock")
	}
}

func TestListLowStock(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	low, high := id.New(), id.New()
	repo.balances[low] = types.NewQuantityFromFloat64(2)
	repo.balances[high] = types.NewQuantityFromFloat64(50)

	got, err := svc.ListLowStock(context.Background(), types.NewQuantityFromFloat64(5), 10)
	if err != nil {
		t.Fatalf("ListLowStock failed: %v", err)
	}
	if len(got) != 1 || got[0].ProductID != low {
		t.Errorf("low stock = %v, want only the low product", got)
	}
}
