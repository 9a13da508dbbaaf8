package emi

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"voltbill/internal/core/apperror"
	"voltbill/internal/core/id"
	"voltbill/internal/core/numerator"
	"voltbill/internal/domain"
)

// noopTxManager runs the function directly, no real transaction.
type noopTxManager struct{}

func (noopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockRepo struct {
	emis     map[id.ID]*EMI
	payments []*Payment
}

func newMockRepo() *mockRepo {
	return &mockRepo{emis: make(map[id.ID]*EMI)}
}

func (m *mockRepo) Create(_ context.Context, e *EMI) error {
	m.emis[e.ID] = e
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, emiID id.ID) (*EMI, error) {
	e, ok := m.emis[emiID]
	if !ok {
		return nil, apperror.NewNotFound("emi", emiID.String())
	}
	cp := *e
	return &cp, nil
}

func (m *mockRepo) GetByInvoiceID(_ context.Context, invoiceID id.ID) (*EMI, error) {
	for _, e := range m.emis {
		if e.InvoiceID == invoiceID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("emi", invoiceID.String())
}

func (m *mockRepo) Update(_ context.Context, e *EMI) error {
	m.emis[e.ID] = e
	return nil
}

func (m *mockRepo) List(_ context.Context, _ ListFilter) (domain.ListResult[*EMI], error) {
	return domain.ListResult[*EMI]{}, nil
}

func (m *mockRepo) GetForUpdate(ctx context.Context, emiID id.ID) (*EMI, error) {
	return m.GetByID(ctx, emiID)
}

func (m *mockRepo) AddPayment(_ context.Context, p *Payment) error {
	m.payments = append(m.payments, p)
	return nil
}

func (m *mockRepo) ListPayments(_ context.Context, emiID id.ID) ([]*Payment, error) {
	var out []*Payment
	for _, p := range m.payments {
		if p.EmiID == emiID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockRepo) ListDueBefore(_ context.Context, due time.Time) ([]*EMI, error) {
	var out []*EMI
	for _, e := range m.emis {
		if e.Status == StatusActive && e.NextDueDate.Before(due) {
			out = append(out, e)
		}
	}
	return out, nil
}

func newTestService(repo Repository) *Service {
	return NewService(repo, &numerator.MockGenerator{}, noopTxManager{})
}

func TestCreateForInvoice(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	invoiceDate := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)

	e, err := svc.CreateForInvoice(context.Background(), id.New(), "Ravi", "+919876543210",
		1_000_000, decimal.NewFromInt(12), 12, TenureMonths, invoiceDate)
	if err != nil {
		t.Fatalf("CreateForInvoice failed: %v", err)
	}

	if e.Number == "" {
		t.Error("number not generated")
	}
	if e.EMIAmount != 93_400 {
		t.Errorf("EMIAmount = %d, want 93400", e.EMIAmount)
	}
	if e.TotalPayable != 1_120_000 {
		t.Errorf("TotalPayable = %d, want 1120000", e.TotalPayable)
	}
	wantDue := invoiceDate.AddDate(0, 1, 0)
	if !e.NextDueDate.Equal(wantDue) {
		t.Errorf("NextDueDate = %v, want %v", e.NextDueDate, wantDue)
	}
	wantEnd := invoiceDate.AddDate(0, 12, 0)
	if !e.EndDate.Equal(wantEnd) {
		t.Errorf("EndDate = %v, want %v", e.EndDate, wantEnd)
	}
	if e.Status != StatusActive {
		t.Errorf("Status = %s, want active", e.Status)
	}
	if len(repo.emis) != 1 {
		t.Errorf("expected 1 persisted EMI, got %d", len(repo.emis))
	}
}

func TestRecordPayment_AdvancesDueDateAndBalance(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	invoiceDate := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	e, err := svc.CreateForInvoice(context.Background(), id.New(), "Ravi", "+919876543210",
		1_200_000, decimal.Zero, 2, TenureYears, invoiceDate)
	if err != nil {
		t.Fatalf("CreateForInvoice failed: %v", err)
	}

	updated, err := svc.RecordPayment(context.Background(), e.ID, 50_000, PayUPI, "first installment")
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}

	if updated.AmountPaid != 50_000 {
		t.Errorf("AmountPaid = %d, want 50000", updated.AmountPaid)
	}
	if updated.RemainingBalance() != 1_150_000 {
		t.Errorf("RemainingBalance = %d, want 1150000", updated.RemainingBalance())
	}
	wantDue := invoiceDate.AddDate(0, 2, 0)
	if !updated.NextDueDate.Equal(wantDue) {
		t.Errorf("NextDueDate = %v, want %v", updated.NextDueDate, wantDue)
	}
	if updated.Status != StatusActive {
		t.Errorf("Status = %s, want active", updated.Status)
	}
	if len(repo.payments) != 1 {
		t.Fatalf("expected 1 payment row, got %d", len(repo.payments))
	}
}

func TestRecordPayment_CompletesWhenFullyPaid(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	e, err := svc.CreateForInvoice(context.Background(), id.New(), "Ravi", "+919876543210",
		100_000, decimal.Zero, 2, TenureMonths, time.Now())
	if err != nil {
		t.Fatalf("CreateForInvoice failed: %v", err)
	}

	if _, err := svc.RecordPayment(context.Background(), e.ID, 50_000, PayCash, ""); err != nil {
		t.Fatalf("first payment failed: %v", err)
	}
	updated, err := svc.RecordPayment(context.Background(), e.ID, 50_000, PayCash, "")
	if err != nil {
		t.Fatalf("final payment failed: %v", err)
	}

	if updated.Status != StatusCompleted {
		t.Errorf("Status = %s, want completed", updated.Status)
	}
	if updated.RemainingBalance() != 0 {
		t.Errorf("RemainingBalance = %d, want 0", updated.RemainingBalance())
	}

	// No further payments once completed.
	if _, err := svc.RecordPayment(context.Background(), e.ID, 10_000, PayCash, ""); err == nil {
		t.Error("payment accepted on completed EMI")
	}
}

func TestRecordPayment_Invalid(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	e, err := svc.CreateForInvoice(context.Background(), id.New(), "Ravi", "+919876543210",
		100_000, decimal.Zero, 2, TenureMonths, time.Now())
	if err != nil {
		t.Fatalf("CreateForInvoice failed: %v", err)
	}

	if _, err := svc.RecordPayment(context.Background(), e.ID, 0, PayCash, ""); err == nil {
		t.Error("zero amount accepted")
	}
	if _, err := svc.RecordPayment(context.Background(), e.ID, 10_000, PaymentMode("cheque"), ""); err == nil {
		t.Error("unknown payment mode accepted")
	}
	if _, err := svc.RecordPayment(context.Background(), id.New(), 10_000, PayCash, ""); err == nil {
		t.Error("payment against missing EMI accepted")
	}
}

func TestMarkDefaulted(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	e, err := svc.CreateForInvoice(context.Background(), id.New(), "Ravi", "+919876543210",
		100_000, decimal.Zero, 2, TenureMonths, time.Now())
	if err != nil {
		t.Fatalf("CreateForInvoice failed: %v", err)
	}

	updated, err := svc.MarkDefaulted(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("MarkDefaulted failed: %v", err)
	}
	if updated.Status != StatusDefaulted {
		t.Errorf("Status = %s, want defaulted", updated.Status)
	}

	if _, err := svc.MarkDefaulted(context.Background(), e.ID); err == nil {
		t.Error("defaulting a non-active EMI accepted")
	}
}

func TestListDueBefore(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	if _, err := svc.CreateForInvoice(context.Background(), id.New(), "A", "+911111111111",
		100_000, decimal.Zero, 2, TenureMonths, base); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateForInvoice(context.Background(), id.New(), "B", "+912222222222",
		100_000, decimal.Zero, 2, TenureMonths, base.AddDate(0, 3, 0)); err != nil {
		t.Fatal(err)
	}

	due, err := svc.ListDueBefore(context.Background(), base.AddDate(0, 2, 0))
	if err != nil {
		t.Fatalf("ListDueBefore failed: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("expected 1 due EMI, got %d", len(due))
	}
	if due[0].CustomerName != "A" {
		t.Errorf("wrong EMI returned: %s", due[0].CustomerName)
	}
}
