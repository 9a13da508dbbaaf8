package invoice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"voltbill/internal/core/apperror"
	usercontext "voltbill/internal/core/context"
	"voltbill/internal/core/id"
	"voltbill/internal/core/numerator"
	"voltbill/internal/core/security"
	"voltbill/internal/core/types"
	"voltbill/internal/domain"
	"voltbill/internal/domain/catalogs/discount"
	"voltbill/internal/domain/catalogs/product"
	"voltbill/internal/domain/documents/emi"
	"voltbill/internal/domain/registers/stock"
)

type noopTxManager struct{}

func (noopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockProducts struct {
	items map[id.ID]*product.Product
}

func (m *mockProducts) GetByIDs(_ context.Context, ids []id.ID) (map[id.ID]*product.Product, error) {
	out := make(map[id.ID]*product.Product)
	for _, pid := range ids {
		if p, ok := m.items[pid]; ok {
			out[pid] = p
		}
	}
	return out, nil
}

// mockDiscounts applies the rule set through a real resolver.
type mockDiscounts struct {
	rules    []*discount.Discount
	resolver *discount.Resolver
}

func (m *mockDiscounts) ResolveForLines(_ context.Context, lines []discount.Line, now time.Time) ([]discount.Applied, error) {
	return m.resolver.Resolve(m.rules, lines, now), nil
}

type mockStock struct {
	balances map[id.ID]types.Quantity
	deducted int
	reversed int
}

func (m *mockStock) Deduct(_ context.Context, _ stock.Recorder, items []stock.Deduction) error {
	for _, item := range items {
		available := m.balances[item.ProductID]
		if available < item.Quantity {
			return apperror.NewInsufficientStock(item.ProductID.String(), item.ProductName,
				item.Quantity.Int64Scaled(), available.Int64Scaled())
		}
		m.balances[item.ProductID] = available - item.Quantity
	}
	m.deducted++
	return nil
}

func (m *mockStock) ReverseByRecorder(_ context.Context, _ id.ID, _ int) error {
	m.reversed++
	return nil
}

type mockCustomers struct {
	calls   int
	mobiles map[string]bool
}

func (m *mockCustomers) RegisterIfAbsent(_ context.Context, _, mobile, _ string) (bool, error) {
	m.calls++
	if m.mobiles == nil {
		m.mobiles = make(map[string]bool)
	}
	if m.mobiles[mobile] {
		return false, nil
	}
	m.mobiles[mobile] = true
	return true, nil
}

type mockEMI struct {
	created *emi.EMI
}

func (m *mockEMI) CreateForInvoice(_ context.Context, invoiceID id.ID, name, mobile string,
	principal types.MinorUnits, rate decimal.Decimal, tenureValue int, unit emi.TenureUnit,
	invoiceDate time.Time) (*emi.EMI, error) {

	schedule, err := emi.Calculate(principal, rate, tenureValue, unit)
	if err != nil {
		return nil, err
	}
	m.created = emi.NewEMI(invoiceID, name, mobile, principal, rate, tenureValue, unit, schedule, invoiceDate)
	return m.created, nil
}

type mockRepo struct {
	invoices map[id.ID]*Invoice
	lines    map[id.ID][]Line
}

func newMockRepo() *mockRepo {
	return &mockRepo{invoices: make(map[id.ID]*Invoice), lines: make(map[id.ID][]Line)}
}

func (m *mockRepo) Create(_ context.Context, doc *Invoice) error {
	m.invoices[doc.ID] = doc
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, docID id.ID) (*Invoice, error) {
	doc, ok := m.invoices[docID]
	if !ok {
		return nil, apperror.NewNotFound("invoice", docID.String())
	}
	return doc, nil
}

func (m *mockRepo) GetByNumber(_ context.Context, number string) (*Invoice, error) {
	for _, doc := range m.invoices {
		if doc.Number == number {
			return doc, nil
		}
	}
	return nil, apperror.NewNotFound("invoice", number)
}

func (m *mockRepo) Update(_ context.Context, doc *Invoice) error {
	m.invoices[doc.ID] = doc
	return nil
}

func (m *mockRepo) Delete(_ context.Context, docID id.ID) error {
	delete(m.invoices, docID)
	delete(m.lines, docID)
	return nil
}

func (m *mockRepo) GetLines(_ context.Context, docID id.ID) ([]Line, error) {
	return m.lines[docID], nil
}

func (m *mockRepo) SaveLines(_ context.Context, docID id.ID, lines []Line) error {
	m.lines[docID] = lines
	return nil
}

func (m *mockRepo) List(_ context.Context, _ ListFilter) (domain.ListResult[*Invoice], error) {
	return domain.ListResult[*Invoice]{}, nil
}

func (m *mockRepo) GetForUpdate(ctx context.Context, docID id.ID) (*Invoice, error) {
	return m.GetByID(ctx, docID)
}

// --- fixtures ---

type fixture struct {
	svc       *Service
	repo      *mockRepo
	stock     *mockStock
	customers *mockCustomers
	emi       *mockEMI
	products  *mockProducts
	discounts *mockDiscounts
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	resolver, err := discount.NewResolver()
	if err != nil {
		t.Fatal(err)
	}

	f := &fixture{
		repo:      newMockRepo(),
		stock:     &mockStock{balances: make(map[id.ID]types.Quantity)},
		customers: &mockCustomers{},
		emi:       &mockEMI{},
		products:  &mockProducts{items: make(map[id.ID]*product.Product)},
		discounts: &mockDiscounts{resolver: resolver},
	}
	f.svc = NewService(f.repo, f.products, f.discounts, f.stock, f.customers, f.emi,
		&numerator.MockGenerator{}, security.OpenPolicy{}, noopTxManager{})
	return f
}

// addProduct registers a product with given selling price (paise), GST percent
// and stock quantity.
func (f *fixture) addProduct(name string, price types.MinorUnits, gst int64, stockQty float64) *product.Product {
	p := product.NewProduct("P-"+name, name, product.TypeElectrical)
	p.Category = "fans"
	p.SellingPrice = price
	p.GSTPercent = decimal.NewFromInt(gst)
	p.IsActive = true
	f.products.items[p.ID] = p
	f.stock.balances[p.ID] = types.NewQuantityFromFloat64(stockQty)
	return p
}

func authedCtx() context.Context {
	return usercontext.WithUser(context.Background(), &usercontext.UserContext{
		UserID:   id.New().String(),
		TenantID: "shop1",
		Name:     "Asha",
	})
}

func qty(n float64) types.Quantity { return types.NewQuantityFromFloat64(n) }

func TestCreate_ComputesTotalsServerSide(t *testing.T) {
	f := newFixture(t)
	// 1000.00 rupees, 18% GST
	p := f.addProduct("Ceiling Fan", 100_000, 18, 10)

	res, err := f.svc.Create(authedCtx(), CreateRequest{
		Customer: CustomerInput{Name: "Ravi", Mobile: "+919876543210"},
		Items:    []CartItem{{ProductID: p.ID, Quantity: qty(2)}},
		// Client arithmetic matches the recomputation.
		SubTotal:    200_000,
		TotalGST:    36_000,
		Discount:    0,
		GrandTotal:  236_000,
		PaymentType: PaymentCash,
		Breakdown:   PaymentBreakdown{Cash: 236_000},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	inv := res.Invoice
	if inv.SubTotal != 200_000 || inv.TotalGST != 36_000 || inv.GrandTotal != 236_000 {
		t.Errorf("totals = %d/%d/%d, want 200000/36000/236000", inv.SubTotal, inv.TotalGST, inv.GrandTotal)
	}
	if inv.GrandTotal != inv.SubTotal+inv.TotalGST-inv.Discount {
		t.Error("grand total invariant violated")
	}
	if inv.PaymentStatus != StatusPaid {
		t.Errorf("status = %s, want paid", inv.PaymentStatus)
	}
	if !inv.Posted {
		t.Error("invoice not posted")
	}
	if inv.BilledByName != "Asha" {
		t.Errorf("billed by = %q", inv.BilledByName)
	}
	if got := f.stock.balances[p.ID]; got != qty(8) {
		t.Errorf("stock after sale = %s, want 8", got)
	}
	if f.customers.calls != 1 {
		t.Errorf("customer registrations = %d, want 1", f.customers.calls)
	}
	if res.EMI != nil {
		t.Error("EMI created for a cash sale")
	}
}

func TestCreate_RejectsTotalMismatch(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct("Ceiling Fan", 100_000, 18, 10)

	_, err := f.svc.Create(authedCtx(), CreateRequest{
		Customer:    CustomerInput{Mobile: "+919876543210"},
		Items:       []CartItem{{ProductID: p.ID, Quantity: qty(1)}},
		SubTotal:    100_000,
		TotalGST:    18_000,
		GrandTotal:  100_000, // client claims less than computed 118000
		PaymentType: PaymentCash,
	})
	if err == nil {
		t.Fatal("mismatched grand total accepted")
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperror.CodeTotalMismatch {
		t.Errorf("unexpected error: %v", err)
	}
	if f.stock.deducted != 0 {
		t.Error("stock touched despite rejected totals")
	}
	if len(f.repo.invoices) != 0 {
		t.Error("invoice persisted despite rejected totals")
	}
}

func TestCreate_InsufficientStockAbortsWholeSale(t *testing.T) {
	f := newFixture(t)
	ok := f.addProduct("Bulb", 10_000, 0, 10)
	short := f.addProduct("Ceiling Fan", 100_000, 0, 1)

	_, err := f.svc.Create(authedCtx(), CreateRequest{
		Customer: CustomerInput{Mobile: "+919876543210"},
		Items: []CartItem{
			{ProductID: ok.ID, Quantity: qty(2)},
			{ProductID: short.ID, Quantity: qty(2)},
		},
		SubTotal:    220_000,
		GrandTotal:  220_000,
		PaymentType: PaymentCash,
	})
	if err == nil {
		t.Fatal("sale with insufficient stock accepted")
	}

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperror.CodeInsufficientStock {
		t.Fatalf("unexpected error: %v", err)
	}
	if appErr.Details["product"] != "Ceiling Fan" {
		t.Errorf("error does not name the product: %v", appErr.Details)
	}
	if f.customers.calls != 0 {
		t.Error("customer registered despite aborted sale")
	}
}

// scopedTxManager flags the span of the transaction closure.
type scopedTxManager struct {
	inTx *bool
}

func (m scopedTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	*m.inTx = true
	defer func() { *m.inTx = false }()
	return fn(ctx)
}

// scopedGenerator records whether numbering ran inside that span.
type scopedGenerator struct {
	inTx       *bool
	calledInTx bool
}

func (g *scopedGenerator) GetNextNumber(_ context.Context, _ numerator.Config, _ *numerator.Options, _ time.Time) (string, error) {
	g.calledInTx = *g.inTx
	return "INV-000001-1", nil
}

func (g *scopedGenerator) SetNextNumber(context.Context, numerator.Config, time.Time, int64) error {
	return nil
}

func TestCreate_NumbersInsideTransaction(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct("Bulb", 10_000, 0, 5)

	var inTx bool
	gen := &scopedGenerator{inTx: &inTx}
	f.svc = NewService(f.repo, f.products, f.discounts, f.stock, f.customers, f.emi,
		gen, security.OpenPolicy{}, scopedTxManager{inTx: &inTx})

	res, err := f.svc.Create(authedCtx(), CreateRequest{
		Customer:    CustomerInput{Mobile: "+919876543210"},
		Items:       []CartItem{{ProductID: p.ID, Quantity: qty(1)}},
		SubTotal:    10_000,
		GrandTotal:  10_000,
		PaymentType: PaymentCash,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !gen.calledInTx {
		t.Error("invoice number generated outside the transaction")
	}
	if res.Invoice.Number != "INV-000001-1" {
		t.Errorf("number = %q", res.Invoice.Number)
	}
}

func TestCreate_ExactStockSellsToZero(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct("Bulb", 10_000, 0, 3)

	_, err := f.svc.Create(authedCtx(), CreateRequest{
		Customer:    CustomerInput{Mobile: "+919876543210"},
		Items:       []CartItem{{ProductID: p.ID, Quantity: qty(3)}},
		SubTotal:    30_000,
		GrandTotal:  30_000,
		PaymentType: PaymentUPI,
		Breakdown:   PaymentBreakdown{UPI: 30_000},
	})
	if err != nil {
		t.Fatalf("exact-stock sale failed: %v", err)
	}
	if got := f.stock.balances[p.ID]; !got.IsZero() {
		t.Errorf("stock = %s, want 0", got)
	}
}

func TestCreate_EMISale(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct("Refrigerator", 1_000_000, 0, 5) // 10000.00

	res, err := f.svc.Create(authedCtx(), CreateRequest{
		Customer:    CustomerInput{Name: "Ravi", Mobile: "+919876543210"},
		Items:       []CartItem{{ProductID: p.ID, Quantity: qty(1)}},
		SubTotal:    1_000_000,
		GrandTotal:  1_000_000,
		PaymentType: PaymentEMI,
		EMIDetails: &EMIInput{
			InterestRate: decimal.NewFromInt(12),
			TenureValue:  12,
			TenureUnit:   emi.TenureMonths,
		},
	})
	if err != nil {
		t.Fatalf("EMI sale failed: %v", err)
	}

	if res.EMI == nil {
		t.Fatal("no EMI created")
	}
	if res.Invoice.PaymentStatus != StatusPartial {
		t.Errorf("status = %s, want partial", res.Invoice.PaymentStatus)
	}
	if res.EMI.Principal != 1_000_000 {
		t.Errorf("principal = %d, want grand total for pure EMI sale", res.EMI.Principal)
	}
	if res.EMI.EMIAmount != 93_400 {
		t.Errorf("installment = %d, want 93400", res.EMI.EMIAmount)
	}
	if res.EMI.InvoiceID != res.Invoice.ID {
		t.Error("EMI not linked to invoice")
	}
}

func TestCreate_MixedSaleFinancesEMISlice(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct("Refrigerator", 1_000_000, 0, 5)

	res, err := f.svc.Create(authedCtx(), CreateRequest{
		Customer:    CustomerInput{Name: "Ravi", Mobile: "+919876543210"},
		Items:       []CartItem{{ProductID: p.ID, Quantity: qty(1)}},
		SubTotal:    1_000_000,
		GrandTotal:  1_000_000,
		PaymentType: PaymentMixed,
		Breakdown:   PaymentBreakdown{Cash: 400_000, EMI: 600_000},
		EMIDetails: &EMIInput{
			InterestRate: decimal.NewFromInt(10),
			TenureValue:  1,
			TenureUnit:   emi.TenureYears,
		},
	})
	if err != nil {
		t.Fatalf("mixed sale failed: %v", err)
	}
	if res.EMI == nil {
		t.Fatal("no EMI created")
	}
	if res.EMI.Principal != 600_000 {
		t.Errorf("principal = %d, want EMI slice 600000", res.EMI.Principal)
	}
	if res.Invoice.PaymentStatus != StatusPartial {
		t.Errorf("status = %s, want partial", res.Invoice.PaymentStatus)
	}
}

func TestCreate_DiscountApplied(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct("Ceiling Fan", 100_000, 0, 10)
	f.discounts.rules = []*discount.Discount{
		discount.NewDiscount("D1", "Diwali Sale", discount.TypeFestival,
			discount.MechanismPercentage, decimal.NewFromInt(10)),
	}

	res, err := f.svc.Create(authedCtx(), CreateRequest{
		Customer:    CustomerInput{Mobile: "+919876543210"},
		Items:       []CartItem{{ProductID: p.ID, Quantity: qty(1)}},
		SubTotal:    100_000,
		Discount:    10_000,
		GrandTotal:  90_000,
		PaymentType: PaymentCash,
	})
	if err != nil {
		t.Fatalf("discounted sale failed: %v", err)
	}

	line := res.Invoice.Lines[0]
	if line.DiscountAmount != 10_000 {
		t.Errorf("line discount = %d, want 10000", line.DiscountAmount)
	}
	if line.AppliedDiscountType != string(discount.TypeFestival) {
		t.Errorf("applied type = %q, want festival", line.AppliedDiscountType)
	}
	if res.Invoice.GrandTotal != 90_000 {
		t.Errorf("grand total = %d, want 90000", res.Invoice.GrandTotal)
	}
}

func TestCreate_EmptyCartRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(authedCtx(), CreateRequest{
		Customer:    CustomerInput{Mobile: "+919876543210"},
		PaymentType: PaymentCash,
	})
	if err == nil {
		t.Fatal("empty cart accepted")
	}
}

func TestCreate_RequiresAuthenticatedUser(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct("Bulb", 10_000, 0, 10)

	_, err := f.svc.Create(context.Background(), CreateRequest{
		Items:       []CartItem{{ProductID: p.ID, Quantity: qty(1)}},
		SubTotal:    10_000,
		GrandTotal:  10_000,
		PaymentType: PaymentCash,
	})
	if err == nil {
		t.Fatal("unauthenticated sale accepted")
	}
}

func TestCreate_SkipsCustomerWithoutMobile(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct("Bulb", 10_000, 0, 10)

	_, err := f.svc.Create(authedCtx(), CreateRequest{
		Customer:    CustomerInput{Name: "Walk-in"},
		Items:       []CartItem{{ProductID: p.ID, Quantity: qty(1)}},
		SubTotal:    10_000,
		GrandTotal:  10_000,
		PaymentType: PaymentCash,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if f.customers.calls != 0 {
		t.Errorf("customer registered without a mobile number")
	}
}

func TestUnpost_ReversesStock(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct("Bulb", 10_000, 0, 10)

	res, err := f.svc.Create(authedCtx(), CreateRequest{
		Customer:    CustomerInput{Mobile: "+919876543210"},
		Items:       []CartItem{{ProductID: p.ID, Quantity: qty(2)}},
		SubTotal:    20_000,
		GrandTotal:  20_000,
		PaymentType: PaymentCash,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := f.svc.Unpost(authedCtx(), res.Invoice.ID); err != nil {
		t.Fatalf("Unpost failed: %v", err)
	}
	if f.stock.reversed != 1 {
		t.Errorf("stock reversals = %d, want 1", f.stock.reversed)
	}
	stored := f.repo.invoices[res.Invoice.ID]
	if stored.Posted {
		t.Error("invoice still posted")
	}
}
