package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"voltbill/internal/core/apperror"
	usercontext "voltbill/internal/core/context"
	"voltbill/internal/core/id"
	"voltbill/internal/core/numerator"
	"voltbill/internal/core/security"
	"voltbill/internal/core/tenant"
	"voltbill/internal/core/tx"
	"voltbill/internal/core/types"
	"voltbill/internal/domain"
	"voltbill/internal/domain/catalogs/discount"
	"voltbill/internal/domain/catalogs/product"
	"voltbill/internal/domain/documents/emi"
	"voltbill/internal/domain/registers/stock"
	"voltbill/pkg/logger"
)

// totalTolerance is the largest accepted divergence, per line, between
// client-supplied totals and the server-side recomputation. Each line can
// legitimately differ by a paisa of rounding.
const totalTolerance types.MinorUnits = 1

// ProductReader loads product records for the pipeline.
type ProductReader interface {
	GetByIDs(ctx context.Context, ids []id.ID) (map[id.ID]*product.Product, error)
}

// DiscountResolver attaches the best applicable discount to each line.
type DiscountResolver interface {
	ResolveForLines(ctx context.Context, lines []discount.Line, now time.Time) ([]discount.Applied, error)
}

// StockKeeper performs register writes for the pipeline.
type StockKeeper interface {
	Deduct(ctx context.Context, rec stock.Recorder, items []stock.Deduction) error
	ReverseByRecorder(ctx context.Context, recorderID id.ID, beforeVersion int) error
}

// CustomerRegistrar lazily creates customer records on first purchase.
type CustomerRegistrar interface {
	RegisterIfAbsent(ctx context.Context, name, mobile, address string) (bool, error)
}

// EMICreator persists the installment loan for financed sales.
type EMICreator interface {
	CreateForInvoice(ctx context.Context, invoiceID id.ID, customerName, customerMobile string,
		principal types.MinorUnits, rate decimal.Decimal, tenureValue int, unit emi.TenureUnit,
		invoiceDate time.Time) (*emi.EMI, error)
}

// CartItem is what the client is trusted with: a product and a quantity.
// Prices, discounts and totals are recomputed from catalog records.
type CartItem struct {
	ProductID id.ID          `json:"productId"`
	Quantity  types.Quantity `json:"quantity"`
}

// CustomerInput is the buyer as given at the counter.
type CustomerInput struct {
	Name    string `json:"name"`
	Mobile  string `json:"mobile"`
	Address string `json:"address"`
}

// EMIInput is the financing configuration for an EMI or mixed sale.
type EMIInput struct {
	InterestRate decimal.Decimal `json:"interestRate"`
	TenureValue  int             `json:"tenureValue"`
	TenureUnit   emi.TenureUnit  `json:"tenureType"`
}

// CreateRequest is one submitted sale. The client-supplied totals are checked
// against the server-side recomputation, not trusted.
type CreateRequest struct {
	Customer CustomerInput
	Items    []CartItem

	SubTotal   types.MinorUnits
	TotalGST   types.MinorUnits
	Discount   types.MinorUnits
	GrandTotal types.MinorUnits

	PaymentType PaymentType
	Breakdown   PaymentBreakdown
	EMIDetails  *EMIInput

	Comment string
}

// CreateResult is the pipeline output: the persisted invoice and, for
// financed sales, the created EMI.
type CreateResult struct {
	Invoice *Invoice `json:"invoice"`
	EMI     *emi.EMI `json:"emi,omitempty"`
}

// Service runs the sale pipeline and serves invoice reads.
// In Database-per-Tenant architecture, TxManager is obtained from context.
type Service struct {
	repo      Repository
	products  ProductReader
	discounts DiscountResolver
	stock     StockKeeper
	customers CustomerRegistrar
	emi       EMICreator
	numerator numerator.Generator
	policy    security.PostingPolicy
	txManager tx.Manager // Optional. If nil, obtained from context (DB-per-tenant).
}

// NewService creates a new invoice service.
func NewService(
	repo Repository,
	products ProductReader,
	discounts DiscountResolver,
	stockKeeper StockKeeper,
	customers CustomerRegistrar,
	emiCreator EMICreator,
	numerator numerator.Generator,
	policy security.PostingPolicy,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		discounts: discounts,
		stock:     stockKeeper,
		customers: customers,
		emi:       emiCreator,
		numerator: numerator,
		policy:    policy,
		txManager: txManager,
	}
}

func (s *Service) getTxManager(ctx context.Context) (tx.Manager, error) {
	if s.txManager != nil {
		return s.txManager, nil
	}
	return tenant.GetTxManager(ctx)
}

// numberConfig gives invoice numbers a time segment: INV-483920-00001.
func numberConfig() numerator.Config {
	return numerator.Config{
		Prefix:           "INV",
		IncludeTimestamp: true,
		PadWidth:         5,
		ResetPeriod:      "year",
	}
}

// Create turns a submitted cart into a posted invoice. Every step runs in one
// transaction: line pricing from catalog records, totals verification, the
// conditional stock decrements, customer registration and EMI creation either
// all land or all revert.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	user := usercontext.GetUserContext(ctx)
	if user == nil {
		return nil, apperror.NewUnauthorized("no authenticated user")
	}

	if len(req.Items) == 0 {
		return nil, apperror.NewValidation("cart is empty").
			WithDetail("field", "items")
	}
	for i, item := range req.Items {
		if !item.Quantity.IsPositive() {
			return nil, apperror.NewValidation("item quantity must be positive").
				WithDetail("field", "items").
				WithDetail("line", i+1)
		}
	}

	inv := NewInvoice()
	inv.CustomerName = req.Customer.Name
	inv.CustomerMobile = req.Customer.Mobile
	inv.CustomerAddr = req.Customer.Address
	inv.PaymentType = req.PaymentType
	inv.PaymentBreakdown = req.Breakdown
	inv.Comment = req.Comment
	inv.BilledByID = user.UserID
	inv.BilledByName = user.Name

	if err := s.buildLines(ctx, inv, req.Items); err != nil {
		return nil, err
	}
	inv.RecalculateTotals()

	if err := s.verifyTotals(inv, req); err != nil {
		return nil, err
	}

	if inv.IsFinanced() {
		inv.PaymentStatus = StatusPartial
	} else {
		inv.PaymentStatus = StatusPaid
	}

	if err := inv.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.policy.CanPost(ctx, inv.Date); err != nil {
		return nil, err
	}

	txm, err := s.getTxManager(ctx)
	if err != nil {
		return nil, apperror.NewInternal(err).WithDetail("missing", "tx_manager")
	}

	result := &CreateResult{}
	err = txm.RunInTransaction(ctx, func(ctx context.Context) error {
		// Numbering happens inside the transaction so a failed pipeline
		// does not burn a sequence value.
		number, err := s.numerator.GetNextNumber(ctx, numberConfig(), nil, inv.Date)
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		inv.Number = number

		inv.MarkPosted()

		if err := s.repo.Create(ctx, inv); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		if err := s.repo.SaveLines(ctx, inv.ID, inv.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}

		deductions := make([]stock.Deduction, 0, len(inv.Lines))
		for _, line := range inv.Lines {
			deductions = append(deductions, stock.Deduction{
				ProductID:   line.ProductID,
				ProductName: line.ProductName,
				Quantity:    line.Quantity,
			})
		}
		rec := stock.Recorder{
			ID:      inv.ID,
			Type:    "Invoice",
			Version: inv.PostedVersion,
			Period:  inv.Date,
		}
		if err := s.stock.Deduct(ctx, rec, deductions); err != nil {
			return err
		}

		if req.Customer.Mobile != "" {
			if _, err := s.customers.RegisterIfAbsent(ctx, req.Customer.Name, req.Customer.Mobile, req.Customer.Address); err != nil {
				return fmt.Errorf("register customer: %w", err)
			}
		}

		if inv.IsFinanced() && req.EMIDetails != nil {
			created, err := s.emi.CreateForInvoice(ctx, inv.ID, inv.CustomerName, inv.CustomerMobile,
				inv.FinancedAmount(), req.EMIDetails.InterestRate,
				req.EMIDetails.TenureValue, req.EMIDetails.TenureUnit, inv.Date)
			if err != nil {
				return err
			}
			result.EMI = created
		}

		result.Invoice = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "invoice created",
		"id", inv.ID,
		"number", inv.Number,
		"grand_total", inv.GrandTotal,
		"billed_by", inv.BilledByID,
	)

	return result, nil
}

// buildLines prices the cart from catalog records and attaches discounts.
func (s *Service) buildLines(ctx context.Context, inv *Invoice, items []CartItem) error {
	ids := make([]id.ID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}

	resolverLines := make([]discount.Line, 0, len(items))
	for i, item := range items {
		p, ok := products[item.ProductID]
		if !ok {
			return apperror.NewNotFound("product", item.ProductID.String()).
				WithDetail("line", i+1)
		}
		if !p.IsActive || p.DeletionMark {
			return apperror.NewValidation("product is not available for sale").
				WithDetail("product", p.Name).
				WithDetail("line", i+1)
		}
		resolverLines = append(resolverLines, discount.Line{
			ProductID: p.ID,
			Category:  p.Category,
			UnitPrice: p.EffectivePrice(),
			Quantity:  item.Quantity,
		})
	}

	resolved, err := s.discounts.ResolveForLines(ctx, resolverLines, inv.Date)
	if err != nil {
		return err
	}

	for i, r := range resolved {
		p := products[r.ProductID]

		line := Line{
			LineID:         id.New(),
			LineNo:         i + 1,
			ProductID:      p.ID,
			ProductName:    p.Name,
			Unit:           p.Unit,
			Quantity:       r.Quantity,
			UnitPrice:      r.UnitPrice,
			DiscountAmount: r.DiscountAmount,
			FinalPrice:     r.FinalPrice,
			GSTPercent:     p.GSTPercent,

			WarrantyMonths:  p.WarrantyMonths,
			GuaranteeMonths: p.GuaranteeMonths,
		}
		if p.Model != nil {
			line.Model = *p.Model
		}
		if p.HSNCode != nil {
			line.HSNCode = *p.HSNCode
		}
		if r.AppliedType != nil {
			line.AppliedDiscountType = string(*r.AppliedType)
		}

		base := line.BaseAmount()
		gst := decimal.NewFromInt(int64(base)).
			Mul(p.GSTPercent).
			Div(decimal.NewFromInt(100)).
			Round(0)
		line.GSTAmount = types.MinorUnits(gst.IntPart())
		line.Total = base + line.GSTAmount

		inv.Lines = append(inv.Lines, line)
	}

	return nil
}

// verifyTotals rejects client arithmetic that diverges from the recomputation
// beyond rounding tolerance.
func (s *Service) verifyTotals(inv *Invoice, req CreateRequest) error {
	tolerance := totalTolerance * types.MinorUnits(len(inv.Lines))

	checks := []struct {
		field    string
		supplied types.MinorUnits
		computed types.MinorUnits
	}{
		{"subTotal", req.SubTotal, inv.SubTotal},
		{"totalGst", req.TotalGST, inv.TotalGST},
		{"discount", req.Discount, inv.Discount},
		{"grandTotal", req.GrandTotal, inv.GrandTotal},
	}
	for _, c := range checks {
		if (c.supplied - c.computed).Abs() > tolerance {
			return apperror.NewTotalMismatch(c.field,
				fmt.Sprintf("%d", c.supplied),
				fmt.Sprintf("%d", c.computed))
		}
	}

	if total := req.Breakdown.Total(); total != 0 && (total-inv.GrandTotal).Abs() > tolerance {
		return apperror.NewTotalMismatch("paymentBreakdown",
			fmt.Sprintf("%d", total),
			fmt.Sprintf("%d", inv.GrandTotal))
	}

	return nil
}

// GetByID retrieves an invoice with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Invoice, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("invoice", docID.String())
		}
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// GetByNumber retrieves an invoice by its number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*Invoice, error) {
	doc, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("invoice", number)
		}
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// List retrieves invoices, newest first by default.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error) {
	if filter.OrderBy == "" {
		filter.OrderBy = "-date"
	}
	return s.repo.List(ctx, filter)
}

// Unpost reverses the invoice's stock movements. The record itself stays for
// the audit trail; a corrected sale is rung up as a new invoice.
func (s *Service) Unpost(ctx context.Context, docID id.ID) error {
	txm, err := s.getTxManager(ctx)
	if err != nil {
		return apperror.NewInternal(err).WithDetail("missing", "tx_manager")
	}

	err = txm.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("invoice", docID.String())
			}
			return err
		}
		if !doc.Posted {
			return nil
		}
		if err := s.policy.CanUnpost(ctx, doc.Date); err != nil {
			return err
		}

		if err := s.stock.ReverseByRecorder(ctx, doc.ID, doc.PostedVersion+1); err != nil {
			return err
		}

		doc.MarkUnposted()
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "invoice unposted", "id", docID)
	return nil
}

// Delete removes an unposted invoice. Posted invoices must be unposted first.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	txm, err := s.getTxManager(ctx)
	if err != nil {
		return apperror.NewInternal(err).WithDetail("missing", "tx_manager")
	}

	return txm.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("invoice", docID.String())
			}
			return err
		}
		if err := doc.CanModify(); err != nil {
			return err
		}
		if err := s.policy.CanModify(ctx, doc.Date); err != nil {
			return err
		}
		return s.repo.Delete(ctx, docID)
	})
}
