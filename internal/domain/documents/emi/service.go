package emi

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"voltbill/internal/core/apperror"
	"voltbill/internal/core/id"
	"voltbill/internal/core/numerator"
	"voltbill/internal/core/tenant"
	"voltbill/internal/core/tx"
	"voltbill/internal/core/types"
	"voltbill/internal/domain"
	"voltbill/pkg/logger"
)

// Service provides business operations for EMI records.
// In Database-per-Tenant architecture, TxManager is obtained from context.
type Service struct {
	repo      Repository
	numerator numerator.Generator
	txManager tx.Manager // Optional. If nil, obtained from context (DB-per-tenant).
}

// NewService creates a new EMI service.
func NewService(repo Repository, numerator numerator.Generator, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		numerator: numerator,
		txManager: txManager,
	}
}

func (s *Service) getTxManager(ctx context.Context) (tx.Manager, error) {
	if s.txManager != nil {
		return s.txManager, nil
	}
	return tenant.GetTxManager(ctx)
}

// CreateForInvoice computes the schedule and persists the EMI record.
// Called from inside the invoice creation transaction, so the repository
// writes join the caller's transaction through the context.
func (s *Service) CreateForInvoice(ctx context.Context, invoiceID id.ID, customerName, customerMobile string,
	principal types.MinorUnits, rate decimal.Decimal, tenureValue int, unit TenureUnit, invoiceDate time.Time) (*EMI, error) {

	schedule, err := Calculate(principal, rate, tenureValue, unit)
	if err != nil {
		return nil, err
	}

	e := NewEMI(invoiceID, customerName, customerMobile, principal, rate, tenureValue, unit, schedule, invoiceDate)

	number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("EMI"), nil, invoiceDate)
	if err != nil {
		return nil, fmt.Errorf("generate number: %w", err)
	}
	e.Number = number

	if err := e.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create emi: %w", err)
	}

	logger.Info(ctx, "emi created", "id", e.ID, "number", e.Number, "invoice_id", invoiceID)
	return e, nil
}

// GetByID retrieves an EMI record.
func (s *Service) GetByID(ctx context.Context, emiID id.ID) (*EMI, error) {
	e, err := s.repo.GetByID(ctx, emiID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("emi", emiID.String())
		}
		return nil, err
	}
	return e, nil
}

// GetWithPayments retrieves an EMI record with its full payment history.
func (s *Service) GetWithPayments(ctx context.Context, emiID id.ID) (*EMI, []*Payment, error) {
	e, err := s.GetByID(ctx, emiID)
	if err != nil {
		return nil, nil, err
	}
	payments, err := s.repo.ListPayments(ctx, emiID)
	if err != nil {
		return nil, nil, fmt.Errorf("list payments: %w", err)
	}
	return e, payments, nil
}

// List retrieves EMI records with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*EMI], error) {
	return s.repo.List(ctx, filter)
}

// RecordPayment appends a payment, advances the next due date by one calendar
// month and bumps the paid total. The loan closes automatically when the paid
// total reaches the total payable. Runs under a row lock so concurrent
// payments against the same EMI serialize.
func (s *Service) RecordPayment(ctx context.Context, emiID id.ID, amount types.MinorUnits, mode PaymentMode, remarks string) (*EMI, error) {
	txm, err := s.getTxManager(ctx)
	if err != nil {
		return nil, apperror.NewInternal(err).WithDetail("missing", "tx_manager")
	}

	var result *EMI
	err = txm.RunInTransaction(ctx, func(ctx context.Context) error {
		e, err := s.repo.GetForUpdate(ctx, emiID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("emi", emiID.String())
			}
			return err
		}

		if e.Status == StatusCompleted {
			return apperror.NewBusinessRule("EMI_COMPLETED", "EMI is already fully paid").
				WithDetail("emi_id", emiID.String())
		}

		p := NewPayment(emiID, amount, mode, remarks)
		if err := p.Validate(ctx); err != nil {
			return err
		}
		if err := s.repo.AddPayment(ctx, p); err != nil {
			return fmt.Errorf("add payment: %w", err)
		}

		e.ApplyPayment(amount)
		if err := s.repo.Update(ctx, e); err != nil {
			return fmt.Errorf("update emi: %w", err)
		}

		result = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "emi payment recorded", "emi_id", emiID, "amount", amount, "status", result.Status)
	return result, nil
}

// MarkDefaulted is an operator decision, not an automatic transition.
func (s *Service) MarkDefaulted(ctx context.Context, emiID id.ID) (*EMI, error) {
	txm, err := s.getTxManager(ctx)
	if err != nil {
		return nil, apperror.NewInternal(err).WithDetail("missing", "tx_manager")
	}

	var result *EMI
	err = txm.RunInTransaction(ctx, func(ctx context.Context) error {
		e, err := s.repo.GetForUpdate(ctx, emiID)
		if err != nil {
			return err
		}
		if e.Status != StatusActive {
			return apperror.NewBusinessRule("EMI_NOT_ACTIVE", "only active EMIs can be marked defaulted").
				WithDetail("emi_id", emiID.String()).
				WithDetail("status", string(e.Status))
		}
		e.Status = StatusDefaulted
		if err := s.repo.Update(ctx, e); err != nil {
			return fmt.Errorf("update emi: %w", err)
		}
		result = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListDueBefore returns active EMIs due before the given date.
func (s *Service) ListDueBefore(ctx context.Context, due time.Time) ([]*EMI, error) {
	return s.repo.ListDueBefore(ctx, due)
}
