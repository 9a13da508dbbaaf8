// Package emi provides installment loan bookkeeping: the flat-rate schedule
// calculator, the EMI aggregate created alongside an invoice, and the
// append-only payment ledger.
package emi

import (
	"github.com/shopspring/decimal"

	"voltbill/internal/core/apperror"
	"voltbill/internal/core/types"
)

// TenureUnit is the unit of the loan tenure.
type TenureUnit string

const (
	TenureMonths TenureUnit = "months"
	TenureYears  TenureUnit = "years"
)

// Schedule is the computed installment plan.
type Schedule struct {
	// EMIAmount is the monthly installment, rounded up to the whole rupee
	// so the lender never under-recovers
	EMIAmount types.MinorUnits `json:"emiAmount"`

	// TotalPayable is principal plus flat interest
	TotalPayable types.MinorUnits `json:"totalPayable"`

	// InterestAmount is the flat (non-amortized) interest over the full tenure
	InterestAmount types.MinorUnits `json:"interestAmount"`

	// TotalMonths is the tenure normalized to months
	TotalMonths int `json:"totalMonths"`
}

// Calculate converts a principal, flat annual rate and tenure into a monthly
// installment plan. Interest is simple flat interest over the whole tenure,
// not reducing-balance: interest = principal x rate x years / 100.
func Calculate(principal types.MinorUnits, annualRate decimal.Decimal, tenureValue int, unit TenureUnit) (Schedule, error) {
	if !principal.IsPositive() {
		return Schedule{}, apperror.NewValidation("principal must be positive").
			WithDetail("field", "principal")
	}
	if annualRate.IsNegative() {
		return Schedule{}, apperror.NewValidation("interest rate cannot be negative").
			WithDetail("field", "interestRate")
	}
	if tenureValue <= 0 {
		return Schedule{}, apperror.NewValidation("tenure must be positive").
			WithDetail("field", "tenureValue")
	}

	var years decimal.Decimal
	var totalMonths int
	switch unit {
	case TenureYears:
		years = decimal.NewFromInt(int64(tenureValue))
		totalMonths = tenureValue * 12
	case TenureMonths:
		years = decimal.NewFromInt(int64(tenureValue)).Div(decimal.NewFromInt(12))
		totalMonths = tenureValue
	default:
		return Schedule{}, apperror.NewValidation("tenure unit must be months or years").
			WithDetail("field", "tenureType").
			WithDetail("value", string(unit))
	}

	p := decimal.NewFromInt(int64(principal))
	interest := p.Mul(annualRate).Mul(years).Div(decimal.NewFromInt(100)).Round(0)
	totalPayable := p.Add(interest)

	// Installments are whole-rupee amounts: ceil(totalPayable / totalMonths)
	// in rupees, converted back to paise.
	installmentRupees := totalPayable.
		Div(decimal.NewFromInt(int64(totalMonths) * 100)).
		Ceil()

	return Schedule{
		EMIAmount:      types.MinorUnits(installmentRupees.Mul(decimal.NewFromInt(100)).IntPart()),
		TotalPayable:   types.MinorUnits(totalPayable.IntPart()),
		InterestAmount: types.MinorUnits(interest.IntPart()),
		TotalMonths:    totalMonths,
	}, nil
}
