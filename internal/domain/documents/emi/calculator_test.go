package emi

import (
	"testing"

	"github.com/shopspring/decimal"

	"voltbill/internal/core/types"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name        string
		principal   types.MinorUnits // paise
		rate        string
		tenureValue int
		unit        TenureUnit
		want        Schedule
	}{
		{
			name:        "twelve months flat",
			principal:   1_000_000, // 10000.00
			rate:        "12",
			tenureValue: 12,
			unit:        TenureMonths,
			want: Schedule{
				EMIAmount:      93_400, // ceil(11200/12) = 934 rupees
				TotalPayable:   1_120_000,
				InterestAmount: 120_000,
				TotalMonths:    12,
			},
		},
		{
			name:        "two years flat",
			principal:   1_000_000,
			rate:        "10",
			tenureValue: 2,
			unit:        TenureYears,
			want: Schedule{
				EMIAmount:      50_000, // 12000/24 = 500 rupees even
				TotalPayable:   1_200_000,
				InterestAmount: 200_000,
				TotalMonths:    24,
			},
		},
		{
			name:        "zero interest",
			principal:   120_000,
			rate:        "0",
			tenureValue: 6,
			unit:        TenureMonths,
			want: Schedule{
				EMIAmount:      20_000,
				TotalPayable:   120_000,
				InterestAmount: 0,
				TotalMonths:    6,
			},
		},
		{
			name:        "installment rounds up",
			principal:   100_000, // 1000.00, no interest, 3 months
			rate:        "0",
			tenureValue: 3,
			unit:        TenureMonths,
			want: Schedule{
				EMIAmount:      33_400, // ceil(1000/3) = 334 rupees
				TotalPayable:   100_000,
				InterestAmount: 0,
				TotalMonths:    3,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, err := decimal.NewFromString(tt.rate)
			if err != nil {
				t.Fatalf("bad rate: %v", err)
			}
			got, err := Calculate(tt.principal, rate, tt.tenureValue, tt.unit)
			if err != nil {
				t.Fatalf("Calculate failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Calculate mismatch\nwant: %+v\ngot:  %+v", tt.want, got)
			}
		})
	}
}

func TestCalculate_Invalid(t *testing.T) {
	rate := decimal.NewFromInt(10)

	if _, err := Calculate(0, rate, 12, TenureMonths); err == nil {
		t.Error("zero principal accepted")
	}
	if _, err := Calculate(-100, rate, 12, TenureMonths); err == nil {
		t.Error("negative principal accepted")
	}
	if _, err := Calculate(100_000, decimal.NewFromInt(-1), 12, TenureMonths); err == nil {
		t.Error("negative rate accepted")
	}
	if _, err := Calculate(100_000, rate, 0, TenureMonths); err == nil {
		t.Error("zero tenure accepted")
	}
	if _, err := Calculate(100_000, rate, 12, TenureUnit("weeks")); err == nil {
		t.Error("unknown tenure unit accepted")
	}
}
