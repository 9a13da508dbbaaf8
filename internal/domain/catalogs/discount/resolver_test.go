package discount

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"voltbill/internal/core/id"
	"voltbill/internal/core/types"
)

func mustResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver()
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}
	return r
}

func qty(n float64) types.Quantity { return types.NewQuantityFromFloat64(n) }

func TestResolve_FestivalBeatsBulk(t *testing.T) {
	r := mustResolver(t)
	productID := id.New()

	festival := NewDiscount("D1", "Diwali Sale", TypeFestival, MechanismPercentage, decimal.NewFromInt(10))
	bulk := NewDiscount("D2", "Bulk Deal", TypeBulk, MechanismFixedAmount, decimal.NewFromInt(50))
	bulk.Scope = ScopeProductSpecific
	bulk.ProductID = &productID
	bulk.MinQuantity = qty(5)

	lines := []Line{{
		ProductID: productID,
		Category:  "fans",
		UnitPrice: 100000, // 1000.00 in paise
		Quantity:  qty(6),
	}}

	got := r.Resolve([]*Discount{festival, bulk}, lines, time.Now())

	if got[0].AppliedType == nil || *got[0].AppliedType != TypeFestival {
		t.Fatalf("expected festival to win, got %v", got[0].AppliedType)
	}
	if got[0].DiscountAmount != 10000 {
		t.Errorf("DiscountAmount = %d, want 10000 (10%% of 100000)", got[0].DiscountAmount)
	}
	if got[0].FinalPrice != 90000 {
		t.Errorf("FinalPrice = %d, want 90000", got[0].FinalPrice)
	}
}

func TestResolve_BulkRequiresMinQuantity(t *testing.T) {
	r := mustResolver(t)

	bulk := NewDiscount("D1", "Bulk Deal", TypeBulk, MechanismPercentage, decimal.NewFromInt(5))
	bulk.MinQuantity = qty(10)

	line := Line{ProductID: id.New(), UnitPrice: 50000, Quantity: qty(9)}
	got := r.Resolve([]*Discount{bulk}, []Line{line}, time.Now())
	if got[0].AppliedType != nil {
		t.Fatalf("bulk rule applied below minQuantity")
	}
	if got[0].FinalPrice != line.UnitPrice {
		t.Errorf("FinalPrice = %d, want unchanged %d", got[0].FinalPrice, line.UnitPrice)
	}

	line.Quantity = qty(10)
	got = r.Resolve([]*Discount{bulk}, []Line{line}, time.Now())
	if got[0].AppliedType == nil || *got[0].AppliedType != TypeBulk {
		t.Fatalf("bulk rule not applied at exactly minQuantity")
	}
	if got[0].DiscountAmount != 2500 {
		t.Errorf("DiscountAmount = %d, want 2500", got[0].DiscountAmount)
	}
}

func TestResolve_DateWindow(t *testing.T) {
	r := mustResolver(t)
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC)

	rule := NewDiscount("D1", "October Sale", TypeFestival, MechanismPercentage, decimal.NewFromInt(10))
	rule.StartDate = &start
	rule.EndDate = &end

	line := Line{ProductID: id.New(), UnitPrice: 10000, Quantity: qty(1)}

	tests := []struct {
		name    string
		now     time.Time
		applies bool
	}{
		{"before window", start.Add(-time.Second), false},
		{"window start inclusive", start, true},
		{"inside window", start.AddDate(0, 0, 15), true},
		{"window end inclusive", end, true},
		{"after window", end.Add(time.Second), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve([]*Discount{rule}, []Line{line}, tt.now)
			if applied := got[0].AppliedType != nil; applied != tt.applies {
				t.Errorf("applied = %v, want %v", applied, tt.applies)
			}
		})
	}
}

func TestResolve_InactiveRuleSkipped(t *testing.T) {
	r := mustResolver(t)

	rule := NewDiscount("D1", "Old Sale", TypeFestival, MechanismPercentage, decimal.NewFromInt(50))
	rule.IsActive = false

	got := r.Resolve([]*Discount{rule}, []Line{{ProductID: id.New(), UnitPrice: 10000, Quantity: qty(1)}}, time.Now())
	if got[0].AppliedType != nil {
		t.Fatal("inactive rule applied")
	}
}

func TestResolve_FixedAmountClampedAtZero(t *testing.T) {
	r := mustResolver(t)

	// 500 rupees off a 200 rupee item.
	rule := NewDiscount("D1", "Clearance", TypeFestival, MechanismFixedAmount, decimal.NewFromInt(500))

	got := r.Resolve([]*Discount{rule}, []Line{{ProductID: id.New(), UnitPrice: 20000, Quantity: qty(1)}}, time.Now())
	if got[0].FinalPrice != 0 {
		t.Errorf("FinalPrice = %d, want 0", got[0].FinalPrice)
	}
	if got[0].DiscountAmount != 20000 {
		t.Errorf("DiscountAmount = %d, want clamped to 20000", got[0].DiscountAmount)
	}
}

func TestResolve_ScopeMatching(t *testing.T) {
	r := mustResolver(t)
	fanID := id.New()
	category := "fans"

	categoryRule := NewDiscount("D1", "Fan Week", TypeFestival, MechanismPercentage, decimal.NewFromInt(5))
	categoryRule.Scope = ScopeCategoryWide
	categoryRule.Category = &category

	lines := []Line{
		{ProductID: fanID, Category: "fans", UnitPrice: 10000, Quantity: qty(1)},
		{ProductID: id.New(), Category: "wires", UnitPrice: 10000, Quantity: qty(1)},
	}
	got := r.Resolve([]*Discount{categoryRule}, lines, time.Now())

	if got[0].AppliedType == nil {
		t.Error("category-wide rule did not apply to matching category")
	}
	if got[1].AppliedType != nil {
		t.Error("category-wide rule applied to a different category")
	}
}

func TestResolve_LargestDiscountWinsWithinTier(t *testing.T) {
	r := mustResolver(t)

	small := NewDiscount("D1", "Small Sale", TypeFestival, MechanismPercentage, decimal.NewFromInt(5))
	big := NewDiscount("D2", "Big Sale", TypeFestival, MechanismPercentage, decimal.NewFromInt(15))

	got := r.Resolve([]*Discount{small, big}, []Line{{ProductID: id.New(), UnitPrice: 10000, Quantity: qty(1)}}, time.Now())
	if got[0].DiscountAmount != 1500 {
		t.Errorf("DiscountAmount = %d, want 1500 from the larger rule", got[0].DiscountAmount)
	}
}

func TestResolve_Condition(t *testing.T) {
	r := mustResolver(t)

	rule := NewDiscount("D1", "High Value Orders", TypeFestival, MechanismPercentage, decimal.NewFromInt(10))
	rule.Condition = `unitPrice >= 500.0 && category != "services"`

	tests := []struct {
		name    string
		line    Line
		applies bool
	}{
		{"price above threshold", Line{ProductID: id.New(), Category: "fans", UnitPrice: 60000, Quantity: qty(1)}, true},
		{"price below threshold", Line{ProductID: id.New(), Category: "fans", UnitPrice: 40000, Quantity: qty(1)}, false},
		{"excluded category", Line{ProductID: id.New(), Category: "services", UnitPrice: 60000, Quantity: qty(1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve([]*Discount{rule}, []Line{tt.line}, time.Now())
			if applied := got[0].AppliedType != nil; applied != tt.applies {
				t.Errorf("applied = %v, want %v", applied, tt.applies)
			}
		})
	}
}

func TestCompileCondition(t *testing.T) {
	r := mustResolver(t)

	if err := r.CompileCondition(""); err != nil {
		t.Errorf("empty condition should be valid: %v", err)
	}
	if err := r.CompileCondition("quantity >= 3.0"); err != nil {
		t.Errorf("valid condition rejected: %v", err)
	}
	if err := r.CompileCondition("quantity +"); err == nil {
		t.Error("syntax error not rejected")
	}
	if err := r.CompileCondition("quantity + 1.0"); err == nil {
		t.Error("non-boolean condition not rejected")
	}
	if err := r.CompileCondition("unknownVar > 1"); err == nil {
		t.Error("unknown variable not rejected")
	}
}
