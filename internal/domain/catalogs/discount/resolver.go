package discount

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/cel-go/cel"
	"github.com/shopspring/decimal"

	"voltbill/internal/core/id"
	"voltbill/internal/core/types"
)

// Line is one cart position as seen by the resolver.
type Line struct {
	ProductID id.ID
	Category  string
	UnitPrice types.MinorUnits
	Quantity  types.Quantity
}

// Applied is a line annotated with the winning rule's effect.
// DiscountAmount is per unit, clamped so FinalPrice never goes negative.
type Applied struct {
	Line

	DiscountAmount types.MinorUnits
	AppliedType    *Type
	FinalPrice     types.MinorUnits
}

// Resolver picks the single best applicable discount per line.
//
// Selection order follows a fixed priority: festival beats bulk, and bulk only
// qualifies when the line quantity reaches the rule's minQuantity. Loyalty and
// special-offer rules are stored but never selected here; product-level special
// offers are applied through the product's own offer price instead. Within a
// priority tier the rule yielding the largest per-unit discount wins.
//
// Resolve is a pure function over the rule set and the cart; the resolver only
// keeps a cache of compiled condition expressions.
type Resolver struct {
	env *cel.Env

	mu       sync.RWMutex
	programs map[string]cel.Program
}

// NewResolver creates a resolver with the condition evaluation environment.
func NewResolver() (*Resolver, error) {
	env, err := cel.NewEnv(
		cel.Variable("quantity", cel.DoubleType),
		cel.Variable("unitPrice", cel.DoubleType),
		cel.Variable("category", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("create condition env: %w", err)
	}
	return &Resolver{
		env:      env,
		programs: make(map[string]cel.Program),
	}, nil
}

// CompileCondition checks that a rule condition is a valid boolean expression.
// Used at rule save time so the resolver never sees an uncompilable condition.
func (r *Resolver) CompileCondition(expr string) error {
	if expr == "" {
		return nil
	}
	_, err := r.program(expr)
	return err
}

// Resolve annotates every line with the best applicable discount.
// Rules that are inactive or outside their date window at `now` are ignored.
func (r *Resolver) Resolve(rules []*Discount, lines []Line, now time.Time) []Applied {
	valid := make([]*Discount, 0, len(rules))
	for _, rule := range rules {
		if rule.IsActive && !rule.DeletionMark && rule.ValidAt(now) {
			valid = append(valid, rule)
		}
	}

	result := make([]Applied, len(lines))
	for i, line := range lines {
		result[i] = r.resolveLine(valid, line)
	}
	return result
}

func (r *Resolver) resolveLine(rules []*Discount, line Line) Applied {
	out := Applied{Line: line, FinalPrice: line.UnitPrice}

	var best *Discount
	var bestAmount types.MinorUnits
	for _, tier := range []Type{TypeFestival, TypeBulk} {
		for _, rule := range rules {
			if rule.Type != tier || !rule.AppliesTo(line.ProductID, line.Category) {
				continue
			}
			if rule.Type == TypeBulk && line.Quantity < rule.MinQuantity {
				continue
			}
			if !r.conditionHolds(rule.Condition, line) {
				continue
			}
			amount := discountFor(rule, line.UnitPrice)
			if best == nil || amount > bestAmount {
				best = rule
				bestAmount = amount
			}
		}
		if best != nil {
			break
		}
	}

	if best == nil {
		return out
	}

	if bestAmount > line.UnitPrice {
		bestAmount = line.UnitPrice
	}
	t := best.Type
	out.DiscountAmount = bestAmount
	out.AppliedType = &t
	out.FinalPrice = line.UnitPrice - bestAmount
	return out
}

// discountFor computes the per-unit discount in minor units.
func discountFor(rule *Discount, unitPrice types.MinorUnits) types.MinorUnits {
	switch rule.Mechanism {
	case MechanismPercentage:
		amount := decimal.NewFromInt(int64(unitPrice)).
			Mul(rule.Value).
			Div(decimal.NewFromInt(100)).
			Round(0)
		return types.MinorUnits(amount.IntPart())
	case MechanismFixedAmount:
		// Value is in rupees, prices are in paise.
		return types.MinorUnits(rule.Value.Shift(2).Round(0).IntPart())
	default:
		return 0
	}
}

// conditionHolds evaluates the rule's CEL condition against the line.
// An empty condition always holds; a condition that fails to compile or
// evaluate disqualifies the rule rather than failing the whole resolve.
func (r *Resolver) conditionHolds(expr string, line Line) bool {
	if expr == "" {
		return true
	}

	prg, err := r.program(expr)
	if err != nil {
		return false
	}

	out, _, err := prg.Eval(map[string]any{
		"quantity":  line.Quantity.Float64(),
		"unitPrice": line.UnitPrice.ToMajor(2),
		"category":  line.Category,
	})
	if err != nil {
		return false
	}
	holds, ok := out.Value().(bool)
	return ok && holds
}

func (r *Resolver) program(expr string) (cel.Program, error) {
	r.mu.RLock()
	prg, ok := r.programs[expr]
	r.mu.RUnlock()
	if ok {
		return prg, nil
	}

	ast, iss := r.env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("compile condition: %w", iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("condition must evaluate to a boolean, got %s", ast.OutputType())
	}
	prg, err := r.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build condition program: %w", err)
	}

	r.mu.Lock()
	r.programs[expr] = prg
	r.mu.Unlock()
	return prg, nil
}
