// Package discount provides promotional discount rules and the resolver that
// picks the best applicable rule for each invoice line.
package discount

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"voltbill/internal/core/apperror"
	"voltbill/internal/core/entity"
	"voltbill/internal/core/id"
	"voltbill/internal/core/types"
)

// Type classifies the promotional intent of a rule.
type Type string

const (
	TypeBulk         Type = "bulk"
	TypeFestival     Type = "festival"
	TypeLoyalty      Type = "loyalty"
	TypeSpecialOffer Type = "special_offer"
)

// Scope defines which lines a rule can apply to.
type Scope string

const (
	ScopeShopWide        Scope = "shop_wide"
	ScopeCategoryWide    Scope = "category_wide"
	ScopeProductSpecific Scope = "product_specific"
)

// Mechanism defines how the discount amount is computed.
type Mechanism string

const (
	MechanismPercentage  Mechanism = "percentage"
	MechanismFixedAmount Mechanism = "fixed_amount"
)

// Discount represents a shop-scoped promotional rule.
type Discount struct {
	entity.Catalog

	// Type is the promotional type (festival beats bulk when both apply)
	Type Type `db:"type" json:"type"`

	// Scope narrows the rule to a category or a single product
	Scope Scope `db:"scope" json:"scope"`

	// Category is required when Scope is CategoryWide
	Category *string `db:"category" json:"category,omitempty"`

	// ProductID is required when Scope is ProductSpecific
	ProductID *id.ID `db:"product_id" json:"productId,omitempty"`

	// Mechanism selects percentage vs flat amount
	Mechanism Mechanism `db:"mechanism" json:"mechanism"`

	// Value is the percent for Percentage rules, the rupee amount for
	// FixedAmount rules
	Value decimal.Decimal `db:"value" json:"value"`

	// MinQuantity is the qualifying line quantity for Bulk rules
	MinQuantity types.Quantity `db:"min_quantity" json:"minQuantity"`

	// StartDate/EndDate bound the validity window (inclusive).
	// Both absent means always valid.
	StartDate *time.Time `db:"start_date" json:"startDate,omitempty"`
	EndDate   *time.Time `db:"end_date" json:"endDate,omitempty"`

	// Condition is an optional CEL expression evaluated against the line
	// (quantity, unitPrice, category). Empty means no extra condition.
	Condition string `db:"condition" json:"condition,omitempty"`

	// IsActive controls whether the rule is evaluated at all
	IsActive bool `db:"is_active" json:"isActive"`
}

// NewDiscount creates a new Discount with required fields.
func NewDiscount(code, name string, t Type, mechanism Mechanism, value decimal.Decimal) *Discount {
	return &Discount{
		Catalog:   entity.NewCatalog(code, name),
		Type:      t,
		Scope:     ScopeShopWide,
		Mechanism: mechanism,
		Value:     value,
		IsActive:  true,
	}
}

// Validate implements entity.Validatable interface.
func (d *Discount) Validate(ctx context.Context) error {
	if err := d.Catalog.Validate(ctx); err != nil {
		return err
	}

	switch d.Type {
	case TypeBulk, TypeFestival, TypeLoyalty, TypeSpecialOffer:
	default:
		return apperror.NewValidation("invalid discount type").
			WithDetail("field", "type").
			WithDetail("value", string(d.Type))
	}

	switch d.Scope {
	case ScopeShopWide:
	case ScopeCategoryWide:
		if d.Category == nil || *d.Category == "" {
			return apperror.NewValidation("category is required for category-wide discounts").
				WithDetail("field", "category")
		}
	case ScopeProductSpecific:
		if d.ProductID == nil || id.IsNil(*d.ProductID) {
			return apperror.NewValidation("productId is required for product-specific discounts").
				WithDetail("field", "productId")
		}
	default:
		return apperror.NewValidation("invalid discount scope").
			WithDetail("field", "scope").
			WithDetail("value", string(d.Scope))
	}

	switch d.Mechanism {
	case MechanismPercentage:
		if d.Value.IsNegative() || d.Value.GreaterThan(decimal.NewFromInt(100)) {
			return apperror.NewValidation("percentage value must be between 0 and 100").
				WithDetail("field", "value").
				WithDetail("value", d.Value.String())
		}
	case MechanismFixedAmount:
		if d.Value.IsNegative() {
			return apperror.NewValidation("fixed discount amount cannot be negative").
				WithDetail("field", "value").
				WithDetail("value", d.Value.String())
		}
	default:
		return apperror.NewValidation("invalid discount mechanism").
			WithDetail("field", "mechanism").
			WithDetail("value", string(d.Mechanism))
	}

	if d.Type == TypeBulk && !d.MinQuantity.IsPositive() {
		return apperror.NewValidation("minQuantity must be positive for bulk discounts").
			WithDetail("field", "minQuantity")
	}

	if d.StartDate != nil && d.EndDate != nil && d.EndDate.Before(*d.StartDate) {
		return apperror.NewValidation("endDate cannot be before startDate").
			WithDetail("field", "endDate")
	}

	return nil
}

// ValidAt reports whether the rule's date window covers the given time.
// A rule with no window is always valid; the window is inclusive on both ends.
func (d *Discount) ValidAt(now time.Time) bool {
	if d.StartDate == nil && d.EndDate == nil {
		return true
	}
	if d.StartDate != nil && now.Before(*d.StartDate) {
		return false
	}
	if d.EndDate != nil && now.After(*d.EndDate) {
		return false
	}
	return true
}

// AppliesTo reports whether the rule's scope covers the given line.
func (d *Discount) AppliesTo(productID id.ID, category string) bool {
	switch d.Scope {
	case ScopeShopWide:
		return true
	case ScopeCategoryWide:
		return d.Category != nil && *d.Category == category
	case ScopeProductSpecific:
		return d.ProductID != nil && *d.ProductID == productID
	default:
		return false
	}
}
