// Package product provides the Product catalog.
// A product is a sellable SKU: electronics or electrical goods with GST,
// warranty terms and an on-hand stock quantity kept in the stock register.
package product

import (
	"context"

	"github.com/shopspring/decimal"

	"voltbill/internal/core/apperror"
	"voltbill/internal/core/entity"
	"voltbill/internal/core/types"
)

// ItemType defines the product's line of business.
type ItemType string

const (
	TypeElectronics ItemType = "electronics"
	TypeElectrical  ItemType = "electrical"
)

// Product represents a sellable SKU.
type Product struct {
	entity.Catalog

	// ItemType defines electronics vs electrical
	ItemType ItemType `db:"item_type" json:"itemType"`

	// Category is a free-text, shop-scoped category name
	Category string `db:"category" json:"category"`

	// Brand is the manufacturer brand name
	Brand *string `db:"brand" json:"brand,omitempty"`

	// Model is the manufacturer model designation
	Model *string `db:"model" json:"model,omitempty"`

	// SKUCode is the stock keeping code (unique within the shop)
	SKUCode *string `db:"sku_code" json:"skuCode,omitempty"`

	// HSNCode is the GST HSN classification code
	HSNCode *string `db:"hsn_code" json:"hsnCode,omitempty"`

	// Unit is the free-text unit of measure (pcs, box, m)
	Unit string `db:"unit" json:"unit"`

	// PurchasePrice is the buying price in paise
	PurchasePrice types.MinorUnits `db:"purchase_price" json:"purchasePrice"`

	// SellingPrice is the selling price in paise
	SellingPrice types.MinorUnits `db:"selling_price" json:"sellingPrice"`

	// GSTPercent is the GST rate applied on sale
	GSTPercent decimal.Decimal `db:"gst_percent" json:"gstPercent"`

	// WarrantyMonths is the warranty duration in months
	WarrantyMonths int `db:"warranty_months" json:"warrantyMonths"`

	// GuaranteeMonths is the guarantee duration in months
	GuaranteeMonths int `db:"guarantee_months" json:"guaranteeMonths"`

	// SupplierID is an optional reference to the supplier catalog
	SupplierID *string `db:"supplier_id" json:"supplierId,omitempty"`

	// ImageURLs references product images
	ImageURLs []string `db:"image_urls" json:"imageUrls,omitempty"`

	// IsActive controls whether the product can be sold
	IsActive bool `db:"is_active" json:"isActive"`

	// HasSpecialOffer flags an always-on product-level offer
	HasSpecialOffer bool `db:"has_special_offer" json:"hasSpecialOffer"`

	// SpecialOfferPrice is the discounted price when HasSpecialOffer is set
	SpecialOfferPrice types.MinorUnits `db:"special_offer_price" json:"specialOfferPrice"`

	// StockQuantity is the on-hand quantity, read from the stock register.
	// Not a column of the product table; populated on reads.
	StockQuantity types.Quantity `db:"-" json:"stockQuantity"`
}

// NewProduct creates a new Product with required fields.
func NewProduct(code, name string, itemType ItemType) *Product {
	return &Product{
		Catalog:    entity.NewCatalog(code, name),
		ItemType:   itemType,
		Unit:       "pcs",
		GSTPercent: decimal.NewFromInt(18),
		IsActive:   true,
	}
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !isValidItemType(p.ItemType) {
		return apperror.NewValidation("invalid item type").
			WithDetail("field", "itemType").
			WithDetail("value", string(p.ItemType))
	}

	if p.SellingPrice.IsNegative() {
		return apperror.NewValidation("selling price cannot be negative").
			WithDetail("field", "sellingPrice")
	}

	if p.PurchasePrice.IsNegative() {
		return apperror.NewValidation("purchase price cannot be negative").
			WithDetail("field", "purchasePrice")
	}

	if p.GSTPercent.IsNegative() || p.GSTPercent.GreaterThan(decimal.NewFromInt(100)) {
		return apperror.NewValidation("GST percent must be between 0 and 100").
			WithDetail("field", "gstPercent").
			WithDetail("value", p.GSTPercent.String())
	}

	if p.WarrantyMonths < 0 || p.GuaranteeMonths < 0 {
		return apperror.NewValidation("warranty and guarantee durations cannot be negative").
			WithDetail("field", "warrantyMonths")
	}

	if p.HasSpecialOffer {
		if p.SpecialOfferPrice.IsNegative() || p.SpecialOfferPrice > p.SellingPrice {
			return apperror.NewValidation("special offer price must be between 0 and the selling price").
				WithDetail("field", "specialOfferPrice")
		}
	}

	return nil
}

// EffectivePrice returns the price the counter charges: the special offer
// price when the product-level offer is on, the selling price otherwise.
func (p *Product) EffectivePrice() types.MinorUnits {
	if p.HasSpecialOffer {
		return p.SpecialOfferPrice
	}
	return p.SellingPrice
}

func isValidItemType(t ItemType) bool {
	switch t {
	case TypeElectronics, TypeElectrical:
		return true
	}
	return false
}
