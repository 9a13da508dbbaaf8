// Package shop provides the Shop profile catalog.
// Each tenant database belongs to exactly one shop; this catalog holds its
// profile record (contacts, GSTIN, invoice terms, category pickers).
package shop

import (
	"context"

	"voltbill/internal/core/apperror"
	"voltbill/internal/core/entity"
)

// ShopType defines what the shop sells.
type ShopType string

const (
	TypeElectronics ShopType = "electronics"
	TypeElectrical  ShopType = "electrical"
	TypeBoth        ShopType = "both"
)

// Shop represents the tenant's shop profile.
type Shop struct {
	entity.Catalog

	// Type defines the shop's line of business
	Type ShopType `db:"type" json:"type"`

	// OwnerName is the registered owner's display name
	OwnerName *string `db:"owner_name" json:"ownerName,omitempty"`

	// Phone is the primary contact phone
	Phone *string `db:"phone" json:"phone,omitempty"`

	// Email is the primary contact email
	Email *string `db:"email" json:"email,omitempty"`

	// Address is the shop's physical address
	Address *string `db:"address" json:"address,omitempty"`

	// GSTNumber is the shop's GSTIN
	GSTNumber *string `db:"gst_number" json:"gstNumber,omitempty"`

	// InvoiceTerms is free text printed on invoices
	InvoiceTerms *string `db:"invoice_terms" json:"invoiceTerms,omitempty"`

	// LogoURL references the shop logo
	LogoURL *string `db:"logo_url" json:"logoUrl,omitempty"`

	// ElectronicsCategories is the growable category picker list for electronics items
	ElectronicsCategories []string `db:"electronics_categories" json:"electronicsCategories"`

	// ElectricalCategories is the growable category picker list for electrical items
	ElectricalCategories []string `db:"electrical_categories" json:"electricalCategories"`

	// IsActive soft-disables the shop without deleting it
	IsActive bool `db:"is_active" json:"isActive"`
}

// NewShop creates a new Shop profile with required fields.
func NewShop(code, name string, shopType ShopType) *Shop {
	return &Shop{
		Catalog:  entity.NewCatalog(code, name),
		Type:     shopType,
		IsActive: true,
	}
}

// Validate implements entity.Validatable interface.
func (s *Shop) Validate(ctx context.Context) error {
	if err := s.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !isValidShopType(s.Type) {
		return apperror.NewValidation("invalid shop type").
			WithDetail("field", "type").
			WithDetail("value", string(s.Type))
	}

	return nil
}

// CategoriesFor returns the category picker list for an item type.
func (s *Shop) CategoriesFor(itemType string) []string {
	switch itemType {
	case string(TypeElectrical):
		return s.ElectricalCategories
	default:
		return s.ElectronicsCategories
	}
}

// AddCategory appends a category name to the picker list for the item type,
// skipping duplicates.
func (s *Shop) AddCategory(itemType, category string) bool {
	if category == "" {
		return false
	}

	list := s.CategoriesFor(itemType)
	for _, c := range list {
		if c == category {
			return false
		}
	}

	if itemType == string(TypeElectrical) {
		s.ElectricalCategories = append(s.ElectricalCategories, category)
	} else {
		s.ElectronicsCategories = append(s.ElectronicsCategories, category)
	}
	return true
}

func isValidShopType(t ShopType) bool {
	switch t {
	case TypeElectronics, TypeElectrical, TypeBoth:
		return true
	}
	return false
}
