// Package supplier provides the Supplier catalog.
// Suppliers are the vendors shop products are sourced from.
package supplier

import (
	"context"
	"regexp"

	"voltbill/internal/core/apperror"
	"voltbill/internal/core/entity"
)

// Pre-compiled regex patterns for validation
var (
	emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	// GSTIN: 2-digit state code, 10-char PAN, entity digit, Z, check character
	gstinRE = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z]\d[A-Z0-9]Z[A-Z0-9]$`)
	phoneRE = regexp.MustCompile(`^\+?\d{7,15}$`)
)

// Supplier represents a product vendor.
type Supplier struct {
	entity.Catalog

	// ContactPerson is the primary contact name
	ContactPerson *string `db:"contact_person" json:"contactPerson,omitempty"`

	// Phone is the primary contact phone
	Phone *string `db:"phone" json:"phone,omitempty"`

	// Email is the primary contact email
	Email *string `db:"email" json:"email,omitempty"`

	// Address is the supplier's address
	Address *string `db:"address" json:"address,omitempty"`

	// GSTNumber is the supplier's GSTIN
	GSTNumber *string `db:"gst_number" json:"gstNumber,omitempty"`

	// Comment is a free-form note
	Comment *string `db:"comment" json:"comment,omitempty"`
}

// NewSupplier creates a new Supplier with required fields.
func NewSupplier(code, name string) *Supplier {
	return &Supplier{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable interface.
func (s *Supplier) Validate(ctx context.Context) error {
	if err := s.Catalog.Validate(ctx); err != nil {
		return err
	}

	if s.GSTNumber != nil && *s.GSTNumber != "" && !gstinRE.MatchString(*s.GSTNumber) {
		return apperror.NewValidation("invalid GSTIN format").
			WithDetail("field", "gstNumber")
	}

	if s.Email != nil && *s.Email != "" && !emailRE.MatchString(*s.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}

	if s.Phone != nil && *s.Phone != "" && !phoneRE.MatchString(*s.Phone) {
		return apperror.NewValidation("invalid phone format").
			WithDetail("field", "phone")
	}

	return nil
}
