// Package customer provides the Customer registry.
// Customers are loosely identified buyers keyed by mobile number; the invoice
// pipeline creates them lazily the first time a mobile number is billed.
package customer

import (
	"context"
	"regexp"

	"voltbill/internal/core/apperror"
	"voltbill/internal/core/entity"
)

var mobileRE = regexp.MustCompile(`^\+?\d{7,15}$`)

// Customer represents a per-shop buyer record.
type Customer struct {
	entity.Catalog

	// Mobile is the customer's mobile number (unique within the shop)
	Mobile string `db:"mobile" json:"mobile"`

	// Address is the customer's address
	Address *string `db:"address" json:"address,omitempty"`

	// GSTNumber is the customer's GSTIN when buying as a business
	GSTNumber *string `db:"gst_number" json:"gstNumber,omitempty"`
}

// NewCustomer creates a new Customer with required fields.
func NewCustomer(code, name, mobile string) *Customer {
	return &Customer{
		Catalog: entity.NewCatalog(code, name),
		Mobile:  mobile,
	}
}

// Validate implements entity.Validatable interface.
func (c *Customer) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if c.Mobile == "" {
		return apperror.NewValidation("mobile is required").
			WithDetail("field", "mobile")
	}

	if !mobileRE.MatchString(c.Mobile) {
		return apperror.NewValidation("invalid mobile format").
			WithDetail("field", "mobile").
			WithDetail("value", c.Mobile)
	}

	return nil
}
