package dto

import (
	"voltbill/internal/core/entity"
	"voltbill/internal/domain/catalogs/customer"
)

// --- Request DTOs ---

// CreateCustomerRequest is the request body for creating a customer.
type CreateCustomerRequest struct {
	Code       string            `json:"code"`
	Name       string            `json:"name" binding:"required"`
	Mobile     string            `json:"mobile" binding:"required"`
	Address    *string           `json:"address"`
	GSTNumber  *string           `json:"gstNumber"`
	Attributes entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateCustomerRequest) ToEntity() *customer.Customer {
	c := customer.NewCustomer(r.Code, r.Name, r.Mobile)
	c.Address = r.Address
	c.GSTNumber = r.GSTNumber
	c.Attributes = r.Attributes
	return c
}

// UpdateCustomerRequest is the request body for updating a customer.
type UpdateCustomerRequest struct {
	Code       string            `json:"code"`
	Name       string            `json:"name" binding:"required"`
	Mobile     string            `json:"mobile" binding:"required"`
	Address    *string           `json:"address"`
	GSTNumber  *string           `json:"gstNumber"`
	Attributes entity.Attributes `json:"attributes"`
	Version    int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateCustomerRequest) ApplyTo(c *customer.Customer) {
	c.Code = r.Code
	c.Name = r.Name
	c.Mobile = r.Mobile
	c.Address = r.Address
	c.GSTNumber = r.GSTNumber
	c.Attributes = r.Attributes
	c.Version = r.Version
}

// --- Response DTOs ---

// CustomerResponse is the response body for a customer.
type CustomerResponse struct {
	ID           string            `json:"id"`
	Code         string            `json:"code"`
	Name         string            `json:"name"`
	Mobile       string            `json:"mobile"`
	Address      *string           `json:"address,omitempty"`
	GSTNumber    *string           `json:"gstNumber,omitempty"`
	DeletionMark bool              `json:"deletionMark"`
	Version      int               `json:"version"`
	Attributes   entity.Attributes `json:"attributes,omitempty"`
}

// FromCustomer creates response DTO from domain entity.
func FromCustomer(c *customer.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:           c.ID.String(),
		Code:         c.Code,
		Name:         c.Name,
		Mobile:       c.Mobile,
		Address:      c.Address,
		GSTNumber:    c.GSTNumber,
		DeletionMark: c.DeletionMark,
		Version:      c.Version,
		Attributes:   c.Attributes,
	}
}
