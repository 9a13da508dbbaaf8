package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"voltbill/internal/core/entity"
	"voltbill/internal/core/id"
	"voltbill/internal/core/types"
	"voltbill/internal/domain/catalogs/discount"
)

// --- Request DTOs ---

// CreateDiscountRequest is the request body for creating a discount rule.
type CreateDiscountRequest struct {
	Code        string             `json:"code"`
	Name        string             `json:"name" binding:"required"`
	Type        discount.Type      `json:"type" binding:"required"`
	Scope       discount.Scope     `json:"scope"`
	Category    *string            `json:"category"`
	ProductID   *id.ID             `json:"productId"`
	Mechanism   discount.Mechanism `json:"mechanism" binding:"required"`
	Value       decimal.Decimal    `json:"value" binding:"required"`
	MinQuantity types.Quantity     `json:"minQuantity"`
	StartDate   *time.Time         `json:"startDate"`
	EndDate     *time.Time         `json:"endDate"`
	Condition   string             `json:"condition"`
	Attributes  entity.Attributes  `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateDiscountRequest) ToEntity() *discount.Discount {
	d := discount.NewDiscount(r.Code, r.Name, r.Type, r.Mechanism, r.Value)
	if r.Scope != "" {
		d.Scope = r.Scope
	}
	d.Category = r.Category
	d.ProductID = r.ProductID
	d.MinQuantity = r.MinQuantity
	d.StartDate = r.StartDate
	d.EndDate = r.EndDate
	d.Condition = r.Condition
	d.Attributes = r.Attributes
	return d
}

// UpdateDiscountRequest is the request body for updating a discount rule.
type UpdateDiscountRequest struct {
	Code        string             `json:"code"`
	Name        string             `json:"name" binding:"required"`
	Type        discount.Type      `json:"type" binding:"required"`
	Scope       discount.Scope     `json:"scope" binding:"required"`
	Category    *string            `json:"category"`
	ProductID   *id.ID             `json:"productId"`
	Mechanism   discount.Mechanism `json:"mechanism" binding:"required"`
	Value       decimal.Decimal    `json:"value" binding:"required"`
	MinQuantity types.Quantity     `json:"minQuantity"`
	StartDate   *time.Time         `json:"startDate"`
	EndDate     *time.Time         `json:"endDate"`
	Condition   string             `json:"condition"`
	IsActive    bool               `json:"isActive"`
	Attributes  entity.Attributes  `json:"attributes"`
	Version     int                `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateDiscountRequest) ApplyTo(d *discount.Discount) {
	d.Code = r.Code
	d.Name = r.Name
	d.Type = r.Type
	d.Scope = r.Scope
	d.Category = r.Category
	d.ProductID = r.ProductID
	d.Mechanism = r.Mechanism
	d.Value = r.Value
	d.MinQuantity = r.MinQuantity
	d.StartDate = r.StartDate
	d.EndDate = r.EndDate
	d.Condition = r.Condition
	d.IsActive = r.IsActive
	d.Attributes = r.Attributes
	d.Version = r.Version
}

// --- Response DTOs ---

// DiscountResponse is the response body for a discount rule.
type DiscountResponse struct {
	ID           string             `json:"id"`
	Code         string             `json:"code"`
	Name         string             `json:"name"`
	Type         discount.Type      `json:"type"`
	Scope        discount.Scope     `json:"scope"`
	Category     *string            `json:"category,omitempty"`
	ProductID    *id.ID             `json:"productId,omitempty"`
	Mechanism    discount.Mechanism `json:"mechanism"`
	Value        decimal.Decimal    `json:"value"`
	MinQuantity  types.Quantity     `json:"minQuantity,omitempty"`
	StartDate    *time.Time         `json:"startDate,omitempty"`
	EndDate      *time.Time         `json:"endDate,omitempty"`
	Condition    string             `json:"condition,omitempty"`
	IsActive     bool               `json:"isActive"`
	DeletionMark bool               `json:"deletionMark"`
	Version      int                `json:"version"`
	Attributes   entity.Attributes  `json:"attributes,omitempty"`
}

// FromDiscount creates response DTO from domain entity.
func FromDiscount(d *discount.Discount) *DiscountResponse {
	return &DiscountResponse{
		ID:           d.ID.String(),
		Code:         d.Code,
		Name:         d.Name,
		Type:         d.Type,
		Scope:        d.Scope,
		Category:     d.Category,
		ProductID:    d.ProductID,
		Mechanism:    d.Mechanism,
		Value:        d.Value,
		MinQuantity:  d.MinQuantity,
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		Condition:    d.Condition,
		IsActive:     d.IsActive,
		DeletionMark: d.DeletionMark,
		Version:      d.Version,
		Attributes:   d.Attributes,
	}
}
