package dto

import (
	"voltbill/internal/core/entity"
	"voltbill/internal/domain/catalogs/shop"
)

// --- Request DTOs ---

// CreateShopRequest is the request body for creating a shop profile.
type CreateShopRequest struct {
	Code                  string            `json:"code"`
	Name                  string            `json:"name" binding:"required"`
	Type                  shop.ShopType     `json:"type" binding:"required"`
	OwnerName             *string           `json:"ownerName"`
	Phone                 *string           `json:"phone"`
	Email                 *string           `json:"email"`
	Address               *string           `json:"address"`
	GSTNumber             *string           `json:"gstNumber"`
	InvoiceTerms          *string           `json:"invoiceTerms"`
	LogoURL               *string           `json:"logoUrl"`
	ElectronicsCategories []string          `json:"electronicsCategories"`
	ElectricalCategories  []string          `json:"electricalCategories"`
	Attributes            entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateShopRequest) ToEntity() *shop.Shop {
	s := shop.NewShop(r.Code, r.Name, r.Type)
	s.OwnerName = r.OwnerName
	s.Phone = r.Phone
	s.Email = r.Email
	s.Address = r.Address
	s.GSTNumber = r.GSTNumber
	s.InvoiceTerms = r.InvoiceTerms
	s.LogoURL = r.LogoURL
	s.ElectronicsCategories = r.ElectronicsCategories
	s.ElectricalCategories = r.ElectricalCategories
	s.Attributes = r.Attributes
	return s
}

// AddShopCategoryRequest appends one category name to the shop's electronics
// or electrical picker list.
type AddShopCategoryRequest struct {
	ItemType string `json:"itemType" binding:"required,oneof=electronics electrical"`
	Category string `json:"category" binding:"required"`
}

// UpdateShopRequest is the request body for updating a shop profile.
type UpdateShopRequest struct {
	Code                  string            `json:"code"`
	Name                  string            `json:"name" binding:"required"`
	Type                  shop.ShopType     `json:"type" binding:"required"`
	OwnerName             *string           `json:"ownerName"`
	Phone                 *string           `json:"phone"`
	Email                 *string           `json:"email"`
	Address               *string           `json:"address"`
	GSTNumber             *string           `json:"gstNumber"`
	InvoiceTerms          *string           `json:"invoiceTerms"`
	LogoURL               *string           `json:"logoUrl"`
	ElectronicsCategories []string          `json:"electronicsCategories"`
	ElectricalCategories  []string          `json:"electricalCategories"`
	IsActive              bool              `json:"isActive"`
	Attributes            entity.Attributes `json:"attributes"`
	Version               int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateShopRequest) ApplyTo(s *shop.Shop) {
	s.Code = r.Code
	s.Name = r.Name
	s.Type = r.Type
	s.OwnerName = r.OwnerName
	s.Phone = r.Phone
	s.Email = r.Email
	s.Address = r.Address
	s.GSTNumber = r.GSTNumber
	s.InvoiceTerms = r.InvoiceTerms
	s.LogoURL = r.LogoURL
	s.ElectronicsCategories = r.ElectronicsCategories
	s.ElectricalCategories = r.ElectricalCategories
	s.IsActive = r.IsActive
	s.Attributes = r.Attributes
	s.Version = r.Version
}

// --- Response DTOs ---

// ShopResponse is the response body for a shop profile.
type ShopResponse struct {
	ID                    string            `json:"id"`
	Code                  string            `json:"code"`
	Name                  string            `json:"name"`
	Type                  shop.ShopType     `json:"type"`
	OwnerName             *string           `json:"ownerName,omitempty"`
	Phone                 *string           `json:"phone,omitempty"`
	Email                 *string           `json:"email,omitempty"`
	Address               *string           `json:"address,omitempty"`
	GSTNumber             *string           `json:"gstNumber,omitempty"`
	InvoiceTerms          *string           `json:"invoiceTerms,omitempty"`
	LogoURL               *string           `json:"logoUrl,omitempty"`
	ElectronicsCategories []string          `json:"electronicsCategories,omitempty"`
	ElectricalCategories  []string          `json:"electricalCategories,omitempty"`
	IsActive              bool              `json:"isActive"`
	DeletionMark          bool              `json:"deletionMark"`
	Version               int               `json:"version"`
	Attributes            entity.Attributes `json:"attributes,omitempty"`
}

// FromShop creates response DTO from domain entity.
func FromShop(s *shop.Shop) *ShopResponse {
	return &ShopResponse{
		ID:                    s.ID.String(),
		Code:                  s.Code,
		Name:                  s.Name,
		Type:                  s.Type,
		OwnerName:             s.OwnerName,
		Phone:                 s.Phone,
		Email:                 s.Email,
		Address:               s.Address,
		GSTNumber:             s.GSTNumber,
		InvoiceTerms:          s.InvoiceTerms,
		LogoURL:               s.LogoURL,
		ElectronicsCategories: s.ElectronicsCategories,
		ElectricalCategories:  s.ElectricalCategories,
		IsActive:              s.IsActive,
		DeletionMark:          s.DeletionMark,
		Version:               s.Version,
		Attributes:            s.Attributes,
	}
}
