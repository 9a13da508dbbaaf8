package dto

import (
	"github.com/shopspring/decimal"

	"voltbill/internal/core/entity"
	"voltbill/internal/core/types"
	"voltbill/internal/domain/catalogs/product"
)

// --- Request DTOs ---

// CreateProductRequest is the request body for creating a product.
type CreateProductRequest struct {
	Code              string            `json:"code"`
	Name              string            `json:"name" binding:"required"`
	ItemType          product.ItemType  `json:"itemType" binding:"required"`
	Category          string            `json:"category" binding:"required"`
	Brand             *string           `json:"brand"`
	Model             *string           `json:"model"`
	SKUCode           *string           `json:"skuCode"`
	HSNCode           *string           `json:"hsnCode"`
	Unit              string            `json:"unit"`
	PurchasePrice     types.MinorUnits  `json:"purchasePrice"`
	SellingPrice      types.MinorUnits  `json:"sellingPrice" binding:"required"`
	GSTPercent        decimal.Decimal   `json:"gstPercent"`
	WarrantyMonths    int               `json:"warrantyMonths"`
	GuaranteeMonths   int               `json:"guaranteeMonths"`
	SupplierID        *string           `json:"supplierId"`
	ImageURLs         []string          `json:"imageUrls"`
	HasSpecialOffer   bool              `json:"hasSpecialOffer"`
	SpecialOfferPrice types.MinorUnits  `json:"specialOfferPrice"`
	ParentID          *string           `json:"parentId"`
	IsFolder          bool              `json:"isFolder"`
	Attributes        entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateProductRequest) ToEntity() *product.Product {
	p := product.NewProduct(r.Code, r.Name, r.ItemType)
	p.Category = r.Category
	p.Brand = r.Brand
	p.Model = r.Model
	p.SKUCode = r.SKUCode
	p.HSNCode = r.HSNCode
	if r.Unit != "" {
		p.Unit = r.Unit
	}
	p.PurchasePrice = r.PurchasePrice
	p.SellingPrice = r.SellingPrice
	p.GSTPercent = r.GSTPercent
	p.WarrantyMonths = r.WarrantyMonths
	p.GuaranteeMonths = r.GuaranteeMonths
	p.SupplierID = r.SupplierID
	p.ImageURLs = r.ImageURLs
	p.HasSpecialOffer = r.HasSpecialOffer
	p.SpecialOfferPrice = r.SpecialOfferPrice
	p.ParentID = r.ParentID
	p.IsFolder = r.IsFolder
	p.Attributes = r.Attributes
	return p
}

// UpdateProductRequest is the request body for updating a product.
type UpdateProductRequest struct {
	Code              string            `json:"code"`
	Name              string            `json:"name" binding:"required"`
	ItemType          product.ItemType  `json:"itemType" binding:"required"`
	Category          string            `json:"category" binding:"required"`
	Brand             *string           `json:"brand"`
	Model             *string           `json:"model"`
	SKUCode           *string           `json:"skuCode"`
	HSNCode           *string           `json:"hsnCode"`
	Unit              string            `json:"unit"`
	PurchasePrice     types.MinorUnits  `json:"purchasePrice"`
	SellingPrice      types.MinorUnits  `json:"sellingPrice" binding:"required"`
	GSTPercent        decimal.Decimal   `json:"gstPercent"`
	WarrantyMonths    int               `json:"warrantyMonths"`
	GuaranteeMonths   int               `json:"guaranteeMonths"`
	SupplierID        *string           `json:"supplierId"`
	ImageURLs         []string          `json:"imageUrls"`
	IsActive          bool              `json:"isActive"`
	HasSpecialOffer   bool              `json:"hasSpecialOffer"`
	SpecialOfferPrice types.MinorUnits  `json:"specialOfferPrice"`
	ParentID          *string           `json:"parentId"`
	IsFolder          bool              `json:"isFolder"`
	Attributes        entity.Attributes `json:"attributes"`
	Version           int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) {
	p.Code = r.Code
	p.Name = r.Name
	p.ItemType = r.ItemType
	p.Category = r.Category
	p.Brand = r.Brand
	p.Model = r.Model
	p.SKUCode = r.SKUCode
	p.HSNCode = r.HSNCode
	if r.Unit != "" {
		p.Unit = r.Unit
	}
	p.PurchasePrice = r.PurchasePrice
	p.SellingPrice = r.SellingPrice
	p.GSTPercent = r.GSTPercent
	p.WarrantyMonths = r.WarrantyMonths
	p.GuaranteeMonths = r.GuaranteeMonths
	p.SupplierID = r.SupplierID
	p.ImageURLs = r.ImageURLs
	p.IsActive = r.IsActive
	p.HasSpecialOffer = r.HasSpecialOffer
	p.SpecialOfferPrice = r.SpecialOfferPrice
	p.ParentID = r.ParentID
	p.IsFolder = r.IsFolder
	p.Attributes = r.Attributes
	p.Version = r.Version
}

// --- Response DTOs ---

// ProductResponse is the response body for a product.
type ProductResponse struct {
	ID                string            `json:"id"`
	Code              string            `json:"code"`
	Name              string            `json:"name"`
	ItemType          product.ItemType  `json:"itemType"`
	Category          string            `json:"category"`
	Brand             *string           `json:"brand,omitempty"`
	Model             *string           `json:"model,omitempty"`
	SKUCode           *string           `json:"skuCode,omitempty"`
	HSNCode           *string           `json:"hsnCode,omitempty"`
	Unit              string            `json:"unit"`
	PurchasePrice     types.MinorUnits  `json:"purchasePrice"`
	SellingPrice      types.MinorUnits  `json:"sellingPrice"`
	GSTPercent        decimal.Decimal   `json:"gstPercent"`
	WarrantyMonths    int               `json:"warrantyMonths"`
	GuaranteeMonths   int               `json:"guaranteeMonths"`
	SupplierID        *string           `json:"supplierId,omitempty"`
	ImageURLs         []string          `json:"imageUrls,omitempty"`
	IsActive          bool              `json:"isActive"`
	HasSpecialOffer   bool              `json:"hasSpecialOffer"`
	SpecialOfferPrice types.MinorUnits  `json:"specialOfferPrice,omitempty"`
	StockQuantity     float64           `json:"stockQuantity"`
	ParentID          *string           `json:"parentId,omitempty"`
	IsFolder          bool              `json:"isFolder"`
	DeletionMark      bool              `json:"deletionMark"`
	Version           int               `json:"version"`
	Attributes        entity.Attributes `json:"attributes,omitempty"`
}

// FromProduct creates response DTO from domain entity.
func FromProduct(p *product.Product) *ProductResponse {
	return &ProductResponse{
		ID:                p.ID.String(),
		Code:              p.Code,
		Name:              p.Name,
		ItemType:          p.ItemType,
		Category:          p.Category,
		Brand:             p.Brand,
		Model:             p.Model,
		SKUCode:           p.SKUCode,
		HSNCode:           p.HSNCode,
		Unit:              p.Unit,
		PurchasePrice:     p.PurchasePrice,
		SellingPrice:      p.SellingPrice,
		GSTPercent:        p.GSTPercent,
		WarrantyMonths:    p.WarrantyMonths,
		GuaranteeMonths:   p.GuaranteeMonths,
		SupplierID:        p.SupplierID,
		ImageURLs:         p.ImageURLs,
		IsActive:          p.IsActive,
		HasSpecialOffer:   p.HasSpecialOffer,
		SpecialOfferPrice: p.SpecialOfferPrice,
		StockQuantity:     p.StockQuantity.Float64(),
		ParentID:          p.ParentID,
		IsFolder:          p.IsFolder,
		DeletionMark:      p.DeletionMark,
		Version:           p.Version,
		Attributes:        p.Attributes,
	}
}
