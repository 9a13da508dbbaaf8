package dto

import (
	"voltbill/internal/core/entity"
	"voltbill/internal/domain/catalogs/supplier"
)

// --- Request DTOs ---

// CreateSupplierRequest is the request body for creating a supplier.
type CreateSupplierRequest struct {
	Code          string            `json:"code"`
	Name          string            `json:"name" binding:"required"`
	ContactPerson *string           `json:"contactPerson"`
	Phone         *string           `json:"phone"`
	Email         *string           `json:"email"`
	Address       *string           `json:"address"`
	GSTNumber     *string           `json:"gstNumber"`
	Comment       *string           `json:"comment"`
	ParentID      *string           `json:"parentId"`
	IsFolder      bool              `json:"isFolder"`
	Attributes    entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateSupplierRequest) ToEntity() *supplier.Supplier {
	s := supplier.NewSupplier(r.Code, r.Name)
	s.ContactPerson = r.ContactPerson
	s.Phone = r.Phone
	s.Email = r.Email
	s.Address = r.Address
	s.GSTNumber = r.GSTNumber
	s.Comment = r.Comment
	s.ParentID = r.ParentID
	s.IsFolder = r.IsFolder
	s.Attributes = r.Attributes
	return s
}

// UpdateSupplierRequest is the request body for updating a supplier.
type UpdateSupplierRequest struct {
	Code          string            `json:"code"`
	Name          string            `json:"name" binding:"required"`
	ContactPerson *string           `json:"contactPerson"`
	Phone         *string           `json:"phone"`
	Email         *string           `json:"email"`
	Address       *string           `json:"address"`
	GSTNumber     *string           `json:"gstNumber"`
	Comment       *string           `json:"comment"`
	ParentID      *string           `json:"parentId"`
	IsFolder      bool              `json:"isFolder"`
	Attributes    entity.Attributes `json:"attributes"`
	Version       int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateSupplierRequest) ApplyTo(s *supplier.Supplier) {
	s.Code = r.Code
	s.Name = r.Name
	s.ContactPerson = r.ContactPerson
	s.Phone = r.Phone
	s.Email = r.Email
	s.Address = r.Address
	s.GSTNumber = r.GSTNumber
	s.Comment = r.Comment
	s.ParentID = r.ParentID
	s.IsFolder = r.IsFolder
	s.Attributes = r.Attributes
	s.Version = r.Version
}

// --- Response DTOs ---

// SupplierResponse is the response body for a supplier.
type SupplierResponse struct {
	ID            string            `json:"id"`
	Code          string            `json:"code"`
	Name          string            `json:"name"`
	ContactPerson *string           `json:"contactPerson,omitempty"`
	Phone         *string           `json:"phone,omitempty"`
	Email         *string           `json:"email,omitempty"`
	Address       *string           `json:"address,omitempty"`
	GSTNumber     *string           `json:"gstNumber,omitempty"`
	Comment       *string           `json:"comment,omitempty"`
	ParentID      *string           `json:"parentId,omitempty"`
	IsFolder      bool              `json:"isFolder"`
	DeletionMark  bool              `json:"deletionMark"`
	Version       int               `json:"version"`
	Attributes    entity.Attributes `json:"attributes,omitempty"`
}

// FromSupplier creates response DTO from domain entity.
func FromSupplier(s *supplier.Supplier) *SupplierResponse {
	return &SupplierResponse{
		ID:            s.ID.String(),
		Code:          s.Code,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Phone:         s.Phone,
		Email:         s.Email,
		Address:       s.Address,
		GSTNumber:     s.GSTNumber,
		Comment:       s.Comment,
		ParentID:      s.ParentID,
		IsFolder:      s.IsFolder,
		DeletionMark:  s.DeletionMark,
		Version:       s.Version,
		Attributes:    s.Attributes,
	}
}
