// Package audit provides utilities for audit field enrichment in domain entities.
package audit

import (
	"context"

	"voltbill/internal/core/security"
)

// EnrichCreatedBy sets CreatedBy and UpdatedBy fields from context user ID.
// Called by repositories before the initial insert.
//
// If userID is not in context, this is a no-op.
func EnrichCreatedBy(ctx context.Context, entity interface{}) {
	userID := security.GetUserID(ctx)
	if userID == "" {
		return
	}

	if e, ok := entity.(interface {
		SetCreatedBy(string)
		SetUpdatedBy(string)
	}); ok {
		e.SetCreatedBy(userID)
		e.SetUpdatedBy(userID)
	}
}

// EnrichUpdatedBy sets only UpdatedBy field from context user ID.
// Called by repositories before updates.
//
// If userID is not in context, this is a no-op.
func EnrichUpdatedBy(ctx context.Context, entity interface{}) {
	userID := security.GetUserID(ctx)
	if userID == "" {
		return
	}

	if e, ok := entity.(interface{ SetUpdatedBy(string) }); ok {
		e.SetUpdatedBy(userID)
	}
}

// EnrichCreatedByDirect is a type-safe helper that sets fields directly.
// Use when entity has public CreatedBy/UpdatedBy fields.
func EnrichCreatedByDirect(ctx context.Context, createdBy, updatedBy *string) {
	userID := security.GetUserID(ctx)
	if userID != "" && createdBy != nil && updatedBy != nil {
		*createdBy = userID
		*updatedBy = userID
	}
}

// EnrichUpdatedByDirect is a type-safe helper that sets UpdatedBy field directly.
func EnrichUpdatedByDirect(ctx context.Context, updatedBy *string) {
	userID := security.GetUserID(ctx)
	if userID != "" && updatedBy != nil {
		*updatedBy = userID
	}
}
