// Package security provides authorization and access control.
package security

import (
	"context"
	"fmt"

	"voltbill/internal/core/apperror"
	appctx "voltbill/internal/core/context"
)

// Permission defines available permissions in the system.
type Permission string

const (
	// CRUD permissions
	PermissionRead   Permission = "read"
	PermissionCreate Permission = "create"
	PermissionUpdate Permission = "update"
	PermissionDelete Permission = "delete"

	// Document-specific permissions
	PermissionPost   Permission = "post"
	PermissionUnpost Permission = "unpost"

	// Admin permissions
	PermissionAdmin Permission = "admin"
	PermissionAudit Permission = "audit"
)

// Role defines a set of permissions.
type Role string

const (
	// RoleSuperAdmin is the cross-shop operator role (tenant provisioning, oversight).
	RoleSuperAdmin Role = "super_admin"
	// RoleOwner is the shop owner (full access within the shop).
	RoleOwner Role = "owner"
	// RoleStaff is a billing counter operator.
	RoleStaff Role = "staff"
	// RoleViewer has read-only access.
	RoleViewer Role = "viewer"
)

// AccessScope defines the boundaries of data visibility for current request.
// In Database-per-Tenant architecture shop isolation is physical; the scope is
// used for authorization decisions and consistent logging/audit context.
type AccessScope struct {
	// TenantID is the current shop tenant (from request/JWT).
	TenantID string

	// UserID is the authenticated staff member
	UserID string

	// IsAdmin marks the cross-shop super-admin
	IsAdmin bool

	// Permissions available to user, keyed by entity
	Permissions map[string][]Permission
}

// NewAccessScope creates AccessScope from context.
func NewAccessScope(ctx context.Context) *AccessScope {
	user := appctx.GetUser(ctx)
	if user == nil {
		return &AccessScope{}
	}

	return &AccessScope{
		TenantID: user.TenantID,
		UserID:   user.UserID,
		IsAdmin:  user.IsAdmin,
	}
}

// HasPermission checks if user has permission on entity.
func (s *AccessScope) HasPermission(entity string, perm Permission) bool {
	if s.IsAdmin {
		return true
	}
	if perms, ok := s.Permissions[entity]; ok {
		for _, p := range perms {
			if p == perm {
				return true
			}
		}
	}
	return false
}

// RequirePermission returns error if permission is missing.
func (s *AccessScope) RequirePermission(entity string, perm Permission) error {
	if !s.HasPermission(entity, perm) {
		return apperror.NewForbidden(
			fmt.Sprintf("permission %s on %s required", perm, entity),
		).WithDetail("entity", entity).WithDetail("permission", perm)
	}
	return nil
}

// --- Context-based scope access ---

type scopeKey struct{}

// WithScope adds AccessScope to context.
func WithScope(ctx context.Context, scope *AccessScope) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// GetScope returns AccessScope from context.
func GetScope(ctx context.Context) *AccessScope {
	if v, ok := ctx.Value(scopeKey{}).(*AccessScope); ok {
		return v
	}
	return NewAccessScope(ctx)
}
