package auth

import (
	"context"
	"testing"
	"time"

	"voltbill/internal/core/entity"
)

func TestNewUserDefaults(t *testing.T) {
	u := NewUser("owner@shop.in", "hash")

	if !u.IsActive {
		t.Error("new user should be active")
	}
	if u.DeletionMark {
		t.Error("new user should not carry a deletion mark")
	}
	if u.Version != 1 {
		t.Errorf("version = %d, want 1", u.Version)
	}
	if err := u.Validate(context.Background()); err != nil {
		t.Errorf("valid user rejected: %v", err)
	}
}

func TestUserSoftDeleteFields(t *testing.T) {
	// The repository round-trips deletion_mark and attributes; both must
	// live on the model so a marked user survives a scan unchanged.
	u := NewUser("staff@shop.in", "hash")
	u.DeletionMark = true
	u.Attributes = entity.Attributes{"counter": "front desk"}

	if !u.DeletionMark {
		t.Error("deletion mark not retained")
	}
	if got := u.Attributes["counter"]; got != "front desk" {
		t.Errorf("attributes[counter] = %v, want front desk", got)
	}
}

func TestUserLockout(t *testing.T) {
	u := NewUser("staff@shop.in", "hash")

	u.RecordFailedLogin(3, time.Hour)
	u.RecordFailedLogin(3, time.Hour)
	if u.IsLocked() {
		t.Error("locked before reaching the attempt limit")
	}

	u.RecordFailedLogin(3, time.Hour)
	if !u.IsLocked() {
		t.Error("not locked after reaching the attempt limit")
	}
	if err := u.CanLogin(); err == nil {
		t.Error("locked user allowed to log in")
	}

	u.RecordSuccessfulLogin()
	if u.IsLocked() || u.FailedLoginAttempts != 0 {
		t.Error("successful login should clear the lockout")
	}
	if u.LastLoginAt == nil {
		t.Error("successful login should stamp last_login_at")
	}
}

func TestUserHasPermission(t *testing.T) {
	u := NewUser("staff@shop.in", "hash")
	u.Permissions = []string{"document:invoice:create"}

	if !u.HasPermission("document:invoice:create") {
		t.Error("granted permission denied")
	}
	if u.HasPermission("document:invoice:unpost") {
		t.Error("ungranted permission allowed")
	}

	u.IsAdmin = true
	if !u.HasPermission("document:invoice:unpost") {
		t.Error("admin should pass every permission check")
	}
}
