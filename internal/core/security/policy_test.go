package security

import (
	"context"
	"testing"
	"time"
)

func TestStrictPolicy(t *testing.T) {
	ctx := context.Background()
	closedUntil := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	p := NewStrictPolicy(closedUntil)

	if err := p.CanPost(ctx, closedUntil.AddDate(0, 0, 1)); err != nil {
		t.Errorf("post after closed period: %v", err)
	}
	if err := p.CanPost(ctx, closedUntil.AddDate(0, 0, -1)); err == nil {
		t.Error("expected error posting into closed period")
	}
	if err := p.CanUnpost(ctx, closedUntil.AddDate(0, 0, -1)); err == nil {
		t.Error("expected error unposting in closed period")
	}
}

func TestFlexiblePolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("no closed period allows backdating", func(t *testing.T) {
		p := NewFlexiblePolicy(24*time.Hour, time.Time{})
		if err := p.CanPost(ctx, time.Now().AddDate(-1, 0, 0)); err != nil {
			t.Errorf("backdated post: %v", err)
		}
	})

	t.Run("closed period still enforced", func(t *testing.T) {
		closedUntil := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
		p := NewFlexiblePolicy(0, closedUntil)
		if err := p.CanPost(ctx, closedUntil.AddDate(0, -1, 0)); err == nil {
			t.Error("expected error posting into closed period")
		}
	})

	t.Run("backdated warning", func(t *testing.T) {
		p := NewFlexiblePolicy(24*time.Hour, time.Time{})
		if p.IsBackdatedWarning(time.Now()) {
			t.Error("fresh date should not warn")
		}
		if !p.IsBackdatedWarning(time.Now().Add(-48 * time.Hour)) {
			t.Error("old date should warn")
		}

		none := NewFlexiblePolicy(0, time.Time{})
		if none.IsBackdatedWarning(time.Now().AddDate(-1, 0, 0)) {
			t.Error("zero threshold disables warnings")
		}
	})
}

func TestOpenPolicy(t *testing.T) {
	ctx := context.Background()
	p := OpenPolicy{}

	old := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := p.CanPost(ctx, old); err != nil {
		t.Errorf("open policy post: %v", err)
	}
	if err := p.CanModify(ctx, old); err != nil {
		t.Errorf("open policy modify: %v", err)
	}
	if !p.GetClosedPeriod(ctx).IsZero() {
		t.Error("open policy has no closed period")
	}
}
