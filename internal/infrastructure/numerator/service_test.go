package numerator

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	corenumerator "voltbill/internal/core/numerator"
)

// Mock objects
type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

type mockQuerier struct {
	mu           sync.Mutex
	currentValue int64 // Simulates DB sequence value
	lastIncr     int64 // Track last increment passed
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Strict strategy passes (prefix string, year int) and increments by 1.
	// Cached strategy passes (key string, increment int64).
	var increment int64 = 1
	if len(args) == 2 {
		if val, ok := args[1].(int64); ok {
			increment = val
		}
	}

	m.currentValue += increment
	m.lastIncr = increment

	return &mockRow{val: m.currentValue}
}

func TestGetNextNumber_Strict(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig("TEST")

	// 1. First call
	num, err := svc.GetNextNumber(ctx, cfg, nil, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "TEST-2026-00001" { // mock starts at 1
		t.Errorf("expected TEST-2026-00001, got %s", num)
	}

	// 2. Second call
	num, err = svc.GetNextNumber(ctx, cfg, nil, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "TEST-2026-00002" {
		t.Errorf("expected TEST-2026-00002, got %s", num)
	}
}

func TestGetNextNumber_TimestampSegment(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()

	cfg := corenumerator.Config{
		Prefix:           "INV",
		IncludeTimestamp: true,
		PadWidth:         1,
		ResetPeriod:      "never",
	}

	num, err := svc.GetNextNumber(ctx, cfg, nil, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// INV-<6 digits of epoch ms>-<seq>
	parts := strings.Split(num, "-")
	if len(parts) != 3 {
		t.Fatalf("expected 3 segments, got %q", num)
	}
	if parts[0] != "INV" {
		t.Errorf("expected INV prefix, got %s", parts[0])
	}
	if len(parts[1]) != 6 {
		t.Errorf("expected 6-digit timestamp segment, got %s", parts[1])
	}
	if parts[2] != "1" {
		t.Errorf("expected sequence 1, got %s", parts[2])
	}
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig("ORD")

	opts := &corenumerator.Options{
		Strategy:  corenumerator.StrategyCached,
		RangeSize: 10,
	}

	// 1. First call - triggers DB fetch: DB current_val becomes 10, range is 1..10.
	num, err := svc.GetNextNumber(ctx, cfg, opts, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ORD-2026-00001" {
		t.Errorf("expected ORD-2026-00001, got %s", num)
	}

	// Check DB calls
	if q.currentValue != 10 {
		t.Errorf("expected DB value to be 10, got %d", q.currentValue)
	}

	// 2. Second call - should be from memory, DB must not change
	num, err = svc.GetNextNumber(ctx, cfg, opts, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ORD-2026-00002" {
		t.Errorf("expected ORD-2026-00002, got %s", num)
	}
	if q.currentValue != 10 {
		t.Errorf("expected DB value to stay 10, got %d", q.currentValue)
	}

	// 3. Exhaust range: we used 2, need 8 more to reach 10.
	for i := 0; i < 8; i++ {
		_, _ = svc.GetNextNumber(ctx, cfg, opts, time.Now())
	}

	// Next call crosses the boundary: DB adds 10 -> 20, next number is 11.
	num, err = svc.GetNextNumber(ctx, cfg, opts, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ORD-2026-00011" {
		t.Errorf("expected ORD-2026-00011, got %s", num)
	}
	if q.currentValue != 20 {
		t.Errorf("expected DB value to be 20, got %d", q.currentValue)
	}
}
