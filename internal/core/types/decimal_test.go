package types

import (
	"encoding/json"
	"testing"
)

func TestQuantityRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  int64 // scaled
	}{
		{"whole units", 5, 50_000},
		{"fractional", 2.5, 25_000},
		{"four decimals", 0.1234, 1_234},
		{"rounds fifth decimal", 0.12345, 1_235},
		{"negative", -3.25, -32_500},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQuantityFromFloat64(tt.input)
			if q.Int64Scaled() != tt.want {
				t.Errorf("scaled = %d, want %d", q.Int64Scaled(), tt.want)
			}
		})
	}
}

func TestQuantityString(t *testing.T) {
	tests := []struct {
		q    Quantity
		want string
	}{
		{50_000, "5.0000"},
		{25_000, "2.5000"},
		{1_234, "0.1234"},
		{-32_500, "-3.2500"},
		{0, "0.0000"},
	}

	for _, tt := range tests {
		if got := tt.q.String(); got != tt.want {
			t.Errorf("Quantity(%d).String() = %q, want %q", int64(tt.q), got, tt.want)
		}
	}
}

func TestQuantityUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Quantity
		wantErr bool
	}{
		{"number", `2.5`, 25_000, false},
		{"string", `"2.5"`, 25_000, false},
		{"integer", `7`, 70_000, false},
		{"negative", `-1.25`, -12_500, false},
		{"extra digits truncated", `0.123456`, 1_234, false},
		{"null", `null`, 0, false},
		{"exponent form", `1e2`, 1_000_000, false},
		{"garbage", `"abc"`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q Quantity
			err := json.Unmarshal([]byte(tt.input), &q)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if q != tt.want {
				t.Errorf("q = %d, want %d", int64(q), int64(tt.want))
			}
		})
	}
}

func TestQuantityMarshalJSON(t *testing.T) {
	b, err := json.Marshal(Quantity(25_000))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "2.5000" {
		t.Errorf("json = %s, want 2.5000", b)
	}
}

func TestMinorUnitsConversion(t *testing.T) {
	m := NewMinorUnitsFromMajor(123.45, 2)
	if m != 12345 {
		t.Errorf("minor = %d, want 12345", int64(m))
	}
	if got := m.ToMajor(2); got != 123.45 {
		t.Errorf("major = %v, want 123.45", got)
	}

	if !MinorUnits(-5).IsNegative() {
		t.Error("IsNegative failed")
	}
	if MinorUnits(-5).Abs() != 5 {
		t.Error("Abs failed")
	}
}
