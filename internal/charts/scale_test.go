package charts

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestLinearScale_Nice(t *testing.T) {
	tests := []struct {
		name         string
		d0, d1       float64
		want0, want1 float64
	}{
		{"already round hours", 1950, 2000, 1950, 2000},
		{"fractional rate", 1.5, 2.0, 1.5, 2.0},
		{"ragged unit interval", 0.123, 9.87, 0, 10},
		{"hours extent", 1607, 2031, 1600, 2050},
		{"negative growth", -5.7, 4.2, -6, 5},
		{"reversed", 9.87, 0.123, 10, 0},
		{"zero width", 42, 42, 42, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewLinearScale(tt.d0, tt.d1, 0, 100).Nice(defaultTickCount)
			got0, got1 := s.Domain()
			if diff := cmp.Diff([]float64{tt.want0, tt.want1}, []float64{got0, got1}, approx); diff != "" {
				t.Errorf("Nice domain mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLinearScale_Ticks(t *testing.T) {
	tests := []struct {
		name   string
		d0, d1 float64
		count  int
		want   []float64
	}{
		{"unit steps of two", 0, 10, 5, []float64{0, 2, 4, 6, 8, 10}},
		{"tenths", 1.5, 2.0, 5, []float64{1.5, 1.6, 1.7, 1.8, 1.9, 2.0}},
		{"hours", 1950, 2000, 5, []float64{1950, 1960, 1970, 1980, 1990, 2000}},
		{"single value", 3, 3, 10, []float64{3}},
		{"reversed", 10, 0, 5, []float64{10, 8, 6, 4, 2, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewLinearScale(tt.d0, tt.d1, 0, 1).Ticks(tt.count)
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("Ticks mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLinearScale_MapAndInvert(t *testing.T) {
	s := NewLinearScale(1950, 2000, 420, 20)

	if got := s.Map(1950); got != 420 {
		t.Errorf("Map(1950) = %v, want 420", got)
	}
	if got := s.Map(2000); got != 20 {
		t.Errorf("Map(2000) = %v, want 20", got)
	}
	if got := s.Map(1975); got != 220 {
		t.Errorf("Map(1975) = %v, want 220", got)
	}
	if got := s.Invert(220); got != 1975 {
		t.Errorf("Invert(220) = %v, want 1975", got)
	}

	flat := NewLinearScale(5, 5, 80, 720)
	if got := flat.Map(5); got != 400 {
		t.Errorf("Zero-width domain should map to range midpoint, got %v", got)
	}
}

func TestLinearScale_TickFormat(t *testing.T) {
	tests := []struct {
		name   string
		d0, d1 float64
		value  float64
		want   string
	}{
		{"thousands separator", 0, 10000, 2000, "2,000"},
		{"two decimals", 1.5, 2.0, 1.55, "1.55"},
		{"one decimal", 0, 1, 0.5, "0.5"},
		{"integer steps", 0, 100, 40, "40"},
		{"negative", -6, 6, -2, "-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format := NewLinearScale(tt.d0, tt.d1, 0, 1).TickFormat(defaultTickCount)
			if got := format(tt.value); got != tt.want {
				t.Errorf("format(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}

	if got := formatInteger(2001); got != "2001" {
		t.Errorf("formatInteger(2001) = %q, want 2001", got)
	}
}
