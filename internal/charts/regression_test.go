package charts

import (
	"errors"
	"math"
	"testing"
)

func TestComputeOLS(t *testing.T) {
	tests := []struct {
		name          string
		points        []Point
		wantSlope     float64
		wantIntercept float64
	}{
		{
			name:          "exact line through origin",
			points:        []Point{{1, 2}, {2, 4}, {3, 6}},
			wantSlope:     2,
			wantIntercept: 0,
		},
		{
			name:          "negative slope",
			points:        []Point{{0, 10}, {5, 5}, {10, 0}},
			wantSlope:     -1,
			wantIntercept: 10,
		},
		{
			name:          "noisy samples",
			points:        []Point{{1, 1}, {2, 3}, {3, 2}},
			wantSlope:     0.5,
			wantIntercept: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fit, err := ComputeOLS(tt.points)
			if err != nil {
				t.Fatalf("ComputeOLS failed: %v", err)
			}
			if math.Abs(fit.Slope-tt.wantSlope) > 1e-9 {
				t.Errorf("Slope = %v, want %v", fit.Slope, tt.wantSlope)
			}
			if math.Abs(fit.Intercept-tt.wantIntercept) > 1e-9 {
				t.Errorf("Intercept = %v, want %v", fit.Intercept, tt.wantIntercept)
			}
		})
	}
}

func TestComputeOLS_Degenerate(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
	}{
		{"constant x", []Point{{1800, 1}, {1800, 2}, {1800, 3}}},
		{"single point", []Point{{1800, 1}}},
		{"no points", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ComputeOLS(tt.points); !errors.Is(err, ErrDegenerateRegression) {
				t.Errorf("Expected ErrDegenerateRegression, got %v", err)
			}
		})
	}
}

func TestFitAt(t *testing.T) {
	fit := Fit{Slope: 2, Intercept: 1}
	if got := fit.At(3); got != 7 {
		t.Errorf("At(3) = %v, want 7", got)
	}
}

func TestInterpret(t *testing.T) {
	tests := []struct {
		r    float64
		want string
	}{
		{0.05, StrengthNegligible},
		{0.1, StrengthWeak},
		{0.29, StrengthWeak},
		{0.35, StrengthModerate},
		{0.5, StrengthStrong},
		{0.65, StrengthStrong},
		{0.7, StrengthVeryStrong},
		{0.95, StrengthVeryStrong},
		{-0.95, StrengthVeryStrong},
		{-0.2, StrengthWeak},
		{0, StrengthNegligible},
	}

	for _, tt := range tests {
		if got := Interpret(tt.r); got != tt.want {
			t.Errorf("Interpret(%v) = %q, want %q", tt.r, got, tt.want)
		}
	}
}
