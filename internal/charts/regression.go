package charts

import (
	"errors"
	"math"
)

// ErrDegenerateRegression is returned when every x value is the same and
// the least-squares slope is undefined
var ErrDegenerateRegression = errors.New("degenerate regression: constant x domain")

// Point is one (x, y) sample
type Point struct {
	X float64
	Y float64
}

// Fit is a fitted line y = Slope*x + Intercept
type Fit struct {
	Slope     float64
	Intercept float64
}

// At evaluates the fitted line at x
func (f Fit) At(x float64) float64 {
	return f.Slope*x + f.Intercept
}

// ComputeOLS fits an ordinary least squares line through points
func ComputeOLS(points []Point) (Fit, error) {
	if len(points) == 0 {
		return Fit{}, ErrDegenerateRegression
	}
	n := float64(len(points))
	var sumX, sumY, sumXY, sumX2 float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
		sumXY += p.X * p.Y
		sumX2 += p.X * p.X
	}

	denom := n*sumX2 - sumX*sumX
	if denom == 0 || constantX(points) {
		return Fit{}, ErrDegenerateRegression
	}
	slope := (n*sumXY - sumX*sumY) / denom
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		return Fit{}, ErrDegenerateRegression
	}
	return Fit{
		Slope:     slope,
		Intercept: (sumY - slope*sumX) / n,
	}, nil
}

// constantX reports whether every point shares one x value. Rounding can
// leave the denominator slightly off zero for large constant inputs.
func constantX(points []Point) bool {
	for _, p := range points[1:] {
		if p.X != points[0].X {
			return false
		}
	}
	return true
}

// extentX returns the min and max x of points
func extentX(points []Point) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		lo = math.Min(lo, p.X)
		hi = math.Max(hi, p.X)
	}
	return lo, hi
}
